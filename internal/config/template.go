package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigTemplate returns the commented config file written on
// first run. Kept in sync with Default() by hand; the values here must
// match what Default() returns so a fresh file changes nothing.
func DefaultConfigTemplate() string {
	return `# refview configuration

# Maximum commits loaded per ref. 0 means no limit.
commit_limit: 200

# Reload automatically when the repository changes on disk.
auto_refresh: true

# Kill background git commands after this many seconds. 0 disables.
git_timeout_seconds: 10

ui:
  show_status_bar: true
  # "dark" or "light"
  markdown_style: dark
  # Go reference layout for absolute commit dates
  date_format: "2006-01-02 15:04"

# theme:
#   mode: dark
#   colors:
#     diff:
#       added: "#10B981"
#       removed: "#EF4444"

diff:
  # "unified", "side-by-side" or "split"
  layout: unified
  tab_width: 4
  word_diff: true
  show_file_list: true

cache:
  disabled: false
  ttl_seconds: 300

history:
  enabled: true
  # db_path: ~/.config/refview/queries.db

tracing:
  enabled: false
  # "none", "file", "stdout" or "otlp"
  exporter: file
  sample_rate: 1.0
`
}

// WriteDefault creates a config file at the given path with default
// settings and comments. Creates the parent directory if needed.
func WriteDefault(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
