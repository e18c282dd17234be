// Package config provides configuration types and defaults for refview.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config holds all configuration options for refview.
type Config struct {
	RepoPath    string        `mapstructure:"repo_path"`
	AutoRefresh bool          `mapstructure:"auto_refresh"`
	CommitLimit int           `mapstructure:"commit_limit"`

	// GitTimeoutSeconds bounds every background git subprocess. Zero
	// disables the deadline.
	GitTimeoutSeconds int `mapstructure:"git_timeout_seconds"`
	UI          UIConfig      `mapstructure:"ui"`
	Theme       ThemeConfig   `mapstructure:"theme"`
	Diff        DiffConfig    `mapstructure:"diff"`
	Cache       CacheConfig   `mapstructure:"cache"`
	History     HistoryConfig `mapstructure:"history"`
	Tracing     TracingConfig `mapstructure:"tracing"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	ShowStatusBar bool   `mapstructure:"show_status_bar"`
	MarkdownStyle string `mapstructure:"markdown_style"` // "dark" (default) or "light"
	DateFormat    string `mapstructure:"date_format"`    // Go reference layout for commit dates
}

// ThemeConfig holds theme customization options.
type ThemeConfig struct {
	// Mode forces light or dark mode. If empty, uses terminal detection.
	// Valid values: "light", "dark", ""
	Mode string `mapstructure:"mode"`

	// Colors allows overriding individual color tokens, either nested
	// or with quoted dot-notation keys:
	//   colors:
	//     diff:
	//       added: "#10B981"
	Colors map[string]any `mapstructure:"colors"`
}

// FlattenedColors returns the Colors map flattened to dot-notation keys.
// This handles both nested YAML structures and already-flat keys.
func (t ThemeConfig) FlattenedColors() map[string]string {
	result := make(map[string]string)
	flattenColors("", t.Colors, result)
	return result
}

func flattenColors(prefix string, m map[string]any, result map[string]string) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		switch val := v.(type) {
		case string:
			result[key] = val
		case map[string]any:
			flattenColors(key, val, result)
		case map[any]any:
			// YAML sometimes produces map[any]any instead of map[string]any
			converted := make(map[string]any)
			for mk, mv := range val {
				if strKey, ok := mk.(string); ok {
					converted[strKey] = mv
				}
			}
			flattenColors(key, converted, result)
		}
	}
}

// DiffConfig holds diff rendering options.
type DiffConfig struct {
	// Layout is the startup layout mode.
	// Valid values: "unified", "side-by-side", "split"
	Layout string `mapstructure:"layout"`

	// TabWidth is the number of columns a tab expands to.
	TabWidth int `mapstructure:"tab_width"`

	// WordDiff enables word-level highlighting inside changed lines.
	WordDiff bool `mapstructure:"word_diff"`

	// ShowFileList shows the file tree panel on diff open.
	ShowFileList bool `mapstructure:"show_file_list"`
}

// CacheConfig holds in-memory cache tuning.
type CacheConfig struct {
	Disabled   bool `mapstructure:"disabled"`
	TTLSeconds int  `mapstructure:"ttl_seconds"`
}

// HistoryConfig holds the browse-history database configuration.
type HistoryConfig struct {
	// Enabled controls whether navigation history is recorded.
	Enabled bool `mapstructure:"enabled"`

	// DBPath overrides the sqlite database location.
	// Default: ~/.config/refview/queries.db
	DBPath string `mapstructure:"db_path"`
}

// TracingConfig holds distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether tracing is active. Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/refview/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	SampleRate float64 `mapstructure:"sample_rate"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		AutoRefresh:       true,
		CommitLimit:       200,
		GitTimeoutSeconds: 10,
		UI: UIConfig{
			ShowStatusBar: true,
			MarkdownStyle: "dark",
			DateFormat:    "2006-01-02 15:04",
		},
		Diff: DiffConfig{
			Layout:       "unified",
			TabWidth:     4,
			WordDiff:     true,
			ShowFileList: true,
		},
		Cache: CacheConfig{
			Disabled:   false,
			TTLSeconds: 300,
		},
		History: HistoryConfig{
			Enabled: true,
		},
		Tracing: TracingConfig{
			Exporter:   "file",
			SampleRate: 1.0,
		},
	}
}

// ValidDiffLayouts lists the accepted diff layout names.
var ValidDiffLayouts = []string{"unified", "side-by-side", "split"}

// Validate checks configuration for errors.
func (c Config) Validate() error {
	if c.CommitLimit < 0 {
		return fmt.Errorf("commit_limit must not be negative, got %d", c.CommitLimit)
	}

	switch c.Diff.Layout {
	case "", "unified", "side-by-side", "split":
	default:
		return fmt.Errorf("invalid diff layout %q (must be one of %v)", c.Diff.Layout, ValidDiffLayouts)
	}

	if c.Diff.TabWidth < 0 || c.Diff.TabWidth > 16 {
		return fmt.Errorf("diff tab_width must be between 0 and 16, got %d", c.Diff.TabWidth)
	}

	switch c.Theme.Mode {
	case "", "light", "dark":
	default:
		return fmt.Errorf("invalid theme mode %q (must be \"light\", \"dark\", or empty)", c.Theme.Mode)
	}

	switch c.UI.MarkdownStyle {
	case "", "dark", "light":
	default:
		return fmt.Errorf("invalid markdown_style %q (must be \"dark\" or \"light\")", c.UI.MarkdownStyle)
	}

	return nil
}

// DefaultHistoryDBPath returns the default path for the query history
// database. Returns ~/.config/refview/queries.db or empty string if home
// dir unavailable.
func DefaultHistoryDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "refview", "queries.db")
}

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/refview/traces/traces.jsonl or empty string if home dir unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "refview", "traces", "traces.jsonl")
}
