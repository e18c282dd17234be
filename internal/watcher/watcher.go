// Package watcher provides file system watching with debouncing for the
// repository's ref state.
package watcher

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors .git for ref changes and sends notifications. HEAD
// moves on checkout, refs/ and packed-refs change on commit, fetch, tag
// and branch operations.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	gitDir    string
	debounce  time.Duration
	onChange  chan struct{}
	done      chan struct{}
}

// Config holds watcher configuration options.
type Config struct {
	GitDir      string
	DebounceDur time.Duration
}

// DefaultConfig returns sensible defaults for the watcher.
func DefaultConfig(gitDir string) Config {
	return Config{
		GitDir:      gitDir,
		DebounceDur: 500 * time.Millisecond,
	}
}

// New creates a new repository watcher.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsWatcher: fsw,
		gitDir:    cfg.GitDir,
		debounce:  cfg.DebounceDur,
		onChange:  make(chan struct{}, 1),
		done:      make(chan struct{}),
	}, nil
}

// Start begins watching the git directory. Returns a channel that
// receives a signal when the repository's refs change.
func (w *Watcher) Start() (<-chan struct{}, error) {
	// HEAD and packed-refs live directly in the git dir; loose refs in
	// refs/heads and refs/tags. Watching directories catches atomic
	// rename-into-place updates.
	dirs := []string{
		w.gitDir,
		filepath.Join(w.gitDir, "refs", "heads"),
		filepath.Join(w.gitDir, "refs", "tags"),
	}
	added := 0
	for _, dir := range dirs {
		if err := w.fsWatcher.Add(dir); err == nil {
			added++
		}
	}
	if added == 0 {
		return nil, fmt.Errorf("watching git dir %s: no watchable paths", w.gitDir)
	}

	go w.loop()

	return w.onChange, nil
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsWatcher.Close()
}

// loop processes file system events with debouncing.
func (w *Watcher) loop() {
	var (
		timer   *time.Timer
		pending bool
	)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			if !w.isRelevantEvent(event) {
				continue
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
				pending = true
			} else {
				if !timer.Stop() {
					// Drain the timer channel if it already fired
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
				pending = true
			}

		case <-func() <-chan time.Time {
			if timer != nil {
				return timer.C
			}
			return nil
		}():
			if pending {
				// Non-blocking send - drop if channel full
				select {
				case w.onChange <- struct{}{}:
				default:
				}
				pending = false
			}

		case _, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			// Keep watching; callers wrap the watcher if they need
			// error visibility.

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// isRelevantEvent checks if the event should trigger a refresh.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}

	base := filepath.Base(event.Name)
	switch base {
	case "HEAD", "packed-refs", "FETCH_HEAD", "ORIG_HEAD":
		return true
	}

	// Loose ref files under refs/heads or refs/tags; git writes them
	// via .lock temp files which we skip
	if strings.HasSuffix(base, ".lock") {
		return false
	}
	rel, err := filepath.Rel(w.gitDir, event.Name)
	if err != nil {
		return false
	}
	return strings.HasPrefix(rel, "refs"+string(filepath.Separator))
}
