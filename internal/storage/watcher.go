package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports changes other processes make to the files of a
// FileStorage directory on the OS filesystem.
type Watcher struct {
	dir  string
	keys []string
	w    *fsnotify.Watcher
}

// NewWatcher starts watching dir for changes to the given keys. The
// directory is created if it does not exist yet.
func NewWatcher(dir string, keys ...string) (*Watcher, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file system watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	return &Watcher{dir: dir, keys: keys, w: w}, nil
}

// Run calls onChange with the key of every created, written, removed or
// renamed file until ctx is cancelled. The watcher is closed on return.
func (w *Watcher) Run(ctx context.Context, onChange func(key string)) {
	defer w.w.Close()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.w.Events:
			if !ok {
				return
			}
			key := filepath.Base(event.Name)
			if !slices.Contains(w.keys, key) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			slog.Debug("Storage key changed", "key", key, "op", event.Op.String())
			onChange(key)

		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			slog.Error("File system watcher error", "dir", w.dir, "error", err)
		}
	}
}
