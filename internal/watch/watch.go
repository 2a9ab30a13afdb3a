// Package watch reruns a synchronization whenever an authoritative
// document changes on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const DefaultDebounce = 500 * time.Millisecond

// Watcher observes one directory and fires for a fixed set of file names.
// Bursts of events within the debounce window collapse into one call.
type Watcher struct {
	dir      string
	files    map[string]bool
	debounce time.Duration
	logger   *zap.Logger
}

func New(dir string, files []string, debounce time.Duration, logger *zap.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	set := make(map[string]bool, len(files))
	for _, f := range files {
		set[f] = true
	}
	return &Watcher{dir: dir, files: set, debounce: debounce, logger: logger}
}

// Run calls onChange after every settled burst of relevant events until ctx
// is done. Errors from onChange are logged, not returned.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context) error) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	// Editors often replace files by rename, so the directory is watched
	// rather than the files themselves.
	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	w.logger.Info("watching for source changes", zap.String("dir", w.dir))

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("source changed", zap.String("file", event.Name), zap.String("op", event.Op.String()))
			if pending && !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)
			pending = true

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))

		case <-timer.C:
			pending = false
			if err := onChange(ctx); err != nil {
				w.logger.Error("sync after change failed", zap.Error(err))
			}
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	return w.files[filepath.Base(event.Name)]
}
