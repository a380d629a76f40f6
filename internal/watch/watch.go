// Package watch re-runs a callback when a file changes on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/segb/pkg/log"
)

// Watcher monitors a single file via fsnotify. The parent directory is
// watched so that files replaced by rename keep being followed.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   log.Logger

	mu    sync.Mutex
	timer *time.Timer
}

// New creates a Watcher for path. Bursts of events closer together than
// debounce trigger a single callback.
func New(path string, debounce time.Duration, logger log.Logger) *Watcher {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Watcher{path: filepath.Clean(path), debounce: debounce, logger: logger}
}

// Run blocks until ctx is cancelled, calling onChange after the file is
// written or recreated. Callbacks never overlap, and none is running or
// starts once Run has returned.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.logger.Debug("watching for changes", log.String("path", w.path))

	// cbMu serializes callbacks and lets Run wait out one in flight.
	var (
		cbMu    sync.Mutex
		stopped bool
	)
	fire := func() {
		cbMu.Lock()
		defer cbMu.Unlock()
		if stopped || ctx.Err() != nil {
			return
		}
		onChange(ctx)
	}
	defer func() {
		w.stopTimer()
		cbMu.Lock()
		stopped = true
		cbMu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.logger.Debug("file changed", log.String("op", event.Op.String()))
			w.schedule(fire)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", log.Err(err))
		}
	}
}

func (w *Watcher) schedule(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, fn)
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}
