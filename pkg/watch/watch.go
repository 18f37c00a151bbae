// Package watch reloads a note store when another process rewrites its
// storage files.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce coalesces bursts of filesystem events into one reload.
const DefaultDebounce = 100 * time.Millisecond

// Reloader is satisfied by *notes.Store.
type Reloader interface {
	Reload(ctx context.Context) (bool, error)
}

// Watcher observes a set of files and calls Reload after they change.
type Watcher struct {
	watcher  *fsnotify.Watcher
	target   Reloader
	names    map[string]bool
	debounce time.Duration
	logger   *zap.Logger

	mu    sync.Mutex
	timer *time.Timer

	cancel context.CancelFunc
	done   chan struct{}
}

// Options tunes a Watcher.
type Options struct {
	Debounce time.Duration
	Logger   *zap.Logger
}

// Start watches files (by their parent directories, so atomic renames are
// seen) and reloads target after each debounced burst of changes.
func Start(ctx context.Context, files []string, target Reloader, opts Options) (*Watcher, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		watcher:  fw,
		target:   target,
		names:    make(map[string]bool),
		debounce: opts.Debounce,
		logger:   opts.Logger,
		done:     make(chan struct{}),
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if w.logger == nil {
		w.logger = zap.NewNop()
	}

	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to resolve '%s': %w", f, err)
		}
		w.names[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to watch '%s': %w", dir, err)
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	go w.run(runCtx)
	return w, nil
}

// Close stops watching and waits for the event loop to exit.
func (w *Watcher) Close() error {
	w.cancel()
	<-w.done

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return nil
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.names[filepath.Clean(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule(ctx)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		if ctx.Err() != nil {
			return
		}
		changed, err := w.target.Reload(ctx)
		if err != nil {
			w.logger.Warn("failed to reload state after external change", zap.Error(err))
			return
		}
		if changed {
			w.logger.Debug("reloaded state after external change")
		}
	})
}
