// Package watcher observes the log root with fsnotify and reports debounced changes.
package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 400 * time.Millisecond

// Watcher watches the log root recursively and invokes onChange for log file
// writes, creates, and removes. New subdirectories (zones, clients, apps
// appearing at runtime) are picked up automatically.
type Watcher struct {
	root      string
	match     func(path string) bool
	onChange  func(path string)
	debounce  time.Duration
	logger    *zap.Logger
	watcher   *fsnotify.Watcher
	mu        sync.Mutex
	debounced map[string]*time.Timer
	done      chan struct{}
	started   bool
	stopOnce  sync.Once
}

// New creates a watcher over root. match filters which files count as log
// files (nil = all); onChange fires once per changed path after debouncing.
func New(root string, match func(path string) bool, onChange func(path string), logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		root:      filepath.Clean(root),
		match:     match,
		onChange:  onChange,
		debounce:  defaultDebounce,
		logger:    logger,
		debounced: make(map[string]*time.Timer),
		done:      make(chan struct{}),
	}
}

// Start begins watching. It runs until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return nil
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return err
	}
	w.watcher = fsw
	w.started = true
	w.done = make(chan struct{})
	w.stopOnce = sync.Once{}
	if err := w.addTreeLocked(w.root); err != nil {
		_ = fsw.Close()
		w.watcher = nil
		w.started = false
		w.mu.Unlock()
		return err
	}
	w.mu.Unlock()

	w.logger.Debug("log watcher started", zap.String("root", w.root))
	go w.run(ctx, fsw, w.done)
	return nil
}

// run drains events until the context ends or Stop closes done. fsw and done
// are captured per Start so a restarted watcher never races an old goroutine.
func (w *Watcher) run(ctx context.Context, fsw *fsnotify.Watcher, done chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-done:
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			if err != nil {
				w.logger.Debug("log watcher error", zap.Error(err))
			}
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	path := ev.Name
	switch {
	case ev.Op.Has(fsnotify.Create), ev.Op.Has(fsnotify.Write):
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			w.mu.Lock()
			if w.watcher != nil {
				if err := w.addTreeLocked(path); err != nil {
					w.logger.Debug("log watcher failed to add directory", zap.String("path", path), zap.Error(err))
				}
			}
			w.mu.Unlock()
			return
		}
		if w.matches(path) {
			w.scheduleChange(path)
		}
	case ev.Op.Has(fsnotify.Remove), ev.Op.Has(fsnotify.Rename):
		w.cancelPending(path)
		if w.matches(path) && w.onChange != nil {
			w.onChange(path)
		}
	}
}

func (w *Watcher) matches(path string) bool {
	return w.match == nil || w.match(path)
}

// scheduleChange coalesces rapid writes to the same file into one callback.
func (w *Watcher) scheduleChange(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.debounced[path]; ok {
		t.Stop()
	}
	w.debounced[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.debounced, path)
		w.mu.Unlock()
		w.logger.Debug("log file changed", zap.String("path", path))
		if w.onChange != nil {
			w.onChange(path)
		}
	})
}

func (w *Watcher) cancelPending(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.debounced[path]; ok {
		t.Stop()
		delete(w.debounced, path)
	}
}

// addTreeLocked registers root and every subdirectory with the fsnotify
// watcher, creating the root if it does not exist yet.
func (w *Watcher) addTreeLocked(root string) error {
	if _, err := os.Stat(root); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		if err := os.MkdirAll(root, 0755); err != nil {
			return err
		}
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return w.watcher.Add(path)
	})
}

// Root returns the watched log root.
func (w *Watcher) Root() string {
	return w.root
}

// Stop stops the watcher and releases resources.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.started || w.watcher == nil {
		w.mu.Unlock()
		return
	}
	for path, t := range w.debounced {
		t.Stop()
		delete(w.debounced, path)
	}
	_ = w.watcher.Close()
	w.watcher = nil
	w.started = false
	w.stopOnce.Do(func() { close(w.done) })
	w.mu.Unlock()
}
