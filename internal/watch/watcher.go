// Package watch re-runs repairs when target files change on disk. It is an
// adaptation of a directory watcher with debouncing: editors fire several
// filesystem events per save, and only the last one within the debounce
// window should trigger a repair.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher observes the directories containing the target files and invokes
// a callback for each (debounced) change to one of them.
type Watcher struct {
	fsw      *fsnotify.Watcher
	targets  map[string]string // cleaned absolute-ish path -> original path
	debounce time.Duration
	onChange func(path string)
	logger   *zap.Logger

	mu      sync.Mutex
	lastRun map[string]time.Time
	running bool

	stopCh chan struct{}
	doneCh chan struct{}
}

// New builds a watcher over the given target files. onChange receives the
// path as it was passed in targets.
func New(targets []string, debounce time.Duration, onChange func(string), logger *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	targetSet := make(map[string]string, len(targets))
	for _, t := range targets {
		targetSet[filepath.Clean(t)] = t
	}

	return &Watcher{
		fsw:      fsw,
		targets:  targetSet,
		debounce: debounce,
		onChange: onChange,
		logger:   logger,
		lastRun:  make(map[string]time.Time),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching. Non-blocking; the event loop runs in its own
// goroutine until Stop is called or ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	// Watch each distinct parent directory; fsnotify cannot watch a file
	// that an editor replaces via rename.
	dirs := make(map[string]struct{})
	for path := range w.targets {
		dirs[filepath.Dir(path)] = struct{}{}
	}
	for dir := range dirs {
		if err := w.fsw.Add(dir); err != nil {
			w.logger.Warn("watch failed", zap.String("dir", dir), zap.Error(err))
			continue
		}
		w.logger.Info("watching directory", zap.String("dir", dir))
	}

	go w.loop(ctx)
	return nil
}

// Stop shuts the watcher down and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	_ = w.fsw.Close()
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.doneCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}
	original, ok := w.targets[filepath.Clean(event.Name)]
	if !ok {
		return
	}
	if !w.shouldRun(original) {
		w.logger.Debug("debounced change", zap.String("path", original))
		return
	}
	w.logger.Info("target changed", zap.String("path", original), zap.String("op", event.Op.String()))
	w.onChange(original)
}

// shouldRun applies the debounce window per path.
func (w *Watcher) shouldRun(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	now := time.Now()
	if last, ok := w.lastRun[path]; ok && now.Sub(last) < w.debounce {
		return false
	}
	w.lastRun[path] = now
	return true
}
