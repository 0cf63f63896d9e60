package cache

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"paxboard/internal"
)

// Watcher invalidates a cached local source when its file changes.
// It watches the parent directory so that editors replacing the file by
// rename are noticed too.
type Watcher struct {
	cache    *TableCache
	source   string
	path     string
	watcher  *fsnotify.Watcher
	logger   *internal.Logger
	debounce time.Duration

	mu    sync.Mutex
	timer *time.Timer
	done  chan struct{}
}

// NewWatcher starts watching the file behind source
func NewWatcher(cache *TableCache, source string, logger *internal.Logger) (*Watcher, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	path, err := filepath.Abs(source)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", source, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	w := &Watcher{
		cache:    cache,
		source:   source,
		path:     path,
		watcher:  fw,
		logger:   logger.WithComponent("Watcher"),
		debounce: 200 * time.Millisecond,
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				w.logger.Debug("%s changed (%s)", w.source, event.Op)
				w.schedule()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error: %v", err)
		}
	}
}

// schedule collapses bursts of events into one invalidation
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() { w.cache.Invalidate(w.source) })
}

// Close stops watching.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return err
}
