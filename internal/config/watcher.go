package config

import (
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// Watcher republishes the config file under an atomic.Value whenever a
// Write/Rename event lands on its path, publishing the reparsed config
// behind an atomic.Value so readers never block on the watch goroutine.
type Watcher struct {
	path    string
	current atomic.Value // *Loaded
	logger  *slog.Logger
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewWatcher starts watching the directory containing the loaded
// config's path and seeds the current value with the initial load.
// Watching a config resolved from the built-in default (no file on
// disk) is a no-op: there is nothing to observe.
func NewWatcher(initial *Loaded, logger *slog.Logger) (*Watcher, error) {
	w := &Watcher{path: initial.Path, logger: logger, done: make(chan struct{})}
	w.current.Store(initial)

	if initial.Source != SourceFile {
		return w, nil
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(initial.Path)); err != nil {
		fw.Close()
		return nil, err
	}
	w.watcher = fw

	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.Warn("config watcher error", "error", err)
			}
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) reload() {
	loaded, err := Load(w.path)
	if err != nil {
		if w.logger != nil {
			w.logger.Warn("config hot-reload rejected", "path", w.path, "error", err)
		}
		return
	}
	w.current.Store(loaded)
	if w.logger != nil {
		w.logger.Info("config hot-reloaded", "path", w.path)
	}
}

// Current returns the most recently published config.
func (w *Watcher) Current() *Loaded {
	return w.current.Load().(*Loaded)
}

// Close stops the underlying filesystem watch, if any was started.
func (w *Watcher) Close() error {
	close(w.done)
	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}
