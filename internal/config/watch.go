package config

import (
	"github.com/dshills/multicaret/internal/config/watcher"
	"github.com/dshills/multicaret/internal/logging"
)

// Watcher reloads a configuration file when it changes.
type Watcher struct {
	w    *watcher.Watcher
	path string
	log  *logging.Logger
}

// Watch starts watching path. fn receives each configuration that loads
// and validates after a change; failures are logged and the previous
// configuration stays in effect.
func Watch(path string, log *logging.Logger, fn func(*Config)) (*Watcher, error) {
	if log == nil {
		log = logging.Nop()
	}
	log = log.WithComponent("config")

	w, err := watcher.New(watcher.WithErrorHandler(func(err error) {
		log.Error("watching %s: %v", path, err)
	}))
	if err != nil {
		return nil, err
	}
	cw := &Watcher{w: w, path: path, log: log}
	w.OnChange(func(ev watcher.Event) {
		if ev.Op == watcher.OpRemove || ev.Op == watcher.OpRename {
			log.Warn("config file %s: %s, keeping current settings", ev.Path, ev.Op)
			return
		}
		c, err := Load(path)
		if err != nil {
			log.Error("reloading %s: %v", path, err)
			return
		}
		log.Info("reloaded %s", path)
		fn(c)
	})
	if err := w.Watch(path); err != nil {
		_ = w.Close()
		return nil, err
	}
	return cw, nil
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.w.Close()
}
