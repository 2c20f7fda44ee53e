package config

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/logger"
)

// Watcher reloads a config file whenever it changes on disk. Each valid
// reload is delivered on Updates with CLI flags applied on top; invalid
// files are logged and skipped.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	updates chan *Config
	done    chan struct{}
	log     *zap.Logger
}

// Watch starts watching path. The parent directory is watched so that
// editors which replace the file on save are seen too.
func Watch(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	w := &Watcher{
		path:    abs,
		watcher: fw,
		updates: make(chan *Config, 1),
		done:    make(chan struct{}),
		log:     logger.Named("config"),
	}
	go w.run()
	return w, nil
}

// Updates delivers reloaded configs. Only the newest pending one is kept.
func (w *Watcher) Updates() <-chan *Config { return w.updates }

// Close stops watching.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("config watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	cfg := Default()
	if err := loadFromFile(cfg, w.path); err != nil {
		w.log.Warn("config reload failed", zap.String("path", w.path), zap.Error(err))
		return
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		w.log.Warn("reloaded config is invalid", zap.String("path", w.path), zap.Error(err))
		return
	}
	cfg.Path = w.path

	// Drop a stale pending update so the newest one wins.
	select {
	case <-w.updates:
	default:
	}
	w.updates <- cfg
	w.log.Info("config reloaded", zap.String("path", w.path))
}
