package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounceInterval is how long the watcher waits for writes to
// settle before reloading.
const DefaultDebounceInterval = 100 * time.Millisecond

// Watcher reloads the global configuration when its file changes.
//
// The directory containing the file is watched rather than the file itself,
// so that editors which replace the file by renaming are handled.
type Watcher struct {
	path     string
	interval time.Duration
	onReload func(*Config)
	watcher  *fsnotify.Watcher
	logger   *slog.Logger

	mu    sync.Mutex
	timer *time.Timer
}

// NewWatcher creates a watcher for the configuration file at path. onReload
// is called with every successfully reloaded configuration.
func NewWatcher(path string, onReload func(*Config)) (*Watcher, error) {
	if path == "" {
		return nil, errors.New("config path is required")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path %q: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %q: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		path:     abs,
		interval: DefaultDebounceInterval,
		onReload: onReload,
		watcher:  fw,
		logger:   slog.Default().With("component", "config.watcher"),
	}, nil
}

// Run processes file events until ctx is cancelled. It closes the
// underlying fsnotify watcher on return.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stop()

	w.logger.Info("Config watcher started", "path", w.path)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Config watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("Config file event", "op", event.Op.String())
			w.schedule()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			w.logger.Error("Config watcher error", "error", err)
		}
	}
}

// schedule debounces reloads.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.interval, w.reload)
}

func (w *Watcher) reload() {
	cfg, err := ReloadConfig(w.path)
	if err != nil {
		w.logger.Error("Config reload failed, keeping previous configuration", "error", err)
		return
	}
	w.logger.Info("Config reloaded", "path", w.path)
	if w.onReload != nil {
		w.onReload(cfg)
	}
}

func (w *Watcher) stop() {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()

	if err := w.watcher.Close(); err != nil {
		w.logger.Warn("Failed to close config watcher", "error", err)
	}
}
