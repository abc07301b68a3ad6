// Package configwatch watches the YAML configuration file for changes
// and applies the subset of settings that are safe to change without a
// process restart (supplier pool size) to a running supply chain.
package configwatch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/simpleg-eu/cp-config/internal/config"
	"github.com/simpleg-eu/cp-config/internal/logfields"
)

// Reloadable receives live-reloadable settings from a changed
// configuration document.
type Reloadable interface {
	SetSuppliersCount(count int)
}

// Watcher monitors a configuration file and pushes reloadable settings
// to a Reloadable target whenever it changes on disk.
type Watcher struct {
	path         string
	target       Reloadable
	watcher      *fsnotify.Watcher
	debounceTime time.Duration

	mu       sync.Mutex
	stopOnce sync.Once
	stopChan chan struct{}
}

// New creates a Watcher for the configuration file at path.
func New(path string, target Reloadable) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		fw.Close()
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	return &Watcher{
		path:         absPath,
		target:       target,
		watcher:      fw,
		debounceTime: 2 * time.Second,
		stopChan:     make(chan struct{}),
	}, nil
}

// Start begins watching the configuration directory in the background.
func (w *Watcher) Start(ctx context.Context) error {
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("watch config directory %s: %w", dir, err)
	}

	go w.loop(ctx)
	return nil
}

// Stop releases the underlying file watcher.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
		w.watcher.Close()
	})
}

func (w *Watcher) loop(ctx context.Context) {
	configFile := filepath.Base(w.path)
	var reloadTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != configFile {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			reloadTimer = time.AfterFunc(w.debounceTime, w.reload)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("configuration watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	cfg, err := config.Load(w.path)
	if err != nil {
		slog.Error("failed to reload configuration", logfields.Path(w.path), logfields.Error(err))
		return
	}

	w.target.SetSuppliersCount(int(cfg.ConfigSuppliersCount))
	slog.Info("configuration reloaded", logfields.Path(w.path), logfields.Count(int(cfg.ConfigSuppliersCount)))
}
