package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// TuningWatcher watches the tuning file and swaps the engine settings into
// the Tuning holder when it changes. A reload that fails validation keeps
// the previous settings.
type TuningWatcher struct {
	path    string
	tuning  *Tuning
	watcher *fsnotify.Watcher
	logger  *zap.Logger
	stopCh  chan struct{}
}

// NewTuningWatcher creates a watcher for the given tuning file
func NewTuningWatcher(path string, tuning *Tuning, logger *zap.Logger) (*TuningWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch tuning file: %w", err)
	}

	// Editors often replace the file atomically via rename, which drops the
	// original watch. Watching the directory catches those.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		logger.Warn("Failed to watch tuning directory", zap.Error(err))
	}

	return &TuningWatcher{
		path:    path,
		tuning:  tuning,
		watcher: watcher,
		logger:  logger,
		stopCh:  make(chan struct{}),
	}, nil
}

// Start begins watching for tuning changes
func (w *TuningWatcher) Start() {
	go w.watchLoop()
	w.logger.Info("Tuning watcher started", zap.String("path", w.path))
}

// Stop stops the watcher
func (w *TuningWatcher) Stop() {
	close(w.stopCh)
	w.watcher.Close()
	w.logger.Info("Tuning watcher stopped")
}

func (w *TuningWatcher) watchLoop() {
	var debounce *time.Timer
	const debounceDuration = 100 * time.Millisecond

	for {
		select {
		case <-w.stopCh:
			if debounce != nil {
				debounce.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDuration, w.reload)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Tuning watcher error", zap.Error(err))
		}
	}
}

func (w *TuningWatcher) reload() {
	settings, err := LoadEngineSettings(w.path)
	if err != nil {
		w.logger.Warn("Tuning reload rejected, keeping previous settings",
			zap.String("path", w.path),
			zap.Error(err),
		)
		return
	}

	w.tuning.Swap(settings)
	w.logger.Info("Tuning settings reloaded", zap.String("path", w.path))
}
