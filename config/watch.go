package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce coalesces the burst of events editors emit for one save.
const reloadDebounce = 100 * time.Millisecond

// Watcher reloads a configuration file when it changes on disk.
//
// The file's directory is watched rather than the file itself, so saves that
// replace the file through a rename are seen too. A reload that fails to load
// or validate is logged and the previous configuration stays in effect.
type Watcher struct {
	path     string
	load     func(path string) (*Config, error)
	onChange func(*Config)
	logger   *slog.Logger
	debounce time.Duration

	fsw  *fsnotify.Watcher
	done chan struct{}
}

// NewWatcher creates a [Watcher] for the file at path.
//
// Parameters:
//   - path: Configuration file to watch
//   - load: Reads and validates the file (Load if nil)
//   - onChange: Called with every successfully reloaded configuration
//   - logger: Logger for reload events
func NewWatcher(path string, load func(string) (*Config, error), onChange func(*Config), logger *slog.Logger) (*Watcher, error) {
	if onChange == nil {
		return nil, errors.New("onChange callback is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}
	if load == nil {
		load = Load
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		path:     abs,
		load:     load,
		onChange: onChange,
		logger:   logger,
		debounce: reloadDebounce,
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching until ctx is cancelled. It is non-blocking.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return fmt.Errorf("failed to watch config file: %w", err)
	}
	w.fsw = fsw

	go w.loop(ctx)

	w.logger.Info("watching configuration file", "path", w.path)
	return nil
}

// Done is closed once the watcher has stopped after its context ended.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)
	defer w.fsw.Close()

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.reload()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := w.load(w.path)
	if err != nil {
		w.logger.Error("failed to reload configuration", "path", w.path, "error", err)
		return
	}
	w.logger.Info("configuration reloaded", "path", w.path)
	w.onChange(cfg)
}
