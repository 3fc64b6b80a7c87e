package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// reloadDelay coalesces the bursts of events editors emit for one save.
const reloadDelay = 100 * time.Millisecond

// Watch reloads the config file at path whenever it changes and sends each
// valid result on the returned channel. Invalid files are logged and
// skipped. The channel holds at most the latest config and is closed when
// ctx is done.
func Watch(ctx context.Context, path string, log *zap.Logger) (<-chan *Config, error) {
	if log == nil {
		log = zap.NewNop()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch config: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch config: %w", err)
	}
	// Watch the directory so atomic rename-on-save is seen.
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch config: %w", err)
	}

	out := make(chan *Config, 1)
	go watchLoop(ctx, w, abs, log, out)
	return out, nil
}

func watchLoop(ctx context.Context, w *fsnotify.Watcher, path string, log *zap.Logger, out chan *Config) {
	defer close(out)
	defer w.Close()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDelay)
			} else {
				timer.Reset(reloadDelay)
			}
			fire = timer.C

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Warn("config watcher error", zap.Error(err))

		case <-fire:
			fire = nil
			cfg, err := LoadFile(path)
			if err != nil {
				log.Warn("config reload rejected", zap.String("path", path), zap.Error(err))
				continue
			}
			log.Info("config reloaded", zap.String("path", path))
			publish(out, cfg)
		}
	}
}

// publish replaces any unconsumed config with cfg.
func publish(out chan *Config, cfg *Config) {
	select {
	case <-out:
	default:
	}
	out <- cfg
}
