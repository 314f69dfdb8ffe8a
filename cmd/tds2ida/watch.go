package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// settleDelay groups the burst of writes a linker produces into one rebuild.
const settleDelay = 250 * time.Millisecond

// watch converts cfg.input once, then again after every change to it, until
// ctx is done. Conversion failures are logged and do not stop watching.
func watch(ctx context.Context, cfg config, stdout io.Writer, log *zap.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	// Watch the directory so that replacing the file is noticed too.
	dir := filepath.Dir(cfg.input)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	rebuild := func() {
		if err := convert(cfg, stdout, log); err != nil {
			log.Error("conversion failed", zap.String("input", cfg.input), zap.Error(err))
			return
		}
		log.Info("output updated", zap.String("input", cfg.input), zap.String("output", cfg.output))
	}

	rebuild()
	log.Info("watching for changes", zap.String("input", cfg.input))

	name := filepath.Base(cfg.input)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != name || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			log.Debug("input changed", zap.String("event", ev.Op.String()))

			if timer == nil {
				timer = time.NewTimer(settleDelay)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(settleDelay)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			rebuild()

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", zap.Error(err))
		}
	}
}
