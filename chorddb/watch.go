package chorddb

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a database file whenever it changes on disk.
type Watcher struct {
	Path     string
	Debounce time.Duration
	OnReload func(*DB)
	Logger   *slog.Logger
}

// Run blocks until ctx is done. The parent directory is watched rather than
// the file so editors that save by rename are still seen. A file that fails
// to parse is logged and the previous database stays in use.
func (w *Watcher) Run(ctx context.Context) error {
	logger := w.Logger
	if logger == nil {
		logger = slog.Default()
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = 250 * time.Millisecond
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("chorddb: watcher: %w", err)
	}
	defer fw.Close()

	abs, err := filepath.Abs(w.Path)
	if err != nil {
		return fmt.Errorf("chorddb: watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("chorddb: watch %s: %w", filepath.Dir(abs), err)
	}
	logger.Info("chorddb: watching", "path", abs)

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				logger.Debug("chorddb: change", "op", ev.Op.String())
				timer.Reset(debounce)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("chorddb: watcher error", "err", err)
		case <-timer.C:
			db, err := LoadFile(abs)
			if err != nil {
				logger.Error("chorddb: reload failed, keeping previous database", "path", abs, "err", err)
				continue
			}
			logger.Info("chorddb: reloaded", "path", abs, "keys", len(db.Keys()))
			if w.OnReload != nil {
				w.OnReload(db)
			}
		}
	}
}
