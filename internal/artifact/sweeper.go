package artifact

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultSweepInterval = 5 * time.Minute

// Sweep watches the upload directory and removes transient files older than
// ttl. The pipeline deletes its own artifacts after transcription; the
// sweeper only collects orphans left behind by crashed requests. It runs
// until ctx is cancelled.
func (s *Store) Sweep(ctx context.Context, ttl, interval time.Duration, logger *slog.Logger) error {
	if interval <= 0 {
		interval = defaultSweepInterval
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(s.root); err != nil {
		return err
	}

	// seen tracks when each file was first observed, seeded from disk so a
	// restart still collects pre-existing orphans.
	seen := make(map[string]time.Time)
	if entries, err := os.ReadDir(s.root); err == nil {
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			first := time.Now()
			if info, infoErr := e.Info(); infoErr == nil {
				first = info.ModTime()
			}
			seen[filepath.Join(s.root, e.Name())] = first
		}
	}

	logger.Info("sweeper: started", slog.String("root", s.root), slog.Duration("ttl", ttl))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("sweeper: stopped")
			return nil

		case <-ticker.C:
			cutoff := time.Now().Add(-ttl)
			for path, first := range seen {
				if first.After(cutoff) {
					continue
				}
				if err := s.Remove(path); err != nil {
					logger.Warn("sweeper: remove failed", slog.String("path", path), slog.String("error", err.Error()))
					continue
				}
				delete(seen, path)
				logger.Debug("sweeper: removed stale upload", slog.String("path", path))
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			switch {
			case ev.Op&fsnotify.Create != 0:
				seen[ev.Name] = time.Now()
			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				delete(seen, ev.Name)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("sweeper: watch error", slog.String("error", watchErr.Error()))
		}
	}
}
