package upload

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Janitor removes files left in the upload directory by crashed requests.
type Janitor struct {
	dir      string
	interval time.Duration
	maxAge   time.Duration
}

func NewJanitor(dir string, interval, maxAge time.Duration) *Janitor {
	return &Janitor{dir: dir, interval: interval, maxAge: maxAge}
}

// Start sweeps every interval until ctx is done. It blocks, so run it in a
// goroutine.
func (j *Janitor) Start(ctx context.Context) {
	slog.Info("upload janitor started", "dir", j.dir, "interval", j.interval, "max_age", j.maxAge)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("upload janitor stopped")
			return
		case now := <-ticker.C:
			removed, err := j.Sweep(now)
			if err != nil {
				slog.Warn("upload sweep failed", "error", err)
				continue
			}
			if removed > 0 {
				slog.Info("upload sweep removed stale files", "removed", removed)
			}
		}
	}
}

// Sweep deletes regular files last modified more than maxAge before now.
func (j *Janitor) Sweep(now time.Time) (int, error) {
	entries, err := os.ReadDir(j.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	removed := 0
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) <= j.maxAge {
			continue
		}
		path := filepath.Join(j.dir, entry.Name())
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			slog.Warn("failed to remove stale upload", "path", path, "error", err)
			continue
		}
		removed++
	}
	return removed, nil
}
