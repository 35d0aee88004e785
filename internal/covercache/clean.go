package covercache

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Clean removes cache files older than maxAge and returns how many were
// removed. A missing cache directory is not an error.
func (c *Cache) Clean(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(c.dir, entry.Name())); err != nil {
				slog.Warn("Failed to remove expired cover", "file", entry.Name(), "error", err)
				continue
			}
			removed++
		}
	}

	return removed, nil
}

// CleanAsync runs Clean in the background, logging the outcome. The
// plugin calls this at startup so a query is never blocked on cleanup.
func (c *Cache) CleanAsync(maxAge time.Duration) {
	go func() {
		removed, err := c.Clean(maxAge)
		if err != nil {
			slog.Warn("Cover cache cleanup failed", "error", err)
			return
		}
		if removed > 0 {
			slog.Debug("Cover cache cleaned", "removed", removed)
		}
	}()
}
