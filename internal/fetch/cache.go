package fetch

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// DefaultCacheTTL is how long a cached payload stays acceptable as a
// fallback after a fetch failure.
const DefaultCacheTTL = 24 * time.Hour

// Cache stores the last good payload per source on disk. Staleness is
// judged by file modification time against the TTL.
type Cache struct {
	dir string
	ttl time.Duration
	log *zap.Logger
}

// NewCache creates a cache rooted at dir. The directory is created lazily
// on first save.
func NewCache(dir string, ttl time.Duration, log *zap.Logger) *Cache {
	if ttl == 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{dir: dir, ttl: ttl, log: log}
}

// Save writes a payload under the given cache name. Failures are logged,
// never propagated: caching is best effort.
func (c *Cache) Save(name, content string) {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		c.log.Warn("cache directory unavailable", zap.String("dir", c.dir), zap.Error(err))
		return
	}
	path := filepath.Join(c.dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		c.log.Warn("cache save failed", zap.String("path", path), zap.Error(err))
		return
	}
	c.log.Debug("cache saved", zap.String("path", path))
}

// Load returns the cached payload under name if it exists and is younger
// than the TTL.
func (c *Cache) Load(name string) (string, bool) {
	path := filepath.Join(c.dir, name)
	info, err := os.Stat(path)
	if err != nil {
		return "", false
	}

	age := time.Since(info.ModTime())
	if age > c.ttl {
		c.log.Warn("cache too old, ignoring",
			zap.String("path", path), zap.String("age", fmt.Sprintf("%.1fh", age.Hours())))
		return "", false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		c.log.Warn("cache read failed", zap.String("path", path), zap.Error(err))
		return "", false
	}
	return string(data), true
}
