package fetch

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// ErrSourceUnavailable means both the live fetch and the cache fallback
// failed; the source contributes zero records to this run.
var ErrSourceUnavailable = errors.New("source unavailable and no fresh cache")

// Loader wraps a fetcher with bounded retries and the cache fallback. A
// total fetch failure degrades to the last good payload when it is fresh
// enough, else to an empty source — never to a crashed run.
type Loader struct {
	cache    *Cache
	attempts int
	delay    time.Duration
	log      *zap.Logger
}

// NewLoader creates a loader with the given retry budget.
func NewLoader(cache *Cache, attempts int, delay time.Duration, log *zap.Logger) *Loader {
	if attempts <= 0 {
		attempts = 3
	}
	return &Loader{cache: cache, attempts: attempts, delay: delay, log: log}
}

// Load fetches the URL with retries, saving the payload under cacheName on
// success. On exhausted retries it falls back to the cache; a stale or
// missing cache yields ErrSourceUnavailable.
func (l *Loader) Load(ctx context.Context, f Fetcher, url, cacheName string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= l.attempts; attempt++ {
		payload, err := f.Fetch(ctx, url)
		if err == nil {
			l.cache.Save(cacheName, payload)
			return payload, nil
		}
		lastErr = err
		l.log.Warn("fetch attempt failed",
			zap.String("url", url), zap.Int("attempt", attempt),
			zap.Int("max_attempts", l.attempts), zap.Error(err))

		if attempt < l.attempts {
			select {
			case <-ctx.Done():
				lastErr = ctx.Err()
				attempt = l.attempts
			case <-time.After(l.delay):
			}
		}
	}

	if payload, ok := l.cache.Load(cacheName); ok {
		l.log.Info("using cached payload after fetch failure",
			zap.String("url", url), zap.String("cache", cacheName))
		return payload, nil
	}

	l.log.Warn("source unavailable, treating as empty",
		zap.String("url", url), zap.Error(lastErr))
	return "", ErrSourceUnavailable
}
