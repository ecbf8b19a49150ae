package fxrates

import (
	"context"
	"sync"
	"time"
)

type cacheEntry struct {
	rate      float64
	expiresAt time.Time
}

// CachedSource decorates a RateSource with a per-currency TTL cache, so a
// burst of revenue reports does not hammer the upstream rate API. Only
// successful lookups are cached.
type CachedSource struct {
	src RateSource
	ttl time.Duration

	mu    sync.RWMutex
	items map[string]cacheEntry
}

// NewCachedSource wraps src with the given entry TTL.
func NewCachedSource(src RateSource, ttl time.Duration) *CachedSource {
	return &CachedSource{
		src:   src,
		ttl:   ttl,
		items: make(map[string]cacheEntry),
	}
}

func (c *CachedSource) Rate(ctx context.Context, currencyCode string) (float64, error) {
	c.mu.RLock()
	entry, ok := c.items[currencyCode]
	c.mu.RUnlock()
	if ok && time.Now().Before(entry.expiresAt) {
		return entry.rate, nil
	}

	rate, err := c.src.Rate(ctx, currencyCode)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	c.items[currencyCode] = cacheEntry{rate: rate, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
	return rate, nil
}
