package memory

import (
	"context"
	"sync"
	"time"

	"imoveis/internal/app/middleware"
)

type cacheEntry struct {
	payload   []byte
	expiresAt time.Time
}

// ResultCache is a process-local TTL cache for query results. Expired
// entries are dropped lazily on read and on Sweep.
type ResultCache struct {
	mu    sync.Mutex
	items map[string]cacheEntry
	gen   uint64
	now   func() time.Time
}

func NewResultCache(now func() time.Time) *ResultCache {
	if now == nil {
		now = time.Now
	}
	return &ResultCache{items: make(map[string]cacheEntry), now: now}
}

func (c *ResultCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.items[key]
	if !ok {
		return nil, false, nil
	}
	if !c.now().Before(entry.expiresAt) {
		delete(c.items, key)
		return nil, false, nil
	}
	return append([]byte(nil), entry.payload...), true, nil
}

func (c *ResultCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = cacheEntry{
		payload:   append([]byte(nil), payload...),
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

func (c *ResultCache) Purge(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]cacheEntry)
	c.gen++
	return nil
}

func (c *ResultCache) Generation(ctx context.Context) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen, nil
}

// Sweep removes expired entries and reports how many were dropped.
func (c *ResultCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	dropped := 0
	for key, entry := range c.items {
		if !now.Before(entry.expiresAt) {
			delete(c.items, key)
			dropped++
		}
	}
	return dropped
}

// RunSweeper calls Sweep every interval until ctx is done.
func (c *ResultCache) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Sweep()
		}
	}
}

func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

var _ middleware.GenerationalCache = (*ResultCache)(nil)
