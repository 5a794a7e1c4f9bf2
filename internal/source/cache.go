package source

import (
	"context"
	"sync"
	"time"
)

// Cache wraps Load with a per-source TTL so repeated dashboard requests within
// the window reuse the in-memory table instead of re-fetching.
type Cache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	table     *RawTable
	fetchedAt time.Time
}

// NewCache returns a Cache with the given TTL. A zero TTL disables caching.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// Load returns the table for src, fetching at most once per TTL window.
// Failed loads are not cached.
func (c *Cache) Load(ctx context.Context, src string) (*RawTable, error) {
	c.mu.Lock()
	if e, ok := c.entries[src]; ok && c.ttl > 0 && c.now().Sub(e.fetchedAt) < c.ttl {
		c.mu.Unlock()
		return e.table, nil
	}
	c.mu.Unlock()

	table, err := Load(ctx, src)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[src] = cacheEntry{table: table, fetchedAt: c.now()}
	c.mu.Unlock()
	return table, nil
}

// Invalidate drops the cached entry for src, forcing the next Load to re-fetch.
func (c *Cache) Invalidate(src string) {
	c.mu.Lock()
	delete(c.entries, src)
	c.mu.Unlock()
}
