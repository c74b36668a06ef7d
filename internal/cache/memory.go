package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache implements Cache in-process on top of go-cache. The janitor
// sweeps expired entries in the background; expired entries are also
// invisible to Get before the sweep runs.
type MemoryCache struct {
	store *gocache.Cache
}

// NewMemoryCache creates an in-memory cache. Entries carry their own TTL,
// so the default expiration is irrelevant; the janitor runs every minute.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		store: gocache.New(gocache.NoExpiration, time.Minute),
	}
}

// Get returns the cached payload for key if present and not expired.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if ctx.Err() != nil {
		return nil, false, ctx.Err()
	}
	v, ok := c.store.Get(key)
	if !ok {
		return nil, false, nil
	}
	data, ok := v.([]byte)
	if !ok {
		return nil, false, nil
	}
	return data, true, nil
}

// Set stores the payload under key for ttl.
func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	c.store.Set(key, value, ttl)
	return nil
}

// DeleteAll drops every cached entry.
func (c *MemoryCache) DeleteAll(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	c.store.Flush()
	return nil
}
