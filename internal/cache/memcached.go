package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
)

const (
	keyPrefix = "dashboard:"
	epochKey  = keyPrefix + "epoch"
)

// MemcachedCache implements Cache on memcached, shared across processes.
// DeleteAll is implemented with a namespace epoch rather than flush_all:
// every payload key embeds the current epoch, and bumping the epoch orphans
// all existing entries (memcached evicts them by LRU/TTL).
type MemcachedCache struct {
	client *memcache.Client
}

// NewMemcachedCache creates a MemcachedCache. addrs is a comma-separated
// list (e.g. "localhost:11211" or "host1:11211,host2:11211"). timeout and
// maxIdleConns configure the client; both use package defaults if zero.
func NewMemcachedCache(addrs string, timeout time.Duration, maxIdleConns int) (*MemcachedCache, error) {
	servers := parseAddrs(addrs)
	if len(servers) == 0 {
		servers = []string{"localhost:11211"}
	}
	client := memcache.New(servers...)
	if timeout > 0 {
		client.Timeout = timeout
	}
	if maxIdleConns > 0 {
		client.MaxIdleConns = maxIdleConns
	}
	return &MemcachedCache{client: client}, nil
}

func parseAddrs(s string) []string {
	var out []string
	for _, a := range strings.Split(s, ",") {
		a = strings.TrimSpace(a)
		if a != "" {
			out = append(out, a)
		}
	}
	return out
}

func (c *MemcachedCache) epoch() uint64 {
	item, err := c.client.Get(epochKey)
	if err != nil {
		return 0
	}
	var e uint64
	if _, err := fmt.Sscanf(string(item.Value), "%d", &e); err != nil {
		return 0
	}
	return e
}

func (c *MemcachedCache) key(k string) string {
	return fmt.Sprintf("%s%d:%s", keyPrefix, c.epoch(), k)
}

// Get implements Cache.Get. Returns false, nil on cache miss; false, err on error.
func (c *MemcachedCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if ctx.Err() != nil {
		return nil, false, ctx.Err()
	}
	item, err := c.client.Get(c.key(key))
	if err != nil {
		if err == memcache.ErrCacheMiss {
			return nil, false, nil
		}
		return nil, false, err
	}
	return item.Value, true, nil
}

// Set implements Cache.Set.
func (c *MemcachedCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	expSec := int32(ttl.Seconds())
	const maxRelativeExp = 30 * 24 * 60 * 60 // 30 days
	if expSec <= 0 || expSec > maxRelativeExp {
		expSec = 3600
	}
	return c.client.Set(&memcache.Item{
		Key:        c.key(key),
		Value:      value,
		Expiration: expSec,
	})
}

// DeleteAll bumps the namespace epoch, orphaning every cached entry.
func (c *MemcachedCache) DeleteAll(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if _, err := c.client.Increment(epochKey, 1); err != nil {
		if err != memcache.ErrCacheMiss {
			return err
		}
		return c.client.Set(&memcache.Item{Key: epochKey, Value: []byte("1")})
	}
	return nil
}

// Ping checks if memcached is reachable. Used for health checks.
func (c *MemcachedCache) Ping() error {
	return c.client.Ping()
}

// Close releases idle connections. Called on shutdown.
func (c *MemcachedCache) Close() error {
	return c.client.Close()
}
