package cache

import (
	"context"
	"time"
)

// Feed cache keys. Clock and commute results are never cached; they depend
// on the current instant.
const (
	KeyCurrency = "currency"
	KeyWeather  = "weather"
	KeyFuel     = "fuel"
)

// Cache stores JSON-encoded feed payloads with a per-entry TTL. Get returns
// the payload if present and not expired. DeleteAll drops every entry at
// once; it backs the dashboard's manual refresh action.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteAll(ctx context.Context) error
}
