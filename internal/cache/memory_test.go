package cache

import (
	"context"
	"testing"
	"time"
)

// TestMemoryCache_GetSet verifies that Set stores values and Get retrieves
// them with the expected payload.
func TestMemoryCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	if err := c.Set(ctx, KeyFuel, []byte("92:31.0"), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, ok, err := c.Get(ctx, KeyFuel)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !ok {
		t.Fatal("Get() ok = false, want true")
	}
	if string(got) != "92:31.0" {
		t.Errorf("Get() = %q, want %q", got, "92:31.0")
	}
}

// TestMemoryCache_Get_Miss verifies that Get returns ok=false when the
// requested key has never been stored.
func TestMemoryCache_Get_Miss(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	_, ok, err := c.Get(ctx, "nonexistent")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok {
		t.Error("Get() ok = true, want false for miss")
	}
}

// TestMemoryCache_Get_Expired verifies that a value stored at T is invisible
// once its TTL has elapsed.
func TestMemoryCache_Get_Expired(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	if err := c.Set(ctx, KeyCurrency, []byte("usd"), time.Millisecond); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	_, ok, err := c.Get(ctx, KeyCurrency)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok {
		t.Error("Get() ok = true, want false for expired entry")
	}
}

// TestMemoryCache_Get_WithinTTL verifies that a value re-requested before
// its TTL has elapsed returns the same cached payload.
func TestMemoryCache_Get_WithinTTL(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	if err := c.Set(ctx, KeyWeather, []byte("first"), time.Hour); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	for i := 0; i < 3; i++ {
		got, ok, err := c.Get(ctx, KeyWeather)
		if err != nil || !ok {
			t.Fatalf("Get() = ok %v, err %v, want hit", ok, err)
		}
		if string(got) != "first" {
			t.Errorf("Get() = %q, want %q", got, "first")
		}
	}
}

// TestMemoryCache_DeleteAll verifies that explicit invalidation forces a
// miss on every key regardless of remaining TTL.
func TestMemoryCache_DeleteAll(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	for _, key := range []string{KeyCurrency, KeyWeather, KeyFuel} {
		if err := c.Set(ctx, key, []byte(key), time.Hour); err != nil {
			t.Fatalf("Set(%s) error = %v", key, err)
		}
	}

	if err := c.DeleteAll(ctx); err != nil {
		t.Fatalf("DeleteAll() error = %v", err)
	}

	for _, key := range []string{KeyCurrency, KeyWeather, KeyFuel} {
		if _, ok, _ := c.Get(ctx, key); ok {
			t.Errorf("Get(%s) ok = true after DeleteAll, want false", key)
		}
	}
}

// TestMemoryCache_ContextCanceled verifies that operations respect an
// already-canceled context.
func TestMemoryCache_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := NewMemoryCache()

	if _, _, err := c.Get(ctx, KeyFuel); err == nil {
		t.Error("Get() error = nil, want context error")
	}
	if err := c.Set(ctx, KeyFuel, []byte("x"), time.Minute); err == nil {
		t.Error("Set() error = nil, want context error")
	}
}
