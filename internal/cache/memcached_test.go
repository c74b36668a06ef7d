package cache

import (
	"reflect"
	"testing"
	"time"
)

// Both backends must satisfy the Cache interface.
var (
	_ Cache = (*MemoryCache)(nil)
	_ Cache = (*MemcachedCache)(nil)
)

// TestParseAddrs covers the comma-separated server list handling.
func TestParseAddrs(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"single", "localhost:11211", []string{"localhost:11211"}},
		{"multiple", "host1:11211,host2:11211", []string{"host1:11211", "host2:11211"}},
		{"whitespace trimmed", " host1:11211 , host2:11211 ", []string{"host1:11211", "host2:11211"}},
		{"empty entries dropped", "host1:11211,,", []string{"host1:11211"}},
		{"empty string", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseAddrs(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseAddrs(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

// TestMemcachedCache_Close verifies shutdown on a client that never
// connected is a no-op.
func TestMemcachedCache_Close(t *testing.T) {
	c, err := NewMemcachedCache("localhost:11211", 100*time.Millisecond, 2)
	if err != nil {
		t.Fatalf("NewMemcachedCache() error = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
