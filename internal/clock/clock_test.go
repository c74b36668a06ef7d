package clock

import (
	"testing"
	"time"
)

// TestClock_Reading verifies the three local times derived from one UTC
// instant. 2024-01-15 12:00:00 UTC falls in Boston's EST (-5) and Germany's
// CET (+1), so the tzdata and fixed-offset paths agree.
func TestClock_Reading(t *testing.T) {
	c := New()
	instant := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	got := c.Reading(instant)

	if got.Taiwan != "20:00:00" {
		t.Errorf("Taiwan = %q, want %q", got.Taiwan, "20:00:00")
	}
	if got.Boston != "07:00:00" {
		t.Errorf("Boston = %q, want %q", got.Boston, "07:00:00")
	}
	if got.Germany != "13:00:00" {
		t.Errorf("Germany = %q, want %q", got.Germany, "13:00:00")
	}
}

// TestClock_Reading_SameInstant verifies that all three strings come from
// the same instant: seconds must match across zones (all three offsets are
// whole hours in January).
func TestClock_Reading_SameInstant(t *testing.T) {
	c := New()
	instant := time.Date(2024, 1, 15, 3, 24, 57, 0, time.UTC)

	got := c.Reading(instant)
	for _, s := range []string{got.Taiwan, got.Boston, got.Germany} {
		if len(s) != 8 {
			t.Fatalf("time string %q not HH:MM:SS", s)
		}
		if s[3:] != "24:57" {
			t.Errorf("minutes/seconds = %q, want 24:57", s[3:])
		}
	}
}

// TestLoadZone_Fallback verifies the fixed-offset fallback for an unknown
// zone name.
func TestLoadZone_Fallback(t *testing.T) {
	loc := loadZone("Not/AZone", 8*3600)
	instant := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	if got := instant.In(loc).Format(timeLayout); got != "20:00:00" {
		t.Errorf("fallback zone time = %q, want %q", got, "20:00:00")
	}
}
