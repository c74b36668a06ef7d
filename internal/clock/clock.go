// Package clock formats a single instant as the three family time zones.
package clock

import (
	"time"

	"github.com/siweifamily/dashboard/internal/models"
)

const timeLayout = "15:04:05"

// Clock converts instants to the Taiwan/Boston/Germany local times shown on
// the dashboard. Zone handles are resolved once at construction; when the
// time-zone database is unavailable the fixed offsets +8h/-5h/+1h apply.
// Reading never fails.
type Clock struct {
	taipei  *time.Location
	newYork *time.Location
	berlin  *time.Location
}

// New resolves the three zones, falling back to fixed offsets per zone when
// the tzdata lookup fails.
func New() *Clock {
	return &Clock{
		taipei:  loadZone("Asia/Taipei", 8*3600),
		newYork: loadZone("America/New_York", -5*3600),
		berlin:  loadZone("Europe/Berlin", 1*3600),
	}
}

func loadZone(name string, fallbackOffsetSec int) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone(name, fallbackOffsetSec)
	}
	return loc
}

// Reading formats the given instant in all three zones.
func (c *Clock) Reading(now time.Time) models.WorldClock {
	return models.WorldClock{
		Taiwan:  now.In(c.taipei).Format(timeLayout),
		Boston:  now.In(c.newYork).Format(timeLayout),
		Germany: now.In(c.berlin).Format(timeLayout),
	}
}
