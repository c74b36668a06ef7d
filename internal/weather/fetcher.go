package weather

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/siweifamily/dashboard/internal/models"
	"github.com/siweifamily/dashboard/internal/observability"
)

// Per-location failure markers.
const (
	StatusNotAvailable = "N/A"
	StatusError        = "Err"
)

// Accepted layouts for the "current" timestamp; open-meteo emits minutes
// precision but has been seen with seconds as well.
var currentTimeLayouts = []string{"2006-01-02T15:04", "2006-01-02T15:04:05"}

const hourlyTimeLayout = "2006-01-02T15:04"

// probabilityWindow is how many hourly values, starting at the current
// hour, feed the max-probability computation.
const probabilityWindow = 5

// Fetcher produces one WeatherReading per configured location. Failures are
// isolated per location and never surface as errors.
type Fetcher struct {
	client    *Client
	locations []models.Location
	logger    *zap.Logger
}

// NewFetcher creates a Fetcher over the fixed location list.
func NewFetcher(client *Client, locations []models.Location, logger *zap.Logger) *Fetcher {
	return &Fetcher{client: client, locations: locations, logger: logger}
}

// Readings fetches every location in order. A location that fails keeps its
// documented marker while the others carry full readings.
func (f *Fetcher) Readings(ctx context.Context) []models.WeatherReading {
	readings := make([]models.WeatherReading, 0, len(f.locations))
	for _, loc := range f.locations {
		readings = append(readings, f.read(ctx, loc))
	}
	return readings
}

func (f *Fetcher) read(ctx context.Context, loc models.Location) models.WeatherReading {
	start := time.Now()
	fc, err := f.client.GetForecast(ctx, loc.Lat, loc.Lon)
	seconds := time.Since(start).Seconds()
	if err != nil {
		observability.RecordFeedFetch("weather", true, seconds)
		if f.logger != nil {
			f.logger.Warn("weather fetch failed", zap.String("location", loc.Name), zap.Error(err))
		}
		status := StatusError
		if errors.Is(err, ErrBadStatus) {
			status = StatusNotAvailable
		}
		return models.WeatherReading{
			Name:    loc.Name,
			Status:  status,
			Display: fmt.Sprintf("%s: %s", loc.Name, status),
		}
	}
	observability.RecordFeedFetch("weather", false, seconds)

	reading := models.WeatherReading{
		Name:        loc.Name,
		Temperature: fc.Current.Temperature,
		WeatherCode: fc.Current.WeatherCode,
	}

	// Best effort: when the hourly lookup fails the temperature still shows,
	// just without the precipitation annotation.
	if maxProb, ok := maxProbability(fc); ok {
		reading.HasRainInfo = true
		reading.MaxProbability = maxProb
		reading.Icon = Icon(fc.Current.WeatherCode, maxProb)
	}

	reading.Display = formatReading(reading)
	return reading
}

// maxProbability locates the current hour in the hourly series and returns
// the maximum of up to probabilityWindow consecutive probabilities.
func maxProbability(fc *Forecast) (int, bool) {
	cur, ok := parseCurrentTime(fc.Current.Time)
	if !ok {
		return 0, false
	}
	search := cur.Truncate(time.Hour).Format(hourlyTimeLayout)

	idx := -1
	for i, t := range fc.Hourly.Time {
		if t == search {
			idx = i
			break
		}
	}
	if idx < 0 || idx >= len(fc.Hourly.PrecipitationProbability) {
		return 0, false
	}

	end := idx + probabilityWindow
	if end > len(fc.Hourly.PrecipitationProbability) {
		end = len(fc.Hourly.PrecipitationProbability)
	}
	probs := fc.Hourly.PrecipitationProbability[idx:end]
	if len(probs) == 0 {
		return 0, false
	}

	max := probs[0]
	for _, p := range probs[1:] {
		if p > max {
			max = p
		}
	}
	return max, true
}

func parseCurrentTime(s string) (time.Time, bool) {
	for _, layout := range currentTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func formatReading(r models.WeatherReading) string {
	temp := strconv.FormatFloat(r.Temperature, 'f', -1, 64)
	if r.HasRainInfo {
		return fmt.Sprintf("%s: %s°C (%s%d%%)", padName(r.Name), temp, r.Icon, r.MaxProbability)
	}
	return fmt.Sprintf("%s: %s°C", padName(r.Name), temp)
}

// padName appends a fullwidth space to two-rune names so the CJK location
// column lines up with three-rune names. Display convention only.
func padName(name string) string {
	if utf8.RuneCountInString(name) == 2 {
		return name + "　"
	}
	return name
}
