package models

import "time"

// Tier is a discrete display classification conveying urgency, not a raw
// color value. The HTML layer maps tiers to CSS classes.
type Tier string

const (
	TierNeutral Tier = "white"
	TierGold    Tier = "gold"
	TierCyan    Tier = "cyan"
	TierRed     Tier = "red"
)

// WorldClock holds the three local times derived from the same instant,
// each formatted HH:MM:SS.
type WorldClock struct {
	Taiwan  string `json:"taiwan"`
	Boston  string `json:"boston"`
	Germany string `json:"germany"`
}

// CurrencyRates holds the three spot quotes, or a failure marker when the
// rate source could not be read. Error is empty on success.
type CurrencyRates struct {
	USD   string `json:"usd,omitempty"`
	EUR   string `json:"eur,omitempty"`
	JPY   string `json:"jpy,omitempty"`
	Error string `json:"error,omitempty"`
}

// WeatherReading is the per-location weather result. Status is empty on
// success, "N/A" on a non-success HTTP status and "Err" on any other
// failure. Icon and MaxProbability are omitted when the hourly lookup
// failed; Display always carries the final rendered line.
type WeatherReading struct {
	Name           string  `json:"name"`
	Temperature    float64 `json:"temperatureC,omitempty"`
	WeatherCode    int     `json:"weatherCode,omitempty"`
	Icon           string  `json:"icon,omitempty"`
	MaxProbability int     `json:"maxPrecipitationPct,omitempty"`
	HasRainInfo    bool    `json:"hasRainInfo"`
	Status         string  `json:"status,omitempty"`
	Display        string  `json:"display"`
}

// FuelPrices holds the three fuel-grade price strings. A grade that was not
// found in the scraped page stays "--". Error is set to the global failure
// marker (and the grades are meaningless) when the whole fetch failed.
type FuelPrices struct {
	Grade92 string `json:"grade92"`
	Grade95 string `json:"grade95"`
	Grade98 string `json:"grade98"`
	Error   string `json:"error,omitempty"`
}

// CommuteLeg is one direction of one tracked destination. DeltaMinutes is
// only meaningful when HasDelta is true (the duration text parsed to a
// positive minute count).
type CommuteLeg struct {
	Label        string `json:"label"`
	DurationText string `json:"durationText,omitempty"`
	DeltaMinutes int    `json:"deltaMinutes"`
	HasDelta     bool   `json:"hasDelta"`
	Tier         Tier   `json:"tier"`
	Display      string `json:"display"`
	MapLink      string `json:"mapLink"`
}

// CommuteGroup pairs the two legs for one tracked destination.
type CommuteGroup struct {
	Name     string     `json:"name"`
	Outbound CommuteLeg `json:"outbound"`
	Return   CommuteLeg `json:"return"`
}

// Location is a named weather coordinate.
type Location struct {
	Name string  `json:"name" yaml:"name"`
	Lat  float64 `json:"lat" yaml:"lat"`
	Lon  float64 `json:"lon" yaml:"lon"`
}

// Destination is a tracked commute target with operator-configured baseline
// travel times in minutes for each direction.
type Destination struct {
	Name             string `json:"name" yaml:"name"`
	Address          string `json:"address" yaml:"address"`
	ReturnLabel      string `json:"returnLabel" yaml:"return_label"`
	BaselineOutbound int    `json:"baselineOutbound" yaml:"baseline_outbound"`
	BaselineReturn   int    `json:"baselineReturn" yaml:"baseline_return"`
}

// Snapshot is one full dashboard evaluation.
type Snapshot struct {
	Clock     WorldClock       `json:"clock"`
	Currency  CurrencyRates    `json:"currency"`
	Weather   []WeatherReading `json:"weather"`
	Fuel      FuelPrices       `json:"fuel"`
	Commutes  []CommuteGroup   `json:"commutes"`
	Generated time.Time        `json:"generated"`
}
