package weather

// Display icons for the precipitation annotation.
const (
	IconSnow      = "❄️"
	IconStorm     = "⛈️"
	IconSun       = "☀️"
	IconCloud     = "☁️"
	IconLightRain = "🌦️"
	IconHeavyRain = "☔"
)

var (
	snowCodes  = map[int]struct{}{71: {}, 73: {}, 75: {}, 77: {}, 85: {}, 86: {}}
	stormCodes = map[int]struct{}{95: {}, 96: {}, 99: {}}
)

// Icon selects the display icon for a weather code and the maximum
// precipitation probability over the next few hours. Snow and thunderstorm
// codes take precedence over the probability thresholds; ties at exactly
// 10/40/70 resolve to the lower-intensity icon.
func Icon(weatherCode, maxProbability int) string {
	if _, ok := snowCodes[weatherCode]; ok {
		return IconSnow
	}
	if _, ok := stormCodes[weatherCode]; ok {
		return IconStorm
	}
	switch {
	case maxProbability <= 10:
		return IconSun
	case maxProbability <= 40:
		return IconCloud
	case maxProbability <= 70:
		return IconLightRain
	default:
		return IconHeavyRain
	}
}
