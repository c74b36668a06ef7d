package weather

import "testing"

// TestIcon covers the precedence rules and the probability threshold
// boundaries: snow and storm codes win over any probability, and ties at
// exactly 10/40/70 resolve to the lower-intensity icon.
func TestIcon(t *testing.T) {
	tests := []struct {
		name        string
		weatherCode int
		maxProb     int
		want        string
	}{
		{"snow code wins over high probability", 71, 95, IconSnow},
		{"snow code 86", 86, 0, IconSnow},
		{"storm code wins over low probability", 95, 0, IconStorm},
		{"storm code 99", 99, 100, IconStorm},
		{"clear at zero", 0, 0, IconSun},
		{"sun at boundary 10", 61, 10, IconSun},
		{"cloud above 10", 61, 11, IconCloud},
		{"cloud at boundary 40", 61, 40, IconCloud},
		{"light rain above 40", 61, 41, IconLightRain},
		{"light rain mid", 61, 55, IconLightRain},
		{"light rain at boundary 70", 61, 70, IconLightRain},
		{"heavy rain above 70", 61, 71, IconHeavyRain},
		{"heavy rain at 100", 61, 100, IconHeavyRain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Icon(tt.weatherCode, tt.maxProb); got != tt.want {
				t.Errorf("Icon(%d, %d) = %q, want %q", tt.weatherCode, tt.maxProb, got, tt.want)
			}
		})
	}
}
