// Package commute estimates live driving times for the tracked
// destinations and classifies delays for display.
package commute

import (
	"strconv"
	"strings"
)

// Duration unit words as the routing API localizes them.
const (
	hoursWord   = "小時"
	minutesWord = "分鐘"
)

// ParseDurationMinutes converts a localized duration text to total minutes.
// Accepts hours-only, minutes-only, or both in that order:
// "1小時30分鐘" → 90, "45分鐘" → 45, "2小時" → 120. Anything unparsable
// yields 0; a non-numeric minutes remainder after a valid hours part
// contributes 0 minutes without discarding the hours.
func ParseDurationMinutes(text string) int {
	total := 0
	remaining := text

	if strings.Contains(text, hoursWord) {
		parts := strings.SplitN(text, hoursWord, 2)
		hours, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return 0
		}
		total += hours * 60
		remaining = parts[1]
	}

	if strings.Contains(remaining, minutesWord) {
		minsPart := strings.TrimSpace(strings.ReplaceAll(remaining, minutesWord, ""))
		if isDigits(minsPart) {
			mins, _ := strconv.Atoi(minsPart)
			total += mins
		}
	}

	return total
}

// isDigits reports whether s is non-empty and purely numeric. A signed or
// otherwise decorated minutes remainder contributes nothing.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
