package domain

import (
	"fmt"
	"math"
)

const minutesPerDay = 24 * 60

// FormatHHMM renders decimal hours as a zero-padded 24-hour "HH:MM",
// rounded to the nearest minute. Minutes wrap modulo one day, so 24.0 and
// anything from 23:59:30 on render as "00:00" and negative hours count back
// from midnight.
func FormatHHMM(decimalHours float64) string {
	if math.IsNaN(decimalHours) || math.IsInf(decimalHours, 0) {
		return "--:--"
	}

	// Reduce before converting so huge inputs stay within int64.
	minutes := int64(math.Round(math.Mod(decimalHours*minutesPerHour, minutesPerDay)))
	minutes %= minutesPerDay
	if minutes < 0 {
		minutes += minutesPerDay
	}

	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
