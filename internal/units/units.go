// Package units converts and formats route measurements for display.
package units

import (
	"fmt"
	"math"
	"time"
)

// MetersPerSecondToKmh converts a speed to kilometres per hour.
func MetersPerSecondToKmh(mps float64) float64 {
	return mps * 3.6
}

// FormatDistance renders meters as "950m" below a kilometre and "1.50km" above.
func FormatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%.0fm", meters)
	}
	return fmt.Sprintf("%.2fkm", meters/1000)
}

// FormatDuration renders seconds as "1h 2m 3s", dropping leading zero units.
func FormatDuration(seconds float64) string {
	sign := ""
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}

	total := int64(math.Floor(seconds))
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60

	switch {
	case hours > 0:
		return fmt.Sprintf("%s%dh %dm %ds", sign, hours, minutes, secs)
	case minutes > 0:
		return fmt.Sprintf("%s%dm %ds", sign, minutes, secs)
	default:
		return fmt.Sprintf("%s%ds", sign, secs)
	}
}

// FormatElevation renders meters of climb or descent.
func FormatElevation(meters float64) string {
	return fmt.Sprintf("%.0fm", meters)
}

// FormatSpeed renders a m/s speed in km/h.
func FormatSpeed(mps float64) string {
	return fmt.Sprintf("%.1f km/h", MetersPerSecondToKmh(mps))
}

// FormatDate renders a route date like "Jan 2, 2006".
func FormatDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}
