// Package timeutil provides time formatting utilities for FFmpeg commands.
package timeutil

import (
	"fmt"
	"math"
)

// FormatSeconds converts seconds to HH:MM:SS.MS format for FFmpeg.
//
// This format is used for the -ss (seek start) and -t (duration) parameters.
// The value is rounded to hundredths before it is split into fields, so
// 59.999 becomes "00:01:00.00" rather than "00:00:60.00".
//
// Example:
//
//	FormatSeconds(0)      // "00:00:00.00"
//	FormatSeconds(270)    // "00:04:30.00"
//	FormatSeconds(3661)   // "01:01:01.00"
//	FormatSeconds(30.53)  // "00:00:30.53"
func FormatSeconds(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	centis := int64(math.Round(seconds * 100))
	hours := centis / 360000
	minutes := (centis % 360000) / 6000
	secs := float64(centis%6000) / 100
	return fmt.Sprintf("%02d:%02d:%05.2f", hours, minutes, secs)
}

// FormatDuration renders seconds as a short human-readable string for logs.
//
//	FormatDuration(42)   // "42s"
//	FormatDuration(270)  // "4m30s"
//	FormatDuration(3725) // "1h2m5s"
func FormatDuration(seconds float64) string {
	total := int(math.Round(seconds))
	if total < 60 {
		return fmt.Sprintf("%ds", total)
	}

	minutes := total / 60
	secs := total % 60
	if minutes < 60 {
		return fmt.Sprintf("%dm%ds", minutes, secs)
	}

	hours := minutes / 60
	minutes = minutes % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, secs)
}
