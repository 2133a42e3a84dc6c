package common

import "fmt"

// FormatDuration renders a whole number of seconds as m:ss.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// FormatPosition renders a playback position against a total duration,
// e.g. "1:04 / 3:45".
func FormatPosition(position float64, duration int) string {
	return FormatDuration(int(position)) + " / " + FormatDuration(duration)
}
