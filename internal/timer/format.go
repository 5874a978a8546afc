package timer

import "fmt"

// FormatClock renders a number of seconds as zero-padded MM:SS.
// Negative input renders as 00:00.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// progressFraction returns elapsed/total, clamped to [0, 1].
func progressFraction(total, remaining int) float64 {
	if total <= 0 {
		return 0
	}
	p := float64(total-remaining) / float64(total)
	return max(0, min(1, p))
}
