package quiz

import (
	"fmt"
	"time"
)

// Accuracy returns the percentage of correct answers among solved ones.
func Accuracy(correct, solved int) float64 {
	if solved <= 0 {
		return 0
	}
	return float64(correct) * 100 / float64(solved)
}

// Stars maps an accuracy percentage to a 0-3 rating.
func Stars(accuracy float64, bands StarBands) int {
	switch {
	case accuracy >= bands.Three:
		return 3
	case accuracy >= bands.Two:
		return 2
	case accuracy >= bands.One:
		return 1
	default:
		return 0
	}
}

// AverageDuration returns the mean of durations, or 0 when empty.
func AverageDuration(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}
	var sum time.Duration
	for _, d := range durations {
		sum += d
	}
	return sum / time.Duration(len(durations))
}

// FormatSeconds renders a duration as seconds with two decimals, e.g. "2.50s".
func FormatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.2fs", d.Seconds())
}
