package analytics

import (
	"time"

	"protostats/internal/lifecycle"
)

const msPerDay = 24 * 60 * 60 * 1000

// AverageAgeDays is the mean age of valid, non-future releases relative to
// now. Records with invalid or future release moments are excluded from both
// numerator and denominator. Empty input yields 0.
func AverageAgeDays(lifes []lifecycle.RecordLifecycle, now time.Time) float64 {
	nowMs := now.UnixMilli()

	var sumMs int64
	var n int
	for i := range lifes {
		releaseMs := lifes[i].Release.EpochMs
		if releaseMs > nowMs {
			continue
		}
		sumMs += nowMs - releaseMs
		n++
	}
	if n == 0 {
		return 0
	}
	return float64(sumMs) / float64(n) / msPerDay
}
