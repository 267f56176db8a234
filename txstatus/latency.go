package txstatus

import (
	"math"
	"time"
)

// maxLatencyMillis is the largest millisecond count representable as a time.Duration.
const maxLatencyMillis = math.MaxInt64 / 1_000_000

// Latency returns the elapsed time between a request sent at sentAtMillis and its response
// received at receivedAtMillis, both in Unix milliseconds. Clock skew that would produce a
// negative duration is clamped to zero, and spans too long for a time.Duration saturate at its
// maximum whole millisecond.
func Latency(sentAtMillis, receivedAtMillis int64) time.Duration {
	if receivedAtMillis <= sentAtMillis {
		return 0
	}

	// received > sent, so a negative difference means the subtraction overflowed.
	diff := receivedAtMillis - sentAtMillis
	if diff < 0 || diff > maxLatencyMillis {
		diff = maxLatencyMillis
	}

	return time.Duration(diff) * time.Millisecond
}
