package replicate

import "time"

// Clock returns the local peer's time in seconds. Different peers' clocks
// are unrelated time domains; nothing in this package ever compares a value
// from one peer's clock against another's.
type Clock func() float64

// SystemClock returns a monotonic clock starting at zero.
func SystemClock() Clock {
	start := time.Now()
	return func() float64 {
		return time.Since(start).Seconds()
	}
}
