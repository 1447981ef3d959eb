package hooks

import "time"

// Clock abstracts the time source used by time-measuring hooks so tests
// can inject a deterministic one.
type Clock interface {
	Now() time.Time
}

// SystemClock is the standard Clock using the system time.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time { return time.Now() }
