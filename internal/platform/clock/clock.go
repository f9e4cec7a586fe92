// Package clock is the single time source for services, so tests can swap in
// a deterministic clock.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock. Times are UTC so persisted sessions
// compare across machines.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
