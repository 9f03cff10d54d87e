package utils

import "time"

// Clock is the authoritative source of "now" for the reservation
// engine. Every expiry comparison and past-slot filter goes through a
// Clock so that client-supplied timestamps never gate availability, and
// so tests can pin time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the server's wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant. Test helper.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }
