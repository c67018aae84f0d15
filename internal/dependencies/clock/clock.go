// Package clock abstracts time so session timestamps and round timing
// stay deterministic under test.
package clock

import "time"

// Clock supplies the current time. Services stamp CreatedAt/UpdatedAt
// through it rather than calling time.Now directly.
type Clock interface {
	Now() time.Time
}

// RealClock is the production Clock backed by the system clock
type RealClock struct{}

// New creates a new RealClock
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current system time
func (c *RealClock) Now() time.Time {
	return time.Now()
}
