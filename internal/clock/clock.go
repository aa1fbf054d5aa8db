package clock

import "time"

// System is the wall-clock implementation of model.Clock.
type System struct{}

// NewSystem creates a system clock.
func NewSystem() *System {
	return &System{}
}

// Now returns the current instant.
func (*System) Now() time.Time {
	return time.Now()
}
