// Package calendar keeps every "today" decision in one fixed civil timezone.
//
// Calendar dates (civil.Date) carry no zone. Instants (time.Time) stay UTC
// until they are rendered through a Zone.
package calendar

import "time"

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns the current UTC instant.
func (SystemClock) Now() time.Time {
	return time.Now().UTC() //nolint:clocknow // the one sanctioned wall-clock read
}

// FixedClock always returns T. Used by tests and by the CLI's --now flag.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }
