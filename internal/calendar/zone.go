package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // zone database for hosts without one

	"cloud.google.com/go/civil"
)

// DefaultTimezone is the business's civil zone.
const DefaultTimezone = "America/Chicago"

// ISODate is the layout of calendar-date strings.
const ISODate = "2006-01-02"

var (
	ErrUnknownTimezone = errors.New("unknown timezone")
	ErrInvalidDate     = errors.New("invalid date")
)

// timestampLayouts are tried in order for strings carrying a time component.
// Layouts without an offset are read as UTC, which is how the store emits them.
var timestampLayouts = []struct {
	layout  string
	hasZone bool
}{
	{time.RFC3339Nano, true},
	{"2006-01-02 15:04:05.999999999Z07:00", true},
	{"2006-01-02 15:04:05.999999999Z07", true},
	{"2006-01-02T15:04:05.999999999", false},
	{"2006-01-02 15:04:05.999999999", false},
}

// Zone binds a Clock to one fixed location.
type Zone struct {
	loc   *time.Location
	clock Clock
}

// NewZone loads the named IANA zone. An empty name selects DefaultTimezone;
// a nil clock selects SystemClock.
func NewZone(name string, clock Clock) (*Zone, error) {
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTimezone, name)
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Zone{loc: loc, clock: clock}, nil
}

// MustZone is NewZone for package-level test fixtures.
func MustZone(name string, clock Clock) *Zone {
	z, err := NewZone(name, clock)
	if err != nil {
		panic(err)
	}
	return z
}

// Location returns the zone's location.
func (z *Zone) Location() *time.Location { return z.loc }

// Now returns the clock's instant in UTC.
func (z *Zone) Now() time.Time { return z.clock.Now().UTC() }

// Today returns the current calendar date in the zone.
func (z *Zone) Today() civil.Date {
	return civil.DateOf(z.clock.Now().In(z.loc))
}

// TodayISO returns Today as YYYY-MM-DD.
func (z *Zone) TodayISO() string {
	return z.Today().String()
}

// DateOf returns the calendar date of instant t as seen in the zone.
func (z *Zone) DateOf(t time.Time) civil.Date {
	return civil.DateOf(t.In(z.loc))
}

// ParseForDisplay turns a stored value into an instant in the zone.
//
// Strings with a time component are instants: they are converted into the
// zone. A bare calendar date is pinned to noon local so that no offset can
// roll it onto a neighbouring day.
func (z *Zone) ParseForDisplay(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) == len(ISODate) {
		d, err := ParseDate(raw)
		if err != nil {
			return time.Time{}, err
		}
		return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, z.loc), nil
	}
	for _, l := range timestampLayouts {
		var (
			t   time.Time
			err error
		)
		if l.hasZone {
			t, err = time.Parse(l.layout, raw)
		} else {
			t, err = time.ParseInLocation(l.layout, raw, time.UTC)
		}
		if err == nil {
			return t.In(z.loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
}

// IsBeforeToday reports whether d is strictly earlier than today.
func (z *Zone) IsBeforeToday(d civil.Date) bool {
	return d.Before(z.Today())
}

// IsTodayOrFuture reports whether d is today or later.
func (z *Zone) IsTodayOrFuture(d civil.Date) bool {
	return !z.IsBeforeToday(d)
}

// IsBeforeTodayISO compares an ISO date string against TodayISO.
// ISO calendar strings sort in date order, so plain string comparison is exact.
func (z *Zone) IsBeforeTodayISO(s string) bool {
	return s < z.TodayISO()
}

// IsTodayOrFutureISO is the string form of IsTodayOrFuture.
func (z *Zone) IsTodayOrFutureISO(s string) bool {
	return s >= z.TodayISO()
}

// DaysFromToday returns today minus d in whole days.
// Positive means d is in the past: an overdue due date yields a positive number.
func (z *Zone) DaysFromToday(d civil.Date) int {
	return z.Today().DaysSince(d)
}
