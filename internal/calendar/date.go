package calendar

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// ParseDate parses YYYY-MM-DD and rejects impossible dates.
func ParseDate(s string) (civil.Date, error) {
	d, err := civil.ParseDate(s)
	if err != nil || !d.IsValid() {
		return civil.Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}

// MustDate is ParseDate for literals in tests and fixtures.
func MustDate(s string) civil.Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// AddDays shifts d by n days across month and year boundaries.
func AddDays(d civil.Date, n int) civil.Date {
	return d.AddDays(n)
}

// AddMonths shifts d by n calendar months. A day past the end of the target
// month is clamped to its last day: Jan 31 + 1 month is Feb 28 (or 29).
func AddMonths(d civil.Date, n int) civil.Date {
	total := int(d.Month) - 1 + n
	year := d.Year + floorDiv(total, 12)
	month := time.Month(total - floorDiv(total, 12)*12 + 1)

	day := d.Day
	if last := DaysInMonth(year, month); day > last {
		day = last
	}
	return civil.Date{Year: year, Month: month, Day: day}
}

// DaysBetween returns b minus a in whole days.
func DaysBetween(a, b civil.Date) int {
	return b.DaysSince(a)
}

// DaysInMonth returns the number of days in month of year.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Ptr returns a pointer to d.
func Ptr(d civil.Date) *civil.Date { return &d }

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
