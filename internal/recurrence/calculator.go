// Package recurrence expands recurring series into concrete occurrence dates.
package recurrence

import (
	"fmt"

	"cloud.google.com/go/civil"

	"github.com/JakTech215/crm-app-sub000/internal/domain"
)

// Calculator steps a series forward by a whole number of units.
type Calculator interface {
	// Next returns the date frequency units after the given date.
	Next(after civil.Date, frequency int) civil.Date

	// OccurrencesBetween returns start and every following step up to and including end.
	OccurrencesBetween(start, end civil.Date, frequency int) []civil.Date
}

// GetCalculator returns the calculator for unit, or nil when unit is unknown.
func GetCalculator(unit domain.RecurrenceUnit) Calculator {
	switch unit {
	case domain.RecurrenceDays:
		return DaysCalculator{}
	case domain.RecurrenceWeeks:
		return WeeksCalculator{}
	case domain.RecurrenceMonths:
		return MonthsCalculator{}
	default:
		return nil
	}
}

// Expand returns the occurrence dates from start through end, stepping
// frequency units at a time. start itself is always the first element when
// start <= end. start > end yields an empty slice and no error.
func Expand(start, end civil.Date, frequency int, unit domain.RecurrenceUnit) ([]civil.Date, error) {
	calc, err := calculatorFor(frequency, unit)
	if err != nil {
		return nil, err
	}
	if start.After(end) {
		return []civil.Date{}, nil
	}
	return calc.OccurrencesBetween(start, end, frequency), nil
}

// ProjectEnd returns the date of the count-th occurrence of a series
// beginning at start, i.e. start advanced by frequency*(count-1) units.
// Used for template previews, where only a count is known.
func ProjectEnd(start civil.Date, frequency int, unit domain.RecurrenceUnit, count int) (civil.Date, error) {
	calc, err := calculatorFor(frequency, unit)
	if err != nil {
		return civil.Date{}, err
	}
	if count <= 1 {
		return start, nil
	}
	return calc.Next(start, frequency*(count-1)), nil
}

func calculatorFor(frequency int, unit domain.RecurrenceUnit) (Calculator, error) {
	if frequency <= 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidRecurrenceFrequency, frequency)
	}
	calc := GetCalculator(unit)
	if calc == nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRecurrenceUnit, unit)
	}
	return calc, nil
}
