package recurrence

import (
	"cloud.google.com/go/civil"

	"github.com/JakTech215/crm-app-sub000/internal/calendar"
)

// DaysCalculator generates recurrences every N days.
type DaysCalculator struct{}

func (DaysCalculator) Next(after civil.Date, frequency int) civil.Date {
	return calendar.AddDays(after, frequency)
}

func (c DaysCalculator) OccurrencesBetween(start, end civil.Date, frequency int) []civil.Date {
	return walk(c, start, end, frequency)
}

// WeeksCalculator generates recurrences every N weeks.
type WeeksCalculator struct{}

func (WeeksCalculator) Next(after civil.Date, frequency int) civil.Date {
	return calendar.AddDays(after, 7*frequency)
}

func (c WeeksCalculator) OccurrencesBetween(start, end civil.Date, frequency int) []civil.Date {
	return walk(c, start, end, frequency)
}

// MonthsCalculator generates recurrences every N calendar months.
//
// Each step is taken from the previous occurrence, so a clamped day stays
// clamped: Jan 31, Feb 28, Mar 28.
type MonthsCalculator struct{}

func (MonthsCalculator) Next(after civil.Date, frequency int) civil.Date {
	return calendar.AddMonths(after, frequency)
}

func (c MonthsCalculator) OccurrencesBetween(start, end civil.Date, frequency int) []civil.Date {
	return walk(c, start, end, frequency)
}

func walk(c Calculator, start, end civil.Date, frequency int) []civil.Date {
	occurrences := []civil.Date{}
	if frequency <= 0 {
		return occurrences
	}
	for current := start; !current.After(end); current = c.Next(current, frequency) {
		occurrences = append(occurrences, current)
	}
	return occurrences
}
