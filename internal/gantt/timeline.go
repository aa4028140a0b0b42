// Package gantt lays tasks out on a date-to-pixel timeline.
package gantt

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"github.com/JakTech215/crm-app-sub000/internal/calendar"
	"github.com/JakTech215/crm-app-sub000/internal/domain"
)

// Zoom selects the column unit of the timeline.
type Zoom string

const (
	ZoomDay   Zoom = "day"
	ZoomWeek  Zoom = "week"
	ZoomMonth Zoom = "month"
)

// ZoomSpec is the fixed grid of one zoom level.
type ZoomSpec struct {
	Columns     int
	ColumnWidth float64
}

var zoomSpecs = map[Zoom]ZoomSpec{
	ZoomDay:   {Columns: 60, ColumnWidth: 40},
	ZoomWeek:  {Columns: 26, ColumnWidth: 100},
	ZoomMonth: {Columns: 12, ColumnWidth: 200},
}

// ParseZoom validates a zoom name. Empty selects day.
func ParseZoom(s string) (Zoom, error) {
	if s == "" {
		return ZoomDay, nil
	}
	z := Zoom(strings.ToLower(s))
	if _, ok := zoomSpecs[z]; !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidZoom, s)
	}
	return z, nil
}

// Spec returns the grid for z.
func (z Zoom) Spec() ZoomSpec { return zoomSpecs[z] }

// advance moves d forward n columns of z.
func (z Zoom) advance(d civil.Date, n int) civil.Date {
	switch z {
	case ZoomWeek:
		return calendar.AddDays(d, 7*n)
	case ZoomMonth:
		return calendar.AddMonths(d, n)
	default:
		return calendar.AddDays(d, n)
	}
}

func (z Zoom) label(d civil.Date) string {
	t := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
	if z == ZoomMonth {
		return t.Format("Jan 2006")
	}
	return t.Format("Jan 2")
}

// Tick is one column boundary.
type Tick struct {
	Date  civil.Date `json:"date"`
	X     float64    `json:"x"`
	Label string     `json:"label"`
}

// Timeline maps calendar dates onto a horizontal pixel range.
type Timeline struct {
	Zoom        Zoom       `json:"zoom"`
	Ticks       []Tick     `json:"ticks"`
	WindowStart civil.Date `json:"window_start"`
	WindowEnd   civil.Date `json:"window_end"`
	ColumnWidth float64    `json:"column_width"`
	TotalWidth  float64    `json:"total_width"`

	spanDays int
}

// NewTimeline builds the window that starts at anchor. Ticks are evenly
// spaced columns; the window ends one unit past the last tick so the final
// column is covered in full.
func NewTimeline(anchor civil.Date, zoom Zoom) (*Timeline, error) {
	spec, ok := zoomSpecs[zoom]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidZoom, zoom)
	}
	if !anchor.IsValid() {
		return nil, fmt.Errorf("%w: anchor", domain.ErrMissingDate)
	}

	tl := &Timeline{
		Zoom:        zoom,
		WindowStart: anchor,
		ColumnWidth: spec.ColumnWidth,
		TotalWidth:  float64(spec.Columns) * spec.ColumnWidth,
	}
	dates := make([]civil.Date, spec.Columns)
	for i := range dates {
		dates[i] = zoom.advance(anchor, i)
	}
	tl.WindowEnd = zoom.advance(dates[len(dates)-1], 1)
	tl.spanDays = calendar.DaysBetween(tl.WindowStart, tl.WindowEnd)

	tl.Ticks = make([]Tick, len(dates))
	for i, d := range dates {
		tl.Ticks[i] = Tick{Date: d, X: tl.DateToX(d), Label: zoom.label(d)}
	}
	return tl, nil
}

// DateToX linearly interpolates d across the window. Dates outside the
// window map outside [0, TotalWidth].
func (tl *Timeline) DateToX(d civil.Date) float64 {
	return float64(calendar.DaysBetween(tl.WindowStart, d)) / float64(tl.spanDays) * tl.TotalWidth
}

// Contains reports whether [start, due] overlaps the window.
func (tl *Timeline) Contains(start, due civil.Date) bool {
	return start.Before(tl.WindowEnd) && !due.Before(tl.WindowStart)
}
