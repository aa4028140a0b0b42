package task

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/civil"

	"github.com/JakTech215/crm-app-sub000/internal/domain"
	"github.com/JakTech215/crm-app-sub000/internal/recurrence"
)

// SeriesParams bounds a series materialization.
type SeriesParams struct {
	// From overrides the first date. Defaults to the root's due date, then its start date.
	From  *civil.Date
	Until civil.Date
}

// SeriesResult is the updated root and the occurrences created after it.
type SeriesResult struct {
	Source      *domain.Task
	Occurrences []domain.Task
}

// MaterializeSeries turns a recurring root task into concrete occurrences.
//
// The root keeps its row and takes the first date as its due date. Every
// later date becomes a new task pointing back at the root, with the root's
// assignees and projects linked to it. Writes are issued one at a time; on
// failure the returned *StepError names the step and the occurrences already
// written stay in place.
func (s *Service) MaterializeSeries(ctx context.Context, sourceID string, params SeriesParams) (*SeriesResult, error) {
	if sourceID == "" {
		return nil, domain.ErrTaskNotFound
	}
	if params.Until.IsZero() {
		return nil, fmt.Errorf("%w: until", domain.ErrMissingDate)
	}

	source, err := s.repo.FindTaskByID(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	if !source.IsRecurring {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotRecurring, source.ID)
	}
	if err := source.ValidateRecurrence(); err != nil {
		return nil, err
	}
	if source.RecurrenceSourceTaskID != nil {
		return nil, fmt.Errorf("%w: %s belongs to series %s", domain.ErrNotSeriesRoot, source.ID, *source.RecurrenceSourceTaskID)
	}

	start := params.From
	if start == nil {
		start = source.DueDate
	}
	if start == nil {
		start = source.StartDate
	}
	if start == nil {
		return nil, fmt.Errorf("%w: series start", domain.ErrMissingDate)
	}

	dates, err := recurrence.Expand(*start, params.Until, *source.RecurrenceFrequency, *source.RecurrenceUnit)
	if err != nil {
		return nil, err
	}
	if len(dates) == 0 {
		return &SeriesResult{Source: source, Occurrences: []domain.Task{}}, nil
	}
	if len(dates) > s.config.MaxOccurrences {
		return nil, fmt.Errorf("%w: %d dates exceeds limit %d", domain.ErrTooManyOccurrences, len(dates), s.config.MaxOccurrences)
	}

	const op = "materialize_series"

	occurrences, err := s.generator.Occurrences(*source, dates[1:])
	if err != nil {
		return nil, err
	}

	first := dates[0]
	updated, err := s.repo.UpdateTask(ctx, domain.UpdateTaskParams{
		TaskID:     source.ID,
		UpdateMask: []string{"due_date"},
		DueDate:    &first,
	})
	if err != nil {
		return nil, &StepError{Op: op, Step: StepUpdateSource, TaskID: source.ID, Err: err}
	}
	done := 1

	created := make([]domain.Task, 0, len(occurrences))
	for i := range occurrences {
		occ, err := s.insertWithLinks(ctx, op, &occurrences[i], done)
		if err != nil {
			slog.ErrorContext(ctx, "series materialization stopped",
				slog.String("source_id", source.ID),
				slog.Int("created", len(created)),
				slog.Int("planned", len(occurrences)),
				slog.String("error", err.Error()))
			return nil, err
		}
		created = append(created, *occ)
		done += 1 + boolInt(len(occ.AssigneeIDs) > 0) + boolInt(len(occ.ProjectIDs) > 0)
	}

	slog.InfoContext(ctx, "series materialized",
		slog.String("source_id", source.ID),
		slog.Int("occurrences", len(created)))

	return &SeriesResult{Source: updated, Occurrences: created}, nil
}

// PreviewTemplate lists the dates a recurring template would produce from
// start. With no explicit end the window is projected from the template's
// recurrence count. The count also caps an explicit window.
func (s *Service) PreviewTemplate(ctx context.Context, templateID string, start civil.Date, end *civil.Date) ([]civil.Date, error) {
	if templateID == "" {
		return nil, domain.ErrTemplateNotFound
	}

	tmpl, err := s.repo.FindTemplateByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if !tmpl.IsRecurring || tmpl.RecurrenceFrequency == nil || tmpl.RecurrenceUnit == nil {
		return nil, fmt.Errorf("%w: template %s", domain.ErrNotRecurring, tmpl.ID)
	}
	freq, unit := *tmpl.RecurrenceFrequency, *tmpl.RecurrenceUnit

	if start.IsZero() {
		start = s.zone.Today()
	}

	count := 0
	if tmpl.RecurrenceCount != nil {
		count = *tmpl.RecurrenceCount
	}

	var until civil.Date
	switch {
	case end != nil:
		until = *end
	case count > 0:
		until, err = recurrence.ProjectEnd(start, freq, unit, count)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: preview needs an end date or a recurrence count", domain.ErrMissingDate)
	}

	dates, err := recurrence.Expand(start, until, freq, unit)
	if err != nil {
		return nil, err
	}
	if count > 0 && len(dates) > count {
		dates = dates[:count]
	}
	if len(dates) > s.config.MaxOccurrences {
		return nil, fmt.Errorf("%w: %d dates exceeds limit %d", domain.ErrTooManyOccurrences, len(dates), s.config.MaxOccurrences)
	}
	return dates, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
