package recurrence

import (
	"fmt"
	"slices"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"github.com/JakTech215/crm-app-sub000/internal/calendar"
	"github.com/JakTech215/crm-app-sub000/internal/domain"
)

// Generator builds occurrence tasks from a series root.
type Generator struct {
	clock calendar.Clock
}

// NewGenerator creates a generator that stamps timestamps from clock.
func NewGenerator(clock calendar.Clock) *Generator {
	return &Generator{clock: clock}
}

// Occurrences returns one new task per date, each pointing back at source
// through RecurrenceSourceTaskID. Assignee and project ids are copied onto
// every occurrence. When source has both dates, the start-to-due span is kept.
func (g *Generator) Occurrences(source domain.Task, dates []civil.Date) ([]domain.Task, error) {
	var span *int
	if source.HasSpan() {
		d := calendar.DaysBetween(*source.StartDate, *source.DueDate)
		span = &d
	}

	now := g.clock.Now().UTC()
	sourceID := source.ID
	tasks := make([]domain.Task, 0, len(dates))
	for _, date := range dates {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("failed to generate task ID: %w", err)
		}

		due := date
		occ := domain.Task{
			ID:                     id.String(),
			Title:                  source.Title,
			Description:            source.Description,
			DueDate:                &due,
			IsMilestone:            source.IsMilestone,
			IsRecurring:            true,
			RecurrenceFrequency:    source.RecurrenceFrequency,
			RecurrenceUnit:         source.RecurrenceUnit,
			RecurrenceSourceTaskID: &sourceID,
			TemplateID:             source.TemplateID,
			TaskTypeID:             source.TaskTypeID,
			ContactID:              source.ContactID,
			Status:                 domain.TaskStatusPending,
			Priority:               source.Priority,
			AssigneeIDs:            slices.Clone(source.AssigneeIDs),
			ProjectIDs:             slices.Clone(source.ProjectIDs),
			CreatedBy:              source.CreatedBy,
			CreatedAt:              now,
			UpdatedAt:              now,
		}
		if span != nil {
			start := calendar.AddDays(due, -*span)
			occ.StartDate = &start
		}
		tasks = append(tasks, occ)
	}
	return tasks, nil
}
