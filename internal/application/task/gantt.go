package task

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/civil"

	"github.com/JakTech215/crm-app-sub000/internal/calendar"
	"github.com/JakTech215/crm-app-sub000/internal/dependency"
	"github.com/JakTech215/crm-app-sub000/internal/domain"
	"github.com/JakTech215/crm-app-sub000/internal/gantt"
)

// GanttParams selects the visible window.
type GanttParams struct {
	Anchor    *civil.Date // defaults to today
	Zoom      string      // day, week or month; defaults to day
	ProjectID *string
}

// GanttResult is a layout plus any data problems found while building it.
type GanttResult struct {
	Layout   *gantt.Layout `json:"layout"`
	Warnings []string      `json:"warnings"`
}

// Gantt loads the dated tasks overlapping the window and lays them out.
func (s *Service) Gantt(ctx context.Context, params GanttParams) (*GanttResult, error) {
	zoom, err := gantt.ParseZoom(params.Zoom)
	if err != nil {
		return nil, err
	}
	anchor := s.zone.Today()
	if params.Anchor != nil {
		anchor = *params.Anchor
	}
	tl, err := gantt.NewTimeline(anchor, zoom)
	if err != nil {
		return nil, err
	}

	lastDay := calendar.AddDays(tl.WindowEnd, -1)
	tasks, err := s.repo.FindTasks(ctx, domain.TaskFilter{
		HasDates:     true,
		StartsBefore: &lastDay,
		DueAfter:     &tl.WindowStart,
		ProjectID:    params.ProjectID,
		Limit:        s.config.MaxListLimit + 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	result := &GanttResult{Warnings: []string{}}
	if len(tasks) > s.config.MaxListLimit {
		tasks = tasks[:s.config.MaxListLimit]
		slog.WarnContext(ctx, "gantt window truncated", slog.Int("limit", s.config.MaxListLimit))
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("window holds more than %d tasks; only the first %d are shown", s.config.MaxListLimit, s.config.MaxListLimit))
	}

	ids := make([]string, 0, len(tasks))
	var employeeIDs, projectIDs, contactIDs []string
	for _, t := range tasks {
		ids = append(ids, t.ID)
		employeeIDs = append(employeeIDs, t.AssigneeIDs...)
		projectIDs = append(projectIDs, t.ProjectIDs...)
		if t.ContactID != nil {
			contactIDs = append(contactIDs, *t.ContactID)
		}
	}

	var edges []domain.TaskDependency
	if len(ids) > 0 {
		edges, err = s.repo.FindDependenciesForTasks(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to load dependencies: %w", err)
		}
	}
	if dependency.NewGraph(edges).HasCycle() {
		slog.WarnContext(ctx, "dependency cycle among visible tasks", slog.Int("tasks", len(ids)))
		result.Warnings = append(result.Warnings, "dependency edges among these tasks form a cycle")
	}

	names, err := s.repo.FindNames(ctx, employeeIDs, projectIDs, contactIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load related names: %w", err)
	}

	rows := make([]domain.GanttTask, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, names.Denormalize(t))
	}

	result.Layout = gantt.Build(rows, edges, tl)
	return result, nil
}
