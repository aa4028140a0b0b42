package task

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JakTech215/crm-app-sub000/internal/calendar"
	"github.com/JakTech215/crm-app-sub000/internal/domain"
	"github.com/JakTech215/crm-app-sub000/internal/gantt"
	"github.com/JakTech215/crm-app-sub000/internal/workflow"
)

func chainRepo() *mockRepo {
	templates := []domain.TaskTemplate{{ID: "A"}, {ID: "B"}, {ID: "C"}, {ID: "solo"}}
	return &mockRepo{
		findTemplateByIDFn: func(_ context.Context, id string) (*domain.TaskTemplate, error) {
			for _, t := range templates {
				if t.ID == id {
					return &t, nil
				}
			}
			return nil, domain.ErrTemplateNotFound
		},
		findTemplatesFn: func(context.Context) ([]domain.TaskTemplate, error) { return templates, nil },
		findWorkflowStepsFn: func(context.Context) ([]domain.TaskWorkflowStep, error) {
			return []domain.TaskWorkflowStep{
				{ID: "s1", TemplateID: "A", NextTemplateID: "B", DelayDays: 1},
				{ID: "s2", TemplateID: "B", NextTemplateID: "C", DelayDays: 2},
				{ID: "s3", TemplateID: "B", NextTemplateID: "A", DelayDays: 2},
			}, nil
		},
	}
}

func TestService_ResolveChain(t *testing.T) {
	svc := newTestService(chainRepo())

	chain, err := svc.ResolveChain(context.Background(), "B")
	require.NoError(t, err)
	// A is referenced by s3, so no root reaches B.
	assert.Empty(t, chain)

	_, err = svc.ResolveChain(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrTemplateNotFound)
}

func TestService_ValidateWorkflow(t *testing.T) {
	warnings, err := newTestService(chainRepo()).ValidateWorkflow(context.Background())
	require.NoError(t, err)

	var kinds []workflow.WarningKind
	for _, w := range warnings {
		kinds = append(kinds, w.Kind)
	}
	// Only B's first step is followed, so B -> A never closes a loop.
	assert.Equal(t, []workflow.WarningKind{workflow.WarnMultipleSuccessors}, kinds)
}

func TestService_Gantt(t *testing.T) {
	var filter domain.TaskFilter
	repo := &mockRepo{
		findTasksFn: func(_ context.Context, f domain.TaskFilter) ([]domain.Task, error) {
			filter = f
			return []domain.Task{
				{
					ID:          "a",
					StartDate:   calendar.Ptr(calendar.MustDate("2025-01-15")),
					DueDate:     calendar.Ptr(calendar.MustDate("2025-01-17")),
					ProjectIDs:  []string{"p1", "p2"},
					AssigneeIDs: []string{"e1"},
				},
				{
					ID:        "b",
					StartDate: calendar.Ptr(calendar.MustDate("2025-01-20")),
					DueDate:   calendar.Ptr(calendar.MustDate("2025-01-22")),
				},
			}, nil
		},
		findDependenciesForFn: func(context.Context, []string) ([]domain.TaskDependency, error) {
			return []domain.TaskDependency{
				{ID: "d1", TaskID: "b", DependsOnTaskID: "a"},
				{ID: "d2", TaskID: "a", DependsOnTaskID: "b"},
			}, nil
		},
		findNamesFn: func(_ context.Context, e, p, c []string) (domain.Names, error) {
			return domain.Names{
				Projects:  map[string]domain.Project{"p1": {ID: "p1", Name: "Roof"}, "p2": {ID: "p2", Name: "Deck"}},
				Employees: map[string]domain.Employee{"e1": {ID: "e1", FirstName: "Ada"}},
			}, nil
		},
	}

	res, err := newTestService(repo).Gantt(context.Background(), GanttParams{Zoom: "day"})
	require.NoError(t, err)

	assert.Equal(t, calendar.MustDate("2025-01-15"), *filter.DueAfter)
	assert.Equal(t, calendar.MustDate("2025-03-15"), *filter.StartsBefore)
	assert.True(t, filter.HasDates)

	assert.Equal(t, 2, res.Layout.TaskCount)
	assert.Len(t, res.Layout.Arrows, 2)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "cycle")

	var groups []string
	for _, r := range res.Layout.Rows {
		if r.Kind == gantt.RowHeader {
			groups = append(groups, r.Group)
		}
	}
	assert.Equal(t, []string{"Deck", "Roof", gantt.UnassignedGroup}, groups)
}

func TestService_GanttWarnsWhenWindowIsTruncated(t *testing.T) {
	tests := []struct {
		name     string
		stored   int
		wantRows int
		warned   bool
	}{
		{name: "fits", stored: 2, wantRows: 2},
		{name: "over the limit", stored: 5, wantRows: 2, warned: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var limit int
			repo := &mockRepo{
				findTasksFn: func(_ context.Context, f domain.TaskFilter) ([]domain.Task, error) {
					limit = f.Limit
					tasks := make([]domain.Task, min(tt.stored, f.Limit))
					for i := range tasks {
						tasks[i] = domain.Task{
							ID:        fmt.Sprintf("t-%d", i),
							StartDate: calendar.Ptr(calendar.MustDate("2025-01-16")),
							DueDate:   calendar.Ptr(calendar.MustDate("2025-01-18")),
						}
					}
					return tasks, nil
				},
				findDependenciesForFn: func(context.Context, []string) ([]domain.TaskDependency, error) {
					return nil, nil
				},
				findNamesFn: func(context.Context, []string, []string, []string) (domain.Names, error) {
					return domain.Names{}, nil
				},
			}
			zone := calendar.MustZone(calendar.DefaultTimezone, calendar.FixedClock{T: testNow})
			svc := NewService(repo, zone, Config{MaxListLimit: 2})

			res, err := svc.Gantt(context.Background(), GanttParams{})
			require.NoError(t, err)
			assert.Equal(t, 3, limit)
			assert.Equal(t, tt.wantRows, res.Layout.TaskCount)
			if tt.warned {
				require.Len(t, res.Warnings, 1)
				assert.Contains(t, res.Warnings[0], "more than 2 tasks")
			} else {
				assert.Empty(t, res.Warnings)
			}
		})
	}
}

func TestService_GanttBadZoom(t *testing.T) {
	repo := &mockRepo{}
	_, err := newTestService(repo).Gantt(context.Background(), GanttParams{Zoom: "decade"})
	assert.ErrorIs(t, err, domain.ErrInvalidZoom)
	assert.Empty(t, repo.calls)
}
