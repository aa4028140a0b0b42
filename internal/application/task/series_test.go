package task

import (
	"context"
	"errors"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JakTech215/crm-app-sub000/internal/calendar"
	"github.com/JakTech215/crm-app-sub000/internal/domain"
	"github.com/JakTech215/crm-app-sub000/internal/ptr"
)

func seriesRoot() *domain.Task {
	days := domain.RecurrenceDays
	return &domain.Task{
		ID:                  "root",
		Title:               "Water plants",
		DueDate:             calendar.Ptr(calendar.MustDate("2025-01-03")),
		IsRecurring:         true,
		RecurrenceFrequency: ptr.To(7),
		RecurrenceUnit:      &days,
		Status:              domain.TaskStatusPending,
		Priority:            domain.TaskPriorityLow,
		AssigneeIDs:         []string{"e1", "e2"},
		ProjectIDs:          []string{"p1"},
	}
}

func TestMaterializeSeries(t *testing.T) {
	root := seriesRoot()
	var (
		updatedDue *civil.Date
		inserted   []domain.Task
		assigneeTo []string
		projectTo  []string
	)
	repo := &mockRepo{
		findTaskByIDFn: func(context.Context, string) (*domain.Task, error) { return root, nil },
		updateTaskFn: func(_ context.Context, p domain.UpdateTaskParams) (*domain.Task, error) {
			assert.Equal(t, []string{"due_date"}, p.UpdateMask)
			updatedDue = p.DueDate
			out := *root
			out.DueDate = p.DueDate
			return &out, nil
		},
		createTaskFn: func(ctx context.Context, task *domain.Task) (*domain.Task, error) {
			inserted = append(inserted, *task)
			return echoCreate(ctx, task)
		},
		addAssigneesFn: func(_ context.Context, taskID string, ids []string, _ *string) error {
			assert.Equal(t, []string{"e1", "e2"}, ids)
			assigneeTo = append(assigneeTo, taskID)
			return nil
		},
		addProjectsFn: func(_ context.Context, taskID string, ids []string) error {
			assert.Equal(t, []string{"p1"}, ids)
			projectTo = append(projectTo, taskID)
			return nil
		},
	}

	res, err := newTestService(repo).MaterializeSeries(context.Background(), "root", SeriesParams{
		From:  calendar.Ptr(calendar.MustDate("2025-01-01")),
		Until: calendar.MustDate("2025-01-15"),
	})
	require.NoError(t, err)

	require.NotNil(t, updatedDue)
	assert.Equal(t, calendar.MustDate("2025-01-01"), *updatedDue)
	assert.Equal(t, calendar.MustDate("2025-01-01"), *res.Source.DueDate)

	require.Len(t, res.Occurrences, 2)
	require.Len(t, inserted, 2)
	assert.Equal(t, calendar.MustDate("2025-01-08"), *inserted[0].DueDate)
	assert.Equal(t, calendar.MustDate("2025-01-15"), *inserted[1].DueDate)
	for _, occ := range inserted {
		assert.Equal(t, "root", *occ.RecurrenceSourceTaskID)
	}

	// Fan-out: every occurrence gets its own links.
	assert.Equal(t, []string{inserted[0].ID, inserted[1].ID}, assigneeTo)
	assert.Equal(t, []string{inserted[0].ID, inserted[1].ID}, projectTo)
	assert.Equal(t, []string{
		"FindTaskByID", "UpdateTask",
		"CreateTask", "AddAssignees", "AddProjects",
		"CreateTask", "AddAssignees", "AddProjects",
	}, repo.calls)
}

func TestMaterializeSeries_DefaultsToDueDate(t *testing.T) {
	root := seriesRoot()
	repo := &mockRepo{
		findTaskByIDFn: func(context.Context, string) (*domain.Task, error) { return root, nil },
		updateTaskFn: func(_ context.Context, p domain.UpdateTaskParams) (*domain.Task, error) {
			return root, nil
		},
	}

	res, err := newTestService(repo).MaterializeSeries(context.Background(), "root", SeriesParams{
		Until: calendar.MustDate("2025-01-09"),
	})
	require.NoError(t, err)
	assert.Empty(t, res.Occurrences)
	assert.Equal(t, []string{"FindTaskByID", "UpdateTask"}, repo.calls)
}

func TestMaterializeSeries_StopsAtFailingOccurrence(t *testing.T) {
	root := seriesRoot()
	root.ProjectIDs = nil
	storeErr := errors.New("insert failed")
	creates := 0
	repo := &mockRepo{
		findTaskByIDFn: func(context.Context, string) (*domain.Task, error) { return root, nil },
		updateTaskFn:   func(context.Context, domain.UpdateTaskParams) (*domain.Task, error) { return root, nil },
		createTaskFn: func(ctx context.Context, task *domain.Task) (*domain.Task, error) {
			creates++
			if creates == 2 {
				return nil, storeErr
			}
			return echoCreate(ctx, task)
		},
		addAssigneesFn: func(context.Context, string, []string, *string) error { return nil },
	}

	_, err := newTestService(repo).MaterializeSeries(context.Background(), "root", SeriesParams{
		Until: calendar.MustDate("2025-01-31"),
	})

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, "materialize_series", stepErr.Op)
	assert.Equal(t, StepInsertTask, stepErr.Step)
	assert.Equal(t, 3, stepErr.Done) // update source, insert, link assignees
	assert.ErrorIs(t, err, storeErr)
	assert.Equal(t, 2, creates)
}

func TestMaterializeSeries_Rejections(t *testing.T) {
	notRecurring := &domain.Task{ID: "t"}
	occurrence := seriesRoot()
	occurrence.RecurrenceSourceTaskID = ptr.To("other")
	undated := seriesRoot()
	undated.DueDate = nil

	tests := []struct {
		name    string
		task    *domain.Task
		until   civil.Date
		wantErr error
	}{
		{"not recurring", notRecurring, calendar.MustDate("2025-02-01"), domain.ErrNotRecurring},
		{"not a root", occurrence, calendar.MustDate("2025-02-01"), domain.ErrNotSeriesRoot},
		{"no start", undated, calendar.MustDate("2025-02-01"), domain.ErrMissingDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepo{findTaskByIDFn: func(context.Context, string) (*domain.Task, error) { return tt.task, nil }}
			_, err := newTestService(repo).MaterializeSeries(context.Background(), "t", SeriesParams{Until: tt.until})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, []string{"FindTaskByID"}, repo.calls)
		})
	}

	repo := &mockRepo{}
	_, err := newTestService(repo).MaterializeSeries(context.Background(), "t", SeriesParams{})
	assert.ErrorIs(t, err, domain.ErrMissingDate)
	assert.Empty(t, repo.calls)
}

func TestMaterializeSeries_EmptyRangeWritesNothing(t *testing.T) {
	root := seriesRoot()
	repo := &mockRepo{findTaskByIDFn: func(context.Context, string) (*domain.Task, error) { return root, nil }}

	res, err := newTestService(repo).MaterializeSeries(context.Background(), "root", SeriesParams{
		Until: calendar.MustDate("2024-12-01"),
	})
	require.NoError(t, err)
	assert.Empty(t, res.Occurrences)
	assert.Equal(t, []string{"FindTaskByID"}, repo.calls)
}

func TestMaterializeSeries_TooMany(t *testing.T) {
	root := seriesRoot()
	root.RecurrenceFrequency = ptr.To(1)
	repo := &mockRepo{findTaskByIDFn: func(context.Context, string) (*domain.Task, error) { return root, nil }}
	svc := NewService(repo, newTestService(repo).zone, Config{MaxOccurrences: 10})

	_, err := svc.MaterializeSeries(context.Background(), "root", SeriesParams{Until: calendar.MustDate("2025-12-31")})
	assert.ErrorIs(t, err, domain.ErrTooManyOccurrences)
}

func TestPreviewTemplate(t *testing.T) {
	weeks := domain.RecurrenceWeeks
	tmpl := &domain.TaskTemplate{
		ID:                  "tmpl",
		IsRecurring:         true,
		RecurrenceFrequency: ptr.To(2),
		RecurrenceUnit:      &weeks,
		RecurrenceCount:     ptr.To(3),
	}
	repo := &mockRepo{findTemplateByIDFn: func(context.Context, string) (*domain.TaskTemplate, error) { return tmpl, nil }}
	svc := newTestService(repo)
	ctx := context.Background()

	got, err := svc.PreviewTemplate(ctx, "tmpl", calendar.MustDate("2025-01-01"), nil)
	require.NoError(t, err)
	assert.Equal(t, []civil.Date{
		calendar.MustDate("2025-01-01"), calendar.MustDate("2025-01-15"), calendar.MustDate("2025-01-29"),
	}, got)

	// Explicit end, still capped by the count.
	got, err = svc.PreviewTemplate(ctx, "tmpl", calendar.MustDate("2025-01-01"), calendar.Ptr(calendar.MustDate("2025-12-31")))
	require.NoError(t, err)
	assert.Len(t, got, 3)

	// Zero start means today.
	got, err = svc.PreviewTemplate(ctx, "tmpl", civil.Date{}, nil)
	require.NoError(t, err)
	assert.Equal(t, calendar.MustDate("2025-01-15"), got[0])

	tmpl.RecurrenceCount = nil
	_, err = svc.PreviewTemplate(ctx, "tmpl", calendar.MustDate("2025-01-01"), nil)
	assert.ErrorIs(t, err, domain.ErrMissingDate)

	tmpl.IsRecurring = false
	_, err = svc.PreviewTemplate(ctx, "tmpl", calendar.MustDate("2025-01-01"), nil)
	assert.ErrorIs(t, err, domain.ErrNotRecurring)
}
