package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JakTech215/crm-app-sub000/internal/application/task"
	"github.com/JakTech215/crm-app-sub000/internal/calendar"
	"github.com/JakTech215/crm-app-sub000/internal/domain"
	"github.com/JakTech215/crm-app-sub000/internal/infrastructure/persistence/postgres"
)

// These tests need a disposable database named by CRM_TEST_POSTGRES_DSN.
func newIntegrationStore(t *testing.T) *postgres.Store {
	t.Helper()
	dsn := os.Getenv("CRM_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("CRM_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	store, err := postgres.Open(ctx, postgres.DBConfig{DSN: dsn, MaxOpenConns: 4})
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = store.Pool().Exec(ctx, `TRUNCATE task_dependencies, task_assignees, task_projects,
			tasks, task_workflow_steps, task_templates, employees, projects, contacts`)
		_ = store.Close()
	})
	return store
}

func TestIntegration_DeleteTaskLeavesNoReferences(t *testing.T) {
	ctx := context.Background()
	store := newIntegrationStore(t)
	zone := calendar.MustZone(calendar.DefaultTimezone, calendar.FixedClock{T: time.Date(2025, 1, 15, 15, 0, 0, 0, time.UTC)})
	svc := task.NewService(store, zone, task.Config{})

	employeeID := uuid.NewString()
	_, err := store.Pool().Exec(ctx, `INSERT INTO employees (id, first_name) VALUES ($1, 'Ada')`, employeeID)
	require.NoError(t, err)

	target, err := svc.CreateTask(ctx, &domain.Task{Title: "target", AssigneeIDs: []string{employeeID}})
	require.NoError(t, err)
	child, err := svc.CreateTask(ctx, &domain.Task{Title: "child", ParentTaskID: &target.ID})
	require.NoError(t, err)
	dependent, err := svc.CreateTask(ctx, &domain.Task{Title: "dependent"})
	require.NoError(t, err)
	_, err = svc.AddDependency(ctx, task.DependencyInput{TaskID: dependent.ID, DependsOnTaskID: target.ID})
	require.NoError(t, err)

	report, err := svc.DeleteTask(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{dependent.ID}, report.Dependents)
	assert.Equal(t, int64(1), report.DependenciesRemoved)
	assert.Equal(t, int64(1), report.AssigneesRemoved)
	assert.Equal(t, int64(1), report.ChildrenDetached)

	_, err = store.FindTaskByID(ctx, target.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	reloaded, err := store.FindTaskByID(ctx, child.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.ParentTaskID)
}

func TestIntegration_DatesSurviveRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newIntegrationStore(t)

	start := calendar.MustDate("2025-03-09") // DST change in Chicago
	due := calendar.MustDate("2025-03-10")
	now := time.Date(2025, 3, 9, 8, 0, 0, 0, time.UTC)
	created, err := store.CreateTask(ctx, &domain.Task{
		ID: uuid.NewString(), Title: "dst", StartDate: &start, DueDate: &due,
		Status: domain.TaskStatusPending, Priority: domain.TaskPriorityMedium,
		CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	got, err := store.FindTaskByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, start, *got.StartDate)
	assert.Equal(t, due, *got.DueDate)

	window, err := store.FindTasks(ctx, domain.TaskFilter{HasDates: true, StartsBefore: &start, DueAfter: &due})
	require.NoError(t, err)
	assert.Len(t, window, 1)
}
