package sqlite_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JakTech215/crm-app-sub000/internal/application/task"
	"github.com/JakTech215/crm-app-sub000/internal/calendar"
	"github.com/JakTech215/crm-app-sub000/internal/domain"
	"github.com/JakTech215/crm-app-sub000/internal/identity"
	"github.com/JakTech215/crm-app-sub000/internal/infrastructure/persistence/sqlite"
	"github.com/JakTech215/crm-app-sub000/internal/ptr"
)

func newStoreService(t *testing.T) (*sqlite.Store, *task.Service) {
	t.Helper()
	store := newTestStore(t)
	zone := calendar.MustZone(calendar.DefaultTimezone, calendar.FixedClock{T: fixtureTime})
	return store, task.NewService(store, zone, task.Config{})
}

func countRows(t *testing.T, store *sqlite.Store, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, store.DB().QueryRowContext(context.Background(), query, args...).Scan(&n))
	return n
}

// Whatever links a task has, deleting it leaves no edge, link or child
// reference behind, and never deletes the tasks around it.
func TestService_DeleteTaskLeavesNoReferences(t *testing.T) {
	shapes := []struct {
		assignees, projects, children, dependents, predecessors int
	}{
		{0, 0, 0, 0, 0},
		{1, 0, 0, 0, 0},
		{2, 2, 0, 0, 0},
		{0, 0, 3, 0, 0},
		{0, 0, 0, 2, 1},
		{2, 1, 2, 3, 2},
	}

	for _, shape := range shapes {
		name := fmt.Sprintf("a%d_p%d_c%d_d%d_pred%d",
			shape.assignees, shape.projects, shape.children, shape.dependents, shape.predecessors)
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store, svc := newStoreService(t)

			var employees, projects []string
			for i := range shape.assignees {
				id := fmt.Sprintf("emp-%d", i)
				require.NoError(t, store.CreateEmployee(ctx, domain.Employee{ID: id, FirstName: id}))
				employees = append(employees, id)
			}
			for i := range shape.projects {
				id := fmt.Sprintf("proj-%d", i)
				require.NoError(t, store.CreateProject(ctx, domain.Project{ID: id, Name: id}))
				projects = append(projects, id)
			}

			target, err := svc.CreateTask(ctx, &domain.Task{Title: "target", AssigneeIDs: employees, ProjectIDs: projects})
			require.NoError(t, err)

			var others []string
			for i := range shape.children {
				child, err := svc.CreateTask(ctx, &domain.Task{Title: fmt.Sprintf("child %d", i), ParentTaskID: &target.ID})
				require.NoError(t, err)
				others = append(others, child.ID)
			}
			for i := range shape.dependents {
				dep, err := svc.CreateTask(ctx, &domain.Task{Title: fmt.Sprintf("dependent %d", i)})
				require.NoError(t, err)
				_, err = svc.AddDependency(ctx, task.DependencyInput{TaskID: dep.ID, DependsOnTaskID: target.ID})
				require.NoError(t, err)
				others = append(others, dep.ID)
			}
			for i := range shape.predecessors {
				pred, err := svc.CreateTask(ctx, &domain.Task{Title: fmt.Sprintf("predecessor %d", i)})
				require.NoError(t, err)
				_, err = svc.AddDependency(ctx, task.DependencyInput{TaskID: target.ID, DependsOnTaskID: pred.ID})
				require.NoError(t, err)
				others = append(others, pred.ID)
			}

			report, err := svc.DeleteTask(ctx, target.ID)
			require.NoError(t, err)

			assert.Len(t, report.Dependents, shape.dependents)
			assert.Equal(t, int64(shape.dependents+shape.predecessors), report.DependenciesRemoved)
			assert.Equal(t, int64(shape.assignees), report.AssigneesRemoved)
			assert.Equal(t, int64(shape.projects), report.ProjectsRemoved)
			assert.Equal(t, int64(shape.children), report.ChildrenDetached)

			assert.Zero(t, countRows(t, store, `SELECT COUNT(*) FROM task_dependencies WHERE task_id = ? OR depends_on_task_id = ?`, target.ID, target.ID))
			assert.Zero(t, countRows(t, store, `SELECT COUNT(*) FROM task_assignees WHERE task_id = ?`, target.ID))
			assert.Zero(t, countRows(t, store, `SELECT COUNT(*) FROM task_projects WHERE task_id = ?`, target.ID))
			assert.Zero(t, countRows(t, store, `SELECT COUNT(*) FROM tasks WHERE parent_task_id = ?`, target.ID))

			_, err = store.FindTaskByID(ctx, target.ID)
			assert.ErrorIs(t, err, domain.ErrTaskNotFound)
			for _, id := range others {
				_, err := store.FindTaskByID(ctx, id)
				assert.NoError(t, err, "neighbour %s must survive", id)
			}
		})
	}
}

func TestService_AddDependencyRejectsCycleInStore(t *testing.T) {
	ctx := context.Background()
	_, svc := newStoreService(t)

	a, err := svc.CreateTask(ctx, &domain.Task{Title: "a"})
	require.NoError(t, err)
	b, err := svc.CreateTask(ctx, &domain.Task{Title: "b"})
	require.NoError(t, err)

	_, err = svc.AddDependency(ctx, task.DependencyInput{TaskID: b.ID, DependsOnTaskID: a.ID})
	require.NoError(t, err)

	_, err = svc.AddDependency(ctx, task.DependencyInput{TaskID: a.ID, DependsOnTaskID: b.ID})
	assert.ErrorIs(t, err, domain.ErrDependencyCycle)
}

func TestService_MaterializeSeriesPersistsOccurrences(t *testing.T) {
	ctx := identity.WithUser(context.Background(), "user-7")
	store, svc := newStoreService(t)
	require.NoError(t, store.CreateEmployee(ctx, domain.Employee{ID: "emp-1", FirstName: "Ada"}))
	require.NoError(t, store.CreateProject(ctx, domain.Project{ID: "proj-1", Name: "Ops"}))

	months := domain.RecurrenceMonths
	root, err := svc.CreateTask(ctx, &domain.Task{
		Title:               "Invoice",
		StartDate:           date("2025-01-29"),
		DueDate:             date("2025-01-31"),
		IsRecurring:         true,
		RecurrenceFrequency: ptr.To(1),
		RecurrenceUnit:      &months,
		AssigneeIDs:         []string{"emp-1"},
		ProjectIDs:          []string{"proj-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "user-7", *root.CreatedBy)

	result, err := svc.MaterializeSeries(ctx, root.ID, task.SeriesParams{Until: calendar.MustDate("2025-04-30")})
	require.NoError(t, err)
	require.Len(t, result.Occurrences, 3)

	series, err := store.FindTasks(ctx, domain.TaskFilter{RecurrenceSourceTaskID: &root.ID})
	require.NoError(t, err)
	require.Len(t, series, 3)

	want := []string{"2025-02-28", "2025-03-28", "2025-04-28"}
	for i, occ := range series {
		assert.Equal(t, want[i], occ.DueDate.String())
		assert.Equal(t, []string{"emp-1"}, occ.AssigneeIDs)
		assert.Equal(t, []string{"proj-1"}, occ.ProjectIDs)
		assert.Equal(t, domain.TaskStatusPending, occ.Status)
		assert.Equal(t, -2, calendar.DaysBetween(*occ.DueDate, *occ.StartDate), "span is kept")
	}

	reloaded, err := store.FindTaskByID(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-31", reloaded.DueDate.String())
}

func TestService_CompletionCreatesFollowUpInStore(t *testing.T) {
	ctx := context.Background()
	store, svc := newStoreService(t)

	require.NoError(t, store.CreateTemplate(ctx, &domain.TaskTemplate{ID: "intake", Name: "Intake", CreatedAt: fixtureTime}))
	require.NoError(t, store.CreateTemplate(ctx, &domain.TaskTemplate{
		ID: "call", Name: "Follow-up call", DefaultTitle: "Call the client",
		DueOffset: domain.DueOffset{Amount: 1, Unit: domain.OffsetWeeks}, CreatedAt: fixtureTime,
	}))
	require.NoError(t, store.CreateWorkflowStep(ctx, &domain.TaskWorkflowStep{
		ID: "step-1", TemplateID: "intake", NextTemplateID: "call", DelayDays: 2, CreatedAt: fixtureTime,
	}))

	parent, err := svc.CreateTask(ctx, &domain.Task{Title: "Intake form", TemplateID: ptr.To("intake")})
	require.NoError(t, err)

	result, err := svc.UpdateStatus(ctx, parent.ID, string(domain.TaskStatusCompleted))
	require.NoError(t, err)
	require.NotNil(t, result.FollowUp)
	assert.NotNil(t, result.Task.CompletedAt)

	children, err := store.FindTasks(ctx, domain.TaskFilter{ParentTaskID: &parent.ID})
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "Call the client", children[0].Title)
	assert.Equal(t, "call", *children[0].TemplateID)
	assert.NotNil(t, children[0].DueDate)

	// Re-saving completed must not spawn a second follow-up.
	_, err = svc.UpdateStatus(ctx, parent.ID, string(domain.TaskStatusCompleted))
	require.NoError(t, err)
	children, err = store.FindTasks(ctx, domain.TaskFilter{ParentTaskID: &parent.ID})
	require.NoError(t, err)
	assert.Len(t, children, 1)
}
