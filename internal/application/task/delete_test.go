package task

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JakTech215/crm-app-sub000/internal/domain"
)

func deleteRepo() *mockRepo {
	return &mockRepo{
		findTaskByIDFn: func(_ context.Context, id string) (*domain.Task, error) { return &domain.Task{ID: id}, nil },
		findDependenciesForFn: func(context.Context, []string) ([]domain.TaskDependency, error) {
			return []domain.TaskDependency{
				{ID: "d1", TaskID: "dep", DependsOnTaskID: "t1"},
				{ID: "d2", TaskID: "t1", DependsOnTaskID: "pre"},
			}, nil
		},
		deleteDependenciesForFn: func(context.Context, string) (int64, error) { return 2, nil },
		removeAssigneesFn:       func(context.Context, string) (int64, error) { return 1, nil },
		removeProjectsFn:        func(context.Context, string) (int64, error) { return 1, nil },
		clearParentTaskFn:       func(context.Context, string) (int64, error) { return 1, nil },
		deleteTaskFn:            func(context.Context, string) error { return nil },
	}
}

func TestDeleteTask_Order(t *testing.T) {
	repo := deleteRepo()

	report, err := newTestService(repo).DeleteTask(context.Background(), "t1")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"FindTaskByID",
		"FindDependenciesForTasks",
		"DeleteDependenciesForTask",
		"RemoveAssignees",
		"RemoveProjects",
		"ClearParentTask",
		"DeleteTask",
	}, repo.calls)

	assert.Equal(t, &DeleteReport{
		TaskID:              "t1",
		Dependents:          []string{"dep"},
		DependenciesRemoved: 2,
		AssigneesRemoved:    1,
		ProjectsRemoved:     1,
		ChildrenDetached:    1,
	}, report)
}

func TestDeleteTask_StepFailureAbortsBeforeRowDelete(t *testing.T) {
	steps := []struct {
		step string
		fail func(m *mockRepo, err error)
		done int
	}{
		{StepRemoveDependencies, func(m *mockRepo, err error) {
			m.deleteDependenciesForFn = func(context.Context, string) (int64, error) { return 0, err }
		}, 0},
		{StepRemoveAssignees, func(m *mockRepo, err error) {
			m.removeAssigneesFn = func(context.Context, string) (int64, error) { return 0, err }
		}, 1},
		{StepRemoveProjects, func(m *mockRepo, err error) {
			m.removeProjectsFn = func(context.Context, string) (int64, error) { return 0, err }
		}, 2},
		{StepDetachChildren, func(m *mockRepo, err error) {
			m.clearParentTaskFn = func(context.Context, string) (int64, error) { return 0, err }
		}, 3},
	}

	for _, tt := range steps {
		t.Run(tt.step, func(t *testing.T) {
			storeErr := errors.New("boom")
			repo := deleteRepo()
			tt.fail(repo, storeErr)

			_, err := newTestService(repo).DeleteTask(context.Background(), "t1")

			var stepErr *StepError
			require.ErrorAs(t, err, &stepErr)
			assert.Equal(t, tt.step, stepErr.Step)
			assert.Equal(t, tt.done, stepErr.Done)
			assert.Equal(t, "t1", stepErr.TaskID)
			assert.ErrorIs(t, err, storeErr)
			assert.NotContains(t, repo.calls, "DeleteTask")
		})
	}
}

func TestDeleteTask_NotFound(t *testing.T) {
	repo := &mockRepo{
		findTaskByIDFn: func(context.Context, string) (*domain.Task, error) { return nil, domain.ErrTaskNotFound },
	}
	_, err := newTestService(repo).DeleteTask(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	assert.Equal(t, []string{"FindTaskByID"}, repo.calls)
}
