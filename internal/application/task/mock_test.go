package task

import (
	"context"

	"github.com/JakTech215/crm-app-sub000/internal/domain"
)

// mockRepo is a func-field Repository. Calling a method without a func set
// panics, so each test declares exactly the store calls it expects.
type mockRepo struct {
	calls []string

	createTaskFn            func(ctx context.Context, task *domain.Task) (*domain.Task, error)
	findTaskByIDFn          func(ctx context.Context, id string) (*domain.Task, error)
	findTasksFn             func(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error)
	updateTaskFn            func(ctx context.Context, params domain.UpdateTaskParams) (*domain.Task, error)
	deleteTaskFn            func(ctx context.Context, id string) error
	clearParentTaskFn       func(ctx context.Context, parentID string) (int64, error)
	addAssigneesFn          func(ctx context.Context, taskID string, ids []string, by *string) error
	removeAssigneesFn       func(ctx context.Context, taskID string) (int64, error)
	addProjectsFn           func(ctx context.Context, taskID string, ids []string) error
	removeProjectsFn        func(ctx context.Context, taskID string) (int64, error)
	createDependencyFn      func(ctx context.Context, dep *domain.TaskDependency) (*domain.TaskDependency, error)
	findDependencyByIDFn    func(ctx context.Context, id string) (*domain.TaskDependency, error)
	findDependenciesFn      func(ctx context.Context) ([]domain.TaskDependency, error)
	findDependenciesForFn   func(ctx context.Context, ids []string) ([]domain.TaskDependency, error)
	deleteDependencyFn      func(ctx context.Context, id string) error
	deleteDependenciesForFn func(ctx context.Context, taskID string) (int64, error)
	findTemplateByIDFn      func(ctx context.Context, id string) (*domain.TaskTemplate, error)
	findTemplatesFn         func(ctx context.Context) ([]domain.TaskTemplate, error)
	findWorkflowStepsFn     func(ctx context.Context) ([]domain.TaskWorkflowStep, error)
	findWorkflowStepsFromFn func(ctx context.Context, templateID string) ([]domain.TaskWorkflowStep, error)
	findNamesFn             func(ctx context.Context, e, p, c []string) (domain.Names, error)
}

func (m *mockRepo) record(name string) { m.calls = append(m.calls, name) }

func (m *mockRepo) CreateTask(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	m.record("CreateTask")
	if m.createTaskFn != nil {
		return m.createTaskFn(ctx, task)
	}
	panic("CreateTask not used")
}

func (m *mockRepo) FindTaskByID(ctx context.Context, id string) (*domain.Task, error) {
	m.record("FindTaskByID")
	if m.findTaskByIDFn != nil {
		return m.findTaskByIDFn(ctx, id)
	}
	panic("FindTaskByID not used")
}

func (m *mockRepo) FindTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	m.record("FindTasks")
	if m.findTasksFn != nil {
		return m.findTasksFn(ctx, filter)
	}
	panic("FindTasks not used")
}

func (m *mockRepo) UpdateTask(ctx context.Context, params domain.UpdateTaskParams) (*domain.Task, error) {
	m.record("UpdateTask")
	if m.updateTaskFn != nil {
		return m.updateTaskFn(ctx, params)
	}
	panic("UpdateTask not used")
}

func (m *mockRepo) DeleteTask(ctx context.Context, id string) error {
	m.record("DeleteTask")
	if m.deleteTaskFn != nil {
		return m.deleteTaskFn(ctx, id)
	}
	panic("DeleteTask not used")
}

func (m *mockRepo) ClearParentTask(ctx context.Context, parentID string) (int64, error) {
	m.record("ClearParentTask")
	if m.clearParentTaskFn != nil {
		return m.clearParentTaskFn(ctx, parentID)
	}
	panic("ClearParentTask not used")
}

func (m *mockRepo) AddAssignees(ctx context.Context, taskID string, ids []string, by *string) error {
	m.record("AddAssignees")
	if m.addAssigneesFn != nil {
		return m.addAssigneesFn(ctx, taskID, ids, by)
	}
	panic("AddAssignees not used")
}

func (m *mockRepo) RemoveAssignees(ctx context.Context, taskID string) (int64, error) {
	m.record("RemoveAssignees")
	if m.removeAssigneesFn != nil {
		return m.removeAssigneesFn(ctx, taskID)
	}
	panic("RemoveAssignees not used")
}

func (m *mockRepo) AddProjects(ctx context.Context, taskID string, ids []string) error {
	m.record("AddProjects")
	if m.addProjectsFn != nil {
		return m.addProjectsFn(ctx, taskID, ids)
	}
	panic("AddProjects not used")
}

func (m *mockRepo) RemoveProjects(ctx context.Context, taskID string) (int64, error) {
	m.record("RemoveProjects")
	if m.removeProjectsFn != nil {
		return m.removeProjectsFn(ctx, taskID)
	}
	panic("RemoveProjects not used")
}

func (m *mockRepo) CreateDependency(ctx context.Context, dep *domain.TaskDependency) (*domain.TaskDependency, error) {
	m.record("CreateDependency")
	if m.createDependencyFn != nil {
		return m.createDependencyFn(ctx, dep)
	}
	panic("CreateDependency not used")
}

func (m *mockRepo) FindDependencyByID(ctx context.Context, id string) (*domain.TaskDependency, error) {
	m.record("FindDependencyByID")
	if m.findDependencyByIDFn != nil {
		return m.findDependencyByIDFn(ctx, id)
	}
	panic("FindDependencyByID not used")
}

func (m *mockRepo) FindDependencies(ctx context.Context) ([]domain.TaskDependency, error) {
	m.record("FindDependencies")
	if m.findDependenciesFn != nil {
		return m.findDependenciesFn(ctx)
	}
	panic("FindDependencies not used")
}

func (m *mockRepo) FindDependenciesForTasks(ctx context.Context, ids []string) ([]domain.TaskDependency, error) {
	m.record("FindDependenciesForTasks")
	if m.findDependenciesForFn != nil {
		return m.findDependenciesForFn(ctx, ids)
	}
	panic("FindDependenciesForTasks not used")
}

func (m *mockRepo) DeleteDependency(ctx context.Context, id string) error {
	m.record("DeleteDependency")
	if m.deleteDependencyFn != nil {
		return m.deleteDependencyFn(ctx, id)
	}
	panic("DeleteDependency not used")
}

func (m *mockRepo) DeleteDependenciesForTask(ctx context.Context, taskID string) (int64, error) {
	m.record("DeleteDependenciesForTask")
	if m.deleteDependenciesForFn != nil {
		return m.deleteDependenciesForFn(ctx, taskID)
	}
	panic("DeleteDependenciesForTask not used")
}

func (m *mockRepo) FindTemplateByID(ctx context.Context, id string) (*domain.TaskTemplate, error) {
	m.record("FindTemplateByID")
	if m.findTemplateByIDFn != nil {
		return m.findTemplateByIDFn(ctx, id)
	}
	panic("FindTemplateByID not used")
}

func (m *mockRepo) FindTemplates(ctx context.Context) ([]domain.TaskTemplate, error) {
	m.record("FindTemplates")
	if m.findTemplatesFn != nil {
		return m.findTemplatesFn(ctx)
	}
	panic("FindTemplates not used")
}

func (m *mockRepo) FindWorkflowSteps(ctx context.Context) ([]domain.TaskWorkflowStep, error) {
	m.record("FindWorkflowSteps")
	if m.findWorkflowStepsFn != nil {
		return m.findWorkflowStepsFn(ctx)
	}
	panic("FindWorkflowSteps not used")
}

func (m *mockRepo) FindWorkflowStepsFrom(ctx context.Context, templateID string) ([]domain.TaskWorkflowStep, error) {
	m.record("FindWorkflowStepsFrom")
	if m.findWorkflowStepsFromFn != nil {
		return m.findWorkflowStepsFromFn(ctx, templateID)
	}
	panic("FindWorkflowStepsFrom not used")
}

func (m *mockRepo) FindNames(ctx context.Context, e, p, c []string) (domain.Names, error) {
	m.record("FindNames")
	if m.findNamesFn != nil {
		return m.findNamesFn(ctx, e, p, c)
	}
	panic("FindNames not used")
}

// echoCreate returns the task it was given, as a store would after insert.
func echoCreate(_ context.Context, task *domain.Task) (*domain.Task, error) {
	out := *task
	return &out, nil
}
