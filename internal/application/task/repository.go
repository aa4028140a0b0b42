package task

import (
	"context"

	"github.com/JakTech215/crm-app-sub000/internal/domain"
)

// Repository defines the storage operations the scheduling core needs.
//
// Every method is one round trip. Multi-step operations in Service are
// sequences of these calls with no surrounding transaction; a failure part
// way leaves earlier writes in place.
type Repository interface {
	// === Task Operations ===

	// CreateTask inserts the task row. Assignee and project links are written
	// separately with AddAssignees and AddProjects.
	CreateTask(ctx context.Context, task *domain.Task) (*domain.Task, error)

	// FindTaskByID returns the task with AssigneeIDs and ProjectIDs populated.
	// Returns domain.ErrTaskNotFound if the task doesn't exist.
	FindTaskByID(ctx context.Context, id string) (*domain.Task, error)

	// FindTasks returns tasks matching filter ordered by start date, then due
	// date, then creation time. Related ids are populated.
	FindTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error)

	// UpdateTask writes the masked fields and returns the updated task.
	// Returns domain.ErrTaskNotFound if the task doesn't exist.
	UpdateTask(ctx context.Context, params domain.UpdateTaskParams) (*domain.Task, error)

	// DeleteTask removes the task row.
	// Returns domain.ErrTaskNotFound if the task doesn't exist.
	DeleteTask(ctx context.Context, id string) error

	// ClearParentTask nulls parent_task_id on every child of parentID.
	ClearParentTask(ctx context.Context, parentID string) (int64, error)

	// === Link Operations ===

	AddAssignees(ctx context.Context, taskID string, employeeIDs []string, assignedBy *string) error
	RemoveAssignees(ctx context.Context, taskID string) (int64, error)
	AddProjects(ctx context.Context, taskID string, projectIDs []string) error
	RemoveProjects(ctx context.Context, taskID string) (int64, error)

	// === Dependency Operations ===

	CreateDependency(ctx context.Context, dep *domain.TaskDependency) (*domain.TaskDependency, error)

	// FindDependencyByID returns domain.ErrDependencyNotFound if the edge doesn't exist.
	FindDependencyByID(ctx context.Context, id string) (*domain.TaskDependency, error)

	// FindDependencies returns every edge, oldest first.
	FindDependencies(ctx context.Context) ([]domain.TaskDependency, error)

	// FindDependenciesForTasks returns edges with either endpoint in taskIDs.
	FindDependenciesForTasks(ctx context.Context, taskIDs []string) ([]domain.TaskDependency, error)

	// DeleteDependency returns domain.ErrDependencyNotFound if the edge doesn't exist.
	DeleteDependency(ctx context.Context, id string) error

	// DeleteDependenciesForTask removes edges where taskID is either side.
	DeleteDependenciesForTask(ctx context.Context, taskID string) (int64, error)

	// === Template Operations ===

	// FindTemplateByID returns domain.ErrTemplateNotFound if the template doesn't exist.
	FindTemplateByID(ctx context.Context, id string) (*domain.TaskTemplate, error)
	FindTemplates(ctx context.Context) ([]domain.TaskTemplate, error)

	// FindWorkflowSteps returns every step, oldest first.
	FindWorkflowSteps(ctx context.Context) ([]domain.TaskWorkflowStep, error)

	// FindWorkflowStepsFrom returns the outgoing steps of templateID, oldest first.
	FindWorkflowStepsFrom(ctx context.Context, templateID string) ([]domain.TaskWorkflowStep, error)

	// === Related Rows ===

	// FindNames loads the employees, projects and contacts named by the ids.
	// Unknown ids are absent from the result.
	FindNames(ctx context.Context, employeeIDs, projectIDs, contactIDs []string) (domain.Names, error)
}
