package task

import (
	"context"
	"fmt"

	"github.com/JakTech215/crm-app-sub000/internal/dependency"
	"github.com/JakTech215/crm-app-sub000/internal/domain"
)

// DependencyInput describes a new edge: TaskID depends on DependsOnTaskID.
type DependencyInput struct {
	TaskID          string
	DependsOnTaskID string
	Type            string
	LagDays         int
}

// ScheduleHint pairs an advisory constraint with whether the task currently breaks it.
type ScheduleHint struct {
	dependency.Constraint
	Violated bool `json:"violated"`
}

// AddDependency stores a new edge after checking it cannot close a cycle.
// Shape errors are returned before any store call. Duplicate edges are accepted.
func (s *Service) AddDependency(ctx context.Context, in DependencyInput) (*domain.TaskDependency, error) {
	typ, err := domain.NewDependencyType(in.Type)
	if err != nil {
		return nil, err
	}
	dep := &domain.TaskDependency{
		TaskID:          in.TaskID,
		DependsOnTaskID: in.DependsOnTaskID,
		Type:            typ,
		LagDays:         in.LagDays,
	}
	if err := dependency.Validate(*dep); err != nil {
		return nil, err
	}

	for _, id := range []string{dep.TaskID, dep.DependsOnTaskID} {
		if _, err := s.repo.FindTaskByID(ctx, id); err != nil {
			return nil, err
		}
	}

	edges, err := s.repo.FindDependencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load dependencies: %w", err)
	}
	if path := dependency.NewGraph(edges).CycleWith(dep.TaskID, dep.DependsOnTaskID); path != nil {
		return nil, &dependency.CycleError{Path: path}
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}
	dep.ID = id
	dep.CreatedAt = s.zone.Now()

	created, err := s.repo.CreateDependency(ctx, dep)
	if err != nil {
		return nil, fmt.Errorf("failed to create dependency: %w", err)
	}
	return created, nil
}

// RemoveDependency deletes one edge.
func (s *Service) RemoveDependency(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrDependencyNotFound
	}
	return s.repo.DeleteDependency(ctx, id)
}

// ListDependencies returns every edge touching taskID.
func (s *Service) ListDependencies(ctx context.Context, taskID string) ([]domain.TaskDependency, error) {
	if taskID == "" {
		return nil, domain.ErrTaskNotFound
	}
	return s.repo.FindDependenciesForTasks(ctx, []string{taskID})
}

// FindDependents returns the tasks that depend on taskID.
// Callers use it to warn before deletion; deleting taskID never deletes them.
func (s *Service) FindDependents(ctx context.Context, taskID string) ([]domain.Task, error) {
	ids, err := s.dependentIDs(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []domain.Task{}, nil
	}
	return s.repo.FindTasks(ctx, domain.TaskFilter{IDs: ids, Limit: len(ids)})
}

// ScheduleHints returns the earliest dates each predecessor edge allows for
// taskID, flagging the ones the task's current dates break. Nothing is moved.
func (s *Service) ScheduleHints(ctx context.Context, taskID string) ([]ScheduleHint, error) {
	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	edges, err := s.repo.FindDependenciesForTasks(ctx, []string{taskID})
	if err != nil {
		return nil, fmt.Errorf("failed to load dependencies: %w", err)
	}
	preds := dependency.NewGraph(edges).Predecessors(taskID)
	if len(preds) == 0 {
		return []ScheduleHint{}, nil
	}

	ids := make([]string, 0, len(preds))
	for _, d := range preds {
		ids = append(ids, d.DependsOnTaskID)
	}
	predTasks, err := s.repo.FindTasks(ctx, domain.TaskFilter{IDs: ids, Limit: len(ids)})
	if err != nil {
		return nil, fmt.Errorf("failed to load predecessors: %w", err)
	}
	byID := make(map[string]domain.Task, len(predTasks))
	for _, t := range predTasks {
		byID[t.ID] = t
	}

	hints := make([]ScheduleHint, 0, len(preds))
	for _, d := range preds {
		pred, ok := byID[d.DependsOnTaskID]
		if !ok {
			continue
		}
		c, ok := dependency.ConstraintFor(pred, d)
		if !ok {
			continue
		}
		hints = append(hints, ScheduleHint{Constraint: c, Violated: c.ViolatedBy(*task)})
	}
	return hints, nil
}

func (s *Service) dependentIDs(ctx context.Context, taskID string) ([]string, error) {
	if taskID == "" {
		return nil, domain.ErrTaskNotFound
	}
	edges, err := s.repo.FindDependenciesForTasks(ctx, []string{taskID})
	if err != nil {
		return nil, fmt.Errorf("failed to load dependencies: %w", err)
	}
	return dependency.NewGraph(edges).Dependents(taskID), nil
}
