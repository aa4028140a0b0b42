package task

import (
	"context"
	"log/slog"
)

// DeleteReport summarizes a completed deletion.
type DeleteReport struct {
	TaskID              string   `json:"task_id"`
	Dependents          []string `json:"dependents"`
	DependenciesRemoved int64    `json:"dependencies_removed"`
	AssigneesRemoved    int64    `json:"assignees_removed"`
	ProjectsRemoved     int64    `json:"projects_removed"`
	ChildrenDetached    int64    `json:"children_detached"`
}

// DeleteTask removes a task after clearing everything that references it:
// dependency edges on either side, assignee links, project links, and the
// parent reference on child tasks. The row is deleted last. A failing step
// stops the sequence before the row delete and is reported as a *StepError;
// steps already applied are not undone. Dependent tasks are kept and listed
// in the report.
func (s *Service) DeleteTask(ctx context.Context, taskID string) (*DeleteReport, error) {
	if _, err := s.GetTask(ctx, taskID); err != nil {
		return nil, err
	}
	dependents, err := s.dependentIDs(ctx, taskID)
	if err != nil {
		return nil, err
	}

	report := &DeleteReport{TaskID: taskID, Dependents: dependents}
	if report.Dependents == nil {
		report.Dependents = []string{}
	}

	const op = "delete_task"
	steps := []struct {
		name string
		run  func() (int64, error)
		into *int64
	}{
		{StepRemoveDependencies, func() (int64, error) { return s.repo.DeleteDependenciesForTask(ctx, taskID) }, &report.DependenciesRemoved},
		{StepRemoveAssignees, func() (int64, error) { return s.repo.RemoveAssignees(ctx, taskID) }, &report.AssigneesRemoved},
		{StepRemoveProjects, func() (int64, error) { return s.repo.RemoveProjects(ctx, taskID) }, &report.ProjectsRemoved},
		{StepDetachChildren, func() (int64, error) { return s.repo.ClearParentTask(ctx, taskID) }, &report.ChildrenDetached},
		{StepDeleteTask, func() (int64, error) { return 1, s.repo.DeleteTask(ctx, taskID) }, nil},
	}

	for i, step := range steps {
		n, err := step.run()
		if err != nil {
			slog.ErrorContext(ctx, "task deletion stopped",
				slog.String("task_id", taskID),
				slog.String("step", step.name),
				slog.String("error", err.Error()))
			return nil, &StepError{Op: op, Step: step.name, TaskID: taskID, Done: i, Err: err}
		}
		if step.into != nil {
			*step.into = n
		}
		logStep(ctx, op, step.name, taskID, n)
	}

	slog.InfoContext(ctx, "task deleted",
		slog.String("task_id", taskID),
		slog.Int("dependents", len(report.Dependents)))
	return report, nil
}
