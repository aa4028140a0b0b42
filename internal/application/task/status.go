package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JakTech215/crm-app-sub000/internal/domain"
	"github.com/JakTech215/crm-app-sub000/internal/ptr"
	"github.com/JakTech215/crm-app-sub000/internal/workflow"
)

// StatusChangeResult is the outcome of a status update.
// Warnings are non-fatal problems with side effects; the update itself succeeded.
type StatusChangeResult struct {
	Task     *domain.Task
	FollowUp *domain.Task
	Warnings []string
}

// UpdateStatus moves a task to a new status and runs the side effects the
// transition implies.
//
// The status write happens first. A follow-up task requested by the
// transition is created afterwards; if that fails the status change stands
// and the failure is returned as a warning.
func (s *Service) UpdateStatus(ctx context.Context, taskID, statusStr string) (*StatusChangeResult, error) {
	if statusStr == "" {
		return nil, domain.ErrStatusRequired
	}
	status, err := domain.NewTaskStatus(statusStr)
	if err != nil {
		return nil, err
	}
	if taskID == "" {
		return nil, domain.ErrTaskNotFound
	}

	current, err := s.repo.FindTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	cmds := domain.OnStatusChange(current.Status, status, *current)

	params := domain.UpdateTaskParams{
		TaskID:     taskID,
		UpdateMask: []string{"status"},
		Status:     &status,
	}
	var followUps []domain.CreateFollowUpTask
	for _, cmd := range cmds {
		switch c := cmd.(type) {
		case domain.SetCompletedAt:
			params.UpdateMask = append(params.UpdateMask, "completed_at")
			params.CompletedAt = ptr.To(s.zone.Now())
		case domain.ClearCompletedAt:
			params.UpdateMask = append(params.UpdateMask, "completed_at")
			params.CompletedAt = nil
		case domain.CreateFollowUpTask:
			followUps = append(followUps, c)
		}
	}

	updated, err := s.repo.UpdateTask(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	result := &StatusChangeResult{Task: updated, Warnings: []string{}}
	for _, cmd := range followUps {
		followUp, warnings, err := s.createFollowUp(ctx, updated, cmd)
		result.Warnings = append(result.Warnings, warnings...)
		if err != nil {
			slog.WarnContext(ctx, "follow-up task not created",
				slog.String("task_id", cmd.ParentTaskID),
				slog.String("template_id", cmd.TemplateID),
				slog.String("error", err.Error()))
			result.Warnings = append(result.Warnings, fmt.Sprintf("follow-up task was not created: %v", err))
			continue
		}
		if followUp != nil {
			result.FollowUp = followUp
		}
	}
	return result, nil
}

// createFollowUp creates the next task in the completed task's template chain.
// A template with no outgoing step ends the chain and creates nothing.
func (s *Service) createFollowUp(ctx context.Context, parent *domain.Task, cmd domain.CreateFollowUpTask) (*domain.Task, []string, error) {
	steps, err := s.repo.FindWorkflowStepsFrom(ctx, cmd.TemplateID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load workflow steps: %w", err)
	}
	if len(steps) == 0 {
		return nil, nil, nil
	}

	var warnings []string
	step := steps[0]
	if len(steps) > 1 {
		msg := fmt.Sprintf("template %s has %d outgoing steps; followed step %s", cmd.TemplateID, len(steps), step.ID)
		slog.WarnContext(ctx, "multiple workflow successors",
			slog.String("template_id", cmd.TemplateID),
			slog.Int("steps", len(steps)),
			slog.String("followed_step_id", step.ID))
		warnings = append(warnings, msg)
	}

	next, err := s.repo.FindTemplateByID(ctx, step.NextTemplateID)
	if err != nil {
		return nil, warnings, fmt.Errorf("failed to load next template: %w", err)
	}

	title := next.DefaultTitle
	if title == "" {
		title = next.Name
	}
	priority := next.DefaultPriority
	if priority == "" {
		priority = domain.TaskPriorityMedium
	}
	taskType := next.TaskTypeID
	if taskType == nil {
		taskType = parent.TaskTypeID
	}
	due := workflow.FollowUpDueDate(s.zone.Now(), step.DelayDays, next.DueOffset, s.zone)
	templateID := next.ID
	parentID := parent.ID

	followUp, err := s.CreateTask(ctx, &domain.Task{
		Title:        title,
		Description:  next.DefaultDescription,
		DueDate:      &due,
		TemplateID:   &templateID,
		ParentTaskID: &parentID,
		TaskTypeID:   taskType,
		ContactID:    parent.ContactID,
		Status:       domain.TaskStatusPending,
		Priority:     priority,
	})
	if err != nil {
		return nil, warnings, err
	}

	slog.InfoContext(ctx, "follow-up task created",
		slog.String("parent_id", parent.ID),
		slog.String("task_id", followUp.ID),
		slog.String("template_id", templateID))
	return followUp, warnings, nil
}
