// Package task orchestrates the scheduling core over a Repository.
package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JakTech215/crm-app-sub000/internal/calendar"
	"github.com/JakTech215/crm-app-sub000/internal/domain"
	"github.com/JakTech215/crm-app-sub000/internal/identity"
	"github.com/JakTech215/crm-app-sub000/internal/recurrence"
)

// Default configuration values.
const (
	DefaultMaxOccurrences = 500
	DefaultListLimit      = 100
	MaxListLimit          = 1000
)

// Config holds configuration for the Service.
type Config struct {
	// MaxOccurrences caps one series materialization or template preview.
	MaxOccurrences   int
	DefaultListLimit int
	MaxListLimit     int
}

// Service provides the task scheduling operations.
type Service struct {
	repo      Repository
	zone      *calendar.Zone
	generator *recurrence.Generator
	config    Config
}

// NewService creates a new task service.
// Applies defaults for zero or invalid config values.
func NewService(repo Repository, zone *calendar.Zone, config Config) *Service {
	if config.MaxOccurrences <= 0 {
		config.MaxOccurrences = DefaultMaxOccurrences
	}
	if config.DefaultListLimit <= 0 {
		config.DefaultListLimit = DefaultListLimit
	}
	if config.MaxListLimit <= 0 {
		config.MaxListLimit = MaxListLimit
	}

	return &Service{
		repo:      repo,
		zone:      zone,
		generator: recurrence.NewGenerator(zone),
		config:    config,
	}
}

// Zone returns the service's civil zone.
func (s *Service) Zone() *calendar.Zone { return s.zone }

// CreateTask validates and stores a new task with its assignee and project links.
// CreatedBy defaults to the acting user.
func (s *Service) CreateTask(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	title, err := domain.NewTitle(task.Title)
	if err != nil {
		return nil, err
	}
	status, err := domain.NewTaskStatus(string(task.Status))
	if err != nil {
		return nil, err
	}
	priority, err := domain.NewTaskPriority(string(task.Priority))
	if err != nil {
		return nil, err
	}
	if err := task.ValidateRecurrence(); err != nil {
		return nil, err
	}

	if task.RecurrenceSourceTaskID != nil {
		source, err := s.repo.FindTaskByID(ctx, *task.RecurrenceSourceTaskID)
		if err != nil {
			return nil, fmt.Errorf("failed to load series root: %w", err)
		}
		if !task.SameRecurrence(source) {
			return nil, fmt.Errorf("%w: %s", domain.ErrRecurrenceMismatch, source.ID)
		}
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}

	now := s.zone.Now()
	task.ID = id
	task.Title = title.String()
	task.Status = status
	task.Priority = priority
	task.CreatedAt = now
	task.UpdatedAt = now
	if task.CreatedBy == nil {
		task.CreatedBy = currentUser(ctx)
	}
	if status == domain.TaskStatusCompleted {
		task.CompletedAt = &now
	} else {
		task.CompletedAt = nil
	}

	created, err := s.insertWithLinks(ctx, "create_task", task, 0)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetTask retrieves a task by ID.
func (s *Service) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	if id == "" {
		return nil, domain.ErrTaskNotFound
	}
	return s.repo.FindTaskByID(ctx, id)
}

// ListTasks returns tasks matching filter, applying the list limits.
func (s *Service) ListTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.Limit <= 0 {
		filter.Limit = s.config.DefaultListLimit
	}
	filter.Limit = min(filter.Limit, s.config.MaxListLimit)

	tasks, err := s.repo.FindTasks(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// TaskPage is one page of a task listing.
type TaskPage struct {
	Tasks   []domain.Task
	HasMore bool
}

// ListTaskPage is ListTasks plus whether rows remain past the page. The page
// size is clamped first and one extra row is read to detect the next page.
func (s *Service) ListTaskPage(ctx context.Context, filter domain.TaskFilter) (*TaskPage, error) {
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.Limit <= 0 {
		filter.Limit = s.config.DefaultListLimit
	}
	size := min(filter.Limit, s.config.MaxListLimit)
	filter.Limit = size + 1

	tasks, err := s.repo.FindTasks(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	page := &TaskPage{Tasks: tasks, HasMore: len(tasks) > size}
	if page.HasMore {
		page.Tasks = tasks[:size]
	}
	return page, nil
}

// insertWithLinks stores the row, then its assignee links, then its project
// links. done is the count of steps already completed by the caller.
func (s *Service) insertWithLinks(ctx context.Context, op string, task *domain.Task, done int) (*domain.Task, error) {
	assignees, projects := task.AssigneeIDs, task.ProjectIDs

	created, err := s.repo.CreateTask(ctx, task)
	if err != nil {
		return nil, &StepError{Op: op, Step: StepInsertTask, TaskID: task.ID, Done: done, Err: err}
	}
	done++

	if len(assignees) > 0 {
		if err := s.repo.AddAssignees(ctx, created.ID, assignees, currentUser(ctx)); err != nil {
			return nil, &StepError{Op: op, Step: StepLinkAssignees, TaskID: created.ID, Done: done, Err: err}
		}
		done++
	}
	if len(projects) > 0 {
		if err := s.repo.AddProjects(ctx, created.ID, projects); err != nil {
			return nil, &StepError{Op: op, Step: StepLinkProjects, TaskID: created.ID, Done: done, Err: err}
		}
	}

	created.AssigneeIDs = assignees
	created.ProjectIDs = projects
	return created, nil
}

func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	return id.String(), nil
}

func currentUser(ctx context.Context) *string {
	if id, ok := identity.FromContext(ctx); ok {
		return &id
	}
	return nil
}

// logStep records one completed cleanup or fan-out step.
func logStep(ctx context.Context, op, step, taskID string, n int64) {
	slog.DebugContext(ctx, "step completed",
		slog.String("op", op),
		slog.String("step", step),
		slog.String("task_id", taskID),
		slog.Int64("rows", n))
}
