package domain

import (
	"fmt"
	"strings"
)

// Title is a validated title value object (1-255 characters).
type Title struct {
	value string
}

// NewTitle creates a new Title, validating the input.
func NewTitle(s string) (Title, error) {
	s = strings.TrimSpace(s)

	if s == "" {
		return Title{}, ErrTitleRequired
	}

	if len(s) > 255 {
		return Title{}, ErrTitleTooLong
	}

	return Title{value: s}, nil
}

// String returns the title value.
func (t Title) String() string {
	return t.value
}

// NewTaskStatus validates and creates a TaskStatus.
// Empty input yields pending.
func NewTaskStatus(s string) (TaskStatus, error) {
	if s == "" {
		return TaskStatusPending, nil
	}

	status := TaskStatus(strings.ToLower(s))

	switch status {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted,
		TaskStatusCancelled, TaskStatusBlocked:
		return status, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidTaskStatus, s)
	}
}

// NewTaskPriority validates and creates a TaskPriority.
// Returns error for invalid values.
func NewTaskPriority(s string) (TaskPriority, error) {
	if s == "" {
		return TaskPriorityMedium, nil
	}

	priority := TaskPriority(strings.ToLower(s))

	switch priority {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return priority, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidTaskPriority, s)
	}
}

// NewRecurrenceUnit validates a recurrence unit. There is no default.
func NewRecurrenceUnit(s string) (RecurrenceUnit, error) {
	unit := RecurrenceUnit(strings.ToLower(s))

	switch unit {
	case RecurrenceDays, RecurrenceWeeks, RecurrenceMonths:
		return unit, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRecurrenceUnit, s)
	}
}

// NewOffsetUnit validates a template due-offset unit.
func NewOffsetUnit(s string) (OffsetUnit, error) {
	unit := OffsetUnit(strings.ToLower(s))

	switch unit {
	case OffsetHours, OffsetDays, OffsetWeeks, OffsetMonths:
		return unit, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidOffsetUnit, s)
	}
}

// NewDependencyType validates a dependency type.
// Empty input yields finish_to_start.
func NewDependencyType(s string) (DependencyType, error) {
	if s == "" {
		return DependencyFinishToStart, nil
	}

	dt := DependencyType(strings.ToLower(s))

	switch dt {
	case DependencyFinishToStart, DependencyStartToStart,
		DependencyFinishToFinish, DependencyStartToFinish:
		return dt, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidDependencyType, s)
	}
}
