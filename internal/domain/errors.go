package domain

import "errors"

// Domain errors returned by repository implementations.

var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrTaskNotFound indicates the specified task does not exist.
	ErrTaskNotFound = errors.New("task not found")

	// ErrTemplateNotFound indicates the specified task template does not exist.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrDependencyNotFound indicates the specified dependency edge does not exist.
	ErrDependencyNotFound = errors.New("dependency not found")

	// ErrInvalidID indicates the provided ID format is invalid.
	ErrInvalidID = errors.New("invalid ID format")
)

// Validation errors. These are returned before any store call is made.

var (
	ErrTitleRequired       = errors.New("title is required")
	ErrTitleTooLong        = errors.New("title must be 255 characters or less")
	ErrInvalidTaskStatus   = errors.New("invalid task status")
	ErrInvalidTaskPriority = errors.New("invalid task priority")

	ErrInvalidRecurrenceUnit      = errors.New("invalid recurrence unit")
	ErrInvalidRecurrenceFrequency = errors.New("recurrence frequency must be a positive integer")
	ErrRecurrenceRequired         = errors.New("recurring task requires frequency and unit")
	ErrRecurrenceMismatch         = errors.New("recurrence does not match series root")
	ErrInvalidOffsetUnit          = errors.New("invalid due offset unit")

	ErrInvalidDependencyType = errors.New("invalid dependency type")
	ErrSelfDependency        = errors.New("task cannot depend on itself")
	ErrDependencyCycle       = errors.New("dependency would create a cycle")

	ErrMissingDate        = errors.New("missing required date")
	ErrInvalidZoom        = errors.New("invalid zoom level")
	ErrNotRecurring       = errors.New("task is not recurring")
	ErrNotSeriesRoot      = errors.New("task is not a series root")
	ErrTooManyOccurrences = errors.New("too many occurrences")

	ErrEmptyUpdateMask = errors.New("update mask cannot be empty")
	ErrUnknownField    = errors.New("unknown field in update mask")
	ErrStatusRequired  = errors.New("status cannot be empty")
)
