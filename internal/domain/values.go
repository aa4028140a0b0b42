package domain

// TaskStatus represents the current state of a task.
// Value object - immutable string enum.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
	TaskStatusBlocked    TaskStatus = "blocked"
)

// TaskPriority represents the priority level of a task.
// Value object - immutable string enum.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

// RecurrenceUnit is the step unit of a recurring series.
type RecurrenceUnit string

const (
	RecurrenceDays   RecurrenceUnit = "days"
	RecurrenceWeeks  RecurrenceUnit = "weeks"
	RecurrenceMonths RecurrenceUnit = "months"
)

// OffsetUnit is the unit of a template's due offset.
// Hours are allowed here, unlike recurrence units.
type OffsetUnit string

const (
	OffsetHours  OffsetUnit = "hours"
	OffsetDays   OffsetUnit = "days"
	OffsetWeeks  OffsetUnit = "weeks"
	OffsetMonths OffsetUnit = "months"
)

// DependencyType describes how a dependent task is scheduled relative to its predecessor.
type DependencyType string

const (
	DependencyFinishToStart  DependencyType = "finish_to_start"
	DependencyStartToStart   DependencyType = "start_to_start"
	DependencyFinishToFinish DependencyType = "finish_to_finish"
	DependencyStartToFinish  DependencyType = "start_to_finish"
)
