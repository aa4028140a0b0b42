package domain

import (
	"time"

	"cloud.google.com/go/civil"
)

// Task is the central scheduling entity.
//
// StartDate and DueDate are calendar dates with no zone. CreatedAt, UpdatedAt
// and CompletedAt are UTC instants.
type Task struct {
	ID          string
	Title       string
	Description string
	StartDate   *civil.Date
	DueDate     *civil.Date
	IsMilestone bool

	// Recurrence. A series root has RecurrenceSourceTaskID == nil.
	IsRecurring            bool
	RecurrenceFrequency    *int
	RecurrenceUnit         *RecurrenceUnit
	RecurrenceSourceTaskID *string

	// Workflow. ParentTaskID points at the task whose completion spawned this one.
	TemplateID   *string
	ParentTaskID *string
	TaskTypeID   *string

	ContactID   *string
	Status      TaskStatus
	Priority    TaskPriority
	AssigneeIDs []string
	ProjectIDs  []string

	CreatedBy   *string
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidateRecurrence checks that a recurring task carries a positive
// frequency and a known unit.
func (t *Task) ValidateRecurrence() error {
	if !t.IsRecurring {
		return nil
	}
	if t.RecurrenceFrequency == nil || t.RecurrenceUnit == nil {
		return ErrRecurrenceRequired
	}
	if *t.RecurrenceFrequency <= 0 {
		return ErrInvalidRecurrenceFrequency
	}
	if _, err := NewRecurrenceUnit(string(*t.RecurrenceUnit)); err != nil {
		return err
	}
	return nil
}

// SameRecurrence reports whether two tasks share frequency and unit.
func (t *Task) SameRecurrence(other *Task) bool {
	if t.RecurrenceFrequency == nil || other.RecurrenceFrequency == nil ||
		t.RecurrenceUnit == nil || other.RecurrenceUnit == nil {
		return false
	}
	return *t.RecurrenceFrequency == *other.RecurrenceFrequency &&
		*t.RecurrenceUnit == *other.RecurrenceUnit
}

// IsSeriesRoot reports whether the task is the first occurrence of its series.
func (t *Task) IsSeriesRoot() bool {
	return t.IsRecurring && t.RecurrenceSourceTaskID == nil
}

// HasSpan reports whether both dates are set, which is what positions a
// task on the timeline.
func (t *Task) HasSpan() bool {
	return t.StartDate != nil && t.DueDate != nil
}

// TaskDependency is a directed edge: TaskID depends on DependsOnTaskID.
type TaskDependency struct {
	ID              string
	TaskID          string
	DependsOnTaskID string
	Type            DependencyType
	LagDays         int // negative means lead time
	CreatedAt       time.Time
}

// DueOffset is a template's default distance from creation to due date.
type DueOffset struct {
	Amount int
	Unit   OffsetUnit
}

// Apply advances t by the offset. A zero offset returns t unchanged.
// Month arithmetic normalizes overflow the same way time.AddDate does.
func (o DueOffset) Apply(t time.Time) time.Time {
	switch o.Unit {
	case OffsetHours:
		return t.Add(time.Duration(o.Amount) * time.Hour)
	case OffsetDays:
		return t.AddDate(0, 0, o.Amount)
	case OffsetWeeks:
		return t.AddDate(0, 0, 7*o.Amount)
	case OffsetMonths:
		return t.AddDate(0, o.Amount, 0)
	default:
		return t
	}
}

// TaskTemplate is a reusable task blueprint.
type TaskTemplate struct {
	ID                  string
	Name                string
	DefaultTitle        string
	DefaultDescription  string
	DefaultPriority     TaskPriority
	DueOffset           DueOffset
	TaskTypeID          *string
	IsRecurring         bool
	RecurrenceFrequency *int
	RecurrenceUnit      *RecurrenceUnit
	RecurrenceCount     *int
	CreatedAt           time.Time
}

// TaskWorkflowStep links a template to the template that follows it.
type TaskWorkflowStep struct {
	ID             string
	TemplateID     string
	NextTemplateID string
	DelayDays      int
	CreatedAt      time.Time
}

// Employee, Project and Contact are the related rows a task links to.
// Only the fields needed to render names are carried.

type Employee struct {
	ID        string
	FirstName string
	LastName  string
}

// FullName returns "First Last", trimmed when either part is missing.
func (e Employee) FullName() string {
	return joinName(e.FirstName, e.LastName)
}

type Project struct {
	ID   string
	Name string
}

type Contact struct {
	ID        string
	FirstName string
	LastName  string
}

// FullName returns "First Last", trimmed when either part is missing.
func (c Contact) FullName() string {
	return joinName(c.FirstName, c.LastName)
}

func joinName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}

// GanttTask is a Task with its related names resolved for display.
// It is never persisted.
type GanttTask struct {
	Task
	// Projects keeps ids next to names; distinct projects may share a name.
	Projects      []Project
	ProjectNames  []string
	AssigneeNames []string
	ContactName   string
}
