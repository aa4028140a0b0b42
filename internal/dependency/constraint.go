package dependency

import (
	"cloud.google.com/go/civil"

	"github.com/JakTech215/crm-app-sub000/internal/calendar"
	"github.com/JakTech215/crm-app-sub000/internal/domain"
)

// Field names the dependent date a constraint bounds.
type Field string

const (
	FieldStart  Field = "start"
	FieldFinish Field = "finish"
)

// Constraint is the earliest date a dependency allows for one of the
// dependent's dates. It is advisory: nothing moves dates to satisfy it.
type Constraint struct {
	DependencyID  string                `json:"dependency_id"`
	PredecessorID string                `json:"predecessor_id"`
	Type          domain.DependencyType `json:"type"`
	LagDays       int                   `json:"lag_days"`
	Field         Field                 `json:"field"`
	NotBefore     civil.Date            `json:"not_before"`
}

// ConstraintFor derives the bound implied by dep from its predecessor's dates.
//
//	finish_to_start:  dependent start  >= predecessor due   + lag
//	start_to_start:   dependent start  >= predecessor start + lag
//	finish_to_finish: dependent finish >= predecessor due   + lag
//	start_to_finish:  dependent finish >= predecessor start + lag
//
// The bool is false when the predecessor lacks the date the type reads.
func ConstraintFor(pred domain.Task, dep domain.TaskDependency) (Constraint, bool) {
	var (
		from  *civil.Date
		field Field
	)
	switch dep.Type {
	case domain.DependencyFinishToStart, "":
		from, field = pred.DueDate, FieldStart
	case domain.DependencyStartToStart:
		from, field = pred.StartDate, FieldStart
	case domain.DependencyFinishToFinish:
		from, field = pred.DueDate, FieldFinish
	case domain.DependencyStartToFinish:
		from, field = pred.StartDate, FieldFinish
	default:
		return Constraint{}, false
	}
	if from == nil {
		return Constraint{}, false
	}

	typ := dep.Type
	if typ == "" {
		typ = domain.DependencyFinishToStart
	}
	return Constraint{
		DependencyID:  dep.ID,
		PredecessorID: pred.ID,
		Type:          typ,
		LagDays:       dep.LagDays,
		Field:         field,
		NotBefore:     calendar.AddDays(*from, dep.LagDays),
	}, true
}

// ViolatedBy reports whether task's bounded date is set and earlier than allowed.
func (c Constraint) ViolatedBy(task domain.Task) bool {
	d := task.StartDate
	if c.Field == FieldFinish {
		d = task.DueDate
	}
	return d != nil && d.Before(c.NotBefore)
}
