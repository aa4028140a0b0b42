package domain

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// UpdateTaskParams is a masked partial update of one task row.
// Only fields named in UpdateMask are written; a nil value in the mask clears the column.
type UpdateTaskParams struct {
	TaskID     string
	UpdateMask []string

	Status      *TaskStatus
	CompletedAt *time.Time
	StartDate   *civil.Date
	DueDate     *civil.Date
}

// Valid fields for UpdateTaskParams.
var updateTaskValidFields = map[string]struct{}{
	"status":       {},
	"completed_at": {},
	"start_date":   {},
	"due_date":     {},
}

// Validate checks that UpdateMask contains only known fields and that
// required fields have non-nil values when included in the mask.
func (p UpdateTaskParams) Validate() error {
	if len(p.UpdateMask) == 0 {
		return ErrEmptyUpdateMask
	}

	maskSet := make(map[string]bool, len(p.UpdateMask))

	// Check for unknown fields
	for _, field := range p.UpdateMask {
		if _, ok := updateTaskValidFields[field]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
		maskSet[field] = true
	}

	if maskSet["status"] && p.Status == nil {
		return ErrStatusRequired
	}

	return nil
}

// Has reports whether field is in the update mask.
func (p UpdateTaskParams) Has(field string) bool {
	for _, f := range p.UpdateMask {
		if f == field {
			return true
		}
	}
	return false
}
