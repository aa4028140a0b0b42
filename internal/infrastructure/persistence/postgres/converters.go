package postgres

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JakTech215/crm-app-sub000/internal/domain"
)

// === pgtype Conversion Helpers ===

// parseID converts a string id to pgtype.UUID, failing with domain.ErrInvalidID.
func parseID(id string) (pgtype.UUID, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return pgtype.UUID{}, fmt.Errorf("%w: %w", domain.ErrInvalidID, err)
	}
	return pgtype.UUID{Bytes: u, Valid: true}, nil
}

// parseIDs converts every id, failing on the first malformed one.
func parseIDs(ids []string) ([]pgtype.UUID, error) {
	out := make([]pgtype.UUID, len(ids))
	for i, id := range ids {
		u, err := parseID(id)
		if err != nil {
			return nil, err
		}
		out[i] = u
	}
	return out, nil
}

// parseOptionalID converts a nullable id; nil becomes SQL NULL.
func parseOptionalID(id *string) (pgtype.UUID, error) {
	if id == nil {
		return pgtype.UUID{}, nil
	}
	return parseID(*id)
}

// pgtypeToUUIDString converts pgtype.UUID to string (empty if invalid).
func pgtypeToUUIDString(id pgtype.UUID) string {
	if !id.Valid {
		return ""
	}
	return uuid.UUID(id.Bytes).String()
}

// pgtypeToUUIDPtr converts pgtype.UUID to *string (nil if invalid).
func pgtypeToUUIDPtr(id pgtype.UUID) *string {
	if !id.Valid {
		return nil
	}
	s := pgtypeToUUIDString(id)
	return &s
}

func timeToPgtype(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

// timePtrToPgtype maps nil to SQL NULL.
func timePtrToPgtype(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return timeToPgtype(*t)
}

// pgtypeToTime returns the instant in UTC, or the zero time for NULL.
func pgtypeToTime(t pgtype.Timestamptz) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time.UTC()
}

func pgtypeToTimePtr(t pgtype.Timestamptz) *time.Time {
	if !t.Valid {
		return nil
	}
	utc := t.Time.UTC()
	return &utc
}

// dateToPgtype pins a calendar date to midnight UTC, which is how pgx
// encodes DATE values.
func dateToPgtype(d civil.Date) pgtype.Date {
	return pgtype.Date{Time: d.In(time.UTC), Valid: true}
}

func datePtrToPgtype(d *civil.Date) pgtype.Date {
	if d == nil {
		return pgtype.Date{}
	}
	return dateToPgtype(*d)
}

// pgtypeToDatePtr reads the calendar fields back without any zone shift.
func pgtypeToDatePtr(d pgtype.Date) *civil.Date {
	if !d.Valid {
		return nil
	}
	cd := civil.Date{Year: d.Time.Year(), Month: d.Time.Month(), Day: d.Time.Day()}
	return &cd
}

func intPtrToInt32(v *int) *int32 {
	if v == nil {
		return nil
	}
	i := int32(*v)
	return &i
}

func int32PtrToInt(v *int32) *int {
	if v == nil {
		return nil
	}
	i := int(*v)
	return &i
}

func unitPtrToString(u *domain.RecurrenceUnit) *string {
	if u == nil {
		return nil
	}
	s := string(*u)
	return &s
}

func stringToUnitPtr(s *string) *domain.RecurrenceUnit {
	if s == nil {
		return nil
	}
	u := domain.RecurrenceUnit(*s)
	return &u
}

// === Task Conversions ===

// taskRow mirrors taskSelect column for column.
type taskRow struct {
	ID                     pgtype.UUID        `db:"id"`
	Title                  string             `db:"title"`
	Description            string             `db:"description"`
	StartDate              pgtype.Date        `db:"start_date"`
	DueDate                pgtype.Date        `db:"due_date"`
	IsMilestone            bool               `db:"is_milestone"`
	IsRecurring            bool               `db:"is_recurring"`
	RecurrenceFrequency    *int32             `db:"recurrence_frequency"`
	RecurrenceUnit         *string            `db:"recurrence_unit"`
	RecurrenceSourceTaskID pgtype.UUID        `db:"recurrence_source_task_id"`
	TemplateID             pgtype.UUID        `db:"template_id"`
	ParentTaskID           pgtype.UUID        `db:"parent_task_id"`
	TaskTypeID             pgtype.UUID        `db:"task_type_id"`
	ContactID              pgtype.UUID        `db:"contact_id"`
	Status                 string             `db:"status"`
	Priority               string             `db:"priority"`
	CreatedBy              *string            `db:"created_by"`
	CompletedAt            pgtype.Timestamptz `db:"completed_at"`
	CreatedAt              pgtype.Timestamptz `db:"created_at"`
	UpdatedAt              pgtype.Timestamptz `db:"updated_at"`
	AssigneeIDs            []string           `db:"assignee_ids"`
	ProjectIDs             []string           `db:"project_ids"`
}

func dbTaskToDomain(r taskRow) domain.Task {
	return domain.Task{
		ID:                     pgtypeToUUIDString(r.ID),
		Title:                  r.Title,
		Description:            r.Description,
		StartDate:              pgtypeToDatePtr(r.StartDate),
		DueDate:                pgtypeToDatePtr(r.DueDate),
		IsMilestone:            r.IsMilestone,
		IsRecurring:            r.IsRecurring,
		RecurrenceFrequency:    int32PtrToInt(r.RecurrenceFrequency),
		RecurrenceUnit:         stringToUnitPtr(r.RecurrenceUnit),
		RecurrenceSourceTaskID: pgtypeToUUIDPtr(r.RecurrenceSourceTaskID),
		TemplateID:             pgtypeToUUIDPtr(r.TemplateID),
		ParentTaskID:           pgtypeToUUIDPtr(r.ParentTaskID),
		TaskTypeID:             pgtypeToUUIDPtr(r.TaskTypeID),
		ContactID:              pgtypeToUUIDPtr(r.ContactID),
		Status:                 domain.TaskStatus(r.Status),
		Priority:               domain.TaskPriority(r.Priority),
		AssigneeIDs:            emptyToNil(r.AssigneeIDs),
		ProjectIDs:             emptyToNil(r.ProjectIDs),
		CreatedBy:              r.CreatedBy,
		CompletedAt:            pgtypeToTimePtr(r.CompletedAt),
		CreatedAt:              pgtypeToTime(r.CreatedAt),
		UpdatedAt:              pgtypeToTime(r.UpdatedAt),
	}
}

// taskParams holds the insert arguments for one task.
type taskParams struct {
	id, sourceID, templateID, parentID, taskTypeID, contactID pgtype.UUID
}

func domainTaskToParams(t *domain.Task) (taskParams, error) {
	var (
		p   taskParams
		err error
	)
	if p.id, err = parseID(t.ID); err != nil {
		return p, err
	}
	for _, f := range []struct {
		dst *pgtype.UUID
		src *string
	}{
		{&p.sourceID, t.RecurrenceSourceTaskID},
		{&p.templateID, t.TemplateID},
		{&p.parentID, t.ParentTaskID},
		{&p.taskTypeID, t.TaskTypeID},
		{&p.contactID, t.ContactID},
	} {
		if *f.dst, err = parseOptionalID(f.src); err != nil {
			return p, err
		}
	}
	return p, nil
}

// === Dependency Conversions ===

type dependencyRow struct {
	ID              pgtype.UUID        `db:"id"`
	TaskID          pgtype.UUID        `db:"task_id"`
	DependsOnTaskID pgtype.UUID        `db:"depends_on_task_id"`
	DependencyType  string             `db:"dependency_type"`
	LagDays         int32              `db:"lag_days"`
	CreatedAt       pgtype.Timestamptz `db:"created_at"`
}

func dbDependencyToDomain(r dependencyRow) domain.TaskDependency {
	return domain.TaskDependency{
		ID:              pgtypeToUUIDString(r.ID),
		TaskID:          pgtypeToUUIDString(r.TaskID),
		DependsOnTaskID: pgtypeToUUIDString(r.DependsOnTaskID),
		Type:            domain.DependencyType(r.DependencyType),
		LagDays:         int(r.LagDays),
		CreatedAt:       pgtypeToTime(r.CreatedAt),
	}
}

// === Template Conversions ===

type templateRow struct {
	ID                  pgtype.UUID        `db:"id"`
	Name                string             `db:"name"`
	DefaultTitle        string             `db:"default_title"`
	DefaultDescription  string             `db:"default_description"`
	DefaultPriority     string             `db:"default_priority"`
	DueOffsetAmount     int32              `db:"due_offset_amount"`
	DueOffsetUnit       string             `db:"due_offset_unit"`
	TaskTypeID          pgtype.UUID        `db:"task_type_id"`
	IsRecurring         bool               `db:"is_recurring"`
	RecurrenceFrequency *int32             `db:"recurrence_frequency"`
	RecurrenceUnit      *string            `db:"recurrence_unit"`
	RecurrenceCount     *int32             `db:"recurrence_count"`
	CreatedAt           pgtype.Timestamptz `db:"created_at"`
}

func dbTemplateToDomain(r templateRow) domain.TaskTemplate {
	return domain.TaskTemplate{
		ID:                  pgtypeToUUIDString(r.ID),
		Name:                r.Name,
		DefaultTitle:        r.DefaultTitle,
		DefaultDescription:  r.DefaultDescription,
		DefaultPriority:     domain.TaskPriority(r.DefaultPriority),
		DueOffset:           domain.DueOffset{Amount: int(r.DueOffsetAmount), Unit: domain.OffsetUnit(r.DueOffsetUnit)},
		TaskTypeID:          pgtypeToUUIDPtr(r.TaskTypeID),
		IsRecurring:         r.IsRecurring,
		RecurrenceFrequency: int32PtrToInt(r.RecurrenceFrequency),
		RecurrenceUnit:      stringToUnitPtr(r.RecurrenceUnit),
		RecurrenceCount:     int32PtrToInt(r.RecurrenceCount),
		CreatedAt:           pgtypeToTime(r.CreatedAt),
	}
}

type stepRow struct {
	ID             pgtype.UUID        `db:"id"`
	TemplateID     pgtype.UUID        `db:"template_id"`
	NextTemplateID pgtype.UUID        `db:"next_template_id"`
	DelayDays      int32              `db:"delay_days"`
	CreatedAt      pgtype.Timestamptz `db:"created_at"`
}

func dbStepToDomain(r stepRow) domain.TaskWorkflowStep {
	return domain.TaskWorkflowStep{
		ID:             pgtypeToUUIDString(r.ID),
		TemplateID:     pgtypeToUUIDString(r.TemplateID),
		NextTemplateID: pgtypeToUUIDString(r.NextTemplateID),
		DelayDays:      int(r.DelayDays),
		CreatedAt:      pgtypeToTime(r.CreatedAt),
	}
}

// domainStatusesToStrings converts statuses for an ANY($n) filter.
func domainStatusesToStrings(statuses []domain.TaskStatus) []string {
	result := make([]string, len(statuses))
	for i, s := range statuses {
		result[i] = string(s)
	}
	return result
}

func emptyToNil(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}
