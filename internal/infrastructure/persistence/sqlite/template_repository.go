package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/JakTech215/crm-app-sub000/internal/domain"
)

const templateColumns = `id, name, default_title, default_description, default_priority,
	due_offset_amount, due_offset_unit, task_type_id, is_recurring,
	recurrence_frequency, recurrence_unit, recurrence_count, created_at`

const stepColumns = `id, template_id, next_template_id, delay_days, created_at`

// CreateTemplate stores a template. Templates are managed outside the
// scheduling core; the CLI seeds them and tests use it for fixtures.
func (s *Store) CreateTemplate(ctx context.Context, t *domain.TaskTemplate) error {
	unit := t.DueOffset.Unit
	if unit == "" {
		unit = domain.OffsetDays
	}
	priority := t.DefaultPriority
	if priority == "" {
		priority = domain.TaskPriorityMedium
	}
	query := `INSERT INTO task_templates (` + templateColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		t.ID, t.Name, t.DefaultTitle, t.DefaultDescription, string(priority),
		t.DueOffset.Amount, string(unit), nullableStringToValue(t.TaskTypeID),
		boolToInt(t.IsRecurring), nullableIntToValue(t.RecurrenceFrequency),
		nullableUnitToValue(t.RecurrenceUnit), nullableIntToValue(t.RecurrenceCount),
		timeToString(t.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting template: %w", err)
	}
	return nil
}

// CreateWorkflowStep stores one template-to-template edge.
func (s *Store) CreateWorkflowStep(ctx context.Context, step *domain.TaskWorkflowStep) error {
	query := `INSERT INTO task_workflow_steps (` + stepColumns + `) VALUES (?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		step.ID, step.TemplateID, step.NextTemplateID, step.DelayDays, timeToString(step.CreatedAt))
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: %s or %s", domain.ErrTemplateNotFound, step.TemplateID, step.NextTemplateID)
		}
		return fmt.Errorf("inserting workflow step: %w", err)
	}
	return nil
}

func (s *Store) FindTemplateByID(ctx context.Context, id string) (*domain.TaskTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM task_templates WHERE id = ?`
	t, err := scanTemplate(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrTemplateNotFound, id)
		}
		return nil, fmt.Errorf("getting template: %w", err)
	}
	return t, nil
}

func (s *Store) FindTemplates(ctx context.Context) ([]domain.TaskTemplate, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+templateColumns+` FROM task_templates ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	defer rows.Close()

	templates := []domain.TaskTemplate{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning template: %w", err)
		}
		templates = append(templates, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating templates: %w", err)
	}
	return templates, nil
}

func (s *Store) FindWorkflowSteps(ctx context.Context) ([]domain.TaskWorkflowStep, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+stepColumns+` FROM task_workflow_steps ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("listing workflow steps: %w", err)
	}
	return scanSteps(rows)
}

func (s *Store) FindWorkflowStepsFrom(ctx context.Context, templateID string) ([]domain.TaskWorkflowStep, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+stepColumns+` FROM task_workflow_steps WHERE template_id = ? ORDER BY created_at, id`, templateID)
	if err != nil {
		return nil, fmt.Errorf("listing workflow steps from template: %w", err)
	}
	return scanSteps(rows)
}

func scanTemplate(row rowScanner) (*domain.TaskTemplate, error) {
	var (
		t                    domain.TaskTemplate
		priority, offsetUnit string
		taskTypeID, unit     sql.NullString
		isRecurring          int
		frequency, count     sql.NullInt64
		createdAt            string
	)
	err := row.Scan(
		&t.ID, &t.Name, &t.DefaultTitle, &t.DefaultDescription, &priority,
		&t.DueOffset.Amount, &offsetUnit, &taskTypeID, &isRecurring,
		&frequency, &unit, &count, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	t.DefaultPriority = domain.TaskPriority(priority)
	t.DueOffset.Unit = domain.OffsetUnit(offsetUnit)
	t.TaskTypeID = nullableString(taskTypeID)
	t.IsRecurring = isRecurring != 0
	t.RecurrenceFrequency = nullableInt(frequency)
	t.RecurrenceUnit = nullableUnit(unit)
	t.RecurrenceCount = nullableInt(count)
	return &t, nil
}

func scanSteps(rows *sql.Rows) ([]domain.TaskWorkflowStep, error) {
	defer rows.Close()
	steps := []domain.TaskWorkflowStep{}
	for rows.Next() {
		var (
			step      domain.TaskWorkflowStep
			createdAt string
		)
		if err := rows.Scan(&step.ID, &step.TemplateID, &step.NextTemplateID, &step.DelayDays, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning workflow step: %w", err)
		}
		t, err := parseTime(createdAt)
		if err != nil {
			return nil, err
		}
		step.CreatedAt = t
		steps = append(steps, step)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating workflow steps: %w", err)
	}
	return steps, nil
}
