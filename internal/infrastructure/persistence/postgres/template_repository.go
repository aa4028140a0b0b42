package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/JakTech215/crm-app-sub000/internal/domain"
)

const templateSelect = `SELECT id, name, default_title, default_description, default_priority,
	due_offset_amount, due_offset_unit, task_type_id, is_recurring,
	recurrence_frequency, recurrence_unit, recurrence_count, created_at
	FROM task_templates`

const stepSelect = `SELECT id, template_id, next_template_id, delay_days, created_at
	FROM task_workflow_steps`

func (s *Store) FindTemplateByID(ctx context.Context, id string) (*domain.TaskTemplate, error) {
	templateID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.Query(ctx, templateSelect+` WHERE id = $1`, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[templateRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrTemplateNotFound, id)
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	t := dbTemplateToDomain(row)
	return &t, nil
}

func (s *Store) FindTemplates(ctx context.Context) ([]domain.TaskTemplate, error) {
	rows, err := s.db.Query(ctx, templateSelect+` ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	dbRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[templateRow])
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	templates := make([]domain.TaskTemplate, 0, len(dbRows))
	for _, r := range dbRows {
		templates = append(templates, dbTemplateToDomain(r))
	}
	return templates, nil
}

func (s *Store) FindWorkflowSteps(ctx context.Context) ([]domain.TaskWorkflowStep, error) {
	return s.querySteps(ctx, stepSelect+` ORDER BY created_at, id`)
}

func (s *Store) FindWorkflowStepsFrom(ctx context.Context, templateID string) ([]domain.TaskWorkflowStep, error) {
	id, err := parseID(templateID)
	if err != nil {
		return nil, err
	}
	return s.querySteps(ctx, stepSelect+` WHERE template_id = $1 ORDER BY created_at, id`, id)
}

func (s *Store) querySteps(ctx context.Context, query string, queryArgs ...any) ([]domain.TaskWorkflowStep, error) {
	rows, err := s.db.Query(ctx, query, queryArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflow steps: %w", err)
	}
	dbRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[stepRow])
	if err != nil {
		return nil, fmt.Errorf("failed to list workflow steps: %w", err)
	}
	steps := make([]domain.TaskWorkflowStep, 0, len(dbRows))
	for _, r := range dbRows {
		steps = append(steps, dbStepToDomain(r))
	}
	return steps, nil
}

// FindNames loads employees, projects and contacts by id. Unknown ids are
// absent from the result.
func (s *Store) FindNames(ctx context.Context, employeeIDs, projectIDs, contactIDs []string) (domain.Names, error) {
	names := domain.Names{
		Employees: map[string]domain.Employee{},
		Projects:  map[string]domain.Project{},
		Contacts:  map[string]domain.Contact{},
	}

	if len(employeeIDs) > 0 {
		err := s.queryNamed(ctx, `SELECT id::text, first_name, last_name FROM employees WHERE id = ANY($1)`, employeeIDs,
			func(rows pgx.Rows) error {
				var e domain.Employee
				if err := rows.Scan(&e.ID, &e.FirstName, &e.LastName); err != nil {
					return err
				}
				names.Employees[e.ID] = e
				return nil
			})
		if err != nil {
			return domain.Names{}, fmt.Errorf("failed to load employees: %w", err)
		}
	}

	if len(projectIDs) > 0 {
		err := s.queryNamed(ctx, `SELECT id::text, name FROM projects WHERE id = ANY($1)`, projectIDs,
			func(rows pgx.Rows) error {
				var p domain.Project
				if err := rows.Scan(&p.ID, &p.Name); err != nil {
					return err
				}
				names.Projects[p.ID] = p
				return nil
			})
		if err != nil {
			return domain.Names{}, fmt.Errorf("failed to load projects: %w", err)
		}
	}

	if len(contactIDs) > 0 {
		err := s.queryNamed(ctx, `SELECT id::text, first_name, last_name FROM contacts WHERE id = ANY($1)`, contactIDs,
			func(rows pgx.Rows) error {
				var c domain.Contact
				if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName); err != nil {
					return err
				}
				names.Contacts[c.ID] = c
				return nil
			})
		if err != nil {
			return domain.Names{}, fmt.Errorf("failed to load contacts: %w", err)
		}
	}

	return names, nil
}

func (s *Store) queryNamed(ctx context.Context, query string, ids []string, scan func(pgx.Rows) error) error {
	parsed, err := parseIDs(ids)
	if err != nil {
		return err
	}
	rows, err := s.db.Query(ctx, query, parsed)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}
