package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JakTech215/crm-app-sub000/internal/domain"
)

const taskSelect = `SELECT t.id, t.title, t.description, t.start_date, t.due_date,
	t.is_milestone, t.is_recurring, t.recurrence_frequency, t.recurrence_unit,
	t.recurrence_source_task_id, t.template_id, t.parent_task_id, t.task_type_id,
	t.contact_id, t.status, t.priority, t.created_by, t.completed_at,
	t.created_at, t.updated_at,
	ARRAY(SELECT a.employee_id::text FROM task_assignees a
		WHERE a.task_id = t.id ORDER BY a.assigned_at, a.employee_id) AS assignee_ids,
	ARRAY(SELECT p.project_id::text FROM task_projects p
		WHERE p.task_id = t.id ORDER BY p.project_id) AS project_ids
	FROM tasks t`

// isForeignKeyViolation reports whether err is a PostgreSQL FK violation
// (23503), optionally on a constraint mentioning column.
func isForeignKeyViolation(err error, column string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23503" {
		return false
	}
	if column == "" {
		return true
	}
	return strings.Contains(pgErr.ConstraintName, column) || strings.Contains(pgErr.Message, column)
}

// checkRowsAffected maps a zero-row UPDATE or DELETE to notFound.
func checkRowsAffected(tag pgconn.CommandTag, notFound error, entityID string) error {
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", notFound, entityID)
	}
	return nil
}

// args numbers positional parameters as they are added.
type args []any

func (a *args) add(v any) string {
	*a = append(*a, v)
	return fmt.Sprintf("$%d", len(*a))
}

// === Task Operations ===

func (s *Store) CreateTask(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	p, err := domainTaskToParams(t)
	if err != nil {
		return nil, err
	}

	_, err = s.db.Exec(ctx, `INSERT INTO tasks (
			id, title, description, start_date, due_date, is_milestone, is_recurring,
			recurrence_frequency, recurrence_unit, recurrence_source_task_id, template_id,
			parent_task_id, task_type_id, contact_id, status, priority, created_by,
			completed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`,
		p.id, t.Title, t.Description, datePtrToPgtype(t.StartDate), datePtrToPgtype(t.DueDate),
		t.IsMilestone, t.IsRecurring, intPtrToInt32(t.RecurrenceFrequency), unitPtrToString(t.RecurrenceUnit),
		p.sourceID, p.templateID, p.parentID, p.taskTypeID, p.contactID,
		string(t.Status), string(t.Priority), t.CreatedBy, timePtrToPgtype(t.CompletedAt),
		timeToPgtype(t.CreatedAt), timeToPgtype(t.UpdatedAt),
	)
	if err != nil {
		if isForeignKeyViolation(err, "") {
			return nil, fmt.Errorf("%w: task %s references a missing row: %w", domain.ErrNotFound, t.ID, err)
		}
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	created := *t
	created.AssigneeIDs = nil
	created.ProjectIDs = nil
	return &created, nil
}

func (s *Store) FindTaskByID(ctx context.Context, id string) (*domain.Task, error) {
	taskID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.Query(ctx, taskSelect+` WHERE t.id = $1`, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[taskRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	t := dbTaskToDomain(row)
	return &t, nil
}

func (s *Store) FindTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	query, a, err := buildTaskQuery(filter)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.Query(ctx, query, a...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	dbRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[taskRow])
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := make([]domain.Task, 0, len(dbRows))
	for _, r := range dbRows {
		tasks = append(tasks, dbTaskToDomain(r))
	}
	return tasks, nil
}

func buildTaskQuery(f domain.TaskFilter) (string, []any, error) {
	var (
		a     args
		conds []string
	)
	if len(f.IDs) > 0 {
		ids, err := parseIDs(f.IDs)
		if err != nil {
			return "", nil, err
		}
		conds = append(conds, "t.id = ANY("+a.add(ids)+")")
	}
	if len(f.Statuses) > 0 {
		conds = append(conds, "t.status = ANY("+a.add(domainStatusesToStrings(f.Statuses))+")")
	}
	for _, c := range []struct {
		id   *string
		cond string
	}{
		{f.ProjectID, "t.id IN (SELECT task_id FROM task_projects WHERE project_id = %s)"},
		{f.AssigneeID, "t.id IN (SELECT task_id FROM task_assignees WHERE employee_id = %s)"},
		{f.ParentTaskID, "t.parent_task_id = %s"},
		{f.RecurrenceSourceTaskID, "t.recurrence_source_task_id = %s"},
		{f.TemplateID, "t.template_id = %s"},
	} {
		if c.id == nil {
			continue
		}
		id, err := parseID(*c.id)
		if err != nil {
			return "", nil, err
		}
		conds = append(conds, fmt.Sprintf(c.cond, a.add(id)))
	}
	if f.HasDates {
		conds = append(conds, "t.start_date IS NOT NULL AND t.due_date IS NOT NULL")
	}
	if f.StartsBefore != nil {
		conds = append(conds, "t.start_date <= "+a.add(dateToPgtype(*f.StartsBefore)))
	}
	if f.DueAfter != nil {
		conds = append(conds, "t.due_date >= "+a.add(dateToPgtype(*f.DueAfter)))
	}

	var b strings.Builder
	b.WriteString(taskSelect)
	if len(conds) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conds, " AND "))
	}
	b.WriteString(" ORDER BY t.start_date NULLS LAST, t.due_date NULLS LAST, t.created_at, t.id")
	if f.Limit > 0 {
		b.WriteString(" LIMIT " + a.add(f.Limit) + " OFFSET " + a.add(f.Offset))
	}
	return b.String(), a, nil
}

func (s *Store) UpdateTask(ctx context.Context, params domain.UpdateTaskParams) (*domain.Task, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	taskID, err := parseID(params.TaskID)
	if err != nil {
		return nil, err
	}

	var (
		a    args
		sets []string
	)
	if params.Has("status") {
		sets = append(sets, "status = "+a.add(string(*params.Status)))
	}
	if params.Has("completed_at") {
		sets = append(sets, "completed_at = "+a.add(timePtrToPgtype(params.CompletedAt)))
	}
	if params.Has("start_date") {
		sets = append(sets, "start_date = "+a.add(datePtrToPgtype(params.StartDate)))
	}
	if params.Has("due_date") {
		sets = append(sets, "due_date = "+a.add(datePtrToPgtype(params.DueDate)))
	}
	sets = append(sets, "updated_at = now()")

	query := "UPDATE tasks SET " + strings.Join(sets, ", ") + " WHERE id = " + a.add(taskID)
	tag, err := s.db.Exec(ctx, query, a...)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	if err := checkRowsAffected(tag, domain.ErrTaskNotFound, params.TaskID); err != nil {
		return nil, err
	}
	return s.FindTaskByID(ctx, params.TaskID)
}

func (s *Store) DeleteTask(ctx context.Context, id string) error {
	taskID, err := parseID(id)
	if err != nil {
		return err
	}
	tag, err := s.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, taskID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return checkRowsAffected(tag, domain.ErrTaskNotFound, id)
}

func (s *Store) ClearParentTask(ctx context.Context, parentID string) (int64, error) {
	id, err := parseID(parentID)
	if err != nil {
		return 0, err
	}
	tag, err := s.db.Exec(ctx, `UPDATE tasks SET parent_task_id = NULL, updated_at = now() WHERE parent_task_id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to clear parent task: %w", err)
	}
	return tag.RowsAffected(), nil
}

// === Link Operations ===

// AddAssignees links every employee in one transaction.
func (s *Store) AddAssignees(ctx context.Context, taskID string, employeeIDs []string, assignedBy *string) error {
	tid, err := parseID(taskID)
	if err != nil {
		return err
	}
	eids, err := parseIDs(employeeIDs)
	if err != nil {
		return err
	}
	return s.inTx(ctx, "add_assignees", func(tx *Store) error {
		for i, eid := range eids {
			_, err := tx.db.Exec(ctx, `INSERT INTO task_assignees (task_id, employee_id, assigned_by)
				VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`, tid, eid, assignedBy)
			if err != nil {
				if isForeignKeyViolation(err, "") {
					return fmt.Errorf("%w: employee %s or task %s", domain.ErrNotFound, employeeIDs[i], taskID)
				}
				return fmt.Errorf("failed to add assignee: %w", err)
			}
		}
		return nil
	})
}

func (s *Store) RemoveAssignees(ctx context.Context, taskID string) (int64, error) {
	tid, err := parseID(taskID)
	if err != nil {
		return 0, err
	}
	tag, err := s.db.Exec(ctx, `DELETE FROM task_assignees WHERE task_id = $1`, tid)
	if err != nil {
		return 0, fmt.Errorf("failed to remove assignees: %w", err)
	}
	return tag.RowsAffected(), nil
}

// AddProjects links every project in one transaction.
func (s *Store) AddProjects(ctx context.Context, taskID string, projectIDs []string) error {
	tid, err := parseID(taskID)
	if err != nil {
		return err
	}
	pids, err := parseIDs(projectIDs)
	if err != nil {
		return err
	}
	return s.inTx(ctx, "add_projects", func(tx *Store) error {
		for i, pid := range pids {
			_, err := tx.db.Exec(ctx, `INSERT INTO task_projects (task_id, project_id)
				VALUES ($1, $2) ON CONFLICT DO NOTHING`, tid, pid)
			if err != nil {
				if isForeignKeyViolation(err, "") {
					return fmt.Errorf("%w: project %s or task %s", domain.ErrNotFound, projectIDs[i], taskID)
				}
				return fmt.Errorf("failed to add project: %w", err)
			}
		}
		return nil
	})
}

func (s *Store) RemoveProjects(ctx context.Context, taskID string) (int64, error) {
	tid, err := parseID(taskID)
	if err != nil {
		return 0, err
	}
	tag, err := s.db.Exec(ctx, `DELETE FROM task_projects WHERE task_id = $1`, tid)
	if err != nil {
		return 0, fmt.Errorf("failed to remove projects: %w", err)
	}
	return tag.RowsAffected(), nil
}
