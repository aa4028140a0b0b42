package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/JakTech215/crm-app-sub000/internal/domain"
)

const taskColumns = `id, title, description, start_date, due_date, is_milestone,
	is_recurring, recurrence_frequency, recurrence_unit, recurrence_source_task_id,
	template_id, parent_task_id, task_type_id, contact_id, status, priority,
	created_by, completed_at, created_at, updated_at`

// CreateTask inserts the task row. Links are written by AddAssignees and AddProjects.
func (s *Store) CreateTask(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	query := `INSERT INTO tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		t.ID, t.Title, t.Description,
		nullableDateToString(t.StartDate), nullableDateToString(t.DueDate),
		boolToInt(t.IsMilestone), boolToInt(t.IsRecurring),
		nullableIntToValue(t.RecurrenceFrequency), nullableUnitToValue(t.RecurrenceUnit),
		nullableStringToValue(t.RecurrenceSourceTaskID),
		nullableStringToValue(t.TemplateID), nullableStringToValue(t.ParentTaskID),
		nullableStringToValue(t.TaskTypeID), nullableStringToValue(t.ContactID),
		string(t.Status), string(t.Priority),
		nullableStringToValue(t.CreatedBy), nullableTimeToString(t.CompletedAt),
		timeToString(t.CreatedAt), timeToString(t.UpdatedAt),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: task %s references a missing row", domain.ErrNotFound, t.ID)
		}
		return nil, fmt.Errorf("inserting task: %w", err)
	}

	created := *t
	created.AssigneeIDs = nil
	created.ProjectIDs = nil
	return &created, nil
}

// FindTaskByID returns the task with its assignee and project ids.
func (s *Store) FindTaskByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	t, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
		}
		return nil, fmt.Errorf("getting task: %w", err)
	}

	tasks := []domain.Task{*t}
	if err := s.loadLinks(ctx, tasks); err != nil {
		return nil, err
	}
	return &tasks[0], nil
}

// FindTasks returns the tasks matching filter with their links populated.
func (s *Store) FindTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	where, args := taskFilterClause(filter)
	query := `SELECT ` + taskColumns + ` FROM tasks` + where +
		` ORDER BY start_date IS NULL, start_date, due_date IS NULL, due_date, created_at, id`
	if filter.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	tasks, err := scanTasks(rows)
	if err != nil {
		return nil, err
	}

	if err := s.loadLinks(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// taskFilterClause renders filter as a WHERE clause with positional args.
func taskFilterClause(f domain.TaskFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if len(f.IDs) > 0 {
		conds = append(conds, "id IN ("+placeholders(len(f.IDs))+")")
		args = append(args, stringArgs(f.IDs)...)
	}
	if len(f.Statuses) > 0 {
		conds = append(conds, "status IN ("+placeholders(len(f.Statuses))+")")
		for _, st := range f.Statuses {
			args = append(args, string(st))
		}
	}
	if f.ProjectID != nil {
		conds = append(conds, "id IN (SELECT task_id FROM task_projects WHERE project_id = ?)")
		args = append(args, *f.ProjectID)
	}
	if f.AssigneeID != nil {
		conds = append(conds, "id IN (SELECT task_id FROM task_assignees WHERE employee_id = ?)")
		args = append(args, *f.AssigneeID)
	}
	if f.ParentTaskID != nil {
		conds = append(conds, "parent_task_id = ?")
		args = append(args, *f.ParentTaskID)
	}
	if f.RecurrenceSourceTaskID != nil {
		conds = append(conds, "recurrence_source_task_id = ?")
		args = append(args, *f.RecurrenceSourceTaskID)
	}
	if f.TemplateID != nil {
		conds = append(conds, "template_id = ?")
		args = append(args, *f.TemplateID)
	}
	if f.HasDates {
		conds = append(conds, "start_date IS NOT NULL AND due_date IS NOT NULL")
	}
	if f.StartsBefore != nil {
		conds = append(conds, "start_date <= ?")
		args = append(args, f.StartsBefore.String())
	}
	if f.DueAfter != nil {
		conds = append(conds, "due_date >= ?")
		args = append(args, f.DueAfter.String())
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// UpdateTask writes the masked columns and bumps updated_at.
func (s *Store) UpdateTask(ctx context.Context, params domain.UpdateTaskParams) (*domain.Task, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	var (
		sets []string
		args []any
	)
	if params.Has("status") {
		sets = append(sets, "status = ?")
		args = append(args, string(*params.Status))
	}
	if params.Has("completed_at") {
		sets = append(sets, "completed_at = ?")
		args = append(args, nullableTimeToString(params.CompletedAt))
	}
	if params.Has("start_date") {
		sets = append(sets, "start_date = ?")
		args = append(args, nullableDateToString(params.StartDate))
	}
	if params.Has("due_date") {
		sets = append(sets, "due_date = ?")
		args = append(args, nullableDateToString(params.DueDate))
	}
	sets = append(sets, "updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')")
	args = append(args, params.TaskID)

	query := `UPDATE tasks SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("updating task: %w", err)
	}
	if err := checkRowsAffected(res, domain.ErrTaskNotFound, params.TaskID); err != nil {
		return nil, err
	}
	return s.FindTaskByID(ctx, params.TaskID)
}

// DeleteTask removes the task row. Links, edges and child references must
// already be gone or the foreign keys reject the delete.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return checkRowsAffected(res, domain.ErrTaskNotFound, id)
}

// ClearParentTask detaches every child of parentID.
func (s *Store) ClearParentTask(ctx context.Context, parentID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE tasks SET parent_task_id = NULL WHERE parent_task_id = ?`, parentID)
	if err != nil {
		return 0, fmt.Errorf("clearing parent task: %w", err)
	}
	return res.RowsAffected()
}

// === Links ===

func (s *Store) AddAssignees(ctx context.Context, taskID string, employeeIDs []string, assignedBy *string) error {
	query := `INSERT OR IGNORE INTO task_assignees (task_id, employee_id, assigned_by, assigned_at)
		VALUES (?, ?, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))`
	for _, employeeID := range employeeIDs {
		if _, err := s.db.ExecContext(ctx, query, taskID, employeeID, nullableStringToValue(assignedBy)); err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("%w: employee %s or task %s", domain.ErrNotFound, employeeID, taskID)
			}
			return fmt.Errorf("inserting assignee: %w", err)
		}
	}
	return nil
}

func (s *Store) RemoveAssignees(ctx context.Context, taskID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM task_assignees WHERE task_id = ?`, taskID)
	if err != nil {
		return 0, fmt.Errorf("deleting assignees: %w", err)
	}
	return res.RowsAffected()
}

func (s *Store) AddProjects(ctx context.Context, taskID string, projectIDs []string) error {
	query := `INSERT OR IGNORE INTO task_projects (task_id, project_id) VALUES (?, ?)`
	for _, projectID := range projectIDs {
		if _, err := s.db.ExecContext(ctx, query, taskID, projectID); err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("%w: project %s or task %s", domain.ErrNotFound, projectID, taskID)
			}
			return fmt.Errorf("inserting project link: %w", err)
		}
	}
	return nil
}

func (s *Store) RemoveProjects(ctx context.Context, taskID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM task_projects WHERE task_id = ?`, taskID)
	if err != nil {
		return 0, fmt.Errorf("deleting project links: %w", err)
	}
	return res.RowsAffected()
}

// loadLinks fills AssigneeIDs and ProjectIDs for tasks in place.
func (s *Store) loadLinks(ctx context.Context, tasks []domain.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	index := make(map[string]int, len(tasks))
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		index[t.ID] = i
		ids[i] = t.ID
	}

	assignees, err := s.queryPairs(ctx,
		`SELECT task_id, employee_id FROM task_assignees WHERE task_id IN (`+placeholders(len(ids))+`) ORDER BY assigned_at, employee_id`, ids)
	if err != nil {
		return fmt.Errorf("loading assignees: %w", err)
	}
	for _, p := range assignees {
		i := index[p[0]]
		tasks[i].AssigneeIDs = append(tasks[i].AssigneeIDs, p[1])
	}

	projects, err := s.queryPairs(ctx,
		`SELECT task_id, project_id FROM task_projects WHERE task_id IN (`+placeholders(len(ids))+`) ORDER BY project_id`, ids)
	if err != nil {
		return fmt.Errorf("loading projects: %w", err)
	}
	for _, p := range projects {
		i := index[p[0]]
		tasks[i].ProjectIDs = append(tasks[i].ProjectIDs, p[1])
	}
	return nil
}

func (s *Store) queryPairs(ctx context.Context, query string, ids []string) ([][2]string, error) {
	rows, err := s.db.QueryContext(ctx, query, stringArgs(ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pairs [][2]string
	for rows.Next() {
		var p [2]string
		if err := rows.Scan(&p[0], &p[1]); err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		t                               domain.Task
		startDate, dueDate              sql.NullString
		isMilestone, isRecurring        int
		frequency                       sql.NullInt64
		unit, sourceID, templateID      sql.NullString
		parentID, taskTypeID, contactID sql.NullString
		status, priority                string
		createdBy, completedAt          sql.NullString
		createdAt, updatedAt            string
	)
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &startDate, &dueDate, &isMilestone,
		&isRecurring, &frequency, &unit, &sourceID,
		&templateID, &parentID, &taskTypeID, &contactID, &status, &priority,
		&createdBy, &completedAt, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if t.StartDate, err = parseNullableDate(startDate); err != nil {
		return nil, err
	}
	if t.DueDate, err = parseNullableDate(dueDate); err != nil {
		return nil, err
	}
	if t.CompletedAt, err = parseNullableTime(completedAt); err != nil {
		return nil, err
	}
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	t.IsMilestone = isMilestone != 0
	t.IsRecurring = isRecurring != 0
	t.RecurrenceFrequency = nullableInt(frequency)
	t.RecurrenceUnit = nullableUnit(unit)
	t.RecurrenceSourceTaskID = nullableString(sourceID)
	t.TemplateID = nullableString(templateID)
	t.ParentTaskID = nullableString(parentID)
	t.TaskTypeID = nullableString(taskTypeID)
	t.ContactID = nullableString(contactID)
	t.Status = domain.TaskStatus(status)
	t.Priority = domain.TaskPriority(priority)
	t.CreatedBy = nullableString(createdBy)
	return &t, nil
}

func scanTasks(rows *sql.Rows) ([]domain.Task, error) {
	defer rows.Close()
	tasks := []domain.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}
