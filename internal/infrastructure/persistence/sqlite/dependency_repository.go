package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/JakTech215/crm-app-sub000/internal/domain"
)

const dependencyColumns = `id, task_id, depends_on_task_id, dependency_type, lag_days, created_at`

func (s *Store) CreateDependency(ctx context.Context, d *domain.TaskDependency) (*domain.TaskDependency, error) {
	query := `INSERT INTO task_dependencies (` + dependencyColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		d.ID, d.TaskID, d.DependsOnTaskID, string(d.Type), d.LagDays, timeToString(d.CreatedAt))
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: %s or %s", domain.ErrTaskNotFound, d.TaskID, d.DependsOnTaskID)
		}
		return nil, fmt.Errorf("inserting dependency: %w", err)
	}
	created := *d
	return &created, nil
}

func (s *Store) FindDependencyByID(ctx context.Context, id string) (*domain.TaskDependency, error) {
	query := `SELECT ` + dependencyColumns + ` FROM task_dependencies WHERE id = ?`
	d, err := scanDependency(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrDependencyNotFound, id)
		}
		return nil, fmt.Errorf("getting dependency: %w", err)
	}
	return d, nil
}

func (s *Store) FindDependencies(ctx context.Context) ([]domain.TaskDependency, error) {
	query := `SELECT ` + dependencyColumns + ` FROM task_dependencies ORDER BY created_at, id`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing dependencies: %w", err)
	}
	return scanDependencies(rows)
}

func (s *Store) FindDependenciesForTasks(ctx context.Context, taskIDs []string) ([]domain.TaskDependency, error) {
	if len(taskIDs) == 0 {
		return []domain.TaskDependency{}, nil
	}
	in := placeholders(len(taskIDs))
	query := `SELECT ` + dependencyColumns + ` FROM task_dependencies
		WHERE task_id IN (` + in + `) OR depends_on_task_id IN (` + in + `)
		ORDER BY created_at, id`
	args := append(stringArgs(taskIDs), stringArgs(taskIDs)...)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing dependencies for tasks: %w", err)
	}
	return scanDependencies(rows)
}

func (s *Store) DeleteDependency(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM task_dependencies WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting dependency: %w", err)
	}
	return checkRowsAffected(res, domain.ErrDependencyNotFound, id)
}

func (s *Store) DeleteDependenciesForTask(ctx context.Context, taskID string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM task_dependencies WHERE task_id = ? OR depends_on_task_id = ?`, taskID, taskID)
	if err != nil {
		return 0, fmt.Errorf("deleting dependencies for task: %w", err)
	}
	return res.RowsAffected()
}

func scanDependency(row rowScanner) (*domain.TaskDependency, error) {
	var (
		d         domain.TaskDependency
		typ       string
		createdAt string
	)
	if err := row.Scan(&d.ID, &d.TaskID, &d.DependsOnTaskID, &typ, &d.LagDays, &createdAt); err != nil {
		return nil, err
	}
	t, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	d.Type = domain.DependencyType(typ)
	d.CreatedAt = t
	return &d, nil
}

func scanDependencies(rows *sql.Rows) ([]domain.TaskDependency, error) {
	defer rows.Close()
	deps := []domain.TaskDependency{}
	for rows.Next() {
		d, err := scanDependency(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning dependency: %w", err)
		}
		deps = append(deps, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating dependencies: %w", err)
	}
	return deps, nil
}
