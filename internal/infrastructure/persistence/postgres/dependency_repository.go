package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/JakTech215/crm-app-sub000/internal/domain"
)

const dependencySelect = `SELECT id, task_id, depends_on_task_id, dependency_type, lag_days, created_at
	FROM task_dependencies`

func (s *Store) CreateDependency(ctx context.Context, d *domain.TaskDependency) (*domain.TaskDependency, error) {
	ids, err := parseIDs([]string{d.ID, d.TaskID, d.DependsOnTaskID})
	if err != nil {
		return nil, err
	}
	_, err = s.db.Exec(ctx, `INSERT INTO task_dependencies
			(id, task_id, depends_on_task_id, dependency_type, lag_days, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		ids[0], ids[1], ids[2], string(d.Type), int32(d.LagDays), timeToPgtype(d.CreatedAt))
	if err != nil {
		if isForeignKeyViolation(err, "task_id") {
			return nil, fmt.Errorf("%w: %s or %s", domain.ErrTaskNotFound, d.TaskID, d.DependsOnTaskID)
		}
		return nil, fmt.Errorf("failed to create dependency: %w", err)
	}
	created := *d
	return &created, nil
}

func (s *Store) FindDependencyByID(ctx context.Context, id string) (*domain.TaskDependency, error) {
	depID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.Query(ctx, dependencySelect+` WHERE id = $1`, depID)
	if err != nil {
		return nil, fmt.Errorf("failed to get dependency: %w", err)
	}
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[dependencyRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrDependencyNotFound, id)
		}
		return nil, fmt.Errorf("failed to get dependency: %w", err)
	}
	d := dbDependencyToDomain(row)
	return &d, nil
}

func (s *Store) FindDependencies(ctx context.Context) ([]domain.TaskDependency, error) {
	return s.queryDependencies(ctx, dependencySelect+` ORDER BY created_at, id`)
}

func (s *Store) FindDependenciesForTasks(ctx context.Context, taskIDs []string) ([]domain.TaskDependency, error) {
	if len(taskIDs) == 0 {
		return []domain.TaskDependency{}, nil
	}
	ids, err := parseIDs(taskIDs)
	if err != nil {
		return nil, err
	}
	return s.queryDependencies(ctx,
		dependencySelect+` WHERE task_id = ANY($1) OR depends_on_task_id = ANY($1) ORDER BY created_at, id`, ids)
}

func (s *Store) DeleteDependency(ctx context.Context, id string) error {
	depID, err := parseID(id)
	if err != nil {
		return err
	}
	tag, err := s.db.Exec(ctx, `DELETE FROM task_dependencies WHERE id = $1`, depID)
	if err != nil {
		return fmt.Errorf("failed to delete dependency: %w", err)
	}
	return checkRowsAffected(tag, domain.ErrDependencyNotFound, id)
}

func (s *Store) DeleteDependenciesForTask(ctx context.Context, taskID string) (int64, error) {
	id, err := parseID(taskID)
	if err != nil {
		return 0, err
	}
	tag, err := s.db.Exec(ctx, `DELETE FROM task_dependencies WHERE task_id = $1 OR depends_on_task_id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete dependencies: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *Store) queryDependencies(ctx context.Context, query string, queryArgs ...any) ([]domain.TaskDependency, error) {
	rows, err := s.db.Query(ctx, query, queryArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to list dependencies: %w", err)
	}
	dbRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[dependencyRow])
	if err != nil {
		return nil, fmt.Errorf("failed to list dependencies: %w", err)
	}
	deps := make([]domain.TaskDependency, 0, len(dbRows))
	for _, r := range dbRows {
		deps = append(deps, dbDependencyToDomain(r))
	}
	return deps, nil
}
