// Package postgres is the production task.Repository on PostgreSQL.
package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JakTech215/crm-app-sub000/internal/application/task"
)

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements task.Repository with hand-written SQL over pgx.
//
// Each repository method is a single statement except the link fan-outs,
// which insert all their rows inside one transaction.
type Store struct {
	pool *pgxpool.Pool
	db   querier
}

var _ task.Repository = (*Store)(nil)

// NewStore creates a store over an existing pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, db: pool}
}

// Pool returns the underlying connection pool.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

// Close closes the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// finalizeTx rolls back on error and commits otherwise.
func finalizeTx(ctx context.Context, tx pgx.Tx, err *error) {
	if *err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			slog.ErrorContext(ctx, "rollback failed",
				slog.String("original_error", (*err).Error()),
				slog.String("rollback_error", rbErr.Error()))
			*err = fmt.Errorf("transaction failed: %w (rollback error: %v)", *err, rbErr)
		}
		return
	}
	if *err = tx.Commit(ctx); *err != nil {
		slog.ErrorContext(ctx, "transaction commit failed", slog.String("error", (*err).Error()))
	}
}

type rollbacker interface {
	Rollback(ctx context.Context) error
}

// rollbackAfterPanic logs instead of returning: the caller re-panics.
func rollbackAfterPanic(ctx context.Context, tx rollbacker, operation string) {
	if rbErr := tx.Rollback(ctx); rbErr != nil {
		slog.ErrorContext(ctx, "failed to rollback transaction after panic",
			slog.String("operation", operation),
			slog.String("rollback_error", rbErr.Error()))
	}
}

// inTx runs fn against a store bound to one transaction.
func (s *Store) inTx(ctx context.Context, operation string, fn func(txStore *Store) error) (err error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			rollbackAfterPanic(ctx, tx, operation)
			panic(p)
		}
		finalizeTx(ctx, tx, &err)
		if err == nil {
			slog.DebugContext(ctx, "transaction completed", slog.String("operation", operation))
		}
	}()

	err = fn(&Store{pool: s.pool, db: tx})
	return
}
