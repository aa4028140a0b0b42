package sqlite

import (
	"context"
	"database/sql"

	"github.com/JakTech215/crm-app-sub000/internal/application/task"
)

// Store implements task.Repository over a SQLite database.
//
// The pool holds a single connection, so every query drains its rows before
// the next statement is issued.
type Store struct {
	db *sql.DB
}

var _ task.Repository = (*Store)(nil)

// NewStore wraps an already migrated database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open opens and migrates the database at path and returns a Store over it.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := OpenDB(ctx, path)
	if err != nil {
		return nil, err
	}
	return NewStore(db), nil
}

// DB returns the underlying handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
