// Package store vends the per-entity repositories bound either to the
// connection pool or to a transaction.
package store

import (
	"context"
	"database/sql"

	"github.com/MediSynth-io/todos/internal/database"
	"github.com/MediSynth-io/todos/internal/repositories/sessions"
	"github.com/MediSynth-io/todos/internal/repositories/todos"
	"github.com/MediSynth-io/todos/internal/repositories/users"
)

// Repositories is the set of repositories sharing one DBTX.
type Repositories struct {
	Users    users.Repository
	Sessions sessions.Repository
	Todos    todos.Repository
}

func newRepositories(db database.DBTX) *Repositories {
	return &Repositories{
		Users:    users.NewSQLRepository(db),
		Sessions: sessions.NewSQLRepository(db),
		Todos:    todos.NewSQLRepository(db),
	}
}

// Store handles all database access
type Store struct {
	db *sql.DB
	*Repositories
}

// New creates a store whose repositories use the connection pool.
func New(db *sql.DB) *Store {
	return &Store{
		db:           db,
		Repositories: newRepositories(db),
	}
}

// InTx runs fn with repositories bound to a single transaction.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, repos *Repositories) error) error {
	return database.WithTx(ctx, s.db, nil, func(ctx context.Context, tx database.DBTX) error {
		return fn(ctx, newRepositories(tx))
	})
}
