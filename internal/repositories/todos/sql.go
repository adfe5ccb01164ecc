package todos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MediSynth-io/todos/internal/common"
	"github.com/MediSynth-io/todos/internal/database"
	"github.com/MediSynth-io/todos/internal/models"
)

const selectColumns = `id, title, description, completed, user_id, created_at, updated_at`

type SQLRepository struct {
	db database.DBTX
}

func NewSQLRepository(db database.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Create(ctx context.Context, t *models.Todo) (*models.Todo, error) {
	query :=
		`INSERT INTO todos (id, title, description, completed, user_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.Title, nullString(t.Description), t.Completed, t.UserID, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return t, nil
}

func (r *SQLRepository) FindAllByUser(ctx context.Context, userID string) ([]*models.Todo, error) {
	query := `SELECT ` + selectColumns + `
		 FROM todos
		 WHERE user_id = $1
		 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	list := make([]*models.Todo, 0)
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		list = append(list, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return list, nil
}

func (r *SQLRepository) FindOne(ctx context.Context, id, userID string) (*models.Todo, error) {
	query := `SELECT ` + selectColumns + `
		 FROM todos
		 WHERE id = $1 AND user_id = $2`

	t, err := scanTodo(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *SQLRepository) Update(ctx context.Context, t *models.Todo) (*models.Todo, error) {
	query :=
		`UPDATE todos
		 SET title = $1, description = $2, completed = $3, updated_at = $4
		 WHERE id = $5 AND user_id = $6`

	res, err := r.db.ExecContext(ctx, query,
		t.Title, nullString(t.Description), t.Completed, t.UpdatedAt, t.ID, t.UserID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := expectOneRow(res); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *SQLRepository) Delete(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTodo(s scanner) (*models.Todo, error) {
	var (
		t           models.Todo
		description sql.NullString
	)
	if err := s.Scan(
		&t.ID,
		&t.Title,
		&description,
		&t.Completed,
		&t.UserID,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if description.Valid {
		t.Description = &description.String
	}
	return &t, nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
