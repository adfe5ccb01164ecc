package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MediSynth-io/todos/internal/common"
	"github.com/MediSynth-io/todos/internal/database"
	"github.com/MediSynth-io/todos/internal/models"
)

type SQLRepository struct {
	db database.DBTX
}

func NewSQLRepository(db database.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Create(ctx context.Context, s *models.Session) (*models.Session, error) {
	query :=
		`INSERT INTO sessions (id, session_token, expires_at, remember_me, user_id, user_agent, ip_address, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.SessionToken, s.ExpiresAt, s.RememberMe, s.UserID,
		nullString(s.UserAgent), nullString(s.IPAddress), s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return s, nil
}

func (r *SQLRepository) FindByID(ctx context.Context, id string) (*models.Session, error) {
	query :=
		`SELECT id, session_token, expires_at, remember_me, user_id, user_agent, ip_address, created_at
		 FROM sessions
		 WHERE id = $1`

	var (
		s         models.Session
		userAgent sql.NullString
		ipAddress sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID,
		&s.SessionToken,
		&s.ExpiresAt,
		&s.RememberMe,
		&s.UserID,
		&userAgent,
		&ipAddress,
		&s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if userAgent.Valid {
		s.UserAgent = &userAgent.String
	}
	if ipAddress.Valid {
		s.IPAddress = &ipAddress.String
	}

	return &s, nil
}

func (r *SQLRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
