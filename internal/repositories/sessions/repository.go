package sessions

import (
	"context"
	"time"

	"github.com/MediSynth-io/todos/internal/models"
)

// Repository persists login sessions.
type Repository interface {
	Create(ctx context.Context, session *models.Session) (*models.Session, error)
	// FindByID returns common.ErrNotFound when the session does not exist.
	FindByID(ctx context.Context, id string) (*models.Session, error)
	// Delete removes the session; a missing id is not an error.
	Delete(ctx context.Context, id string) error
	// DeleteExpired removes sessions whose expiry is before now and
	// returns how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
