package todos

import (
	"context"

	"github.com/MediSynth-io/todos/internal/models"
)

// Repository persists todos. Every lookup and mutation is keyed by both
// the todo id and the owning user id; a row owned by someone else is
// reported as common.ErrNotFound.
type Repository interface {
	Create(ctx context.Context, todo *models.Todo) (*models.Todo, error)
	// FindAllByUser returns the user's todos, newest first.
	FindAllByUser(ctx context.Context, userID string) ([]*models.Todo, error)
	FindOne(ctx context.Context, id, userID string) (*models.Todo, error)
	Update(ctx context.Context, todo *models.Todo) (*models.Todo, error)
	Delete(ctx context.Context, id, userID string) error
}
