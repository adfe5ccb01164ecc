package users

import (
	"context"

	"github.com/MediSynth-io/todos/internal/models"
)

// Repository persists users. Lookups return common.ErrNotFound when no
// row matches; Create returns common.ErrConflict for a taken email.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}
