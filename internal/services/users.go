package services

import (
	"context"
	"errors"
	"time"

	"github.com/MediSynth-io/todos/internal/auth"
	"github.com/MediSynth-io/todos/internal/common"
	"github.com/MediSynth-io/todos/internal/logging"
	"github.com/MediSynth-io/todos/internal/models"
	"github.com/MediSynth-io/todos/internal/repositories/users"
	"github.com/google/uuid"
)

type UserService struct {
	users  users.Repository
	hasher *auth.PasswordHasher
	now    func() time.Time
	logger logging.Logger
}

func NewUserService(repo users.Repository, hasher *auth.PasswordHasher, logger logging.Logger) *UserService {
	return &UserService{
		users:  repo,
		hasher: hasher,
		now:    time.Now,
		logger: logger.With("service", "users"),
	}
}

// FindByID returns the user or an error wrapping common.ErrNotFound.
func (s *UserService) FindByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errorf(common.ErrNotFound, "User with ID %s not found", id)
		}
		return nil, err
	}
	return user, nil
}

// FindByEmail returns the user, or nil without an error when none exists.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// Create hashes the password and stores a new user.
func (s *UserService) Create(ctx context.Context, in models.RegisterInput) (*models.User, error) {
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &models.User{
		ID:        uuid.NewString(),
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Password:  hash,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user created", "user_id", created.ID)
	return created, nil
}

// GetProfile returns the stored profile of the user.
func (s *UserService) GetProfile(ctx context.Context, id string) (*models.User, error) {
	return s.FindByID(ctx, id)
}
