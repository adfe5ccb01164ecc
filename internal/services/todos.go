package services

import (
	"context"
	"errors"
	"time"

	"github.com/MediSynth-io/todos/internal/common"
	"github.com/MediSynth-io/todos/internal/logging"
	"github.com/MediSynth-io/todos/internal/models"
	"github.com/MediSynth-io/todos/internal/repositories/todos"
	"github.com/MediSynth-io/todos/internal/store"
	"github.com/google/uuid"
)

// Transactor runs fn with repositories sharing one transaction.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context, repos *store.Repositories) error) error
}

type TodoService struct {
	todos  todos.Repository
	tx     Transactor
	now    func() time.Time
	logger logging.Logger
}

func NewTodoService(repo todos.Repository, tx Transactor, logger logging.Logger) *TodoService {
	return &TodoService{
		todos:  repo,
		tx:     tx,
		now:    time.Now,
		logger: logger.With("service", "todos"),
	}
}

// Create stores a new, not yet completed todo owned by userID.
func (s *TodoService) Create(ctx context.Context, userID string, in models.CreateTodoInput) (*models.Todo, error) {
	now := s.now().UTC()
	todo := &models.Todo{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Completed:   false,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.todos.Create(ctx, todo)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "todo created", "todo_id", created.ID, "user_id", userID)
	return created, nil
}

// FindAll returns the user's todos, newest first.
func (s *TodoService) FindAll(ctx context.Context, userID string) ([]*models.Todo, error) {
	return s.todos.FindAllByUser(ctx, userID)
}

// FindOne returns the todo if it exists and belongs to userID.
func (s *TodoService) FindOne(ctx context.Context, id, userID string) (*models.Todo, error) {
	return findOne(ctx, s.todos, id, userID)
}

// Update merges the provided fields into the stored todo.
func (s *TodoService) Update(ctx context.Context, id, userID string, in models.UpdateTodoInput) (*models.Todo, error) {
	var updated *models.Todo

	err := s.tx.InTx(ctx, func(ctx context.Context, repos *store.Repositories) error {
		todo, err := findOne(ctx, repos.Todos, id, userID)
		if err != nil {
			return err
		}

		in.Apply(todo)
		todo.UpdatedAt = s.now().UTC()

		updated, err = repos.Todos.Update(ctx, todo)
		return err
	})
	if err != nil {
		return nil, notFoundAs(err, id)
	}

	s.logger.Info(ctx, "todo updated", "todo_id", id, "user_id", userID)
	return updated, nil
}

// Remove deletes the todo if it exists and belongs to userID.
func (s *TodoService) Remove(ctx context.Context, id, userID string) error {
	err := s.tx.InTx(ctx, func(ctx context.Context, repos *store.Repositories) error {
		if _, err := findOne(ctx, repos.Todos, id, userID); err != nil {
			return err
		}
		return repos.Todos.Delete(ctx, id, userID)
	})
	if err != nil {
		return notFoundAs(err, id)
	}

	s.logger.Info(ctx, "todo removed", "todo_id", id, "user_id", userID)
	return nil
}

// findOne treats an id that is not a UUID as unknown; postgres would
// otherwise reject it as a malformed uuid literal.
func findOne(ctx context.Context, repo todos.Repository, id, userID string) (*models.Todo, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.Errorf(common.ErrNotFound, "Todo with ID %s not found", id)
	}

	todo, err := repo.FindOne(ctx, id, userID)
	if err != nil {
		return nil, notFoundAs(err, id)
	}
	return todo, nil
}

func notFoundAs(err error, id string) error {
	if errors.Is(err, common.ErrNotFound) && common.PublicMessage(err) == "" {
		return common.Errorf(common.ErrNotFound, "Todo with ID %s not found", id)
	}
	return err
}
