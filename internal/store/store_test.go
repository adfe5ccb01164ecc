package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/MediSynth-io/todos/internal/common"
	"github.com/MediSynth-io/todos/internal/config"
	"github.com/MediSynth-io/todos/internal/database"
	"github.com/MediSynth-io/todos/internal/logging"
	"github.com/MediSynth-io/todos/internal/models"
	"github.com/stretchr/testify/suite"
)

type StoreSuite struct {
	suite.Suite
	db    *sql.DB
	store *Store
	ctx   context.Context
	now   time.Time
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Now().UTC().Truncate(time.Second)

	cfg := &config.Config{}
	cfg.Database.Type = database.TypeSQLite
	cfg.Database.Path = filepath.Join(s.T().TempDir(), "todos.db")

	db, err := database.Open(s.ctx, cfg, logging.NewNop())
	s.Require().NoError(err)
	s.Require().NoError(database.RunMigrations(s.ctx, db, database.TypeSQLite, logging.NewNop()))

	s.db = db
	s.store = New(db)
}

func (s *StoreSuite) TearDownTest() {
	s.db.Close()
}

func (s *StoreSuite) createUser(id, email string) *models.User {
	u, err := s.store.Users.Create(s.ctx, &models.User{
		ID: id, Email: email, FirstName: "F", LastName: "L", Password: "hash",
		CreatedAt: s.now, UpdatedAt: s.now,
	})
	s.Require().NoError(err)
	return u
}

func (s *StoreSuite) createTodo(id, userID, title string, at time.Time) *models.Todo {
	t, err := s.store.Todos.Create(s.ctx, &models.Todo{
		ID: id, Title: title, UserID: userID, CreatedAt: at, UpdatedAt: at,
	})
	s.Require().NoError(err)
	return t
}

func (s *StoreSuite) TestUsers_RoundTripAndUniqueEmail() {
	u := s.createUser("u-1", "a@x.com")

	got, err := s.store.Users.FindByEmail(s.ctx, "a@x.com")
	s.Require().NoError(err)
	s.Equal(u.ID, got.ID)
	s.True(u.CreatedAt.Equal(got.CreatedAt))

	_, err = s.store.Users.Create(s.ctx, &models.User{
		ID: "u-2", Email: "a@x.com", FirstName: "F", LastName: "L", Password: "hash",
		CreatedAt: s.now, UpdatedAt: s.now,
	})
	s.ErrorIs(err, common.ErrConflict)

	_, err = s.store.Users.FindByID(s.ctx, "u-2")
	s.ErrorIs(err, common.ErrNotFound)
}

func (s *StoreSuite) TestSessions_RoundTripAndSweep() {
	s.createUser("u-1", "a@x.com")
	ua := "curl/8"

	_, err := s.store.Sessions.Create(s.ctx, &models.Session{
		ID: "live", SessionToken: "t1", ExpiresAt: s.now.Add(time.Hour), RememberMe: true,
		UserID: "u-1", UserAgent: &ua, CreatedAt: s.now,
	})
	s.Require().NoError(err)
	_, err = s.store.Sessions.Create(s.ctx, &models.Session{
		ID: "dead", SessionToken: "t2", ExpiresAt: s.now.Add(-time.Hour),
		UserID: "u-1", CreatedAt: s.now.Add(-2 * time.Hour),
	})
	s.Require().NoError(err)

	got, err := s.store.Sessions.FindByID(s.ctx, "live")
	s.Require().NoError(err)
	s.True(got.RememberMe)
	s.Require().NotNil(got.UserAgent)
	s.Equal("curl/8", *got.UserAgent)
	s.Nil(got.IPAddress)
	s.True(got.ExpiresAt.Equal(s.now.Add(time.Hour)))

	n, err := s.store.Sessions.DeleteExpired(s.ctx, s.now)
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	_, err = s.store.Sessions.FindByID(s.ctx, "dead")
	s.ErrorIs(err, common.ErrNotFound)

	s.NoError(s.store.Sessions.Delete(s.ctx, "live"))
	s.NoError(s.store.Sessions.Delete(s.ctx, "live"))
}

func (s *StoreSuite) TestTodos_OrderingAndOwnership() {
	s.createUser("u-1", "a@x.com")
	s.createUser("u-2", "b@x.com")

	s.createTodo("t-1", "u-1", "first", s.now)
	s.createTodo("t-2", "u-1", "second", s.now.Add(time.Second))
	s.createTodo("t-3", "u-2", "theirs", s.now.Add(2*time.Second))

	list, err := s.store.Todos.FindAllByUser(s.ctx, "u-1")
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal("t-2", list[0].ID)
	s.Equal("t-1", list[1].ID)

	_, err = s.store.Todos.FindOne(s.ctx, "t-3", "u-1")
	s.ErrorIs(err, common.ErrNotFound)
	s.ErrorIs(s.store.Todos.Delete(s.ctx, "t-3", "u-1"), common.ErrNotFound)

	empty, err := s.store.Todos.FindAllByUser(s.ctx, "nobody")
	s.Require().NoError(err)
	s.NotNil(empty)
	s.Empty(empty)
}

func (s *StoreSuite) TestDeletingUserCascades() {
	s.createUser("u-1", "a@x.com")
	s.createTodo("t-1", "u-1", "first", s.now)
	_, err := s.store.Sessions.Create(s.ctx, &models.Session{
		ID: "s-1", SessionToken: "t", ExpiresAt: s.now.Add(time.Hour), UserID: "u-1", CreatedAt: s.now,
	})
	s.Require().NoError(err)

	_, err = s.db.ExecContext(s.ctx, `DELETE FROM users WHERE id = $1`, "u-1")
	s.Require().NoError(err)

	_, err = s.store.Todos.FindOne(s.ctx, "t-1", "u-1")
	s.ErrorIs(err, common.ErrNotFound)
	_, err = s.store.Sessions.FindByID(s.ctx, "s-1")
	s.ErrorIs(err, common.ErrNotFound)
}

func (s *StoreSuite) TestInTx_CommitsAndRollsBack() {
	s.createUser("u-1", "a@x.com")
	s.createTodo("t-1", "u-1", "original", s.now)

	err := s.store.InTx(s.ctx, func(ctx context.Context, repos *Repositories) error {
		todo, err := repos.Todos.FindOne(ctx, "t-1", "u-1")
		if err != nil {
			return err
		}
		todo.Title = "changed"
		if _, err := repos.Todos.Update(ctx, todo); err != nil {
			return err
		}
		return errors.New("abort")
	})
	s.EqualError(err, "abort")

	todo, err := s.store.Todos.FindOne(s.ctx, "t-1", "u-1")
	s.Require().NoError(err)
	s.Equal("original", todo.Title)

	err = s.store.InTx(s.ctx, func(ctx context.Context, repos *Repositories) error {
		todo.Title = "committed"
		todo.Completed = true
		_, err := repos.Todos.Update(ctx, todo)
		return err
	})
	s.Require().NoError(err)

	todo, err = s.store.Todos.FindOne(s.ctx, "t-1", "u-1")
	s.Require().NoError(err)
	s.Equal("committed", todo.Title)
	s.True(todo.Completed)
}
