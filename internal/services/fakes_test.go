package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/MediSynth-io/todos/internal/common"
	"github.com/MediSynth-io/todos/internal/models"
	"github.com/MediSynth-io/todos/internal/store"
	"github.com/stretchr/testify/mock"
)

// fakeUsersRepo is an in-memory users.Repository.
type fakeUsersRepo struct {
	mu        sync.Mutex
	byID      map[string]*models.User
	findErr   error
	createErr error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return nil, common.ErrConflict
		}
	}
	cp := *u
	f.byID[u.ID] = &cp
	return u, nil
}

func (f *fakeUsersRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsersRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

// mockSessionsRepo is a testify mock of sessions.Repository.
type mockSessionsRepo struct {
	mock.Mock
}

func (m *mockSessionsRepo) Create(ctx context.Context, s *models.Session) (*models.Session, error) {
	args := m.Called(ctx, s)
	if v := args.Get(0); v != nil {
		return v.(*models.Session), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSessionsRepo) FindByID(ctx context.Context, id string) (*models.Session, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*models.Session), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSessionsRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockSessionsRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// memSessionsRepo is an in-memory sessions.Repository.
type memSessionsRepo struct {
	mu   sync.Mutex
	rows map[string]*models.Session
}

func newMemSessionsRepo() *memSessionsRepo {
	return &memSessionsRepo{rows: map[string]*models.Session{}}
}

func (m *memSessionsRepo) Create(_ context.Context, s *models.Session) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.rows[s.ID] = &cp
	return s, nil
}

func (m *memSessionsRepo) FindByID(_ context.Context, id string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSessionsRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

func (m *memSessionsRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, s := range m.rows {
		if s.ExpiresAt.Before(now) {
			delete(m.rows, id)
			n++
		}
	}
	return n, nil
}

// fakeTodosRepo is an in-memory todos.Repository.
type fakeTodosRepo struct {
	mu   sync.Mutex
	rows map[string]*models.Todo
}

func newFakeTodosRepo() *fakeTodosRepo {
	return &fakeTodosRepo{rows: map[string]*models.Todo{}}
}

func (f *fakeTodosRepo) Create(_ context.Context, t *models.Todo) (*models.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *t
	f.rows[t.ID] = &cp
	return t, nil
}

func (f *fakeTodosRepo) FindAllByUser(_ context.Context, userID string) ([]*models.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.Todo, 0)
	for _, t := range f.rows {
		if t.UserID == userID {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeTodosRepo) FindOne(_ context.Context, id, userID string) (*models.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.rows[id]
	if !ok || t.UserID != userID {
		return nil, common.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTodosRepo) Update(_ context.Context, t *models.Todo) (*models.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.rows[t.ID]
	if !ok || existing.UserID != t.UserID {
		return nil, common.ErrNotFound
	}
	cp := *t
	f.rows[t.ID] = &cp
	return t, nil
}

func (f *fakeTodosRepo) Delete(_ context.Context, id, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.rows[id]
	if !ok || t.UserID != userID {
		return common.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

// fakeTransactor runs fn directly against the given repositories.
type fakeTransactor struct {
	repos *store.Repositories
	calls int
}

func (f *fakeTransactor) InTx(ctx context.Context, fn func(ctx context.Context, repos *store.Repositories) error) error {
	f.calls++
	return fn(ctx, f.repos)
}
