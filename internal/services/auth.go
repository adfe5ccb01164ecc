package services

import (
	"context"
	"errors"
	"time"

	"github.com/MediSynth-io/todos/internal/auth"
	"github.com/MediSynth-io/todos/internal/common"
	"github.com/MediSynth-io/todos/internal/logging"
	"github.com/MediSynth-io/todos/internal/models"
	"github.com/MediSynth-io/todos/internal/repositories/sessions"
	"github.com/google/uuid"
)

// AuthConfig holds session lifetimes.
type AuthConfig struct {
	SessionTTL    time.Duration
	RememberMeTTL time.Duration
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	User        *models.User
	Session     *models.Session
	AccessToken string
}

type AuthService struct {
	users    *UserService
	sessions sessions.Repository
	tokens   *auth.TokenManager
	hasher   *auth.PasswordHasher
	cfg      AuthConfig
	now      func() time.Time
	logger   logging.Logger

	// compared against when the email is unknown so both failure paths
	// cost one bcrypt comparison
	dummyHash string
}

func NewAuthService(
	users *UserService,
	sessionRepo sessions.Repository,
	tokens *auth.TokenManager,
	hasher *auth.PasswordHasher,
	cfg AuthConfig,
	logger logging.Logger,
) (*AuthService, error) {
	dummy, err := hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, err
	}

	return &AuthService{
		users:     users,
		sessions:  sessionRepo,
		tokens:    tokens,
		hasher:    hasher,
		cfg:       cfg,
		now:       time.Now,
		logger:    logger.With("service", "auth"),
		dummyHash: dummy,
	}, nil
}

// Register creates a user unless the email is already taken.
func (s *AuthService) Register(ctx context.Context, in models.RegisterInput) (*models.User, error) {
	existing, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, common.Errorf(common.ErrConflict, "User with this email already exists")
	}

	user, err := s.users.Create(ctx, in)
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, common.Errorf(common.ErrConflict, "User with this email already exists")
		}
		return nil, err
	}

	return user, nil
}

// ValidateCredentials returns the user whose password matches, or an error
// wrapping common.ErrNotFound. It does not say which check failed.
func (s *AuthService) ValidateCredentials(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	hash := s.dummyHash
	if user != nil {
		hash = user.Password
	}

	ok, err := s.hasher.Compare(hash, password)
	if err != nil {
		return nil, err
	}
	if user == nil || !ok {
		return nil, common.Errorf(common.ErrNotFound, "Invalid credentials")
	}

	return user, nil
}

// Login checks the credentials, opens a session and signs an access token
// that expires together with it.
func (s *AuthService) Login(ctx context.Context, in models.LoginInput, client models.ClientMetadata) (*LoginResult, error) {
	user, err := s.ValidateCredentials(ctx, in.Email, in.Password)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errorf(common.ErrUnauthorized, "Invalid credentials")
		}
		return nil, err
	}

	now := s.now().UTC()
	session := &models.Session{
		ID:           uuid.NewString(),
		SessionToken: uuid.NewString(),
		ExpiresAt:    now.Add(s.ttl(in.RememberMe)),
		RememberMe:   in.RememberMe,
		UserID:       user.ID,
		UserAgent:    optional(client.UserAgent),
		IPAddress:    optional(client.IPAddress),
		CreatedAt:    now,
	}

	if _, err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email, session.ID, session.ExpiresAt)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user logged in", "user_id", user.ID, "session_id", session.ID, "remember_me", in.RememberMe)

	return &LoginResult{
		User:        user,
		Session:     session,
		AccessToken: token,
	}, nil
}

// Logout deletes the session. Unknown ids are ignored.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	s.logger.Info(ctx, "session closed", "session_id", sessionID)
	return nil
}

// GetSession returns the session, or nil without an error when none exists.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return session, nil
}

// Authenticate resolves a raw access token to the caller. The token must
// verify and its session must still exist and be unexpired.
func (s *AuthService) Authenticate(ctx context.Context, rawToken string) (*models.Identity, error) {
	claims, err := s.tokens.ValidateToken(rawToken)
	if err != nil {
		return nil, common.Wrap(common.ErrUnauthorized, err, "Unauthorized")
	}

	session, err := s.GetSession(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, common.Errorf(common.ErrUnauthorized, "Invalid session")
	}
	if session.IsExpired(s.now()) {
		return nil, common.Errorf(common.ErrUnauthorized, "Session has expired")
	}
	if session.UserID != claims.UserID() {
		return nil, common.Errorf(common.ErrUnauthorized, "Invalid session")
	}

	return &models.Identity{
		UserID:    claims.UserID(),
		Email:     claims.Email,
		SessionID: claims.SessionID,
	}, nil
}

// SessionTTL is the lifetime of a session opened with the given flag.
func (s *AuthService) SessionTTL(rememberMe bool) time.Duration {
	return s.ttl(rememberMe)
}

func (s *AuthService) ttl(rememberMe bool) time.Duration {
	if rememberMe {
		return s.cfg.RememberMeTTL
	}
	return s.cfg.SessionTTL
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
