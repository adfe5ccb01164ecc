package services

import (
	"context"
	"time"

	"github.com/MediSynth-io/todos/internal/logging"
	"github.com/MediSynth-io/todos/internal/repositories/sessions"
)

// SessionSweeper periodically deletes expired session rows. Expired rows
// are already rejected at authentication time; this only reclaims space.
type SessionSweeper struct {
	sessions sessions.Repository
	interval time.Duration
	now      func() time.Time
	logger   logging.Logger
}

func NewSessionSweeper(repo sessions.Repository, interval time.Duration, logger logging.Logger) *SessionSweeper {
	return &SessionSweeper{
		sessions: repo,
		interval: interval,
		now:      time.Now,
		logger:   logger.With("component", "session_sweeper"),
	}
}

// Sweep deletes the sessions that have expired by now.
func (s *SessionSweeper) Sweep(ctx context.Context) (int64, error) {
	n, err := s.sessions.DeleteExpired(ctx, s.now().UTC())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info(ctx, "expired sessions removed", "count", n)
	}
	return n, nil
}

// Run sweeps once immediately and then on every tick until ctx is done.
// A non-positive interval disables the sweeper.
func (s *SessionSweeper) Run(ctx context.Context) {
	if s.interval <= 0 {
		s.logger.Info(ctx, "session sweeper disabled")
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if _, err := s.Sweep(ctx); err != nil && ctx.Err() == nil {
			s.logger.Error(ctx, "error cleaning up expired sessions", "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
