package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/team-randomiser/internal/domain/session"
	"github.com/riskibarqy/team-randomiser/internal/platform/id"
	"github.com/riskibarqy/team-randomiser/internal/platform/logging"
)

// SessionEvictor is notified when a session is removed so that derived state
// keyed on the session can be dropped.
type SessionEvictor interface {
	EvictSession(ctx context.Context, sessionID string)
}

// ExpiredPruner is implemented by evictors that also hold time-bound entries
// unrelated to session lifetime. SweepExpired calls it on every sweep.
type ExpiredPruner interface {
	PruneExpired(ctx context.Context) int
}

type SessionService struct {
	repo     session.Repository
	ids      id.Generator
	ttl      time.Duration
	now      func() time.Time
	logger   *logging.Logger
	evictors []SessionEvictor
}

func NewSessionService(
	repo session.Repository,
	ids id.Generator,
	ttl time.Duration,
	logger *logging.Logger,
	evictors ...SessionEvictor,
) *SessionService {
	if logger == nil {
		logger = logging.Default()
	}

	return &SessionService{
		repo:     repo,
		ids:      ids,
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
		evictors: evictors,
	}
}

func (s *SessionService) Create(ctx context.Context) (session.Session, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SessionService.Create")
	defer span.End()

	sessionID, err := s.ids.NewID()
	if err != nil {
		return session.Session{}, fmt.Errorf("%w: generate session id: %v", ErrDependencyUnavailable, err)
	}

	now := s.now().UTC()
	item := session.Session{
		ID:        sessionID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return session.Session{}, fmt.Errorf("create session: %w", err)
	}

	s.logger.InfoContext(ctx, "session created", "session_id", sessionID)
	return item, nil
}

func (s *SessionService) Get(ctx context.Context, sessionID string) (session.Session, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SessionService.Get", sessionAttr(sessionID))
	defer span.End()

	return loadSession(ctx, s.repo, sessionID)
}

// Reset clears every player and the current teams.
func (s *SessionService) Reset(ctx context.Context, sessionID string) (session.Session, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SessionService.Reset", sessionAttr(sessionID))
	defer span.End()

	now := s.now().UTC()
	return updateSession(ctx, s.repo, sessionID, func(item *session.Session) error {
		item.Roster.Clear()
		item.ClearAssignment()
		item.Touch(now)
		return nil
	})
}

func (s *SessionService) Delete(ctx context.Context, sessionID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SessionService.Delete", sessionAttr(sessionID))
	defer span.End()

	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return fmt.Errorf("%w: session id is required", ErrInvalidInput)
	}

	deleted, err := s.repo.Delete(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if !deleted {
		return fmt.Errorf("%w: session=%s", ErrNotFound, sessionID)
	}

	s.evict(ctx, sessionID)
	s.logger.InfoContext(ctx, "session deleted", "session_id", sessionID)
	return nil
}

// SweepExpired removes sessions idle for longer than the configured TTL and
// returns how many were removed.
func (s *SessionService) SweepExpired(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SessionService.SweepExpired")
	defer span.End()

	s.pruneEvictors(ctx)
	if s.ttl <= 0 {
		return 0, nil
	}

	cutoff := s.now().UTC().Add(-s.ttl)
	ids, err := s.repo.DeleteExpired(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	for _, sessionID := range ids {
		s.evict(ctx, sessionID)
	}
	if len(ids) > 0 {
		s.logger.InfoContext(ctx, "expired sessions removed", "count", len(ids), "cutoff", cutoff)
	}

	return len(ids), nil
}

// RunSweeper calls SweepExpired every interval until ctx is cancelled.
func (s *SessionService) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.SweepExpired(ctx); err != nil {
				s.logger.WarnContext(ctx, "sweep expired sessions failed", "error", err)
			}
		}
	}
}

func (s *SessionService) pruneEvictors(ctx context.Context) {
	for _, evictor := range s.evictors {
		if pruner, ok := evictor.(ExpiredPruner); ok {
			pruner.PruneExpired(ctx)
		}
	}
}

func (s *SessionService) evict(ctx context.Context, sessionID string) {
	for _, evictor := range s.evictors {
		evictor.EvictSession(ctx, sessionID)
	}
}

func loadSession(ctx context.Context, repo session.Repository, sessionID string) (session.Session, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return session.Session{}, fmt.Errorf("%w: session id is required", ErrInvalidInput)
	}

	item, exists, err := repo.Get(ctx, sessionID)
	if err != nil {
		return session.Session{}, fmt.Errorf("get session: %w", err)
	}
	if !exists {
		return session.Session{}, fmt.Errorf("%w: session=%s", ErrNotFound, sessionID)
	}

	return item, nil
}

func updateSession(
	ctx context.Context,
	repo session.Repository,
	sessionID string,
	fn func(*session.Session) error,
) (session.Session, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return session.Session{}, fmt.Errorf("%w: session id is required", ErrInvalidInput)
	}

	item, err := repo.Update(ctx, sessionID, fn)
	switch {
	case err == nil:
		return item, nil
	case errors.Is(err, session.ErrSessionNotFound):
		return session.Session{}, fmt.Errorf("%w: session=%s", ErrNotFound, sessionID)
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrNotFound):
		return session.Session{}, err
	default:
		return session.Session{}, fmt.Errorf("update session: %w", err)
	}
}
