package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/team-randomiser/internal/domain/session"
)

type SessionRepository struct {
	mu    sync.RWMutex
	items map[string]session.Session
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{items: make(map[string]session.Session)}
}

func (r *SessionRepository) Create(_ context.Context, s session.Session) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("validate session: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[s.ID]; exists {
		return fmt.Errorf("session %s already exists", s.ID)
	}
	r.items[s.ID] = s.Clone()
	return nil
}

func (r *SessionRepository) Get(_ context.Context, id string) (session.Session, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.items[id]
	if !ok {
		return session.Session{}, false, nil
	}

	return s.Clone(), true, nil
}

func (r *SessionRepository) Update(_ context.Context, id string, fn func(*session.Session) error) (session.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[id]
	if !ok {
		return session.Session{}, fmt.Errorf("%w: %s", session.ErrSessionNotFound, id)
	}

	working := current.Clone()
	if err := fn(&working); err != nil {
		return session.Session{}, err
	}
	working.ID = id
	if err := working.Validate(); err != nil {
		return session.Session{}, fmt.Errorf("validate session: %w", err)
	}

	r.items[id] = working.Clone()
	return working, nil
}

func (r *SessionRepository) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}

func (r *SessionRepository) DeleteExpired(_ context.Context, idleBefore time.Time) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed []string
	for id, s := range r.items {
		if s.UpdatedAt.Before(idleBefore) {
			delete(r.items, id)
			removed = append(removed, id)
		}
	}
	sort.Strings(removed)

	return removed, nil
}
