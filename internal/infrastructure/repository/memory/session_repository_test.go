package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/team-randomiser/internal/domain/player"
	"github.com/riskibarqy/team-randomiser/internal/domain/session"
)

func TestSessionRepository_UpdateIsIsolated(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository()

	if err := repo.Create(ctx, session.Session{ID: "s-1"}); err != nil {
		t.Fatalf("create session: %v", err)
	}
	if err := repo.Create(ctx, session.Session{ID: "s-2"}); err != nil {
		t.Fatalf("create session: %v", err)
	}

	updated, err := repo.Update(ctx, "s-1", func(s *session.Session) error {
		return s.Roster.Add(player.Player{Name: "Uche", Position: player.PositionGoalkeeper})
	})
	if err != nil {
		t.Fatalf("update session: %v", err)
	}
	if updated.Roster.Len() != 1 {
		t.Fatalf("expected 1 player after update, got %d", updated.Roster.Len())
	}

	other, ok, err := repo.Get(ctx, "s-2")
	if err != nil || !ok {
		t.Fatalf("get other session: ok=%v err=%v", ok, err)
	}
	if other.Roster.Len() != 0 {
		t.Fatalf("expected other session untouched, got %d players", other.Roster.Len())
	}

	// Mutating a returned copy must not leak into storage.
	if err := updated.Roster.Add(player.Player{Name: "Leak", Position: player.PositionStriker}); err != nil {
		t.Fatalf("add to copy: %v", err)
	}
	stored, _, _ := repo.Get(ctx, "s-1")
	if stored.Roster.Len() != 1 {
		t.Fatalf("expected stored roster of 1, got %d", stored.Roster.Len())
	}
}

func TestSessionRepository_UpdateErrorKeepsState(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository()
	if err := repo.Create(ctx, session.Session{ID: "s-1"}); err != nil {
		t.Fatalf("create session: %v", err)
	}

	boom := errors.New("boom")
	_, err := repo.Update(ctx, "s-1", func(s *session.Session) error {
		_ = s.Roster.Add(player.Player{Name: "Half", Position: player.PositionDefender})
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	stored, _, _ := repo.Get(ctx, "s-1")
	if stored.Roster.Len() != 0 {
		t.Fatalf("expected roster unchanged, got %d players", stored.Roster.Len())
	}

	_, err = repo.Update(ctx, "missing", func(*session.Session) error { return nil })
	if !errors.Is(err, session.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionRepository_DeleteExpired(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository()
	base := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	_ = repo.Create(ctx, session.Session{ID: "old", UpdatedAt: base.Add(-2 * time.Hour)})
	_ = repo.Create(ctx, session.Session{ID: "fresh", UpdatedAt: base})

	removed, err := repo.DeleteExpired(ctx, base.Add(-time.Hour))
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if len(removed) != 1 || removed[0] != "old" {
		t.Fatalf("unexpected removed ids: %v", removed)
	}

	if _, ok, _ := repo.Get(ctx, "fresh"); !ok {
		t.Fatalf("expected fresh session to survive")
	}
	deleted, err := repo.Delete(ctx, "fresh")
	if err != nil || !deleted {
		t.Fatalf("delete fresh: deleted=%v err=%v", deleted, err)
	}
	deleted, _ = repo.Delete(ctx, "fresh")
	if deleted {
		t.Fatalf("expected second delete to report false")
	}
}
