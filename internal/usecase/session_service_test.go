package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/team-randomiser/internal/domain/player"
	"github.com/riskibarqy/team-randomiser/internal/domain/session"
	"github.com/riskibarqy/team-randomiser/internal/infrastructure/repository/memory"
	sessionmock "github.com/riskibarqy/team-randomiser/internal/mocks/domain/session"
	"github.com/riskibarqy/team-randomiser/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

type staticIDGenerator struct {
	id string
}

func (g staticIDGenerator) NewID() (string, error) {
	return g.id, nil
}

type failingIDGenerator struct{}

func (failingIDGenerator) NewID() (string, error) {
	return "", errors.New("entropy exhausted")
}

type recordingEvictor struct {
	ids []string
}

func (e *recordingEvictor) EvictSession(_ context.Context, sessionID string) {
	e.ids = append(e.ids, sessionID)
}

type pruningEvictor struct {
	recordingEvictor
	prunes int
}

func (e *pruningEvictor) PruneExpired(context.Context) int {
	e.prunes++
	return 0
}

func TestSessionService_CreateThenGet(t *testing.T) {
	repo := memory.NewSessionRepository()
	service := NewSessionService(repo, staticIDGenerator{id: "session-001"}, time.Hour, logging.NewNop())

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }

	created, err := service.Create(t.Context())
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if created.ID != "session-001" || !created.CreatedAt.Equal(now) {
		t.Fatalf("unexpected session: %+v", created)
	}

	got, err := service.Get(t.Context(), " session-001 ")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got.ID != created.ID || got.Roster.Len() != 0 || got.HasAssignment {
		t.Fatalf("unexpected stored session: %+v", got)
	}
}

func TestSessionService_CreateIDFailure(t *testing.T) {
	service := NewSessionService(memory.NewSessionRepository(), failingIDGenerator{}, time.Hour, logging.NewNop())

	_, err := service.Create(t.Context())
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestSessionService_GetValidation(t *testing.T) {
	service := NewSessionService(memory.NewSessionRepository(), staticIDGenerator{id: "s"}, time.Hour, logging.NewNop())

	if _, err := service.Get(t.Context(), "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := service.Get(t.Context(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSessionService_ResetClearsPlayersAndTeams(t *testing.T) {
	repo := memory.NewSessionRepository()
	sessions := NewSessionService(repo, staticIDGenerator{id: "session-reset"}, time.Hour, logging.NewNop())
	rosters := NewRosterService(repo, nil, fixedSource(1), 0, logging.NewNop())
	allocations := NewAllocationService(repo, fixedSource(1), TeamCountBounds{Min: 2, Max: 6}, logging.NewNop())

	created, err := sessions.Create(t.Context())
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	for _, in := range []PlayerInput{{"Ana", "GK"}, {"Ben", "DEF"}, {"Cai", "ST"}} {
		if _, err := rosters.AddPlayer(t.Context(), created.ID, in); err != nil {
			t.Fatalf("add player: %v", err)
		}
	}
	generated, err := allocations.Generate(t.Context(), created.ID, 2, "")
	if err != nil {
		t.Fatalf("generate teams: %v", err)
	}

	reset, err := sessions.Reset(t.Context(), created.ID)
	if err != nil {
		t.Fatalf("reset session: %v", err)
	}
	if reset.Roster.Len() != 0 || reset.HasAssignment || reset.TeamCount != 0 {
		t.Fatalf("expected empty session after reset, got %+v", reset)
	}
	if reset.Revision <= generated.Revision {
		t.Fatalf("expected revision to advance: before=%d after=%d", generated.Revision, reset.Revision)
	}
}

func TestSessionService_DeleteEvicts(t *testing.T) {
	repo := memory.NewSessionRepository()
	evictor := &recordingEvictor{}
	service := NewSessionService(repo, staticIDGenerator{id: "session-del"}, time.Hour, logging.NewNop(), evictor)

	if _, err := service.Create(t.Context()); err != nil {
		t.Fatalf("create session: %v", err)
	}
	if err := service.Delete(t.Context(), "session-del"); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	if len(evictor.ids) != 1 || evictor.ids[0] != "session-del" {
		t.Fatalf("expected eviction of session-del, got %v", evictor.ids)
	}
	if err := service.Delete(t.Context(), "session-del"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestSessionService_SweepExpired(t *testing.T) {
	repo := memory.NewSessionRepository()
	evictor := &recordingEvictor{}
	service := NewSessionService(repo, staticIDGenerator{id: "old"}, 30*time.Minute, logging.NewNop(), evictor)

	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return start }
	if _, err := service.Create(t.Context()); err != nil {
		t.Fatalf("create old session: %v", err)
	}

	service.ids = staticIDGenerator{id: "fresh"}
	service.now = func() time.Time { return start.Add(45 * time.Minute) }
	if _, err := service.Create(t.Context()); err != nil {
		t.Fatalf("create fresh session: %v", err)
	}

	removed, err := service.SweepExpired(t.Context())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed session, got %d", removed)
	}
	if _, err := service.Get(t.Context(), "old"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected old session to be gone, got %v", err)
	}
	if _, err := service.Get(t.Context(), "fresh"); err != nil {
		t.Fatalf("expected fresh session to remain: %v", err)
	}
	if len(evictor.ids) != 1 || evictor.ids[0] != "old" {
		t.Fatalf("unexpected evictions: %v", evictor.ids)
	}
}

func TestSessionService_SweepPrunesEvictorsWithoutTTL(t *testing.T) {
	evictor := &pruningEvictor{}
	plain := &recordingEvictor{}
	service := NewSessionService(memory.NewSessionRepository(), staticIDGenerator{id: "s"}, 0, logging.NewNop(), plain, evictor)

	for range 2 {
		if _, err := service.SweepExpired(t.Context()); err != nil {
			t.Fatalf("sweep: %v", err)
		}
	}
	if evictor.prunes != 2 {
		t.Fatalf("expected 2 prunes, got %d", evictor.prunes)
	}
}

func TestSessionService_RunSweeperStopsOnCancel(t *testing.T) {
	service := NewSessionService(memory.NewSessionRepository(), staticIDGenerator{id: "s"}, time.Minute, logging.NewNop())

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan struct{})
	go func() {
		service.RunSweeper(ctx, time.Millisecond)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("sweeper did not stop after cancel")
	}
}

func TestSessionService_GetNotFoundUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := sessionmock.NewRepository(t)
	service := NewSessionService(repo, staticIDGenerator{id: "s"}, time.Hour, logging.NewNop())

	repo.
		On("Get", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), "missing").
		Return(session.Session{}, false, nil).
		Once()

	_, err := service.Get(ctx, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSessionService_ResetMapsRepositoryNotFoundUsingMockery(t *testing.T) {
	t.Parallel()

	repo := sessionmock.NewRepository(t)
	service := NewSessionService(repo, staticIDGenerator{id: "s"}, time.Hour, logging.NewNop())

	repo.
		On("Update", mock.Anything, "gone", mock.Anything).
		Return(session.Session{}, session.ErrSessionNotFound).
		Once()

	_, err := service.Reset(context.Background(), "gone")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSessionService_SweepExpiredRepositoryErrorUsingMockery(t *testing.T) {
	t.Parallel()

	repo := sessionmock.NewRepository(t)
	evictor := &recordingEvictor{}
	service := NewSessionService(repo, staticIDGenerator{id: "s"}, time.Hour, logging.NewNop(), evictor)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }

	repo.
		On("DeleteExpired", mock.Anything, now.Add(-time.Hour)).
		Return(nil, errors.New("storage offline")).
		Once()

	if _, err := service.SweepExpired(context.Background()); err == nil {
		t.Fatalf("expected sweep error")
	}
	if len(evictor.ids) != 0 {
		t.Fatalf("expected no evictions, got %v", evictor.ids)
	}
}

func TestSessionService_UpdateAppliesMutationUsingMockery(t *testing.T) {
	t.Parallel()

	repo := sessionmock.NewRepository(t)
	rosters := NewRosterService(repo, nil, fixedSource(1), 0, logging.NewNop())

	stored := session.Session{ID: "s-1"}
	repo.
		On("Update", mock.Anything, "s-1", mock.Anything).
		Return(func(_ context.Context, _ string, fn func(*session.Session) error) (session.Session, error) {
			item := stored.Clone()
			if err := fn(&item); err != nil {
				return session.Session{}, err
			}
			return item, nil
		}).
		Once()

	got, err := rosters.AddPlayer(context.Background(), "s-1", PlayerInput{Name: "Dee", Position: "mid"})
	if err != nil {
		t.Fatalf("add player: %v", err)
	}
	p, err := got.Roster.At(0)
	if err != nil {
		t.Fatalf("read player: %v", err)
	}
	if p != (player.Player{Name: "Dee", Position: player.PositionMidfielder}) {
		t.Fatalf("unexpected player: %+v", p)
	}
	if got.Revision != 1 {
		t.Fatalf("expected revision 1, got %d", got.Revision)
	}
}
