package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/team-randomiser/internal/domain/allocation"
	"github.com/riskibarqy/team-randomiser/internal/domain/session"
	"github.com/riskibarqy/team-randomiser/internal/platform/logging"
	"github.com/riskibarqy/team-randomiser/internal/platform/random"
)

type TeamCountBounds struct {
	Min int
	Max int
}

func (b TeamCountBounds) contains(n int) bool {
	return n >= b.Min && n <= b.Max
}

type AllocationService struct {
	repo   session.Repository
	source random.Source
	bounds TeamCountBounds
	now    func() time.Time
	logger *logging.Logger
}

func NewAllocationService(
	repo session.Repository,
	source random.Source,
	bounds TeamCountBounds,
	logger *logging.Logger,
) *AllocationService {
	if logger == nil {
		logger = logging.Default()
	}
	if bounds.Min <= 0 {
		bounds.Min = 1
	}
	if bounds.Max < bounds.Min {
		bounds.Max = bounds.Min
	}

	return &AllocationService{
		repo:   repo,
		source: source,
		bounds: bounds,
		now:    time.Now,
		logger: logger,
	}
}

func (s *AllocationService) Bounds() TeamCountBounds {
	return s.bounds
}

// Generate splits the current roster into teamCount teams and replaces any
// previous assignment of the session.
func (s *AllocationService) Generate(
	ctx context.Context,
	sessionID string,
	teamCount int,
	strategy string,
) (session.Session, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AllocationService.Generate", sessionAttr(sessionID))
	defer span.End()

	if !s.bounds.contains(teamCount) {
		return session.Session{}, fmt.Errorf(
			"%w: team count must be between %d and %d, got %d",
			ErrInvalidInput, s.bounds.Min, s.bounds.Max, teamCount,
		)
	}
	parsed, err := allocation.ParseStrategy(strategy)
	if err != nil {
		return session.Session{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	allocate := allocation.ForStrategy(parsed)

	rng := s.source.New()
	now := s.now().UTC()
	item, err := updateSession(ctx, s.repo, sessionID, func(item *session.Session) error {
		assignment, err := allocate(item.Roster.Players(), teamCount, rng)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		item.Assignment = assignment
		item.HasAssignment = true
		item.TeamCount = teamCount
		item.Strategy = parsed
		item.Touch(now)
		return nil
	})
	if err != nil {
		return session.Session{}, err
	}

	s.logger.InfoContext(ctx, "teams generated",
		"session_id", item.ID,
		"team_count", teamCount,
		"strategy", string(parsed),
		"players", item.Assignment.TotalPlayers(),
		"revision", item.Revision,
	)
	return item, nil
}

func (s *AllocationService) GetAssignment(ctx context.Context, sessionID string) (session.Session, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AllocationService.GetAssignment", sessionAttr(sessionID))
	defer span.End()

	item, err := loadSession(ctx, s.repo, sessionID)
	if err != nil {
		return session.Session{}, err
	}
	if !item.HasAssignment {
		return session.Session{}, fmt.Errorf("%w: no teams generated for session=%s", ErrNotFound, item.ID)
	}

	return item, nil
}
