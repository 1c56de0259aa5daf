package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/riskibarqy/team-randomiser/internal/domain/player"
	"github.com/riskibarqy/team-randomiser/internal/domain/session"
	"github.com/riskibarqy/team-randomiser/internal/platform/logging"
	"github.com/riskibarqy/team-randomiser/internal/platform/random"
)

// PlayerImporter reads a player table from a spreadsheet-like source.
type PlayerImporter interface {
	Read(ctx context.Context, source io.Reader) ([]player.Player, error)
}

type PlayerInput struct {
	Name     string
	Position string
}

type RosterService struct {
	repo       session.Repository
	importer   PlayerImporter
	source     random.Source
	maxPlayers int
	now        func() time.Time
	logger     *logging.Logger
}

func NewRosterService(
	repo session.Repository,
	importer PlayerImporter,
	source random.Source,
	maxPlayers int,
	logger *logging.Logger,
) *RosterService {
	if logger == nil {
		logger = logging.Default()
	}

	return &RosterService{
		repo:       repo,
		importer:   importer,
		source:     source,
		maxPlayers: maxPlayers,
		now:        time.Now,
		logger:     logger,
	}
}

func (s *RosterService) ListPlayers(ctx context.Context, sessionID string) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.ListPlayers", sessionAttr(sessionID))
	defer span.End()

	item, err := loadSession(ctx, s.repo, sessionID)
	if err != nil {
		return nil, err
	}

	return item.Roster.Players(), nil
}

func (s *RosterService) AddPlayer(ctx context.Context, sessionID string, input PlayerInput) (session.Session, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.AddPlayer", sessionAttr(sessionID))
	defer span.End()

	p, err := parsePlayerInput(input)
	if err != nil {
		return session.Session{}, err
	}

	now := s.now().UTC()
	return updateSession(ctx, s.repo, sessionID, func(item *session.Session) error {
		if err := s.ensureCapacity(item.Roster.Len(), 1); err != nil {
			return err
		}
		if err := item.Roster.Add(p); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		item.Touch(now)
		return nil
	})
}

func (s *RosterService) UpdatePlayer(ctx context.Context, sessionID string, index int, input PlayerInput) (session.Session, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.UpdatePlayer", sessionAttr(sessionID))
	defer span.End()

	p, err := parsePlayerInput(input)
	if err != nil {
		return session.Session{}, err
	}

	now := s.now().UTC()
	return updateSession(ctx, s.repo, sessionID, func(item *session.Session) error {
		if err := item.Roster.Update(index, p); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		item.Touch(now)
		return nil
	})
}

// RemovePlayer deletes the player at index and returns it.
func (s *RosterService) RemovePlayer(ctx context.Context, sessionID string, index int) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.RemovePlayer", sessionAttr(sessionID))
	defer span.End()

	var removed player.Player
	now := s.now().UTC()
	_, err := updateSession(ctx, s.repo, sessionID, func(item *session.Session) error {
		p, err := item.Roster.Remove(index)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		removed = p
		item.Touch(now)
		return nil
	})
	if err != nil {
		return player.Player{}, err
	}

	return removed, nil
}

func (s *RosterService) Shuffle(ctx context.Context, sessionID string) (session.Session, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.Shuffle", sessionAttr(sessionID))
	defer span.End()

	rng := s.source.New()
	now := s.now().UTC()
	return updateSession(ctx, s.repo, sessionID, func(item *session.Session) error {
		item.Roster.Shuffle(rng)
		item.Touch(now)
		return nil
	})
}

// PreviewImport parses source without touching any session.
func (s *RosterService) PreviewImport(ctx context.Context, source io.Reader) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.PreviewImport")
	defer span.End()

	return s.readPlayers(ctx, source)
}

// ImportPlayers appends the players read from source to the roster. When
// selectNames is non-empty only those names are imported, one player per
// selected name using the first matching row.
func (s *RosterService) ImportPlayers(
	ctx context.Context,
	sessionID string,
	source io.Reader,
	selectNames []string,
) (session.Session, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.ImportPlayers", sessionAttr(sessionID))
	defer span.End()

	if _, err := loadSession(ctx, s.repo, sessionID); err != nil {
		return session.Session{}, err
	}

	rows, err := s.readPlayers(ctx, source)
	if err != nil {
		return session.Session{}, err
	}
	selected, err := selectPlayers(rows, selectNames)
	if err != nil {
		return session.Session{}, err
	}

	now := s.now().UTC()
	item, err := updateSession(ctx, s.repo, sessionID, func(item *session.Session) error {
		if err := s.ensureCapacity(item.Roster.Len(), len(selected)); err != nil {
			return err
		}
		for _, p := range selected {
			if err := item.Roster.Add(p); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidInput, err)
			}
		}
		item.Touch(now)
		return nil
	})
	if err != nil {
		return session.Session{}, err
	}

	s.logger.InfoContext(ctx, "players imported",
		"session_id", item.ID,
		"rows", len(rows),
		"imported", len(selected),
	)
	return item, nil
}

func (s *RosterService) readPlayers(ctx context.Context, source io.Reader) ([]player.Player, error) {
	if s.importer == nil {
		return nil, fmt.Errorf("%w: player importer is not configured", ErrDependencyUnavailable)
	}
	if source == nil {
		return nil, fmt.Errorf("%w: import file is required", ErrInvalidInput)
	}

	rows, err := s.importer.Read(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	return rows, nil
}

func (s *RosterService) ensureCapacity(current, adding int) error {
	if s.maxPlayers > 0 && current+adding > s.maxPlayers {
		return fmt.Errorf("%w: roster is limited to %d players", ErrInvalidInput, s.maxPlayers)
	}
	return nil
}

func parsePlayerInput(input PlayerInput) (player.Player, error) {
	pos, err := player.ParsePosition(input.Position)
	if err != nil {
		return player.Player{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	p := player.Player{Name: strings.TrimSpace(input.Name), Position: pos}
	if err := p.Validate(); err != nil {
		return player.Player{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	return p, nil
}

func selectPlayers(rows []player.Player, names []string) ([]player.Player, error) {
	if len(names) == 0 {
		return rows, nil
	}

	byName := make(map[string]player.Player, len(rows))
	for _, row := range rows {
		if _, seen := byName[row.Name]; !seen {
			byName[row.Name] = row
		}
	}

	out := make([]player.Player, 0, len(names))
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		p, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: player %q is not in the import file", ErrInvalidInput, name)
		}
		out = append(out, p)
	}

	return out, nil
}
