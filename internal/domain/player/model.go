package player

import (
	"errors"
	"fmt"
	"strings"
)

// Position represents the football position a player registers with.
type Position string

const (
	PositionGoalkeeper Position = "GK"
	PositionDefender   Position = "DEF"
	PositionMidfielder Position = "MID"
	PositionStriker    Position = "ST"
)

// Positions lists every position in allocation order.
var Positions = []Position{
	PositionGoalkeeper,
	PositionDefender,
	PositionMidfielder,
	PositionStriker,
}

var AllPositions = map[Position]struct{}{
	PositionGoalkeeper: {},
	PositionDefender:   {},
	PositionMidfielder: {},
	PositionStriker:    {},
}

var ErrUnknownPosition = errors.New("unknown player position")

var positionAliases = map[string]Position{
	"gk":         PositionGoalkeeper,
	"goalkeeper": PositionGoalkeeper,
	"keeper":     PositionGoalkeeper,
	"def":        PositionDefender,
	"defender":   PositionDefender,
	"mid":        PositionMidfielder,
	"midfielder": PositionMidfielder,
	"st":         PositionStriker,
	"striker":    PositionStriker,
	"fwd":        PositionStriker,
	"forward":    PositionStriker,
}

// ParsePosition normalizes a free-form position label into a Position.
func ParsePosition(raw string) (Position, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if pos, ok := positionAliases[key]; ok {
		return pos, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownPosition, raw)
}

func (p Position) Valid() bool {
	_, ok := AllPositions[p]
	return ok
}

// Player is a registered participant waiting to be split into teams.
// Identity is positional: two players may share a name.
type Player struct {
	Name     string
	Position Position
}

func (p Player) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("player name is required")
	}
	if !p.Position.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownPosition, p.Position)
	}

	return nil
}

func (p Player) String() string {
	return fmt.Sprintf("%s (%s)", p.Name, p.Position)
}
