package allocation

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/riskibarqy/team-randomiser/internal/domain/player"
)

var (
	ErrInvalidTeamCount = errors.New("team count must be at least 1")
	ErrUnknownStrategy  = errors.New("unknown allocation strategy")
)

// Strategy names an allocation policy.
type Strategy string

const (
	// StrategyBalanced fills teams up to precomputed target sizes so that
	// team sizes never differ by more than one.
	StrategyBalanced Strategy = "balanced"
	// StrategyPositional deals each position group round-robin from team 1.
	// Team sizes may differ by more than one.
	StrategyPositional Strategy = "positional"
)

// Allocator partitions players into teamCount teams using rng as its only
// source of randomness.
type Allocator func(players []player.Player, teamCount int, rng *rand.Rand) (Assignment, error)

func ParseStrategy(raw string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", StrategyBalanced:
		return StrategyBalanced, nil
	case StrategyPositional:
		return StrategyPositional, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, raw)
	}
}

func ForStrategy(s Strategy) Allocator {
	switch s {
	case StrategyPositional:
		return AllocatePositional
	default:
		return Allocate
	}
}

// Allocate splits players into teamCount teams of near-equal size.
//
// Players are grouped by position, each group is shuffled, and the groups are
// dealt in GK, DEF, MID, ST order to whichever non-full team currently holds
// the fewest players (lowest team number on ties). The first len(players) %
// teamCount teams receive one extra player. The input slice is not modified.
func Allocate(players []player.Player, teamCount int, rng *rand.Rand) (Assignment, error) {
	if teamCount <= 0 {
		return Assignment{}, fmt.Errorf("%w: got %d", ErrInvalidTeamCount, teamCount)
	}

	combined := make([]player.Player, 0, len(players))
	for _, group := range shuffledGroups(players, rng) {
		combined = append(combined, group...)
	}

	base := len(combined) / teamCount
	remainder := len(combined) % teamCount
	targets := make([]int, teamCount)
	for i := range targets {
		targets[i] = base
		if i < remainder {
			targets[i]++
		}
	}

	out := newAssignment(teamCount)
	for _, p := range combined {
		pick := -1
		for i, t := range out.Teams {
			if len(t.Players) >= targets[i] {
				continue
			}
			if pick == -1 || len(t.Players) < len(out.Teams[pick].Players) {
				pick = i
			}
		}
		out.Teams[pick].Players = append(out.Teams[pick].Players, p)
	}

	return out, nil
}

// AllocatePositional deals every shuffled position group round-robin,
// restarting at team 1 for each position.
func AllocatePositional(players []player.Player, teamCount int, rng *rand.Rand) (Assignment, error) {
	if teamCount <= 0 {
		return Assignment{}, fmt.Errorf("%w: got %d", ErrInvalidTeamCount, teamCount)
	}

	out := newAssignment(teamCount)
	for _, group := range shuffledGroups(players, rng) {
		for i, p := range group {
			idx := i % teamCount
			out.Teams[idx].Players = append(out.Teams[idx].Players, p)
		}
	}

	return out, nil
}

// shuffledGroups returns copies of the position groups in player.Positions
// order, each independently shuffled. Players with an unrecognised position
// form a trailing group so that nobody is dropped.
func shuffledGroups(players []player.Player, rng *rand.Rand) [][]player.Player {
	byPosition := make(map[player.Position][]player.Player, len(player.Positions))
	var unknown []player.Player
	for _, p := range players {
		if !p.Position.Valid() {
			unknown = append(unknown, p)
			continue
		}
		byPosition[p.Position] = append(byPosition[p.Position], p)
	}

	groups := make([][]player.Player, 0, len(player.Positions)+1)
	for _, pos := range player.Positions {
		groups = append(groups, byPosition[pos])
	}
	if len(unknown) > 0 {
		groups = append(groups, unknown)
	}

	for _, group := range groups {
		rng.Shuffle(len(group), func(i, j int) {
			group[i], group[j] = group[j], group[i]
		})
	}

	return groups
}
