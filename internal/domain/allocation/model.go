package allocation

import (
	"fmt"
	"strings"

	"github.com/riskibarqy/team-randomiser/internal/domain/player"
)

// Team is one numbered group of an Assignment.
type Team struct {
	Number  int
	Players []player.Player
}

func (t Team) Balance() Balance {
	return Summarize(t.Players)
}

// Assignment is the result of one allocation run. Teams are ordered by
// number, starting at 1 and contiguous.
type Assignment struct {
	Teams []Team
}

func newAssignment(teamCount int) Assignment {
	teams := make([]Team, teamCount)
	for i := range teams {
		teams[i] = Team{Number: i + 1, Players: []player.Player{}}
	}
	return Assignment{Teams: teams}
}

func (a Assignment) TeamCount() int {
	return len(a.Teams)
}

func (a Assignment) TotalPlayers() int {
	total := 0
	for _, t := range a.Teams {
		total += len(t.Players)
	}
	return total
}

func (a Assignment) Sizes() []int {
	out := make([]int, 0, len(a.Teams))
	for _, t := range a.Teams {
		out = append(out, len(t.Players))
	}
	return out
}

func (a Assignment) Team(number int) (Team, bool) {
	if number < 1 || number > len(a.Teams) {
		return Team{}, false
	}
	return a.Teams[number-1], true
}

// ByNumber exposes the assignment as a team number to players mapping.
func (a Assignment) ByNumber() map[int][]player.Player {
	out := make(map[int][]player.Player, len(a.Teams))
	for _, t := range a.Teams {
		out[t.Number] = append([]player.Player(nil), t.Players...)
	}
	return out
}

func (a Assignment) Clone() Assignment {
	teams := make([]Team, 0, len(a.Teams))
	for _, t := range a.Teams {
		teams = append(teams, Team{
			Number:  t.Number,
			Players: append([]player.Player{}, t.Players...),
		})
	}
	return Assignment{Teams: teams}
}

// Balance counts a team's players per position.
type Balance struct {
	GK    int
	DEF   int
	MID   int
	ST    int
	Total int
}

func Summarize(players []player.Player) Balance {
	var b Balance
	for _, p := range players {
		switch p.Position {
		case player.PositionGoalkeeper:
			b.GK++
		case player.PositionDefender:
			b.DEF++
		case player.PositionMidfielder:
			b.MID++
		case player.PositionStriker:
			b.ST++
		}
		b.Total++
	}
	return b
}

func (b Balance) Count(pos player.Position) int {
	switch pos {
	case player.PositionGoalkeeper:
		return b.GK
	case player.PositionDefender:
		return b.DEF
	case player.PositionMidfielder:
		return b.MID
	case player.PositionStriker:
		return b.ST
	default:
		return 0
	}
}

// String renders the summary line used by exports, e.g. "GK:1, DEF:2, MID:2, ST:1, Total:6".
func (b Balance) String() string {
	parts := make([]string, 0, len(player.Positions)+1)
	for _, pos := range player.Positions {
		parts = append(parts, fmt.Sprintf("%s:%d", pos, b.Count(pos)))
	}
	parts = append(parts, fmt.Sprintf("Total:%d", b.Total))
	return strings.Join(parts, ", ")
}
