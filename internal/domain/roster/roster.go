package roster

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/riskibarqy/team-randomiser/internal/domain/player"
)

var ErrIndexOutOfRange = errors.New("player index out of range")

// Roster is the ordered list of registered players awaiting assignment.
// The zero value is an empty roster ready to use.
type Roster struct {
	players []player.Player
}

func New(players ...player.Player) (Roster, error) {
	var r Roster
	for _, p := range players {
		if err := r.Add(p); err != nil {
			return Roster{}, err
		}
	}

	return r, nil
}

func (r *Roster) Add(p player.Player) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("add player: %w", err)
	}

	r.players = append(r.players, p)
	return nil
}

// Update replaces the player stored at index.
func (r *Roster) Update(index int, p player.Player) error {
	if err := r.checkIndex(index); err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("update player: %w", err)
	}

	r.players[index] = p
	return nil
}

// Remove deletes the player at index and returns it.
func (r *Roster) Remove(index int) (player.Player, error) {
	if err := r.checkIndex(index); err != nil {
		return player.Player{}, err
	}

	removed := r.players[index]
	r.players = append(r.players[:index], r.players[index+1:]...)
	return removed, nil
}

// Shuffle reorders the roster in place.
func (r *Roster) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(r.players), func(i, j int) {
		r.players[i], r.players[j] = r.players[j], r.players[i]
	})
}

func (r *Roster) Clear() {
	r.players = nil
}

func (r Roster) Len() int {
	return len(r.players)
}

func (r Roster) At(index int) (player.Player, error) {
	if err := r.checkIndex(index); err != nil {
		return player.Player{}, err
	}
	return r.players[index], nil
}

// Players returns a copy of the roster contents.
func (r Roster) Players() []player.Player {
	return append([]player.Player(nil), r.players...)
}

func (r Roster) Clone() Roster {
	return Roster{players: r.Players()}
}

func (r Roster) checkIndex(index int) error {
	if index < 0 || index >= len(r.players) {
		return fmt.Errorf("%w: index=%d size=%d", ErrIndexOutOfRange, index, len(r.players))
	}
	return nil
}
