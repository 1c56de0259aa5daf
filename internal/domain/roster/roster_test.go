package roster

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/riskibarqy/team-randomiser/internal/domain/player"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePlayers() []player.Player {
	return []player.Player{
		{Name: "Kemi", Position: player.PositionGoalkeeper},
		{Name: "Dayo", Position: player.PositionDefender},
		{Name: "Ife", Position: player.PositionMidfielder},
		{Name: "Seun", Position: player.PositionStriker},
	}
}

func TestRoster_AddUpdateRemove(t *testing.T) {
	r, err := New(samplePlayers()...)
	require.NoError(t, err)
	require.Equal(t, 4, r.Len())

	require.NoError(t, r.Update(1, player.Player{Name: "Dayo B", Position: player.PositionMidfielder}))
	got, err := r.At(1)
	require.NoError(t, err)
	assert.Equal(t, player.Player{Name: "Dayo B", Position: player.PositionMidfielder}, got)

	removed, err := r.Remove(0)
	require.NoError(t, err)
	assert.Equal(t, "Kemi", removed.Name)
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, "Dayo B", r.Players()[0].Name)
}

func TestRoster_AllowsDuplicateNames(t *testing.T) {
	var r Roster
	require.NoError(t, r.Add(player.Player{Name: "Tobi", Position: player.PositionDefender}))
	require.NoError(t, r.Add(player.Player{Name: "Tobi", Position: player.PositionDefender}))
	assert.Equal(t, 2, r.Len())
}

func TestRoster_RejectsInvalidPlayers(t *testing.T) {
	var r Roster
	err := r.Add(player.Player{Name: "", Position: player.PositionDefender})
	require.Error(t, err)

	err = r.Add(player.Player{Name: "Tobi", Position: "CB"})
	require.ErrorIs(t, err, player.ErrUnknownPosition)
	assert.Equal(t, 0, r.Len())
}

func TestRoster_IndexOutOfRange(t *testing.T) {
	r, err := New(samplePlayers()...)
	require.NoError(t, err)

	for _, idx := range []int{-1, 4, 10} {
		if _, err := r.Remove(idx); !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatalf("Remove(%d): expected ErrIndexOutOfRange, got %v", idx, err)
		}
		if err := r.Update(idx, samplePlayers()[0]); !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatalf("Update(%d): expected ErrIndexOutOfRange, got %v", idx, err)
		}
	}
	assert.Equal(t, 4, r.Len())
}

func TestRoster_PlayersReturnsCopy(t *testing.T) {
	r, err := New(samplePlayers()...)
	require.NoError(t, err)

	out := r.Players()
	out[0].Name = "Changed"

	first, _ := r.At(0)
	assert.Equal(t, "Kemi", first.Name)
}

func TestRoster_ShuffleKeepsMembership(t *testing.T) {
	r, err := New(samplePlayers()...)
	require.NoError(t, err)

	r.Shuffle(rand.New(rand.NewPCG(7, 11)))

	assert.ElementsMatch(t, samplePlayers(), r.Players())
}

func TestRoster_Clear(t *testing.T) {
	r, err := New(samplePlayers()...)
	require.NoError(t, err)
	clone := r.Clone()

	r.Clear()
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 4, clone.Len())
}
