package document

import (
	"bytes"
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"
	"unicode/utf16"

	"github.com/riskibarqy/team-randomiser/internal/domain/allocation"
	"github.com/riskibarqy/team-randomiser/internal/domain/player"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pdfEscaper = strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`, "\r", `\r`)

// pdfText encodes s the way text operators carry it under an embedded
// unicode font: UTF-16BE code units with string delimiters escaped.
func pdfText(s string) string {
	units := utf16.Encode([]rune(s))
	raw := make([]byte, 0, len(units)*2)
	for _, u := range units {
		raw = append(raw, byte(u>>8), byte(u))
	}
	return pdfEscaper.Replace(string(raw))
}

func renderUncompressed(t *testing.T, title string, a allocation.Assignment) string {
	t.Helper()

	e := NewExporter(title)
	e.compress = false

	content, err := e.Render(context.Background(), a)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(content, []byte("%PDF-")), "missing pdf header")
	return string(content)
}

func TestExporter_Render(t *testing.T) {
	players := []player.Player{
		{Name: "Ana", Position: player.PositionGoalkeeper},
		{Name: "Ben", Position: player.PositionDefender},
		{Name: "Cai", Position: player.PositionMidfielder},
	}
	a, err := allocation.Allocate(players, 2, rand.New(rand.NewPCG(3, 4)))
	require.NoError(t, err)

	content := renderUncompressed(t, "EdibleFC Randomiser - Teams", a)

	assert.Contains(t, content, pdfText("EdibleFC Randomiser - Teams"))
	for _, team := range a.Teams {
		assert.Contains(t, content, pdfText(fmt.Sprintf("Team %d", team.Number)))
		assert.Contains(t, content, pdfText(team.Balance().String()))
		for _, p := range team.Players {
			assert.Contains(t, content, "("+pdfText(p.Name+" ("+string(p.Position)+")")+")Tj")
		}
	}
}

func TestExporter_RenderKeepsNonLatinNames(t *testing.T) {
	players := []player.Player{
		{Name: "Łukasz Żółć", Position: player.PositionDefender},
		{Name: "Дмитрий", Position: player.PositionGoalkeeper},
		{Name: "Nguyễn Văn An", Position: player.PositionStriker},
		{Name: "Σωκράτης", Position: player.PositionMidfielder},
	}
	a, err := allocation.Allocate(players, 1, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)

	content := renderUncompressed(t, "Équipes", a)

	assert.Contains(t, content, pdfText("Équipes"))
	for _, p := range players {
		assert.Contains(t, content, pdfText(p.String()), "name %q lost in pdf", p.Name)
	}
	assert.NotContains(t, content, pdfText(".ukasz"))
}

func TestExporter_RenderPaginatesLargeRosters(t *testing.T) {
	players := make([]player.Player, 0, 120)
	for i := range 120 {
		players = append(players, player.Player{
			Name:     fmt.Sprintf("Player %03d", i),
			Position: player.Positions[i%len(player.Positions)],
		})
	}
	a, err := allocation.Allocate(players, 6, rand.New(rand.NewPCG(5, 6)))
	require.NoError(t, err)

	content := renderUncompressed(t, "", a)
	assert.Contains(t, content, pdfText("Page 2/"))
	assert.NotContains(t, content, pdfText("{nb}"))
}

func TestExporter_Defaults(t *testing.T) {
	e := NewExporter("  ")
	assert.Equal(t, DefaultTitle, e.title)
	assert.Equal(t, "pdf", e.Format())
	assert.Equal(t, "application/pdf", e.ContentType())
}
