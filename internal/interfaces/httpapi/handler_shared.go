package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/team-randomiser/internal/domain/allocation"
	"github.com/riskibarqy/team-randomiser/internal/domain/player"
	"github.com/riskibarqy/team-randomiser/internal/domain/session"
	"github.com/riskibarqy/team-randomiser/internal/usecase"
)

const defaultImportMaxBytes = 5 << 20

type playerRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Position string `json:"position" validate:"required,max=20"`
}

type generateTeamsRequest struct {
	TeamCount int    `json:"team_count" validate:"required,min=1"`
	Strategy  string `json:"strategy" validate:"omitempty,max=32"`
}

type playerDTO struct {
	Index    int    `json:"index"`
	Name     string `json:"name"`
	Position string `json:"position"`
}

type teamPlayerDTO struct {
	Name     string `json:"name"`
	Position string `json:"position"`
}

type balanceDTO struct {
	GK      int    `json:"gk"`
	DEF     int    `json:"def"`
	MID     int    `json:"mid"`
	ST      int    `json:"st"`
	Total   int    `json:"total"`
	Summary string `json:"summary"`
}

type teamDTO struct {
	Number  int             `json:"number"`
	Players []teamPlayerDTO `json:"players"`
	Balance balanceDTO      `json:"balance"`
}

type assignmentDTO struct {
	SessionID string    `json:"session_id"`
	TeamCount int       `json:"team_count"`
	Strategy  string    `json:"strategy"`
	Revision  int64     `json:"revision"`
	Teams     []teamDTO `json:"teams"`
}

type sessionDTO struct {
	ID          string         `json:"id"`
	PlayerCount int            `json:"player_count"`
	Players     []playerDTO    `json:"players"`
	Teams       *assignmentDTO `json:"teams,omitempty"`
	Revision    int64          `json:"revision"`
	CreatedAt   string         `json:"created_at"`
	UpdatedAt   string         `json:"updated_at"`
}

type exportFileDTO struct {
	Format      string `json:"format"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	SizeBytes   int    `json:"size_bytes"`
	Content     []byte `json:"content"`
}

type optionsDTO struct {
	Positions       []string `json:"positions"`
	Strategies      []string `json:"strategies"`
	DefaultStrategy string   `json:"default_strategy"`
	TeamCountMin    int      `json:"team_count_min"`
	TeamCountMax    int      `json:"team_count_max"`
	ExportFormats   []string `json:"export_formats"`
}

func playersToDTO(players []player.Player) []playerDTO {
	items := make([]playerDTO, 0, len(players))
	for idx, p := range players {
		items = append(items, playerDTO{
			Index:    idx,
			Name:     p.Name,
			Position: string(p.Position),
		})
	}
	return items
}

func balanceToDTO(b allocation.Balance) balanceDTO {
	return balanceDTO{
		GK:      b.GK,
		DEF:     b.DEF,
		MID:     b.MID,
		ST:      b.ST,
		Total:   b.Total,
		Summary: b.String(),
	}
}

func assignmentToDTO(item session.Session) assignmentDTO {
	teams := make([]teamDTO, 0, len(item.Assignment.Teams))
	for _, t := range item.Assignment.Teams {
		members := make([]teamPlayerDTO, 0, len(t.Players))
		for _, p := range t.Players {
			members = append(members, teamPlayerDTO{Name: p.Name, Position: string(p.Position)})
		}
		teams = append(teams, teamDTO{
			Number:  t.Number,
			Players: members,
			Balance: balanceToDTO(t.Balance()),
		})
	}

	return assignmentDTO{
		SessionID: item.ID,
		TeamCount: item.TeamCount,
		Strategy:  string(item.Strategy),
		Revision:  item.Revision,
		Teams:     teams,
	}
}

func sessionToDTO(item session.Session) sessionDTO {
	players := item.Roster.Players()
	out := sessionDTO{
		ID:          item.ID,
		PlayerCount: len(players),
		Players:     playersToDTO(players),
		Revision:    item.Revision,
		CreatedAt:   formatTime(item.CreatedAt),
		UpdatedAt:   formatTime(item.UpdatedAt),
	}
	if item.HasAssignment {
		teams := assignmentToDTO(item)
		out.Teams = &teams
	}
	return out
}

func formatTime(v time.Time) string {
	if v.IsZero() {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}

func parsePlayerIndex(raw string) (int, error) {
	index, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || index < 0 {
		return 0, fmt.Errorf("%w: player index must be a non-negative integer", usecase.ErrInvalidInput)
	}
	return index, nil
}

var strictJSON = sonic.Config{DisallowUnknownFields: true}.Froze()

// decodeJSONBody strictly decodes the request body into dst. A body over the
// configured limit is returned as *http.MaxBytesError.
func decodeJSONBody(r *http.Request, dst any) error {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return fmt.Errorf("%w: read body: %v", usecase.ErrInvalidInput, err)
	}
	if err := strictJSON.Unmarshal(payload, dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}
