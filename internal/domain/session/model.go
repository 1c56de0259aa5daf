package session

import (
	"fmt"
	"time"

	"github.com/riskibarqy/team-randomiser/internal/domain/allocation"
	"github.com/riskibarqy/team-randomiser/internal/domain/roster"
)

// Session holds one user's roster and latest team assignment.
type Session struct {
	ID            string
	Roster        roster.Roster
	Assignment    allocation.Assignment
	HasAssignment bool
	TeamCount     int
	Strategy      allocation.Strategy
	Revision      int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (s Session) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("session id is required")
	}
	if s.HasAssignment && s.Assignment.TeamCount() != s.TeamCount {
		return fmt.Errorf("session assignment has %d teams, expected %d", s.Assignment.TeamCount(), s.TeamCount)
	}

	return nil
}

// Touch records a mutation made at now.
func (s *Session) Touch(now time.Time) {
	s.Revision++
	s.UpdatedAt = now
}

// ClearAssignment drops the current teams.
func (s *Session) ClearAssignment() {
	s.Assignment = allocation.Assignment{}
	s.HasAssignment = false
	s.TeamCount = 0
	s.Strategy = ""
}

func (s Session) Clone() Session {
	copied := s
	copied.Roster = s.Roster.Clone()
	copied.Assignment = s.Assignment.Clone()
	return copied
}
