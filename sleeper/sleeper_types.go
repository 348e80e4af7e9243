package sleeper

import (
	"github.com/craigatron/football-bot/model"
)

type Roster struct {
	RosterID int    `json:"roster_id"`
	OwnerID  string `json:"owner_id"`
}

type User struct {
	UserID      string       `json:"user_id"`
	DisplayName string       `json:"display_name"`
	Avatar      *string      `json:"avatar"`
	Metadata    userMetadata `json:"metadata"`
}

type userMetadata struct {
	TeamName *string `json:"team_name"`
}

// TeamName returns the custom team name, falling back to the display name
// for users who never set one.
func (u *User) TeamName() string {
	if u.Metadata.TeamName != nil && *u.Metadata.TeamName != "" {
		return *u.Metadata.TeamName
	}
	return u.DisplayName
}

// Matchup is one roster's entry for a week. Two entries share a MatchupID;
// MatchupID is nil for rosters on bye.
type Matchup struct {
	RosterID  int      `json:"roster_id"`
	MatchupID *int     `json:"matchup_id"`
	Points    *float64 `json:"points"`
}

type sleeperPlayer struct {
	ID              string         `json:"player_id"`
	FirstName       string         `json:"first_name"`
	LastName        string         `json:"last_name"`
	Position        model.Position `json:"position"`
	Team            *string        `json:"team"`
	Status          *string        `json:"status"`
	InjuryStatus    *string        `json:"injury_status"`
	InjuryStartDate *string        `json:"injury_start_date"`
}

func (p *sleeperPlayer) toPlayer(id string) model.NFLPlayer {
	if p.ID == "" {
		p.ID = id
	}
	return model.NFLPlayer{
		ID:              p.ID,
		FirstName:       p.FirstName,
		LastName:        p.LastName,
		Position:        p.Position,
		Team:            deref(p.Team),
		Status:          deref(p.Status),
		InjuryStatus:    deref(p.InjuryStatus),
		InjuryStartDate: deref(p.InjuryStartDate),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
