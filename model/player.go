package model

import (
	"fmt"
	"strings"
)

// NFLPlayer is an entry from the sleeper player directory.
type NFLPlayer struct {
	ID              string   `json:"player_id"`
	FirstName       string   `json:"first_name"`
	LastName        string   `json:"last_name"`
	Position        Position `json:"position"`
	Team            string   `json:"team,omitempty"`
	Status          string   `json:"status,omitempty"`
	InjuryStatus    string   `json:"injury_status,omitempty"`
	InjuryStartDate string   `json:"injury_start_date,omitempty"`
}

func (p *NFLPlayer) FullName() string {
	return strings.TrimSpace(fmt.Sprintf("%s %s", p.FirstName, p.LastName))
}

// FormattedTeam returns the team abbreviation, or FA for free agents.
func (p *NFLPlayer) FormattedTeam() string {
	if p.Team == "" {
		return "FA"
	}
	return p.Team
}

func (p *NFLPlayer) IsInjured() bool {
	return p.InjuryStatus != ""
}
