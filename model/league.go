package model

import (
	"fmt"
	"strings"
)

// Platform identifies which upstream API a league is hosted on. The set of
// platforms is closed; adding one means adding a provider in the fantasy package.
type Platform string

const (
	PlatformESPN    Platform = "espn"
	PlatformSleeper Platform = "sleeper"
)

var supportedPlatforms = []Platform{PlatformESPN, PlatformSleeper}

func ParsePlatform(p string) (Platform, error) {
	p = strings.ToLower(strings.TrimSpace(p))
	for _, s := range supportedPlatforms {
		if string(s) == p {
			return s, nil
		}
	}
	return "", fmt.Errorf("%s is not a supported platform", p)
}

// LeagueConfig is loaded once at startup and never changes afterwards.
type LeagueConfig struct {
	Name       string   `koanf:"name" json:"name"`
	Platform   Platform `koanf:"platform" json:"platform"`
	LeagueID   string   `koanf:"league_id" json:"league_id"`
	CategoryID string   `koanf:"category_id" json:"category_id"`
	ShortName  string   `koanf:"short_name" json:"short_name"`
}

type FantasyTeam struct {
	ID        string `json:"id"`
	TeamName  string `json:"team_name"`
	OwnerName string `json:"owner_name"`
}

// FantasyMatchup is a single head to head game. The scores are nil until the
// matchup has been played.
type FantasyMatchup struct {
	TeamA  FantasyTeam `json:"team_a"`
	TeamB  FantasyTeam `json:"team_b"`
	ScoreA *float64    `json:"score_a,omitempty"`
	ScoreB *float64    `json:"score_b,omitempty"`
	Week   int         `json:"week"`
}

// NFLState is the current point in the NFL calendar as reported by sleeper.
type NFLState struct {
	Week       int    `json:"week"`
	Season     string `json:"season"`
	SeasonType string `json:"season_type"`
}
