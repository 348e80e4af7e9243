package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/craigatron/football-bot/fantasy"
	"github.com/craigatron/football-bot/model"
	"github.com/craigatron/football-bot/upstream"
)

// Players whose search rank is missing or at least this value are not listed.
const unrankedSearchRank = 9999999

// Feeds reads the JSON documents that live outside of the fantasy platforms.
type Feeds struct {
	upstream       *upstream.Client
	illnessURL     string
	powerURLFormat string
}

// NewFeeds creates the feed reader. powerURLFormat may contain {league_type}
// and {league_id}, which are replaced per league.
func NewFeeds(illnessURL, powerURLFormat string, opts ...upstream.Option) *Feeds {
	return &Feeds{
		upstream:       upstream.New("feeds", opts...),
		illnessURL:     illnessURL,
		powerURLFormat: powerURLFormat,
	}
}

type illnessRecord struct {
	FullName   string  `json:"full_name"`
	Team       string  `json:"team"`
	StartDate  *string `json:"start_date"`
	SearchRank *int64  `json:"search_rank"`
}

// Illness lists every ranked player on the illness list, sorted by name.
func (f *Feeds) Illness(ctx context.Context) (string, error) {
	if f.illnessURL == "" {
		return "", errors.New("no illness list url configured")
	}

	var records map[string]illnessRecord
	if err := f.upstream.GetJSON(ctx, f.illnessURL, &records); err != nil {
		return "", fmt.Errorf("error loading illness list: %w", err)
	}

	return formatIllness(records), nil
}

func formatIllness(records map[string]illnessRecord) string {
	lines := make([]string, 0, len(records))
	for _, r := range records {
		if r.SearchRank == nil || *r.SearchRank >= unrankedSearchRank {
			continue
		}
		line := fmt.Sprintf("%s, %s", r.FullName, r.Team)
		if r.StartDate != nil && *r.StartDate != "" {
			line += fmt.Sprintf(" (%s)", *r.StartDate)
		}
		lines = append(lines, line)
	}

	if len(lines) == 0 {
		return nobodyReply
	}
	sort.Strings(lines)
	return codeBlock(strings.Join(lines, "\n"))
}

type powerRankings struct {
	Power   []powerEntry `json:"power"`
	Updated string       `json:"updated"`
}

type powerEntry struct {
	Team  string     `json:"team"`
	Power powerScore `json:"power"`
}

// powerScore is published either as a string or as a number.
type powerScore string

func (s *powerScore) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = powerScore(str)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("power score must be a string or number, got %s", b)
	}
	*s = powerScore(n.String())
	return nil
}

// PowerRankings returns the published power rankings for the client's league.
func (f *Feeds) PowerRankings(ctx context.Context, client *fantasy.FantasyClient) (string, error) {
	switch client.Config.Platform {
	case model.PlatformSleeper:
		return powerNotImplemented, nil
	case model.PlatformESPN:
	default:
		return "", fmt.Errorf("%s is not a supported platform", client.Config.Platform)
	}

	if f.powerURLFormat == "" {
		return "", errors.New("no power rankings url configured")
	}

	var rankings powerRankings
	if err := f.upstream.GetJSON(ctx, f.PowerRankingsURL(client.Config), &rankings); err != nil {
		return "", fmt.Errorf("error loading power rankings for %s: %w", client.Config.ShortName, err)
	}

	return formatPowerRankings(&rankings), nil
}

func (f *Feeds) PowerRankingsURL(cfg model.LeagueConfig) string {
	return strings.NewReplacer(
		"{league_type}", string(cfg.Platform),
		"{league_id}", cfg.LeagueID,
	).Replace(f.powerURLFormat)
}

func formatPowerRankings(r *powerRankings) string {
	lines := make([]string, 0, len(r.Power)+1)
	for _, p := range r.Power {
		lines = append(lines, fmt.Sprintf("%s (%s)", p.Team, p.Power))
	}
	lines = append(lines, fmt.Sprintf("updated %s", r.Updated))
	return codeBlock(strings.Join(lines, "\n"))
}
