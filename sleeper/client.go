package sleeper

import (
	"context"
	"fmt"

	"github.com/craigatron/football-bot/model"
	"github.com/craigatron/football-bot/upstream"
	"golang.org/x/time/rate"
)

const SleeperURL = "https://api.sleeper.app"

// Sleeper asks clients to stay under 1000 calls a minute.
const requestsPerSecond = rate.Limit(1000.0 / 60.0)

type Client interface {
	// DownloadPlayers returns the raw player directory, a JSON object keyed by player id.
	DownloadPlayers(ctx context.Context) ([]byte, error)
	GetRosters(ctx context.Context, leagueID string) ([]Roster, error)
	GetUsers(ctx context.Context, leagueID string) ([]User, error)
	GetMatchups(ctx context.Context, leagueID string, week int) ([]Matchup, error)
	GetNFLState(ctx context.Context) (*model.NFLState, error)
}

type client struct {
	url      string
	upstream *upstream.Client
}

func New(opts ...upstream.Option) Client {
	return NewWithURL(SleeperURL, opts...)
}

func NewWithURL(url string, opts ...upstream.Option) Client {
	opts = append([]upstream.Option{upstream.WithRateLimit(requestsPerSecond, 10)}, opts...)
	return &client{
		url:      url,
		upstream: upstream.New("sleeper", opts...),
	}
}

func NewForTest(url string) Client {
	return &client{
		url:      url,
		upstream: upstream.New("sleeper"),
	}
}

func (c *client) DownloadPlayers(ctx context.Context) ([]byte, error) {
	return c.upstream.Get(ctx, fmt.Sprintf("%s/v1/players/nfl", c.url))
}

func (c *client) GetRosters(ctx context.Context, leagueID string) ([]Roster, error) {
	var rosters []Roster
	err := c.upstream.GetJSON(ctx, fmt.Sprintf("%s/v1/league/%s/rosters", c.url, leagueID), &rosters)
	if err != nil {
		return nil, fmt.Errorf("error loading rosters for league %s: %w", leagueID, err)
	}
	return rosters, nil
}

func (c *client) GetUsers(ctx context.Context, leagueID string) ([]User, error) {
	var users []User
	err := c.upstream.GetJSON(ctx, fmt.Sprintf("%s/v1/league/%s/users", c.url, leagueID), &users)
	if err != nil {
		return nil, fmt.Errorf("error loading users for league %s: %w", leagueID, err)
	}
	return users, nil
}

func (c *client) GetMatchups(ctx context.Context, leagueID string, week int) ([]Matchup, error) {
	var matchups []Matchup
	err := c.upstream.GetJSON(ctx, fmt.Sprintf("%s/v1/league/%s/matchups/%d", c.url, leagueID, week), &matchups)
	if err != nil {
		return nil, fmt.Errorf("error loading week %d matchups for league %s: %w", week, leagueID, err)
	}
	return matchups, nil
}

// GetNFLState is always a live request, the result is never cached.
func (c *client) GetNFLState(ctx context.Context) (*model.NFLState, error) {
	var state model.NFLState
	if err := c.upstream.GetJSON(ctx, fmt.Sprintf("%s/v1/state/nfl", c.url), &state); err != nil {
		return nil, fmt.Errorf("error loading nfl state: %w", err)
	}
	return &state, nil
}
