package espn

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/craigatron/football-bot/model"
	"github.com/craigatron/football-bot/platforms/espn/internal"
	"github.com/craigatron/football-bot/upstream"
)

// Only the current season is supported.
const ESPNURL = "https://fantasy.espn.com"

const leaguePath = "/apis/v3/games/ffl/seasons/%d/segments/0/leagues/%s"

type Client struct {
	url      string
	season   int
	upstream *upstream.Client
}

// New creates a client for private leagues, authenticated with the SWID and
// espn_s2 cookies of a league member.
func New(season int, swid, s2 string, opts ...upstream.Option) *Client {
	return NewWithURL(ESPNURL, season, swid, s2, opts...)
}

func NewWithURL(baseURL string, season int, swid, s2 string, opts ...upstream.Option) *Client {
	opts = append(opts, upstream.WithRequestDecorator(func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: "SWID", Value: swid})
		r.AddCookie(&http.Cookie{Name: "espn_s2", Value: s2})
	}))
	return &Client{
		url:      baseURL,
		season:   season,
		upstream: upstream.New("espn", opts...),
	}
}

func NewForTest(baseURL string, season int, swid, s2 string) *Client {
	return NewWithURL(baseURL, season, swid, s2)
}

// GetTeams returns every team in the league along with the display name of
// its primary owner.
func (c *Client) GetTeams(ctx context.Context, leagueID string) ([]model.FantasyTeam, error) {
	var league internal.League
	if err := c.espnRequest(ctx, leagueID, &league, "mTeam"); err != nil {
		return nil, err
	}

	members := make(map[string]string, len(league.Members))
	for _, m := range league.Members {
		members[m.ID] = m.DisplayName
	}

	teams := make([]model.FantasyTeam, 0, len(league.Teams))
	for _, t := range league.Teams {
		teams = append(teams, model.FantasyTeam{
			ID:        fmt.Sprint(t.ID),
			TeamName:  teamName(&t),
			OwnerName: members[primaryOwner(&t)],
		})
	}
	return teams, nil
}

// Older seasons only have location + nickname, newer ones have a name.
func teamName(t *internal.Team) string {
	if t.Name != "" {
		return t.Name
	}
	return strings.TrimSpace(fmt.Sprintf("%s %s", t.Location, t.Nickname))
}

func primaryOwner(t *internal.Team) string {
	if t.PrimaryOwner != "" {
		return t.PrimaryOwner
	}
	if len(t.Owners) > 0 {
		return t.Owners[0]
	}
	return ""
}

func (c *Client) espnRequest(ctx context.Context, leagueID string, res any, views ...string) error {
	q := url.Values{}
	for _, v := range views {
		q.Add("view", v)
	}
	u := fmt.Sprintf("%s%s?%s", c.url, fmt.Sprintf(leaguePath, c.season, url.PathEscape(leagueID)), q.Encode())

	if err := c.upstream.GetJSON(ctx, u, res); err != nil {
		return fmt.Errorf("error loading espn league %s: %w", leagueID, err)
	}
	return nil
}
