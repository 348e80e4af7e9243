package fantasy

import (
	"context"

	"github.com/craigatron/football-bot/model"
	"github.com/craigatron/football-bot/platforms/espn"
)

type ESPNProvider struct {
	leagueID string
	client   *espn.Client
}

func NewESPNProvider(leagueID string, client *espn.Client) *ESPNProvider {
	return &ESPNProvider{leagueID: leagueID, client: client}
}

func (p *ESPNProvider) GetTeams(ctx context.Context) ([]model.FantasyTeam, error) {
	return p.client.GetTeams(ctx, p.leagueID)
}

// GetMatchups isn't implemented for ESPN yet and always returns no matchups.
func (p *ESPNProvider) GetMatchups(ctx context.Context, week *int) ([]model.FantasyMatchup, error) {
	return []model.FantasyMatchup{}, nil
}
