package mocksleeper

import (
	"context"

	"github.com/craigatron/football-bot/model"
	"github.com/craigatron/football-bot/sleeper"
	"github.com/stretchr/testify/mock"
)

type Client struct {
	mock.Mock
}

func (c *Client) DownloadPlayers(ctx context.Context) ([]byte, error) {
	args := c.Called(ctx)

	var res []byte
	if args.Get(0) != nil {
		res = args.Get(0).([]byte)
	}

	return res, args.Error(1)
}

func (c *Client) GetRosters(ctx context.Context, leagueID string) ([]sleeper.Roster, error) {
	args := c.Called(ctx, leagueID)

	var res []sleeper.Roster
	if args.Get(0) != nil {
		res = args.Get(0).([]sleeper.Roster)
	}

	return res, args.Error(1)
}

func (c *Client) GetUsers(ctx context.Context, leagueID string) ([]sleeper.User, error) {
	args := c.Called(ctx, leagueID)

	var res []sleeper.User
	if args.Get(0) != nil {
		res = args.Get(0).([]sleeper.User)
	}

	return res, args.Error(1)
}

func (c *Client) GetMatchups(ctx context.Context, leagueID string, week int) ([]sleeper.Matchup, error) {
	args := c.Called(ctx, leagueID, week)

	var res []sleeper.Matchup
	if args.Get(0) != nil {
		res = args.Get(0).([]sleeper.Matchup)
	}

	return res, args.Error(1)
}

func (c *Client) GetNFLState(ctx context.Context) (*model.NFLState, error) {
	args := c.Called(ctx)

	var res *model.NFLState
	if args.Get(0) != nil {
		res = args.Get(0).(*model.NFLState)
	}

	return res, args.Error(1)
}
