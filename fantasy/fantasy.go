package fantasy

import (
	"context"
	"errors"
	"fmt"

	"github.com/craigatron/football-bot/metrics"
	"github.com/craigatron/football-bot/model"
	"github.com/craigatron/football-bot/platforms/espn"
	"github.com/craigatron/football-bot/sleeper"
	"github.com/rs/zerolog"
)

var (
	// ErrRosterMismatch means a league member has no roster. The league can't be loaded.
	ErrRosterMismatch = errors.New("league member has no roster")
	// ErrLeagueNotFound means no configured league matched a command.
	ErrLeagueNotFound = errors.New("no matching league")
	// ErrUnknownLeague means the provider has no league with the configured id.
	ErrUnknownLeague = errors.New("league does not exist")
	// ErrNotSupported is returned for operations a platform doesn't offer.
	ErrNotSupported = errors.New("not supported")
)

// Provider is the read-only view of a single league on one platform.
// Implementations are safe for concurrent use.
type Provider interface {
	GetTeams(ctx context.Context) ([]model.FantasyTeam, error)
	// GetMatchups returns the matchups for week, or the current week when week is nil.
	GetMatchups(ctx context.Context, week *int) ([]model.FantasyMatchup, error)
}

// FantasyClient pairs a league's configuration with the provider serving it.
type FantasyClient struct {
	Config   model.LeagueConfig
	Provider Provider
}

// Sleeper returns the sleeper provider, or nil when the league is hosted elsewhere.
func (c *FantasyClient) Sleeper() *SleeperProvider {
	p, _ := c.Provider.(*SleeperProvider)
	return p
}

// Deps are the shared upstream clients providers are built from.
type Deps struct {
	Sleeper    sleeper.Client
	ESPN       *espn.Client
	PlayerFile *sleeper.PlayerFile
	Logger     zerolog.Logger
	Metrics    *metrics.Recorder
}

// NewProvider builds the provider matching cfg.Platform.
func NewProvider(ctx context.Context, cfg model.LeagueConfig, deps Deps) (Provider, error) {
	switch cfg.Platform {
	case model.PlatformSleeper:
		if deps.Sleeper == nil || deps.PlayerFile == nil {
			return nil, errors.New("sleeper client and player file are required for sleeper leagues")
		}
		return NewSleeperProvider(ctx, cfg.LeagueID, deps.Sleeper, deps.PlayerFile, deps.Logger, deps.Metrics)
	case model.PlatformESPN:
		if deps.ESPN == nil {
			return nil, errors.New("espn client is required for espn leagues")
		}
		return NewESPNProvider(cfg.LeagueID, deps.ESPN), nil
	default:
		return nil, fmt.Errorf("%s is not a supported platform", cfg.Platform)
	}
}
