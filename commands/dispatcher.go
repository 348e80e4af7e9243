package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/craigatron/football-bot/fantasy"
	"github.com/craigatron/football-bot/metrics"
	"github.com/google/uuid"
	"github.com/itbasis/go-clock"
	"github.com/rs/zerolog"
)

var ErrUnknownCommand = errors.New("unknown command")

// Request is a command as received from the chat transport.
type Request struct {
	Command string
	// League is the short name picked with the league option, if any.
	League string
	// ResolveCategory returns the category of the channel the command was sent
	// from. It is only called when no league was picked.
	ResolveCategory func(ctx context.Context) (string, error)
}

type Dispatcher struct {
	registry *fantasy.Registry
	feeds    *Feeds
	clock    clock.Clock
	logger   zerolog.Logger
	metrics  *metrics.Recorder
}

func NewDispatcher(registry *fantasy.Registry, feeds *Feeds, clock clock.Clock, logger zerolog.Logger, m *metrics.Recorder) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		feeds:    feeds,
		clock:    clock,
		logger:   logger,
		metrics:  m,
	}
}

func (d *Dispatcher) Registry() *fantasy.Registry {
	return d.registry
}

// Dispatch runs a command and returns the reply. A command that needs a league
// and can't find one returns fantasy.ErrLeagueNotFound.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (string, error) {
	start := d.clock.Now()
	logger := d.logger.With().
		Str("invocation_id", uuid.NewString()).
		Str("command", req.Command).
		Str("league", req.League).
		Logger()
	ctx = logger.WithContext(ctx)

	reply, err := d.dispatch(ctx, req)

	outcome := "ok"
	switch {
	case errors.Is(err, fantasy.ErrLeagueNotFound):
		outcome = "no_league"
	case errors.Is(err, ErrUnknownCommand):
		outcome = "unknown"
	case err != nil:
		outcome = "error"
	}
	elapsed := d.clock.Now().Sub(start)
	d.metrics.RecordCommand(req.Command, outcome, elapsed)

	if err != nil {
		logger.Warn().Err(err).Dur("elapsed", elapsed).Msg("command failed")
		return "", err
	}
	logger.Debug().Dur("elapsed", elapsed).Msg("command handled")
	return reply, nil
}

func (d *Dispatcher) dispatch(ctx context.Context, req Request) (string, error) {
	def, found := definition(req.Command)
	if !found {
		return "", fmt.Errorf("%w: %s", ErrUnknownCommand, req.Command)
	}

	var client *fantasy.FantasyClient
	if def.League != LeagueNone {
		var err error
		client, err = d.Resolve(ctx, req)
		if err != nil {
			return "", err
		}
	}

	switch req.Command {
	// Standings and matchups reply the same way for every league for now.
	case CommandMatchups:
		return codeBlock(matchupsReply), nil
	case CommandStandings:
		return codeBlock(standingsReply), nil
	case CommandPowerRankings:
		return d.feeds.PowerRankings(ctx, client)
	case CommandIllness:
		return d.feeds.Illness(ctx)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownCommand, req.Command)
	}
}

// Resolve picks the league for a request: by short name when one was given,
// otherwise by the category of the channel it came from. A failed channel
// lookup is returned as is, not as fantasy.ErrLeagueNotFound.
func (d *Dispatcher) Resolve(ctx context.Context, req Request) (*fantasy.FantasyClient, error) {
	if req.League != "" {
		if c := d.registry.ByShortName(req.League); c != nil {
			return c, nil
		}
		return nil, fmt.Errorf("%w: no league named %s", fantasy.ErrLeagueNotFound, req.League)
	}

	if req.ResolveCategory == nil {
		return nil, fmt.Errorf("%w: no league or channel category", fantasy.ErrLeagueNotFound)
	}
	category, err := req.ResolveCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("error resolving channel category: %w", err)
	}
	if c := d.registry.ByCategoryID(category); c != nil {
		return c, nil
	}
	return nil, fmt.Errorf("%w: no league for category %s", fantasy.ErrLeagueNotFound, category)
}
