package fantasy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/craigatron/football-bot/model"
	"github.com/rs/zerolog"
)

// Registry is the ordered, read-only set of configured leagues.
type Registry struct {
	clients []*FantasyClient
}

// NewRegistry checks that every league has a short name and category id and
// that neither is shared with another league.
func NewRegistry(clients []*FantasyClient) (*Registry, error) {
	configs := make([]model.LeagueConfig, 0, len(clients))
	for _, c := range clients {
		configs = append(configs, c.Config)
	}
	if err := ValidateConfigs(configs); err != nil {
		return nil, err
	}

	return &Registry{clients: append([]*FantasyClient(nil), clients...)}, nil
}

func ValidateConfigs(configs []model.LeagueConfig) error {
	shortNames := make(map[string]bool, len(configs))
	categories := make(map[string]bool, len(configs))

	for _, cfg := range configs {
		if strings.TrimSpace(cfg.ShortName) == "" {
			return fmt.Errorf("league %q has no short name", cfg.Name)
		}
		if strings.TrimSpace(cfg.CategoryID) == "" {
			return fmt.Errorf("league %q has no category id", cfg.Name)
		}
		if shortNames[cfg.ShortName] {
			return fmt.Errorf("short name %s is used by more than one league", cfg.ShortName)
		}
		if categories[cfg.CategoryID] {
			return fmt.Errorf("category %s is used by more than one league", cfg.CategoryID)
		}
		shortNames[cfg.ShortName] = true
		categories[cfg.CategoryID] = true
	}
	return nil
}

func (r *Registry) ByShortName(name string) *FantasyClient {
	for _, c := range r.clients {
		if c.Config.ShortName == name {
			return c
		}
	}
	return nil
}

func (r *Registry) ByCategoryID(id string) *FantasyClient {
	for _, c := range r.clients {
		if c.Config.CategoryID == id {
			return c
		}
	}
	return nil
}

// Clients returns the leagues in configuration order.
func (r *Registry) Clients() []*FantasyClient {
	return append([]*FantasyClient(nil), r.clients...)
}

func (r *Registry) Len() int {
	return len(r.clients)
}

// FailurePolicy decides what Build does when a league can't be loaded.
type FailurePolicy int

const (
	// FailFast aborts with the first error.
	FailFast FailurePolicy = iota
	// SkipFailed logs the error and leaves the league out.
	SkipFailed
)

// ProviderFactory creates the provider for one league.
type ProviderFactory func(ctx context.Context, cfg model.LeagueConfig) (Provider, error)

// DefaultFactory builds providers with NewProvider.
func DefaultFactory(deps Deps) ProviderFactory {
	return func(ctx context.Context, cfg model.LeagueConfig) (Provider, error) {
		return NewProvider(ctx, cfg, deps)
	}
}

// Build creates a client for each config, in order, and returns them as a registry.
func Build(ctx context.Context, configs []model.LeagueConfig, factory ProviderFactory, policy FailurePolicy, logger zerolog.Logger) (*Registry, error) {
	if err := ValidateConfigs(configs); err != nil {
		return nil, err
	}

	clients := make([]*FantasyClient, 0, len(configs))
	var skipped []error

	for _, cfg := range configs {
		p, err := factory(ctx, cfg)
		if err != nil {
			err = fmt.Errorf("error loading league %s (%s): %w", cfg.ShortName, cfg.Platform, err)
			if policy == FailFast {
				return nil, err
			}
			logger.Error().Err(err).Str("league", cfg.ShortName).Msg("skipping league")
			skipped = append(skipped, err)
			continue
		}

		logger.Info().Str("league", cfg.ShortName).Str("platform", string(cfg.Platform)).Msg("loaded league")
		clients = append(clients, &FantasyClient{Config: cfg, Provider: p})
	}

	if len(clients) == 0 && len(skipped) > 0 {
		return nil, fmt.Errorf("no leagues could be loaded: %w", errors.Join(skipped...))
	}

	return NewRegistry(clients)
}
