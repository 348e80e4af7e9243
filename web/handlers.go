package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/craigatron/football-bot/fantasy"
	"github.com/craigatron/football-bot/model"
	"github.com/craigatron/football-bot/upstream"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/unrolled/render"
)

type errorResponse struct {
	Error string `json:"error"`
}

func renderError(w http.ResponseWriter, r *http.Request, render *render.Render, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, fantasy.ErrLeagueNotFound):
		status = http.StatusNotFound
	case errors.Is(err, fantasy.ErrNotSupported):
		status = http.StatusBadRequest
	case upstream.IsUpstreamFailure(err), errors.Is(err, fantasy.ErrRosterMismatch):
		status = http.StatusBadGateway
	}
	if status >= http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
	}
	render.JSON(w, status, errorResponse{Error: err.Error()})
}

func healthHandler(render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.Text(w, http.StatusOK, "ok")
	}
}

func listLeaguesHandler(registry *fantasy.Registry, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		leagues := make([]model.LeagueConfig, 0, registry.Len())
		for _, c := range registry.Clients() {
			leagues = append(leagues, c.Config)
		}
		render.JSON(w, http.StatusOK, leagues)
	}
}

func leagueFromPath(registry *fantasy.Registry, r *http.Request) (*fantasy.FantasyClient, error) {
	name := chi.URLParam(r, "shortName")
	c := registry.ByShortName(name)
	if c == nil {
		return nil, fmt.Errorf("%w: %s", fantasy.ErrLeagueNotFound, name)
	}
	return c, nil
}

func teamsHandler(registry *fantasy.Registry, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := leagueFromPath(registry, r)
		if err != nil {
			renderError(w, r, render, err)
			return
		}

		teams, err := c.Provider.GetTeams(r.Context())
		if err != nil {
			renderError(w, r, render, err)
			return
		}
		render.JSON(w, http.StatusOK, teams)
	}
}

func matchupsHandler(registry *fantasy.Registry, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := leagueFromPath(registry, r)
		if err != nil {
			renderError(w, r, render, err)
			return
		}

		var week *int
		if ws := r.URL.Query().Get("week"); ws != "" {
			n, err := strconv.Atoi(ws)
			if err != nil || n < 1 {
				render.JSON(w, http.StatusBadRequest, errorResponse{Error: "week must be a positive number"})
				return
			}
			week = &n
		}

		matchups, err := c.Provider.GetMatchups(r.Context(), week)
		if err != nil {
			renderError(w, r, render, err)
			return
		}
		render.JSON(w, http.StatusOK, matchups)
	}
}

// firstSleeper returns the first sleeper league. The player directory and the
// NFL state are the same for every sleeper league.
func firstSleeper(registry *fantasy.Registry) (*fantasy.SleeperProvider, error) {
	for _, c := range registry.Clients() {
		if p := c.Sleeper(); p != nil {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: no sleeper league is configured", fantasy.ErrNotSupported)
}

func getPlayerHandler(registry *fantasy.Registry, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := firstSleeper(registry)
		if err != nil {
			renderError(w, r, render, err)
			return
		}

		player, found := p.Player(chi.URLParam(r, "playerID"))
		if !found {
			render.JSON(w, http.StatusNotFound, errorResponse{Error: "player not found"})
			return
		}
		render.JSON(w, http.StatusOK, playerResponse{
			NFLPlayer:     player,
			FullName:      player.FullName(),
			FormattedTeam: player.FormattedTeam(),
			Injured:       player.IsInjured(),
		})
	}
}

type playerResponse struct {
	model.NFLPlayer
	FullName      string `json:"full_name"`
	FormattedTeam string `json:"formatted_team"`
	Injured       bool   `json:"injured"`
}

func nflStateHandler(registry *fantasy.Registry, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := firstSleeper(registry)
		if err != nil {
			renderError(w, r, render, err)
			return
		}

		state, err := p.GetNFLState(r.Context())
		if err != nil {
			renderError(w, r, render, err)
			return
		}
		render.JSON(w, http.StatusOK, state)
	}
}

func reloadLeagueHandler(registry *fantasy.Registry, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := leagueFromPath(registry, r)
		if err != nil {
			renderError(w, r, render, err)
			return
		}

		p := c.Sleeper()
		if p == nil {
			renderError(w, r, render, fmt.Errorf("%w: only sleeper leagues can be reloaded", fantasy.ErrNotSupported))
			return
		}

		teams, err := p.Reload(r.Context())
		if err != nil {
			renderError(w, r, render, err)
			return
		}
		render.JSON(w, http.StatusOK, map[string]any{
			"league": c.Config.ShortName,
			"teams":  teams,
		})
	}
}
