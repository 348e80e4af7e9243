package fantasy

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/craigatron/football-bot/metrics"
	"github.com/craigatron/football-bot/model"
	"github.com/craigatron/football-bot/sleeper"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// SleeperProvider serves a sleeper league from an in memory copy of its
// rosters and users. The copy is only replaced by Reload.
type SleeperProvider struct {
	leagueID string
	client   sleeper.Client
	logger   zerolog.Logger

	mu      sync.RWMutex
	players map[string]model.NFLPlayer
	league  *leagueSnapshot
}

// leagueSnapshot is never modified after it is built. rosters and users have
// the same keys.
type leagueSnapshot struct {
	rosters map[string]int // owner id -> roster id
	users   map[string]sleeper.User
	owners  map[int]string // roster id -> owner id
}

func NewSleeperProvider(ctx context.Context, leagueID string, client sleeper.Client, file *sleeper.PlayerFile, logger zerolog.Logger, m *metrics.Recorder) (*SleeperProvider, error) {
	p := &SleeperProvider{
		leagueID: leagueID,
		client:   client,
		logger:   logger.With().Str("platform", "sleeper").Str("league_id", leagueID).Logger(),
	}

	players, fetched, err := file.Sync(ctx, client, p.logger)
	if err != nil {
		return nil, fmt.Errorf("error loading sleeper players: %w", err)
	}
	if fetched {
		m.RecordPlayerLoad("network")
	} else {
		m.RecordPlayerLoad("disk")
	}

	league, err := p.loadLeague(ctx)
	if err != nil {
		return nil, err
	}

	p.players = players
	p.league = league
	return p, nil
}

// Reload refetches the rosters and users and returns the number of teams now
// loaded. On error the current data is kept.
func (p *SleeperProvider) Reload(ctx context.Context) (int, error) {
	league, err := p.loadLeague(ctx)
	if err != nil {
		return 0, err
	}

	p.mu.Lock()
	p.league = league
	p.mu.Unlock()

	p.logger.Info().Int("teams", len(league.users)).Msg("reloaded sleeper league")
	return len(league.users), nil
}

func (p *SleeperProvider) loadLeague(ctx context.Context) (*leagueSnapshot, error) {
	var (
		rosters []sleeper.Roster
		users   []sleeper.User
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rosters, err = p.client.GetRosters(gctx, p.leagueID)
		return err
	})
	g.Go(func() error {
		var err error
		users, err = p.client.GetUsers(gctx, p.leagueID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("error loading sleeper league %s: %w", p.leagueID, err)
	}

	if rosters == nil && users == nil {
		return nil, fmt.Errorf("error loading sleeper league %s: %w", p.leagueID, ErrUnknownLeague)
	}

	return joinRosters(rosters, users)
}

// joinRosters keys rosters and users by owner id. Every user must own a
// roster; rosters without an owner are ignored.
func joinRosters(rosters []sleeper.Roster, users []sleeper.User) (*leagueSnapshot, error) {
	byOwner := make(map[string]int, len(rosters))
	for _, r := range rosters {
		if r.OwnerID == "" {
			continue
		}
		byOwner[r.OwnerID] = r.RosterID
	}

	s := &leagueSnapshot{
		rosters: make(map[string]int, len(users)),
		users:   make(map[string]sleeper.User, len(users)),
		owners:  make(map[int]string, len(users)),
	}
	for _, u := range users {
		rosterID, found := byOwner[u.UserID]
		if !found {
			return nil, fmt.Errorf("%w: user %s (%s)", ErrRosterMismatch, u.UserID, u.DisplayName)
		}
		s.rosters[u.UserID] = rosterID
		s.users[u.UserID] = u
		s.owners[rosterID] = u.UserID
	}
	return s, nil
}

func (p *SleeperProvider) snapshot() *leagueSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.league
}

// GetTeams returns one team per league member ordered by roster id.
func (p *SleeperProvider) GetTeams(ctx context.Context) ([]model.FantasyTeam, error) {
	s := p.snapshot()

	ids := make([]string, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return s.rosters[ids[i]] < s.rosters[ids[j]]
	})

	teams := make([]model.FantasyTeam, 0, len(ids))
	for _, id := range ids {
		teams = append(teams, s.team(id))
	}
	return teams, nil
}

func (s *leagueSnapshot) team(ownerID string) model.FantasyTeam {
	u := s.users[ownerID]
	return model.FantasyTeam{
		ID:        u.UserID,
		TeamName:  u.TeamName(),
		OwnerName: u.DisplayName,
	}
}

func (s *leagueSnapshot) teamForRoster(rosterID int) model.FantasyTeam {
	ownerID, found := s.owners[rosterID]
	if !found {
		return model.FantasyTeam{TeamName: fmt.Sprintf("Roster %d", rosterID)}
	}
	return s.team(ownerID)
}

func (p *SleeperProvider) GetMatchups(ctx context.Context, week *int) ([]model.FantasyMatchup, error) {
	w := 0
	if week != nil {
		w = *week
	} else {
		state, err := p.client.GetNFLState(ctx)
		if err != nil {
			return nil, err
		}
		w = state.Week
	}

	entries, err := p.client.GetMatchups(ctx, p.leagueID, w)
	if err != nil {
		return nil, err
	}

	s := p.snapshot()

	// Two entries with the same matchup id play each other.
	pairs := make(map[int][]sleeper.Matchup)
	var order []int
	for _, e := range entries {
		if e.MatchupID == nil {
			continue
		}
		id := *e.MatchupID
		if _, seen := pairs[id]; !seen {
			order = append(order, id)
		}
		pairs[id] = append(pairs[id], e)
	}
	sort.Ints(order)

	matchups := make([]model.FantasyMatchup, 0, len(order))
	for _, id := range order {
		pair := pairs[id]
		if len(pair) != 2 {
			p.logger.Warn().Int("matchup_id", id).Int("entries", len(pair)).Msg("skipping incomplete matchup")
			continue
		}
		a, b := pair[0], pair[1]
		if a.RosterID > b.RosterID {
			a, b = b, a
		}
		matchups = append(matchups, model.FantasyMatchup{
			TeamA:  s.teamForRoster(a.RosterID),
			TeamB:  s.teamForRoster(b.RosterID),
			ScoreA: a.Points,
			ScoreB: b.Points,
			Week:   w,
		})
	}
	return matchups, nil
}

// GetNFLState always asks sleeper, the state is not cached.
func (p *SleeperProvider) GetNFLState(ctx context.Context) (*model.NFLState, error) {
	return p.client.GetNFLState(ctx)
}

func (p *SleeperProvider) Player(id string) (model.NFLPlayer, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	player, found := p.players[id]
	return player, found
}

// Players is the number of players in the directory.
func (p *SleeperProvider) Players() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.players)
}
