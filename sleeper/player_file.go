package sleeper

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/craigatron/football-bot/model"
	"github.com/craigatron/football-bot/upstream"
	"github.com/itbasis/go-clock"
	"github.com/rs/zerolog"
)

const (
	DefaultPlayersPath = "data/sleeper_players.json"

	// Sleeper asks that the players endpoint is called at most once a day.
	PlayersMaxAge = 24 * time.Hour
)

// PlayerFile is the on-disk copy of the sleeper player directory. It is shared
// by every sleeper league in the process and its modification time is the only
// freshness signal: a file older than MaxAge is refetched, anything newer is
// reused as is. Two processes refreshing at once is possible, last write wins.
type PlayerFile struct {
	path   string
	maxAge time.Duration
	clock  clock.Clock
}

func NewPlayerFile(path string, clock clock.Clock) *PlayerFile {
	if path == "" {
		path = DefaultPlayersPath
	}
	return &PlayerFile{path: path, maxAge: PlayersMaxAge, clock: clock}
}

// IsStale reports whether the file must be refetched: it is missing, its age
// can't be determined, or it is older than the max age.
func (f *PlayerFile) IsStale() bool {
	info, err := os.Stat(f.path)
	if err != nil {
		return true
	}
	mt := info.ModTime()
	if mt.IsZero() {
		return true
	}
	return f.clock.Now().Sub(mt) > f.maxAge
}

// Write replaces the file contents with data, creating parent directories as
// needed. The data goes to a temp file in the same folder first and is renamed
// into place, so readers never see a partial file.
func (f *PlayerFile) Write(data []byte) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("error creating player directory folder: %w", err)
	}

	out, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("error creating player file: %w", err)
	}
	defer os.Remove(out.Name())

	if _, err := out.Write(data); err != nil {
		out.Close()
		return fmt.Errorf("error writing player file: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("error writing player file: %w", err)
	}
	if err := os.Rename(out.Name(), f.path); err != nil {
		return fmt.Errorf("error replacing player file: %w", err)
	}
	return nil
}

// Load parses the file into a map keyed by player id.
func (f *PlayerFile) Load() (map[string]model.NFLPlayer, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("error reading player file: %w", err)
	}

	var parsed map[string]sleeperPlayer
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("error parsing player file %s: %w", f.path, err)
	}

	players := make(map[string]model.NFLPlayer, len(parsed))
	for id, p := range parsed {
		players[id] = p.toPlayer(id)
	}
	return players, nil
}

// Sync refetches the file when it is stale and then always loads it from disk,
// so the returned map is populated whether or not a download happened. The
// bool result reports whether the network was used. A download that doesn't
// parse leaves the file untouched, so the next Sync tries again.
func (f *PlayerFile) Sync(ctx context.Context, c Client, logger zerolog.Logger) (map[string]model.NFLPlayer, bool, error) {
	fetched := false
	if f.IsStale() {
		logger.Debug().Str("path", f.path).Msg("reloading players file from sleeper")
		data, err := c.DownloadPlayers(ctx)
		if err != nil {
			return nil, false, fmt.Errorf("error downloading player directory: %w", err)
		}
		var parsed map[string]sleeperPlayer
		if err := json.Unmarshal(data, &parsed); err != nil {
			return nil, false, fmt.Errorf("%w: error parsing downloaded player directory: %v", upstream.ErrSchema, err)
		}
		if err := f.Write(data); err != nil {
			return nil, false, err
		}
		fetched = true
	}

	players, err := f.Load()
	if err != nil {
		return nil, fetched, err
	}
	logger.Debug().Int("players", len(players)).Bool("fetched", fetched).Msg("loaded sleeper players")
	return players, fetched, nil
}
