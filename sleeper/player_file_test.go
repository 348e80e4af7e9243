package sleeper_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/craigatron/football-bot/sleeper"
	"github.com/craigatron/football-bot/sleeper/mocksleeper"
	"github.com/craigatron/football-bot/testutils"
	"github.com/craigatron/football-bot/upstream"
	"github.com/itbasis/go-clock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
)

const seededPlayers = `{"42": {"player_id": "42", "first_name": "Seeded", "last_name": "Player", "position": "TE", "team": "DET", "status": "Active", "injury_status": null, "injury_start_date": null}}`

// seedFile writes content to a players file and sets its modification time.
func seedFile(t *testing.T, content string, mtime time.Time) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "sleeper_players.json")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("error creating test dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("error seeding players file: %v", err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("error setting file times: %v", err)
	}
	return path
}

func TestPlayerFile_IsStale(t *testing.T) {
	modified := time.Date(2024, 9, 10, 12, 0, 0, 0, time.UTC)

	tests := map[string]struct {
		now      time.Time
		missing  bool
		expected bool
	}{
		"fresh":          {now: modified.Add(1 * time.Hour), expected: false},
		"just under 24h": {now: modified.Add(24*time.Hour - time.Second), expected: false},
		"exactly 24h":    {now: modified.Add(24 * time.Hour), expected: false},
		"older than 24h": {now: modified.Add(25 * time.Hour), expected: true},
		"missing":        {now: modified, missing: true, expected: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			path := seedFile(t, seededPlayers, modified)
			if tc.missing {
				path = filepath.Join(filepath.Dir(path), "nope.json")
			}
			c := clock.NewMock()
			c.Set(tc.now)

			f := sleeper.NewPlayerFile(path, c)
			if f.IsStale() != tc.expected {
				t.Errorf("expected IsStale() to be %v", tc.expected)
			}
		})
	}
}

func TestPlayerFile_Sync_freshFileIsReused(t *testing.T) {
	modified := time.Date(2024, 9, 10, 12, 0, 0, 0, time.UTC)
	path := seedFile(t, seededPlayers, modified)

	c := clock.NewMock()
	c.Set(modified.Add(23 * time.Hour))

	sleeperMock := &mocksleeper.Client{}
	f := sleeper.NewPlayerFile(path, c)

	players, fetched, err := f.Sync(context.Background(), sleeperMock, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetched {
		t.Errorf("a fresh file should not be refetched")
	}
	sleeperMock.AssertNotCalled(t, "DownloadPlayers", mock.Anything)

	if len(players) != 1 {
		t.Fatalf("expected the seeded player to be loaded, got %d players", len(players))
	}
	p := players["42"]
	if p.FullName() != "Seeded Player" || p.Team != "DET" {
		t.Errorf("seeded player not loaded verbatim: %+v", p)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("error reading players file: %v", err)
	}
	if string(b) != seededPlayers {
		t.Errorf("players file should be unchanged")
	}
}

func TestPlayerFile_Sync_staleFileIsRefetched(t *testing.T) {
	fakeSleeper := testutils.NewFakeSleeperServer()
	defer fakeSleeper.Close()

	modified := time.Date(2024, 9, 10, 12, 0, 0, 0, time.UTC)
	path := seedFile(t, seededPlayers, modified)

	c := clock.NewMock()
	c.Set(modified.Add(48 * time.Hour))

	f := sleeper.NewPlayerFile(path, c)
	players, fetched, err := f.Sync(context.Background(), sleeper.NewForTest(fakeSleeper.URL()), zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fetched {
		t.Errorf("a stale file should be refetched")
	}
	if fakeSleeper.PlayersRequests() != 1 {
		t.Errorf("expected one players download, got %d", fakeSleeper.PlayersRequests())
	}
	if len(players) != 6 {
		t.Errorf("expected the downloaded players to be loaded, got %d", len(players))
	}
	if _, found := players["42"]; found {
		t.Errorf("seeded player should have been replaced")
	}

	cmc := players["4034"]
	if cmc.InjuryStatus != "Out" || cmc.InjuryStartDate != "2024-08-20" || cmc.Team != "SF" {
		t.Errorf("unexpected player record: %+v", cmc)
	}
	if players["1166"].Team != "" {
		t.Errorf("null team should be empty, got %s", players["1166"].Team)
	}
}

func TestPlayerFile_Sync_missingFileCreatesDirectories(t *testing.T) {
	fakeSleeper := testutils.NewFakeSleeperServer()
	defer fakeSleeper.Close()

	path := filepath.Join(t.TempDir(), "nested", "dir", "players.json")
	f := sleeper.NewPlayerFile(path, clock.New())

	players, fetched, err := f.Sync(context.Background(), sleeper.NewForTest(fakeSleeper.URL()), zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fetched || len(players) != 6 {
		t.Errorf("expected a fetch of 6 players, fetched=%v players=%d", fetched, len(players))
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("players file should exist: %v", err)
	}
}

func TestPlayerFile_Sync_downloadError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "players.json")

	sleeperMock := &mocksleeper.Client{}
	sleeperMock.On("DownloadPlayers", mock.Anything).Return(nil, errors.New("sleeper is down"))

	f := sleeper.NewPlayerFile(path, clock.New())
	players, _, err := f.Sync(context.Background(), sleeperMock, zerolog.Nop())
	if err == nil {
		t.Fatalf("expected an error")
	}
	if players != nil {
		t.Errorf("players should be nil on error")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("no file should be written when the download fails")
	}
	sleeperMock.AssertExpectations(t)
}

func TestPlayerFile_Sync_malformedDownload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "players.json")

	sleeperMock := &mocksleeper.Client{}
	sleeperMock.On("DownloadPlayers", mock.Anything).Return([]byte(`{"1": {`), nil).Once()
	sleeperMock.On("DownloadPlayers", mock.Anything).Return([]byte(seededPlayers), nil).Once()

	c := clock.NewMock()
	c.Set(time.Now())
	f := sleeper.NewPlayerFile(path, c)

	_, _, err := f.Sync(context.Background(), sleeperMock, zerolog.Nop())
	if !errors.Is(err, upstream.ErrSchema) {
		t.Fatalf("expected a schema error, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("a malformed download should not be written")
	}

	c.Add(time.Hour)
	players, fetched, err := f.Sync(context.Background(), sleeperMock, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fetched || len(players) != 1 {
		t.Errorf("expected a second download of 1 player, fetched=%v players=%d", fetched, len(players))
	}
	sleeperMock.AssertExpectations(t)
}

func TestPlayerFile_Sync_malformedDownloadKeepsOldFile(t *testing.T) {
	modified := time.Date(2024, 9, 10, 12, 0, 0, 0, time.UTC)
	path := seedFile(t, seededPlayers, modified)

	c := clock.NewMock()
	c.Set(modified.Add(48 * time.Hour))

	sleeperMock := &mocksleeper.Client{}
	sleeperMock.On("DownloadPlayers", mock.Anything).Return([]byte("<html>"), nil)

	f := sleeper.NewPlayerFile(path, c)
	if _, _, err := f.Sync(context.Background(), sleeperMock, zerolog.Nop()); err == nil {
		t.Fatalf("expected an error")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("error reading players file: %v", err)
	}
	if string(b) != seededPlayers {
		t.Errorf("players file should be unchanged")
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("expected no temp files left behind, got %d entries", len(entries))
	}
}

func TestPlayerFile_Load_corrupt(t *testing.T) {
	path := seedFile(t, `{"42": {"first_name": `, time.Now())
	f := sleeper.NewPlayerFile(path, clock.New())

	if _, err := f.Load(); err == nil {
		t.Errorf("expected an error loading a corrupt file")
	}
}
