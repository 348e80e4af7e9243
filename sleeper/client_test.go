package sleeper

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/craigatron/football-bot/model"
	"github.com/craigatron/football-bot/testutils"
	"github.com/craigatron/football-bot/upstream"
)

func TestDownloadPlayers_success(t *testing.T) {
	fakeSleeper := testutils.NewFakeSleeperServer()
	defer fakeSleeper.Close()

	c := NewForTest(fakeSleeper.URL())

	data, err := c.DownloadPlayers(context.Background())
	if err != nil {
		t.Fatalf("error should have been nil, was: %v", err)
	}

	var parsed map[string]sleeperPlayer
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("downloaded data is not valid json: %v", err)
	}
	if len(parsed) != 6 {
		t.Errorf("wrong number of players, expected 6, got %d", len(parsed))
	}
	if fakeSleeper.PlayersRequests() != 1 {
		t.Errorf("expected exactly one players request, got %d", fakeSleeper.PlayersRequests())
	}
}

func TestDownloadPlayers_httpError(t *testing.T) {
	fakeSleeper := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		rw.WriteHeader(http.StatusNotFound)
	}))
	defer fakeSleeper.Close()

	c := NewForTest(fakeSleeper.URL)

	data, err := c.DownloadPlayers(context.Background())
	if err == nil {
		t.Fatalf("error should not have been nil")
	}
	var se *upstream.StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusNotFound {
		t.Errorf("expected a 404 status error, got %v", err)
	}
	if data != nil {
		t.Fatalf("data should have been nil")
	}
}

func TestGetRostersAndUsers(t *testing.T) {
	fakeSleeper := testutils.NewFakeSleeperServer()
	defer fakeSleeper.Close()

	c := NewForTest(fakeSleeper.URL())
	ctx := context.Background()

	rosters, err := c.GetRosters(ctx, testutils.SleeperLeagueID)
	if err != nil {
		t.Fatalf("error loading rosters: %v", err)
	}
	if len(rosters) != 5 {
		t.Fatalf("expected 5 rosters, got %d", len(rosters))
	}
	if rosters[0].RosterID != 1 || rosters[0].OwnerID != "300638784440004608" {
		t.Errorf("unexpected first roster: %+v", rosters[0])
	}
	if rosters[4].OwnerID != "" {
		t.Errorf("orphaned roster should have no owner, got %s", rosters[4].OwnerID)
	}

	users, err := c.GetUsers(ctx, testutils.SleeperLeagueID)
	if err != nil {
		t.Fatalf("error loading users: %v", err)
	}

	expectedTeams := map[string]string{
		"300638784440004608": "Fourth and Forever",
		"362744067425296384": "Punt Intended",
		"300368913101774848": "benchwarmer",
		"325106323354046464": "waiverwire",
	}
	if len(users) != len(expectedTeams) {
		t.Fatalf("expected %d users, got %d", len(expectedTeams), len(users))
	}
	for _, u := range users {
		if u.TeamName() != expectedTeams[u.UserID] {
			t.Errorf("user %s: expected team name %s, got %s", u.UserID, expectedTeams[u.UserID], u.TeamName())
		}
	}
}

func TestGetMatchups(t *testing.T) {
	fakeSleeper := testutils.NewFakeSleeperServer()
	defer fakeSleeper.Close()

	c := NewForTest(fakeSleeper.URL())

	tests := map[string]struct {
		week     int
		expected int
	}{
		"played week": {week: 3, expected: 5},
		"empty week":  {week: 9, expected: 0},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			m, err := c.GetMatchups(context.Background(), testutils.SleeperLeagueID, tc.week)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(m) != tc.expected {
				t.Errorf("expected %d matchup entries, got %d", tc.expected, len(m))
			}
		})
	}
}

func TestGetNFLState(t *testing.T) {
	fakeSleeper := testutils.NewFakeSleeperServer()
	defer fakeSleeper.Close()

	c := NewForTest(fakeSleeper.URL())

	state, err := c.GetNFLState(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := model.NFLState{Week: 3, Season: "2024", SeasonType: "regular"}
	if *state != expected {
		t.Errorf("expected state %+v, got %+v", expected, *state)
	}
}

func TestGetNFLState_badJSON(t *testing.T) {
	fakeSleeper := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		rw.Write([]byte(`{"week": "three"}`))
	}))
	defer fakeSleeper.Close()

	c := NewForTest(fakeSleeper.URL)

	_, err := c.GetNFLState(context.Background())
	if !errors.Is(err, upstream.ErrSchema) {
		t.Errorf("expected a schema error, got %v", err)
	}
}
