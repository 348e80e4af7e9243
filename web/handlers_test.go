package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/craigatron/football-bot/fantasy"
	"github.com/craigatron/football-bot/metrics"
	"github.com/craigatron/football-bot/model"
	"github.com/craigatron/football-bot/platforms/espn"
	"github.com/craigatron/football-bot/sleeper"
	"github.com/craigatron/football-bot/testutils"
	"github.com/itbasis/go-clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	fakeSleeper *testutils.FakeSleeperServer
	fakeESPN    *testutils.FakeESPNServer
	handler     http.Handler
}

func (s *testServer) Close() {
	s.fakeSleeper.Close()
	s.fakeESPN.Close()
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	fakeSleeper := testutils.NewFakeSleeperServer()
	fakeESPN := testutils.NewFakeESPNServer()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	deps := fantasy.Deps{
		Sleeper:    sleeper.NewForTest(fakeSleeper.URL()),
		ESPN:       espn.NewForTest(fakeESPN.URL(), testutils.ESPNSeason, testutils.ESPNSWID, testutils.ESPNS2),
		PlayerFile: sleeper.NewPlayerFile(filepath.Join(t.TempDir(), "players.json"), clock.NewMock()),
		Logger:     zerolog.Nop(),
		Metrics:    m,
	}
	configs := []model.LeagueConfig{
		{Name: "Craig's League", Platform: model.PlatformESPN, LeagueID: testutils.ESPNLeagueID, CategoryID: "900", ShortName: "craig"},
		{Name: "Dynasty", Platform: model.PlatformSleeper, LeagueID: testutils.SleeperLeagueID, CategoryID: "901", ShortName: "dyn"},
	}
	registry, err := fantasy.Build(context.Background(), configs, fantasy.DefaultFactory(deps), fantasy.FailFast, zerolog.Nop())
	require.NoError(t, err)
	m.SetLeagues(registry.Len())

	opts := Options{
		Registry:      registry,
		Gatherer:      reg,
		AdminUser:     "admin",
		AdminPassword: "pa55word",
		Logger:        zerolog.Nop(),
	}
	return &testServer{
		fakeSleeper: fakeSleeper,
		fakeESPN:    fakeESPN,
		handler:     getRouter(opts, newRender()),
	}
}

func (s *testServer) do(method, path string, auth bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if auth {
		req.SetBasicAuth("admin", "pa55word")
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func TestRoutes(t *testing.T) {
	s := newTestServer(t)
	defer s.Close()

	tests := map[string]struct {
		method   string
		path     string
		auth     bool
		status   int
		contains []string
	}{
		"health":              {method: http.MethodGet, path: "/healthz", status: http.StatusOK, contains: []string{"ok"}},
		"metrics":             {method: http.MethodGet, path: "/metrics", status: http.StatusOK, contains: []string{"ffbot_configured_leagues 2", `ffbot_sleeper_player_directory_loads_total{source="network"} 1`}},
		"leagues":             {method: http.MethodGet, path: "/leagues", status: http.StatusOK, contains: []string{`"short_name": "craig"`, `"short_name": "dyn"`}},
		"espn teams":          {method: http.MethodGet, path: "/leagues/craig/teams", status: http.StatusOK, contains: []string{"Tess Takes It", "touchdowntess"}},
		"sleeper teams":       {method: http.MethodGet, path: "/leagues/dyn/teams", status: http.StatusOK, contains: []string{"Fourth and Forever"}},
		"unknown league":      {method: http.MethodGet, path: "/leagues/nope/teams", status: http.StatusNotFound},
		"sleeper matchups":    {method: http.MethodGet, path: "/leagues/dyn/matchups?week=3", status: http.StatusOK, contains: []string{`"score_a": 121.34`, `"week": 3`}},
		"espn matchups":       {method: http.MethodGet, path: "/leagues/craig/matchups", status: http.StatusOK, contains: []string{"[]"}},
		"bad week":            {method: http.MethodGet, path: "/leagues/dyn/matchups?week=zero", status: http.StatusBadRequest},
		"player":              {method: http.MethodGet, path: "/players/4034", status: http.StatusOK, contains: []string{`"full_name": "Christian McCaffrey"`, `"injury_status": "Out"`, `"formatted_team": "SF"`, `"injured": true`}},
		"free agent":          {method: http.MethodGet, path: "/players/1166", status: http.StatusOK, contains: []string{`"formatted_team": "FA"`, `"injured": false`}},
		"unknown player":      {method: http.MethodGet, path: "/players/1", status: http.StatusNotFound},
		"nfl state":           {method: http.MethodGet, path: "/nfl/state", status: http.StatusOK, contains: []string{`"week": 3`}},
		"reload without auth": {method: http.MethodPost, path: "/admin/leagues/dyn/reload", status: http.StatusUnauthorized},
		"reload sleeper":      {method: http.MethodPost, path: "/admin/leagues/dyn/reload", auth: true, status: http.StatusOK, contains: []string{`"teams": 4`}},
		"reload espn":         {method: http.MethodPost, path: "/admin/leagues/craig/reload", auth: true, status: http.StatusBadRequest},
		"reload unknown":      {method: http.MethodPost, path: "/admin/leagues/nope/reload", auth: true, status: http.StatusNotFound},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			w := s.do(tc.method, tc.path, tc.auth)
			if w.Code != tc.status {
				t.Fatalf("expected status %d, got %d: %s", tc.status, w.Code, w.Body.String())
			}
			for _, c := range tc.contains {
				if !strings.Contains(w.Body.String(), c) {
					t.Errorf("expected body to contain %q, got: %s", c, w.Body.String())
				}
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t)
	defer s.Close()

	w := s.do(http.MethodGet, "/healthz", false)
	if w.Header().Get("X-Request-ID") == "" {
		t.Errorf("expected a request id header")
	}
}

func TestNoSleeperLeague(t *testing.T) {
	registry, err := fantasy.NewRegistry(nil)
	require.NoError(t, err)

	h := getRouter(Options{Registry: registry, Gatherer: prometheus.NewRegistry(), Logger: zerolog.Nop()}, newRender())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/players/4034", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without a sleeper league, got %d", w.Code)
	}

	var body errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	if body.Error == "" {
		t.Errorf("expected an error message")
	}

	// admin routes are not mounted without credentials
	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/leagues/dyn/reload", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 without admin credentials, got %d", w.Code)
	}
}
