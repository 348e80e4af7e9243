package testutils

import (
	"embed"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
)

const (
	SleeperLeagueID         = "1005178517580746753"
	SleeperMismatchLeagueID = "1234"
)

//go:embed sleeperdata
var sleeperdata embed.FS

type FakeSleeperServer struct {
	s               *httptest.Server
	playersRequests atomic.Int32
}

func NewFakeSleeperServer() *FakeSleeperServer {
	f := &FakeSleeperServer{}

	r := chi.NewRouter()
	r.Route("/v1", func(r chi.Router) {
		r.Get("/players/nfl", f.nflPlayersHandler)
		r.Get("/state/nfl", func(w http.ResponseWriter, r *http.Request) {
			serveFile(w, "state.json")
		})

		r.Route("/league/{leagueID}", func(r chi.Router) {
			r.Get("/rosters", rostersHandler)
			r.Get("/users", usersHandler)
			r.Get("/matchups/{week}", matchupsHandler)
		})
	})

	f.s = httptest.NewServer(r)
	return f
}

func (f *FakeSleeperServer) Close() {
	f.s.Close()
}

func (f *FakeSleeperServer) URL() string {
	return f.s.URL
}

// PlayersRequests is the number of times the player directory was downloaded.
func (f *FakeSleeperServer) PlayersRequests() int {
	return int(f.playersRequests.Load())
}

func (f *FakeSleeperServer) nflPlayersHandler(w http.ResponseWriter, r *http.Request) {
	f.playersRequests.Add(1)
	serveFile(w, "players.json")
}

func rostersHandler(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "leagueID") {
	case SleeperLeagueID:
		serveFile(w, "rosters.json")
	case SleeperMismatchLeagueID:
		serveFile(w, "mismatch_rosters.json")
	default:
		// sleeper answers unknown leagues with a 200 and "null"
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("null"))
	}
}

func usersHandler(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "leagueID") {
	case SleeperLeagueID:
		serveFile(w, "users.json")
	case SleeperMismatchLeagueID:
		serveFile(w, "mismatch_users.json")
	default:
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("null"))
	}
}

func matchupsHandler(w http.ResponseWriter, r *http.Request) {
	leagueID := chi.URLParam(r, "leagueID")
	week := chi.URLParam(r, "week")

	if leagueID == SleeperLeagueID && week == "3" {
		serveFile(w, "matchups_3.json")
	} else {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("[]"))
	}
}

func serveFile(w http.ResponseWriter, name string) {
	b, err := sleeperdata.ReadFile(fmt.Sprintf("sleeperdata/%s", name))
	if err != nil {
		log.Printf("error reading sleeperdata/%s: %v", name, err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
