package testutils

import (
	"embed"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"
)

const (
	ESPNLeagueID = "336358"
	ESPNSeason   = 2024
	ESPNSWID     = "{SWID-COOKIE}"
	ESPNS2       = "espn-s2-cookie"
)

//go:embed espndata
var espndata embed.FS

type FakeESPNServer struct {
	s *httptest.Server
}

func NewFakeESPNServer() *FakeESPNServer {
	r := chi.NewRouter()
	r.Get("/apis/v3/games/ffl/seasons/{season}/segments/0/leagues/{leagueID}", espnLeagueHandler)

	return &FakeESPNServer{
		s: httptest.NewServer(r),
	}
}

func (f *FakeESPNServer) Close() {
	f.s.Close()
}

func (f *FakeESPNServer) URL() string {
	return f.s.URL
}

func espnLeagueHandler(w http.ResponseWriter, r *http.Request) {
	swid, err := r.Cookie("SWID")
	if err != nil || swid.Value != ESPNSWID {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"messages":["You are not authorized to view this League."]}`))
		return
	}
	s2, err := r.Cookie("espn_s2")
	if err != nil || s2.Value != ESPNS2 {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	if chi.URLParam(r, "leagueID") != ESPNLeagueID || chi.URLParam(r, "season") != fmt.Sprint(ESPNSeason) {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	if r.URL.Query().Get("view") != "mTeam" {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("{}"))
		return
	}

	b, err := espndata.ReadFile("espndata/league_mteam.json")
	if err != nil {
		log.Printf("error reading espndata: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
