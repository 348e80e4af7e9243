package testutils

import (
	"embed"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
)

// PowerRankingURLPath is the path format the fake feed server serves power rankings on.
const PowerRankingURLPath = "/power_{league_type}_{league_id}.json"

//go:embed feeddata
var feeddata embed.FS

// FakeFeedServer serves the static JSON documents the bot reads outside of the
// fantasy platforms: the illness list and the power rankings.
type FakeFeedServer struct {
	s        *httptest.Server
	requests atomic.Int32
}

func NewFakeFeedServer() *FakeFeedServer {
	f := &FakeFeedServer{}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			f.requests.Add(1)
			next.ServeHTTP(w, r)
		})
	})
	r.Get("/{file}", func(w http.ResponseWriter, r *http.Request) {
		b, err := feeddata.ReadFile(fmt.Sprintf("feeddata/%s", chi.URLParam(r, "file")))
		if err != nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Add("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(b)
	})
	r.Get("/broken.json", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"power": [{"team": 12}`))
	})

	f.s = httptest.NewServer(r)
	return f
}

func (f *FakeFeedServer) Close() {
	f.s.Close()
}

func (f *FakeFeedServer) URL() string {
	return f.s.URL
}

// Requests is the number of requests the server has received.
func (f *FakeFeedServer) Requests() int {
	return int(f.requests.Load())
}
