package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/unrolled/render"
)

func getRouter(opts Options, render *render.Render) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(requestLogger(opts.Logger))
	r.Use(middleware.Recoverer)

	// Set a timeout value on the request context (ctx), that will signal
	// through ctx.Done() that the request has timed out and further
	// processing should be stopped.
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/healthz", healthHandler(render))
	r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))

	r.Get("/nfl/state", nflStateHandler(opts.Registry, render))
	r.Get("/players/{playerID}", getPlayerHandler(opts.Registry, render))

	r.Route("/leagues", func(r chi.Router) {
		r.Get("/", listLeaguesHandler(opts.Registry, render))
		r.Get("/{shortName}/teams", teamsHandler(opts.Registry, render))
		r.Get("/{shortName}/matchups", matchupsHandler(opts.Registry, render))
	})

	if opts.AdminUser != "" && opts.AdminPassword != "" {
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.BasicAuth("ffbot", map[string]string{opts.AdminUser: opts.AdminPassword}))
			r.Use(middleware.Timeout(30 * time.Second)) // Set a longer timeout for /admin actions

			r.Post("/leagues/{shortName}/reload", reloadLeagueHandler(opts.Registry, render))
		})
	}

	return r
}

// requestLogger tags every request with an id and logs when it completes.
func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", requestID)

			l := logger.With().Str("request_id", requestID).Logger()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(l.WithContext(r.Context())))

			l.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("request completed")
		})
	}
}
