package web

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/craigatron/football-bot/fantasy"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/unrolled/render"
)

type Options struct {
	Addr     string
	Registry *fantasy.Registry
	Gatherer prometheus.Gatherer
	// Admin routes are only served when both are set.
	AdminUser     string
	AdminPassword string
	Logger        zerolog.Logger
}

type Server struct {
	server *http.Server
	logger zerolog.Logger
}

func NewServer(opts Options) (*Server, error) {
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	router := getRouter(opts, newRender())

	s := &Server{
		server: &http.Server{
			Addr:              opts.Addr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: opts.Logger,
	}
	return s, nil
}

func (s *Server) ListenAndServe(shutdown chan bool, wg *sync.WaitGroup) {
	go func() {
		defer wg.Done()

		// Wait for the shutdown signal and safely close the server.
		<-shutdown

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.server.Shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Msg("error shutting down status server")
		}
	}()

	s.logger.Info().Str("addr", s.server.Addr).Msg("status server is listening")
	err := s.server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		s.logger.Fatal().Err(err).Msg("fatal error with status server")
	}
}

func newRender() *render.Render {
	return render.New(render.Options{
		IndentJSON: true,
	})
}
