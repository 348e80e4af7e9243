package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/craigatron/football-bot/commands"
	"github.com/craigatron/football-bot/config"
	"github.com/craigatron/football-bot/discord"
	"github.com/craigatron/football-bot/fantasy"
	"github.com/craigatron/football-bot/logging"
	"github.com/craigatron/football-bot/metrics"
	"github.com/craigatron/football-bot/platforms/espn"
	"github.com/craigatron/football-bot/sleeper"
	"github.com/craigatron/football-bot/upstream"
	"github.com/craigatron/football-bot/web"
	"github.com/itbasis/go-clock"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	bootLogger := logging.New("info", false)

	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		bootLogger.Fatal().Err(err).Msg("error loading .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		bootLogger.Fatal().Err(err).Msg("error loading config")
	}
	logger := logging.New(cfg.LogLevel, cfg.LogPretty)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	clock := clock.New()
	deps := fantasy.Deps{
		Sleeper:    sleeper.NewWithURL(cfg.Sleeper.URL, upstream.WithMetrics(m)),
		ESPN:       espn.New(cfg.ESPN.Season, cfg.ESPN.SWID, cfg.ESPN.S2, upstream.WithMetrics(m)),
		PlayerFile: sleeper.NewPlayerFile(cfg.Sleeper.PlayersPath, clock),
		Logger:     logger,
		Metrics:    m,
	}

	policy := fantasy.FailFast
	if cfg.SkipFailedLeagues {
		policy = fantasy.SkipFailed
	}

	loadCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	registry, err := fantasy.Build(loadCtx, cfg.Leagues, fantasy.DefaultFactory(deps), policy, logger)
	cancel()
	if err != nil {
		logger.Fatal().Err(err).Msg("error loading leagues")
	}
	m.SetLeagues(registry.Len())

	feeds := commands.NewFeeds(cfg.Discord.IllnessURL, cfg.Discord.PowerRankingURLFormat, upstream.WithMetrics(m))
	dispatcher := commands.NewDispatcher(registry, feeds, clock, logger, m)

	bot, err := discord.New(discord.Config{
		Token:           cfg.Discord.BotToken,
		AppID:           cfg.Discord.AppID,
		GuildID:         cfg.Discord.GuildID,
		IgnoreReactions: cfg.Discord.IgnoreReactions,
		CommandTimeout:  cfg.CommandTimeout,
	}, dispatcher, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("error creating discord bot")
	}
	if err := bot.Open(); err != nil {
		logger.Fatal().Err(err).Msg("error connecting to discord")
	}

	shutdown := make(chan bool)
	wg := &sync.WaitGroup{}

	// Setup a handler to catch ctrl-c signals and properly shutdown everything.
	intChannel := make(chan os.Signal, 2)
	signal.Notify(intChannel, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-intChannel
		close(shutdown)

		if err := waitTimeout(wg, 10*time.Second); err != nil {
			logger.Error().Msg("timed out waiting for proper shutdown")
			os.Exit(255)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-shutdown
		if err := bot.Close(); err != nil {
			logger.Error().Err(err).Msg("error closing discord session")
		}
	}()

	if cfg.Status.Addr != "" {
		server, err := web.NewServer(web.Options{
			Addr:          cfg.Status.Addr,
			Registry:      registry,
			Gatherer:      reg,
			AdminUser:     cfg.Status.AdminUser,
			AdminPassword: cfg.Status.AdminPassword,
			Logger:        logger,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("error creating status server")
		}

		wg.Add(1)
		go server.ListenAndServe(shutdown, wg)
	}

	logger.Info().Int("leagues", registry.Len()).Msg("football bot is running")

	// Wait for everything to stop.
	wg.Wait()
	logger.Info().Msg("bot shutdown")
}

func waitTimeout(wg *sync.WaitGroup, timeout time.Duration) error {
	c := make(chan any)
	go func() {
		defer close(c)
		wg.Wait()
	}()

	select {
	case <-c:
		return nil // completed normally
	case <-time.After(timeout):
		return errors.New("timed out waiting")
	}
}
