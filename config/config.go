package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/craigatron/football-bot/model"
	"github.com/craigatron/football-bot/sleeper"
)

type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel  string `koanf:"log_level"`
	LogPretty bool   `koanf:"log_pretty"`

	Discord DiscordConfig `koanf:"discord"`
	ESPN    ESPNConfig    `koanf:"espn"`
	Sleeper SleeperConfig `koanf:"sleeper"`
	Status  StatusConfig  `koanf:"status"`

	Leagues []model.LeagueConfig `koanf:"leagues"`

	// SkipFailedLeagues starts the bot without leagues that fail to load
	// instead of exiting.
	SkipFailedLeagues bool          `koanf:"skip_failed_leagues"`
	CommandTimeout    time.Duration `koanf:"command_timeout"`
}

type DiscordConfig struct {
	AppID    string `koanf:"app_id"`
	BotToken string `koanf:"bot_token"`
	// GuildID registers commands for a single server. Empty means global.
	GuildID         string   `koanf:"guild_id"`
	IgnoreReactions []string `koanf:"ignore_reaccs"`
	IllnessURL      string   `koanf:"covid_json_url"`
	// PowerRankingURLFormat may use {league_type} and {league_id}.
	PowerRankingURLFormat string `koanf:"power_ranking_url_format"`
}

type ESPNConfig struct {
	SWID   string `koanf:"swid"`
	S2     string `koanf:"s2"`
	Season int    `koanf:"season"`
}

type SleeperConfig struct {
	URL         string `koanf:"url"`
	PlayersPath string `koanf:"players_path"`
}

type StatusConfig struct {
	// Addr is the listen address of the status server. Empty disables it.
	Addr          string `koanf:"addr"`
	AdminUser     string `koanf:"admin_user"`
	AdminPassword string `koanf:"admin_password"`
}

func New() *Config {
	return &Config{
		LogLevel: "info",
		Sleeper: SleeperConfig{
			URL:         sleeper.SleeperURL,
			PlayersPath: sleeper.DefaultPlayersPath,
		},
		Status: StatusConfig{
			Addr: ":3000",
		},
		CommandTimeout: 20 * time.Second,
	}
}

// CurrentSeason is the NFL season in progress at now. The season is named for
// the year it starts in and runs into February.
func CurrentSeason(now time.Time) int {
	if now.Month() < time.March {
		return now.Year() - 1
	}
	return now.Year()
}

// Validate checks the config and normalizes league platforms.
func (c *Config) Validate() error {
	var errs []error

	if c.Discord.BotToken == "" {
		errs = append(errs, errors.New("discord.bot_token must be set"))
	}
	if c.Discord.AppID == "" {
		errs = append(errs, errors.New("discord.app_id must be set"))
	}
	if c.CommandTimeout <= 0 {
		errs = append(errs, errors.New("command_timeout must be positive"))
	}
	if len(c.Leagues) == 0 {
		errs = append(errs, errors.New("at least one league must be configured"))
	}

	hasESPN := false
	for i := range c.Leagues {
		l := &c.Leagues[i]
		p, err := model.ParsePlatform(string(l.Platform))
		if err != nil {
			errs = append(errs, fmt.Errorf("leagues[%d]: %w", i, err))
			continue
		}
		l.Platform = p
		l.LeagueID = strings.TrimSpace(l.LeagueID)
		if l.LeagueID == "" {
			errs = append(errs, fmt.Errorf("leagues[%d]: league_id must be set", i))
		}
		if p == model.PlatformESPN {
			hasESPN = true
		}
	}

	if hasESPN && (c.ESPN.SWID == "" || c.ESPN.S2 == "") {
		errs = append(errs, errors.New("espn.swid and espn.s2 must be set for espn leagues"))
	}

	if (c.Status.AdminUser == "") != (c.Status.AdminPassword == "") {
		errs = append(errs, errors.New("status.admin_user and status.admin_password must be set together"))
	}

	return errors.Join(errs...)
}
