package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	DefaultPath = "config.yaml"
	envPrefix   = "FFBOT_"
)

// Load builds a Config by layering, low to high precedence:
//  1. defaults (New())
//  2. the YAML file named by FFBOT_CONFIG, or config.yaml
//  3. env vars with the FFBOT_ prefix, "__" separates nested keys
//     (FFBOT_DISCORD__BOT_TOKEN -> discord.bot_token)
func Load() (*Config, error) {
	path := os.Getenv(envPrefix + "CONFIG")
	if path == "" {
		path = DefaultPath
	}
	return load(path, time.Now())
}

func load(path string, now time.Time) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("error loading config file %s: %w", path, err)
	}

	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		if s == "CONFIG" {
			return ""
		}
		return strings.ReplaceAll(strings.ToLower(s), "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("error loading config from env: %w", err)
	}

	cfg := New()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if cfg.ESPN.Season == 0 {
		cfg.ESPN.Season = CurrentSeason(now)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
