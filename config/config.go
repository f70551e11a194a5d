// Package config loads the snake's YAML configuration.
//
// Search order: explicit path -> ~/.snek/config.yaml -> ./configs/snek.yaml
// -> embedded default. Values missing from a file keep their defaults.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nickburris/battlesnake/engine"
)

//go:embed default.yaml
var defaultYAML []byte

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Appearance AppearanceConfig `yaml:"appearance"`
	Strategy   StrategyConfig   `yaml:"strategy"`
	Journal    JournalConfig    `yaml:"journal"`
	Results    ResultsConfig    `yaml:"results"`
	Log        LogConfig        `yaml:"log"`
}

type ServerConfig struct {
	Listen            string        `yaml:"listen"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
}

// AppearanceConfig is served on the index endpoint.
type AppearanceConfig struct {
	APIVersion string `yaml:"apiversion"`
	Author     string `yaml:"author"`
	Color      string `yaml:"color"`
	Head       string `yaml:"head"`
	Tail       string `yaml:"tail"`
	Version    string `yaml:"version"`
}

type StrategyConfig struct {
	HealthCritical      int   `yaml:"health_critical"`
	HealthLow           int   `yaml:"health_low"`
	TailFollowMinLength int   `yaml:"tail_follow_min_length"`
	Seed                int64 `yaml:"seed"`
}

// JournalConfig enables the parquet decision journal when Dir is set.
type JournalConfig struct {
	Dir        string `yaml:"dir"`
	FlushGames int    `yaml:"flush_games"`
}

// ResultsConfig enables the sqlite results table when DBPath is set.
type ResultsConfig struct {
	DBPath string `yaml:"db_path"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Engine converts the strategy section into engine thresholds.
func (s StrategyConfig) Engine() engine.Config {
	return engine.Config{
		HealthCritical:      s.HealthCritical,
		HealthLow:           s.HealthLow,
		TailFollowMinLength: s.TailFollowMinLength,
		Seed:                s.Seed,
	}
}

// Default returns the embedded configuration.
func Default() Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		panic(fmt.Sprintf("config: embedded default is invalid: %v", err))
	}
	return cfg
}

// Load reads the first configuration found in the search order and
// validates it. An explicit path that cannot be read is an error.
func Load(customPath string) (Config, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		return parse(data, customPath)
	}

	for _, p := range []string{userConfigPath(), filepath.Join("configs", "snek.yaml")} {
		if p == "" {
			continue
		}
		data, err := os.ReadFile(p)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", p, err)
		}
		return parse(data, p)
	}

	cfg := Default()
	return cfg, cfg.Validate()
}

func parse(data []byte, source string) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", source, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", source, err)
	}
	return cfg, nil
}

// userConfigPath returns ~/.snek/config.yaml, or "" if home is unavailable.
func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".snek", "config.yaml")
}

var validFormats = map[string]bool{"": true, "text": true, "json": true, "logfmt": true, "pretty": true}

// Validate rejects thresholds the engine cannot work with.
func (c Config) Validate() error {
	s := c.Strategy
	switch {
	case s.HealthCritical <= 0:
		return fmt.Errorf("strategy.health_critical must be positive, got %d", s.HealthCritical)
	case s.HealthLow <= 0:
		return fmt.Errorf("strategy.health_low must be positive, got %d", s.HealthLow)
	case s.HealthCritical > s.HealthLow:
		return fmt.Errorf("strategy.health_critical (%d) exceeds health_low (%d)", s.HealthCritical, s.HealthLow)
	case s.TailFollowMinLength < 0:
		return fmt.Errorf("strategy.tail_follow_min_length must not be negative, got %d", s.TailFollowMinLength)
	case c.Server.Listen == "":
		return fmt.Errorf("server.listen is required")
	case !validFormats[c.Log.Format]:
		return fmt.Errorf("log.format must be text, json, logfmt or pretty, got %q", c.Log.Format)
	case c.Journal.FlushGames < 0:
		return fmt.Errorf("journal.flush_games must not be negative, got %d", c.Journal.FlushGames)
	}
	return nil
}
