// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port         int
	APIBaseURL   string
	StorageURL   string
	StorageType  string
	PublicURL    string
	PollInterval time.Duration
	MinBusy      time.Duration
}

// environment holds the environment fallbacks and defaults.
type environment struct {
	Port         int           `env:"PORT" envDefault:"3318"`
	APIBaseURL   string        `env:"API_BASE_URL" envDefault:"http://localhost:8000"`
	StorageURL   string        `env:"STORAGE_URL" envDefault:"file:quickly-vote.db"`
	StorageType  string        `env:"STORAGE_TYPE" envDefault:"sqlite"`
	PublicURL    string        `env:"PUBLIC_URL"`
	PollInterval time.Duration `env:"POLL_INTERVAL" envDefault:"5s"`
	MinBusy      time.Duration `env:"MIN_BUSY" envDefault:"500ms"`
}

// EnvFile is loaded before reading the environment, if it exists.
// Variables already set are not overridden.
var EnvFile = ".env"

// ParseFlags validates flags and fills the rest from the environment
func ParseFlags(args []string) (Config, error) {
	if err := godotenv.Load(EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load %s: %w", EnvFile, err)
	}

	var e environment
	if err := env.Parse(&e); err != nil {
		return Config{}, fmt.Errorf("invalid environment: %w", err)
	}

	var cfg Config

	fs := flag.NewFlagSet("quickly-vote", flag.ContinueOnError)

	// Flags default to the environment, so CLI values take precedence
	fs.IntVar(&cfg.Port, "p", e.Port, "Server port (PORT)")
	fs.StringVar(&cfg.APIBaseURL, "api", e.APIBaseURL, "Poll backend base URL (API_BASE_URL)")
	fs.StringVar(&cfg.StorageURL, "d", e.StorageURL, "Local storage URL (STORAGE_URL)")
	fs.StringVar(&cfg.StorageType, "t", e.StorageType, "Local storage type, sqlite or postgres (STORAGE_TYPE)")
	fs.StringVar(&cfg.PublicURL, "public", e.PublicURL, "Base URL used in share links (PUBLIC_URL)")
	fs.DurationVar(&cfg.PollInterval, "poll-interval", e.PollInterval, "Refetch interval while waiting for results (POLL_INTERVAL)")
	fs.DurationVar(&cfg.MinBusy, "min-busy", e.MinBusy, "Minimum busy indicator duration (MIN_BUSY)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid port %d", cfg.Port)
	}
	if cfg.APIBaseURL == "" {
		return Config{}, errors.New("API base URL required (use -api or API_BASE_URL env)")
	}
	if cfg.StorageURL == "" {
		return Config{}, errors.New("storage URL required (use -d or STORAGE_URL env)")
	}
	if cfg.StorageType != "sqlite" && cfg.StorageType != "postgres" {
		return Config{}, fmt.Errorf("storage type must be sqlite or postgres, got %q", cfg.StorageType)
	}
	if cfg.PollInterval <= 0 {
		return Config{}, errors.New("poll interval must be positive")
	}
	if cfg.MinBusy < 0 {
		return Config{}, errors.New("minimum busy duration must not be negative")
	}
	if cfg.PublicURL == "" {
		cfg.PublicURL = "http://localhost:" + strconv.Itoa(cfg.Port)
	}

	return cfg, nil
}
