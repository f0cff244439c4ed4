package main

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds search tuning. Unlike the Policy it never changes which
// assignment is optimal, only how long and how much memory the search may use.
type Config struct {
	// MaxFrontier caps queued states. When full, the worst queued state is
	// dropped and the result is flagged as truncated. Zero means unbounded.
	MaxFrontier int `env:"HOUSING_MAX_FRONTIER"`
	// TimeLimit stops the search with the best partial result. Zero means none.
	TimeLimit time.Duration `env:"HOUSING_TIME_LIMIT"`
	// Verbose prints per-step search progress to stderr.
	Verbose bool `env:"HOUSING_VERBOSE"`
	// ProgressEvery logs a heartbeat every N pops even when the cost is flat.
	ProgressEvery int `env:"HOUSING_PROGRESS_EVERY"`
}

// DefaultConfig returns the tuning used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		MaxFrontier:   2_000_000,
		ProgressEvery: 100_000,
	}
}

// LoadConfig applies HOUSING_* environment overrides on top of DefaultConfig.
func LoadConfig() (Config, error) {
	c := DefaultConfig()
	if err := env.Parse(&c); err != nil {
		return c, fmt.Errorf("parse env: %w", err)
	}
	if c.MaxFrontier < 0 {
		return c, fmt.Errorf("parse env: HOUSING_MAX_FRONTIER must be >= 0, got %d", c.MaxFrontier)
	}
	return c, nil
}
