// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New() builds a Config with defaults; Load layers file and env on top.
// - External errors must be wrapped via this package's sentinel kinds.
package config

import (
	"github.com/scorepeon/ladder/internal/domain/rating"
)

// Store backend names accepted by the Store field.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Store picks the entity store backend: memory or sqlite.
	Store string `koanf:"store"`

	// SQLitePath is the database file used when Store is sqlite.
	SQLitePath string `koanf:"sqlite_path"`

	// MaxLeaderboardLimit caps GET /games/{id}/leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// Default rating parameters for games created without explicit ones.
	DefaultMu              float64 `koanf:"default_mu"`
	DefaultSigma           float64 `koanf:"default_sigma"`
	DefaultBeta            float64 `koanf:"default_beta"`
	DefaultTau             float64 `koanf:"default_tau"`
	DefaultDrawProbability float64 `koanf:"default_draw_probability"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		Addr:                   ":9080",
		Store:                  StoreMemory,
		SQLitePath:             "ladder.db",
		MaxLeaderboardLimit:    100,
		DefaultMu:              rating.DefaultMu,
		DefaultSigma:           rating.DefaultSigma,
		DefaultBeta:            rating.DefaultBeta,
		DefaultTau:             rating.DefaultTau,
		DefaultDrawProbability: rating.DefaultDrawProbability,
	}
}

// RatingDefaults bundles the default parameters into the engine's config type.
func (c *Config) RatingDefaults() rating.Config {
	return rating.Config{
		Mu:              c.DefaultMu,
		Sigma:           c.DefaultSigma,
		Beta:            c.DefaultBeta,
		Tau:             c.DefaultTau,
		DrawProbability: c.DefaultDrawProbability,
	}
}
