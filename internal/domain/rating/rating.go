// Package rating defines the contract for the Bayesian skill-rating
// engine and a TrueSkill-style implementation of it.
//
// The engine is a collaborator of the match recorder: it owns the update
// mathematics, while callers own ranking derivation and persistence. An
// engine is constructed per game from that game's parameters and holds no
// mutable state, so one instance may serve any number of calls.
package rating

import (
	"errors"
	"fmt"
)

// Default TrueSkill parameters, used to seed newly created games.
const (
	DefaultMu              = 25.0
	DefaultSigma           = DefaultMu / 3.0
	DefaultBeta            = DefaultMu / 6.0
	DefaultTau             = DefaultMu / 300.0
	DefaultDrawProbability = 0.10
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrInvalidConfig = errors.New("invalid rating config")
	ErrRankMismatch  = errors.New("ranks do not match ratings")
	ErrTooFewRatings = errors.New("need at least two ratings")
)

// Config carries the per-game engine parameters.
type Config struct {
	// Mu and Sigma are the prior mean and deviation for an unknown player.
	Mu    float64
	Sigma float64
	// Beta is the skill distance guaranteeing ~76% win probability.
	Beta float64
	// Tau is the additive dynamics factor applied before each update.
	Tau float64
	// DrawProbability is the chance of a draw between equal players, in [0, 1).
	DrawProbability float64
}

// DefaultConfig returns the standard TrueSkill parameterization.
func DefaultConfig() Config {
	return Config{
		Mu:              DefaultMu,
		Sigma:           DefaultSigma,
		Beta:            DefaultBeta,
		Tau:             DefaultTau,
		DrawProbability: DefaultDrawProbability,
	}
}

// Validate reports whether the configuration is usable by an engine.
func (c Config) Validate() error {
	switch {
	case c.Sigma <= 0:
		return fmt.Errorf("%w: sigma must be positive, got %v", ErrInvalidConfig, c.Sigma)
	case c.Beta <= 0:
		return fmt.Errorf("%w: beta must be positive, got %v", ErrInvalidConfig, c.Beta)
	case c.Tau < 0:
		return fmt.Errorf("%w: tau must not be negative, got %v", ErrInvalidConfig, c.Tau)
	case c.DrawProbability < 0 || c.DrawProbability >= 1:
		return fmt.Errorf("%w: draw probability must be in [0, 1), got %v", ErrInvalidConfig, c.DrawProbability)
	}
	return nil
}

// Rating is one competitor's skill belief: mean and deviation.
type Rating struct {
	Mu    float64
	Sigma float64
}

// Engine computes rating updates from match outcomes.
//
// Rate takes ratings and ranks as parallel slices: ranks[i] is the rank
// position of ratings[i], lower is better, equal values mean a draw. The
// result is parallel to the input. Implementations must be deterministic:
// identical config, ratings, and ranks produce identical output.
type Engine interface {
	// Rating builds a rating value from persisted mean and deviation.
	Rating(mu, sigma float64) Rating

	// Rate returns the post-match rating for every competitor.
	Rate(ratings []Rating, ranks []int) ([]Rating, error)

	// Exposed collapses a rating to a conservative scalar for ordering:
	// higher means more provenly skilled.
	Exposed(r Rating) float64
}
