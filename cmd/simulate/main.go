// Command simulate exercises a running ladder server: it creates a game
// and a roster of players, plays randomized matches, records each one,
// and verifies the resulting leaderboard.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/scorepeon/ladder/internal/simulate"
	"github.com/scorepeon/ladder/pkg/logger"
)

// Default configuration constants.
const (
	defaultPlayers    = 20
	defaultMatches    = 100
	defaultMatchSize  = 4
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL   = flag.String("url", "http://localhost:9080", "Base URL of the service")
		players   = flag.Int("players", defaultPlayers, "Number of players to create")
		matches   = flag.Int("matches", defaultMatches, "Number of matches to play")
		matchSize = flag.Int("match-size", defaultMatchSize, "Participants per match")
		golfStyle = flag.Bool("golf", false, "Create a golf-style game (lower scores win)")
		seed      = flag.Int64("seed", time.Now().UnixNano(), "RNG seed for reproducible runs")
		timeout   = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose   = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg := &simulate.Config{
		BaseURL:    *baseURL,
		NumPlayers: *players,
		NumMatches: *matches,
		MatchSize:  *matchSize,
		GolfStyle:  *golfStyle,
		Seed:       *seed,
		Timeout:    *timeout,
		Verbose:    *verbose,
	}

	if err := simulate.Run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "simulation failed", logger.Error(err))
		os.Exit(1)
	}
}
