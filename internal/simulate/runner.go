package simulate

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/scorepeon/ladder/pkg/logger"
)

// Run executes one full simulation against a live server.
func Run(ctx context.Context, cfg *Config) error {
	stats := &Stats{StartTime: time.Now()}

	logger.Get().Info(ctx, "starting ladder simulation",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("players", cfg.NumPlayers),
		logger.Int("matches", cfg.NumMatches),
		logger.Int("matchSize", cfg.MatchSize),
		logger.Bool("golfStyle", cfg.GolfStyle),
		logger.Int64("seed", cfg.Seed))

	if cfg.NumPlayers < cfg.MatchSize {
		return fmt.Errorf("need at least %d players for %d-player matches", cfg.MatchSize, cfg.MatchSize)
	}

	c := newClient(cfg.BaseURL, cfg.Timeout)

	if err := checkHealth(ctx, c); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	game, err := createGame(ctx, c, cfg)
	if err != nil {
		return fmt.Errorf("game creation failed: %w", err)
	}

	players, err := createPlayers(ctx, c, cfg, stats)
	if err != nil {
		return fmt.Errorf("player creation failed: %w", err)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	if err := playMatches(ctx, c, cfg, game, players, rng, stats); err != nil {
		return fmt.Errorf("match play failed: %w", err)
	}

	leaderboard, err := fetchLeaderboard(ctx, c, game, cfg.NumPlayers)
	if err != nil {
		return fmt.Errorf("leaderboard retrieval failed: %w", err)
	}

	if err := verifyLeaderboard(ctx, leaderboard, players); err != nil {
		return fmt.Errorf("leaderboard verification failed: %w", err)
	}

	stats.Duration = time.Since(stats.StartTime)
	logger.Get().Info(ctx, "simulation completed",
		logger.Int("playersCreated", stats.PlayersCreated),
		logger.Int("matchesPlayed", stats.MatchesPlayed),
		logger.Int("matchesRecorded", stats.MatchesRecorded),
		logger.Int("recordFailures", stats.RecordFailures),
		logger.Duration("duration", stats.Duration))
	return nil
}

func checkHealth(ctx context.Context, c *client) error {
	logger.Get().Info(ctx, "checking service health")
	var health map[string]string
	if err := c.getJSON(ctx, "/healthz", &health); err != nil {
		return err
	}
	if health["status"] != "ok" {
		return fmt.Errorf("unexpected health status %q", health["status"])
	}
	return nil
}

func createGame(ctx context.Context, c *client, cfg *Config) (gameDoc, error) {
	name := fmt.Sprintf("simulated-%d", cfg.Seed)
	var game gameDoc
	err := c.postJSON(ctx, "/games", map[string]any{
		"name":       name,
		"golf_style": cfg.GolfStyle,
	}, &game)
	if err != nil {
		return gameDoc{}, err
	}
	logger.Get().Info(ctx, "created game",
		logger.String("id", game.ID),
		logger.String("name", game.Name))
	return game, nil
}

func createPlayers(ctx context.Context, c *client, cfg *Config, stats *Stats) ([]playerDoc, error) {
	players := make([]playerDoc, 0, cfg.NumPlayers)
	for i := 0; i < cfg.NumPlayers; i++ {
		var p playerDoc
		err := c.postJSON(ctx, "/players", map[string]any{
			"name": fmt.Sprintf("sim-player-%03d", i),
		}, &p)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
		stats.PlayersCreated++
	}
	logger.Get().Info(ctx, "created players", logger.Int("count", len(players)))
	return players, nil
}

func playMatches(ctx context.Context, c *client, cfg *Config, game gameDoc, players []playerDoc, rng *rand.Rand, stats *Stats) error {
	for i := 0; i < cfg.NumMatches; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		participants := pickParticipants(rng, players, cfg.MatchSize)

		var m matchDoc
		if err := c.postJSON(ctx, "/matches", map[string]any{"game_id": game.ID}, &m); err != nil {
			return fmt.Errorf("create match %d: %w", i, err)
		}
		stats.MatchesPlayed++

		for _, p := range participants {
			points := scoreFor(rng, p, cfg.GolfStyle)
			err := c.postJSON(ctx, "/matches/"+m.ID+"/scores", map[string]any{
				"player_id": p.ID,
				"points":    points,
			}, nil)
			if err != nil {
				return fmt.Errorf("score match %d: %w", i, err)
			}
		}

		if err := c.postJSON(ctx, "/matches/"+m.ID+"/record", nil, nil); err != nil {
			stats.RecordFailures++
			logger.Get().Warn(ctx, "record failed",
				logger.String("match", m.ID),
				logger.Error(err))
			continue
		}
		stats.MatchesRecorded++

		if cfg.Verbose {
			logger.Get().Info(ctx, "recorded match",
				logger.String("match", m.ID),
				logger.Int("participants", len(participants)))
		}
	}
	return nil
}

// pickParticipants draws n distinct players without reshuffling the
// caller's slice.
func pickParticipants(rng *rand.Rand, players []playerDoc, n int) []playerDoc {
	idx := rng.Perm(len(players))[:n]
	out := make([]playerDoc, n)
	for i, j := range idx {
		out[i] = players[j]
	}
	return out
}

// scoreFor draws a score biased by the player's position in the roster,
// so that low-index players tend to win and the final leaderboard has a
// recognizable shape to verify against.
func scoreFor(rng *rand.Rand, p playerDoc, golfStyle bool) int {
	var rank int
	fmt.Sscanf(p.Name, "sim-player-%03d", &rank)
	base := 50 + rank*2
	noise := rng.Intn(21) - 10
	points := base + noise
	if golfStyle {
		return points
	}
	// Higher-is-better games invert the bias so player 0 still leads.
	return 200 - points
}

func fetchLeaderboard(ctx context.Context, c *client, game gameDoc, limit int) ([]entryDoc, error) {
	var entries []entryDoc
	path := fmt.Sprintf("/games/%s/leaderboard?limit=%d", game.ID, limit)
	if err := c.getJSON(ctx, path, &entries); err != nil {
		return nil, err
	}
	logger.Get().Info(ctx, "fetched leaderboard", logger.Int("entries", len(entries)))
	return entries, nil
}

// verifyLeaderboard checks structural invariants of the returned board:
// ranks are dense from 1, exposure is non-increasing, and no unknown or
// duplicated players appear.
func verifyLeaderboard(ctx context.Context, entries []entryDoc, players []playerDoc) error {
	known := make(map[string]bool, len(players))
	for _, p := range players {
		known[p.ID] = true
	}

	seen := make(map[string]bool, len(entries))
	for i, e := range entries {
		if e.Rank != i+1 {
			return fmt.Errorf("entry %d has rank %d", i, e.Rank)
		}
		if !known[e.PlayerID] {
			return fmt.Errorf("entry %d references unknown player %s", i, e.PlayerID)
		}
		if seen[e.PlayerID] {
			return fmt.Errorf("player %s appears twice", e.PlayerID)
		}
		seen[e.PlayerID] = true
		if i > 0 && e.Exposed > entries[i-1].Exposed {
			return fmt.Errorf("exposure not sorted at entry %d: %f > %f", i, e.Exposed, entries[i-1].Exposed)
		}
	}

	logger.Get().Info(ctx, "leaderboard verified", logger.Int("entries", len(entries)))
	return nil
}
