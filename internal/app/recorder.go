package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/scorepeon/ladder/internal/adapters/repository"
	"github.com/scorepeon/ladder/internal/domain/model"
	"github.com/scorepeon/ladder/internal/domain/ranking"
	"github.com/scorepeon/ladder/internal/domain/rating"
	"github.com/scorepeon/ladder/pkg/logger"
	"github.com/scorepeon/ladder/pkg/metrics"
)

// Sentinel kinds for match recording. A match that is already terminal
// surfaces the store's ErrAlreadyRecorded.
var (
	ErrNotEnoughPlayers = errors.New("match needs scores from at least two players")
	ErrDuplicatePlayer  = errors.New("player appears more than once in match")
)

// RecordMatch turns a match's raw scores into skill updates, exactly once.
//
// It resolves each participant's current skill (seeding first-time players
// at the game's priors), derives a rank array from the raw scores, asks
// the rating engine for new ratings, and commits every skill together with
// the recorded flag in one atomic store operation. Nothing is written when
// any step fails; a lost commit race surfaces as ErrAlreadyRecorded just
// like a plain double call.
func (s *Service) RecordMatch(ctx context.Context, matchID string) error {
	start := time.Now()
	if err := s.recordMatch(ctx, matchID); err != nil {
		metrics.RecordMatchFailure(failureKind(err))
		return err
	}
	metrics.RecordMatchRecorded()
	metrics.ObserveRecordDuration(float64(time.Since(start).Milliseconds()))
	return nil
}

func (s *Service) recordMatch(ctx context.Context, matchID string) error {
	m, err := s.store.GetMatch(ctx, matchID)
	if err != nil {
		return fmt.Errorf("load match %s: %w", matchID, err)
	}
	if m.Recorded {
		return fmt.Errorf("match %s: %w", matchID, repository.ErrAlreadyRecorded)
	}
	g, err := s.store.GetGame(ctx, m.GameID)
	if err != nil {
		return fmt.Errorf("load game %s: %w", m.GameID, err)
	}
	scores, err := s.store.ListScores(ctx, matchID)
	if err != nil {
		return fmt.Errorf("load scores for match %s: %w", matchID, err)
	}

	seen := make(map[string]struct{}, len(scores))
	for _, sc := range scores {
		if _, dup := seen[sc.PlayerID]; dup {
			return fmt.Errorf("match %s, player %s: %w", matchID, sc.PlayerID, ErrDuplicatePlayer)
		}
		seen[sc.PlayerID] = struct{}{}
	}
	if len(scores) < 2 {
		return fmt.Errorf("match %s has %d: %w", matchID, len(scores), ErrNotEnoughPlayers)
	}

	// One engine per game value per operation; the parameters are read
	// from the entity, never from ambient defaults.
	eng, err := s.newEngine(engineConfig(g))
	if err != nil {
		return fmt.Errorf("engine for game %s: %w", g.ID, err)
	}

	// Current ratings and raw points, parallel to the score rows.
	skills := make([]model.Skill, len(scores))
	ratings := make([]rating.Rating, len(scores))
	points := make([]int, len(scores))
	for i, sc := range scores {
		sk, err := s.skillOrSeed(ctx, g, sc.PlayerID)
		if err != nil {
			return err
		}
		skills[i] = sk
		ratings[i] = eng.Rating(sk.Mu, sk.Sigma)
		points[i] = sc.Points
	}

	// The rank array is handed to the engine explicitly; result order is
	// defined by the parallel slices, not by any iteration order.
	ranks := ranking.FromScores(points, g.GolfStyle)
	updated, err := eng.Rate(ratings, ranks)
	if err != nil {
		return fmt.Errorf("rate match %s: %w", matchID, err)
	}

	now := time.Now().UTC()
	for i, r := range updated {
		skills[i].Mu = r.Mu
		skills[i].Sigma = r.Sigma
		skills[i].UpdatedAt = now
	}
	commitStart := time.Now()
	if err := s.store.CommitMatch(ctx, matchID, skills); err != nil {
		return fmt.Errorf("commit match %s: %w", matchID, err)
	}
	metrics.ObserveCommitDuration(float64(time.Since(commitStart).Milliseconds()))
	if rows, err := s.store.ListSkills(ctx, g.ID); err == nil {
		metrics.UpdateSkillsTracked(g.ID, len(rows))
	} else {
		// The match is committed; a failed gauge refresh must not fail it.
		s.logger.Warn(ctx, "skills gauge refresh failed",
			logger.String("gameID", g.ID),
			logger.Error(err),
		)
	}

	s.logger.Info(ctx, "match recorded",
		logger.String("matchID", matchID),
		logger.String("gameID", g.ID),
		logger.Int("players", len(scores)),
	)
	return nil
}

// skillOrSeed is the ledger's get-or-create: an existing skill row is
// returned as is, a first-time player gets one seeded at the game's
// priors. The seed is materialized in memory only; it reaches the store
// with the rest of the match's writes at commit time.
func (s *Service) skillOrSeed(ctx context.Context, g model.Game, playerID string) (model.Skill, error) {
	sk, err := s.store.GetSkill(ctx, g.ID, playerID)
	if err == nil {
		return sk, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return model.Skill{}, fmt.Errorf("load skill (%s, %s): %w", g.ID, playerID, err)
	}
	return model.Skill{
		GameID:   g.ID,
		PlayerID: playerID,
		Mu:       g.Mu,
		Sigma:    g.Sigma,
	}, nil
}

// engineConfig maps a game's stored parameters onto the engine contract.
func engineConfig(g model.Game) rating.Config {
	return rating.Config{
		Mu:              g.Mu,
		Sigma:           g.Sigma,
		Beta:            g.Beta,
		Tau:             g.Tau,
		DrawProbability: g.DrawProbability,
	}
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, repository.ErrAlreadyRecorded):
		return "already_recorded"
	case errors.Is(err, ErrNotEnoughPlayers):
		return "not_enough_players"
	case errors.Is(err, ErrDuplicatePlayer):
		return "duplicate_player"
	case errors.Is(err, repository.ErrNotFound):
		return "not_found"
	default:
		return "internal"
	}
}
