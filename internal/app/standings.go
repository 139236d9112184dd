package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/scorepeon/ladder/internal/domain/model"
)

// Standing is one row of a game's ladder.
type Standing struct {
	Rank    int
	Player  model.Player
	Mu      float64
	Sigma   float64
	Exposed float64
}

// Standings returns a game's players ordered by descending exposed skill
// value, best first. Equal exposed values are tie-broken by player id so
// repeated reads of unchanged data come back in the same order. The view
// is read-only and safe to call concurrently.
func (s *Service) Standings(ctx context.Context, gameID string) ([]Standing, error) {
	g, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("load game %s: %w", gameID, err)
	}
	eng, err := s.newEngine(engineConfig(g))
	if err != nil {
		return nil, fmt.Errorf("engine for game %s: %w", gameID, err)
	}
	skills, err := s.store.ListSkills(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("load skills for game %s: %w", gameID, err)
	}

	players, err := s.store.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]model.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}

	out := make([]Standing, 0, len(skills))
	for _, sk := range skills {
		out = append(out, Standing{
			Player:  byID[sk.PlayerID],
			Mu:      sk.Mu,
			Sigma:   sk.Sigma,
			Exposed: eng.Exposed(eng.Rating(sk.Mu, sk.Sigma)),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Exposed != out[j].Exposed {
			return out[i].Exposed > out[j].Exposed
		}
		return out[i].Player.ID < out[j].Player.ID
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}

// StandingPlayers projects Standings onto player identities, same order.
func (s *Service) StandingPlayers(ctx context.Context, gameID string) ([]model.Player, error) {
	standings, err := s.Standings(ctx, gameID)
	if err != nil {
		return nil, err
	}
	players := make([]model.Player, len(standings))
	for i, st := range standings {
		players[i] = st.Player
	}
	return players, nil
}
