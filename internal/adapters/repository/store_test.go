package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/scorepeon/ladder/internal/domain/model"
)

// storeFactories lists every Store implementation under test.
func storeFactories(t *testing.T) map[string]func(t *testing.T) Store {
	t.Helper()
	return map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store {
			t.Helper()
			return NewMemStore()
		},
		"sqlite": func(t *testing.T) Store {
			t.Helper()
			s, err := NewSQLStore(context.Background(), t.TempDir()+"/ladder.db")
			if err != nil {
				t.Fatalf("open sqlite store: %v", err)
			}
			return s
		},
	}
}

func seedGame(t *testing.T, s Store, id string) model.Game {
	t.Helper()
	g := model.Game{
		ID: id, Name: "disc golf",
		Mu: 25, Sigma: 25.0 / 3, Beta: 25.0 / 6, Tau: 25.0 / 300, DrawProbability: 0.1,
		GolfStyle: true, CreatedAt: time.Now(),
	}
	if err := s.CreateGame(context.Background(), g); err != nil {
		t.Fatalf("create game: %v", err)
	}
	return g
}

func seedMatch(t *testing.T, s Store, gameID, id string) model.Match {
	t.Helper()
	m := model.Match{ID: id, GameID: gameID, CreatedAt: time.Now()}
	if err := s.CreateMatch(context.Background(), m); err != nil {
		t.Fatalf("create match: %v", err)
	}
	return m
}

func TestStore_EntityRoundTrips(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := factory(t)
			defer s.Close()

			g := seedGame(t, s, "g1")
			got, err := s.GetGame(ctx, g.ID)
			if err != nil {
				t.Fatalf("get game: %v", err)
			}
			if got.Name != g.Name || got.Mu != g.Mu || !got.GolfStyle {
				t.Errorf("game round trip mismatch: %+v", got)
			}

			if err := s.CreateGame(ctx, g); !errors.Is(err, ErrAlreadyExists) {
				t.Errorf("expected ErrAlreadyExists on id reuse, got %v", err)
			}
			if _, err := s.GetGame(ctx, "missing"); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}

			p := model.Player{ID: "p1", Name: "ada", CreatedAt: time.Now()}
			if err := s.CreatePlayer(ctx, p); err != nil {
				t.Fatalf("create player: %v", err)
			}
			players, err := s.ListPlayers(ctx)
			if err != nil || len(players) != 1 || players[0].Name != "ada" {
				t.Errorf("list players = %v, %v", players, err)
			}

			m := seedMatch(t, s, g.ID, "m1")
			gotMatch, err := s.GetMatch(ctx, m.ID)
			if err != nil || gotMatch.Recorded {
				t.Errorf("new match should be unrecorded: %+v, %v", gotMatch, err)
			}
		})
	}
}

func TestStore_Scores(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := factory(t)
			defer s.Close()

			g := seedGame(t, s, "g1")
			for _, id := range []string{"p1", "p2"} {
				if err := s.CreatePlayer(ctx, model.Player{ID: id, Name: id, CreatedAt: time.Now()}); err != nil {
					t.Fatalf("create player: %v", err)
				}
			}
			m := seedMatch(t, s, g.ID, "m1")

			if err := s.AddScore(ctx, model.Score{MatchID: m.ID, PlayerID: "p1", Points: 70}); err != nil {
				t.Fatalf("add score: %v", err)
			}
			if err := s.AddScore(ctx, model.Score{MatchID: m.ID, PlayerID: "p1", Points: 68}); !errors.Is(err, ErrDuplicateScore) {
				t.Errorf("expected ErrDuplicateScore, got %v", err)
			}
			if err := s.AddScore(ctx, model.Score{MatchID: "missing", PlayerID: "p1", Points: 1}); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
			if err := s.AddScore(ctx, model.Score{MatchID: m.ID, PlayerID: "p2", Points: 68}); err != nil {
				t.Fatalf("add score: %v", err)
			}

			scores, err := s.ListScores(ctx, m.ID)
			if err != nil {
				t.Fatalf("list scores: %v", err)
			}
			if len(scores) != 2 || scores[0].PlayerID != "p1" || scores[1].PlayerID != "p2" {
				t.Errorf("scores out of insertion order: %v", scores)
			}

			// Terminal match refuses new scores.
			if err := s.CommitMatch(ctx, m.ID, nil); err != nil {
				t.Fatalf("commit match: %v", err)
			}
			if err := s.AddScore(ctx, model.Score{MatchID: m.ID, PlayerID: "p3", Points: 9}); !errors.Is(err, ErrAlreadyRecorded) {
				t.Errorf("expected ErrAlreadyRecorded, got %v", err)
			}
		})
	}
}

func TestStore_CommitMatch(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := factory(t)
			defer s.Close()

			g := seedGame(t, s, "g1")
			m := seedMatch(t, s, g.ID, "m1")

			skills := []model.Skill{
				{GameID: g.ID, PlayerID: "p1", Mu: 28.1, Sigma: 6.5, UpdatedAt: time.Now()},
				{GameID: g.ID, PlayerID: "p2", Mu: 21.9, Sigma: 6.5, UpdatedAt: time.Now()},
			}
			if err := s.CommitMatch(ctx, m.ID, skills); err != nil {
				t.Fatalf("commit match: %v", err)
			}

			gotMatch, err := s.GetMatch(ctx, m.ID)
			if err != nil || !gotMatch.Recorded {
				t.Errorf("match should be recorded: %+v, %v", gotMatch, err)
			}
			sk, err := s.GetSkill(ctx, g.ID, "p1")
			if err != nil || sk.Mu != 28.1 {
				t.Errorf("skill not written: %+v, %v", sk, err)
			}

			// Second commit loses the check-and-set and changes nothing.
			losing := []model.Skill{{GameID: g.ID, PlayerID: "p1", Mu: 99, Sigma: 1, UpdatedAt: time.Now()}}
			if err := s.CommitMatch(ctx, m.ID, losing); !errors.Is(err, ErrAlreadyRecorded) {
				t.Fatalf("expected ErrAlreadyRecorded, got %v", err)
			}
			sk, err = s.GetSkill(ctx, g.ID, "p1")
			if err != nil || sk.Mu != 28.1 {
				t.Errorf("losing commit must not touch skills: %+v, %v", sk, err)
			}

			if err := s.CommitMatch(ctx, "missing", nil); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestStore_CommitMatchRace(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := factory(t)
			defer s.Close()

			g := seedGame(t, s, "g1")
			m := seedMatch(t, s, g.ID, "m1")

			const racers = 8
			var wg sync.WaitGroup
			errs := make([]error, racers)
			for i := 0; i < racers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					skills := []model.Skill{{
						GameID: g.ID, PlayerID: "p1",
						Mu: float64(i), Sigma: 1, UpdatedAt: time.Now(),
					}}
					errs[i] = s.CommitMatch(ctx, m.ID, skills)
				}(i)
			}
			wg.Wait()

			var winners int
			var winner float64 = -1
			for i, err := range errs {
				switch {
				case err == nil:
					winners++
					winner = float64(i)
				case !errors.Is(err, ErrAlreadyRecorded):
					t.Errorf("racer %d: unexpected error %v", i, err)
				}
			}
			if winners != 1 {
				t.Fatalf("expected exactly one winning commit, got %d", winners)
			}
			sk, err := s.GetSkill(ctx, g.ID, "p1")
			if err != nil {
				t.Fatalf("get skill: %v", err)
			}
			if sk.Mu != winner {
				t.Errorf("final skill %v does not match winner %v", sk.Mu, winner)
			}
		})
	}
}

func TestStore_ListSkillsIsolation(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := factory(t)
			defer s.Close()

			g1 := seedGame(t, s, "g1")
			g2 := seedGame(t, s, "g2")
			m1 := seedMatch(t, s, g1.ID, "m1")
			m2 := seedMatch(t, s, g2.ID, "m2")

			if err := s.CommitMatch(ctx, m1.ID, []model.Skill{
				{GameID: g1.ID, PlayerID: "p1", Mu: 30, Sigma: 5, UpdatedAt: time.Now()},
			}); err != nil {
				t.Fatalf("commit: %v", err)
			}
			if err := s.CommitMatch(ctx, m2.ID, []model.Skill{
				{GameID: g2.ID, PlayerID: "p1", Mu: 20, Sigma: 5, UpdatedAt: time.Now()},
			}); err != nil {
				t.Fatalf("commit: %v", err)
			}

			for gameID, wantMu := range map[string]float64{g1.ID: 30, g2.ID: 20} {
				skills, err := s.ListSkills(ctx, gameID)
				if err != nil {
					t.Fatalf("list skills: %v", err)
				}
				if len(skills) != 1 || skills[0].Mu != wantMu {
					t.Errorf("game %s skills = %v, want single mu %v", gameID, skills, wantMu)
				}
			}
		})
	}
}

func TestMemStore_ListOrdering(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	base := time.Now()
	for i := 3; i >= 1; i-- {
		p := model.Player{ID: fmt.Sprintf("p%d", i), Name: "n", CreatedAt: base.Add(time.Duration(i) * time.Second)}
		if err := s.CreatePlayer(ctx, p); err != nil {
			t.Fatalf("create player: %v", err)
		}
	}
	players, err := s.ListPlayers(ctx)
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	for i, p := range players {
		want := fmt.Sprintf("p%d", i+1)
		if p.ID != want {
			t.Errorf("position %d = %s, want %s", i, p.ID, want)
		}
	}
}
