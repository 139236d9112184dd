package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/scorepeon/ladder/internal/domain/model"
)

// MemStore is an in-memory Store guarded by a single mutex. It backs the
// default development configuration and the test suites; the mutex makes
// CommitMatch trivially atomic.
type MemStore struct {
	mu      sync.RWMutex
	games   map[string]model.Game
	players map[string]model.Player
	skills  map[skillKey]model.Skill
	matches map[string]model.Match
	scores  map[string][]model.Score // keyed by match id, insertion order
}

type skillKey struct {
	gameID   string
	playerID string
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		games:   make(map[string]model.Game),
		players: make(map[string]model.Player),
		skills:  make(map[skillKey]model.Skill),
		matches: make(map[string]model.Match),
		scores:  make(map[string][]model.Score),
	}
}

func (s *MemStore) CreateGame(_ context.Context, g model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[g.ID]; ok {
		return ErrAlreadyExists
	}
	s.games[g.ID] = g
	return nil
}

func (s *MemStore) GetGame(_ context.Context, id string) (model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.games[id]
	if !ok {
		return model.Game{}, ErrNotFound
	}
	return g, nil
}

func (s *MemStore) ListGames(_ context.Context) ([]model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Game, 0, len(s.games))
	for _, g := range s.games {
		out = append(out, g)
	}
	sortByCreation(out, func(g model.Game) (int64, string) { return g.CreatedAt.UnixNano(), g.ID })
	return out, nil
}

func (s *MemStore) CreatePlayer(_ context.Context, p model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.players[p.ID]; ok {
		return ErrAlreadyExists
	}
	s.players[p.ID] = p
	return nil
}

func (s *MemStore) GetPlayer(_ context.Context, id string) (model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[id]
	if !ok {
		return model.Player{}, ErrNotFound
	}
	return p, nil
}

func (s *MemStore) ListPlayers(_ context.Context) ([]model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Player, 0, len(s.players))
	for _, p := range s.players {
		out = append(out, p)
	}
	sortByCreation(out, func(p model.Player) (int64, string) { return p.CreatedAt.UnixNano(), p.ID })
	return out, nil
}

func (s *MemStore) GetSkill(_ context.Context, gameID, playerID string) (model.Skill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sk, ok := s.skills[skillKey{gameID, playerID}]
	if !ok {
		return model.Skill{}, ErrNotFound
	}
	return sk, nil
}

func (s *MemStore) ListSkills(_ context.Context, gameID string) ([]model.Skill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Skill
	for k, sk := range s.skills {
		if k.gameID == gameID {
			out = append(out, sk)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out, nil
}

func (s *MemStore) CreateMatch(_ context.Context, m model.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.matches[m.ID]; ok {
		return ErrAlreadyExists
	}
	s.matches[m.ID] = m
	return nil
}

func (s *MemStore) GetMatch(_ context.Context, id string) (model.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.matches[id]
	if !ok {
		return model.Match{}, ErrNotFound
	}
	return m, nil
}

func (s *MemStore) ListMatches(_ context.Context, gameID string) ([]model.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Match
	for _, m := range s.matches {
		if m.GameID == gameID {
			out = append(out, m)
		}
	}
	sortByCreation(out, func(m model.Match) (int64, string) { return m.CreatedAt.UnixNano(), m.ID })
	return out, nil
}

func (s *MemStore) AddScore(_ context.Context, sc model.Score) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[sc.MatchID]
	if !ok {
		return ErrNotFound
	}
	if m.Recorded {
		return ErrAlreadyRecorded
	}
	for _, existing := range s.scores[sc.MatchID] {
		if existing.PlayerID == sc.PlayerID {
			return ErrDuplicateScore
		}
	}
	s.scores[sc.MatchID] = append(s.scores[sc.MatchID], sc)
	return nil
}

func (s *MemStore) ListScores(_ context.Context, matchID string) ([]model.Score, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.matches[matchID]; !ok {
		return nil, ErrNotFound
	}
	out := make([]model.Score, len(s.scores[matchID]))
	copy(out, s.scores[matchID])
	return out, nil
}

// CommitMatch flips the recorded flag and applies all skill writes under
// one lock acquisition, so readers never observe a half-applied match.
func (s *MemStore) CommitMatch(_ context.Context, matchID string, skills []model.Skill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[matchID]
	if !ok {
		return ErrNotFound
	}
	if m.Recorded {
		return ErrAlreadyRecorded
	}
	m.Recorded = true
	s.matches[matchID] = m
	for _, sk := range skills {
		s.skills[skillKey{sk.GameID, sk.PlayerID}] = sk
	}
	return nil
}

func (s *MemStore) Close() error { return nil }

// sortByCreation orders entities by creation time with id as the stable
// tiebreaker, so list results are deterministic across calls.
func sortByCreation[T any](items []T, key func(T) (int64, string)) {
	sort.Slice(items, func(i, j int) bool {
		ti, idi := key(items[i])
		tj, idj := key(items[j])
		if ti != tj {
			return ti < tj
		}
		return idi < idj
	})
}
