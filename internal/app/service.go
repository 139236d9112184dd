// Package service provides the core business service that implements
// the dependencies required by the HTTP API: entity management, match
// recording and standings.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/scorepeon/ladder/internal/adapters/repository"
	"github.com/scorepeon/ladder/internal/domain/model"
	"github.com/scorepeon/ladder/internal/domain/rating"
	"github.com/scorepeon/ladder/pkg/logger"
)

// EngineFactory builds a rating engine for one game's parameters.
type EngineFactory func(cfg rating.Config) (rating.Engine, error)

// Service owns the skill ledger, the match recorder and the standings
// view on top of a Store and a rating engine factory.
type Service struct {
	mu sync.RWMutex

	store     repository.Store
	newEngine EngineFactory
	defaults  rating.Config

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the entity store. Defaults to an in-memory store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithEngineFactory overrides how rating engines are built. Tests use
// this to install deterministic stub engines.
func WithEngineFactory(factory EngineFactory) Option {
	return func(s *Service) {
		if factory != nil {
			s.newEngine = factory
		}
	}
}

// WithDefaultParams sets the rating parameters given to games created
// without explicit ones.
func WithDefaultParams(cfg rating.Config) Option {
	return func(s *Service) {
		s.defaults = cfg
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		newEngine: rating.NewEngine,
		defaults:  rating.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.store == nil {
		s.store = repository.NewMemStore()
		s.logger.Info(ctx, "using in-memory store")
	}
	if err := s.defaults.Validate(); err != nil {
		return fmt.Errorf("default rating params: %w", err)
	}
	s.started = true
	s.logger.Info(ctx, "ladder service started")
	return nil
}

// Stop releases service resources.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	if s.store != nil {
		_ = s.store.Close()
	}
	s.started = false
	s.logger.Info(context.Background(), "ladder service stopped")
}

// GameParams carries optional per-game rating parameters for CreateGame.
// Nil fields fall back to the service defaults.
type GameParams struct {
	Mu              *float64
	Sigma           *float64
	Beta            *float64
	Tau             *float64
	DrawProbability *float64
}

// CreateGame validates the parameters and persists a new game.
func (s *Service) CreateGame(ctx context.Context, name string, params GameParams, golfStyle bool) (model.Game, error) {
	if strings.TrimSpace(name) == "" {
		return model.Game{}, errors.New("game name must not be empty")
	}
	cfg := s.defaults
	if params.Mu != nil {
		cfg.Mu = *params.Mu
	}
	if params.Sigma != nil {
		cfg.Sigma = *params.Sigma
	}
	if params.Beta != nil {
		cfg.Beta = *params.Beta
	}
	if params.Tau != nil {
		cfg.Tau = *params.Tau
	}
	if params.DrawProbability != nil {
		cfg.DrawProbability = *params.DrawProbability
	}
	// Reject parameters the engine cannot run with before they are stored;
	// they are immutable once the first match is rated.
	if _, err := s.newEngine(cfg); err != nil {
		return model.Game{}, err
	}

	g := model.Game{
		ID:              uuid.NewString(),
		Name:            name,
		Mu:              cfg.Mu,
		Sigma:           cfg.Sigma,
		Beta:            cfg.Beta,
		Tau:             cfg.Tau,
		DrawProbability: cfg.DrawProbability,
		GolfStyle:       golfStyle,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.store.CreateGame(ctx, g); err != nil {
		return model.Game{}, err
	}
	s.logger.Info(ctx, "game created",
		logger.String("gameID", g.ID),
		logger.String("name", g.Name),
	)
	return g, nil
}

// GetGame returns one game.
func (s *Service) GetGame(ctx context.Context, id string) (model.Game, error) {
	return s.store.GetGame(ctx, id)
}

// ListGames returns all games.
func (s *Service) ListGames(ctx context.Context) ([]model.Game, error) {
	return s.store.ListGames(ctx)
}

// CreatePlayer persists a new player.
func (s *Service) CreatePlayer(ctx context.Context, name string) (model.Player, error) {
	if strings.TrimSpace(name) == "" {
		return model.Player{}, errors.New("player name must not be empty")
	}
	p := model.Player{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreatePlayer(ctx, p); err != nil {
		return model.Player{}, err
	}
	return p, nil
}

// ListPlayers returns all players.
func (s *Service) ListPlayers(ctx context.Context) ([]model.Player, error) {
	return s.store.ListPlayers(ctx)
}

// CreateMatch opens a new unrecorded match for a game.
func (s *Service) CreateMatch(ctx context.Context, gameID string) (model.Match, error) {
	if _, err := s.store.GetGame(ctx, gameID); err != nil {
		return model.Match{}, err
	}
	m := model.Match{
		ID:        uuid.NewString(),
		GameID:    gameID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateMatch(ctx, m); err != nil {
		return model.Match{}, err
	}
	return m, nil
}

// GetMatch returns one match.
func (s *Service) GetMatch(ctx context.Context, id string) (model.Match, error) {
	return s.store.GetMatch(ctx, id)
}

// AddScore attaches a player's raw result to an unrecorded match.
func (s *Service) AddScore(ctx context.Context, matchID, playerID string, points int) (model.Score, error) {
	if _, err := s.store.GetPlayer(ctx, playerID); err != nil {
		return model.Score{}, fmt.Errorf("player %s: %w", playerID, err)
	}
	sc := model.Score{MatchID: matchID, PlayerID: playerID, Points: points}
	if err := s.store.AddScore(ctx, sc); err != nil {
		return model.Score{}, err
	}
	return sc, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	ctx := context.Background()
	stats := map[string]interface{}{}
	if games, err := s.store.ListGames(ctx); err == nil {
		stats["games"] = len(games)
	}
	if players, err := s.store.ListPlayers(ctx); err == nil {
		stats["players"] = len(players)
	}
	return stats
}
