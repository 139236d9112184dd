// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/scorepeon/ladder/internal/adapters/repository"
	service "github.com/scorepeon/ladder/internal/app"
	"github.com/scorepeon/ladder/internal/domain/model"
	"github.com/scorepeon/ladder/internal/domain/rating"
)

// GameParams mirrors the optional per-game rating parameters.
type GameParams = service.GameParams

// Standing mirrors one ladder row returned by standings queries.
type Standing = service.Standing

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	CreateGame(ctx context.Context, name string, params GameParams, golfStyle bool) (model.Game, error)
	GetGame(ctx context.Context, id string) (model.Game, error)
	ListGames(ctx context.Context) ([]model.Game, error)

	CreatePlayer(ctx context.Context, name string) (model.Player, error)
	ListPlayers(ctx context.Context) ([]model.Player, error)

	CreateMatch(ctx context.Context, gameID string) (model.Match, error)
	GetMatch(ctx context.Context, id string) (model.Match, error)
	AddScore(ctx context.Context, matchID, playerID string, points int) (model.Score, error)
	RecordMatch(ctx context.Context, matchID string) error

	Standings(ctx context.Context, gameID string) ([]Standing, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	gamesHandler       *GamesHandler
	playersHandler     *PlayersHandler
	matchesHandler     *MatchesHandler
	leaderboardHandler *LeaderboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLeaderboardLimit int) *Server {
	leaderboard := NewLeaderboardHandler(deps, maxLeaderboardLimit)
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		gamesHandler:       NewGamesHandler(deps, leaderboard),
		playersHandler:     NewPlayersHandler(deps),
		matchesHandler:     NewMatchesHandler(deps),
		leaderboardHandler: leaderboard,
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/games", MetricsMiddleware(s.gamesHandler.HandleGames, "games"))
	mux.HandleFunc("/games/", MetricsMiddleware(s.gamesHandler.HandleGameSubtree, "game"))
	mux.HandleFunc("/players", MetricsMiddleware(s.playersHandler.HandlePlayers, "players"))
	mux.HandleFunc("/matches", MetricsMiddleware(s.matchesHandler.HandleMatches, "matches"))
	mux.HandleFunc("/matches/", MetricsMiddleware(s.matchesHandler.HandleMatchSubtree, "match"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError translates core errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, repository.ErrAlreadyRecorded):
		writeError(w, http.StatusConflict, "already_recorded", err)
	case errors.Is(err, repository.ErrDuplicateScore), errors.Is(err, service.ErrDuplicatePlayer):
		writeError(w, http.StatusConflict, "duplicate_player", err)
	case errors.Is(err, service.ErrNotEnoughPlayers):
		writeError(w, http.StatusUnprocessableEntity, "not_enough_players", err)
	case errors.Is(err, rating.ErrInvalidConfig):
		writeError(w, http.StatusBadRequest, "invalid_rating_config", err)
	case errors.Is(err, repository.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "already_exists", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
