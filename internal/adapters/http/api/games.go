package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/scorepeon/ladder/internal/domain/model"
)

// GamesHandler handles game creation, listing and the per-game subtree.
type GamesHandler struct {
	deps        Dependencies
	leaderboard *LeaderboardHandler
}

// NewGamesHandler creates a new games handler.
func NewGamesHandler(deps Dependencies, leaderboard *LeaderboardHandler) *GamesHandler {
	return &GamesHandler{deps: deps, leaderboard: leaderboard}
}

// gameRequest mirrors the POST /games body. Rating parameters are
// optional and fall back to the service defaults.
type gameRequest struct {
	Name            string   `json:"name"`
	GolfStyle       bool     `json:"golf_style"`
	Mu              *float64 `json:"mu,omitempty"`
	Sigma           *float64 `json:"sigma,omitempty"`
	Beta            *float64 `json:"beta,omitempty"`
	Tau             *float64 `json:"tau,omitempty"`
	DrawProbability *float64 `json:"draw_probability,omitempty"`
}

func (g gameRequest) validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return errors.New("missing name")
	}
	return nil
}

type gameResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Mu              float64   `json:"mu"`
	Sigma           float64   `json:"sigma"`
	Beta            float64   `json:"beta"`
	Tau             float64   `json:"tau"`
	DrawProbability float64   `json:"draw_probability"`
	GolfStyle       bool      `json:"golf_style"`
	CreatedAt       time.Time `json:"created_at"`
}

func toGameResponse(g model.Game) gameResponse {
	return gameResponse{
		ID:              g.ID,
		Name:            g.Name,
		Mu:              g.Mu,
		Sigma:           g.Sigma,
		Beta:            g.Beta,
		Tau:             g.Tau,
		DrawProbability: g.DrawProbability,
		GolfStyle:       g.GolfStyle,
		CreatedAt:       g.CreatedAt,
	}
}

// HandleGames handles POST /games and GET /games.
func (h *GamesHandler) HandleGames(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req gameRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		if err := req.validate(); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		params := GameParams{
			Mu:              req.Mu,
			Sigma:           req.Sigma,
			Beta:            req.Beta,
			Tau:             req.Tau,
			DrawProbability: req.DrawProbability,
		}
		g, err := h.deps.CreateGame(r.Context(), req.Name, params, req.GolfStyle)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toGameResponse(g))
	case http.MethodGet:
		games, err := h.deps.ListGames(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		out := make([]gameResponse, len(games))
		for i, g := range games {
			out[i] = toGameResponse(g)
		}
		writeJSON(w, http.StatusOK, out)
	default:
		http.NotFound(w, r)
	}
}

// HandleGameSubtree handles GET /games/{id}, GET /games/{id}/leaderboard
// and GET /games/{id}/players.
func (h *GamesHandler) HandleGameSubtree(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/games/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing game id"))
		return
	}
	switch sub {
	case "":
		g, err := h.deps.GetGame(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toGameResponse(g))
	case "leaderboard":
		h.leaderboard.HandleGetLeaderboard(w, r, id)
	case "players":
		h.leaderboard.HandleGetPlayers(w, r, id)
	default:
		http.NotFound(w, r)
	}
}
