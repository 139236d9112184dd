package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/scorepeon/ladder/internal/domain/model"
)

// MatchesHandler handles match creation, score entry and recording.
type MatchesHandler struct {
	deps Dependencies
}

// NewMatchesHandler creates a new matches handler.
func NewMatchesHandler(deps Dependencies) *MatchesHandler {
	return &MatchesHandler{deps: deps}
}

type matchRequest struct {
	GameID string `json:"game_id"`
}

type matchResponse struct {
	ID        string    `json:"id"`
	GameID    string    `json:"game_id"`
	Recorded  bool      `json:"recorded"`
	CreatedAt time.Time `json:"created_at"`
}

func toMatchResponse(m model.Match) matchResponse {
	return matchResponse{ID: m.ID, GameID: m.GameID, Recorded: m.Recorded, CreatedAt: m.CreatedAt}
}

type scoreRequest struct {
	PlayerID string `json:"player_id"`
	Points   int    `json:"points"`
}

type scoreResponse struct {
	MatchID  string `json:"match_id"`
	PlayerID string `json:"player_id"`
	Points   int    `json:"points"`
}

type recordResponse struct {
	Status string `json:"status"`
}

// HandleMatches handles POST /matches.
func (h *MatchesHandler) HandleMatches(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if strings.TrimSpace(req.GameID) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing game_id"))
		return
	}
	m, err := h.deps.CreateMatch(r.Context(), req.GameID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMatchResponse(m))
}

// HandleMatchSubtree handles GET /matches/{id}, POST /matches/{id}/scores
// and POST /matches/{id}/record.
func (h *MatchesHandler) HandleMatchSubtree(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/matches/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing match id"))
		return
	}
	switch {
	case sub == "" && r.Method == http.MethodGet:
		m, err := h.deps.GetMatch(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toMatchResponse(m))
	case sub == "scores" && r.Method == http.MethodPost:
		var req scoreRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		if strings.TrimSpace(req.PlayerID) == "" {
			writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing player_id"))
			return
		}
		sc, err := h.deps.AddScore(r.Context(), id, req.PlayerID, req.Points)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, scoreResponse{MatchID: sc.MatchID, PlayerID: sc.PlayerID, Points: sc.Points})
	case sub == "record" && r.Method == http.MethodPost:
		if err := h.deps.RecordMatch(r.Context(), id); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, recordResponse{Status: "recorded"})
	default:
		http.NotFound(w, r)
	}
}
