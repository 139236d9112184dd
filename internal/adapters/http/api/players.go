package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/scorepeon/ladder/internal/domain/model"
)

// PlayersHandler handles player creation and listing.
type PlayersHandler struct {
	deps Dependencies
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps Dependencies) *PlayersHandler {
	return &PlayersHandler{deps: deps}
}

type playerRequest struct {
	Name string `json:"name"`
}

type playerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func toPlayerResponse(p model.Player) playerResponse {
	return playerResponse{ID: p.ID, Name: p.Name, CreatedAt: p.CreatedAt}
}

// HandlePlayers handles POST /players and GET /players.
func (h *PlayersHandler) HandlePlayers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req playerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing name"))
			return
		}
		p, err := h.deps.CreatePlayer(r.Context(), req.Name)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toPlayerResponse(p))
	case http.MethodGet:
		players, err := h.deps.ListPlayers(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		out := make([]playerResponse, len(players))
		for i, p := range players {
			out[i] = toPlayerResponse(p)
		}
		writeJSON(w, http.StatusOK, out)
	default:
		http.NotFound(w, r)
	}
}
