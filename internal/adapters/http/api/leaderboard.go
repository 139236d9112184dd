package api

import (
	"net/http"
	"strconv"
)

// Entry is one row of the leaderboard response.
type Entry struct {
	Rank       int     `json:"rank"`
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	Mu         float64 `json:"mu"`
	Sigma      float64 `json:"sigma"`
	Exposed    float64 `json:"exposed"`
}

// LeaderboardHandler serves a game's standings.
type LeaderboardHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps Dependencies, maxLimit int) *LeaderboardHandler {
	return &LeaderboardHandler{deps: deps, maxLimit: maxLimit}
}

// HandleGetLeaderboard handles GET /games/{id}/leaderboard?limit=N.
// The limit defaults to the configured maximum.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request, gameID string) {
	n := h.maxLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		if parsed > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", nil)
			return
		}
		n = parsed
	}

	standings, err := h.deps.Standings(r.Context(), gameID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if len(standings) > n {
		standings = standings[:n]
	}
	entries := make([]Entry, len(standings))
	for i, st := range standings {
		entries[i] = Entry{
			Rank:       st.Rank,
			PlayerID:   st.Player.ID,
			PlayerName: st.Player.Name,
			Mu:         st.Mu,
			Sigma:      st.Sigma,
			Exposed:    st.Exposed,
		}
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleGetPlayers handles GET /games/{id}/players: the leaderboard
// projected to player identities, same order.
func (h *LeaderboardHandler) HandleGetPlayers(w http.ResponseWriter, r *http.Request, gameID string) {
	standings, err := h.deps.Standings(r.Context(), gameID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	players := make([]playerResponse, len(standings))
	for i, st := range standings {
		players[i] = toPlayerResponse(st.Player)
	}
	writeJSON(w, http.StatusOK, players)
}
