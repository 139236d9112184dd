// Package simulate drives a running ladder server end to end: it creates
// a game and players, plays randomized matches, records them, and checks
// the resulting leaderboard for consistency.
package simulate

import "time"

// Config holds configuration for one simulation run.
type Config struct {
	BaseURL    string        // Base URL of the service
	NumPlayers int           // Number of players to create
	NumMatches int           // Number of matches to play
	MatchSize  int           // Participants per match
	GolfStyle  bool          // Whether lower scores win
	Seed       int64         // RNG seed for reproducible runs
	Timeout    time.Duration // HTTP request timeout
	Verbose    bool          // Enable verbose logging
}

// Stats holds simulation statistics.
type Stats struct {
	PlayersCreated  int
	MatchesPlayed   int
	MatchesRecorded int
	RecordFailures  int
	StartTime       time.Time
	Duration        time.Duration
}

// Wire documents mirroring the server's API responses.

type gameDoc struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	GolfStyle bool   `json:"golf_style"`
}

type playerDoc struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type matchDoc struct {
	ID     string `json:"id"`
	GameID string `json:"game_id"`
}

type entryDoc struct {
	Rank       int     `json:"rank"`
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	Mu         float64 `json:"mu"`
	Sigma      float64 `json:"sigma"`
	Exposed    float64 `json:"exposed"`
}
