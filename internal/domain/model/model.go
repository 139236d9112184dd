// Package model contains domain models passed between layers.
package model

import "time"

// Game groups matches played under one set of rating parameters.
// Mu, Sigma seed new skills; Beta, Tau and DrawProbability configure the
// rating engine. GolfStyle flips score direction: when true, a lower raw
// score wins.
type Game struct {
	ID              string
	Name            string
	Mu              float64
	Sigma           float64
	Beta            float64
	Tau             float64
	DrawProbability float64
	GolfStyle       bool
	CreatedAt       time.Time
}

// Player identifies a competitor. All game-specific state lives on Skill.
type Player struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Skill is the current rating estimate for one (game, player) pair,
// unique by that pair. It is created lazily on a player's first match in
// a game, seeded from the game's Mu/Sigma, and written only when a match
// is recorded.
type Skill struct {
	GameID    string
	PlayerID  string
	Mu        float64
	Sigma     float64
	UpdatedAt time.Time
}

// Match is one played round of a game. It starts unrecorded, accumulates
// scores, and transitions to recorded exactly once. Once recorded it is
// terminal: no score or skill mutation flows through it again.
type Match struct {
	ID        string
	GameID    string
	Recorded  bool
	CreatedAt time.Time
}

// Score is one participant's raw result in a match. Scores have no
// lifecycle of their own; they exist only as rows of their match.
type Score struct {
	MatchID  string
	PlayerID string
	Points   int
}
