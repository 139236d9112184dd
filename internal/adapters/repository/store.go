// Package repository defines the entity store interface and errors.
package repository

import (
	"context"

	"github.com/scorepeon/ladder/internal/domain/model"
)

// Store provides persistence for games, players, skills, matches and
// scores. Implementations must make CommitMatch an atomic check-and-set:
// under concurrent commits of the same match exactly one call wins and the
// rest fail with ErrAlreadyRecorded, and the recorded flag plus every
// skill row become visible together or not at all.
type Store interface {
	// CreateGame persists a new game. Returns ErrAlreadyExists on id reuse.
	CreateGame(ctx context.Context, g model.Game) error
	// GetGame returns the game or ErrNotFound.
	GetGame(ctx context.Context, id string) (model.Game, error)
	// ListGames returns all games ordered by creation time.
	ListGames(ctx context.Context) ([]model.Game, error)

	// CreatePlayer persists a new player. Returns ErrAlreadyExists on id reuse.
	CreatePlayer(ctx context.Context, p model.Player) error
	// GetPlayer returns the player or ErrNotFound.
	GetPlayer(ctx context.Context, id string) (model.Player, error)
	// ListPlayers returns all players ordered by creation time.
	ListPlayers(ctx context.Context) ([]model.Player, error)

	// GetSkill returns the skill for a (game, player) pair or ErrNotFound.
	GetSkill(ctx context.Context, gameID, playerID string) (model.Skill, error)
	// ListSkills returns every skill tracked for a game.
	ListSkills(ctx context.Context, gameID string) ([]model.Skill, error)

	// CreateMatch persists a new unrecorded match.
	CreateMatch(ctx context.Context, m model.Match) error
	// GetMatch returns the match or ErrNotFound.
	GetMatch(ctx context.Context, id string) (model.Match, error)
	// ListMatches returns a game's matches ordered by creation time.
	ListMatches(ctx context.Context, gameID string) ([]model.Match, error)

	// AddScore attaches a score to an unrecorded match. Returns
	// ErrAlreadyRecorded if the match is terminal and ErrDuplicateScore if
	// the player already has a score on it.
	AddScore(ctx context.Context, s model.Score) error
	// ListScores returns a match's scores in insertion order.
	ListScores(ctx context.Context, matchID string) ([]model.Score, error)

	// CommitMatch flips the match to recorded and writes all skill rows in
	// one atomic step. The flag flip is the linearization point: a match
	// already recorded (or concurrently recorded by a racing call) yields
	// ErrAlreadyRecorded and no skill is touched.
	CommitMatch(ctx context.Context, matchID string, skills []model.Skill) error

	// Close releases store resources.
	Close() error
}
