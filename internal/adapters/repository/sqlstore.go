package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/scorepeon/ladder/internal/domain/model"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const schema = `
CREATE TABLE IF NOT EXISTS games (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	mu REAL NOT NULL,
	sigma REAL NOT NULL,
	beta REAL NOT NULL,
	tau REAL NOT NULL,
	draw_probability REAL NOT NULL,
	golf_style INTEGER NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS players (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS skills (
	game_id TEXT NOT NULL REFERENCES games(id),
	player_id TEXT NOT NULL REFERENCES players(id),
	mu REAL NOT NULL,
	sigma REAL NOT NULL,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (game_id, player_id)
);
CREATE TABLE IF NOT EXISTS matches (
	id TEXT PRIMARY KEY,
	game_id TEXT NOT NULL REFERENCES games(id),
	recorded INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS scores (
	match_id TEXT NOT NULL REFERENCES matches(id),
	player_id TEXT NOT NULL REFERENCES players(id),
	points INTEGER NOT NULL,
	seq INTEGER PRIMARY KEY AUTOINCREMENT
);
CREATE UNIQUE INDEX IF NOT EXISTS scores_match_player ON scores(match_id, player_id);
`

// SQLStore is a Store backed by sqlite. CommitMatch runs inside one
// transaction with the recorded-flag update as a guarded write, which
// gives the exactly-once commit semantics without table locks.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore opens (and if needed initializes) a sqlite database at path.
// Use ":memory:" for an ephemeral store.
func NewSQLStore(ctx context.Context, path string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// sqlite allows one writer; serialize access through a single conn to
	// avoid SQLITE_BUSY under concurrent commits.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) CreateGame(ctx context.Context, g model.Game) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO games (id, name, mu, sigma, beta, tau, draw_probability, golf_style, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.Name, g.Mu, g.Sigma, g.Beta, g.Tau, g.DrawProbability, boolToInt(g.GolfStyle), g.CreatedAt.UnixNano())
	if isUniqueViolation(err) {
		return ErrAlreadyExists
	}
	return err
}

func (s *SQLStore) GetGame(ctx context.Context, id string) (model.Game, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, mu, sigma, beta, tau, draw_probability, golf_style, created_at
		 FROM games WHERE id = ?`, id)
	return scanGame(row)
}

func (s *SQLStore) ListGames(ctx context.Context) ([]model.Game, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, mu, sigma, beta, tau, draw_probability, golf_style, created_at
		 FROM games ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *SQLStore) CreatePlayer(ctx context.Context, p model.Player) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO players (id, name, created_at) VALUES (?, ?, ?)`,
		p.ID, p.Name, p.CreatedAt.UnixNano())
	if isUniqueViolation(err) {
		return ErrAlreadyExists
	}
	return err
}

func (s *SQLStore) GetPlayer(ctx context.Context, id string) (model.Player, error) {
	var p model.Player
	var created int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM players WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Player{}, ErrNotFound
	}
	if err != nil {
		return model.Player{}, err
	}
	p.CreatedAt = time.Unix(0, created)
	return p, nil
}

func (s *SQLStore) ListPlayers(ctx context.Context) ([]model.Player, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, created_at FROM players ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Player
	for rows.Next() {
		var p model.Player
		var created int64
		if err := rows.Scan(&p.ID, &p.Name, &created); err != nil {
			return nil, err
		}
		p.CreatedAt = time.Unix(0, created)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetSkill(ctx context.Context, gameID, playerID string) (model.Skill, error) {
	var sk model.Skill
	var updated int64
	err := s.db.QueryRowContext(ctx,
		`SELECT game_id, player_id, mu, sigma, updated_at
		 FROM skills WHERE game_id = ? AND player_id = ?`, gameID, playerID).
		Scan(&sk.GameID, &sk.PlayerID, &sk.Mu, &sk.Sigma, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Skill{}, ErrNotFound
	}
	if err != nil {
		return model.Skill{}, err
	}
	sk.UpdatedAt = time.Unix(0, updated)
	return sk, nil
}

func (s *SQLStore) ListSkills(ctx context.Context, gameID string) ([]model.Skill, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT game_id, player_id, mu, sigma, updated_at
		 FROM skills WHERE game_id = ? ORDER BY player_id`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Skill
	for rows.Next() {
		var sk model.Skill
		var updated int64
		if err := rows.Scan(&sk.GameID, &sk.PlayerID, &sk.Mu, &sk.Sigma, &updated); err != nil {
			return nil, err
		}
		sk.UpdatedAt = time.Unix(0, updated)
		out = append(out, sk)
	}
	return out, rows.Err()
}

func (s *SQLStore) CreateMatch(ctx context.Context, m model.Match) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO matches (id, game_id, recorded, created_at) VALUES (?, ?, ?, ?)`,
		m.ID, m.GameID, boolToInt(m.Recorded), m.CreatedAt.UnixNano())
	if isUniqueViolation(err) {
		return ErrAlreadyExists
	}
	return err
}

func (s *SQLStore) GetMatch(ctx context.Context, id string) (model.Match, error) {
	var m model.Match
	var recorded int
	var created int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, game_id, recorded, created_at FROM matches WHERE id = ?`, id).
		Scan(&m.ID, &m.GameID, &recorded, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Match{}, ErrNotFound
	}
	if err != nil {
		return model.Match{}, err
	}
	m.Recorded = recorded != 0
	m.CreatedAt = time.Unix(0, created)
	return m, nil
}

func (s *SQLStore) ListMatches(ctx context.Context, gameID string) ([]model.Match, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, game_id, recorded, created_at
		 FROM matches WHERE game_id = ? ORDER BY created_at, id`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Match
	for rows.Next() {
		var m model.Match
		var recorded int
		var created int64
		if err := rows.Scan(&m.ID, &m.GameID, &recorded, &created); err != nil {
			return nil, err
		}
		m.Recorded = recorded != 0
		m.CreatedAt = time.Unix(0, created)
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *SQLStore) AddScore(ctx context.Context, sc model.Score) error {
	m, err := s.GetMatch(ctx, sc.MatchID)
	if err != nil {
		return err
	}
	if m.Recorded {
		return ErrAlreadyRecorded
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO scores (match_id, player_id, points) VALUES (?, ?, ?)`,
		sc.MatchID, sc.PlayerID, sc.Points)
	if isUniqueViolation(err) {
		return ErrDuplicateScore
	}
	return err
}

func (s *SQLStore) ListScores(ctx context.Context, matchID string) ([]model.Score, error) {
	if _, err := s.GetMatch(ctx, matchID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT match_id, player_id, points FROM scores WHERE match_id = ? ORDER BY seq`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Score
	for rows.Next() {
		var sc model.Score
		if err := rows.Scan(&sc.MatchID, &sc.PlayerID, &sc.Points); err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

// CommitMatch performs the guarded flag flip and all skill upserts in one
// transaction. The UPDATE matching zero rows means the match either does
// not exist or was recorded first by a racing call.
func (s *SQLStore) CommitMatch(ctx context.Context, matchID string, skills []model.Skill) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`UPDATE matches SET recorded = 1 WHERE id = ? AND recorded = 0`, matchID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists int
		if scanErr := tx.QueryRowContext(ctx,
			`SELECT COUNT(1) FROM matches WHERE id = ?`, matchID).Scan(&exists); scanErr != nil {
			return scanErr
		}
		if exists == 0 {
			return fmt.Errorf("commit match %s: %w", matchID, ErrNotFound)
		}
		return fmt.Errorf("commit match %s: %w", matchID, ErrAlreadyRecorded)
	}

	for _, sk := range skills {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO skills (game_id, player_id, mu, sigma, updated_at) VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT (game_id, player_id) DO UPDATE SET mu = excluded.mu, sigma = excluded.sigma, updated_at = excluded.updated_at`,
			sk.GameID, sk.PlayerID, sk.Mu, sk.Sigma, sk.UpdatedAt.UnixNano()); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLStore) Close() error { return s.db.Close() }

func scanGame(row interface{ Scan(dest ...any) error }) (model.Game, error) {
	var g model.Game
	var golf int
	var created int64
	err := row.Scan(&g.ID, &g.Name, &g.Mu, &g.Sigma, &g.Beta, &g.Tau, &g.DrawProbability, &golf, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Game{}, ErrNotFound
	}
	if err != nil {
		return model.Game{}, err
	}
	g.GolfStyle = golf != 0
	g.CreatedAt = time.Unix(0, created)
	return g, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// isUniqueViolation detects sqlite primary-key and unique-index conflicts
// without depending on driver-specific error types.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
