package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure Go driver, no cgo
)

// Outcome of a finished game from our snake's point of view.
type Outcome string

const (
	OutcomeWon  Outcome = "won"
	OutcomeLost Outcome = "lost"
	OutcomeDraw Outcome = "draw"
)

// GameResult is one finished game.
type GameResult struct {
	GameID  string
	YouID   string
	Turns   int
	Outcome Outcome
	Length  int
	EndedAt time.Time
}

// Tally counts outcomes across all stored games.
type Tally struct {
	Won  int
	Lost int
	Draw int
}

// Results stores finished games in sqlite.
type Results struct {
	db *sql.DB
}

// OpenResults creates or opens the results database at path. A leading ~
// expands to the home directory.
func OpenResults(path string) (*Results, error) {
	if path != "" && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("results: cannot expand home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("results: create dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("results: open database: %w", err)
	}
	// sqlite has a single writer.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("results: connect: %w", err)
	}

	r := &Results{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("results: migration failed: %w", err)
	}
	return r, nil
}

func (r *Results) migrate() error {
	_, err := r.db.Exec(`
	CREATE TABLE IF NOT EXISTS games (
		id TEXT PRIMARY KEY,
		you_id TEXT NOT NULL,
		turns INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		length INTEGER NOT NULL,
		ended_at INTEGER NOT NULL -- unix nanoseconds
	);
	CREATE INDEX IF NOT EXISTS idx_games_ended_at ON games(ended_at);
	`)
	return err
}

// Close releases the database.
func (r *Results) Close() error {
	return r.db.Close()
}

// Save records a finished game, replacing any earlier row for the same id.
func (r *Results) Save(ctx context.Context, res GameResult) error {
	if res.GameID == "" {
		return fmt.Errorf("results: game id is empty")
	}
	if res.EndedAt.IsZero() {
		res.EndedAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO games (id, you_id, turns, outcome, length, ended_at) VALUES (?, ?, ?, ?, ?, ?)`,
		res.GameID, res.YouID, res.Turns, string(res.Outcome), res.Length, res.EndedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("results: save %s: %w", res.GameID, err)
	}
	return nil
}

// Recent returns up to limit games, newest first.
func (r *Results) Recent(ctx context.Context, limit int) ([]GameResult, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, you_id, turns, outcome, length, ended_at FROM games ORDER BY ended_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("results: query recent: %w", err)
	}
	defer rows.Close()

	var out []GameResult
	for rows.Next() {
		var (
			res     GameResult
			outcome string
			ended   int64
		)
		if err := rows.Scan(&res.GameID, &res.YouID, &res.Turns, &outcome, &res.Length, &ended); err != nil {
			return nil, fmt.Errorf("results: scan: %w", err)
		}
		res.Outcome = Outcome(outcome)
		res.EndedAt = time.Unix(0, ended)
		out = append(out, res)
	}
	return out, rows.Err()
}

// Tally counts wins, losses and draws.
func (r *Results) Tally(ctx context.Context) (Tally, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT outcome, COUNT(*) FROM games GROUP BY outcome`)
	if err != nil {
		return Tally{}, fmt.Errorf("results: query tally: %w", err)
	}
	defer rows.Close()

	var t Tally
	for rows.Next() {
		var (
			outcome string
			n       int
		)
		if err := rows.Scan(&outcome, &n); err != nil {
			return Tally{}, fmt.Errorf("results: scan: %w", err)
		}
		switch Outcome(outcome) {
		case OutcomeWon:
			t.Won = n
		case OutcomeLost:
			t.Lost = n
		case OutcomeDraw:
			t.Draw = n
		}
	}
	return t, rows.Err()
}
