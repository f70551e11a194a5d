// Package report summarises the decision journal with DuckDB, reading the
// parquet batches in place.
package report

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"
)

// GameSummary aggregates one game's journaled turns.
type GameSummary struct {
	GameID     string
	YouID      string
	Turns      int
	LastTurn   int
	MaxLength  int
	TailFollow int
	Trapped    int
	Moves      map[string]int
}

// Summarize reads every batch under dir and returns one summary per game,
// longest games first. An empty dir yields no summaries.
func Summarize(ctx context.Context, dir string) ([]GameSummary, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.parquet"))
	if err != nil {
		return nil, fmt.Errorf("glob journal: %w", err)
	}
	if len(files) == 0 {
		return nil, nil
	}

	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	defer db.Close()

	src := "read_parquet('" + escapeSQLString(filepath.Join(dir, "*.parquet")) + "')"

	rows, err := db.QueryContext(ctx, `
		SELECT
			game_id,
			any_value(you_id),
			COUNT(*)::INTEGER,
			MAX(turn)::INTEGER,
			MAX(length)::INTEGER,
			COUNT(*) FILTER (WHERE reason = 'tail')::INTEGER,
			COUNT(*) FILTER (WHERE reason = 'trapped')::INTEGER
		FROM `+src+`
		GROUP BY game_id
		ORDER BY 3 DESC, game_id`)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	var out []GameSummary
	index := make(map[string]int)
	for rows.Next() {
		var s GameSummary
		if err := rows.Scan(&s.GameID, &s.YouID, &s.Turns, &s.LastTurn, &s.MaxLength, &s.TailFollow, &s.Trapped); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		s.Moves = make(map[string]int)
		index[s.GameID] = len(out)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	moveRows, err := db.QueryContext(ctx, `
		SELECT game_id, move, COUNT(*)::INTEGER
		FROM `+src+`
		GROUP BY game_id, move`)
	if err != nil {
		return nil, fmt.Errorf("query moves: %w", err)
	}
	defer moveRows.Close()

	for moveRows.Next() {
		var (
			gameID, move string
			n            int
		)
		if err := moveRows.Scan(&gameID, &move, &n); err != nil {
			return nil, fmt.Errorf("scan moves: %w", err)
		}
		if i, ok := index[gameID]; ok {
			out[i].Moves[move] = n
		}
	}
	return out, moveRows.Err()
}

func escapeSQLString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
