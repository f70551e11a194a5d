// Package store persists what the snake did: a parquet journal of every
// decision and a sqlite table of finished games.
package store

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"github.com/nickburris/battlesnake/engine"
	"github.com/nickburris/battlesnake/game"
)

// TurnRow is one decided turn.
//
// Possible and Candidates are move bitmasks: bit 0=Up, 1=Down, 2=Left,
// 3=Right.
type TurnRow struct {
	GameID     string `parquet:"game_id,dict"`
	Turn       int32  `parquet:"turn"`
	YouID      string `parquet:"you_id,dict"`
	Width      int32  `parquet:"width"`
	Height     int32  `parquet:"height"`
	Health     int32  `parquet:"health"`
	Length     int32  `parquet:"length"`
	Snakes     int32  `parquet:"snakes"`
	Food       int32  `parquet:"food"`
	Move       string `parquet:"move,dict"`
	Reason     string `parquet:"reason,dict"`
	Possible   int32  `parquet:"possible"`
	Candidates int32  `parquet:"candidates"`
	Growing    bool   `parquet:"growing"`
	Critical   bool   `parquet:"critical"`
}

// MoveMask packs a move list into a bitmask.
func MoveMask(moves []game.Move) int32 {
	var mask int32
	for _, m := range moves {
		mask |= 1 << uint(m)
	}
	return mask
}

// NewTurnRow flattens a decision and the snapshot it was made from.
func NewTurnRow(gameID string, state *game.GameState, d engine.Decision) TurnRow {
	row := TurnRow{
		GameID:     gameID,
		Turn:       int32(state.Turn),
		YouID:      state.YouId,
		Width:      int32(state.Width),
		Height:     int32(state.Height),
		Snakes:     int32(len(state.Snakes)),
		Food:       int32(len(state.Food)),
		Move:       d.Move.String(),
		Reason:     string(d.Reason),
		Possible:   MoveMask(d.Possible),
		Candidates: MoveMask(d.Candidates),
		Growing:    d.Growing,
		Critical:   d.Critical,
	}
	if you := state.You(); you != nil {
		row.Health = int32(you.Health)
		row.Length = int32(you.Length())
	}
	return row
}

// Journal buffers decision rows per game and writes finished games out in
// parquet batches. It is safe for concurrent games.
type Journal struct {
	dir        string
	flushGames int
	logger     *slog.Logger

	mu           sync.Mutex
	open         map[string][]TurnRow
	pending      []TurnRow
	pendingGames int
}

// OpenJournal prepares dir for batch files. A batch is written once
// flushGames finished games are pending.
func OpenJournal(dir string, flushGames int, logger *slog.Logger) (*Journal, error) {
	if dir == "" {
		return nil, fmt.Errorf("journal dir is required")
	}
	if flushGames <= 0 {
		flushGames = 50
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}
	return &Journal{
		dir:        dir,
		flushGames: flushGames,
		logger:     logger,
		open:       make(map[string][]TurnRow),
	}, nil
}

// Record appends one decision for gameID.
func (j *Journal) Record(gameID string, state *game.GameState, d engine.Decision) {
	row := NewTurnRow(gameID, state, d)
	j.mu.Lock()
	j.open[gameID] = append(j.open[gameID], row)
	j.mu.Unlock()
}

// Finish marks gameID as complete and writes a batch if enough games are
// pending. It returns the batch path, or "" when nothing was written.
func (j *Journal) Finish(gameID string) (string, error) {
	j.mu.Lock()
	rows, ok := j.open[gameID]
	delete(j.open, gameID)
	if ok {
		j.pending = append(j.pending, rows...)
		j.pendingGames++
	}
	if j.pendingGames < j.flushGames {
		j.mu.Unlock()
		return "", nil
	}
	batch, games := j.takePendingLocked()
	j.mu.Unlock()

	return j.write(batch, games)
}

// Flush writes all pending games regardless of the batch size.
func (j *Journal) Flush() (string, error) {
	j.mu.Lock()
	batch, games := j.takePendingLocked()
	j.mu.Unlock()
	return j.write(batch, games)
}

// Close finishes every game still open and flushes.
func (j *Journal) Close() error {
	j.mu.Lock()
	for id, rows := range j.open {
		j.pending = append(j.pending, rows...)
		j.pendingGames++
		delete(j.open, id)
	}
	j.mu.Unlock()
	_, err := j.Flush()
	return err
}

func (j *Journal) takePendingLocked() ([]TurnRow, int) {
	batch, games := j.pending, j.pendingGames
	j.pending = nil
	j.pendingGames = 0
	return batch, games
}

func (j *Journal) write(rows []TurnRow, games int) (string, error) {
	if len(rows) == 0 {
		return "", nil
	}
	path, err := WriteTurnBatch(j.dir, rows)
	if err != nil {
		j.logger.Error("journal flush failed", "games", games, "rows", len(rows), "error", err)
		return "", err
	}
	j.logger.Info("journal flushed", "games", games, "rows", len(rows), "path", path)
	return path, nil
}

// WriteTurnBatch writes rows into outDir/tmp and then atomically moves the
// file into outDir, so readers never see a partial batch.
func WriteTurnBatch(outDir string, rows []TurnRow) (string, error) {
	tmpDir := filepath.Join(outDir, "tmp")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return "", fmt.Errorf("create tmp dir: %w", err)
	}

	name := fmt.Sprintf("decisions_%d_%s.parquet", time.Now().UnixNano(), uuid.NewString()[:8])
	finalPath := filepath.Join(outDir, name)
	tmpPath := filepath.Join(tmpDir, name+".tmp")
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", "decision_turn_v1"),
	); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("write parquet: %w", err)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("rename parquet: %w", err)
	}
	return finalPath, nil
}

// ReadTurnBatch loads every row from one batch file.
func ReadTurnBatch(path string) ([]TurnRow, error) {
	rows, err := parquet.ReadFile[TurnRow](path)
	if err != nil {
		return nil, fmt.Errorf("read parquet %s: %w", path, err)
	}
	return rows, nil
}
