package store

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/nickburris/battlesnake/engine"
	"github.com/nickburris/battlesnake/game"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleState(turn int) *game.GameState {
	return &game.GameState{
		Width: 11, Height: 11, YouId: "me", Turn: turn,
		Snakes: []game.Snake{
			{Id: "me", Health: 80, Body: []game.Point{{X: 5, Y: 5}, {X: 5, Y: 4}, {X: 5, Y: 3}}},
			{Id: "them", Health: 90, Body: []game.Point{{X: 1, Y: 1}, {X: 1, Y: 2}}},
		},
		Food: []game.Point{{X: 9, Y: 9}},
	}
}

func sampleDecision() engine.Decision {
	return engine.Decision{
		Move:       game.MoveLeft,
		Possible:   []game.Move{game.MoveUp, game.MoveLeft, game.MoveRight},
		Candidates: []game.Move{game.MoveLeft},
		Reason:     engine.ReasonFiltered,
	}
}

func parquetFiles(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "*.parquet"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	return matches
}

func TestMoveMask(t *testing.T) {
	if got := MoveMask([]game.Move{game.MoveUp, game.MoveRight}); got != 0b1001 {
		t.Fatalf("mask=%b want=1001", got)
	}
	if got := MoveMask(nil); got != 0 {
		t.Fatalf("mask=%b want=0", got)
	}
}

func TestNewTurnRow(t *testing.T) {
	row := NewTurnRow("g1", sampleState(7), sampleDecision())
	if row.GameID != "g1" || row.Turn != 7 || row.YouID != "me" {
		t.Fatalf("identity fields wrong: %+v", row)
	}
	if row.Health != 80 || row.Length != 3 || row.Snakes != 2 || row.Food != 1 {
		t.Fatalf("snapshot fields wrong: %+v", row)
	}
	if row.Move != "left" || row.Reason != "filtered" || row.Possible != 0b1101 || row.Candidates != 0b0100 {
		t.Fatalf("decision fields wrong: %+v", row)
	}
}

func TestJournal_FlushesAfterBatchOfGames(t *testing.T) {
	dir := t.TempDir()
	j, err := OpenJournal(dir, 2, quietLogger())
	if err != nil {
		t.Fatalf("OpenJournal: %v", err)
	}

	for turn := 0; turn < 3; turn++ {
		j.Record("g1", sampleState(turn), sampleDecision())
		j.Record("g2", sampleState(turn), sampleDecision())
	}

	path, err := j.Finish("g1")
	if err != nil || path != "" {
		t.Fatalf("first Finish path=%q err=%v want no batch", path, err)
	}
	if files := parquetFiles(t, dir); len(files) != 0 {
		t.Fatalf("files=%v want none", files)
	}

	path, err = j.Finish("g2")
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if path == "" {
		t.Fatalf("expected a batch after two games")
	}

	rows, err := ReadTurnBatch(path)
	if err != nil {
		t.Fatalf("ReadTurnBatch: %v", err)
	}
	if len(rows) != 6 {
		t.Fatalf("rows=%d want=6", len(rows))
	}
	if tmp, _ := os.ReadDir(filepath.Join(dir, "tmp")); len(tmp) != 0 {
		t.Fatalf("tmp dir not empty: %d entries", len(tmp))
	}
}

func TestJournal_CloseFlushesOpenGames(t *testing.T) {
	dir := t.TempDir()
	j, err := OpenJournal(dir, 100, quietLogger())
	if err != nil {
		t.Fatalf("OpenJournal: %v", err)
	}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			id := string(rune('a' + g))
			for turn := 0; turn < 5; turn++ {
				j.Record(id, sampleState(turn), sampleDecision())
			}
		}(g)
	}
	wg.Wait()

	if err := j.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	files := parquetFiles(t, dir)
	if len(files) != 1 {
		t.Fatalf("files=%v want one batch", files)
	}
	rows, err := ReadTurnBatch(files[0])
	if err != nil {
		t.Fatalf("ReadTurnBatch: %v", err)
	}
	if len(rows) != 40 {
		t.Fatalf("rows=%d want=40", len(rows))
	}
}

func TestResults_SaveRecentTally(t *testing.T) {
	ctx := context.Background()
	r, err := OpenResults(filepath.Join(t.TempDir(), "nested", "results.db"))
	if err != nil {
		t.Fatalf("OpenResults: %v", err)
	}
	defer r.Close()

	base := time.Unix(1_700_000_000, 0)
	games := []GameResult{
		{GameID: "g1", YouID: "me", Turns: 120, Outcome: OutcomeWon, Length: 14, EndedAt: base},
		{GameID: "g2", YouID: "me", Turns: 40, Outcome: OutcomeLost, Length: 5, EndedAt: base.Add(time.Minute)},
		{GameID: "g3", YouID: "me", Turns: 80, Outcome: OutcomeLost, Length: 9, EndedAt: base.Add(2 * time.Minute)},
	}
	for _, g := range games {
		if err := r.Save(ctx, g); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	// Replacing a game keeps one row.
	games[2].Outcome = OutcomeDraw
	if err := r.Save(ctx, games[2]); err != nil {
		t.Fatalf("Save: %v", err)
	}

	recent, err := r.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 2 || recent[0].GameID != "g3" || recent[1].GameID != "g2" {
		t.Fatalf("recent=%+v want g3,g2", recent)
	}
	if recent[0].Outcome != OutcomeDraw || recent[0].Turns != 80 || !recent[0].EndedAt.Equal(games[2].EndedAt) {
		t.Fatalf("recent[0]=%+v", recent[0])
	}

	tally, err := r.Tally(ctx)
	if err != nil {
		t.Fatalf("Tally: %v", err)
	}
	if tally != (Tally{Won: 1, Lost: 1, Draw: 1}) {
		t.Fatalf("tally=%+v want 1/1/1", tally)
	}

	if err := r.Save(ctx, GameResult{}); err == nil {
		t.Fatalf("expected error for empty game id")
	}
}
