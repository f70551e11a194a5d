package report

import (
	"context"
	"testing"

	"github.com/nickburris/battlesnake/store"
)

func TestSummarize(t *testing.T) {
	dir := t.TempDir()
	rows := []store.TurnRow{
		{GameID: "long", YouID: "me", Turn: 0, Length: 3, Move: "up", Reason: "filtered"},
		{GameID: "long", YouID: "me", Turn: 1, Length: 4, Move: "up", Reason: "filtered"},
		{GameID: "long", YouID: "me", Turn: 2, Length: 5, Move: "left", Reason: "tail"},
		{GameID: "short", YouID: "me", Turn: 0, Length: 3, Move: "down", Reason: "trapped"},
	}
	if _, err := store.WriteTurnBatch(dir, rows[:2]); err != nil {
		t.Fatalf("WriteTurnBatch: %v", err)
	}
	if _, err := store.WriteTurnBatch(dir, rows[2:]); err != nil {
		t.Fatalf("WriteTurnBatch: %v", err)
	}

	got, err := Summarize(context.Background(), dir)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("summaries=%d want=2", len(got))
	}

	long := got[0]
	if long.GameID != "long" || long.Turns != 3 || long.LastTurn != 2 || long.MaxLength != 5 || long.TailFollow != 1 || long.Trapped != 0 {
		t.Fatalf("long=%+v", long)
	}
	if long.Moves["up"] != 2 || long.Moves["left"] != 1 {
		t.Fatalf("long moves=%v", long.Moves)
	}

	short := got[1]
	if short.GameID != "short" || short.Turns != 1 || short.Trapped != 1 {
		t.Fatalf("short=%+v", short)
	}
}

func TestSummarize_EmptyDir(t *testing.T) {
	got, err := Summarize(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("summaries=%v want none", got)
	}
}
