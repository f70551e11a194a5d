package engine

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/nickburris/battlesnake/game"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(seed int64) *Engine {
	cfg := DefaultConfig()
	cfg.Seed = seed
	return New(cfg, quietLogger())
}

func TestDecide_HeadsTowardNearestFood(t *testing.T) {
	state := &game.GameState{
		Width: 7, Height: 7, YouId: "me",
		Snakes: []game.Snake{{Id: "me", Health: 100, Body: []game.Point{{X: 3, Y: 3}, {X: 3, Y: 4}, {X: 3, Y: 5}}}},
		Food:   []game.Point{{X: 0, Y: 0}},
	}

	for seed := int64(1); seed <= 20; seed++ {
		d, err := newTestEngine(seed).Decide(state)
		if err != nil {
			t.Fatalf("Decide: %v", err)
		}
		if !equalMoves(d.Possible, []game.Move{game.MoveDown, game.MoveLeft, game.MoveRight}) {
			t.Fatalf("possible=%v want=[down left right]", d.Possible)
		}
		if !equalMoves(d.Candidates, []game.Move{game.MoveDown, game.MoveLeft}) {
			t.Fatalf("candidates=%v want=[down left]", d.Candidates)
		}
		if d.Move != game.MoveDown && d.Move != game.MoveLeft {
			t.Fatalf("seed=%d move=%s want left or down", seed, d.Move)
		}
		if d.Reason != ReasonFiltered {
			t.Fatalf("reason=%s want=%s", d.Reason, ReasonFiltered)
		}
	}
}

func TestDecide_TrappedFallsBackToUp(t *testing.T) {
	// Head in the centre of a 3x3 board, every neighbour is our own body and
	// the tail sits diagonally so it cannot be followed.
	state := &game.GameState{
		Width: 3, Height: 3, YouId: "me",
		Snakes: []game.Snake{{Id: "me", Health: 100, Body: []game.Point{
			{X: 1, Y: 1}, {X: 1, Y: 2}, {X: 2, Y: 2}, {X: 2, Y: 1}, {X: 2, Y: 0},
			{X: 1, Y: 0}, {X: 0, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: 2},
		}}},
	}

	e := newTestEngine(1)
	d, err := e.Decide(state)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if d.Move != game.MoveUp || d.Reason != ReasonTrapped {
		t.Fatalf("move=%s reason=%s want=up trapped", d.Move, d.Reason)
	}
	if len(d.Possible) != 0 || len(d.Candidates) != 0 {
		t.Fatalf("possible=%v candidates=%v want none", d.Possible, d.Candidates)
	}
	if e.Growing() {
		t.Fatalf("off-board fallback should not set growing")
	}
}

func TestDecide_FollowsTail(t *testing.T) {
	state := &game.GameState{Width: 5, Height: 5, YouId: "me", Snakes: []game.Snake{squareSnake(100)}}

	d, err := newTestEngine(1).Decide(state)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if d.Move != game.MoveRight || d.Reason != ReasonTail {
		t.Fatalf("move=%s reason=%s want=right tail", d.Move, d.Reason)
	}
}

func TestDecide_NeverFollowsTailWhileGrowing(t *testing.T) {
	state := &game.GameState{Width: 5, Height: 5, YouId: "me", Snakes: []game.Snake{squareSnake(100)}}

	for seed := int64(1); seed <= 20; seed++ {
		e := newTestEngine(seed)
		e.justAte = true
		d, err := e.Decide(state)
		if err != nil {
			t.Fatalf("Decide: %v", err)
		}
		if d.Reason == ReasonTail || d.Move == game.MoveRight {
			t.Fatalf("seed=%d move=%s reason=%s: followed tail while growing", seed, d.Move, d.Reason)
		}
		if !d.Growing {
			t.Fatalf("decision should record growing")
		}
	}
}

func TestDecide_TailShortcutConditions(t *testing.T) {
	cases := map[string]*game.GameState{
		"low health": {
			Width: 5, Height: 5, YouId: "me",
			Snakes: []game.Snake{squareSnake(50)},
		},
		"outgrown": {
			Width: 7, Height: 7, YouId: "me",
			Snakes: []game.Snake{
				squareSnake(100),
				{Id: "them", Health: 100, Body: []game.Point{{X: 6, Y: 6}, {X: 6, Y: 5}, {X: 6, Y: 4}, {X: 6, Y: 3}, {X: 6, Y: 2}}},
			},
		},
		"contested tail": {
			Width: 7, Height: 7, YouId: "me",
			Snakes: []game.Snake{
				squareSnake(100),
				{Id: "them", Health: 100, Body: []game.Point{{X: 3, Y: 1}, {X: 4, Y: 1}, {X: 4, Y: 0}}},
			},
		},
	}
	for name, state := range cases {
		d, err := newTestEngine(1).Decide(state)
		if err != nil {
			t.Fatalf("%s: Decide: %v", name, err)
		}
		if d.Reason == ReasonTail {
			t.Fatalf("%s: tail shortcut taken", name)
		}
	}
}

func TestDecide_PrefersLargerRegion(t *testing.T) {
	// Left opens a two-cell pocket, right a one-cell pocket.
	state := &game.GameState{
		Width: 5, Height: 5, YouId: "me",
		Snakes: []game.Snake{{Id: "me", Health: 100, Body: []game.Point{
			{X: 1, Y: 1}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}, {X: 3, Y: 1},
			{X: 3, Y: 2}, {X: 2, Y: 2}, {X: 1, Y: 2}, {X: 0, Y: 2},
		}}},
	}

	for seed := int64(1); seed <= 10; seed++ {
		d, err := newTestEngine(seed).Decide(state)
		if err != nil {
			t.Fatalf("Decide: %v", err)
		}
		if d.Move != game.MoveLeft {
			t.Fatalf("seed=%d move=%s candidates=%v want=left", seed, d.Move, d.Candidates)
		}
	}
}

func TestDecide_AvoidsLosingFight(t *testing.T) {
	state := fightState(9)
	// Food straight ahead into the fight.
	state.Food = []game.Point{{X: 6, Y: 5}}

	for seed := int64(1); seed <= 20; seed++ {
		d, err := newTestEngine(seed).Decide(state)
		if err != nil {
			t.Fatalf("Decide: %v", err)
		}
		if containsMove(d.Candidates, game.MoveRight) || d.Move == game.MoveRight {
			t.Fatalf("seed=%d move=%s candidates=%v: walked into losing fight", seed, d.Move, d.Candidates)
		}
	}
}

func TestDecide_CandidatesIdempotent(t *testing.T) {
	state := fightState(9)
	state.Food = []game.Point{{X: 0, Y: 10}, {X: 9, Y: 9}}

	for _, growing := range []bool{false, true} {
		e := newTestEngine(7)
		e.justAte = growing
		first, err := e.Decide(state)
		if err != nil {
			t.Fatalf("Decide: %v", err)
		}
		e.justAte = growing
		second, err := e.Decide(state)
		if err != nil {
			t.Fatalf("Decide: %v", err)
		}
		if !equalMoves(first.Candidates, second.Candidates) {
			t.Fatalf("growing=%v candidates differ: %v vs %v", growing, first.Candidates, second.Candidates)
		}
	}
}

func TestDecide_EatingSetsGrowing(t *testing.T) {
	state := &game.GameState{
		Width: 3, Height: 1, YouId: "me",
		Snakes: []game.Snake{{Id: "me", Health: 60, Body: []game.Point{{X: 1, Y: 0}}}},
		Food:   []game.Point{{X: 0, Y: 0}},
	}

	e := newTestEngine(1)
	d, err := e.Decide(state)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if d.Move != game.MoveLeft {
		t.Fatalf("move=%s want=left", d.Move)
	}
	if !e.Growing() {
		t.Fatalf("eating should set growing")
	}

	state.Food = nil
	if _, err := e.Decide(state); err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if e.Growing() {
		t.Fatalf("growing should clear when no food is eaten")
	}
}

func TestDecide_BadSnapshotLeavesStateAlone(t *testing.T) {
	e := newTestEngine(1)
	e.justAte = true

	state := &game.GameState{
		Width: 3, Height: 3, YouId: "me",
		Snakes: []game.Snake{{Id: "me", Health: 100, Body: []game.Point{{X: 5, Y: 5}}}},
	}
	_, err := e.Move(state)
	if !errors.Is(err, game.ErrContractViolation) {
		t.Fatalf("err=%v want ErrContractViolation", err)
	}
	if !e.Growing() {
		t.Fatalf("failed move changed growing")
	}
}

func BenchmarkDecide(b *testing.B) {
	state := fightState(9)
	state.Food = []game.Point{{X: 0, Y: 10}, {X: 9, Y: 9}}
	e := newTestEngine(1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.justAte = false
		if _, err := e.Decide(state); err != nil {
			b.Fatalf("Decide: %v", err)
		}
	}
}
