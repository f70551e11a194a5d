package game

import (
	"errors"
	"testing"
)

func TestNewBoard_HeadOverwritesBodyAndFoodWins(t *testing.T) {
	state := &GameState{
		Width:  5,
		Height: 5,
		YouId:  "me",
		Snakes: []Snake{
			{Id: "me", Health: 90, Body: []Point{{X: 2, Y: 2}, {X: 2, Y: 1}, {X: 2, Y: 1}}},
			// Head listed again later in the body: head must still win.
			{Id: "them", Health: 90, Body: []Point{{X: 4, Y: 4}, {X: 4, Y: 3}, {X: 4, Y: 4}}},
		},
		Food: []Point{{X: 0, Y: 0}, {X: 2, Y: 1}},
	}

	b, err := NewBoard(state)
	if err != nil {
		t.Fatalf("NewBoard: %v", err)
	}
	t.Logf("board:\n%s", b)

	cases := []struct {
		p    Point
		want Cell
	}{
		{Point{X: 2, Y: 2}, CellHead},
		{Point{X: 4, Y: 4}, CellHead},
		{Point{X: 4, Y: 3}, CellBody},
		{Point{X: 0, Y: 0}, CellFood},
		{Point{X: 2, Y: 1}, CellFood},
		{Point{X: 1, Y: 1}, CellEmpty},
	}
	for _, c := range cases {
		if got := b.At(c.p); got != c.want {
			t.Fatalf("cell %v=%v want=%v", c.p, got, c.want)
		}
	}
}

func TestNewBoard_OutOfRangeFailsFast(t *testing.T) {
	cases := map[string]*GameState{
		"body": {
			Width: 3, Height: 3, YouId: "me",
			Snakes: []Snake{{Id: "me", Health: 10, Body: []Point{{X: 0, Y: 0}, {X: -1, Y: 0}}}},
		},
		"food": {
			Width: 3, Height: 3, YouId: "me",
			Snakes: []Snake{{Id: "me", Health: 10, Body: []Point{{X: 0, Y: 0}}}},
			Food:   []Point{{X: 3, Y: 1}},
		},
		"dimensions": {
			Width: 0, Height: 3, YouId: "me",
			Snakes: []Snake{{Id: "me", Health: 10, Body: []Point{{X: 0, Y: 0}}}},
		},
		"missing you": {
			Width: 3, Height: 3, YouId: "ghost",
			Snakes: []Snake{{Id: "me", Health: 10, Body: []Point{{X: 0, Y: 0}}}},
		},
	}
	for name, state := range cases {
		_, err := NewBoard(state)
		if !errors.Is(err, ErrContractViolation) {
			t.Fatalf("%s: err=%v want ErrContractViolation", name, err)
		}
	}
}

func TestBoard_UnoccupiedAndInRange(t *testing.T) {
	state := &GameState{
		Width: 3, Height: 3, YouId: "me",
		Snakes: []Snake{{Id: "me", Health: 10, Body: []Point{{X: 1, Y: 1}, {X: 1, Y: 0}}}},
		Food:   []Point{{X: 2, Y: 2}},
	}
	b, err := NewBoard(state)
	if err != nil {
		t.Fatalf("NewBoard: %v", err)
	}

	if b.Unoccupied(Point{X: 1, Y: 1}) {
		t.Fatalf("head should be occupied")
	}
	if b.Unoccupied(Point{X: 1, Y: 0}) {
		t.Fatalf("body should be occupied")
	}
	if !b.Unoccupied(Point{X: 2, Y: 2}) {
		t.Fatalf("food should be open")
	}
	if !b.Unoccupied(Point{X: 0, Y: 0}) {
		t.Fatalf("empty should be open")
	}
	for _, p := range []Point{{X: -1, Y: 0}, {X: 3, Y: 0}, {X: 0, Y: 3}, {X: 0, Y: -1}} {
		if b.InRange(p) || b.Unoccupied(p) {
			t.Fatalf("%v should be off-board", p)
		}
	}
}

func TestBoard_CloneIsIndependent(t *testing.T) {
	state := &GameState{
		Width: 2, Height: 2, YouId: "me",
		Snakes: []Snake{{Id: "me", Health: 10, Body: []Point{{X: 0, Y: 0}}}},
	}
	b, err := NewBoard(state)
	if err != nil {
		t.Fatalf("NewBoard: %v", err)
	}
	c := b.Clone()
	c.Cells[0] = CellEmpty
	if b.At(Point{X: 0, Y: 0}) != CellHead {
		t.Fatalf("clone mutation leaked into original")
	}
}
