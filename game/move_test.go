package game

import "testing"

func TestDestination(t *testing.T) {
	head := Point{X: 3, Y: 3}
	want := map[Move]Point{
		MoveUp:    {X: 3, Y: 4},
		MoveDown:  {X: 3, Y: 2},
		MoveLeft:  {X: 2, Y: 3},
		MoveRight: {X: 4, Y: 3},
	}
	for m, p := range want {
		if got := Destination(head, m); got != p {
			t.Fatalf("Destination(%v, %s)=%v want=%v", head, m, got, p)
		}
	}
}

func TestParseMove_RoundTrip(t *testing.T) {
	for _, m := range AllMoves {
		got, err := ParseMove(m.String())
		if err != nil {
			t.Fatalf("ParseMove(%q): %v", m, err)
		}
		if got != m {
			t.Fatalf("ParseMove(%q)=%s want=%s", m, got, m)
		}
	}
	if _, err := ParseMove("sideways"); err == nil {
		t.Fatalf("expected error for unknown move")
	}
}

func TestMoveBetween(t *testing.T) {
	p := Point{X: 1, Y: 1}
	if m, ok := MoveBetween(p, Point{X: 1, Y: 0}); !ok || m != MoveDown {
		t.Fatalf("MoveBetween down=%s,%v", m, ok)
	}
	if _, ok := MoveBetween(p, Point{X: 2, Y: 2}); ok {
		t.Fatalf("diagonal should not be adjacent")
	}
	if _, ok := MoveBetween(p, p); ok {
		t.Fatalf("same point should not be adjacent")
	}
}
