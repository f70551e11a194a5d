package game

import "fmt"

// Move is one of the four cardinal directions.
type Move int

const (
	MoveUp Move = iota
	MoveDown
	MoveLeft
	MoveRight
)

// AllMoves lists the moves in their canonical order.
var AllMoves = [4]Move{MoveUp, MoveDown, MoveLeft, MoveRight}

var moveNames = [4]string{"up", "down", "left", "right"}

var moveOffsets = [4]Point{
	MoveUp:    {X: 0, Y: 1},
	MoveDown:  {X: 0, Y: -1},
	MoveLeft:  {X: -1, Y: 0},
	MoveRight: {X: 1, Y: 0},
}

func (m Move) String() string {
	if m < MoveUp || m > MoveRight {
		return fmt.Sprintf("Move(%d)", int(m))
	}
	return moveNames[m]
}

// Offset returns the unit vector for m.
func (m Move) Offset() Point {
	return moveOffsets[m]
}

// ParseMove converts an API move name into a Move.
func ParseMove(s string) (Move, error) {
	for i, name := range moveNames {
		if name == s {
			return Move(i), nil
		}
	}
	return MoveUp, fmt.Errorf("unknown move %q", s)
}

// Destination returns where a head at p lands after m.
func Destination(p Point, m Move) Point {
	return p.Add(m.Offset())
}

// MoveBetween returns the move that steps from p to an adjacent q.
// The bool is false when q is not exactly one step away along a single axis.
func MoveBetween(p, q Point) (Move, bool) {
	for _, m := range AllMoves {
		if Destination(p, m) == q {
			return m, true
		}
	}
	return MoveUp, false
}
