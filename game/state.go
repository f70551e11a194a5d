// Package game defines the per-turn snapshot types and the occupancy board
// the decision engine reads.
//
// Coordinates follow Battlesnake conventions: (0,0) is bottom-left, x grows
// rightward and y grows upward.
package game

import (
	"errors"
	"fmt"
)

// ErrContractViolation marks input that a well-behaved collaborator never
// sends: out-of-range coordinates, unknown or duplicate game ids.
var ErrContractViolation = errors.New("contract violation")

// Point is a board coordinate.
type Point struct {
	X int
	Y int
}

// Add returns p offset by d.
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Manhattan returns the taxicab distance between p and q.
func Manhattan(p, q Point) int {
	return abs(p.X-q.X) + abs(p.Y-q.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Snake is one snake on the board. Body[0] is the head.
//
// The last two segments may coincide for one turn after eating, so callers
// must not assume body segments are distinct.
type Snake struct {
	Id     string
	Health int
	Body   []Point
}

// Head returns the first body segment.
func (s *Snake) Head() Point {
	return s.Body[0]
}

// Tail returns the last body segment.
func (s *Snake) Tail() Point {
	return s.Body[len(s.Body)-1]
}

// Length is the number of body segments, stacked ones included.
func (s *Snake) Length() int {
	return len(s.Body)
}

// GameState is the complete snapshot for one turn.
// YouId selects the snake under our control.
type GameState struct {
	Width  int
	Height int
	Snakes []Snake
	Food   []Point
	YouId  string
	Turn   int
}

// You returns the controlled snake, or nil if it is not on the board.
func (s *GameState) You() *Snake {
	for i := range s.Snakes {
		if s.Snakes[i].Id == s.YouId {
			return &s.Snakes[i]
		}
	}
	return nil
}

// InBounds reports whether p lies on the board.
func (s *GameState) InBounds(p Point) bool {
	return p.X >= 0 && p.X < s.Width && p.Y >= 0 && p.Y < s.Height
}

// Validate checks the snapshot invariants the engine relies on. Every
// failure wraps ErrContractViolation.
func (s *GameState) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: invalid board dimensions %dx%d", ErrContractViolation, s.Width, s.Height)
	}
	for _, snake := range s.Snakes {
		if len(snake.Body) == 0 {
			return fmt.Errorf("%w: snake %q has no body", ErrContractViolation, snake.Id)
		}
		for i, p := range snake.Body {
			if !s.InBounds(p) {
				return fmt.Errorf("%w: snake %q segment %d at (%d,%d) outside %dx%d board",
					ErrContractViolation, snake.Id, i, p.X, p.Y, s.Width, s.Height)
			}
		}
	}
	for _, f := range s.Food {
		if !s.InBounds(f) {
			return fmt.Errorf("%w: food at (%d,%d) outside %dx%d board", ErrContractViolation, f.X, f.Y, s.Width, s.Height)
		}
	}
	if s.You() == nil {
		return fmt.Errorf("%w: snake %q not on board", ErrContractViolation, s.YouId)
	}
	return nil
}

// Clone performs a deep copy of the game state.
func (s *GameState) Clone() *GameState {
	if s == nil {
		return nil
	}

	out := &GameState{
		Width:  s.Width,
		Height: s.Height,
		YouId:  s.YouId,
		Turn:   s.Turn,
	}

	if len(s.Food) > 0 {
		out.Food = make([]Point, len(s.Food))
		copy(out.Food, s.Food)
	}

	if len(s.Snakes) > 0 {
		out.Snakes = make([]Snake, len(s.Snakes))
		for i := range s.Snakes {
			out.Snakes[i] = Snake{Id: s.Snakes[i].Id, Health: s.Snakes[i].Health}
			if len(s.Snakes[i].Body) > 0 {
				out.Snakes[i].Body = make([]Point, len(s.Snakes[i].Body))
				copy(out.Snakes[i].Body, s.Snakes[i].Body)
			}
		}
	}

	return out
}
