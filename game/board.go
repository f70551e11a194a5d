package game

import "fmt"

// Cell is the occupancy state of a single board square for one turn.
type Cell int8

const (
	CellEmpty Cell = iota
	CellBody
	CellHead
	CellFood
)

func (c Cell) String() string {
	switch c {
	case CellEmpty:
		return "empty"
	case CellBody:
		return "body"
	case CellHead:
		return "head"
	case CellFood:
		return "food"
	default:
		return fmt.Sprintf("Cell(%d)", int8(c))
	}
}

// Board is a Width x Height occupancy grid derived from one snapshot.
// Cells are stored row-major: index = y*Width + x.
type Board struct {
	Width  int
	Height int
	Cells  []Cell
}

// NewBoard builds the occupancy grid for state. Body segments are marked
// first, then each snake's head, then food, so later marks win.
//
// Out-of-range coordinates are a collaborator bug and fail with an error
// wrapping ErrContractViolation.
func NewBoard(state *GameState) (*Board, error) {
	if err := state.Validate(); err != nil {
		return nil, err
	}

	b := &Board{
		Width:  state.Width,
		Height: state.Height,
		Cells:  make([]Cell, state.Width*state.Height),
	}
	for _, s := range state.Snakes {
		for _, p := range s.Body {
			b.set(p, CellBody)
		}
		b.set(s.Head(), CellHead)
	}
	for _, f := range state.Food {
		b.set(f, CellFood)
	}
	return b, nil
}

func (b *Board) index(p Point) int {
	return p.Y*b.Width + p.X
}

func (b *Board) set(p Point, c Cell) {
	b.Cells[b.index(p)] = c
}

// InRange reports whether p lies on the board.
func (b *Board) InRange(p Point) bool {
	return p.X >= 0 && p.X < b.Width && p.Y >= 0 && p.Y < b.Height
}

// At returns the cell at p. p must be in range.
func (b *Board) At(p Point) Cell {
	return b.Cells[b.index(p)]
}

// Unoccupied reports whether p is on the board and holds nothing a snake
// would collide with. Off-board points are never open.
func (b *Board) Unoccupied(p Point) bool {
	if !b.InRange(p) {
		return false
	}
	c := b.At(p)
	return c == CellEmpty || c == CellFood
}

// Clone returns an independent copy of the board.
func (b *Board) Clone() *Board {
	out := &Board{Width: b.Width, Height: b.Height, Cells: make([]Cell, len(b.Cells))}
	copy(out.Cells, b.Cells)
	return out
}

// String renders the board top row first: '.' empty, 'o' body, 'H' head,
// 'F' food.
func (b *Board) String() string {
	buf := make([]byte, 0, (b.Width+1)*b.Height)
	for y := b.Height - 1; y >= 0; y-- {
		for x := 0; x < b.Width; x++ {
			switch b.At(Point{X: x, Y: y}) {
			case CellBody:
				buf = append(buf, 'o')
			case CellHead:
				buf = append(buf, 'H')
			case CellFood:
				buf = append(buf, 'F')
			case CellEmpty:
				buf = append(buf, '.')
			default:
				buf = append(buf, '?')
			}
		}
		buf = append(buf, '\n')
	}
	return string(buf)
}
