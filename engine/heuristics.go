package engine

import "github.com/nickburris/battlesnake/game"

// unknownLength is returned by lengthOfEnemy when no enemy head sits on the
// queried point.
const unknownLength = -1

// turn holds everything derived from one snapshot. It lives for a single
// Decide call and is never shared between games.
type turn struct {
	cfg     Config
	state   *game.GameState
	board   *game.Board
	you     *game.Snake
	head    game.Point
	growing bool

	tail    game.Move
	hasTail bool

	region     [4]int
	regionDone [4]bool
}

func newTurn(state *game.GameState, growing bool, cfg Config) (*turn, error) {
	board, err := game.NewBoard(state)
	if err != nil {
		return nil, err
	}
	you := state.You()
	t := &turn{
		cfg:     cfg,
		state:   state,
		board:   board,
		you:     you,
		head:    you.Head(),
		growing: growing,
	}
	t.tail, t.hasTail = t.findTail()
	return t, nil
}

func (t *turn) dest(m game.Move) game.Point {
	return game.Destination(t.head, m)
}

// tailVacates reports whether our tail cell will be empty after this move.
// It stays put while growing, and a stacked tail only loses one segment.
func (t *turn) tailVacates() bool {
	if t.growing {
		return false
	}
	body := t.you.Body
	if len(body) < 2 {
		return true
	}
	return body[len(body)-1] != body[len(body)-2]
}

// possible reports whether m does not immediately collide. Stepping onto our
// own tail is allowed when the tail moves away this turn.
func (t *turn) possible(m game.Move) bool {
	if t.board.Unoccupied(t.dest(m)) {
		return true
	}
	return t.hasTail && m == t.tail && t.tailVacates()
}

func (t *turn) possibleMoves() []game.Move {
	moves := make([]game.Move, 0, 4)
	for _, m := range game.AllMoves {
		if t.possible(m) {
			moves = append(moves, m)
		}
	}
	return moves
}

func (t *turn) willEat(m game.Move) bool {
	p := t.dest(m)
	return t.board.InRange(p) && t.board.At(p) == game.CellFood
}

// findTail returns the direction of our tail when it is a single step from
// the head. Short snakes never follow their tail.
func (t *turn) findTail() (game.Move, bool) {
	if t.you.Length() <= t.cfg.TailFollowMinLength {
		return game.MoveUp, false
	}
	return game.MoveBetween(t.head, t.you.Tail())
}

func (t *turn) healthCritical() bool {
	return t.you.Health <= t.cfg.HealthCritical
}

func (t *turn) healthLow() bool {
	return t.you.Health <= t.cfg.HealthLow
}

func (t *turn) isEnemyHead(p game.Point) bool {
	return t.board.InRange(p) && p != t.head && t.board.At(p) == game.CellHead
}

func (t *turn) lengthOfEnemy(p game.Point) int {
	for i := range t.state.Snakes {
		s := &t.state.Snakes[i]
		if s.Id == t.you.Id {
			continue
		}
		if s.Head() == p {
			return s.Length()
		}
	}
	return unknownLength
}

// contested reports whether an enemy at least our length minus one could
// move its head onto p this turn. Ties count as losses, and the enemy is
// assumed to be growing.
func (t *turn) contested(p game.Point) bool {
	for _, m := range game.AllMoves {
		n := game.Destination(p, m)
		if !t.isEnemyHead(n) {
			continue
		}
		if t.lengthOfEnemy(n) >= t.you.Length()-1 {
			return true
		}
	}
	return false
}

func (t *turn) possibleLosingFight(m game.Move) bool {
	p := t.dest(m)
	return t.board.Unoccupied(p) && t.contested(p)
}

// directionsToward returns the moves that reduce Manhattan distance from the
// head to p: at most one per axis.
func (t *turn) directionsToward(p game.Point) []game.Move {
	var moves []game.Move
	switch {
	case p.Y > t.head.Y:
		moves = append(moves, game.MoveUp)
	case p.Y < t.head.Y:
		moves = append(moves, game.MoveDown)
	}
	switch {
	case p.X < t.head.X:
		moves = append(moves, game.MoveLeft)
	case p.X > t.head.X:
		moves = append(moves, game.MoveRight)
	}
	return moves
}

// nearestFoodDirections points at the closest food by straight-line
// distance, ignoring obstacles. Ties go to the earlier food in the snapshot.
func (t *turn) nearestFoodDirections() []game.Move {
	best := -1
	var target game.Point
	for _, f := range t.state.Food {
		d := game.Manhattan(t.head, f)
		if best < 0 || d < best {
			best = d
			target = f
		}
	}
	if best < 0 {
		return nil
	}
	return t.directionsToward(target)
}

func (t *turn) amLongest() bool {
	for i := range t.state.Snakes {
		s := &t.state.Snakes[i]
		if s.Id != t.you.Id && s.Length() > t.you.Length() {
			return false
		}
	}
	return true
}

// openRegion is OpenRegionSize through m, computed at most once per turn.
func (t *turn) openRegion(m game.Move) int {
	if !t.regionDone[m] {
		t.region[m] = OpenRegionSize(t.board, t.dest(m))
		t.regionDone[m] = true
	}
	return t.region[m]
}
