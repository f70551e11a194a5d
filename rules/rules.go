// Package rules advances a game by one simultaneous turn using standard
// Battlesnake rules. It is used to play local games against the engine.
package rules

import (
	"github.com/nickburris/battlesnake/game"
)

// NextState applies one move per living snake and returns the new state.
// Snakes without a move are eliminated. The input state is not modified.
func NextState(state *game.GameState, moves map[string]game.Move) *game.GameState {
	next := state.Clone()
	next.Turn++

	// 1. Move heads, drop tails. A missing move eliminates the snake.
	alive := make([]game.Snake, 0, len(next.Snakes))
	for _, s := range next.Snakes {
		move, ok := moves[s.Id]
		if !ok || len(s.Body) == 0 {
			continue
		}
		newHead := game.Destination(s.Head(), move)
		body := make([]game.Point, 0, len(s.Body)+1)
		body = append(body, newHead)
		body = append(body, s.Body[:len(s.Body)-1]...)
		s.Body = body
		s.Health--
		alive = append(alive, s)
	}
	next.Snakes = alive

	// 2. Feed. Eating restores health and duplicates the tail, so the
	// snake grows by one segment at the end of this turn.
	eaten := make(map[game.Point]bool)
	for i := range next.Snakes {
		s := &next.Snakes[i]
		for _, f := range next.Food {
			if s.Head() == f {
				eaten[f] = true
				s.Health = 100
				s.Body = append(s.Body, s.Tail())
				break
			}
		}
	}
	if len(eaten) > 0 {
		remaining := next.Food[:0]
		for _, f := range next.Food {
			if !eaten[f] {
				remaining = append(remaining, f)
			}
		}
		next.Food = remaining
	}

	// 3. Eliminate.
	dead := make(map[string]bool)
	for _, s := range next.Snakes {
		head := s.Head()
		switch {
		case s.Health <= 0:
			dead[s.Id] = true
		case !next.InBounds(head):
			dead[s.Id] = true
		case hitsBody(head, next.Snakes):
			dead[s.Id] = true
		case losesHeadToHead(s, next.Snakes):
			dead[s.Id] = true
		}
	}

	survivors := next.Snakes[:0]
	for _, s := range next.Snakes {
		if !dead[s.Id] {
			survivors = append(survivors, s)
		}
	}
	next.Snakes = survivors
	return next
}

// hitsBody reports whether head lands on any non-head segment.
func hitsBody(head game.Point, snakes []game.Snake) bool {
	for _, other := range snakes {
		for _, p := range other.Body[1:] {
			if p == head {
				return true
			}
		}
	}
	return false
}

// losesHeadToHead reports whether another snake's head shares s's head cell
// and is at least as long.
func losesHeadToHead(s game.Snake, snakes []game.Snake) bool {
	for _, other := range snakes {
		if other.Id == s.Id || other.Head() != s.Head() {
			continue
		}
		if other.Length() >= s.Length() {
			return true
		}
	}
	return false
}

// IsGameOver reports whether at most one snake is left.
func IsGameOver(state *game.GameState) bool {
	return len(state.Snakes) <= 1
}

// Winner returns the id of the last snake standing, or "" for a draw or a
// game still in progress.
func Winner(state *game.GameState) string {
	if len(state.Snakes) == 1 {
		return state.Snakes[0].Id
	}
	return ""
}
