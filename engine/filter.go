package engine

import "github.com/nickburris/battlesnake/game"

// filter narrows a candidate set. Filters are soft preferences: narrow
// discards any result that would leave nothing to choose from.
type filter func(in []game.Move) []game.Move

func narrow(candidates []game.Move, filters ...filter) []game.Move {
	for _, f := range filters {
		if out := f(candidates); len(out) > 0 {
			candidates = out
		}
	}
	return candidates
}

func keepIf(pred func(game.Move) bool) filter {
	return func(in []game.Move) []game.Move {
		out := make([]game.Move, 0, len(in))
		for _, m := range in {
			if pred(m) {
				out = append(out, m)
			}
		}
		return out
	}
}

// keepMax keeps the candidates tied for the highest score.
func keepMax(score func(game.Move) int) filter {
	return func(in []game.Move) []game.Move {
		best := -1
		var out []game.Move
		for _, m := range in {
			s := score(m)
			switch {
			case s > best:
				best = s
				out = append(out[:0], m)
			case s == best:
				out = append(out, m)
			}
		}
		return out
	}
}

func containsMove(moves []game.Move, m game.Move) bool {
	for _, x := range moves {
		if x == m {
			return true
		}
	}
	return false
}

// candidates runs the preference chain over the possible moves: avoid
// losing head-to-heads, then maximise open space, then head for food.
func (t *turn) candidates(possible []game.Move) []game.Move {
	food := t.nearestFoodDirections()
	return narrow(append([]game.Move(nil), possible...),
		keepIf(func(m game.Move) bool { return !t.possibleLosingFight(m) }),
		keepMax(t.openRegion),
		keepIf(func(m game.Move) bool { return containsMove(food, m) }),
	)
}
