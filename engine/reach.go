package engine

import "github.com/nickburris/battlesnake/game"

// visited marks cells already counted by a flood fill. It only ever appears
// on scratch copies, never on a board handed to the heuristics.
const visited game.Cell = -1

// OpenRegionSize counts the open cells reachable from start through
// 4-connected open neighbours, start included. It returns 0 when start is
// itself off-board or occupied. b is not modified.
func OpenRegionSize(b *game.Board, start game.Point) int {
	if !b.Unoccupied(start) {
		return 0
	}

	scratch := b.Clone()
	queue := make([]game.Point, 0, len(scratch.Cells))
	queue = append(queue, start)
	scratch.Cells[start.Y*scratch.Width+start.X] = visited

	count := 0
	for head := 0; head < len(queue); head++ {
		p := queue[head]
		count++
		for _, m := range game.AllMoves {
			next := game.Destination(p, m)
			if !scratch.Unoccupied(next) {
				continue
			}
			scratch.Cells[next.Y*scratch.Width+next.X] = visited
			queue = append(queue, next)
		}
	}
	return count
}
