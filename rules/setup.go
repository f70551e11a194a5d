package rules

import (
	"fmt"
	"math/rand"

	"github.com/nickburris/battlesnake/game"
)

// StartLength is the number of stacked segments each snake starts with.
const StartLength = 3

// NewGame places one snake per id at spread-out start points, each with
// StartLength stacked segments and full health, then spawns initial food.
func NewGame(width, height int, ids []string, rng *rand.Rand, food FoodSettings) (*game.GameState, error) {
	starts := startPoints(width, height)
	if len(ids) > len(starts) {
		return nil, fmt.Errorf("board %dx%d fits at most %d snakes, got %d", width, height, len(starts), len(ids))
	}
	rng.Shuffle(len(starts), func(i, j int) { starts[i], starts[j] = starts[j], starts[i] })

	state := &game.GameState{Width: width, Height: height}
	for i, id := range ids {
		body := make([]game.Point, StartLength)
		for j := range body {
			body[j] = starts[i]
		}
		state.Snakes = append(state.Snakes, game.Snake{Id: id, Health: 100, Body: body})
	}
	SpawnFood(state, rng, FoodSettings{MinimumFood: food.MinimumFood})
	return state, nil
}

// startPoints returns the corner and edge-midpoint start cells, inset by one.
func startPoints(width, height int) []game.Point {
	if width < 3 || height < 3 {
		return nil
	}
	minX, midX, maxX := 1, (width-1)/2, width-2
	minY, midY, maxY := 1, (height-1)/2, height-2

	candidates := []game.Point{
		{X: minX, Y: minY}, {X: maxX, Y: maxY}, {X: minX, Y: maxY}, {X: maxX, Y: minY},
		{X: midX, Y: minY}, {X: midX, Y: maxY}, {X: minX, Y: midY}, {X: maxX, Y: midY},
	}
	seen := make(map[game.Point]bool, len(candidates))
	out := make([]game.Point, 0, len(candidates))
	for _, p := range candidates {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}
