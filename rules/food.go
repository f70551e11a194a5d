package rules

import (
	"math/rand"

	"github.com/nickburris/battlesnake/game"
)

// FoodSettings controls food spawning.
type FoodSettings struct {
	MinimumFood     int // always keep at least this much food on the board
	FoodSpawnChance int // percent chance (0-100) of one extra food each turn
}

// DefaultFoodSettings matches standard Battlesnake rules.
var DefaultFoodSettings = FoodSettings{MinimumFood: 1, FoodSpawnChance: 15}

// SpawnFood tops the board up to the minimum and then rolls for one extra
// piece. Food only lands on cells free of snakes and other food.
func SpawnFood(state *game.GameState, rng *rand.Rand, settings FoodSettings) {
	occupied := make(map[game.Point]bool)
	for _, s := range state.Snakes {
		for _, p := range s.Body {
			occupied[p] = true
		}
	}
	for _, f := range state.Food {
		occupied[f] = true
	}

	spawn := func() bool {
		free := make([]game.Point, 0, state.Width*state.Height-len(occupied))
		for y := 0; y < state.Height; y++ {
			for x := 0; x < state.Width; x++ {
				p := game.Point{X: x, Y: y}
				if !occupied[p] {
					free = append(free, p)
				}
			}
		}
		if len(free) == 0 {
			return false
		}
		p := free[rng.Intn(len(free))]
		state.Food = append(state.Food, p)
		occupied[p] = true
		return true
	}

	for len(state.Food) < settings.MinimumFood {
		if !spawn() {
			return
		}
	}
	if settings.FoodSpawnChance > 0 && rng.Intn(100) < settings.FoodSpawnChance {
		spawn()
	}
}
