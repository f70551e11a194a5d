// Package arena plays local games where every snake is driven by its own
// engine through the session store, the same path webhook games take.
package arena

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/nickburris/battlesnake/engine"
	"github.com/nickburris/battlesnake/game"
	"github.com/nickburris/battlesnake/rules"
	"github.com/nickburris/battlesnake/session"
	"github.com/nickburris/battlesnake/store"
)

type Config struct {
	Games    int
	Snakes   int // 1 plays solo until the snake dies
	Width    int
	Height   int
	Parallel int // concurrent games, <= 0 means one per game
	MaxTurns int // 0 means no limit
	Seed     int64

	Engine engine.Config
	Food   rules.FoodSettings

	// Optional sinks.
	Journal  *store.Journal
	Results  *store.Results
	Logger   *slog.Logger
	OnResult func(GameResult)
	OnTurn   func()
}

// GameResult summarises one finished arena game. Winner is "" for a draw,
// a solo game or a game stopped at MaxTurns.
type GameResult struct {
	ID     string
	Turns  int
	Winner string
}

// DefaultConfig is a standard 11x11 duel.
func DefaultConfig() Config {
	return Config{
		Games:    10,
		Snakes:   2,
		Width:    11,
		Height:   11,
		Parallel: 4,
		MaxTurns: 1000,
		Engine:   engine.DefaultConfig(),
		Food:     rules.DefaultFoodSettings,
	}
}

func (c Config) validate() error {
	switch {
	case c.Games <= 0:
		return fmt.Errorf("arena: games must be positive, got %d", c.Games)
	case c.Snakes <= 0:
		return fmt.Errorf("arena: snakes must be positive, got %d", c.Snakes)
	case c.Width < 3 || c.Height < 3:
		return fmt.Errorf("arena: board %dx%d is too small", c.Width, c.Height)
	case c.MaxTurns < 0:
		return fmt.Errorf("arena: max turns must not be negative, got %d", c.MaxTurns)
	}
	return nil
}

type runner struct {
	cfg      Config
	sessions *session.Store
	logger   *slog.Logger
	seeds    atomic.Int64
}

// Run plays cfg.Games games and returns their results in game order. The
// first error cancels the remaining games.
func Run(ctx context.Context, cfg Config) ([]GameResult, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := &runner{cfg: cfg, logger: logger}
	r.sessions = session.NewStore(r.newEngine)

	results := make([]GameResult, cfg.Games)
	g, ctx := errgroup.WithContext(ctx)
	if cfg.Parallel > 0 {
		g.SetLimit(cfg.Parallel)
	}
	for i := 0; i < cfg.Games; i++ {
		g.Go(func() error {
			res, err := r.play(ctx, i)
			if err != nil {
				return err
			}
			results[i] = res
			if cfg.OnResult != nil {
				cfg.OnResult(res)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// newEngine hands out distinct seeds so a seeded run is reproducible per
// engine without every snake rolling the same numbers.
func (r *runner) newEngine(gameID string) *engine.Engine {
	cfg := r.cfg.Engine
	if cfg.Seed != 0 {
		cfg.Seed += r.seeds.Add(1)
	}
	return engine.New(cfg, r.logger.With("game", gameID))
}

func (r *runner) gameRand(index int) *rand.Rand {
	seed := r.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed + int64(index)*1000003))
}

// sessionID is the per-snake id the store knows a snake by.
func sessionID(gameID, snakeID string) string {
	return gameID + "/" + snakeID
}

func (r *runner) play(ctx context.Context, index int) (GameResult, error) {
	rng := r.gameRand(index)
	gameID := uuid.NewString()

	ids := make([]string, r.cfg.Snakes)
	for i := range ids {
		ids[i] = fmt.Sprintf("snake-%d", i+1)
	}
	state, err := rules.NewGame(r.cfg.Width, r.cfg.Height, ids, rng, r.cfg.Food)
	if err != nil {
		return GameResult{}, fmt.Errorf("arena: new game: %w", err)
	}

	live := make(map[string]bool, len(ids))
	for _, id := range ids {
		if err := r.sessions.Start(sessionID(gameID, id)); err != nil {
			return GameResult{}, err
		}
		live[id] = true
	}
	// Sessions still open on an early return are closed without a result.
	defer func() {
		for id := range live {
			sid := sessionID(gameID, id)
			_ = r.sessions.End(sid)
			if r.cfg.Journal != nil {
				r.cfg.Journal.Finish(sid)
			}
		}
	}()

	for !r.over(state) {
		if r.cfg.MaxTurns > 0 && state.Turn >= r.cfg.MaxTurns {
			break
		}
		if err := ctx.Err(); err != nil {
			return GameResult{}, err
		}

		moves := make(map[string]game.Move, len(state.Snakes))
		for _, s := range state.Snakes {
			local := state.Clone()
			local.YouId = s.Id
			sid := sessionID(gameID, s.Id)
			d, err := r.sessions.Move(sid, local)
			if err != nil {
				return GameResult{}, fmt.Errorf("arena: %w", err)
			}
			if r.cfg.Journal != nil {
				r.cfg.Journal.Record(sid, local, d)
			}
			moves[s.Id] = d.Move
		}

		prev := state
		state = rules.NextState(state, moves)
		rules.SpawnFood(state, rng, r.cfg.Food)
		if r.cfg.OnTurn != nil {
			r.cfg.OnTurn()
		}

		survived := make(map[string]bool, len(state.Snakes))
		for _, s := range state.Snakes {
			survived[s.Id] = true
		}
		outcome := store.OutcomeLost
		if len(state.Snakes) == 0 && r.cfg.Snakes > 1 {
			outcome = store.OutcomeDraw
		}
		for _, s := range prev.Snakes {
			if !survived[s.Id] {
				r.finish(ctx, gameID, s, state.Turn, outcome)
				delete(live, s.Id)
			}
		}
	}

	winner := ""
	if r.cfg.Snakes > 1 && rules.IsGameOver(state) {
		winner = rules.Winner(state)
	}
	for _, s := range state.Snakes {
		outcome := store.OutcomeDraw
		if s.Id == winner {
			outcome = store.OutcomeWon
		}
		r.finish(ctx, gameID, s, state.Turn, outcome)
		delete(live, s.Id)
	}

	res := GameResult{ID: gameID, Turns: state.Turn, Winner: winner}
	r.logger.Info("arena game finished", "game", gameID, "turns", res.Turns, "winner", winner)
	return res, nil
}

func (r *runner) over(state *game.GameState) bool {
	if r.cfg.Snakes == 1 {
		return len(state.Snakes) == 0
	}
	return rules.IsGameOver(state)
}

// finish ends one snake's session and records its result.
func (r *runner) finish(ctx context.Context, gameID string, s game.Snake, turns int, outcome store.Outcome) {
	sid := sessionID(gameID, s.Id)
	if err := r.sessions.End(sid); err != nil {
		r.logger.Warn("arena end failed", "game", sid, "error", err)
	}
	if r.cfg.Journal != nil {
		if _, err := r.cfg.Journal.Finish(sid); err != nil {
			r.logger.Error("journal finish failed", "game", sid, "error", err)
		}
	}
	if r.cfg.Results != nil {
		res := store.GameResult{
			GameID:  sid,
			YouID:   s.Id,
			Turns:   turns,
			Outcome: outcome,
			Length:  s.Length(),
			EndedAt: time.Now(),
		}
		if err := r.cfg.Results.Save(ctx, res); err != nil {
			r.logger.Error("save result failed", "game", sid, "error", err)
		}
	}
}
