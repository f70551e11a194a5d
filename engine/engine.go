// Package engine picks one move per turn for a single game.
//
// Each turn the snapshot is turned into an occupancy board, a set of
// heuristics is evaluated against the four moves, and an ordered chain of
// soft filters narrows them down before a random pick. The only state kept
// between turns is whether the previous move ate food.
package engine

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/nickburris/battlesnake/game"
)

// Config holds the thresholds the heuristics use.
type Config struct {
	HealthCritical      int   // health at or below this is critical
	HealthLow           int   // health at or below this disables tail following
	TailFollowMinLength int   // only snakes longer than this follow their tail
	Seed                int64 // 0 seeds from the clock
}

// DefaultConfig matches the thresholds the snake has always played with.
func DefaultConfig() Config {
	return Config{
		HealthCritical:      20,
		HealthLow:           50,
		TailFollowMinLength: 3,
	}
}

// Reason records which stage of the pipeline produced a move.
type Reason string

const (
	ReasonTail     Reason = "tail"     // tail-follow shortcut
	ReasonFiltered Reason = "filtered" // picked from the narrowed candidates
	ReasonPossible Reason = "possible" // picked from all possible moves
	ReasonTrapped  Reason = "trapped"  // no possible move, fixed fallback
)

// Decision is the outcome of one turn.
type Decision struct {
	Move       game.Move
	Possible   []game.Move
	Candidates []game.Move
	Reason     Reason
	Growing    bool // growth flag the turn was evaluated with
	Critical   bool // health at or below the critical threshold
}

// Engine decides moves for one game. Decide must not be called
// concurrently on the same Engine.
type Engine struct {
	cfg     Config
	rng     *rand.Rand
	logger  *slog.Logger
	justAte bool
}

// New returns an engine for a fresh game.
func New(cfg Config, logger *slog.Logger) *Engine {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(seed)),
		logger: logger,
	}
}

// Growing reports whether the next move is known to extend the body.
func (e *Engine) Growing() bool {
	return e.justAte
}

// Move returns the move for this turn.
func (e *Engine) Move(state *game.GameState) (game.Move, error) {
	d, err := e.Decide(state)
	if err != nil {
		return game.MoveUp, err
	}
	return d.Move, nil
}

// Decide evaluates one snapshot. A malformed snapshot returns an error
// wrapping game.ErrContractViolation and leaves the engine untouched.
func (e *Engine) Decide(state *game.GameState) (Decision, error) {
	t, err := newTurn(state, e.justAte, e.cfg)
	if err != nil {
		return Decision{}, err
	}

	d := Decision{
		Possible: t.possibleMoves(),
		Growing:  t.growing,
		Critical: t.healthCritical(),
	}

	switch {
	case t.followTail():
		d.Move = t.tail
		d.Candidates = []game.Move{t.tail}
		d.Reason = ReasonTail
	default:
		d.Candidates = t.candidates(d.Possible)
		switch {
		case len(d.Candidates) > 0:
			d.Move = d.Candidates[e.rng.Intn(len(d.Candidates))]
			d.Reason = ReasonFiltered
		case len(d.Possible) > 0:
			d.Move = d.Possible[e.rng.Intn(len(d.Possible))]
			d.Reason = ReasonPossible
		default:
			d.Move = game.MoveUp
			d.Reason = ReasonTrapped
			e.logger.Warn("no possible moves", "turn", state.Turn, "you", state.YouId, "fallback", d.Move.String())
		}
	}

	e.justAte = t.willEat(d.Move)

	e.logger.Debug("decided",
		"turn", state.Turn,
		"you", state.YouId,
		"move", d.Move.String(),
		"reason", string(d.Reason),
		"possible", len(d.Possible),
		"candidates", len(d.Candidates),
		"growing", d.Growing,
		"critical", d.Critical,
	)
	return d, nil
}

// followTail reports whether the tail-follow shortcut applies: the tail is
// adjacent and will vacate, we are not outgrown, health is comfortable and
// no enemy can reach the tail cell first.
func (t *turn) followTail() bool {
	if !t.hasTail || !t.tailVacates() {
		return false
	}
	if !t.amLongest() || t.healthLow() {
		return false
	}
	return !t.contested(t.dest(t.tail))
}
