// Package session maps game ids to the engine playing that game.
//
// Games are independent, so the map is split into shards keyed by a hash of
// the game id and each entry carries its own lock. Turns for one game are
// serialised; turns for different games never wait on each other.
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/zeebo/xxh3"

	"github.com/nickburris/battlesnake/engine"
	"github.com/nickburris/battlesnake/game"
)

var (
	// ErrUnknownGame is returned for moves or ends on a game that was never
	// started or has already ended.
	ErrUnknownGame = fmt.Errorf("%w: unknown game", game.ErrContractViolation)
	// ErrDuplicateGame is returned when a game id is started twice.
	ErrDuplicateGame = fmt.Errorf("%w: game already started", game.ErrContractViolation)
)

const shardCount = 32

// Factory builds the engine for a newly started game.
type Factory func(gameID string) *engine.Engine

type entry struct {
	mu     sync.Mutex
	engine *engine.Engine
}

type shard struct {
	mu    sync.RWMutex
	games map[string]*entry
}

// Store is a concurrency-safe game id -> engine map.
type Store struct {
	factory Factory
	shards  [shardCount]shard
}

// NewStore returns an empty store that builds engines with factory.
func NewStore(factory Factory) *Store {
	s := &Store{factory: factory}
	for i := range s.shards {
		s.shards[i].games = make(map[string]*entry)
	}
	return s
}

func (s *Store) shardFor(gameID string) *shard {
	return &s.shards[xxh3.HashString(gameID)%shardCount]
}

// Start creates a fresh engine for gameID.
func (s *Store) Start(gameID string) error {
	if gameID == "" {
		return fmt.Errorf("%w: empty game id", game.ErrContractViolation)
	}
	sh := s.shardFor(gameID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if _, ok := sh.games[gameID]; ok {
		return fmt.Errorf("start %q: %w", gameID, ErrDuplicateGame)
	}
	sh.games[gameID] = &entry{engine: s.factory(gameID)}
	return nil
}

func (s *Store) lookup(gameID string) (*entry, error) {
	sh := s.shardFor(gameID)
	sh.mu.RLock()
	e, ok := sh.games[gameID]
	sh.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("game %q: %w", gameID, ErrUnknownGame)
	}
	return e, nil
}

// Move runs one turn for gameID. Concurrent calls for the same game are
// serialised in arrival order.
func (s *Store) Move(gameID string, state *game.GameState) (engine.Decision, error) {
	e, err := s.lookup(gameID)
	if err != nil {
		return engine.Decision{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.engine == nil {
		return engine.Decision{}, fmt.Errorf("game %q: %w", gameID, ErrUnknownGame)
	}
	d, err := e.engine.Decide(state)
	if err != nil {
		return engine.Decision{}, fmt.Errorf("game %q turn %d: %w", gameID, state.Turn, err)
	}
	return d, nil
}

// End discards the engine for gameID.
func (s *Store) End(gameID string) error {
	sh := s.shardFor(gameID)
	sh.mu.Lock()
	e, ok := sh.games[gameID]
	delete(sh.games, gameID)
	sh.mu.Unlock()
	if !ok {
		return fmt.Errorf("end %q: %w", gameID, ErrUnknownGame)
	}

	// A move already holding the entry finishes first; later ones see nil.
	e.mu.Lock()
	e.engine = nil
	e.mu.Unlock()
	return nil
}

// Len returns the number of live games.
func (s *Store) Len() int {
	n := 0
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.RLock()
		n += len(sh.games)
		sh.mu.RUnlock()
	}
	return n
}

// IsContractViolation reports whether err stems from bad collaborator input.
func IsContractViolation(err error) bool {
	return errors.Is(err, game.ErrContractViolation)
}
