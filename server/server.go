// Package server exposes the engine over the Battlesnake webhook protocol.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/nickburris/battlesnake/engine"
	"github.com/nickburris/battlesnake/game"
	"github.com/nickburris/battlesnake/session"
	"github.com/nickburris/battlesnake/store"
)

// Server routes webhook calls to the session store. Journal and Results are
// optional; nil disables them.
type Server struct {
	sessions *session.Store
	info     InfoResponse
	journal  *store.Journal
	results  *store.Results
	logger   *slog.Logger
}

type Options struct {
	Info    InfoResponse
	Journal *store.Journal
	Results *store.Results
	Logger  *slog.Logger
}

func New(sessions *session.Store, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		sessions: sessions,
		info:     opts.Info,
		journal:  opts.Journal,
		results:  opts.Results,
		logger:   logger,
	}
}

// Handler returns the webhook routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /start", s.handleStart)
	mux.HandleFunc("POST /move", s.handleMove)
	mux.HandleFunc("POST /end", s.handleEnd)
	return mux
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readHeaderTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("battlesnake server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.info)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	if err := s.sessions.Start(req.Game.ID); err != nil {
		s.fail(w, "start", req, err)
		return
	}
	s.logger.Info("game started", "game", req.Game.ID, "you", req.You.Name, "ruleset", req.Game.Ruleset.Name)
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()

	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	state := toGameState(req)

	d, err := s.sessions.Move(req.Game.ID, state)
	if err != nil {
		s.fail(w, "move", req, err)
		return
	}
	if s.journal != nil {
		s.journal.Record(req.Game.ID, state, d)
	}

	s.logger.Debug("move", "game", req.Game.ID, "turn", req.Turn, "move", d.Move, "reason", d.Reason, "elapsed", time.Since(startTime))
	writeJSON(w, http.StatusOK, MoveResponse{
		Move:  d.Move.String(),
		Shout: string(d.Reason),
	})
}

func (s *Server) handleEnd(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}

	err := s.sessions.End(req.Game.ID)
	if s.journal != nil {
		if _, jerr := s.journal.Finish(req.Game.ID); jerr != nil {
			s.logger.Error("journal finish failed", "game", req.Game.ID, "error", jerr)
		}
	}
	if err != nil {
		s.fail(w, "end", req, err)
		return
	}

	result := outcome(req)
	if s.results != nil {
		res := store.GameResult{
			GameID:  req.Game.ID,
			YouID:   req.You.ID,
			Turns:   req.Turn,
			Outcome: result,
			Length:  len(req.You.Body),
			EndedAt: time.Now(),
		}
		if err := s.results.Save(r.Context(), res); err != nil {
			s.logger.Error("save result failed", "game", req.Game.ID, "error", err)
		}
	}

	s.logger.Info("game ended", "game", req.Game.ID, "turn", req.Turn, "result", result)
	w.WriteHeader(http.StatusOK)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request) (*GameRequest, bool) {
	var req GameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return nil, false
	}
	return &req, true
}

// fail maps a session or engine error onto a status code. Contract
// violations are the caller's fault and are never retried.
func (s *Server) fail(w http.ResponseWriter, op string, req *GameRequest, err error) {
	status := statusFor(err)
	level := slog.LevelWarn
	if status == http.StatusInternalServerError {
		level = slog.LevelError
	}
	s.logger.Log(context.Background(), level, op+" rejected", "game", req.Game.ID, "turn", req.Turn, "status", status, "error", err)
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrUnknownGame):
		return http.StatusNotFound
	case errors.Is(err, session.ErrDuplicateGame):
		return http.StatusConflict
	case errors.Is(err, game.ErrContractViolation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// outcome reads the final board: still on it means won, an empty board is a
// draw, anything else is a loss.
func outcome(req *GameRequest) store.Outcome {
	for _, snake := range req.Board.Snakes {
		if snake.ID == req.You.ID {
			return store.OutcomeWon
		}
	}
	if len(req.Board.Snakes) == 0 {
		return store.OutcomeDraw
	}
	return store.OutcomeLost
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// NewFactory returns a session factory building engines with cfg. Each game
// logs with its id attached.
func NewFactory(cfg engine.Config, logger *slog.Logger) session.Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return func(gameID string) *engine.Engine {
		return engine.New(cfg, logger.With("game", gameID))
	}
}
