package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"gossip/communication"
	"gossip/engine"

	"github.com/rs/zerolog"
)

// Server exposes a player's callbacks over HTTP. Requests are serialized so
// the player sees the same single caller it would get in-process.
type Server struct {
	player engine.Player
	logger zerolog.Logger
	mutex  sync.Mutex
}

func NewServer(player engine.Player, logger zerolog.Logger) *Server {
	return &Server{player: player, logger: logger}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+communication.PathBeforeTurn, s.handleBeforeTurn)
	mux.HandleFunc("POST "+communication.PathAfterTurn, s.handleAfterTurn)
	mux.HandleFunc("POST "+communication.PathAction, s.handleAction)
	mux.HandleFunc("POST "+communication.PathGossip, s.handleGossip)
	mux.HandleFunc("POST "+communication.PathFeedback, s.handleFeedback)
	return mux
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	s.logger.Info().Msgf("serving player on %s", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) handleBeforeTurn(w http.ResponseWriter, r *http.Request) {
	var positions []communication.Position
	if !s.decode(w, r, &positions) {
		return
	}
	s.mutex.Lock()
	err := s.player.ObserveBeforeTurn(communication.DecodePositions(positions))
	s.mutex.Unlock()
	if err != nil {
		s.fail(w, http.StatusUnprocessableEntity, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAfterTurn(w http.ResponseWriter, r *http.Request) {
	var wire []communication.Observed
	if !s.decode(w, r, &wire) {
		return
	}
	actions, err := communication.DecodeObserved(wire)
	if err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}
	s.mutex.Lock()
	s.player.ObserveAfterTurn(actions)
	s.mutex.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	s.mutex.Lock()
	action, err := s.player.GetAction()
	s.mutex.Unlock()
	if err != nil {
		s.fail(w, http.StatusUnprocessableEntity, err)
		return
	}
	s.respond(w, communication.EncodeAction(action))
}

func (s *Server) handleGossip(w http.ResponseWriter, r *http.Request) {
	var g communication.Gossip
	if !s.decode(w, r, &g) {
		return
	}
	s.mutex.Lock()
	s.player.GetGossip(g.Gossip, g.Talker)
	s.mutex.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var f communication.Feedback
	if !s.decode(w, r, &f) {
		return
	}
	s.mutex.Lock()
	s.player.Feedback(f.Feedback)
	s.mutex.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.fail(w, http.StatusBadRequest, fmt.Errorf("malformed body: %w", err))
		return false
	}
	return true
}

func (s *Server) respond(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("failed to write response")
	}
}

func (s *Server) fail(w http.ResponseWriter, status int, err error) {
	s.logger.Debug().Err(err).Int("status", status).Msg("request failed")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(communication.Error{Error: err.Error()})
}
