package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gossip/agent"
	"gossip/communication"
	"gossip/game"
	"gossip/policy"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestServer() (*Server, *agent.Agent) {
	p := policy.Func(func([]float32) (policy.Choice, error) {
		return policy.Choice{Code: policy.TalkRight}, nil
	})
	a := agent.NewAgent(2, 50, p, agent.WithLogger(zerolog.Nop()))
	return NewServer(a, zerolog.Nop()), a
}

func post(h http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServer(t *testing.T) {
	t.Run("callbacks reach the player", func(t *testing.T) {
		s, a := newTestServer()
		h := s.Handler()

		rec := post(h, communication.PathBeforeTurn, `[{"player":2,"table":3,"seat":4}]`)
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, game.CellOf(3, 4), a.Tracker().Self())

		rec = post(h, communication.PathAfterTurn, `[{"player":2,"command":"listen","direction":"left"}]`)
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, 1, a.Tracker().Turn())
		require.Equal(t, game.ListenLeft, a.Tracker().ActionAt(game.CellOf(3, 4)))

		rec = post(h, communication.PathGossip, `{"gossip":70,"talker":1}`)
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.True(t, a.Ledger().Knows(70))

		rec = post(h, communication.PathFeedback, `{"feedback":["Nod Head 1"]}`)
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, agent.FeedbackTally{Nods: 1}, a.TotalFeedback())

		rec = post(h, communication.PathAction, `{}`)
		require.Equal(t, http.StatusOK, rec.Code)
		var action communication.Action
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &action))
		require.Equal(t, communication.Action{Command: "talk", Direction: "right", Gossip: 70}, action)
	})

	t.Run("bad requests", func(t *testing.T) {
		s, _ := newTestServer()
		h := s.Handler()

		rec := post(h, communication.PathBeforeTurn, `{not json`)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		rec = post(h, communication.PathAfterTurn, `[{"player":1,"command":"talk","direction":"up"}]`)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		rec = post(h, communication.PathBeforeTurn, `[{"player":2,"table":12,"seat":0}]`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		var e communication.Error
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
		require.Contains(t, e.Error, "invalid position")

		req := httptest.NewRequest(http.MethodGet, communication.PathAction, nil)
		get := httptest.NewRecorder()
		h.ServeHTTP(get, req)
		require.Equal(t, http.StatusMethodNotAllowed, get.Code)
	})

	t.Run("stops with the context", func(t *testing.T) {
		s, _ := newTestServer()
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()
		cancel()
		require.NoError(t, <-done)
	})
}
