// Package engine drives agents through a wedding table game. It is a local
// harness implementing the subset of rules needed to relay seating, gossip
// and feedback, not the authoritative game server.
package engine

import (
	"context"

	"gossip/experiments/metrics"
	"gossip/game"
)

const (
	DefaultTurns = 300
	// DefaultReach is how many seats away a talker can be heard.
	DefaultReach = 3
)

// Player is the callback contract between the engine and a participant.
type Player interface {
	ObserveBeforeTurn(positions []game.Position) error
	ObserveAfterTurn(actions []game.Observed)
	GetAction() (game.Action, error)
	GetGossip(gossip, talker int)
	Feedback(feedback []string)
}

type Engine interface {
	// Run plays every turn, or until ctx is cancelled
	Run(ctx context.Context) (metrics.GameMetric, []metrics.PlayerMetric, error)
}
