// Package communication defines the JSON wire format used to drive an agent
// hosted in another process.
package communication

import (
	"fmt"

	"gossip/game"
)

// Endpoint paths, one per player callback.
const (
	PathBeforeTurn = "/before-turn"
	PathAfterTurn  = "/after-turn"
	PathAction     = "/action"
	PathGossip     = "/gossip"
	PathFeedback   = "/feedback"
)

type Position struct {
	Player int `json:"player"`
	Table  int `json:"table"`
	Seat   int `json:"seat"`
}

type Observed struct {
	Player    int    `json:"player"`
	Command   string `json:"command"`
	Direction string `json:"direction"`
}

// Action is the wire form of game.Action. Direction and Gossip are set for
// talk and listen, Seats for move.
type Action struct {
	Command   string      `json:"command"`
	Direction string      `json:"direction,omitempty"`
	Gossip    int         `json:"gossip"`
	Seats     []game.Seat `json:"seats,omitempty"`
}

type Gossip struct {
	Gossip int `json:"gossip"`
	Talker int `json:"talker"`
}

type Feedback struct {
	Feedback []string `json:"feedback"`
}

// Error is the body of a failed request.
type Error struct {
	Error string `json:"error"`
}

func EncodePositions(positions []game.Position) []Position {
	out := make([]Position, len(positions))
	for i, p := range positions {
		out[i] = Position{Player: p.Player, Table: p.Table, Seat: p.Seat}
	}
	return out
}

func DecodePositions(positions []Position) []game.Position {
	out := make([]game.Position, len(positions))
	for i, p := range positions {
		out[i] = game.Position{Player: p.Player, Table: p.Table, Seat: p.Seat}
	}
	return out
}

func EncodeObserved(actions []game.Observed) []Observed {
	out := make([]Observed, len(actions))
	for i, a := range actions {
		out[i] = Observed{Player: a.Player, Command: a.Command.String(), Direction: a.Direction.String()}
	}
	return out
}

// DecodeObserved parses every entry; one malformed entry fails the batch.
func DecodeObserved(actions []Observed) ([]game.Observed, error) {
	out := make([]game.Observed, len(actions))
	for i, a := range actions {
		o, err := game.ParseObserved(a.Player, a.Command, a.Direction)
		if err != nil {
			return nil, err
		}
		out[i] = o
	}
	return out, nil
}

func EncodeAction(action game.Action) Action {
	switch a := action.(type) {
	case game.Talk:
		return Action{Command: a.Command().String(), Direction: a.Direction.String(), Gossip: a.Gossip}
	case game.Listen:
		return Action{Command: a.Command().String(), Direction: a.Direction.String()}
	case game.Move:
		return Action{Command: a.Command().String(), Seats: a.Seats}
	}
	return Action{}
}

func (a Action) Decode() (game.Action, error) {
	cmd, err := game.ParseCommand(a.Command)
	if err != nil {
		return nil, err
	}
	if cmd == game.CommandMove {
		return game.Move{Seats: a.Seats}, nil
	}

	dir, err := game.ParseDirection(a.Direction)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.Command, err)
	}
	if cmd == game.CommandTalk {
		return game.Talk{Direction: dir, Gossip: a.Gossip}, nil
	}
	return game.Listen{Direction: dir}, nil
}
