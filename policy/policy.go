// Package policy maps an encoded observation to a discrete choice.
package policy

import (
	"errors"
	"fmt"
)

// Code is a policy's action category. Codes 0-3 share their values with the
// observed game.ActionCode (listen-left, listen-right, talk-left, talk-right).
type Code int

const (
	ListenLeft Code = iota
	ListenRight
	TalkLeft
	TalkRight
	Move
	NumCodes
)

// Cursor switch values of a learned model's second head.
const (
	SwitchStay = iota
	SwitchNext
	SwitchPrev
	NumSwitches
)

var (
	ErrInvalidCode = errors.New("invalid action code")
	ErrDimension   = errors.New("observation dimension mismatch")
)

// Choice is a policy's decision: an action category and a signed adjustment of
// the gossip ledger cursor.
type Choice struct {
	Code  Code
	Shift int
}

func (c Choice) Validate() error {
	if c.Code < 0 || c.Code >= NumCodes {
		return fmt.Errorf("%w: %d", ErrInvalidCode, c.Code)
	}
	return nil
}

// ShiftOf converts a cursor switch into a signed cursor delta.
func ShiftOf(sw int) int {
	switch sw {
	case SwitchNext:
		return 1
	case SwitchPrev:
		return -1
	default:
		return 0
	}
}

// Policy chooses an action from an observation vector.
type Policy interface {
	Choose(observation []float32) (Choice, error)
}

// Func adapts a function to a Policy.
type Func func(observation []float32) (Choice, error)

func (f Func) Choose(observation []float32) (Choice, error) {
	return f(observation)
}

// Header layout shared with the encoder.
const (
	GossipIndex = 0
	TurnIndex   = 1
)
