package agent

import (
	"fmt"

	"gossip/game"
	"gossip/policy"
	"gossip/seating"

	"golang.org/x/exp/rand"
)

// Observation layout:
//
//	[0]     selected gossip value
//	[1]     turn counter
//	[2..]   one section for the current board, then one per memory slot
//	        (most recent first). A section is NumCells triples of
//	        (marker, occupant or vacant sentinel, action code).
//
// The marker slot is 0 except around the agent's own cell in that section:
// cells within the neighbor radius (wrapping around the table) get
// NeighborMark and the agent's cell gets SelfMark.
const (
	HeaderDim  = 2
	CellDim    = 3
	SectionDim = game.NumCells * CellDim

	NeighborMark = 1
	SelfMark     = 2

	DefaultNeighborRadius = 1
)

// Dim is the observation length for a memory capacity.
func Dim(memoryCapacity int) int {
	return HeaderDim + SectionDim*(1+memoryCapacity)
}

// Encoder turns tracker and ledger state into observations and turns policy
// choices back into actions.
type Encoder struct {
	tracker *Tracker
	ledger  *Ledger
	radius  int
	rng     *rand.Rand
}

func NewEncoder(tracker *Tracker, ledger *Ledger, radius int, rng *rand.Rand) *Encoder {
	if radius < 0 {
		panic("neighbor radius cannot be negative")
	}
	return &Encoder{tracker: tracker, ledger: ledger, radius: radius, rng: rng}
}

// Dim is the length of the vectors this encoder produces.
func (e *Encoder) Dim() int {
	return Dim(e.tracker.memory.Capacity())
}

// Encode builds the observation vector. It only reads state, so repeated
// calls between updates return identical vectors.
func (e *Encoder) Encode() []float32 {
	out := make([]float32, e.Dim())
	out[policy.GossipIndex] = float32(e.ledger.Selected())
	out[policy.TurnIndex] = float32(e.tracker.Turn())

	vacant := e.tracker.board.Vacant()
	offset := HeaderDim

	// Current board
	current := e.tracker.Snapshot()
	e.writeSection(out[offset:offset+SectionDim], &current)
	offset += SectionDim

	// Remembered boards; slots not yet filled are absent
	for i := 0; i < e.tracker.memory.Capacity(); i++ {
		section := out[offset : offset+SectionDim]
		if s, ok := e.tracker.memory.At(i); ok {
			e.writeSection(section, &s)
		} else {
			for c := 0; c < game.NumCells; c++ {
				section[c*CellDim+1] = float32(vacant)
				section[c*CellDim+2] = float32(game.NoAction)
			}
		}
		offset += SectionDim
	}

	return out
}

func (e *Encoder) writeSection(section []float32, s *Snapshot) {
	for c := 0; c < game.NumCells; c++ {
		section[c*CellDim+1] = float32(s.Occupants[c])
		section[c*CellDim+2] = float32(s.Actions[c])
	}
	if s.Self == game.NoCell {
		return
	}
	for n := 1; n <= e.radius; n++ {
		section[int(s.Self.Offset(-n))*CellDim] = NeighborMark
		section[int(s.Self.Offset(n))*CellDim] = NeighborMark
	}
	section[int(s.Self)*CellDim] = SelfMark
}

// Decode converts a policy choice into an action. The ledger cursor is moved
// first so a talk tells the newly selected gossip. Moves list every empty
// cell, isolated seats first.
func (e *Encoder) Decode(choice policy.Choice) (game.Action, error) {
	if err := choice.Validate(); err != nil {
		return nil, err
	}
	e.ledger.Shift(choice.Shift)

	switch choice.Code {
	case policy.ListenLeft:
		return game.Listen{Direction: game.Left}, nil
	case policy.ListenRight:
		return game.Listen{Direction: game.Right}, nil
	case policy.TalkLeft:
		return game.Talk{Direction: game.Left, Gossip: e.ledger.Selected()}, nil
	case policy.TalkRight:
		return game.Talk{Direction: game.Right, Gossip: e.ledger.Selected()}, nil
	case policy.Move:
		return game.Move{Seats: seating.Prioritize(e.tracker.board, e.rng)}, nil
	}
	return nil, fmt.Errorf("%w: %d", policy.ErrInvalidCode, choice.Code)
}
