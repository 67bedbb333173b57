package policy

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
)

const DefaultMoveProbability = 0.12

// GossipPicker is implemented by policies that pick the gossip to tell from
// the known values instead of moving the ledger cursor.
type GossipPicker interface {
	PickGossip(known []int, turn int) int
}

// Heuristic is the hand-written baseline: it moves with a fixed probability,
// otherwise talks or listens with equal odds. Talk and listen directions
// alternate by turn so that neighbors running the same policy face each
// other: on even turns it talks right and listens left.
//
// With a schedule it tells the known gossip nearest a target that decays
// logarithmically from the top value to 1 over the game.
type Heuristic struct {
	rng      *rand.Rand
	moveProb float64
	turns    int
	top      int
}

type HeuristicOption func(h *Heuristic)

// WithSchedule sets the game length and the highest gossip value in play.
func WithSchedule(turns, top int) HeuristicOption {
	return func(h *Heuristic) {
		h.turns = turns
		h.top = top
	}
}

func NewHeuristic(rng *rand.Rand, moveProb float64, options ...HeuristicOption) *Heuristic {
	if moveProb < 0 || moveProb > 1 {
		panic(fmt.Sprintf("move probability %v outside [0,1]", moveProb))
	}
	h := &Heuristic{rng: rng, moveProb: moveProb}
	for _, option := range options {
		option(h)
	}
	if h.turns < 0 || (h.turns > 0 && h.top < 1) {
		panic(fmt.Sprintf("invalid schedule: %d turns, top gossip %d", h.turns, h.top))
	}
	return h
}

// Target is the gossip value aimed at on turn, or 0 without a schedule.
func (h *Heuristic) Target(turn int) float64 {
	if h.turns == 0 {
		return 0
	}
	remaining := max(h.turns-turn, 0)
	return float64(h.top-1)/math.Log(float64(h.turns+1))*math.Log(float64(remaining+1)) + 1
}

// PickGossip returns the known value nearest the target, preferring the
// higher one on ties. Without a schedule it returns the highest value.
func (h *Heuristic) PickGossip(known []int, turn int) int {
	if len(known) == 0 {
		return 0
	}
	best := known[0]
	if h.turns == 0 {
		for _, g := range known {
			best = max(best, g)
		}
		return best
	}
	target := h.Target(turn)
	for _, g := range known[1:] {
		d, bd := math.Abs(float64(g)-target), math.Abs(float64(best)-target)
		if d < bd || (d == bd && g > best) {
			best = g
		}
	}
	return best
}

func (h *Heuristic) Choose(observation []float32) (Choice, error) {
	if len(observation) <= TurnIndex {
		return Choice{}, fmt.Errorf("%w: heuristic needs at least %d values, got %d", ErrDimension, TurnIndex+1, len(observation))
	}
	if h.rng.Float64() < h.moveProb {
		return Choice{Code: Move}, nil
	}

	talk := h.rng.Float64() < 0.5
	even := int(observation[TurnIndex])%2 == 0
	switch {
	case talk && even:
		return Choice{Code: TalkRight}, nil
	case talk:
		return Choice{Code: TalkLeft}, nil
	case even:
		return Choice{Code: ListenLeft}, nil
	default:
		return Choice{Code: ListenRight}, nil
	}
}

// Random picks every code and cursor switch uniformly.
type Random struct {
	rng *rand.Rand
}

func NewRandom(rng *rand.Rand) *Random {
	return &Random{rng: rng}
}

func (r *Random) Choose(observation []float32) (Choice, error) {
	return Choice{
		Code:  Code(r.rng.Intn(int(NumCodes))),
		Shift: ShiftOf(r.rng.Intn(NumSwitches)),
	}, nil
}
