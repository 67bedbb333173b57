// Package seating orders empty seats for a player who wants to move.
//
// Seats are ranked by isolation along the seat axis of their own table: a
// seat whose neighbors are both empty is preferred over one with a single
// empty neighbor, which is preferred over one with none. Edge seats (0 and
// the last seat) are only compared against the neighbor that exists. Within
// a tier the order is random.
package seating

import (
	"gossip/game"
	"gossip/utils"

	"golang.org/x/exp/rand"
)

// Tier is the isolation class of an empty seat.
type Tier int

const (
	FullyIsolated Tier = iota // Both neighbors empty
	HalfIsolated              // One empty neighbor
	Exposed                   // No empty neighbor
)

func (t Tier) String() string {
	switch t {
	case FullyIsolated:
		return "fully-isolated"
	case HalfIsolated:
		return "half-isolated"
	default:
		return "exposed"
	}
}

// Occupancy is the view of the board the heuristic needs.
type Occupancy interface {
	IsVacant(cell game.Cell) bool
}

// Empty lists every vacant cell in index order.
func Empty(board Occupancy) []game.Cell {
	empty := make([]game.Cell, 0, game.NumCells)
	for c := game.Cell(0); c < game.NumCells; c++ {
		if board.IsVacant(c) {
			empty = append(empty, c)
		}
	}
	return empty
}

// Classify returns the tier of cell. Neighbors do not wrap around the table.
func Classify(board Occupancy, cell game.Cell) Tier {
	seat := cell.Seat()
	neighbors, empty := 0, 0
	if seat > 0 {
		neighbors++
		if board.IsVacant(cell - 1) {
			empty++
		}
	}
	if seat < game.SeatsPerTable-1 {
		neighbors++
		if board.IsVacant(cell + 1) {
			empty++
		}
	}

	switch {
	case neighbors == 2 && empty == 2:
		return FullyIsolated
	case empty >= 1:
		return HalfIsolated
	default:
		return Exposed
	}
}

// Prioritize returns every empty seat, most preferred first. An exhausted
// board yields an empty list.
func Prioritize(board Occupancy, rng *rand.Rand) []game.Seat {
	empty := Empty(board)
	utils.Shuffle(rng, empty)

	var tiers [3][]game.Seat
	for _, cell := range empty {
		tier := Classify(board, cell)
		tiers[tier] = append(tiers[tier], game.SeatOf(cell))
	}

	priority := make([]game.Seat, 0, len(empty))
	for _, seats := range tiers {
		priority = append(priority, seats...)
	}
	return priority
}
