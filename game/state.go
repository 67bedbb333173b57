package game

import "fmt"

// Board is seat occupancy as two complementary mappings. Unknown seats hold
// NoCell and vacant cells hold the out-of-range id Vacant().
type Board struct {
	seatOf     []Cell        // Cell per player id
	occupantOf [NumCells]int // Player id per cell
}

// NewBoard returns an empty board for players with ids 0..numPlayers-1.
func NewBoard(numPlayers int) *Board {
	if numPlayers <= 0 {
		panic("board needs at least one player")
	}
	b := &Board{seatOf: make([]Cell, numPlayers)}
	b.Clear()
	return b
}

// Vacant is the occupant sentinel of an empty cell.
func (b *Board) Vacant() int {
	return len(b.seatOf)
}

func (b *Board) NumPlayers() int {
	return len(b.seatOf)
}

// Clear marks every cell vacant and every player unseen.
func (b *Board) Clear() {
	for i := range b.seatOf {
		b.seatOf[i] = NoCell
	}
	for i := range b.occupantOf {
		b.occupantOf[i] = b.Vacant()
	}
}

// Validate checks a position against the board's geometry and population.
func (b *Board) Validate(p Position) error {
	if p.Player < 0 || p.Player >= len(b.seatOf) {
		return fmt.Errorf("%w: player %d out of range [0,%d)", ErrInvalidPosition, p.Player, len(b.seatOf))
	}
	if p.Table < 0 || p.Table >= NumTables || p.Seat < 0 || p.Seat >= SeatsPerTable {
		return fmt.Errorf("%w: player %d at table %d seat %d", ErrInvalidPosition, p.Player, p.Table, p.Seat)
	}
	return nil
}

// Place seats player at cell, evicting whoever was there and vacating the
// player's previous cell so both mappings stay consistent.
func (b *Board) Place(player int, cell Cell) {
	if prev := b.occupantOf[cell]; prev != b.Vacant() && prev != player {
		b.seatOf[prev] = NoCell
	}
	if old := b.seatOf[player]; old != NoCell && old != cell {
		b.occupantOf[old] = b.Vacant()
	}
	b.seatOf[player] = cell
	b.occupantOf[cell] = player
}

// SeatOf returns the player's cell or NoCell. Ids outside the population are
// reported as unseen.
func (b *Board) SeatOf(player int) Cell {
	if player < 0 || player >= len(b.seatOf) {
		return NoCell
	}
	return b.seatOf[player]
}

// OccupantOf returns the player at cell or Vacant().
func (b *Board) OccupantOf(cell Cell) int {
	return b.occupantOf[cell]
}

func (b *Board) IsVacant(cell Cell) bool {
	return b.occupantOf[cell] == b.Vacant()
}

// EmptyCells lists vacant cells in index order.
func (b *Board) EmptyCells() []Cell {
	empty := make([]Cell, 0, NumCells)
	for c := Cell(0); c < NumCells; c++ {
		if b.IsVacant(c) {
			empty = append(empty, c)
		}
	}
	return empty
}

// Positions lists every seated player in cell order.
func (b *Board) Positions() []Position {
	positions := []Position{}
	for c := Cell(0); c < NumCells; c++ {
		if p := b.occupantOf[c]; p != b.Vacant() {
			positions = append(positions, Position{Player: p, Table: c.Table(), Seat: c.Seat()})
		}
	}
	return positions
}

