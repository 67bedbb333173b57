package game

import "errors"

// Board geometry. Every table has the same number of seats arranged in a circle.
const (
	NumTables     = 10
	SeatsPerTable = 10
	NumCells      = NumTables * SeatsPerTable

	DefaultPlayers = 90
)

// Cell is a unique (table, seat) location, indexed table*SeatsPerTable+seat.
type Cell int

// NoCell marks a player whose seat has not been observed.
const NoCell Cell = -1

var ErrInvalidPosition = errors.New("invalid position")

// CellOf returns the cell at the given table and seat.
func CellOf(table, seat int) Cell {
	return Cell(table*SeatsPerTable + seat)
}

func (c Cell) Table() int {
	return int(c) / SeatsPerTable
}

func (c Cell) Seat() int {
	return int(c) % SeatsPerTable
}

func (c Cell) Valid() bool {
	return c >= 0 && c < NumCells
}

// Offset returns the cell n seats away at the same table, wrapping around the
// table. Negative n moves left, positive n moves right.
func (c Cell) Offset(n int) Cell {
	seat := ((c.Seat()+n)%SeatsPerTable + SeatsPerTable) % SeatsPerTable
	return CellOf(c.Table(), seat)
}

// Seat is the wire form of a cell used in move priority lists.
type Seat struct {
	Table int `json:"table"`
	Seat  int `json:"seat"`
}

func (s Seat) Cell() Cell {
	return CellOf(s.Table, s.Seat)
}

func SeatOf(c Cell) Seat {
	return Seat{Table: c.Table(), Seat: c.Seat()}
}
