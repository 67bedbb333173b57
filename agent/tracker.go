package agent

import (
	"gossip/game"

	"github.com/rs/zerolog"
)

// Tracker is the agent's belief about the board: who sits where, what each
// visible player did last turn, the turn counter, and a short memory of past
// boards.
type Tracker struct {
	self    int
	board   *game.Board
	actions [game.NumCells]game.ActionCode
	turn    int
	memory  *Memory
	logger  zerolog.Logger
}

func NewTracker(self, numPlayers, memoryCapacity int, logger zerolog.Logger) *Tracker {
	t := &Tracker{
		self:   self,
		board:  game.NewBoard(numPlayers),
		memory: NewMemory(memoryCapacity),
		logger: logger,
	}
	t.resetActions()
	return t
}

// UpdateBeforeTurn rebuilds occupancy from positions. The list is
// authoritative: cells it does not mention are vacant afterwards. An invalid
// entry rejects the whole update and leaves the tracker unchanged.
func (t *Tracker) UpdateBeforeTurn(positions []game.Position) error {
	for _, p := range positions {
		if err := t.board.Validate(p); err != nil {
			return err
		}
	}

	t.board.Clear()
	for _, p := range positions {
		t.board.Place(p.Player, p.Cell())
	}

	if t.Self() == game.NoCell {
		t.logger.Debug().Int("turn", t.turn).Msg("own seat not in positions")
	}
	return nil
}

// UpdateAfterTurn records the actions observed this turn, advances the turn
// counter and remembers the resulting board.
func (t *Tracker) UpdateAfterTurn(actions []game.Observed) {
	t.resetActions()
	for _, a := range actions {
		cell := t.board.SeatOf(a.Player)
		if cell == game.NoCell {
			t.logger.Debug().Int("turn", t.turn).Int("actor", a.Player).Msg("action from player with unknown seat")
			continue
		}
		code, ok := game.CodeFor(a.Command, a.Direction)
		if !ok {
			t.logger.Debug().Int("turn", t.turn).Int("actor", a.Player).Stringer("command", a.Command).Msg("ignoring non talk/listen action")
			continue
		}
		t.actions[cell] = code
	}

	t.turn++
	t.memory.Push(t.Snapshot())
}

func (t *Tracker) resetActions() {
	for i := range t.actions {
		t.actions[i] = game.NoAction
	}
}

// Snapshot captures the current board.
func (t *Tracker) Snapshot() Snapshot {
	s := Snapshot{Turn: t.turn, Self: t.Self(), Actions: t.actions}
	for c := game.Cell(0); c < game.NumCells; c++ {
		s.Occupants[c] = t.board.OccupantOf(c)
	}
	return s
}

// Self is the agent's current cell, or NoCell before it has been observed.
func (t *Tracker) Self() game.Cell {
	return t.board.SeatOf(t.self)
}

func (t *Tracker) Table() int {
	if self := t.Self(); self != game.NoCell {
		return self.Table()
	}
	return -1
}

func (t *Tracker) Seat() int {
	if self := t.Self(); self != game.NoCell {
		return self.Seat()
	}
	return -1
}

func (t *Tracker) Turn() int {
	return t.turn
}

func (t *Tracker) Board() *game.Board {
	return t.board
}

func (t *Tracker) SeatOf(player int) game.Cell {
	return t.board.SeatOf(player)
}

func (t *Tracker) OccupantOf(cell game.Cell) int {
	return t.board.OccupantOf(cell)
}

func (t *Tracker) ActionAt(cell game.Cell) game.ActionCode {
	return t.actions[cell]
}

func (t *Tracker) Memory() *Memory {
	return t.memory
}

func (t *Tracker) EmptyCells() []game.Cell {
	return t.board.EmptyCells()
}
