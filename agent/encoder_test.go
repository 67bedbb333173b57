package agent

import (
	"errors"
	"testing"

	"gossip/game"
	"gossip/policy"
	"gossip/utils"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestEncoder(radius int) (*Encoder, *Tracker, *Ledger) {
	tracker := NewTracker(0, game.DefaultPlayers, DefaultMemoryCapacity, zerolog.Nop())
	ledger := NewLedger(42)
	return NewEncoder(tracker, ledger, radius, utils.NewRand(1)), tracker, ledger
}

// markerAt is the marker slot of cell in the given section.
func markerAt(section int, cell game.Cell) int {
	return HeaderDim + section*SectionDim + int(cell)*CellDim
}

func TestEncode(t *testing.T) {
	t.Run("length and header", func(t *testing.T) {
		e, tr, _ := newTestEncoder(1)
		require.NoError(t, tr.UpdateBeforeTurn([]game.Position{{Player: 0, Table: 4, Seat: 4}}))
		tr.UpdateAfterTurn(nil)

		out := e.Encode()
		require.Len(t, out, 902, "2 header values plus current and two remembered sections")
		require.Equal(t, 902, e.Dim())
		require.Equal(t, float32(42), out[0], "Selected gossip")
		require.Equal(t, float32(1), out[1], "Turn counter")
	})

	t.Run("cells carry occupant and action", func(t *testing.T) {
		e, tr, _ := newTestEncoder(1)
		require.NoError(t, tr.UpdateBeforeTurn([]game.Position{
			{Player: 0, Table: 5, Seat: 5},
			{Player: 12, Table: 2, Seat: 3},
		}))
		tr.UpdateAfterTurn([]game.Observed{{Player: 12, Command: game.CommandListen, Direction: game.Left}})

		out := e.Encode()
		base := markerAt(0, 23)
		require.Equal(t, float32(0), out[base], "No marker away from the agent")
		require.Equal(t, float32(12), out[base+1], "Occupant id")
		require.Equal(t, float32(game.ListenLeft), out[base+2], "Action code")

		empty := markerAt(0, 70)
		require.Equal(t, float32(game.DefaultPlayers), out[empty+1], "Vacant sentinel")
		require.Equal(t, float32(game.NoAction), out[empty+2], "No action sentinel")
	})

	t.Run("unfilled memory is encoded as absent", func(t *testing.T) {
		e, tr, _ := newTestEncoder(1)
		require.NoError(t, tr.UpdateBeforeTurn([]game.Position{{Player: 0, Table: 0, Seat: 3}}))

		out := e.Encode()
		for section := 1; section <= 2; section++ {
			for c := game.Cell(0); c < game.NumCells; c++ {
				base := markerAt(section, c)
				require.Equal(t, float32(0), out[base])
				require.Equal(t, float32(game.DefaultPlayers), out[base+1])
				require.Equal(t, float32(game.NoAction), out[base+2])
			}
		}
	})

	t.Run("neighbors at seats 1 and 9 of the agent's table are marked", func(t *testing.T) {
		e, tr, _ := newTestEncoder(1)
		require.NoError(t, tr.UpdateBeforeTurn([]game.Position{
			{Player: 0, Table: 0, Seat: 0},
			{Player: 1, Table: 0, Seat: 1},
			{Player: 2, Table: 0, Seat: 9},
		}))
		tr.UpdateAfterTurn([]game.Observed{
			{Player: 1, Command: game.CommandTalk, Direction: game.Left},
			{Player: 2, Command: game.CommandListen, Direction: game.Right},
		})

		out := e.Encode()
		require.Equal(t, float32(NeighborMark), out[markerAt(0, 1)], "Right neighbor")
		require.Equal(t, float32(NeighborMark), out[markerAt(0, 9)], "Left neighbor wraps to seat 9")
		require.Equal(t, float32(SelfMark), out[markerAt(0, 0)], "Own cell")
		require.Equal(t, float32(0), out[markerAt(0, 2)], "Outside the radius")
		require.Equal(t, float32(game.TalkLeft), out[markerAt(0, 1)+2])
		require.Equal(t, float32(game.ListenRight), out[markerAt(0, 9)+2])
	})

	t.Run("remembered sections are marked around the remembered cell", func(t *testing.T) {
		e, tr, _ := newTestEncoder(1)
		require.NoError(t, tr.UpdateBeforeTurn([]game.Position{{Player: 0, Table: 1, Seat: 4}}))
		tr.UpdateAfterTurn(nil)
		require.NoError(t, tr.UpdateBeforeTurn([]game.Position{{Player: 0, Table: 7, Seat: 0}}))
		tr.UpdateAfterTurn(nil)
		require.NoError(t, tr.UpdateBeforeTurn([]game.Position{{Player: 0, Table: 3, Seat: 9}}))

		out := e.Encode()
		require.Equal(t, float32(SelfMark), out[markerAt(0, 39)], "Current cell")
		require.Equal(t, float32(NeighborMark), out[markerAt(0, 30)], "Current right neighbor wraps")
		require.Equal(t, float32(SelfMark), out[markerAt(1, 70)], "Last remembered cell")
		require.Equal(t, float32(NeighborMark), out[markerAt(1, 79)])
		require.Equal(t, float32(SelfMark), out[markerAt(2, 14)], "Oldest remembered cell")
		require.Equal(t, float32(NeighborMark), out[markerAt(2, 13)])
		require.Equal(t, float32(NeighborMark), out[markerAt(2, 15)])
	})

	t.Run("wider radius marks more seats", func(t *testing.T) {
		e, tr, _ := newTestEncoder(3)
		require.NoError(t, tr.UpdateBeforeTurn([]game.Position{{Player: 0, Table: 2, Seat: 1}}))

		out := e.Encode()
		for _, c := range []game.Cell{28, 29, 20, 22, 23, 24} {
			require.Equal(t, float32(NeighborMark), out[markerAt(0, c)], "cell %d", c)
		}
		require.Equal(t, float32(0), out[markerAt(0, 25)])
		require.Equal(t, float32(0), out[markerAt(0, 27)])
	})

	t.Run("unknown own seat marks nothing", func(t *testing.T) {
		e, tr, _ := newTestEncoder(1)
		require.NoError(t, tr.UpdateBeforeTurn([]game.Position{{Player: 3, Table: 0, Seat: 0}}))

		out := e.Encode()
		for c := game.Cell(0); c < game.NumCells; c++ {
			require.Equal(t, float32(0), out[markerAt(0, c)], "cell %d", c)
		}
	})

	t.Run("repeated calls are identical", func(t *testing.T) {
		e, tr, _ := newTestEncoder(1)
		require.NoError(t, tr.UpdateBeforeTurn([]game.Position{{Player: 0, Table: 0, Seat: 0}, {Player: 1, Table: 0, Seat: 1}}))
		tr.UpdateAfterTurn([]game.Observed{{Player: 1, Command: game.CommandTalk, Direction: game.Left}})

		require.Equal(t, e.Encode(), e.Encode())
	})

	t.Run("memory capacity changes the length", func(t *testing.T) {
		tracker := NewTracker(0, game.DefaultPlayers, 5, zerolog.Nop())
		e := NewEncoder(tracker, NewLedger(1), 1, utils.NewRand(1))
		require.Len(t, e.Encode(), Dim(5))
		require.Equal(t, 2+300*6, Dim(5))
	})
}

func TestDecode(t *testing.T) {
	t.Run("listen codes", func(t *testing.T) {
		e, _, _ := newTestEncoder(1)

		a, err := e.Decode(policy.Choice{Code: policy.ListenLeft})
		require.NoError(t, err)
		require.Equal(t, game.Listen{Direction: game.Left}, a)

		a, err = e.Decode(policy.Choice{Code: policy.ListenRight})
		require.NoError(t, err)
		require.Equal(t, game.Listen{Direction: game.Right}, a)
	})

	t.Run("talk codes tell the gossip at the clamped cursor", func(t *testing.T) {
		e, _, l := newTestEncoder(1)
		l.Add(80)
		l.Add(10)

		a, err := e.Decode(policy.Choice{Code: policy.TalkLeft, Shift: 1})
		require.NoError(t, err)
		require.Equal(t, game.Talk{Direction: game.Left, Gossip: 42}, a)

		a, err = e.Decode(policy.Choice{Code: policy.TalkRight, Shift: 5})
		require.NoError(t, err)
		require.Equal(t, game.Talk{Direction: game.Right, Gossip: 10}, a, "Cursor should clamp at the last entry")

		a, err = e.Decode(policy.Choice{Code: policy.TalkRight, Shift: -9})
		require.NoError(t, err)
		require.Equal(t, game.Talk{Direction: game.Right, Gossip: 80}, a, "Cursor should clamp at the first entry")
	})

	t.Run("move lists exactly the empty cells", func(t *testing.T) {
		e, tr, _ := newTestEncoder(1)
		require.NoError(t, tr.UpdateBeforeTurn([]game.Position{
			{Player: 0, Table: 0, Seat: 0},
			{Player: 1, Table: 4, Seat: 2},
			{Player: 2, Table: 9, Seat: 7},
		}))

		a, err := e.Decode(policy.Choice{Code: policy.Move})
		require.NoError(t, err)
		move, ok := a.(game.Move)
		require.True(t, ok, "Code 4 should decode to a move")

		cells := []game.Cell{}
		for _, s := range move.Seats {
			cells = append(cells, s.Cell())
		}
		require.ElementsMatch(t, tr.EmptyCells(), cells)
	})

	t.Run("invalid code is reported", func(t *testing.T) {
		e, _, l := newTestEncoder(1)
		l.Add(80)

		_, err := e.Decode(policy.Choice{Code: 7, Shift: 1})
		require.True(t, errors.Is(err, policy.ErrInvalidCode))
		require.Equal(t, 0, l.Cursor(), "Rejected choice should not move the cursor")
	})
}
