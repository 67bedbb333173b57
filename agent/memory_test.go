package agent

import (
	"testing"

	"gossip/game"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	t.Run("keeps the most recent snapshots first", func(t *testing.T) {
		m := NewMemory(3)
		for turn := 1; turn <= 7; turn++ {
			m.Push(Snapshot{Turn: turn})
		}

		require.Equal(t, 3, m.Len(), "Length should be capped at capacity")
		turns := []int{}
		for _, s := range m.Snapshots() {
			turns = append(turns, s.Turn)
		}
		require.Equal(t, []int{7, 6, 5}, turns)
	})

	t.Run("partially filled", func(t *testing.T) {
		m := NewMemory(3)
		m.Push(Snapshot{Turn: 1})

		require.Equal(t, 1, m.Len())
		_, ok := m.At(1)
		require.False(t, ok, "Unfilled slots are absent")
	})

	t.Run("zero capacity remembers nothing", func(t *testing.T) {
		m := NewMemory(0)
		m.Push(Snapshot{Turn: 1})
		require.Equal(t, 0, m.Len())
	})

	t.Run("negative capacity panics", func(t *testing.T) {
		require.Panics(t, func() { NewMemory(-1) })
	})

	t.Run("tracker memory is bounded over many turns", func(t *testing.T) {
		tr := NewTracker(0, game.DefaultPlayers, 2, zerolog.Nop())
		for turn := 0; turn < 10; turn++ {
			require.NoError(t, tr.UpdateBeforeTurn([]game.Position{{Player: 0, Table: turn % game.NumTables, Seat: 0}}))
			tr.UpdateAfterTurn(nil)
		}

		require.Equal(t, 2, tr.Memory().Len())
		latest, _ := tr.Memory().At(0)
		previous, _ := tr.Memory().At(1)
		require.Equal(t, 10, latest.Turn)
		require.Equal(t, 9, previous.Turn)
		require.Equal(t, game.CellOf(9, 0), latest.Self)
		require.Equal(t, game.CellOf(8, 0), previous.Self)
	})
}
