package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindIndex(t *testing.T) {
	require.Equal(t, 1, FindIndex([]int{4, 7, 9}, 7), "Should find the item's index")
	require.Equal(t, -1, FindIndex([]int{4, 7, 9}, 8), "Should report a missing item as -1")
}

func TestClamp(t *testing.T) {
	require.Equal(t, 0, Clamp(-3, 0, 5), "Should clamp to the lower bound")
	require.Equal(t, 5, Clamp(9, 0, 5), "Should clamp to the upper bound")
	require.Equal(t, 3, Clamp(3, 0, 5), "Should keep values in range")
}

func TestShuffle(t *testing.T) {
	t.Run("same seed gives same permutation", func(t *testing.T) {
		a := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
		b := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
		Shuffle(NewRand(42), a)
		Shuffle(NewRand(42), b)
		require.Equal(t, a, b, "Shuffles should be reproducible by seed")
	})

	t.Run("keeps every element", func(t *testing.T) {
		a := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
		Shuffle(NewRand(7), a)
		require.ElementsMatch(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, a, "Shuffle should only reorder")
	})
}
