package search

import (
	"testing"

	"github.com/nullptr-dev/corvid/board"
	"github.com/nullptr-dev/corvid/eval"
	"github.com/stretchr/testify/require"
)

func TestTranspoTableProbeMiss(t *testing.T) {
	tt := NewTranspoTableMiB(1)
	_, ok := tt.Probe(12345)
	require.False(t, ok)
}

func TestTranspoTableSaveAndProbe(t *testing.T) {
	tt := NewTranspoTableMiB(1)
	m := board.Move{From: board.SquareE2, To: board.SquareE4, MoveType: board.Normal, Target: board.WhitePawn}
	tt.Save(42, 100, Exact, m, 5, 0)

	entry, ok := tt.Probe(42)
	require.True(t, ok)
	require.Equal(t, uint64(42), entry.Hash)
	require.Equal(t, int32(100), entry.Eval)
	require.Equal(t, int8(5), entry.Depth)
	require.Equal(t, Exact, entry.Bound)
	require.Equal(t, m, entry.BestMove)
}

// TestTranspoTableReplacementIsDepthPreferred is the depth-preferred
// replacement law from spec.md §8: after save(h, d1) then save(h, d2) with
// d2 < d1, the stored depth stays d1.
func TestTranspoTableReplacementIsDepthPreferred(t *testing.T) {
	tt := NewTranspoTableMiB(1)
	hash := uint64(7)
	deep := board.Move{From: board.SquareD2, To: board.SquareD4, MoveType: board.Normal, Target: board.WhitePawn}
	shallow := board.Move{From: board.SquareA2, To: board.SquareA4, MoveType: board.Normal, Target: board.WhitePawn}

	tt.Save(hash, 10, Exact, deep, 8, 0)
	tt.Save(hash, -10, UpperBound, shallow, 3, 0)

	entry, ok := tt.Probe(hash)
	require.True(t, ok)
	require.Equal(t, int8(8), entry.Depth, "shallower save must not overwrite a deeper entry")
	require.Equal(t, deep, entry.BestMove)

	tt.Save(hash, 20, LowerBound, shallow, 9, 0)
	entry, ok = tt.Probe(hash)
	require.True(t, ok)
	require.Equal(t, int8(9), entry.Depth, "a deeper save must overwrite")
	require.Equal(t, shallow, entry.BestMove)
}

// TestTranspoTableMateScoreRoundTrip is spec.md §8 invariant 4: storing
// score s at ply p then reading back at ply p yields s again.
func TestTranspoTableMateScoreRoundTrip(t *testing.T) {
	tt := NewTranspoTableMiB(1)
	m := board.Move{From: board.SquareF7, To: board.SquareF8, MoveType: board.Normal, Target: board.WhiteQueen}

	for _, ply := range []int{0, 3, 11} {
		score := eval.MateValue + int32(ply) + 2
		tt.Save(uint64(1000+ply), score, Exact, m, 6, ply)

		entry, ok := tt.Probe(uint64(1000 + ply))
		require.True(t, ok)
		got := eval.FromStorageScore(entry.Eval, ply)
		require.Equal(t, score, got)
	}
}

func TestTranspoTableClear(t *testing.T) {
	tt := NewTranspoTableMiB(1)
	tt.Save(99, 0, Exact, board.Move{}, 1, 0)
	tt.Clear()
	_, ok := tt.Probe(99)
	require.False(t, ok)
}
