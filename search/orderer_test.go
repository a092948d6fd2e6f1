package search

import (
	"testing"

	"github.com/nullptr-dev/corvid/board"
	"github.com/stretchr/testify/require"
)

func TestRecordCutoffTracksKillers(t *testing.T) {
	o := NewOrderer()
	m1 := board.Move{From: board.SquareE2, To: board.SquareE4, MoveType: board.Normal, Target: board.WhitePawn}
	m2 := board.Move{From: board.SquareD2, To: board.SquareD4, MoveType: board.Normal, Target: board.WhitePawn}

	o.RecordCutoff(3, 5, m1, board.White, board.Move{})
	require.True(t, o.Killer(3, m1))
	require.False(t, o.Killer(3, m2))

	o.RecordCutoff(3, 5, m2, board.White, board.Move{})
	require.True(t, o.Killer(3, m1), "slot 0 should shift to slot 1, not be evicted")
	require.True(t, o.Killer(3, m2))
}

func TestRecordCutoffIgnoresCaptures(t *testing.T) {
	o := NewOrderer()
	capture := board.Move{From: board.SquareE4, To: board.SquareD5, Capture: board.BlackPawn, MoveType: board.Normal, Target: board.WhitePawn}
	o.RecordCutoff(2, 4, capture, board.White, board.Move{})
	require.False(t, o.Killer(2, capture))
	require.Equal(t, int32(0), o.History(board.White, capture))
}

func TestHistoryAccumulatesDepthSquared(t *testing.T) {
	o := NewOrderer()
	m := board.Move{From: board.SquareG1, To: board.SquareF3, MoveType: board.Normal, Target: board.WhiteKnight}
	o.RecordCutoff(1, 4, m, board.White, board.Move{})
	o.RecordCutoff(1, 3, m, board.White, board.Move{})
	require.Equal(t, int32(4*4+3*3), o.History(board.White, m))

	o.ResetHistory()
	require.Equal(t, int32(0), o.History(board.White, m))
}

func TestCounterMoveIsRecorded(t *testing.T) {
	o := NewOrderer()
	prev := board.Move{From: board.SquareE7, To: board.SquareE5, MoveType: board.Normal, Target: board.BlackPawn}
	refutation := board.Move{From: board.SquareG1, To: board.SquareF3, MoveType: board.Normal, Target: board.WhiteKnight}

	require.Equal(t, board.Move{}, o.CounterMove(prev))
	o.RecordCutoff(1, 2, refutation, board.White, prev)
	require.Equal(t, refutation, o.CounterMove(prev))
}

func TestKillerOutOfRangePlyIsIgnored(t *testing.T) {
	o := NewOrderer()
	m := board.Move{From: board.SquareE2, To: board.SquareE4, MoveType: board.Normal, Target: board.WhitePawn}
	require.False(t, o.Killer(-1, m))
	require.False(t, o.Killer(MaxDepth, m))
	o.RecordCutoff(MaxDepth, 2, m, board.White, board.Move{})
}
