package search

import (
	"testing"

	"github.com/nullptr-dev/corvid/board"
	"github.com/stretchr/testify/require"
)

func TestSelectNextPrefersTTMoveFirst(t *testing.T) {
	pos, err := board.PositionFromFEN(board.StartFEN)
	require.NoError(t, err)

	moves := pos.LegalMoves()
	tt := NewTranspoTableMiB(1)
	want := board.Move{From: board.SquareG1, To: board.SquareF3, MoveType: board.Normal, Target: board.WhiteKnight}
	tt.Save(pos.Hash(), 0, Exact, want, 1, 0)

	ordering := NewOrdering(moves)
	orderer := NewOrderer()
	got := ordering.SelectNext(0, pos, 0, tt, orderer, board.Move{})
	require.Equal(t, want, got)
}

func TestSelectNextPrefersKillerOverQuiet(t *testing.T) {
	pos, err := board.PositionFromFEN(board.StartFEN)
	require.NoError(t, err)

	moves := pos.LegalMoves()
	tt := NewTranspoTableMiB(1)
	orderer := NewOrderer()
	killer := board.Move{From: board.SquareB1, To: board.SquareC3, MoveType: board.Normal, Target: board.WhiteKnight}
	orderer.RecordCutoff(0, 4, killer, board.White, board.Move{})

	ordering := NewOrdering(moves)
	// slot 0 has no TT hint here, so SelectNext falls through to scoring;
	// the killer should win over every other quiet opening move.
	got := ordering.SelectNext(0, pos, 0, tt, orderer, board.Move{})
	require.Equal(t, killer, got)
}

func TestSelectNextOrdersCapturesByMVVLVA(t *testing.T) {
	// White pawn e4 can take either a defended knight on d5 or an
	// undefended queen on f5; MVV-LVA should pick the queen capture first
	// since it doesn't know about the defender, only victim/attacker value.
	pos, err := board.PositionFromFEN("4k3/8/8/3n1q2/4P3/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	moves := pos.LegalMoves()
	tt := NewTranspoTableMiB(1)
	orderer := NewOrderer()
	ordering := NewOrdering(moves)

	first := ordering.SelectNext(0, pos, 0, tt, orderer, board.Move{})
	require.Equal(t, board.SquareF5, first.To, "queen capture should be scored above knight capture")
}

func TestSelectNextExhaustsAllMoves(t *testing.T) {
	pos, err := board.PositionFromFEN(board.StartFEN)
	require.NoError(t, err)

	moves := pos.LegalMoves()
	tt := NewTranspoTableMiB(1)
	orderer := NewOrderer()
	ordering := NewOrdering(moves)

	seen := make(map[board.Move]bool)
	for i := 0; i < ordering.Len(); i++ {
		m := ordering.SelectNext(i, pos, 0, tt, orderer, board.Move{})
		require.False(t, seen[m], "move %v returned twice", m)
		seen[m] = true
	}
	require.Equal(t, len(moves), len(seen))
}
