package eval

import (
	"testing"

	"github.com/nullptr-dev/corvid/board"
	"github.com/stretchr/testify/require"
)

// mirrorColor builds the position with colors reversed (every piece moves
// to its vertically-flipped square with the opposite color, castling and
// en passant rights dropped, side to move kept) — used to check evaluator symmetry
// (spec.md §8 invariant 3). Built by re-placing each piece via a fresh FEN
// string rather than reaching into board.Position internals, since
// Position is otherwise only ever constructed via PositionFromFEN or
// MakeMove.
func mirrorColor(pos board.Position) board.Position {
	var placement [8][8]board.Piece
	for sq := board.SquareMinValue; sq <= board.SquareMaxValue; sq++ {
		pi := pos.PieceOn(sq)
		if pi == board.NoPiece {
			continue
		}
		mirroredSq := board.RankFile(7-sq.Rank(), sq.File())
		placement[mirroredSq.Rank()][mirroredSq.File()] = board.ColorFigure(pi.Color().Opposite(), pi.Figure())
	}

	fen := renderPlacement(placement) + " " + pos.SideToMove.String() + " - - 0 1"
	mirrored, err := board.PositionFromFEN(fen)
	if err != nil {
		panic(err)
	}
	return mirrored
}

func renderPlacement(placement [8][8]board.Piece) string {
	s := ""
	for r := 7; r >= 0; r-- {
		empty := 0
		for f := 0; f < 8; f++ {
			pi := placement[r][f]
			if pi == board.NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				s += string(rune('0' + empty))
				empty = 0
			}
			s += pi.String()
		}
		if empty > 0 {
			s += string(rune('0' + empty))
		}
		if r != 0 {
			s += "/"
		}
	}
	return s
}

func mustFEN(t *testing.T, fen string) board.Position {
	t.Helper()
	pos, err := board.PositionFromFEN(fen)
	require.NoError(t, err)
	return pos
}

func TestEvalSymmetry(t *testing.T) {
	ev := New()
	positions := []string{
		board.StartFEN,
		"r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3",
		"6k1/5ppp/8/8/8/8/5PPP/6K1 w - - 0 1",
		"4k3/8/4K3/4P3/8/8/8/8 w - - 0 1",
	}
	for _, fen := range positions {
		pos := mustFEN(t, fen)
		mirrored := mirrorColor(pos)

		a := ev.Eval(pos, 0)
		b := ev.Eval(mirrored, 0)

		// Tempo is always added from the side-to-move's perspective before
		// the final sign flip, so the two evaluations can differ by up to
		// 2*tempo once you account for both sides having their own tempo
		// credit (spec.md §8 invariant 3: "modulo a ±tempo of 10 cp").
		require.InDelta(t, a, -b, 10, "eval(%s)=%d should equal -eval(mirrored)=%d within tempo", fen, a, -b)
	}
}

func TestIsMateScore(t *testing.T) {
	for k := int32(0); k <= 199; k++ {
		require.True(t, IsMateScore(MateValue+k), "MateValue+%d should be a mate score", k)
		require.True(t, IsMateScore(-(MateValue + k)), "-(MateValue+%d) should be a mate score", k)
	}
	require.False(t, IsMateScore(0))
	require.False(t, IsMateScore(99))
	require.False(t, IsMateScore(-99))
}

func TestMateScoreStorageRoundTrip(t *testing.T) {
	for _, ply := range []int{0, 1, 5, 17, 40} {
		for _, score := range []int32{MateValue + 3, -(MateValue + 3), MateValue, -(MateValue + 1)} {
			stored := ToStorageScore(score, ply)
			back := FromStorageScore(stored, ply)
			require.Equal(t, score, back, "ply=%d score=%d", ply, score)
		}
	}
}

func TestNonMateScoreStorageIsUnchanged(t *testing.T) {
	for _, ply := range []int{0, 3, 12} {
		for _, score := range []int32{0, 100, -250, 899} {
			require.Equal(t, score, ToStorageScore(score, ply))
			require.Equal(t, score, FromStorageScore(score, ply))
		}
	}
}

func TestCheckmateAndStalemateAreTerminal(t *testing.T) {
	ev := New()

	mate := mustFEN(t, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	require.Equal(t, board.Checkmate, mate.Status())
	require.True(t, IsMateScore(ev.Eval(mate, 7)))
	require.Equal(t, MateValue+7, ev.Eval(mate, 7))

	stale := mustFEN(t, "k7/8/1Q6/8/8/8/8/1K6 b - - 0 1")
	require.Equal(t, board.Stalemate, stale.Status())
	require.Equal(t, int32(0), ev.Eval(stale, 3))
}

func TestTotalMaterialIgnoresKings(t *testing.T) {
	pos := mustFEN(t, board.StartFEN)
	// 8 pawns + 2 knights + 2 bishops + 2 rooks + 1 queen, per side.
	want := int32(2) * (8*100 + 2*290 + 2*310 + 2*500 + 900)
	require.Equal(t, want, TotalMaterial(pos))
}

func TestOpeningPositionIsRoughlyEqual(t *testing.T) {
	pos := mustFEN(t, "r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3")
	score := New().Eval(pos, 0)
	require.InDelta(t, 0, score, 80, "opening eval should be within +-80cp of equal, got %d", score)
}

func TestRookUpIsClearlyBetter(t *testing.T) {
	pos := mustFEN(t, "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1")
	score := New().Eval(pos, 0)
	require.GreaterOrEqual(t, score, int32(400), "white up a rook should score at least +400cp, got %d", score)
}
