// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package eval implements static position evaluation: material, piece
// placement, pawn structure and king safety, folded into a single
// centipawn score from the perspective of the side to move.
//
// The material values, structural penalties/bonuses and piece-square
// tables are grounded in the reference engine this package's behavior was
// distilled from; two rules documented there were corrected here (see
// isolatedPawnEval and kingSafetyEval) rather than ported literally.
package eval

import (
	"math"

	"github.com/nullptr-dev/corvid/board"
)

// MateValue is the score magnitude search reports for the side about to be
// checkmated, before distance-to-mate adjustment. Scores closer to zero
// than the mate band below are ordinary positional scores; anything inside
// the band encodes "mate in N plies".
const (
	MateValue  int32 = math.MinInt32 + 1000
	mateBand   int32 = math.MinInt32 + 1200
	Infinity   int32 = math.MaxInt32 - 500
)

// IsMateScore reports whether score encodes a forced mate rather than an
// ordinary positional evaluation.
func IsMateScore(score int32) bool {
	return score < mateBand || score > -mateBand
}

// DistanceToMateInPlies returns the non-negative distance to the encoded
// mate, given a score for which IsMateScore is true. The result counts full
// moves (plies halved, rounded up), the unit of UCI's "score mate N"; the
// caller supplies the sign.
func DistanceToMateInPlies(score int32) int32 {
	if score < mateBand {
		return (score - (math.MinInt32 + 1000) + 1) / 2
	}
	if score > -mateBand {
		return (-score - (math.MinInt32 + 1000) + 1) / 2
	}
	return 0
}

// ToStorageScore normalizes score for storage in the transposition table:
// mate scores are ply-adjusted so the stored value no longer depends on
// where in the tree this node sits (spec.md §4.2). Non-mate scores pass
// through unchanged. Centralized here with FromStorageScore per spec.md
// §9's advice to keep the two mate-score adjustments in one place.
func ToStorageScore(score int32, ply int) int32 {
	switch {
	case score < mateBand:
		return score - int32(ply)
	case score > -mateBand:
		return score + int32(ply)
	default:
		return score
	}
}

// FromStorageScore reverses ToStorageScore using the probing node's ply.
func FromStorageScore(score int32, ply int) int32 {
	switch {
	case score < mateBand:
		return score + int32(ply)
	case score > -mateBand:
		return score - int32(ply)
	default:
		return score
	}
}

// figures in evaluation order, king last (king material isn't summed since
// checkmate is handled as a terminal score, not via King's own value).
var figuresNoKing = [...]board.Figure{board.Pawn, board.Knight, board.Bishop, board.Rook, board.Queen}
var allFigures = [...]board.Figure{board.Pawn, board.Knight, board.Bishop, board.Rook, board.Queen, board.King}

const (
	doublePawnPenalty      int32 = 20
	isolatedPawnPenalty    int32 = 15
	passedPawnBonus        int32 = 25
	tempoValue             int32 = 5
	pawnProtectorBonus     int32 = 6
	pawnSecondProtectorBonus int32 = 4
	kingOnSemiOpenPenalty  int32 = 7

	centralizationMaterialGate int32 = 1600
)

var middleFiles = [...]int{1, 2, 3, 4, 5, 6} // files b..g

// Centralization/placement tables, 64 squares, a1=0 .. h8=63.
var (
	pawnCentralizationMidgame = [64]int32{
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 2, 2, 2, 2, 2, 2, 0,
		0, 2, 4, 4, 4, 4, 2, 0,
		0, 2, 5, 12, 12, 5, 2, 0,
		0, 2, 5, 12, 12, 5, 2, 0,
		0, 2, 4, 4, 4, 4, 2, 0,
		0, 2, 2, 2, 2, 2, 2, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
	}
	knightCentralizationMidgame = pawnCentralizationMidgame

	sliderCentralizationMidgame = [64]int32{
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 4, 4, 4, 4, 0, 0,
		0, 0, 4, 4, 4, 4, 0, 0,
		0, 0, 4, 4, 4, 4, 0, 0,
		0, 0, 4, 4, 4, 4, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
	}

	kingCentralizationMidgame = [64]int32{
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, -8, -10, -10, -8, 0, 0,
		0, 0, -10, -16, -16, -10, 0, 0,
		0, 0, -10, -16, -16, -10, 0, 0,
		0, 0, -8, -10, -10, -8, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
	}

	kingCentralizationEndgame = [64]int32{
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 8, 10, 10, 8, 0, 0,
		0, 0, 10, 16, 16, 10, 0, 0,
		0, 0, 10, 16, 16, 10, 0, 0,
		0, 0, 8, 10, 10, 8, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
	}

	whitePawnPositionEndgame = [64]int32{
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 20, 20, 0, 0, 0,
		5, 5, 10, 25, 25, 10, 5, 5,
		10, 10, 20, 30, 30, 20, 10, 10,
		15, 15, 20, 20, 20, 20, 15, 25,
		50, 50, 50, 50, 50, 50, 50, 50,
		0, 0, 0, 0, 0, 0, 0, 0,
	}
	blackPawnPositionEndgame = [64]int32{
		0, 0, 0, 0, 0, 0, 0, 0,
		50, 50, 50, 50, 50, 50, 50, 50,
		15, 15, 20, 20, 20, 20, 15, 25,
		10, 10, 20, 30, 30, 20, 10, 10,
		5, 5, 10, 25, 25, 10, 5, 5,
		0, 0, 0, 20, 20, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
	}
)

func centralizationTableFor(fig board.Figure) *[64]int32 {
	switch fig {
	case board.Pawn:
		return &pawnCentralizationMidgame
	case board.Knight:
		return &knightCentralizationMidgame
	case board.King:
		return &kingCentralizationMidgame
	default:
		return &sliderCentralizationMidgame
	}
}

func endgameTableFor(fig board.Figure, col board.Color) *[64]int32 {
	switch fig {
	case board.Pawn:
		if col == board.White {
			return &whitePawnPositionEndgame
		}
		return &blackPawnPositionEndgame
	case board.King:
		return &kingCentralizationEndgame
	default:
		return &sliderCentralizationMidgame
	}
}

func sumTable(bb board.Bitboard, table *[64]int32) int32 {
	var total int32
	for bb != 0 {
		sq := bb.Pop()
		total += table[sq]
	}
	return total
}

// Evaluator holds no state; it exists as a value so Eval can be extended
// with configuration (e.g. tuned weights) without changing call sites.
type Evaluator struct{}

// New returns a ready-to-use Evaluator.
func New() Evaluator { return Evaluator{} }

// Eval returns pos's score in centipawns from the perspective of the side
// to move: positive means the side to move is better. Checkmate and
// stalemate are reported as terminal scores; everything else folds
// material, placement, pawn structure and king safety into one number.
func (Evaluator) Eval(pos board.Position, ply int) int32 {
	switch pos.Status() {
	case board.Checkmate:
		return MateValue + int32(ply)
	case board.Stalemate:
		return 0
	}

	var score, totalMaterial int32
	for _, fig := range figuresNoKing {
		w := pos.ByPiece(board.White, fig).Popcnt()
		b := pos.ByPiece(board.Black, fig).Popcnt()
		v := board.FigureValue[fig]
		score += v * int32(w-b)
		totalMaterial += v * int32(w+b)
	}

	score += centralizationEval(pos, totalMaterial)
	score += doubledPawnEval(pos)
	score += isolatedPawnEval(pos)
	score += passedPawnEval(pos)
	if totalMaterial > centralizationMaterialGate {
		score += kingSafetyEval(pos)
	}
	score += tempoValue

	if pos.SideToMove == board.Black {
		score = -score
	}
	return score
}

// TotalMaterial returns the sum of non-king material for both sides, with
// no sign correction for side to move. Search uses this to gate null-move
// pruning and futility pruning away from the endgame/zugzwang-prone zone.
func TotalMaterial(pos board.Position) int32 {
	var total int32
	for _, fig := range figuresNoKing {
		w := pos.ByPiece(board.White, fig).Popcnt()
		b := pos.ByPiece(board.Black, fig).Popcnt()
		total += board.FigureValue[fig] * int32(w+b)
	}
	return total
}

func centralizationEval(pos board.Position, totalMaterial int32) int32 {
	var score int32
	if totalMaterial > centralizationMaterialGate {
		for _, fig := range allFigures {
			table := centralizationTableFor(fig)
			score += sumTable(pos.ByPiece(board.White, fig), table)
			score -= sumTable(pos.ByPiece(board.Black, fig), table)
		}
		return score
	}
	for _, fig := range allFigures {
		score += sumTable(pos.ByPiece(board.White, fig), endgameTableFor(fig, board.White))
		score -= sumTable(pos.ByPiece(board.Black, fig), endgameTableFor(fig, board.Black))
	}
	return score
}

func doubledPawnEval(pos board.Position) int32 {
	whitePawns := pos.ByPiece(board.White, board.Pawn)
	blackPawns := pos.ByPiece(board.Black, board.Pawn)

	var score int32
	for file := 0; file < 8; file++ {
		mask := board.FileBb(file)
		w := (whitePawns & mask).Popcnt()
		b := (blackPawns & mask).Popcnt()
		if w != 0 {
			score -= doublePawnPenalty * int32(w-1)
		}
		if b != 0 {
			score += doublePawnPenalty * int32(b-1)
		}
	}
	return score
}

// isolatedPawnEval penalizes a side's own pawn that has no friendly pawn on
// an adjacent file. The reference implementation this is grounded on
// instead tested the *opponent's* adjacent files, which values isolation
// backwards; this uses the standard definition instead, per the documented
// correction.
func isolatedPawnEval(pos board.Position) int32 {
	whitePawns := pos.ByPiece(board.White, board.Pawn)
	blackPawns := pos.ByPiece(board.Black, board.Pawn)

	var score int32
	for _, file := range middleFiles {
		left, right := board.FileBb(file-1), board.FileBb(file+1)
		mask := board.FileBb(file)

		if w := (whitePawns & mask).Popcnt(); w != 0 && whitePawns&left == 0 && whitePawns&right == 0 {
			score -= isolatedPawnPenalty * int32(w)
		}
		if b := (blackPawns & mask).Popcnt(); b != 0 && blackPawns&left == 0 && blackPawns&right == 0 {
			score += isolatedPawnPenalty * int32(b)
		}
	}
	return score
}

func passedPawnEval(pos board.Position) int32 {
	whitePawns := pos.ByPiece(board.White, board.Pawn)
	blackPawns := pos.ByPiece(board.Black, board.Pawn)

	var score int32
	for _, file := range middleFiles {
		left, right := board.FileBb(file-1), board.FileBb(file+1)
		mask := board.FileBb(file)

		w := (whitePawns & mask).Popcnt()
		b := (blackPawns & mask).Popcnt()
		if w != 0 && b == 0 && blackPawns&left == 0 && blackPawns&right == 0 {
			score += passedPawnBonus
		}
		if b != 0 && w == 0 && whitePawns&left == 0 && whitePawns&right == 0 {
			score -= passedPawnBonus
		}
	}
	return score
}

// kingSafetyEval rewards pawns sheltering the king on the two ranks in
// front of it. The reference implementation's second-rank shift set used
// <<9 twice (once for the first-rank set, again for the second), so it
// double counted one first-rank square instead of covering the second
// rank; this uses the three distinct second-rank shifts <<15, <<16, <<17.
func kingSafetyEval(pos board.Position) int32 {
	whiteKing := pos.ByPiece(board.White, board.King)
	blackKing := pos.ByPiece(board.Black, board.King)
	whitePawns := pos.ByPiece(board.White, board.Pawn)
	blackPawns := pos.ByPiece(board.Black, board.Pawn)

	wk, bk := uint64(whiteKing), uint64(blackKing)
	whiteShelter := board.Bitboard(wk<<7 | wk<<8 | wk<<9)
	blackShelter := board.Bitboard(bk>>7 | bk>>8 | bk>>9)
	whiteSecondShelter := board.Bitboard(wk<<15 | wk<<16 | wk<<17)
	blackSecondShelter := board.Bitboard(bk>>15 | bk>>16 | bk>>17)

	var score int32
	score += pawnProtectorBonus * int32((whitePawns & whiteShelter).Popcnt())
	score -= pawnProtectorBonus * int32((blackPawns & blackShelter).Popcnt())
	score += pawnSecondProtectorBonus * int32((whitePawns & whiteSecondShelter).Popcnt())
	score -= pawnSecondProtectorBonus * int32((blackPawns & blackSecondShelter).Popcnt())

	for file := 0; file < 8; file++ {
		mask := board.FileBb(file)
		if whiteKing&mask != 0 && whitePawns&mask == 0 {
			score -= kingOnSemiOpenPenalty
		}
		if blackKing&mask != 0 && blackPawns&mask == 0 {
			score += kingOnSemiOpenPenalty
		}
	}
	return score
}
