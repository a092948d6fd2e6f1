// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package search

import "github.com/nullptr-dev/corvid/board"

// MaxMoves is the per-node move buffer capacity (spec.md §4.3). No legal
// chess position has anywhere near this many legal moves; it's a generous
// static bound so Ordering never allocates.
const MaxMoves = 255

// Ordering is a per-node move buffer that hands back moves in best-first
// order via lazy selection sort: SelectNext only scores and swaps the
// single best remaining candidate into place, so a beta cutoff after the
// first move or two never pays for scoring or sorting the rest.
type Ordering struct {
	moves [MaxMoves]board.Move
	n     int
}

// NewOrdering copies moves (legal moves generated for the node's position)
// into a fresh Ordering buffer.
func NewOrdering(moves []board.Move) *Ordering {
	mo := &Ordering{n: len(moves)}
	copy(mo.moves[:], moves)
	return mo
}

// Len returns the number of moves left to order.
func (mo *Ordering) Len() int { return mo.n }

// score computes the ordering score for the move at slot i per spec.md
// §4.3's priority: TT hint (only checked by the caller for i==0, see
// SelectNext) > killer > MVV-LVA capture > history + counter-move bonus.
func (mo *Ordering) score(i int, pos board.Position, ply int, stm board.Color, orderer *Orderer, prevMove board.Move) int32 {
	m := mo.moves[i]
	if orderer.Killer(ply, m) {
		return KillerValue
	}
	if m.IsViolent() {
		captured := m.Capture.Figure()
		return mvvlva[captured][m.Piece().Figure()]
	}
	score := orderer.History(stm, m)
	if orderer.CounterMove(prevMove) == m {
		score += CounterBonus
	}
	return score
}

// SelectNext returns the i-th move in best-first order, scanning slots
// [i, Len()) and swapping the best-scored one into slot i (spec.md §4.3).
// At i==0, if tt holds an entry for pos whose best move is present in the
// buffer, that move is moved to slot 0 and returned immediately — its
// score overrides every other rule, since it was the best move the last
// time this exact position was searched.
func (mo *Ordering) SelectNext(i int, pos board.Position, ply int, tt *TranspoTable, orderer *Orderer, prevMove board.Move) board.Move {
	if i == 0 {
		if entry, ok := tt.Probe(pos.Hash()); ok {
			for j := 0; j < mo.n; j++ {
				if mo.moves[j] == entry.BestMove {
					mo.moves[0], mo.moves[j] = mo.moves[j], mo.moves[0]
					return mo.moves[0]
				}
			}
		}
	}

	stm := pos.SideToMove
	bestIdx := i
	bestScore := mo.score(i, pos, ply, stm, orderer, prevMove)
	for j := i + 1; j < mo.n; j++ {
		if s := mo.score(j, pos, ply, stm, orderer, prevMove); s > bestScore {
			bestScore, bestIdx = s, j
		}
	}
	mo.moves[i], mo.moves[bestIdx] = mo.moves[bestIdx], mo.moves[i]
	return mo.moves[i]
}
