// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package search

import "github.com/nullptr-dev/corvid/board"

// KillerSlots is the number of killer moves remembered per ply (spec.md §3).
const KillerSlots = 2

// MaxDepth bounds recursion and the size of the per-ply killer table
// (spec.md §3, §7).
const MaxDepth = 200

// CounterBonus is added to a quiet move's ordering score when it matches
// the stored counter move for the opponent's last move (spec.md §4.3).
const CounterBonus = 200

// KillerValue is the ordering score assigned to a killer-move match,
// placing it above ordinary quiet moves and below good captures
// (spec.md §4.3).
const KillerValue = 200000

// Orderer owns the move-ordering heuristics that persist across the whole
// root search: killer moves, history scores and counter moves. Unlike
// Ordering (per-node), one Orderer lives for the lifetime of a Search.
type Orderer struct {
	killers [MaxDepth][KillerSlots]board.Move
	history [board.ColorArraySize][board.SquareArraySize][board.SquareArraySize]int32
	counter [board.SquareArraySize][board.SquareArraySize]board.Move
}

// NewOrderer returns an Orderer with empty heuristics.
func NewOrderer() *Orderer {
	return &Orderer{}
}

// Killer reports whether m is one of the two killer moves recorded for ply.
func (o *Orderer) Killer(ply int, m board.Move) bool {
	if ply < 0 || ply >= MaxDepth {
		return false
	}
	k := &o.killers[ply]
	return m == k[0] || m == k[1]
}

// History returns the history heuristic score for a quiet move by stm.
func (o *Orderer) History(stm board.Color, m board.Move) int32 {
	return o.history[stm][m.From][m.To]
}

// CounterMove returns the stored refutation for the opponent's last move,
// or the zero Move if none is recorded.
func (o *Orderer) CounterMove(prev board.Move) board.Move {
	return o.counter[prev.From][prev.To]
}

// RecordCutoff updates the heuristics after a beta cutoff at ply with
// depthLeft plies remaining, caused by move by stm in response to
// prevMove. Captures don't update any of these tables (spec.md §4.4):
// only quiet cutoffs teach the ordering anything, since captures are
// already ordered by MVV-LVA.
func (o *Orderer) RecordCutoff(ply, depthLeft int, move board.Move, stm board.Color, prevMove board.Move) {
	if move.IsViolent() {
		return
	}
	if ply >= 0 && ply < MaxDepth {
		k := &o.killers[ply]
		if move != k[0] {
			k[1] = k[0]
			k[0] = move
		}
	}
	o.history[stm][move.From][move.To] += int32(depthLeft) * int32(depthLeft)
	if prevMove != (board.Move{}) {
		o.counter[prevMove.From][prevMove.To] = move
	}
}

// ResetHistory clears the history table, called at the end of each root
// search (spec.md §4.4). Killers and counters are reset only when a new
// Search is created (spec.md §5), so they persist across iterative
// deepening's depths within one root call.
func (o *Orderer) ResetHistory() {
	o.history = [board.ColorArraySize][board.SquareArraySize][board.SquareArraySize]int32{}
}

// ResetKillers clears killers and counter moves. Called when a Search
// instance is (re)created, not between root calls.
func (o *Orderer) ResetKillers() {
	o.killers = [MaxDepth][KillerSlots]board.Move{}
	o.counter = [board.SquareArraySize][board.SquareArraySize]board.Move{}
}
