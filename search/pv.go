// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package search

import "github.com/nullptr-dev/corvid/board"

// pvMaxLen bounds a single principal-variation buffer (spec.md §4.5).
const pvMaxLen = 100

// pvLine is a recursive frame's local principal-variation buffer: each
// alphabeta call owns one, and a parent copies [move, child...] into its
// own when a child improves alpha (spec.md §4.5).
type pvLine struct {
	moves [pvMaxLen]board.Move
	n     int
}

func (pv *pvLine) reset() { pv.n = 0 }

// update replaces pv with [move, child's moves...], truncating if the
// combined line would overflow the buffer.
func (pv *pvLine) update(move board.Move, child *pvLine) {
	pv.moves[0] = move
	n := copy(pv.moves[1:], child.moves[:child.n])
	pv.n = 1 + n
}

// Moves returns the collected line.
func (pv *pvLine) Moves() []board.Move { return pv.moves[:pv.n] }
