// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package search

import "github.com/nullptr-dev/corvid/board"

// mvvlva is a table indexed [captured][capturing] where the captured
// figure dominates the score (its contribution is weighted 10x the
// capturing figure's), so a more valuable victim always sorts above a less
// valuable one regardless of attacker. Among captures of the same victim the
// attacker's value adds to the score, so a more valuable attacker sorts
// higher; there is no least-valuable-attacker tie-break. Matches
// spec.md §4.3's examples literally: mvvlva[Queen][Pawn] == 510000,
// mvvlva[Pawn][Queen] == 150000.
var mvvlva [board.FigureArraySize][board.FigureArraySize]int32

func init() {
	for captured := board.NoFigure; captured < board.Figure(board.FigureArraySize); captured++ {
		for capturing := board.NoFigure; capturing < board.Figure(board.FigureArraySize); capturing++ {
			mvvlva[captured][capturing] = 100000*int32(captured) + 10000*int32(capturing)
		}
	}
}
