// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package search

import (
	"unsafe"

	"github.com/nullptr-dev/corvid/board"
	"github.com/nullptr-dev/corvid/eval"
)

// Bound classifies how a stored score relates to the window it was found
// in, mirroring the teacher's hashFlags (exact/failedLow/failedHigh).
type Bound uint8

const (
	// Exact means the stored score is the position's true minimax value.
	Exact Bound = iota
	// LowerBound means the search failed high: the true score is at least
	// this value (the move is a refutation, a beta cutoff).
	LowerBound
	// UpperBound means the search failed low: the true score is at most
	// this value.
	UpperBound
)

// Entry is a single transposition table slot. A zero Hash marks an empty
// slot; every other field is only meaningful once Hash matches the probed
// position.
type Entry struct {
	Hash     uint64
	Eval     int32
	Depth    int8
	Bound    Bound
	BestMove board.Move
}

// DefaultHashMiB is the transposition table size used when a front-end
// doesn't override it (spec default, also zurichess's own ballpark).
const DefaultHashMiB = 10

// TranspoTable is a fixed-capacity, single-slot-per-bucket hash table
// from position key to (score, bound, depth, best move). Unlike the
// teacher's two-way HashTable, a collision simply overwrites per the
// depth-preferred replacement rule (§4.2); there is no second probe slot.
type TranspoTable struct {
	table []Entry
}

// NewTranspoTable allocates a table sized to fit within byteBudget bytes,
// per spec.md §4.2: capacity = max(1, byteBudget/sizeof(entry) - 1).
func NewTranspoTable(byteBudget int) *TranspoTable {
	entrySize := int(unsafe.Sizeof(Entry{}))
	capacity := byteBudget/entrySize - 1
	if capacity < 1 {
		capacity = 1
	}
	return &TranspoTable{table: make([]Entry, capacity)}
}

// NewTranspoTableMiB is a convenience constructor taking the size in MiB,
// the unit exposed on the UCI "setoption name Hash" surface.
func NewTranspoTableMiB(mib int) *TranspoTable {
	return NewTranspoTable(mib << 20)
}

// Len returns the number of slots in the table.
func (tt *TranspoTable) Len() int { return len(tt.table) }

func (tt *TranspoTable) slot(hash uint64) *Entry {
	return &tt.table[hash%uint64(len(tt.table))]
}

// Probe returns the slot for hash and whether it actually holds hash (the
// caller must not trust a slot whose Hash field doesn't match: this is
// just an open-addressed bucket that may hold an unrelated position).
func (tt *TranspoTable) Probe(hash uint64) (Entry, bool) {
	e := tt.slot(hash)
	if e.Hash != hash || hash == 0 {
		return Entry{}, false
	}
	return *e, true
}

// Save stores a search result, normalizing mate scores to be independent
// of ply (see eval.ToStorageScore), and replacing the existing slot only
// if depth is at least as deep as what's already there (depth-preferred
// replacement, spec.md §4.2).
func (tt *TranspoTable) Save(hash uint64, score int32, bound Bound, move board.Move, depth int, ply int) {
	if hash == 0 {
		// A real position never hashes to 0 in practice (Zobrist seeds are
		// non-zero); guard anyway since 0 is the empty-slot sentinel.
		return
	}
	slot := tt.slot(hash)
	if slot.Hash != 0 && int(slot.Depth) > depth {
		return
	}
	slot.Hash = hash
	slot.Eval = eval.ToStorageScore(score, ply)
	slot.Depth = int8(depth)
	slot.Bound = bound
	slot.BestMove = move
}

// Clear empties every slot. Used between games (ucinewgame), not between
// moves within the same game: the table is shared game-wide (spec.md §5).
func (tt *TranspoTable) Clear() {
	for i := range tt.table {
		tt.table[i] = Entry{}
	}
}
