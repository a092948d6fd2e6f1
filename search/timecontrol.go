// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package search

import (
	"time"

	"github.com/seekerror/stdlib/pkg/lang"
)

// expectedRemainingPlies and rootPly implement spec.md §6's clock-style
// time budget formula exactly: move_time = time_left /
// max(1, (expectedRemainingPlies-rootPly)/2) + increment. The teacher's
// own TimeControl (engine/time_control.go) instead tracks a running
// MovesToGo that decreases move by move; spec.md fixes both terms at
// their starting values, so corvid does too.
const (
	expectedRemainingPlies = 100
	rootPly                = 0
)

// ClockLimits is the UCI "go wtime ... btime ... winc ... binc ...
// movestogo ..." time control (spec.md §6).
type ClockLimits struct {
	WTime, BTime time.Duration
	WInc, BInc   time.Duration
	MovesToGo    int
}

// Limits is the time/depth budget for one root search, modeled as the
// explicit optional sum spec.md §6 describes ("accepts: fixed move-time,
// infinite, clock-style"), the way herohde-morlock's searchctl.Options
// carries DepthLimit/TimeControl as lang.Optional[T] instead of a
// nil-checked pointer or a boolean-tagged union.
type Limits struct {
	Depth    lang.Optional[int]
	MoveTime lang.Optional[time.Duration]
	Clock    lang.Optional[ClockLimits]
	Infinite bool
}

// FixedDepth returns limits that search exactly to depth d and otherwise
// never time out.
func FixedDepth(d int) Limits {
	return Limits{Depth: lang.Of(d)}
}

// FixedMoveTime returns limits that think for exactly d before returning
// the last completed iteration.
func FixedMoveTime(d time.Duration) Limits {
	return Limits{MoveTime: lang.Of(d)}
}

// Infinite returns limits with no depth or time bound; the caller is
// expected to stop the search externally (UCI "stop").
func Infinite() Limits {
	return Limits{Infinite: true}
}

// WithClock returns limits governed by a clock-style time control.
func WithClock(c ClockLimits) Limits {
	return Limits{Clock: lang.Of(c)}
}

// depthLimit returns the maximum iterative-deepening depth, MaxDepth if
// unset.
func (l Limits) depthLimit() int {
	if d, ok := l.Depth.V(); ok {
		return d
	}
	return MaxDepth
}

// moveTime computes how long this search may run, or false if the search
// should run until stopped externally (infinite) or until depthLimit is
// reached with no time bound at all.
func (l Limits) moveTime(stm clockSide) (time.Duration, bool) {
	if l.Infinite {
		return 0, false
	}
	if d, ok := l.MoveTime.V(); ok {
		return d, true
	}
	if c, ok := l.Clock.V(); ok {
		timeLeft, inc := c.WTime, c.WInc
		if stm == clockSideBlack {
			timeLeft, inc = c.BTime, c.BInc
		}
		divisor := (expectedRemainingPlies - rootPly) / 2
		if divisor < 1 {
			divisor = 1
		}
		return timeLeft/time.Duration(divisor) + inc, true
	}
	return 0, false
}

type clockSide int

const (
	clockSideWhite clockSide = iota
	clockSideBlack
)
