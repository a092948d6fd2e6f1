// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package search implements iterative-deepening negamax alpha-beta search
// over a board.Position, backed by a transposition table and a persistent
// move-ordering heuristic. Its shape is grounded on the teacher's
// engine.Engine (_examples/easychessanimations-zurichess/engine/engine.go):
// one long-lived struct drives repeated root searches, reporting progress
// as it deepens and returning as soon as either a depth or time budget is
// exhausted.
package search

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/nullptr-dev/corvid/board"
	"github.com/nullptr-dev/corvid/eval"
	"github.com/seekerror/logw"
)

// pastEndTimeScore is returned by every frame once the clock has expired
// mid-search (spec.md §4.6 step 3). Ancestors check the past-end-time flag
// immediately after a recursive call and, if set, propagate this same
// sentinel upward rather than trusting the numeric value for alpha/beta
// bookkeeping: negating a sentinel this close to MinInt32 would otherwise
// overflow or masquerade as a real, very high score.
const pastEndTimeScore int32 = math.MinInt32 + 10

// nodeCheckInterval is how often (in visited nodes) BestMove polls the
// clock and the context, per spec.md §4.6 step 3.
const nodeCheckInterval = 1024

// nullMoveMinMaterial and nullMoveMinDepthLeft gate null-move pruning away
// from the endgame, where zugzwang makes the null-move heuristic unsound
// (spec.md §4.6 step 4).
const (
	nullMoveMinMaterial  int32 = 1000
	nullMoveMinDepthLeft int   = 3
)

// futilityMargin[depthLeft] bounds the position-level and move-level
// futility prunes for depthLeft in [0,3] (spec.md §4.6 steps 6-8).
var futilityMargin = [4]int32{0, 200, 300, 500}

// deltaPruneMargin and deltaPruneMinMaterial gate quiescence's delta
// pruning (spec.md §4.7).
const (
	deltaPruneMargin      int32 = 900
	deltaPruneMinMaterial int32 = 1600
)

// Search drives iterative-deepening negamax over one board.Position.
// It owns the move-ordering heuristics that persist across a root call
// (Orderer) and borrows a TranspoTable for the duration of BestMove; the
// table itself is expected to live across many BestMove calls within the
// same game (spec.md §5), unlike Orderer's history table, which is reset
// at the end of every root call.
type Search struct {
	orderer *Orderer
	limits  Limits
	eval    eval.Evaluator

	// Out receives UCI-style "info ..." progress lines and the final
	// "bestmove ..." line. Defaults to os.Stdout.
	Out io.Writer

	tt          *TranspoTable
	nodes       uint64
	endTime     time.Time
	hasEndTime  bool
	pastEndTime bool
}

// NewSearch returns a Search ready to run at the default depth limit
// (MaxDepth, effectively unbounded) with no time control.
func NewSearch() *Search {
	return &Search{
		orderer: NewOrderer(),
		limits:  FixedDepth(MaxDepth),
		eval:    eval.New(),
		Out:     os.Stdout,
	}
}

// SetDepth restricts every future BestMove call to depth plies.
func (s *Search) SetDepth(depth int) {
	s.limits = FixedDepth(depth)
}

// SetTimeControl installs tc as the budget for future BestMove calls.
func (s *Search) SetTimeControl(tc Limits) {
	s.limits = tc
}

// BestMove runs iterative deepening from pos until the depth or time
// budget in effect (SetDepth/SetTimeControl) is exhausted, reporting one
// "info ..." progress line per completed depth and a final "bestmove ..."
// line to Out, then returning the first move of the last fully completed
// iteration's principal variation (spec.md §4.5, §5).
func (s *Search) BestMove(ctx context.Context, pos board.Position, tt *TranspoTable) board.Move {
	s.tt = tt
	s.nodes = 0
	s.pastEndTime = false

	start := time.Now()
	side := clockSideWhite
	if pos.SideToMove == board.Black {
		side = clockSideBlack
	}
	if mt, ok := s.limits.moveTime(side); ok {
		s.endTime = start.Add(mt)
		s.hasEndTime = true
	} else {
		s.hasEndTime = false
	}

	var (
		bestMove board.Move
		bestPV   pvLine
		prevEval int32
	)

	depthLimit := s.limits.depthLimit()
	for depth := 1; depth <= depthLimit; depth++ {
		var pv pvLine
		alpha, beta := -eval.Infinity, eval.Infinity
		if depth >= 2 {
			alpha, beta = prevEval-50, prevEval+50
		}

		score := s.alphabeta(ctx, pos, alpha, beta, depth, 0, board.Move{}, true, &pv)
		if !s.pastEndTime && depth >= 2 && (score <= alpha || score >= beta) {
			logw.Debugf(ctx, "aspiration window [%d,%d] missed at depth %d (score %d), re-searching full width", alpha, beta, depth, score)
			pv.reset()
			score = s.alphabeta(ctx, pos, -eval.Infinity, eval.Infinity, depth, 0, board.Move{}, true, &pv)
		}

		if s.pastEndTime || pv.n == 0 {
			break
		}

		prevEval = score
		bestPV = pv
		bestMove = pv.moves[0]
		s.reportProgress(depth, score, start, &bestPV)

		if s.hasEndTime && time.Now().After(s.endTime) {
			break
		}
		if ctx.Err() != nil {
			break
		}
	}

	s.orderer.ResetHistory()
	if bestMove == (board.Move{}) {
		// Every iteration either ran out of time or found no PV (e.g. the
		// clock had already expired before depth 1 finished). Fall back to
		// any legal move so BestMove never returns an illegal "0000" while
		// the position has moves available.
		if moves := pos.LegalMoves(); len(moves) > 0 {
			bestMove = moves[0]
		}
	}
	fmt.Fprintf(s.Out, "bestmove %v\n", bestMove)
	return bestMove
}

// reportProgress writes one "info ..." line for a completed iteration.
func (s *Search) reportProgress(depth int, score int32, start time.Time, pv *pvLine) {
	elapsed := time.Since(start)
	ms := elapsed.Milliseconds()
	nps := s.nodes
	if ms > 0 {
		nps = s.nodes * 1000 / uint64(ms)
	}

	var scoreField string
	if eval.IsMateScore(score) {
		mateIn := eval.DistanceToMateInPlies(score)
		if score < 0 {
			mateIn = -mateIn
		}
		scoreField = fmt.Sprintf("mate %d", mateIn)
	} else {
		scoreField = fmt.Sprintf("cp %d", score)
	}

	fmt.Fprintf(s.Out, "info depth %d score %s time %d nodes %d pv", depth, scoreField, ms, s.nodes)
	for _, m := range pv.Moves() {
		fmt.Fprintf(s.Out, " %v", m)
	}
	fmt.Fprintf(s.Out, " nps %d\n", nps)
}

// checkTime polls the clock and ctx every nodeCheckInterval visited nodes
// and latches pastEndTime once either has run out (spec.md §4.6 step 3).
// Once latched, the flag never resets until the next BestMove call.
func (s *Search) checkTime(ctx context.Context) {
	s.nodes++
	if s.nodes%nodeCheckInterval != 0 {
		return
	}
	if s.hasEndTime && time.Now().After(s.endTime) {
		s.pastEndTime = true
		return
	}
	if ctx.Err() != nil {
		s.pastEndTime = true
	}
}

// alphabeta is one negamax node: score is always from pos.SideToMove's
// perspective. depthLeft is how many plies remain before dropping into
// quiescence; ply is the distance from the root, used for mate-score
// normalization and killer-table indexing. allowNull is false only for the
// immediate child of a null move, preventing two null moves in a row
// (spec.md §4.6 step 4). pvOut is filled with this node's principal
// variation unless the search cuts off or times out.
func (s *Search) alphabeta(ctx context.Context, pos board.Position, alpha, beta int32, depthLeft, ply int, prevMove board.Move, allowNull bool, pvOut *pvLine) int32 {
	pvOut.reset()

	if depthLeft <= 0 || ply >= MaxDepth {
		return s.quiesce(ctx, pos, alpha, beta, ply)
	}

	hash := pos.Hash()
	if entry, ok := s.tt.Probe(hash); ok && int(entry.Depth) >= depthLeft {
		score := eval.FromStorageScore(entry.Eval, ply)
		switch entry.Bound {
		case Exact:
			if entry.BestMove != (board.Move{}) {
				pvOut.moves[0] = entry.BestMove
				pvOut.n = 1
			}
			return score
		case LowerBound:
			if score >= beta {
				return beta
			}
		case UpperBound:
			if score <= alpha {
				return alpha
			}
		}
	}

	s.checkTime(ctx)
	if s.pastEndTime {
		return pastEndTimeScore
	}

	inCheck := pos.Checkers() != 0
	totalMaterial := eval.TotalMaterial(pos)

	if allowNull && !inCheck && depthLeft > nullMoveMinDepthLeft && totalMaterial > nullMoveMinMaterial {
		if nullPos, ok := pos.NullMove(); ok {
			reduction := depthLeft/4 + 3
			var nullPV pvLine
			score := -s.alphabeta(ctx, nullPos, -beta, -beta+1, depthLeft-reduction, ply+1, board.Move{}, false, &nullPV)
			if s.pastEndTime {
				return pastEndTimeScore
			}
			if score >= beta {
				logw.Debugf(ctx, "null-move cutoff at ply %d, depthLeft %d", ply, depthLeft)
				return beta
			}
		}
	}

	staticEval := s.eval.Eval(pos, ply)
	if depthLeft <= 3 && ply > 1 && !inCheck {
		if staticEval-futilityMargin[depthLeft] > beta {
			return beta
		}
	}

	moves := pos.LegalMoves()
	if len(moves) == 0 {
		return s.eval.Eval(pos, ply)
	}

	ordering := NewOrdering(moves)
	var (
		improvedAlpha bool
		firstMove     board.Move
		bestMove      board.Move
		childPV       pvLine
	)

	for i := 0; i < ordering.Len(); i++ {
		m := ordering.SelectNext(i, pos, ply, s.tt, s.orderer, prevMove)
		if i == 0 {
			firstMove = m
		}

		next := pos.MakeMove(m)
		givesCheck := next.Checkers() != 0

		if depthLeft <= 3 && i > 0 && !inCheck && !givesCheck && m.IsQuiet() && totalMaterial > nullMoveMinMaterial {
			if staticEval+futilityMargin[depthLeft] < alpha {
				continue
			}
		}

		childPV.reset()
		score := -s.alphabeta(ctx, next, -beta, -alpha, depthLeft-1, ply+1, m, true, &childPV)
		if s.pastEndTime {
			return pastEndTimeScore
		}

		if score >= beta {
			s.tt.Save(hash, beta, LowerBound, m, depthLeft, ply)
			s.orderer.RecordCutoff(ply, depthLeft, m, pos.SideToMove, prevMove)
			return beta
		}
		if score > alpha {
			alpha = score
			improvedAlpha = true
			bestMove = m
			pvOut.update(m, &childPV)
		}
	}

	if improvedAlpha {
		s.tt.Save(hash, alpha, Exact, bestMove, depthLeft, ply)
	} else {
		s.tt.Save(hash, alpha, UpperBound, firstMove, depthLeft, ply)
	}
	return alpha
}

// quiesce extends search along capture sequences until the position is
// "quiet" (spec.md §4.7). It never probes or writes the transposition
// table and never updates move-ordering heuristics: those only pay off
// across repeated visits to the same node, and quiescence nodes are
// visited once.
func (s *Search) quiesce(ctx context.Context, pos board.Position, alpha, beta int32, ply int) int32 {
	s.checkTime(ctx)
	if s.pastEndTime {
		return pastEndTimeScore
	}
	if ply >= MaxDepth {
		return s.eval.Eval(pos, ply)
	}

	standPat := s.eval.Eval(pos, ply)
	if standPat >= beta {
		return beta
	}
	if standPat+deltaPruneMargin < alpha {
		return alpha
	}
	if standPat > alpha {
		alpha = standPat
	}

	totalMaterial := eval.TotalMaterial(pos)
	captures := pos.LegalCaptures()
	orderCapturesByMVVLVA(captures)

	for _, m := range captures {
		if totalMaterial > deltaPruneMinMaterial {
			gain := board.FigureValue[m.Capture.Figure()]
			if standPat+gain < alpha {
				continue
			}
		}

		next := pos.MakeMove(m)
		score := -s.quiesce(ctx, next, -beta, -alpha, ply+1)
		if s.pastEndTime {
			return pastEndTimeScore
		}
		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}
	return alpha
}

// orderCapturesByMVVLVA sorts captures best-first by the same table
// Ordering uses at every alphabeta node, via a plain insertion sort: quiescence
// move lists are short (captures only) and, unlike Ordering, never need
// TT or killer lookups, so the full per-node Ordering machinery would be
// pure overhead here.
func orderCapturesByMVVLVA(captures []board.Move) {
	for i := 1; i < len(captures); i++ {
		m := captures[i]
		score := mvvlva[m.Capture.Figure()][m.Piece().Figure()]
		j := i - 1
		for j >= 0 && mvvlva[captures[j].Capture.Figure()][captures[j].Piece().Figure()] < score {
			captures[j+1] = captures[j]
			j--
		}
		captures[j+1] = m
	}
}
