// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package uci is a minimal implementation of the UCI (Universal Chess
// Interface) text protocol front-end around search.Search and board.Position.
//
// spec.md §1 treats this protocol layer as an external collaborator out of
// scope for the search/eval core; it is included here (grounded on the
// teacher's own zurichess/uci.go) so the repository is runnable end to end,
// the same way every example repo in the pack ships a cmd/.../main.go UCI
// loop beside its core.
package uci

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/nullptr-dev/corvid/board"
	"github.com/nullptr-dev/corvid/search"
)

// ErrQuit is returned by Execute for the "quit" command; callers should
// stop reading further input.
var ErrQuit = errors.New("quit")

const (
	engineName   = "corvid"
	engineAuthor = "nullptr-dev"
)

var reCmd = regexp.MustCompile(`^[[:word:]]+\b`)

// UCI holds one game's worth of state: the current position, the
// transposition table (shared game-wide per spec.md §5) and the persistent
// search heuristics, plus synchronization for the "go"/"stop" pair.
type UCI struct {
	// Out receives every line written to the UCI output channel: id/option
	// lines, "readyok", "info ...", "bestmove ...". Set by New to its
	// argument.
	Out io.Writer

	pos  board.Position
	srch *search.Search
	tt   *search.TranspoTable

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New returns a UCI ready to receive commands, with the engine at the
// standard starting position and a default-sized transposition table.
func New(out io.Writer) *UCI {
	pos, err := board.PositionFromFEN(board.StartFEN)
	if err != nil {
		// StartFEN is a compile-time constant; a parse failure here would
		// mean PositionFromFEN itself is broken, not bad input.
		panic(err)
	}
	u := &UCI{
		Out:  out,
		pos:  pos,
		srch: search.NewSearch(),
		tt:   search.NewTranspoTableMiB(search.DefaultHashMiB),
	}
	u.srch.Out = out
	return u
}

// SetHash resizes the transposition table. Intended for use before the
// first "go", e.g. from a command-line -hash flag; calling it mid-search
// has undefined effect on that search's TT writes.
func (u *UCI) SetHash(mib int) {
	u.tt = search.NewTranspoTableMiB(mib)
}

// SetFixedDepth sets the search's limits to a fixed depth of depth plies.
// Used by the -depth command-line flag. Every "go" command installs its own
// limits in place of these, so the fixed depth does not carry past the next
// "go".
func (u *UCI) SetFixedDepth(depth int) {
	u.srch.SetDepth(depth)
}

// Execute parses and runs one line of UCI input. It returns ErrQuit for
// "quit"; callers should stop reading input and exit. Any other non-nil
// error is a malformed or unsupported command and is recoverable — callers
// should report it (e.g. to stderr, since stdout is the protocol channel)
// and keep reading.
func (u *UCI) Execute(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	cmd := reCmd.FindString(line)
	if cmd == "" {
		return fmt.Errorf("invalid command line %q", line)
	}

	// These don't require the search goroutine to be idle.
	switch cmd {
	case "quit":
		u.stop()
		return ErrQuit
	case "stop":
		return u.stop()
	case "isready":
		fmt.Fprintln(u.Out, "readyok")
		return nil
	case "uci":
		return u.uci()
	}

	// Everything else mutates position/search state, so it must wait for
	// any in-flight "go" to finish first (spec.md §5: single owner at a
	// time for both the transposition table and the move-ordering state).
	u.wg.Wait()

	switch cmd {
	case "ucinewgame":
		u.tt.Clear()
		return nil
	case "position":
		return u.position(line)
	case "go":
		return u.goCmd(line)
	case "setoption":
		return u.setoption(line)
	case "perft":
		return u.perft(line)
	default:
		return fmt.Errorf("unhandled command %s", cmd)
	}
}

func (u *UCI) uci() error {
	fmt.Fprintf(u.Out, "id name %s\n", engineName)
	fmt.Fprintf(u.Out, "id author %s\n", engineAuthor)
	fmt.Fprintln(u.Out)
	fmt.Fprintf(u.Out, "option name Hash type spin default %d min 1 max 4096\n", search.DefaultHashMiB)
	fmt.Fprintln(u.Out, "uciok")
	return nil
}

func (u *UCI) position(line string) error {
	args := strings.Fields(line)[1:]
	if len(args) == 0 {
		return fmt.Errorf("expected argument for 'position'")
	}

	var (
		pos board.Position
		err error
		i   int
	)
	switch args[0] {
	case "startpos":
		pos, err = board.PositionFromFEN(board.StartFEN)
		i = 1
	case "fen":
		i = 1
		for i < len(args) && args[i] != "moves" {
			i++
		}
		pos, err = board.PositionFromFEN(strings.Join(args[1:i], " "))
	default:
		return fmt.Errorf("unknown position command: %s", args[0])
	}
	if err != nil {
		return err
	}

	if i < len(args) {
		if args[i] != "moves" {
			return fmt.Errorf("expected 'moves', got %q", args[i])
		}
		for _, mv := range args[i+1:] {
			m, err := pos.MoveFromUCI(mv)
			if err != nil {
				return err
			}
			pos = pos.MakeMove(m)
		}
	}

	u.pos = pos
	return nil
}

func (u *UCI) goCmd(line string) error {
	args := strings.Fields(line)[1:]

	var (
		clock         search.ClockLimits
		haveClock     bool
		explicitDepth bool
		depth         int
		haveMoveTime  bool
		moveTime      time.Duration
		infinite      bool
	)

	for i := 0; i < len(args); i++ {
		arg := args[i]
		needsValue := func() (string, error) {
			i++
			if i >= len(args) {
				return "", fmt.Errorf("go %s: missing value", arg)
			}
			return args[i], nil
		}

		switch arg {
		case "wtime", "btime", "winc", "binc":
			v, err := needsValue()
			if err != nil {
				return err
			}
			ms, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("go %s: %v", arg, err)
			}
			d := time.Duration(ms) * time.Millisecond
			switch arg {
			case "wtime":
				clock.WTime = d
			case "btime":
				clock.BTime = d
			case "winc":
				clock.WInc = d
			case "binc":
				clock.BInc = d
			}
			haveClock = true
		case "movestogo":
			v, err := needsValue()
			if err != nil {
				return err
			}
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("go movestogo: %v", err)
			}
			clock.MovesToGo = n
			haveClock = true
		case "depth":
			v, err := needsValue()
			if err != nil {
				return err
			}
			d, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("go depth: %v", err)
			}
			depth, explicitDepth = d, true
		case "movetime":
			v, err := needsValue()
			if err != nil {
				return err
			}
			ms, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("go movetime: %v", err)
			}
			moveTime, haveMoveTime = time.Duration(ms)*time.Millisecond, true
		case "infinite":
			infinite = true
		case "ponder":
			// Pondering/ponder-hit handling is a stated Non-goal (spec.md §1).
		case "searchmoves":
			// Root-move restriction isn't part of spec.md's required UCI
			// surface; consume the trailing move list so it isn't parsed
			// as an unknown argument.
			for i+1 < len(args) && !validGoKeyword[args[i+1]] {
				i++
			}
		case "nodes", "mate":
			if _, err := needsValue(); err != nil {
				return err
			}
		default:
			return fmt.Errorf("invalid go argument %q", arg)
		}
	}

	var limits search.Limits
	switch {
	case infinite:
		limits = search.Infinite()
	case haveMoveTime:
		limits = search.FixedMoveTime(moveTime)
	case explicitDepth:
		limits = search.FixedDepth(depth)
	case haveClock:
		limits = search.WithClock(clock)
	default:
		limits = search.Infinite()
	}
	u.srch.SetTimeControl(limits)

	ctx, cancel := context.WithCancel(context.Background())
	u.mu.Lock()
	u.cancel = cancel
	u.mu.Unlock()

	pos := u.pos
	u.wg.Add(1)
	go func() {
		defer u.wg.Done()
		u.srch.BestMove(ctx, pos, u.tt)
	}()
	return nil
}

var validGoKeyword = map[string]bool{
	"searchmoves": true, "ponder": true, "wtime": true, "btime": true,
	"winc": true, "binc": true, "movestogo": true, "depth": true,
	"nodes": true, "mate": true, "movetime": true, "infinite": true,
}

// stop cancels any in-flight search and waits for its "bestmove" line to be
// written before returning, so the caller never races the next command
// against the search goroutine's final output.
func (u *UCI) stop() error {
	u.mu.Lock()
	cancel := u.cancel
	u.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	u.wg.Wait()
	return nil
}

var reOption = regexp.MustCompile(`(?i)^setoption\s+name\s+(.+?)(\s+value\s+(.*))?$`)

// setoption implements "setoption name Hash value <MiB>", resizing the
// transposition table before the next search (spec.md §6's "TT = 10 MiB"
// default implies the size is adjustable; grounded on the teacher's own
// uci.go, which similarly wires a hidden option command to engine state).
func (u *UCI) setoption(line string) error {
	m := reOption.FindStringSubmatch(line)
	if m == nil {
		return fmt.Errorf("invalid setoption arguments")
	}
	name, value := strings.TrimSpace(m[1]), strings.TrimSpace(m[3])

	switch strings.ToLower(name) {
	case "hash":
		mib, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("setoption Hash: %v", err)
		}
		u.tt = search.NewTranspoTableMiB(mib)
		return nil
	default:
		return fmt.Errorf("unknown option %q", name)
	}
}

// perft runs board.Perft from the current position and reports the node
// count as an "info string" line, per spec.md §4 supplemented-features
// (a debug command useful for validating move generation independent of
// search/eval).
func (u *UCI) perft(line string) error {
	args := strings.Fields(line)[1:]
	if len(args) != 1 {
		return fmt.Errorf("usage: perft <depth>")
	}
	depth, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("perft: %v", err)
	}

	start := time.Now()
	nodes := board.Perft(u.pos, depth)
	elapsed := time.Since(start)
	fmt.Fprintf(u.Out, "info string perft depth %d nodes %d time %d\n", depth, nodes, elapsed.Milliseconds())
	return nil
}
