// Command corvid runs the engine's UCI loop on stdin/stdout, plus a
// "perft" debug subcommand. Grounded on the teacher's zurichess/main.go:
// flag-based configuration, log.SetPrefix("info string ") so any stray
// diagnostic is still a well-formed UCI comment line, then a blocking
// read loop over stdin feeding UCI.Execute.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/nullptr-dev/corvid/board"
	"github.com/nullptr-dev/corvid/search"
	"github.com/nullptr-dev/corvid/uci"
)

var buildVersion = "(devel)"

var (
	hashMiB = flag.Int("hash", search.DefaultHashMiB, "transposition table size in MiB")
	depth   = flag.Int("depth", 0, "fixed search depth in plies set at startup; each UCI 'go' command replaces it with its own limits (0: none)")
	version = flag.Bool("version", false, "print version and exit")
)

func main() {
	flag.Parse()
	if *version {
		fmt.Printf("corvid %v, built with %v, running on %v\n", buildVersion, runtime.Version(), runtime.GOARCH)
		return
	}

	log.SetOutput(os.Stdout)
	log.SetPrefix("info string ")
	log.SetFlags(log.Lshortfile)

	if flag.NArg() > 0 && flag.Arg(0) == "perft" {
		runPerft(flag.Args()[1:])
		return
	}
	runUCI()
}

// runPerft runs board.Perft at increasing depths from a FEN (startpos if
// omitted), printing one line per depth. Standalone debug entry point for
// validating the board package independent of search/eval (spec.md §4
// supplemented features), separate from the "perft" verb inside the UCI
// loop which runs from whatever position the protocol session is in.
func runPerft(args []string) {
	fen := board.StartFEN
	maxDepth := 5
	switch len(args) {
	case 0:
	case 1:
		d, err := strconv.Atoi(args[0])
		if err != nil {
			log.Fatalf("perft: invalid depth %q: %v", args[0], err)
		}
		maxDepth = d
	default:
		d, err := strconv.Atoi(args[0])
		if err != nil {
			log.Fatalf("perft: invalid depth %q: %v", args[0], err)
		}
		maxDepth = d
		fen = args[1]
	}

	pos, err := board.PositionFromFEN(fen)
	if err != nil {
		log.Fatalf("perft: %v", err)
	}

	for d := 1; d <= maxDepth; d++ {
		start := time.Now()
		nodes := board.Perft(pos, d)
		elapsed := time.Since(start)
		fmt.Printf("depth %d nodes %d time %v\n", d, nodes, elapsed)
	}
}

func runUCI() {
	u := uci.New(os.Stdout)
	if *hashMiB != search.DefaultHashMiB {
		u.SetHash(*hashMiB)
	}
	if *depth > 0 {
		u.SetFixedDepth(*depth)
	}

	bio := bufio.NewReader(os.Stdin)
	for {
		line, _, err := bio.ReadLine()
		if err != nil {
			log.Println("error:", err)
			break
		}
		if err := u.Execute(string(line)); err != nil {
			if err == uci.ErrQuit {
				break
			}
			log.Println("for line:", string(line))
			log.Println("error:", err)
		}
	}
}
