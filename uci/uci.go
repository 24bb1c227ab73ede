// Package uci implements the engine side of the Universal Chess
// Interface as a pair of synchronous entry points: HandleLine consumes
// one command and returns its output, Think advances an active search by
// one slice. The pair is the seam a cooperative host (a web worker timer,
// or the terminal loop in cmd/gander) drives the engine through.
package uci

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"gander/engine"
	gm "gander/gandermg"
)

const (
	Name   = "Gander 0.1"
	Author = "the Gander authors"
)

// Uci is a single stateful protocol session. It is not safe for
// concurrent use; the host must serialize HandleLine/Think/Flush calls,
// which a single-threaded event loop does by construction.
type Uci struct {
	board    *gm.Board
	tt       *engine.TransTable
	hist     *engine.HistoryTable
	gameKeys []uint64
	sess     *engine.Session
	out      []string
	quit     bool
}

// New returns a session at the start position with a fresh table.
func New() *Uci {
	board, _ := gm.ParseFEN("startpos")
	u := &Uci{
		board: board,
		tt:    engine.NewTransTable(engine.DefaultTTMegabytes),
		hist:  &engine.HistoryTable{},
	}
	u.gameKeys = []uint64{board.Hash()}
	return u
}

// Quit reports whether a quit command was received.
func (u *Uci) Quit() bool { return u.quit }

// Searching reports whether a search session is active.
func (u *Uci) Searching() bool { return u.sess != nil }

func (u *Uci) emit(format string, args ...any) {
	u.out = append(u.out, fmt.Sprintf(format, args...))
}

func (u *Uci) collect() string {
	text := strings.Join(u.out, "\n")
	u.out = u.out[:0]
	return text
}

// Flush drains any buffered output without other effects.
func (u *Uci) Flush() string { return u.collect() }

// Think grants the active search one slice of work and returns whatever
// output accumulated, including the final bestmove line when the search
// completes. Idle calls just drain the buffer.
func (u *Uci) Think() string {
	if u.sess == nil {
		return u.collect()
	}
	done := u.sess.Step()
	u.out = append(u.out, u.sess.TakeOutput()...)
	if done {
		u.emitBestmove()
	}
	return u.collect()
}

// HandleLine processes one protocol line and returns the text it
// produced, together with any asynchronous output that was pending.
// Command keywords are case-sensitive; unknown commands are ignored
// apart from a debug note, per UCI convention.
func (u *Uci) HandleLine(line string) string {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return u.collect()
	}
	switch tokens[0] {
	case "uci":
		u.emit("id name %s", Name)
		u.emit("id author %s", Author)
		u.emit("uciok")
	case "isready":
		u.emit("readyok")
	case "ucinewgame":
		u.abortSearch()
		u.board, _ = gm.ParseFEN("startpos")
		u.gameKeys = []uint64{u.board.Hash()}
		u.tt.Clear()
		u.hist.Clear()
	case "position":
		u.handlePosition(tokens[1:])
	case "go":
		u.handleGo(tokens[1:])
	case "stop":
		u.finishSearch()
	case "quit":
		u.abortSearch()
		u.quit = true
	case "d":
		u.emit("%s", u.board.Dump())
		u.emit("")
		u.emit("Fen: %s", u.board.ToFEN())
		u.emit("Key: %016x", u.board.Hash())
	default:
		u.emit("info string ignoring unknown command: %s", tokens[0])
	}
	return u.collect()
}

// handlePosition rebuilds the game from a base plus a move list. An
// illegal or malformed move reports an error and skips the remainder,
// leaving the moves played so far on the board.
func (u *Uci) handlePosition(args []string) {
	if len(args) == 0 {
		u.emit("info string position: missing arguments")
		return
	}
	var board *gm.Board
	var err error
	moveIdx := -1
	switch args[0] {
	case "startpos":
		board, err = gm.ParseFEN("startpos")
		if len(args) > 1 && args[1] == "moves" {
			moveIdx = 2
		}
	case "fen":
		end := len(args)
		for i, tok := range args[1:] {
			if tok == "moves" {
				end = i + 1
				moveIdx = i + 2
				break
			}
		}
		board, err = gm.ParseFEN(strings.Join(args[1:end], " "))
	default:
		u.emit("info string position: unknown subcommand %q", args[0])
		return
	}
	if err != nil {
		u.emit("info string position: %v", err)
		return
	}

	u.abortSearch()
	u.board = board
	u.gameKeys = append(u.gameKeys[:0], board.Hash())

	if moveIdx < 0 {
		return
	}
	for _, tok := range args[moveIdx:] {
		mv, err := u.board.MoveFromUCI(tok)
		if err != nil {
			u.emit("info string position: move %s: %v", tok, err)
			return
		}
		// MoveFromUCI only returns generated legal moves, so this make
		// cannot fail.
		u.board.MakeMove(mv)
		u.gameKeys = append(u.gameKeys, u.board.Hash())
	}
}

// handleGo parses the limits and starts a search session, or runs a
// divided perft when asked. A go while searching aborts the running
// session first, as an implicit stop.
func (u *Uci) handleGo(args []string) {
	var limits engine.Limits
	for i := 0; i < len(args); i++ {
		intArg := func() (int, bool) {
			if i+1 >= len(args) {
				u.emit("info string go: %s needs a value", args[i])
				return 0, false
			}
			i++
			n, err := strconv.Atoi(args[i])
			if err != nil {
				u.emit("info string go: bad value for %s: %q", args[i-1], args[i])
				return 0, false
			}
			return n, true
		}
		switch args[i] {
		case "perft":
			if n, ok := intArg(); ok {
				u.finishSearch()
				u.runPerft(n)
			}
			return
		case "depth":
			if n, ok := intArg(); ok {
				limits.Depth = n
			}
		case "movetime":
			if n, ok := intArg(); ok {
				limits.MoveTime = time.Duration(n) * time.Millisecond
			}
		case "wtime":
			if n, ok := intArg(); ok {
				limits.WTime = time.Duration(n) * time.Millisecond
			}
		case "btime":
			if n, ok := intArg(); ok {
				limits.BTime = time.Duration(n) * time.Millisecond
			}
		case "winc":
			if n, ok := intArg(); ok {
				limits.WInc = time.Duration(n) * time.Millisecond
			}
		case "binc":
			if n, ok := intArg(); ok {
				limits.BInc = time.Duration(n) * time.Millisecond
			}
		case "infinite":
			limits.Infinite = true
		default:
			u.emit("info string go: ignoring option %s", args[i])
		}
	}

	u.finishSearch()
	u.sess = engine.NewSession(u.board, limits, u.tt, u.hist, u.gameKeys)
}

// runPerft prints the divided perft in the reference format: one line
// per root move, a blank line, then the total.
func (u *Uci) runPerft(depth int) {
	counts := gm.PerftDivide(u.board, depth)
	lines := make([]string, 0, len(counts))
	var total uint64
	for mv, n := range counts {
		lines = append(lines, fmt.Sprintf("%s: %d", mv, n))
		total += n
	}
	sort.Strings(lines)
	u.out = append(u.out, lines...)
	u.emit("")
	u.emit("Nodes searched: %d", total)
}

// finishSearch drives an active session to completion (implicit stop)
// and emits its bestmove.
func (u *Uci) finishSearch() {
	if u.sess == nil {
		return
	}
	u.sess.Stop()
	for !u.sess.Step() {
	}
	u.out = append(u.out, u.sess.TakeOutput()...)
	u.emitBestmove()
}

// abortSearch tears a session down without reporting a bestmove; used
// when the position underneath it is being replaced.
func (u *Uci) abortSearch() {
	if u.sess == nil {
		return
	}
	u.sess.Stop()
	for !u.sess.Step() {
	}
	u.sess.TakeOutput()
	u.sess = nil
}

func (u *Uci) emitBestmove() {
	if mv, ok := u.sess.Best(); ok {
		u.emit("bestmove %s", mv)
	} else {
		u.emit("bestmove (none)")
	}
	u.sess = nil
}
