package engine

import (
	"strconv"
	"strings"
	"testing"

	gm "gander/gandermg"
)

func newTestSession(t *testing.T, fen string, limits Limits) *Session {
	t.Helper()
	b, err := gm.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return NewSession(b, limits, NewTransTable(8), &HistoryTable{}, nil)
}

func drive(s *Session) {
	for !s.Step() {
	}
}

func TestSearchDeterminism(t *testing.T) {
	run := func() (gm.Move, uint64) {
		s := newTestSession(t, gm.StartposFEN, Limits{Depth: 5})
		drive(s)
		mv, ok := s.Best()
		if !ok {
			t.Fatalf("no best move from startpos")
		}
		return mv, s.Nodes()
	}
	mv1, nodes1 := run()
	mv2, nodes2 := run()
	if mv1 != mv2 || nodes1 != nodes2 {
		t.Fatalf("search not deterministic: %s/%d vs %s/%d", mv1, nodes1, mv2, nodes2)
	}
}

func TestMateInOne(t *testing.T) {
	// Back-rank mate: Ra1-a8 is forced.
	s := newTestSession(t, "6k1/5ppp/8/8/8/8/8/R6K w - - 0 1", Limits{Depth: 4})
	drive(s)
	mv, ok := s.Best()
	if !ok {
		t.Fatalf("no best move")
	}
	if mv.String() != "a1a8" {
		t.Fatalf("mate in one: got %s want a1a8", mv)
	}
	found := false
	for _, line := range s.TakeOutput() {
		if strings.Contains(line, "score mate 1") {
			found = true
		}
	}
	if !found {
		t.Fatalf("no mate score reported")
	}
}

func TestOnlyLegalMove(t *testing.T) {
	// White's king must take the checking queen; nothing else is legal.
	s := newTestSession(t, "7k/8/8/8/8/8/1q6/K7 w - - 0 1", Limits{Depth: 1})
	drive(s)
	mv, ok := s.Best()
	if !ok {
		t.Fatalf("no best move")
	}
	if mv.String() != "a1b2" {
		t.Fatalf("forced move: got %s want a1b2", mv)
	}
}

func TestCheckmatedRootHasNoBestMove(t *testing.T) {
	s := newTestSession(t, "7k/5KQ1/8/8/8/8/8/8 b - - 0 1", Limits{Depth: 3})
	drive(s)
	if _, ok := s.Best(); ok {
		t.Fatalf("checkmated root produced a best move")
	}
}

func TestStalematedRootHasNoBestMove(t *testing.T) {
	s := newTestSession(t, "7k/5Q2/5K2/8/8/8/8/8 b - - 0 1", Limits{Depth: 3})
	drive(s)
	if _, ok := s.Best(); ok {
		t.Fatalf("stalemated root produced a best move")
	}
}

func TestStopBeforeFirstPlyStillReportsLegalMove(t *testing.T) {
	s := newTestSession(t, gm.StartposFEN, Limits{Infinite: true})
	s.Stop()
	drive(s)
	mv, ok := s.Best()
	if !ok {
		t.Fatalf("stopped session has no move")
	}
	legal := false
	b, _ := gm.ParseFEN("startpos")
	for _, m := range b.GenerateMoves() {
		if m == mv {
			legal = true
		}
	}
	if !legal {
		t.Fatalf("stopped session reported illegal move %s", mv)
	}
}

func TestStopInterruptsInfiniteSearch(t *testing.T) {
	s := newTestSession(t, gm.StartposFEN, Limits{Infinite: true})
	for i := 0; i < 8; i++ {
		if s.Step() {
			t.Fatalf("infinite search finished on its own")
		}
	}
	s.Stop()
	drive(s)
	if _, ok := s.Best(); !ok {
		t.Fatalf("no best move after stop")
	}
}

func TestInfoDepthMonotonic(t *testing.T) {
	s := newTestSession(t, gm.StartposFEN, Limits{Depth: 4})
	drive(s)
	last := 0
	for _, line := range s.TakeOutput() {
		depth, ok := infoDepth(line)
		if !ok {
			continue
		}
		if depth < last {
			t.Fatalf("info depth went backwards: %d after %d", depth, last)
		}
		last = depth
	}
	if last != 4 {
		t.Fatalf("final info depth: got %d want 4", last)
	}
}

func infoDepth(line string) (int, bool) {
	fields := strings.Fields(line)
	for i := 0; i+1 < len(fields); i++ {
		if fields[i] == "depth" {
			n, err := strconv.Atoi(fields[i+1])
			return n, err == nil
		}
	}
	return 0, false
}

func TestRepetitionScoredAsDraw(t *testing.T) {
	// Rook and king shuffle out and back. Black, a rook down, can repeat
	// the game's first position with g8h8: that line scores as a draw
	// and beats every other move.
	b, err := gm.ParseFEN("7k/8/8/8/8/8/8/R6K w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	keys := []uint64{b.Hash()}
	for _, tok := range []string{"a1a2", "h8g8", "a2a1"} {
		mv, err := b.MoveFromUCI(tok)
		if err != nil {
			t.Fatalf("%s: %v", tok, err)
		}
		b.MakeMove(mv)
		keys = append(keys, b.Hash())
	}
	s := NewSession(b, Limits{Depth: 3}, NewTransTable(8), &HistoryTable{}, keys)
	drive(s)
	mv, ok := s.Best()
	if !ok {
		t.Fatalf("no best move")
	}
	if mv.String() != "g8h8" || s.bestScore != DrawScore {
		t.Fatalf("repetition: got %s score %d, want g8h8 score %d", mv, s.bestScore, DrawScore)
	}
}
