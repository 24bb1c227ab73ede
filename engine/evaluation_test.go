package engine

import (
	"testing"

	gm "gander/gandermg"
)

func evalFEN(t *testing.T, fen string) int32 {
	t.Helper()
	b, err := gm.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return Evaluate(b)
}

func TestEvaluateStartposIsBalanced(t *testing.T) {
	if score := evalFEN(t, gm.StartposFEN); score != 0 {
		t.Fatalf("startpos eval: got %d want 0", score)
	}
}

func TestEvaluateSideToMovePerspective(t *testing.T) {
	// Same material imbalance, opposite movers: the scores must negate.
	white := evalFEN(t, "rnb1kbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	black := evalFEN(t, "rnb1kbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR b KQkq - 0 1")
	if white != -black {
		t.Fatalf("perspective flip: white %d, black %d", white, black)
	}
}

func TestEvaluateMaterialDominates(t *testing.T) {
	// White is a queen up; the score must be near +900 for the mover.
	score := evalFEN(t, "rnb1kbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	if score < 800 || score > 1000 {
		t.Fatalf("queen-up eval: got %d, want roughly +900", score)
	}
	// The same position with Black to move is as bad for the mover.
	score = evalFEN(t, "rnb1kbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR b KQkq - 0 1")
	if score > -800 || score < -1000 {
		t.Fatalf("queen-down eval: got %d, want roughly -900", score)
	}
}

func TestEvaluateMirrorSymmetry(t *testing.T) {
	// A position and its color-mirror must evaluate identically for the
	// respective movers.
	a := evalFEN(t, "r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3")
	b := evalFEN(t, "rnbqkb1r/pppp1ppp/5n2/4p3/4P3/2N5/PPPP1PPP/R1BQKBNR b KQkq - 2 3")
	if a != b {
		t.Fatalf("mirror symmetry: %d vs %d", a, b)
	}
}

func TestPSQTCentralizationPreferred(t *testing.T) {
	// A knight on e4 outscores one on a1 by the table margin.
	center := evalFEN(t, "7k/8/8/8/4N3/8/8/7K w - - 0 1")
	corner := evalFEN(t, "7k/8/8/8/8/8/8/N6K w - - 0 1")
	if center <= corner {
		t.Fatalf("centralized knight not preferred: e4=%d a1=%d", center, corner)
	}
}
