package gander_test

import (
	"math/bits"
	"testing"

	gm "gander/gandermg"
)

func sq(name string) gm.Square {
	return gm.Square(int(name[0]-'a') + int(name[1]-'1')*8)
}

func TestAttacksToStartpos(t *testing.T) {
	b := parse(t, gm.StartposFEN)
	// e4 is covered by no white piece in the initial position except via
	// pawn pushes, which are not attacks.
	if att := b.AttacksTo(sq("e4"), gm.White); att != 0 {
		t.Fatalf("e4 attacked by white at startpos: %064b", att)
	}
	// f3 is attacked by the g1 knight and the e2/g2 pawns.
	att := b.AttacksTo(sq("f3"), gm.White)
	if n := bits.OnesCount64(att); n != 3 {
		t.Fatalf("f3 attacker count: got %d want 3", n)
	}
	if att&(1<<uint(sq("g1"))) == 0 {
		t.Fatalf("g1 knight missing from f3 attackers")
	}
}

func TestAttacksToSliders(t *testing.T) {
	// Rook a1 sees a8 past nothing; bishop c1 does not see a3 through b2.
	b := parse(t, "k7/8/8/8/8/8/1P6/RNB4K w - - 0 1")
	if att := b.AttacksTo(sq("a8"), gm.White); att != 1<<uint(sq("a1")) {
		t.Fatalf("a8 attackers: %064b", att)
	}
	if att := b.AttacksTo(sq("a3"), gm.White); att&(1<<uint(sq("c1"))) != 0 {
		t.Fatalf("c1 bishop attacks a3 through b2")
	}
	// The b2 pawn attacks a3 and c3.
	if att := b.AttacksTo(sq("a3"), gm.White); att&(1<<uint(sq("b2"))) == 0 {
		t.Fatalf("b2 pawn missing from a3 attackers")
	}
}

func TestInCheck(t *testing.T) {
	cases := []struct {
		fen   string
		color gm.Color
		want  bool
	}{
		{gm.StartposFEN, gm.White, false},
		{gm.StartposFEN, gm.Black, false},
		{"7k/5KQ1/8/8/8/8/8/8 b - - 0 1", gm.Black, true},
		{"7k/5KQ1/8/8/8/8/8/8 b - - 0 1", gm.White, false},
		{"rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3", gm.White, true},
	}
	for _, c := range cases {
		b := parse(t, c.fen)
		if got := b.InCheck(c.color); got != c.want {
			t.Fatalf("%s color %d: InCheck got %v want %v", c.fen, c.color, got, c.want)
		}
	}
}

func TestCheckmateAndStalemate(t *testing.T) {
	mate := parse(t, "7k/5KQ1/8/8/8/8/8/8 b - - 0 1")
	if !mate.InCheckmate() {
		t.Fatalf("expected checkmate")
	}
	stale := parse(t, "7k/5Q2/5K2/8/8/8/8/8 b - - 0 1")
	if !stale.InStalemate() {
		t.Fatalf("expected stalemate")
	}
}
