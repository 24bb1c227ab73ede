package gander_test

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/dylhunn/dragontoothmg"

	gm "gander/gandermg"
)

// The engine's generator is differential-tested against dragontoothmg,
// the independent movegen library this engine's ancestors searched with.

func oraclePerft(b *dragontoothmg.Board, depth int) uint64 {
	moves := b.GenerateLegalMoves()
	if depth <= 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		unapply := b.Apply(m)
		nodes += oraclePerft(b, depth-1)
		unapply()
	}
	return nodes
}

func moveStrings(moves []gm.Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.String()
	}
	sort.Strings(out)
	return out
}

func oracleMoveStrings(b *dragontoothmg.Board) []string {
	moves := b.GenerateLegalMoves()
	out := make([]string, len(moves))
	for i := range moves {
		out[i] = moves[i].String()
	}
	sort.Strings(out)
	return out
}

var oracleFens = []string{
	gm.StartposFEN,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	"k7/8/8/3pP3/8/8/8/7K w - d6 0 2",
}

func TestMovegenAgainstOracle(t *testing.T) {
	for _, fen := range oracleFens {
		b := parse(t, fen)
		ob := dragontoothmg.ParseFen(fen)

		got := moveStrings(b.GenerateMoves())
		want := oracleMoveStrings(&ob)
		if len(got) != len(want) {
			t.Fatalf("%s: move count %d, oracle %d\nours:   %v\noracle: %v", fen, len(got), len(want), got, want)
		}
		for i := range got {
			if got[i] != want[i] {
				t.Fatalf("%s: move %d: got %s oracle %s", fen, i, got[i], want[i])
			}
		}
	}
}

func TestPerftAgainstOracle(t *testing.T) {
	depth := 3
	for _, fen := range oracleFens {
		b := parse(t, fen)
		ob := dragontoothmg.ParseFen(fen)
		got := gm.Perft(b, depth)
		want := oraclePerft(&ob, depth)
		if got != want {
			t.Fatalf("%s: perft %d: got %d oracle %d", fen, depth, got, want)
		}
	}
}

// Random games replayed move by move on both boards; move sets must
// agree at every step.
func TestRandomGamesAgainstOracle(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	for game := 0; game < 20; game++ {
		b := parse(t, gm.StartposFEN)
		ob := dragontoothmg.ParseFen(gm.StartposFEN)
		for ply := 0; ply < 40; ply++ {
			got := moveStrings(b.GenerateMoves())
			want := oracleMoveStrings(&ob)
			if len(got) != len(want) {
				t.Fatalf("game %d ply %d (%s): %d moves, oracle %d", game, ply, b.ToFEN(), len(got), len(want))
			}
			for i := range got {
				if got[i] != want[i] {
					t.Fatalf("game %d ply %d (%s): got %s oracle %s", game, ply, b.ToFEN(), got[i], want[i])
				}
			}
			if len(got) == 0 {
				break
			}
			pick := got[rnd.Intn(len(got))]
			mv, err := b.MoveFromUCI(pick)
			if err != nil {
				t.Fatalf("game %d ply %d: resolve %s: %v", game, ply, pick, err)
			}
			if ok, _ := b.MakeMove(mv); !ok {
				t.Fatalf("game %d ply %d: make %s rejected", game, ply, pick)
			}
			applied := false
			for _, om := range ob.GenerateLegalMoves() {
				if om.String() == pick {
					ob.Apply(om)
					applied = true
					break
				}
			}
			if !applied {
				t.Fatalf("game %d ply %d: oracle missing %s", game, ply, pick)
			}
		}
	}
}
