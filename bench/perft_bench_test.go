package bench

import (
	"testing"

	gm "gander/gandermg"
)

func benchPerft(b *testing.B, fen string, depth int, want uint64) {
	board, err := gm.ParseFEN(fen)
	if err != nil {
		b.Fatalf("ParseFEN: %v", err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if got := gm.Perft(board, depth); got != want {
			b.Fatalf("perft %d: got %d want %d", depth, got, want)
		}
	}
}

func BenchmarkPerftInitialDepth4(b *testing.B) {
	benchPerft(b, gm.StartposFEN, 4, 197281)
}

func BenchmarkPerftKiwipeteDepth3(b *testing.B) {
	benchPerft(b, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 3, 97862)
}
