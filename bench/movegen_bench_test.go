package bench

import (
	"testing"

	gm "gander/gandermg"
)

func benchGenerateMoves(b *testing.B, fen string) {
	board, err := gm.ParseFEN(fen)
	if err != nil {
		b.Fatalf("ParseFEN: %v", err)
	}
	buf := make([]gm.Move, 0, 256)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf = board.GenerateMovesInto(buf)
	}
}

func BenchmarkGenerateMovesInitial(b *testing.B) {
	benchGenerateMoves(b, gm.StartposFEN)
}

func BenchmarkGenerateMovesKiwipete(b *testing.B) {
	benchGenerateMoves(b, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
}

func BenchmarkGenerateMovesMiddlegame(b *testing.B) {
	benchGenerateMoves(b, "r4rk1/1pp1qppp/p1np1n2/2b1p3/2B1P3/2NP1N2/PPP1QPPP/R4RK1 w - - 0 10")
}

func benchCaptures(b *testing.B, fen string) {
	board, err := gm.ParseFEN(fen)
	if err != nil {
		b.Fatalf("ParseFEN: %v", err)
	}
	buf := make([]gm.Move, 0, 64)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf = board.GenerateCapturesInto(buf)
	}
}

func BenchmarkGenerateCapturesKiwipete(b *testing.B) {
	benchCaptures(b, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
}
