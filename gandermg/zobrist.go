package gandermg

import "math/rand"

// Zobrist key material: one key per (piece code, square), one per
// castling-rights state, one per en passant file, one for the side to
// move. Piece codes run to 14 (BlackKing = 6|8), so 15 rows cover them.
var (
	zobristPiece     [15][64]uint64
	zobristCastle    [16]uint64
	zobristEnPassant [8]uint64
	zobristSide      uint64
)

func init() {
	// Fixed seed keeps hashes stable across runs, which the tests and
	// the transposition table rely on.
	rnd := rand.New(rand.NewSource(0x6AD5))
	for p := range zobristPiece {
		for sq := range zobristPiece[p] {
			zobristPiece[p][sq] = rnd.Uint64()
		}
	}
	for i := range zobristCastle {
		zobristCastle[i] = rnd.Uint64()
	}
	for i := range zobristEnPassant {
		zobristEnPassant[i] = rnd.Uint64()
	}
	zobristSide = rnd.Uint64()
}

// ComputeZobrist recalculates the hash from scratch. MakeMove keeps the
// cached key incrementally; this is the reference the tests compare it
// against.
func (b *Board) ComputeZobrist() uint64 {
	var key uint64
	for sq := Square(0); sq < 64; sq++ {
		if p := b.mail[sq]; p != NoPiece {
			key ^= zobristPiece[p][sq]
		}
	}
	if b.stm == Black {
		key ^= zobristSide
	}
	key ^= zobristCastle[b.castle]
	if b.ep != NoSquare {
		key ^= zobristEnPassant[b.ep.File()]
	}
	return key
}
