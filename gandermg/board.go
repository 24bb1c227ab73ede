package gandermg

import "math/bits"

// Piece encodes color and kind in one byte: kind in the low three bits,
// color in bit 3. That keeps piece&7 usable as a table index and piece&8
// as the side test.
type Piece uint8

const (
	NoPiece     Piece = 0
	WhitePawn   Piece = 1
	WhiteKnight Piece = 2
	WhiteBishop Piece = 3
	WhiteRook   Piece = 4
	WhiteQueen  Piece = 5
	WhiteKing   Piece = 6

	BlackPawn   Piece = 1 | 8
	BlackKnight Piece = 2 | 8
	BlackBishop Piece = 3 | 8
	BlackRook   Piece = 4 | 8
	BlackQueen  Piece = 5 | 8
	BlackKing   Piece = 6 | 8
)

// PieceType is the colorless kind, used to index per-type tables.
type PieceType uint8

const (
	PieceTypeNone PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

func (p Piece) Type() PieceType { return PieceType(p & 7) }

func (p Piece) Color() Color {
	if p&8 != 0 {
		return Black
	}
	return White
}

// MakePiece combines a side and a kind into a Piece constant.
func MakePiece(c Color, pt PieceType) Piece {
	if pt == PieceTypeNone {
		return NoPiece
	}
	if c == Black {
		return Piece(pt) | 8
	}
	return Piece(pt)
}

type Color uint8

const (
	White Color = 0
	Black Color = 1
)

func (c Color) Other() Color { return c ^ 1 }

// Castling rights bit flags.
type CastlingRights uint8

const (
	CastleWhiteKing CastlingRights = 1 << iota
	CastleWhiteQueen
	CastleBlackKing
	CastleBlackQueen
)

// Square is a board index 0..63, a1=0, h1=7, a8=56.
type Square int

const NoSquare Square = -1

func (s Square) File() int { return int(s) & 7 }
func (s Square) Rank() int { return int(s) >> 3 }

func (s Square) String() string {
	if s == NoSquare {
		return "-"
	}
	return string([]byte{'a' + byte(s.File()), '1' + byte(s.Rank())})
}

// Board holds the full position state. Piece bitboards are kept per color
// and type alongside a mailbox array; both are updated in lockstep by
// put/lift so they can never disagree.
type Board struct {
	bb     [2][7]uint64 // [color][PieceType], index 0 unused
	occ    [2]uint64
	mail   [64]Piece
	stm    Color
	castle CastlingRights
	ep     Square
	rule50 int
	moveNo int
	key    uint64
}

func sqBB(sq Square) uint64 { return 1 << uint(sq) }

// popLSB removes and returns the index of the lowest set bit.
func popLSB(mask *uint64) int {
	idx := bits.TrailingZeros64(*mask)
	*mask &= *mask - 1
	return idx
}

func popcount(x uint64) int { return bits.OnesCount64(x) }

func (b *Board) SideToMove() Color        { return b.stm }
func (b *Board) Hash() uint64             { return b.key }
func (b *Board) EnPassantSquare() Square  { return b.ep }
func (b *Board) HalfmoveClock() int       { return b.rule50 }
func (b *Board) FullmoveNumber() int      { return b.moveNo }
func (b *Board) Castling() CastlingRights { return b.castle }
func (b *Board) PieceAt(sq Square) Piece  { return b.mail[sq] }
func (b *Board) AllOccupancy() uint64     { return b.occ[0] | b.occ[1] }
func (b *Board) Occupancy(c Color) uint64 { return b.occ[c] }

func (b *Board) Pieces(c Color, pt PieceType) uint64 { return b.bb[c][pt] }

// KingSquare returns the square of c's king. Valid positions always have
// exactly one.
func (b *Board) KingSquare(c Color) Square {
	kbb := b.bb[c][King]
	if kbb == 0 {
		return NoSquare
	}
	return Square(bits.TrailingZeros64(kbb))
}

// put places p on an empty square, updating bitboards, mailbox and hash.
func (b *Board) put(sq Square, p Piece) {
	c := p.Color()
	bit := sqBB(sq)
	b.mail[sq] = p
	b.occ[c] |= bit
	b.bb[c][p.Type()] |= bit
	b.key ^= zobristPiece[p][sq]
}

// lift removes whatever sits on sq and returns it.
func (b *Board) lift(sq Square) Piece {
	p := b.mail[sq]
	if p == NoPiece {
		return NoPiece
	}
	c := p.Color()
	bit := sqBB(sq)
	b.mail[sq] = NoPiece
	b.occ[c] &^= bit
	b.bb[c][p.Type()] &^= bit
	b.key ^= zobristPiece[p][sq]
	return p
}

// shift slides a piece of known color/type between two squares without
// touching the capture state. from and to must differ.
func (b *Board) shift(c Color, pt PieceType, from, to Square, p Piece) {
	both := sqBB(from) | sqBB(to)
	b.mail[from] = NoPiece
	b.mail[to] = p
	b.occ[c] ^= both
	b.bb[c][pt] ^= both
	b.key ^= zobristPiece[p][from] ^ zobristPiece[p][to]
}

// HasLegalMoves reports whether the side to move has any legal move.
func (b *Board) HasLegalMoves() bool {
	var buf [64]Move
	return len(b.GenerateMovesInto(buf[:0])) > 0
}

// InCheckmate reports whether the side to move is checkmated.
func (b *Board) InCheckmate() bool {
	return b.InCheck(b.stm) && !b.HasLegalMoves()
}

// InStalemate reports whether the side to move has no moves but is not in
// check.
func (b *Board) InStalemate() bool {
	return !b.InCheck(b.stm) && !b.HasLegalMoves()
}

// IsDrawBy50 reports a 50-move rule draw (the clock counts half-moves).
func (b *Board) IsDrawBy50() bool { return b.rule50 >= 100 }

// Validate cross-checks mailbox, bitboards, occupancy and the incremental
// hash. Test helper; not called on the hot path.
func (b *Board) Validate() bool {
	var occ [2]uint64
	var bbs [2][7]uint64
	for sq := Square(0); sq < 64; sq++ {
		p := b.mail[sq]
		if p == NoPiece {
			continue
		}
		c := p.Color()
		occ[c] |= sqBB(sq)
		bbs[c][p.Type()] |= sqBB(sq)
	}
	if occ != b.occ || bbs != b.bb {
		return false
	}
	return b.key == b.ComputeZobrist()
}
