package gandermg

// Undo captures everything MakeMove cannot reconstruct from the move
// itself, so UnmakeMove restores the position bit for bit.
type Undo struct {
	move     Move
	captured Piece
	castle   CastlingRights
	ep       Square
	rule50   int
	moveNo   int
	key      uint64
	rookFrom Square
	rookTo   Square
}

// NullUndo is the state needed to reverse a null move.
type NullUndo struct {
	ep     Square
	rule50 int
	moveNo int
	key    uint64
	side   Color
}

// castleRevoke[sq] holds the rights lost when a king or rook moves from,
// or a rook is captured on, that square.
var castleRevoke = func() (t [64]CastlingRights) {
	t[0] = CastleWhiteQueen
	t[7] = CastleWhiteKing
	t[4] = CastleWhiteKing | CastleWhiteQueen
	t[56] = CastleBlackQueen
	t[63] = CastleBlackKing
	t[60] = CastleBlackKing | CastleBlackQueen
	return t
}()

// MakeMove applies m. It returns ok=false, with the position restored,
// when the move would leave the mover's king attacked; generated moves
// never trip this, but moves from the wire may.
func (b *Board) MakeMove(m Move) (ok bool, u Undo) {
	u = Undo{
		move:     m,
		captured: NoPiece,
		castle:   b.castle,
		ep:       b.ep,
		rule50:   b.rule50,
		moveNo:   b.moveNo,
		key:      b.key,
		rookFrom: NoSquare,
		rookTo:   NoSquare,
	}

	from, to := m.From(), m.To()
	moved := m.MovedPiece()
	us := b.stm
	them := us.Other()
	wasInCheck := b.InCheck(us)

	if b.ep != NoSquare {
		b.key ^= zobristEnPassant[b.ep.File()]
	}
	b.ep = NoSquare

	// Remove the captured piece first so the destination is free.
	switch {
	case m.Flags() == FlagEnPassant:
		capSq := to - 8
		if us == Black {
			capSq = to + 8
		}
		u.captured = b.lift(capSq)
	case m.CapturedPiece() != NoPiece:
		u.captured = b.lift(to)
	}

	if promo := m.PromotionPiece(); promo != NoPiece {
		b.lift(from)
		b.put(to, promo)
	} else {
		b.shift(us, moved.Type(), from, to, moved)
	}

	if m.Flags() == FlagCastle {
		u.rookFrom, u.rookTo = rookCastleSquares(to)
		rook := MakePiece(us, Rook)
		b.shift(us, Rook, u.rookFrom, u.rookTo, rook)
	}

	// Rights drop when the king or a home rook moves, and when a rook is
	// captured on its home square even though neither king nor rook of
	// that side moved.
	newCastle := b.castle
	if moved.Type() == King || moved.Type() == Rook {
		newCastle &^= castleRevoke[from] & sideRights(us)
	}
	if u.captured.Type() == Rook {
		newCastle &^= castleRevoke[to] & sideRights(them)
	}
	if newCastle != b.castle {
		b.key ^= zobristCastle[b.castle] ^ zobristCastle[newCastle]
		b.castle = newCastle
	}

	if moved.Type() == Pawn {
		delta := int(to) - int(from)
		if delta == 16 || delta == -16 {
			b.ep = from + Square(delta/2)
			b.key ^= zobristEnPassant[b.ep.File()]
		}
	}

	b.stm = them
	b.key ^= zobristSide

	// Legality gate. Outside of check, only king moves, en passant, and
	// moves leaving a ray through our king can expose it; in check, every
	// move must be verified to resolve the check.
	ks := b.KingSquare(us)
	if ks == NoSquare {
		b.UnmakeMove(m, u)
		return false, u
	}
	needCheck := wasInCheck || moved.Type() == King || m.Flags() == FlagEnPassant || rayUnion[ks]&sqBB(from) != 0
	if needCheck && b.IsSquareAttacked(ks, them) {
		b.UnmakeMove(m, u)
		return false, u
	}

	if moved.Type() == Pawn || u.captured != NoPiece {
		b.rule50 = 0
	} else {
		b.rule50++
	}
	if us == Black {
		b.moveNo++
	}
	return true, u
}

func sideRights(c Color) CastlingRights {
	if c == White {
		return CastleWhiteKing | CastleWhiteQueen
	}
	return CastleBlackKing | CastleBlackQueen
}

// rookCastleSquares maps the king's destination to the rook hop.
func rookCastleSquares(kingTo Square) (from, to Square) {
	switch kingTo {
	case 6: // g1
		return 7, 5
	case 2: // c1
		return 0, 3
	case 62: // g8
		return 63, 61
	case 58: // c8
		return 56, 59
	}
	return NoSquare, NoSquare
}

// UnmakeMove reverses a move made with MakeMove.
func (b *Board) UnmakeMove(m Move, u Undo) {
	from, to := m.From(), m.To()
	moved := m.MovedPiece()
	us := moved.Color()

	if promo := m.PromotionPiece(); promo != NoPiece {
		b.lift(to)
		b.put(from, moved)
	} else {
		b.shift(us, moved.Type(), to, from, moved)
	}

	if m.Flags() == FlagCastle && u.rookFrom != NoSquare {
		b.shift(us, Rook, u.rookTo, u.rookFrom, MakePiece(us, Rook))
	}

	if u.captured != NoPiece {
		capSq := to
		if m.Flags() == FlagEnPassant {
			capSq = to - 8
			if us == Black {
				capSq = to + 8
			}
		}
		b.put(capSq, u.captured)
	}

	b.stm = us
	b.castle = u.castle
	b.ep = u.ep
	b.rule50 = u.rule50
	b.moveNo = u.moveNo
	// put/lift kept the hash incrementally consistent for pieces, but the
	// side/castle/ep keys are cheaper to restore wholesale.
	b.key = u.key
}

// MakeNullMove passes the turn without moving a piece. Used by search
// plumbing and draw bookkeeping; reversible via UnmakeNullMove.
func (b *Board) MakeNullMove() (u NullUndo) {
	u = NullUndo{ep: b.ep, rule50: b.rule50, moveNo: b.moveNo, key: b.key, side: b.stm}
	if b.ep != NoSquare {
		b.key ^= zobristEnPassant[b.ep.File()]
		b.ep = NoSquare
	}
	b.rule50++
	if b.stm == Black {
		b.moveNo++
	}
	b.stm = b.stm.Other()
	b.key ^= zobristSide
	return u
}

// UnmakeNullMove restores the state prior to MakeNullMove.
func (b *Board) UnmakeNullMove(u NullUndo) {
	b.ep = u.ep
	b.rule50 = u.rule50
	b.moveNo = u.moveNo
	b.stm = u.side
	b.key = u.key
}
