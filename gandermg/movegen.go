package gandermg

import "math/bits"

// Generation filters for the shared generator core.
const (
	genAll = iota
	genCaptures
)

// checkInfo is the check and pin state for the side to move, computed
// once per generation pass.
type checkInfo struct {
	inCheck     bool
	doubleCheck bool
	// If in single check: squares a non-king move may land on (block or
	// capture the checker).
	checkMask uint64
	// pinned[sq] is the ray mask the piece on sq may stay on, or 0 when
	// the piece is not pinned.
	pinned [64]uint64
}

// computeChecksAndPins derives the check mask and absolute pins for side,
// walking the slider rays outward from the king.
func (b *Board) computeChecksAndPins(side Color, occ uint64) (ci checkInfo) {
	them := side.Other()
	ks := b.KingSquare(side)
	if ks == NoSquare {
		return ci
	}

	checkers := pawnCaptures[side][ks] & b.bb[them][Pawn]
	checkers |= knightAttacks[ks] & b.bb[them][Knight]
	checkers |= BishopAttacks(ks, occ) & (b.bb[them][Bishop] | b.bb[them][Queen])
	checkers |= RookAttacks(ks, occ) & (b.bb[them][Rook] | b.bb[them][Queen])

	ci.inCheck = checkers != 0
	ci.doubleCheck = checkers&(checkers-1) != 0

	if ci.inCheck && !ci.doubleCheck {
		csq := Square(bits.TrailingZeros64(checkers))
		switch b.mail[csq].Type() {
		case Bishop, Rook, Queen:
			// Everything strictly between king and checker, plus the
			// checker itself.
			ci.checkMask = between(ks, csq) | sqBB(csq)
		default:
			ci.checkMask = sqBB(csq)
		}
	}

	// Absolute pins: the first own piece on a ray is pinned if the next
	// occupied square past it holds an aligned enemy slider.
	scan := func(rays *[64][4]uint64, sliders uint64) {
		for d := 0; d < 4; d++ {
			ray := rays[ks][d]
			blockers := ray & occ
			if blockers == 0 {
				continue
			}
			first := nearestOnRay(blockers, rays == &rookRays && (d == 0 || d == 2) || rays == &bishopRays && (d == 0 || d == 1))
			if sqBB(Square(first))&b.occ[side] == 0 {
				continue
			}
			beyond := rays[first][d] & occ
			if beyond == 0 {
				continue
			}
			next := nearestOnRay(beyond, rays == &rookRays && (d == 0 || d == 2) || rays == &bishopRays && (d == 0 || d == 1))
			if sqBB(Square(next))&sliders != 0 {
				ci.pinned[first] = rays[ks][d] &^ rays[next][d]
			}
		}
	}
	scan(&rookRays, (b.bb[them][Rook]|b.bb[them][Queen])&occ)
	scan(&bishopRays, (b.bb[them][Bishop]|b.bb[them][Queen])&occ)
	return ci
}

// nearestOnRay picks the blocker closest to the ray origin given the
// ray's direction of growth.
func nearestOnRay(blockers uint64, increasing bool) int {
	if increasing {
		return bits.TrailingZeros64(blockers)
	}
	return 63 - bits.LeadingZeros64(blockers)
}

// between returns the squares strictly between two aligned squares, or 0
// if they are not on a shared ray.
func between(a, c Square) uint64 {
	for d := 0; d < 4; d++ {
		if rookRays[a][d]&sqBB(c) != 0 {
			return rookRays[a][d] &^ rookRays[c][d] &^ sqBB(c)
		}
		if bishopRays[a][d]&sqBB(c) != 0 {
			return bishopRays[a][d] &^ bishopRays[c][d] &^ sqBB(c)
		}
	}
	return 0
}

// generateInto is the generator core. It appends exactly the legal moves
// matching the filter: pin and check masks prune everything except king
// moves and en passant, which get explicit occupancy simulation.
func (b *Board) generateInto(dst []Move, filter int) []Move {
	moves := dst[:0]
	us := b.stm
	them := us.Other()
	ownOcc := b.occ[us]
	oppOcc := b.occ[them]
	allOcc := ownOcc | oppOcc
	ks := b.KingSquare(us)

	ci := b.computeChecksAndPins(us, allOcc)

	// allowed merges the pin and check constraints for a non-king move.
	allowed := func(from int, toBB uint64) bool {
		if ci.doubleCheck {
			return false
		}
		if pin := ci.pinned[from]; pin != 0 && toBB&pin == 0 {
			return false
		}
		if ci.inCheck && toBB&ci.checkMask == 0 {
			return false
		}
		return true
	}

	// Pawns. Push direction and special ranks depend on side; everything
	// else is shared.
	var up, promoRank, startRank int
	if us == White {
		up, promoRank, startRank = 8, 7, 1
	} else {
		up, promoRank, startRank = -8, 0, 6
	}
	pushPromotions := func(from, to Square, moved, captured Piece) {
		for _, pt := range [4]PieceType{Queen, Rook, Bishop, Knight} {
			moves = append(moves, NewMove(from, to, moved, captured, MakePiece(us, pt), FlagNone))
		}
	}
	pawns := b.bb[us][Pawn]
	for pawns != 0 {
		from := popLSB(&pawns)
		moved := b.mail[from]

		if filter != genCaptures {
			one := from + up
			if allOcc&(1<<uint(one)) == 0 {
				if allowed(from, 1<<uint(one)) {
					if one/8 == promoRank {
						pushPromotions(Square(from), Square(one), moved, NoPiece)
					} else {
						moves = append(moves, NewMove(Square(from), Square(one), moved, NoPiece, NoPiece, FlagNone))
					}
				}
				if from/8 == startRank {
					two := one + up
					if allOcc&(1<<uint(two)) == 0 && allowed(from, 1<<uint(two)) {
						moves = append(moves, NewMove(Square(from), Square(two), moved, NoPiece, NoPiece, FlagNone))
					}
				}
			}
		}

		caps := pawnCaptures[us][from]
		targets := caps & oppOcc
		for targets != 0 {
			to := popLSB(&targets)
			if !allowed(from, 1<<uint(to)) {
				continue
			}
			captured := b.mail[to]
			if to/8 == promoRank {
				pushPromotions(Square(from), Square(to), moved, captured)
			} else {
				moves = append(moves, NewMove(Square(from), Square(to), moved, captured, NoPiece, FlagNone))
			}
		}

		// En passant needs a full occupancy simulation: removing two
		// pawns from one rank can expose the king laterally, which the
		// pin mask cannot see.
		if b.ep != NoSquare && caps&sqBB(b.ep) != 0 && !ci.doubleCheck {
			capSq := int(b.ep) - up
			epOK := true
			if ci.inCheck && ci.checkMask&(sqBB(b.ep)|sqBB(Square(capSq))) == 0 {
				epOK = false
			}
			if epOK && ks != NoSquare {
				occSim := allOcc&^sqBB(Square(from))&^sqBB(Square(capSq)) | sqBB(b.ep)
				// Mask with occSim so the captured pawn, still on the
				// bitboards, does not count as an attacker.
				if b.attacksToWithOcc(ks, them, occSim)&occSim != 0 {
					epOK = false
				}
			}
			if epOK {
				moves = append(moves, NewMove(Square(from), b.ep, moved, MakePiece(them, Pawn), NoPiece, FlagEnPassant))
			}
		}
	}

	// Knights and sliders share one loop over attack generators.
	appendTargets := func(from int, targets uint64, moved Piece) {
		if filter == genCaptures {
			targets &= oppOcc
		}
		for targets != 0 {
			to := popLSB(&targets)
			if !allowed(from, 1<<uint(to)) {
				continue
			}
			moves = append(moves, NewMove(Square(from), Square(to), moved, b.mail[to], NoPiece, FlagNone))
		}
	}
	if !ci.doubleCheck {
		for bbSet := b.bb[us][Knight]; bbSet != 0; {
			from := popLSB(&bbSet)
			appendTargets(from, knightAttacks[from]&^ownOcc, b.mail[from])
		}
		for bbSet := b.bb[us][Bishop]; bbSet != 0; {
			from := popLSB(&bbSet)
			appendTargets(from, BishopAttacks(Square(from), allOcc)&^ownOcc, b.mail[from])
		}
		for bbSet := b.bb[us][Rook]; bbSet != 0; {
			from := popLSB(&bbSet)
			appendTargets(from, RookAttacks(Square(from), allOcc)&^ownOcc, b.mail[from])
		}
		for bbSet := b.bb[us][Queen]; bbSet != 0; {
			from := popLSB(&bbSet)
			appendTargets(from, QueenAttacks(Square(from), allOcc)&^ownOcc, b.mail[from])
		}
	}

	// King moves: test each destination with the king lifted off the
	// board so sliding attacks pass through its origin square.
	if ks != NoSquare {
		moved := b.mail[ks]
		targets := kingAttacks[ks] &^ ownOcc
		if filter == genCaptures {
			targets &= oppOcc
		}
		for targets != 0 {
			to := popLSB(&targets)
			occSim := allOcc &^ sqBB(ks)
			occSim = occSim&^sqBB(Square(to)) | sqBB(Square(to))
			if b.attackedWithOcc(Square(to), them, occSim) {
				continue
			}
			moves = append(moves, NewMove(ks, Square(to), moved, b.mail[to], NoPiece, FlagNone))
		}

		if filter != genCaptures && !ci.inCheck {
			moves = b.appendCastles(moves, us, allOcc)
		}
	}

	return moves
}

// Castle geometry: empty squares between king and rook, and the squares
// the king crosses (which must not be attacked).
type castleSpec struct {
	right    CastlingRights
	kingFrom Square
	kingTo   Square
	rookHome Square
	empty    []Square
	safe     []Square
}

var castleSpecs = [2][2]castleSpec{
	White: {
		{CastleWhiteKing, 4, 6, 7, []Square{5, 6}, []Square{5, 6}},
		{CastleWhiteQueen, 4, 2, 0, []Square{1, 2, 3}, []Square{2, 3}},
	},
	Black: {
		{CastleBlackKing, 60, 62, 63, []Square{61, 62}, []Square{61, 62}},
		{CastleBlackQueen, 60, 58, 56, []Square{57, 58, 59}, []Square{58, 59}},
	},
}

func (b *Board) appendCastles(moves []Move, us Color, occ uint64) []Move {
	them := us.Other()
	king := MakePiece(us, King)
	rook := MakePiece(us, Rook)
specs:
	for _, cs := range castleSpecs[us] {
		if b.castle&cs.right == 0 || b.mail[cs.rookHome] != rook {
			continue
		}
		for _, sq := range cs.empty {
			if occ&sqBB(sq) != 0 {
				continue specs
			}
		}
		for _, sq := range cs.safe {
			if b.attackedWithOcc(sq, them, occ) {
				continue specs
			}
		}
		moves = append(moves, NewMove(cs.kingFrom, cs.kingTo, king, NoPiece, NoPiece, FlagCastle))
	}
	return moves
}

// GenerateMoves returns all legal moves for the side to move in a fresh
// slice. Hot paths should use GenerateMovesInto with a reused buffer.
func (b *Board) GenerateMoves() []Move {
	return b.GenerateMovesInto(make([]Move, 0, 64))
}

// GenerateMovesInto appends all legal moves into dst (truncated first)
// and returns it.
func (b *Board) GenerateMovesInto(dst []Move) []Move {
	return b.generateInto(dst, genAll)
}

// GenerateCapturesInto appends all legal captures, including en passant
// and capturing promotions.
func (b *Board) GenerateCapturesInto(dst []Move) []Move {
	return b.generateInto(dst, genCaptures)
}
