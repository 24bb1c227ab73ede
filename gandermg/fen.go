package gandermg

import (
	"fmt"
	"strconv"
	"strings"
)

// StartposFEN is the standard initial position.
const StartposFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var pieceChars = map[byte]Piece{
	'P': WhitePawn, 'N': WhiteKnight, 'B': WhiteBishop, 'R': WhiteRook, 'Q': WhiteQueen, 'K': WhiteKing,
	'p': BlackPawn, 'n': BlackKnight, 'b': BlackBishop, 'r': BlackRook, 'q': BlackQueen, 'k': BlackKing,
}

func fenChar(p Piece) byte {
	const white = " PNBRQK"
	const black = " pnbrqk"
	if p.Color() == Black {
		return black[p.Type()]
	}
	return white[p.Type()]
}

// ParseFEN builds a Board from a FEN string. The literal "startpos" is
// accepted as a shorthand for the initial position. Beyond syntax, the
// board is validated: exactly one king per side, no pawns on the back
// ranks, castling flags only with king and rook at home, and an en
// passant square on the correct rank with the pushed pawn behind it.
func ParseFEN(fen string) (*Board, error) {
	fen = strings.TrimSpace(fen)
	if fen == "startpos" {
		fen = StartposFEN
	}
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, fmt.Errorf("invalid fen: want at least 4 fields, got %d", len(fields))
	}

	b := &Board{ep: NoSquare, moveNo: 1}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("invalid fen: %d ranks", len(ranks))
	}
	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for j := 0; j < len(rankStr); j++ {
			ch := rankStr[j]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			p, ok := pieceChars[ch]
			if !ok {
				return nil, fmt.Errorf("invalid fen: piece %q", ch)
			}
			if file >= 8 {
				return nil, fmt.Errorf("invalid fen: rank %d overflows", rank+1)
			}
			b.put(Square(rank*8+file), p)
			file++
		}
		if file != 8 {
			return nil, fmt.Errorf("invalid fen: rank %d has %d files", rank+1, file)
		}
	}

	switch fields[1] {
	case "w":
		b.stm = White
	case "b":
		b.stm = Black
		b.key ^= zobristSide
	default:
		return nil, fmt.Errorf("invalid fen: side %q", fields[1])
	}

	if fields[2] != "-" {
		for i := 0; i < len(fields[2]); i++ {
			switch fields[2][i] {
			case 'K':
				b.castle |= CastleWhiteKing
			case 'Q':
				b.castle |= CastleWhiteQueen
			case 'k':
				b.castle |= CastleBlackKing
			case 'q':
				b.castle |= CastleBlackQueen
			default:
				return nil, fmt.Errorf("invalid fen: castling %q", fields[2])
			}
		}
	}
	b.key ^= zobristCastle[b.castle]

	if fields[3] != "-" {
		sq, err := parseSquare(fields[3])
		if err != nil {
			return nil, fmt.Errorf("invalid fen: en passant %q", fields[3])
		}
		b.ep = sq
		b.key ^= zobristEnPassant[sq.File()]
	}

	if len(fields) > 4 {
		n, err := strconv.Atoi(fields[4])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid fen: halfmove clock %q", fields[4])
		}
		b.rule50 = n
	}
	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid fen: fullmove number %q", fields[5])
		}
		b.moveNo = n
	}

	if err := b.checkSetup(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Board) checkSetup() error {
	for _, c := range [2]Color{White, Black} {
		if n := popcount(b.bb[c][King]); n != 1 {
			return fmt.Errorf("invalid fen: %d kings", n)
		}
	}
	const backRanks = 0xFF000000000000FF
	if (b.bb[White][Pawn]|b.bb[Black][Pawn])&backRanks != 0 {
		return fmt.Errorf("invalid fen: pawn on back rank")
	}

	check := func(right CastlingRights, kingSq, rookSq Square, king, rook Piece) error {
		if b.castle&right != 0 && (b.mail[kingSq] != king || b.mail[rookSq] != rook) {
			return fmt.Errorf("invalid fen: castling right without king/rook at home")
		}
		return nil
	}
	for _, c := range []struct {
		right      CastlingRights
		king, rook Square
		kp, rp     Piece
	}{
		{CastleWhiteKing, 4, 7, WhiteKing, WhiteRook},
		{CastleWhiteQueen, 4, 0, WhiteKing, WhiteRook},
		{CastleBlackKing, 60, 63, BlackKing, BlackRook},
		{CastleBlackQueen, 60, 56, BlackKing, BlackRook},
	} {
		if err := check(c.right, c.king, c.rook, c.kp, c.rp); err != nil {
			return err
		}
	}

	if b.ep != NoSquare {
		// The target sits behind a pawn that just double-pushed: rank 6
		// with a black pawn below it when White moves, rank 3 with a
		// white pawn above it when Black moves.
		wantRank, pawnSq, pawn := 5, b.ep-8, BlackPawn
		if b.stm == Black {
			wantRank, pawnSq, pawn = 2, b.ep+8, WhitePawn
		}
		if b.ep.Rank() != wantRank || b.mail[pawnSq] != pawn || b.mail[b.ep] != NoPiece {
			return fmt.Errorf("invalid fen: en passant square %s inconsistent with board", b.ep)
		}
	}
	return nil
}

// ToFEN emits the canonical six-field FEN for the position.
func (b *Board) ToFEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			p := b.mail[rank*8+file]
			if p == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte('0' + byte(empty))
				empty = 0
			}
			sb.WriteByte(fenChar(p))
		}
		if empty > 0 {
			sb.WriteByte('0' + byte(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	if b.stm == White {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}

	if b.castle == 0 {
		sb.WriteByte('-')
	} else {
		for _, f := range []struct {
			r CastlingRights
			c byte
		}{{CastleWhiteKing, 'K'}, {CastleWhiteQueen, 'Q'}, {CastleBlackKing, 'k'}, {CastleBlackQueen, 'q'}} {
			if b.castle&f.r != 0 {
				sb.WriteByte(f.c)
			}
		}
	}

	sb.WriteByte(' ')
	sb.WriteString(b.ep.String())
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.rule50))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.moveNo))
	return sb.String()
}
