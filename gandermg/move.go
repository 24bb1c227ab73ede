package gandermg

import "errors"

// Move packs a whole move into 32 bits:
//
//	bits  0-5   from square
//	bits  6-11  to square
//	bits 12-15  moved piece
//	bits 16-19  captured piece (NoPiece if quiet)
//	bits 20-23  promotion piece (NoPiece if none)
//	bits 24-25  flag
type Move uint32

const (
	FlagNone uint8 = iota
	FlagCastle
	FlagEnPassant
)

func NewMove(from, to Square, piece, captured, promotion Piece, flag uint8) Move {
	return Move(uint32(from&0x3F) |
		uint32(to&0x3F)<<6 |
		uint32(piece&0xF)<<12 |
		uint32(captured&0xF)<<16 |
		uint32(promotion&0xF)<<20 |
		uint32(flag&0x3)<<24)
}

func (m Move) From() Square          { return Square(m & 0x3F) }
func (m Move) To() Square            { return Square((m >> 6) & 0x3F) }
func (m Move) MovedPiece() Piece     { return Piece((m >> 12) & 0xF) }
func (m Move) CapturedPiece() Piece  { return Piece((m >> 16) & 0xF) }
func (m Move) PromotionPiece() Piece { return Piece((m >> 20) & 0xF) }
func (m Move) Flags() uint8          { return uint8((m >> 24) & 0x3) }

func (m Move) IsCapture() bool   { return m.CapturedPiece() != NoPiece }
func (m Move) IsPromotion() bool { return m.PromotionPiece() != NoPiece }

// String renders the move in UCI long algebraic form: e2e4, e7e8q, and
// e1g1 for castling. Castling is encoded as a king move so no special
// case is needed here.
func (m Move) String() string {
	s := m.From().String() + m.To().String()
	if p := m.PromotionPiece(); p != NoPiece {
		s += string(promoChar(p.Type()))
	}
	return s
}

func promoChar(pt PieceType) byte {
	switch pt {
	case Knight:
		return 'n'
	case Bishop:
		return 'b'
	case Rook:
		return 'r'
	case Queen:
		return 'q'
	}
	return '?'
}

var ErrInvalidMove = errors.New("invalid move string")

// ParseMoveString splits a UCI move token into its coordinates and
// promotion kind. It performs no legality checking; use
// (*Board).MoveFromUCI to resolve the token against a position.
func ParseMoveString(s string) (from, to Square, promo PieceType, err error) {
	if len(s) < 4 || len(s) > 5 {
		return 0, 0, PieceTypeNone, ErrInvalidMove
	}
	from, err = parseSquare(s[0:2])
	if err != nil {
		return 0, 0, PieceTypeNone, err
	}
	to, err = parseSquare(s[2:4])
	if err != nil {
		return 0, 0, PieceTypeNone, err
	}
	if len(s) == 5 {
		switch s[4] {
		case 'q':
			promo = Queen
		case 'r':
			promo = Rook
		case 'b':
			promo = Bishop
		case 'n':
			promo = Knight
		default:
			return 0, 0, PieceTypeNone, ErrInvalidMove
		}
	}
	return from, to, promo, nil
}

func parseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return 0, ErrInvalidMove
	}
	return Square(int(s[0]-'a') + int(s[1]-'1')*8), nil
}

var ErrIllegalMove = errors.New("illegal move")

// MoveFromUCI resolves a UCI token against the current position,
// returning the fully populated legal move. A promotion push or capture
// without its suffix does not match anything and is rejected, as is any
// token that names no legal move.
func (b *Board) MoveFromUCI(s string) (Move, error) {
	from, to, promo, err := ParseMoveString(s)
	if err != nil {
		return 0, err
	}
	for _, mv := range b.GenerateMoves() {
		if mv.From() == from && mv.To() == to && mv.PromotionPiece().Type() == promo {
			return mv, nil
		}
	}
	return 0, ErrIllegalMove
}
