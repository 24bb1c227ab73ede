package engine

import gm "gander/gandermg"

type scoredMove struct {
	move  gm.Move
	score uint16
}

type moveList struct {
	moves []scoredMove
}

// Most Valuable Victim, Least Valuable Aggressor: capture ordering by
// [victim][aggressor] type.
var mvvLva = [7][7]uint16{
	{0, 0, 0, 0, 0, 0, 0},
	{0, 15, 14, 13, 12, 11, 10}, // victim pawn
	{0, 25, 24, 23, 22, 21, 20}, // victim knight
	{0, 35, 34, 33, 32, 31, 30}, // victim bishop
	{0, 45, 44, 43, 42, 41, 40}, // victim rook
	{0, 55, 54, 53, 52, 51, 50}, // victim queen
	{0, 0, 0, 0, 0, 0, 0},
}

// Ordering tiers. History scores stay below historyMax, which sits under
// every tier here.
const (
	ttMoveScore       uint16 = 30000
	promotionScore    uint16 = 26000
	captureScore      uint16 = 22000
	killerFirstScore  uint16 = 16000
	killerSecondScore uint16 = 15000
)

// orderNextMove selection-sorts one move to the front: full sorting is
// wasted work when a cutoff ends the loop after a few moves.
func orderNextMove(idx int, list *moveList) {
	best := idx
	bestScore := list.moves[idx].score
	for i := idx + 1; i < len(list.moves); i++ {
		if list.moves[i].score > bestScore {
			best = i
			bestScore = list.moves[i].score
		}
	}
	list.moves[idx], list.moves[best] = list.moves[best], list.moves[idx]
}

// scoreMoves assigns the ordering tiers: TT move, promotions, captures
// by MVV-LVA, killers for this ply, then history.
func scoreMoves(moves []gm.Move, ply int, ttMove gm.Move, killers *KillerTable, hist *HistoryTable) moveList {
	list := moveList{moves: make([]scoredMove, len(moves))}
	killer0, killer1 := killers.At(ply)
	for i, m := range moves {
		var score uint16
		switch {
		case m == ttMove && ttMove != 0:
			score = ttMoveScore
		case m.IsPromotion():
			score = promotionScore + uint16(pieceValue[m.PromotionPiece().Type()]/100)
		case m.IsCapture():
			score = captureScore + mvvLva[m.CapturedPiece().Type()][m.MovedPiece().Type()]
		case m == killer0:
			score = killerFirstScore
		case m == killer1:
			score = killerSecondScore
		default:
			score = uint16(hist.Get(m))
		}
		list.moves[i] = scoredMove{move: m, score: score}
	}
	return list
}

// scoreCaptures orders a capture-only list by MVV-LVA with promotions on
// top; quiescence has no killers or history to consult.
func scoreCaptures(moves []gm.Move) moveList {
	list := moveList{moves: make([]scoredMove, len(moves))}
	for i, m := range moves {
		score := mvvLva[m.CapturedPiece().Type()][m.MovedPiece().Type()]
		if m.IsPromotion() {
			score += promotionScore
		}
		list.moves[i] = scoredMove{move: m, score: score}
	}
	return list
}
