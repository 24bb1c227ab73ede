package engine

import gm "gander/gandermg"

// historyMax keeps history scores below every capture and killer tier in
// the move ordering.
const historyMax = 10000

// HistoryTable accumulates depth-squared bonuses for quiet moves that
// caused beta cutoffs, indexed by (piece, destination square). It
// persists across searches and is reset by ucinewgame.
type HistoryTable struct {
	score [15][64]int
}

func (h *HistoryTable) Get(m gm.Move) int {
	return h.score[m.MovedPiece()][m.To()]
}

// Increment rewards a quiet cutoff move; the table is aged when any cell
// would cross the ordering ceiling.
func (h *HistoryTable) Increment(m gm.Move, depth int8) {
	cell := &h.score[m.MovedPiece()][m.To()]
	*cell += int(depth) * int(depth)
	if *cell >= historyMax {
		h.age()
	}
}

// Decrement penalizes quiet moves that were tried before the move that
// finally cut.
func (h *HistoryTable) Decrement(m gm.Move, depth int8) {
	cell := &h.score[m.MovedPiece()][m.To()]
	*cell -= int(depth) * int(depth)
	if *cell < 0 {
		*cell = 0
	}
}

func (h *HistoryTable) age() {
	for p := range h.score {
		for sq := range h.score[p] {
			h.score[p][sq] /= 2
		}
	}
}

func (h *HistoryTable) Clear() {
	for p := range h.score {
		for sq := range h.score[p] {
			h.score[p][sq] = 0
		}
	}
}
