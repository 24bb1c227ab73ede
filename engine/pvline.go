package engine

import (
	"strings"

	gm "gander/gandermg"
)

// PVLine is the triangular principal variation: the best move at this
// node followed by the child's line.
type PVLine struct {
	Moves []gm.Move
}

func (pv *PVLine) Clear() { pv.Moves = pv.Moves[:0] }

// Update replaces the line with move followed by the child line.
func (pv *PVLine) Update(move gm.Move, child PVLine) {
	pv.Moves = append(pv.Moves[:0], move)
	pv.Moves = append(pv.Moves, child.Moves...)
}

// Clone returns an independent copy; the search reuses line buffers
// between iterations so the reported PV must not alias them.
func (pv PVLine) Clone() PVLine {
	c := PVLine{Moves: make([]gm.Move, len(pv.Moves))}
	copy(c.Moves, pv.Moves)
	return c
}

// Best returns the first move of the line, or 0 when empty.
func (pv PVLine) Best() gm.Move {
	if len(pv.Moves) == 0 {
		return 0
	}
	return pv.Moves[0]
}

func (pv PVLine) String() string {
	var sb strings.Builder
	for i, m := range pv.Moves {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(m.String())
	}
	return sb.String()
}
