package engine

import (
	"unsafe"

	gm "gander/gandermg"
)

// TT bound flags per the stored score's relation to the search window.
const (
	AlphaFlag uint8 = iota // upper bound: real score <= stored
	BetaFlag               // lower bound: real score >= stored
	ExactFlag
)

// DefaultTTMegabytes sizes the table created by uci.New.
const DefaultTTMegabytes = 64

// TTEntry is one transposition record. Age is the root-search generation
// that wrote it, so stale entries lose replacement fights.
type TTEntry struct {
	Hash  uint64
	Move  gm.Move
	Score int32
	Depth int8
	Flag  uint8
	Age   uint8
}

// TransTable is a fixed, power-of-two sized map from Zobrist key to
// search record, indexed by hash & mask.
type TransTable struct {
	entries []TTEntry
	mask    uint64
	age     uint8
}

// NewTransTable allocates the largest power-of-two entry count that fits
// in the given size.
func NewTransTable(megabytes int) *TransTable {
	entrySize := uint64(unsafe.Sizeof(TTEntry{}))
	want := uint64(megabytes) * 1024 * 1024 / entrySize
	count := uint64(1)
	for count*2 <= want {
		count *= 2
	}
	return &TransTable{entries: make([]TTEntry, count), mask: count - 1}
}

func (tt *TransTable) Clear() {
	for i := range tt.entries {
		tt.entries[i] = TTEntry{}
	}
	tt.age = 0
}

// NextAge starts a new root-search generation.
func (tt *TransTable) NextAge() { tt.age++ }

// Probe returns the entry for hash if one is stored.
func (tt *TransTable) Probe(hash uint64) (TTEntry, bool) {
	e := tt.entries[hash&tt.mask]
	if e.Hash != hash {
		return TTEntry{}, false
	}
	return e, true
}

// Usable reports whether a probed entry may answer the current node, and
// the score to return. The stored depth must cover the remaining depth,
// and the bound must be conclusive for the window. Mate scores are
// stored relative to the writing node and rebased to the reading ply.
func (e TTEntry) Usable(depth int8, alpha, beta int32, ply int) (bool, int32) {
	if e.Depth < depth {
		return false, 0
	}
	score := e.Score
	if score > mateThreshold {
		score -= int32(ply)
	} else if score < -mateThreshold {
		score += int32(ply)
	}
	switch e.Flag {
	case ExactFlag:
		return true, score
	case AlphaFlag:
		if score <= alpha {
			return true, alpha
		}
	case BetaFlag:
		if score >= beta {
			return true, beta
		}
	}
	return false, 0
}

// Store writes an entry. Replacement is always-replace with a depth
// refinement: an empty slot, the same position, any entry from an older
// generation, or an equal-or-deeper new search wins the slot; only a
// deeper same-generation entry for a different position survives.
func (tt *TransTable) Store(hash uint64, depth int8, ply int, move gm.Move, score int32, flag uint8) {
	e := &tt.entries[hash&tt.mask]
	if e.Hash != 0 && e.Hash != hash && e.Age == tt.age && e.Depth > depth {
		return
	}
	if score > mateThreshold {
		score += int32(ply)
	} else if score < -mateThreshold {
		score -= int32(ply)
	}
	*e = TTEntry{Hash: hash, Move: move, Score: score, Depth: depth, Flag: flag, Age: tt.age}
}
