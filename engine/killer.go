package engine

import gm "gander/gandermg"

// KillerTable keeps two quiet moves per ply that recently produced beta
// cutoffs. Slot 0 is the most recent.
type KillerTable struct {
	slots [MaxPly + 1][2]gm.Move
}

func (k *KillerTable) Insert(move gm.Move, ply int) {
	if move != k.slots[ply][0] {
		k.slots[ply][1] = k.slots[ply][0]
		k.slots[ply][0] = move
	}
}

func (k *KillerTable) At(ply int) (gm.Move, gm.Move) {
	return k.slots[ply][0], k.slots[ply][1]
}

func (k *KillerTable) Clear() {
	for ply := range k.slots {
		k.slots[ply][0] = 0
		k.slots[ply][1] = 0
	}
}
