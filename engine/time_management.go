package engine

import (
	"time"

	gm "gander/gandermg"
)

// Limits is everything a "go" command can constrain a search by. Zero
// values mean unconstrained; a fully zero Limits (or Infinite) searches
// until stopped.
type Limits struct {
	Depth    int
	MoveTime time.Duration
	WTime    time.Duration
	BTime    time.Duration
	WInc     time.Duration
	BInc     time.Duration
	Infinite bool
}

// budget converts clock-style limits into a per-move deadline measured
// from now. Fixed movetime is taken as-is; for a game clock we spend a
// slice of the remaining time plus the increment, never more than a
// safety fraction of what is left.
func (l Limits) budget(stm gm.Color, now time.Time) (time.Time, bool) {
	if l.Infinite {
		return time.Time{}, false
	}
	if l.MoveTime > 0 {
		return now.Add(l.MoveTime), true
	}
	remaining, inc := l.WTime, l.WInc
	if stm == gm.Black {
		remaining, inc = l.BTime, l.BInc
	}
	if remaining <= 0 {
		return time.Time{}, false
	}

	const movesToGo = 30
	const overhead = 30 * time.Millisecond
	slice := remaining/movesToGo + inc
	if ceiling := remaining * 7 / 10; slice > ceiling {
		slice = ceiling
	}
	if slice > remaining-overhead {
		slice = remaining - overhead
	}
	if slice < 5*time.Millisecond {
		slice = 5 * time.Millisecond
	}
	return now.Add(slice), true
}
