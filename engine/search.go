package engine

import (
	"fmt"
	"sync/atomic"
	"time"

	gm "gander/gandermg"
)

// Score constants. Mated-at-ply scores are -MateScore+ply, so any score
// beyond mateThreshold is a mate score and carries a distance.
const (
	MateScore     int32 = 30000
	Infinity      int32 = MateScore + 500
	mateThreshold int32 = MateScore - 1024
	DrawScore     int32 = 0
)

// MaxPly bounds the search stack and the killer table.
const MaxPly = 64

// Polling cadence: the clock and stop flag are checked every pollMask+1
// nodes, and the session yields back to the think pump after sliceNodes
// nodes of work.
const (
	pollMask   = 2047
	sliceNodes = 8192
)

// Session is one search from a root position. It runs on its own
// goroutine but is driven cooperatively: the goroutine is parked at
// polling points and advances only inside Step, so exactly one side is
// ever executing and no state needs locking beyond the stop flag. This
// is what lets the engine live inside a single-threaded event-driven
// host: the host calls Step (via uci.Think) whenever it has time.
type Session struct {
	board   *gm.Board
	tt      *TransTable
	hist    *HistoryTable
	killers KillerTable
	limits  Limits

	deadline    time.Time
	hasDeadline bool
	startTime   time.Time

	// pathKeys holds the game history's Zobrist keys followed by the
	// keys of the current search path, for repetition detection.
	pathKeys []uint64

	nodes     uint64
	lastYield uint64

	stop     atomic.Bool
	stopping bool
	finished bool

	bestMove  gm.Move
	bestScore int32
	hasBest   bool
	depthDone int

	output []string

	resume chan struct{}
	yield  chan struct{}
}

// NewSession snapshots the position and starts the (parked) search
// goroutine. gameKeys are the Zobrist keys of the game so far, newest
// last; they seed repetition detection.
func NewSession(b *gm.Board, limits Limits, tt *TransTable, hist *HistoryTable, gameKeys []uint64) *Session {
	root := *b
	s := &Session{
		board:  &root,
		tt:     tt,
		hist:   hist,
		limits: limits,
		resume: make(chan struct{}),
		yield:  make(chan struct{}),
	}
	s.pathKeys = make([]uint64, len(gameKeys), len(gameKeys)+MaxPly+8)
	copy(s.pathKeys, gameKeys)
	if len(s.pathKeys) == 0 || s.pathKeys[len(s.pathKeys)-1] != root.Hash() {
		s.pathKeys = append(s.pathKeys, root.Hash())
	}
	go s.run()
	return s
}

func (s *Session) run() {
	defer func() {
		if r := recover(); r != nil {
			// A broken invariant inside the search must never surface a
			// wrong move: drop the result and finish as moveless.
			s.output = append(s.output, fmt.Sprintf("info string search aborted: %v", r))
			s.hasBest = false
			s.finished = true
			s.yield <- struct{}{}
		}
	}()
	<-s.resume
	s.startTime = time.Now()
	s.deadline, s.hasDeadline = s.limits.budget(s.board.SideToMove(), s.startTime)
	s.tt.NextAge()
	s.iterate()
	s.finished = true
	s.yield <- struct{}{}
}

// Step grants the session one slice of work and blocks until it parks
// again or completes. It reports whether the search has finished; calling
// it after completion is a no-op returning true.
func (s *Session) Step() bool {
	if s.finished {
		return true
	}
	s.resume <- struct{}{}
	<-s.yield
	return s.finished
}

// Stop asks the session to unwind at its next polling point. Safe to
// call from any goroutine, any number of times.
func (s *Session) Stop() { s.stop.Store(true) }

// Finished reports whether the search has completed.
func (s *Session) Finished() bool { return s.finished }

// Best returns the best move found, with ok=false when the root had no
// legal moves.
func (s *Session) Best() (gm.Move, bool) { return s.bestMove, s.hasBest }

// TakeOutput drains the buffered info lines. Only call while the session
// is parked (i.e. after Step returned); the handshake in Step provides
// the needed ordering.
func (s *Session) TakeOutput() []string {
	out := s.output
	s.output = nil
	return out
}

// Nodes returns the number of nodes visited so far.
func (s *Session) Nodes() uint64 { return s.nodes }

func (s *Session) expired() bool {
	return s.hasDeadline && time.Now().After(s.deadline)
}

// poll is the suspension point: it observes stop/deadline and, once the
// node budget of the current slice is spent, parks the goroutine until
// the next Step.
func (s *Session) poll() {
	if s.stopping {
		return
	}
	if s.stop.Load() || s.expired() {
		s.stopping = true
		return
	}
	if s.nodes-s.lastYield >= sliceNodes {
		s.lastYield = s.nodes
		s.yield <- struct{}{}
		<-s.resume
		if s.stop.Load() || s.expired() {
			s.stopping = true
		}
	}
}

// iterate runs iterative deepening, recording the best move after each
// completed ply and emitting one info line per ply.
func (s *Session) iterate() {
	rootMoves := s.board.GenerateMoves()
	if len(rootMoves) == 0 {
		return
	}
	// Seed so a stop before ply 1 completes still reports a legal move.
	s.bestMove = rootMoves[0]
	s.bestScore = -Infinity
	s.hasBest = true

	maxDepth := MaxPly - 1
	if s.limits.Depth > 0 {
		maxDepth = Min(s.limits.Depth, maxDepth)
	}

	var pv PVLine
	for depth := 1; depth <= maxDepth; depth++ {
		pv.Clear()
		score := s.alphabeta(-Infinity, Infinity, int8(depth), 0, &pv)
		if s.stopping {
			break
		}
		if best := pv.Best(); best != 0 {
			s.bestMove = best
			s.bestScore = score
		}
		s.depthDone = depth
		s.emitInfo(depth, score, pv)
		if score > mateThreshold || score < -mateThreshold {
			// A forced mate is found; deeper iterations cannot beat it.
			break
		}
		if depth == maxDepth {
			break
		}
		// Ply completion is a suspension point of its own.
		s.lastYield = s.nodes
		s.yield <- struct{}{}
		<-s.resume
		if s.stop.Load() || s.expired() {
			break
		}
	}
}

func (s *Session) emitInfo(depth int, score int32, pv PVLine) {
	elapsed := time.Since(s.startTime)
	ms := elapsed.Milliseconds()
	if ms <= 0 {
		ms = 1
	}
	nps := s.nodes * 1000 / uint64(ms)
	s.output = append(s.output, fmt.Sprintf("info depth %d score %s nodes %d nps %d time %d pv %s",
		depth, formatScore(score), s.nodes, nps, ms, pv.String()))
}

// formatScore renders a centipawn or mate-distance UCI score.
func formatScore(score int32) string {
	if score > mateThreshold {
		return fmt.Sprintf("mate %d", (MateScore-score+1)/2)
	}
	if score < -mateThreshold {
		return fmt.Sprintf("mate %d", -(MateScore+score+1)/2)
	}
	return fmt.Sprintf("cp %d", score)
}

// isRepetition reports whether the current position already occurred on
// the combined game and search path within the 50-move window. A single
// recurrence is scored as a draw: if repeating is really best, the score
// converges to it anyway.
func (s *Session) isRepetition() bool {
	n := len(s.pathKeys)
	if n < 2 {
		return false
	}
	key := s.pathKeys[n-1]
	limit := Max(0, n-1-s.board.HalfmoveClock())
	// Same side to move every other ply.
	for i := n - 3; i >= limit; i -= 2 {
		if s.pathKeys[i] == key {
			return true
		}
	}
	return false
}

func (s *Session) alphabeta(alpha, beta int32, depth int8, ply int, pv *PVLine) int32 {
	s.nodes++
	if s.nodes&pollMask == 0 {
		s.poll()
	}
	if s.stopping {
		return 0
	}

	isRoot := ply == 0
	if !isRoot {
		if s.board.IsDrawBy50() || s.isRepetition() {
			return DrawScore
		}
	}
	if ply >= MaxPly {
		return Evaluate(s.board)
	}

	inCheck := s.board.InCheck(s.board.SideToMove())
	if inCheck {
		// Check extension: don't let forced sequences fall into the
		// quiescence horizon.
		depth++
	}
	if depth <= 0 {
		return s.quiescence(alpha, beta, ply)
	}

	hash := s.board.Hash()
	entry, hit := s.tt.Probe(hash)
	isPV := beta-alpha > 1
	if hit && !isRoot && !isPV {
		if usable, score := entry.Usable(depth, alpha, beta, ply); usable {
			return score
		}
	}
	var ttMove gm.Move
	if hit {
		ttMove = entry.Move
	}

	moves := s.board.GenerateMoves()
	if len(moves) == 0 {
		if inCheck {
			return -MateScore + int32(ply)
		}
		return DrawScore
	}

	list := scoreMoves(moves, ply, ttMove, &s.killers, s.hist)
	var childPV PVLine
	bestScore := -Infinity
	var bestMove gm.Move
	flag := AlphaFlag
	quietsTried := make([]gm.Move, 0, 16)

	for i := 0; i < len(list.moves); i++ {
		orderNextMove(i, &list)
		m := list.moves[i].move

		ok, undo := s.board.MakeMove(m)
		if !ok {
			continue
		}
		s.pathKeys = append(s.pathKeys, s.board.Hash())

		var score int32
		childPV.Clear()
		if i == 0 {
			score = -s.alphabeta(-beta, -alpha, depth-1, ply+1, &childPV)
		} else {
			// Principal variation search: assume the first move is best
			// and probe the rest with a null window, re-searching only
			// on an unexpected improvement.
			score = -s.alphabeta(-(alpha + 1), -alpha, depth-1, ply+1, &childPV)
			if score > alpha && score < beta {
				childPV.Clear()
				score = -s.alphabeta(-beta, -alpha, depth-1, ply+1, &childPV)
			}
		}

		s.pathKeys = s.pathKeys[:len(s.pathKeys)-1]
		s.board.UnmakeMove(m, undo)

		if s.stopping {
			return 0
		}

		if score > bestScore {
			bestScore = score
			bestMove = m
		}
		if score >= beta {
			flag = BetaFlag
			if !m.IsCapture() {
				s.killers.Insert(m, ply)
				s.hist.Increment(m, depth)
				for _, tried := range quietsTried {
					if tried != m {
						s.hist.Decrement(tried, depth)
					}
				}
			}
			break
		}
		if score > alpha {
			alpha = score
			flag = ExactFlag
			pv.Update(m, childPV)
			// Until ply 1 completes, a stop reports the best root move
			// scored so far; afterwards only completed iterations count.
			if isRoot && s.depthDone == 0 {
				s.bestMove = m
				s.bestScore = score
			}
		}
		if !m.IsCapture() {
			quietsTried = append(quietsTried, m)
		}
	}

	if !s.stopping {
		s.tt.Store(hash, depth, ply, bestMove, bestScore, flag)
	}
	return bestScore
}

// quiescence settles tactical noise at the horizon: stand pat against
// alpha, then captures ordered by MVV-LVA. In check it searches every
// evasion instead, since standing pat while checked is meaningless.
func (s *Session) quiescence(alpha, beta int32, ply int) int32 {
	s.nodes++
	if s.nodes&pollMask == 0 {
		s.poll()
	}
	if s.stopping {
		return 0
	}

	inCheck := s.board.InCheck(s.board.SideToMove())
	standPat := Evaluate(s.board)
	if ply >= MaxPly {
		return standPat
	}

	bestScore := standPat
	if inCheck {
		bestScore = -Infinity
	} else {
		if standPat >= beta {
			return standPat
		}
		if standPat > alpha {
			alpha = standPat
		}
	}

	var buf [64]gm.Move
	var list moveList
	if inCheck {
		moves := s.board.GenerateMovesInto(buf[:0])
		if len(moves) == 0 {
			return -MateScore + int32(ply)
		}
		list = scoreMoves(moves, Min(ply, MaxPly), 0, &s.killers, s.hist)
	} else {
		list = scoreCaptures(s.board.GenerateCapturesInto(buf[:0]))
	}

	const deltaMargin = 200
	for i := 0; i < len(list.moves); i++ {
		orderNextMove(i, &list)
		m := list.moves[i].move

		if !inCheck {
			// Delta pruning: if even winning the victim outright cannot
			// lift us near alpha, the capture is noise.
			gain := PieceValue(m.CapturedPiece().Type())
			if m.IsPromotion() {
				gain += PieceValue(gm.Queen) - PieceValue(gm.Pawn)
			}
			if standPat+gain+deltaMargin <= alpha {
				continue
			}
		}

		ok, undo := s.board.MakeMove(m)
		if !ok {
			continue
		}
		score := -s.quiescence(-beta, -alpha, ply+1)
		s.board.UnmakeMove(m, undo)

		if s.stopping {
			return 0
		}
		if score > bestScore {
			bestScore = score
		}
		if score >= beta {
			return score
		}
		if score > alpha {
			alpha = score
		}
	}
	return bestScore
}
