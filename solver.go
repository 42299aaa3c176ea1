package main

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

type SolveOutcome uint8

const (
	OutcomeSolved SolveOutcome = iota
	OutcomeCutoff
	OutcomeImpossible
)

func (o SolveOutcome) String() string {
	switch o {
	case OutcomeSolved:
		return "solved"
	case OutcomeCutoff:
		return "cutoff"
	default:
		return "impossible"
	}
}

type SearchDirection uint8

const (
	DirectionForward SearchDirection = iota
	DirectionReverse
	DirectionBidirectional
)

func ParseSearchDirection(s string) (SearchDirection, error) {
	switch s {
	case "forward":
		return DirectionForward, nil
	case "reverse":
		return DirectionReverse, nil
	case "bidirectional":
		return DirectionBidirectional, nil
	}
	return 0, fmt.Errorf("unknown search direction %q", s)
}

func (d SearchDirection) String() string {
	switch d {
	case DirectionForward:
		return "forward"
	case DirectionReverse:
		return "reverse"
	default:
		return "bidirectional"
	}
}

type SolverOptions struct {
	Heuristic        HeuristicKind
	Direction        SearchDirection
	MaxNodes         int64
	FreezeDeadlocks  bool
	DeadSquares      bool
	PICorrals        bool
	DeadlockMaxNodes int
	// Nodes each direction expands before yielding in bidirectional mode.
	Quota            int64
	Progress         func(s *Searcher)
	ProgressInterval int64
}

func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		Heuristic:        HeuristicHungarian,
		Direction:        DirectionBidirectional,
		MaxNodes:         5_000_000,
		FreezeDeadlocks:  true,
		DeadSquares:      true,
		PICorrals:        true,
		DeadlockMaxNodes: 20,
		Quota:            1000,
		ProgressInterval: 100_000,
	}
}

// SolveStats is the statistics record attached to every solve result.
type SolveStats struct {
	Nodes     int64 `json:"nodes"`
	PeakOpen  int   `json:"peak_open"`
	Steps     int   `json:"steps"`
	ElapsedMs int64 `json:"elapsed_ms"`
}

type Solution struct {
	Outcome SolveOutcome `json:"outcome"`
	Pushes  []Move       `json:"pushes,omitempty"`
	Stats   SolveStats   `json:"stats"`
}

// Solver drives one or two searchers over a board: iterative deepening on the
// f threshold, and, in bidirectional mode, interleaving the forward and
// reverse searchers on a node quota until their frontiers intersect.
type Solver struct {
	board    *Board
	revBoard *Board
	zob      *Zobrist
	forward  *Searcher
	reverse  *Searcher
	opts     SolverOptions
}

func NewSolver(board *Board, opts SolverOptions) *Solver {
	s := &Solver{board: board, zob: NewZobrist(), opts: opts}

	forwardGame := NewGame(board, s.zob)
	initialHash := forwardGame.Hash()
	initialBoxesHash := forwardGame.BoxesHash()
	s.forward = newSearcher(forwardGame, forwardSearchOps(), opts)

	if opts.Direction != DirectionForward {
		s.revBoard = board.SwapBoxesAndGoals()
		reverseGame := NewReverseGame(s.revBoard, s.zob)
		s.reverse = newSearcher(reverseGame, reverseSearchOps(initialHash, initialBoxesHash), opts)
	}
	return s
}

func (s *Solver) Solve() Solution {
	start := time.Now()
	var solution Solution
	switch s.opts.Direction {
	case DirectionForward:
		solution = s.solveOneDirection(s.forward)
	case DirectionReverse:
		solution = s.solveOneDirection(s.reverse)
	default:
		solution = s.solveBidirectional()
	}
	solution.Stats.Nodes = s.nodesExpanded()
	solution.Stats.PeakOpen = s.peakOpen()
	solution.Stats.Steps = len(solution.Pushes)
	solution.Stats.ElapsedMs = time.Since(start).Milliseconds()
	return solution
}

func (s *Solver) nodesExpanded() int64 {
	nodes := s.forward.nodes
	if s.reverse != nil {
		nodes += s.reverse.nodes
	}
	return nodes
}

func (s *Solver) peakOpen() int {
	peak := s.forward.peakOpen
	if s.reverse != nil && s.reverse.peakOpen > peak {
		peak = s.reverse.peakOpen
	}
	return peak
}

// solveOneDirection runs a single searcher, raising the f threshold each time
// the frontier is cut, until the budget runs out or the space is exhausted.
func (s *Solver) solveOneDirection(searcher *Searcher) Solution {
	if searcher.rootDead {
		return Solution{Outcome: OutcomeImpossible}
	}
	budget := s.opts.MaxNodes
	threshold := searcher.rootH
	for {
		out := searcher.run(threshold, &budget, nil)
		switch out.kind {
		case outcomeSolved:
			return Solution{Outcome: OutcomeSolved, Pushes: s.assemble(searcher, out.meetHash)}
		case outcomeThreshold:
			log.Debug().
				Str("direction", directionName(searcher)).
				Uint16("threshold", uint16(out.next)).
				Int64("nodes", searcher.nodes).
				Msg("raising threshold")
			threshold = out.next
		case outcomeLimit:
			return Solution{Outcome: OutcomeCutoff}
		case outcomeImpossible:
			return Solution{Outcome: OutcomeImpossible}
		}
	}
}

// solveBidirectional interleaves the two searchers on the configured node
// quota, probing each newly discovered state against the other direction's
// transposition table.
func (s *Solver) solveBidirectional() Solution {
	budget := s.opts.MaxNodes
	thresholds := [2]Cost{s.forward.rootH, s.reverse.rootH}
	searchers := [2]*Searcher{s.forward, s.reverse}
	opposites := [2]*TranspositionTable{s.reverse.table, s.forward.table}
	dead := [2]bool{s.forward.rootDead, s.reverse.rootDead}

	side := 0
	for budget > 0 {
		if dead[0] && dead[1] {
			return Solution{Outcome: OutcomeImpossible}
		}
		if dead[side] {
			side = 1 - side
			continue
		}

		quota := s.opts.Quota
		if quota > budget {
			quota = budget
		}
		remaining := quota
		out := searchers[side].run(thresholds[side], &remaining, opposites[side])
		budget -= quota - remaining

		switch out.kind {
		case outcomeSolved:
			if side == 0 {
				return Solution{Outcome: OutcomeSolved, Pushes: s.combine(s.forward.movesTo(out.meetHash), nil)}
			}
			return Solution{Outcome: OutcomeSolved, Pushes: s.combine(nil, s.reverse.movesTo(out.meetHash))}
		case outcomeMeet:
			log.Debug().
				Str("hash", fmt.Sprintf("0x%016x", out.meetHash)).
				Int64("forward_nodes", s.forward.nodes).
				Int64("reverse_nodes", s.reverse.nodes).
				Msg("frontiers met")
			return Solution{
				Outcome: OutcomeSolved,
				Pushes:  s.combine(s.forward.movesTo(out.meetHash), s.reverse.movesTo(out.meetHash)),
			}
		case outcomeThreshold:
			thresholds[side] = out.next
		case outcomeLimit:
			side = 1 - side
		case outcomeImpossible:
			dead[side] = true
		}
	}
	return Solution{Outcome: OutcomeCutoff}
}

func (s *Solver) assemble(searcher *Searcher, goalHash uint64) []Move {
	if searcher == s.forward {
		return s.combine(searcher.movesTo(goalHash), nil)
	}
	return s.combine(nil, searcher.movesTo(goalHash))
}

func directionName(searcher *Searcher) string {
	if searcher.ops.forward {
		return "forward"
	}
	return "reverse"
}

type pushRecord struct {
	pos Pos
	dir Direction
}

// combine joins the forward path (root to meeting state) with the inverted
// reverse path (meeting state to goal), then verifies the whole sequence by
// replaying it on a fresh game, binding box indexes as they stand at apply
// time. Any failure here indicates a search bug and panics.
func (s *Solver) combine(forwardMoves, reverseMoves []Move) []Move {
	records := make([]pushRecord, 0, len(forwardMoves)+len(reverseMoves))

	game := NewGame(s.board, s.zob)
	for _, m := range forwardMoves {
		records = append(records, pushRecord{pos: game.BoxPos(m.Box), dir: m.Dir})
		game.Push(m)
	}

	if len(reverseMoves) > 0 {
		reverseGame := NewReverseGame(s.revBoard, s.zob)
		inverted := make([]pushRecord, len(reverseMoves))
		for i, m := range reverseMoves {
			reverseGame.Pull(m)
			// The pull moved the box one cell along m.Dir; the corresponding
			// push starts there and goes back the other way.
			inverted[i] = pushRecord{pos: reverseGame.BoxPos(m.Box), dir: m.Dir.Reverse()}
		}
		// The pulls run from the solved state to the meeting state; the
		// pushes are their inverses in the opposite order.
		for i := len(inverted) - 1; i >= 0; i-- {
			records = append(records, inverted[i])
		}
	}

	replay := NewGame(s.board, s.zob)
	pushes := make([]Move, 0, len(records))
	for i, r := range records {
		box := replay.BoxAt(r.pos)
		if box == NoBox {
			panic(fmt.Sprintf("solution verification failed: no box at %s for push %d", r.pos, i+1))
		}
		move := Move{Box: box, Dir: r.dir}
		if !replay.ComputePushes().Moves.Contains(move) {
			panic(fmt.Sprintf("solution verification failed: push %d (box at %s, %s) is not valid", i+1, r.pos, r.dir))
		}
		replay.Push(move)
		pushes = append(pushes, move)
	}
	if !replay.IsSolved() {
		panic("solution verification failed: puzzle is not solved")
	}
	return pushes
}
