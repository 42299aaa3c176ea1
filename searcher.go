package main

// searchOps is the capability record that makes the searcher generic over
// the direction of the search: move generation, apply/undo, the dead-square
// mask, and the goal predicate differ between forward (push) and reverse
// (pull) search.
type searchOps struct {
	forward      bool
	moves        func(g *Game) *ReachableSet
	apply        func(g *Game, m Move) Undo
	undo         func(g *Game, u Undo)
	deadSquare   func(b *Board, p Pos) bool
	solved       func(g *Game) bool
	newHeuristic func(kind HeuristicKind, g *Game, frozen Bitvector) *Heuristic
}

func forwardSearchOps() searchOps {
	return searchOps{
		forward:      true,
		moves:        func(g *Game) *ReachableSet { return g.ComputePushes() },
		apply:        func(g *Game, m Move) Undo { return g.Push(m) },
		undo:         func(g *Game, u Undo) { g.Unpush(u) },
		deadSquare:   func(b *Board, p Pos) bool { return b.IsPushDead(p) },
		solved:       func(g *Game) bool { return g.IsSolved() },
		newHeuristic: NewPushHeuristic,
	}
}

// reverseSearchOps searches backward from the solved state; the goal is to
// reproduce the initial state, identified by its hashes.
func reverseSearchOps(initialHash, initialBoxesHash uint64) searchOps {
	return searchOps{
		forward:    false,
		moves:      func(g *Game) *ReachableSet { return g.ComputePulls() },
		apply:      func(g *Game, m Move) Undo { return g.Pull(m) },
		undo:       func(g *Game, u Undo) { g.Unpull(u) },
		deadSquare: func(b *Board, p Pos) bool { return b.IsPullDead(p) },
		solved: func(g *Game) bool {
			if g.BoxesHash() != initialBoxesHash {
				return false
			}
			return g.PlayerUnknown() || g.Hash() == initialHash
		},
		newHeuristic: NewPullHeuristic,
	}
}

type searchNode struct {
	checkpoint Checkpoint
	frozen     Bitvector
}

type outcomeKind uint8

const (
	// outcomeSolved: the direction's goal predicate held at meetHash.
	outcomeSolved outcomeKind = iota
	// outcomeMeet: meetHash is present in both transposition tables.
	outcomeMeet
	// outcomeThreshold: every frontier node exceeds the f threshold; next is
	// the smallest f seen beyond it.
	outcomeThreshold
	// outcomeLimit: the node allowance for this run was consumed.
	outcomeLimit
	// outcomeImpossible: the open list emptied; the reachable space under the
	// threshold is exhausted.
	outcomeImpossible
)

type searchOutcome struct {
	kind     outcomeKind
	next     Cost
	meetHash uint64
}

// Searcher runs threshold-bounded A* in one direction. It owns its open list,
// transposition table, and heuristic cache; the game is mutated in place and
// restored around every expansion.
type Searcher struct {
	game       *Game
	ops        searchOps
	opts       SolverOptions
	open       openList
	table      *TranspositionTable
	heuristics map[uint64]*Heuristic
	corral     *CorralAnalyzer
	rootDead   bool
	rootH      Cost
	nodes      int64
	peakOpen   int
	moveBuf    []Move
}

func newSearcher(game *Game, ops searchOps, opts SolverOptions) *Searcher {
	s := &Searcher{
		game:       game,
		ops:        ops,
		opts:       opts,
		table:      NewTranspositionTable(1 << 16),
		heuristics: make(map[uint64]*Heuristic),
		corral:     NewCorralAnalyzer(opts.DeadlockMaxNodes),
	}

	var frozen Bitvector
	if opts.FreezeDeadlocks && ops.forward {
		frozen = ComputeFrozenBoxes(game)
		if IsFreezeDeadlock(game, frozen) {
			s.rootDead = true
			return s
		}
	}

	h := s.heuristicFor(game, frozen).Compute(game)
	if h == CostInfinite {
		s.rootDead = true
		return s
	}
	s.rootH = h

	s.table.Store(TTEntry{Key: game.Hash(), Root: true})
	s.open.Push(openItem{
		f:    int(h),
		g:    0,
		node: searchNode{checkpoint: game.Checkpoint(), frozen: frozen},
	})
	return s
}

// heuristicFor returns the heuristic handle for the given frozen set,
// building and caching one per distinct set of frozen box positions.
func (s *Searcher) heuristicFor(g *Game, frozen Bitvector) *Heuristic {
	key := frozenSubsetHash(g, frozen)
	if h, ok := s.heuristics[key]; ok {
		return h
	}
	h := s.ops.newHeuristic(s.opts.Heuristic, g, frozen)
	s.heuristics[key] = h
	return h
}

func frozenSubsetHash(g *Game, frozen Bitvector) uint64 {
	var hash uint64
	for v := frozen; !v.IsEmpty(); {
		var i BoxIndex
		i, v = v.Next()
		hash ^= g.zob.BoxKey(g.BoxPos(i))
	}
	return hash
}

// run expands nodes whose f does not exceed threshold, decrementing limit
// once per expansion, until the goal is reached, the opposite table is hit,
// the threshold cuts the frontier, the limit runs out, or the space is
// exhausted.
func (s *Searcher) run(threshold Cost, limit *int64, opposite *TranspositionTable) searchOutcome {
	if s.rootDead {
		return searchOutcome{kind: outcomeImpossible}
	}

	for {
		if *limit <= 0 {
			return searchOutcome{kind: outcomeLimit}
		}
		item, ok := s.open.PopMin()
		if !ok {
			return searchOutcome{kind: outcomeImpossible}
		}
		if item.f > int(threshold) {
			s.open.Push(item)
			return searchOutcome{kind: outcomeThreshold, next: clampCost(item.f)}
		}
		*limit--
		s.nodes++
		if s.opts.Progress != nil && s.opts.ProgressInterval > 0 && s.nodes%s.opts.ProgressInterval == 0 {
			s.opts.Progress(s)
		}

		s.game.Restore(item.node.checkpoint)
		hash := s.game.Hash()

		// A cheaper path to this state was found after it was queued.
		if entry, ok := s.table.Probe(hash); ok && int(entry.G) < item.g {
			continue
		}

		if s.ops.solved(s.game) {
			return searchOutcome{kind: outcomeSolved, meetHash: hash}
		}
		if opposite != nil {
			if _, hit := opposite.Probe(hash); hit {
				return searchOutcome{kind: outcomeMeet, meetHash: hash}
			}
		}

		reach := s.ops.moves(s.game)
		s.moveBuf = s.moveBuf[:0]
		s.moveBuf = reach.Moves.AppendTo(s.moveBuf)
		childG := item.g + 1

		for _, m := range s.moveBuf {
			if item.node.frozen.Contains(m.Box) {
				continue
			}
			dest, ok := s.game.Board().MovePos(s.game.BoxPos(m.Box), m.Dir)
			if !ok {
				continue
			}
			if s.opts.DeadSquares && s.ops.deadSquare(s.game.Board(), dest) {
				continue
			}

			undo := s.ops.apply(s.game, m)
			childHash := s.game.Hash()

			if entry, ok := s.table.Probe(childHash); ok && int(entry.G) <= childG {
				s.ops.undo(s.game, undo)
				continue
			}

			childFrozen := item.node.frozen
			if s.opts.FreezeDeadlocks && s.ops.forward {
				childFrozen = childFrozen.Union(ComputeNewFrozenBoxes(childFrozen, s.game, m.Box))
				if IsFreezeDeadlock(s.game, childFrozen) {
					s.ops.undo(s.game, undo)
					continue
				}
			}
			if s.opts.PICorrals && s.ops.forward && s.corral.Deadlocked(s.game, m.Box) {
				s.ops.undo(s.game, undo)
				continue
			}

			h := s.heuristicFor(s.game, childFrozen).Compute(s.game)
			if h == CostInfinite {
				s.ops.undo(s.game, undo)
				continue
			}

			s.table.Store(TTEntry{Key: childHash, Parent: hash, Move: m, G: uint16(childG)})
			s.open.Push(openItem{
				f:    childG + int(h),
				g:    childG,
				node: searchNode{checkpoint: s.game.Checkpoint(), frozen: childFrozen},
			})
			if s.open.Len() > s.peakOpen {
				s.peakOpen = s.open.Len()
			}

			if opposite != nil {
				if _, hit := opposite.Probe(childHash); hit {
					s.ops.undo(s.game, undo)
					return searchOutcome{kind: outcomeMeet, meetHash: childHash}
				}
			}
			s.ops.undo(s.game, undo)
		}
	}
}

// movesTo reconstructs the move sequence from the root to the given state by
// walking parent links in the transposition table.
func (s *Searcher) movesTo(hash uint64) []Move {
	var reversed []Move
	for {
		entry, ok := s.table.Probe(hash)
		if !ok {
			panic("failed to reconstruct solution: state not in transposition table")
		}
		if entry.Root {
			break
		}
		reversed = append(reversed, entry.Move)
		hash = entry.Parent
	}
	moves := make([]Move, len(reversed))
	for i, m := range reversed {
		moves[len(reversed)-1-i] = m
	}
	return moves
}
