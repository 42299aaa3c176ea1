package main

// A box is frozen when it cannot move on either axis: each axis is blocked by
// walls, by boxes that are themselves frozen, or by a pair of push-dead
// squares. Freezing is a monotone fixpoint over the box neighborhood graph.

// ComputeFrozenBoxes computes the full frozen set for the current state.
func ComputeFrozenBoxes(g *Game) Bitvector {
	var result Bitvector
	for i := 0; i < g.BoxCount(); i++ {
		box := BoxIndex(i)
		if !result.Contains(box) {
			result = result.Union(ComputeNewFrozenBoxes(result, g, box))
		}
	}
	return result
}

// ComputeNewFrozenBoxes incrementally computes the boxes newly frozen after
// the given box has been pushed to its current location. frozen must not
// already contain the box.
func ComputeNewFrozenBoxes(frozen Bitvector, g *Game, box BoxIndex) Bitvector {
	if frozen.Contains(box) {
		panic("box is already frozen")
	}

	// Every box connected to the moved box (through non-frozen boxes) might
	// have changed state. Assume all candidates frozen, then relax.
	candidates := findFreezeCandidates(frozen, g, box)
	candidatesFrozen := candidates
	toCheck := candidates

	for !toCheck.IsEmpty() {
		var idx BoxIndex
		idx, toCheck = toCheck.Next()
		pos := g.BoxPos(idx)
		if !checkUnfrozen(g, pos, candidates, candidatesFrozen) {
			continue
		}
		candidatesFrozen.Remove(idx)
		// Unfreezing a box may unfreeze its neighbors; recheck them.
		for _, d := range allDirections {
			next, ok := g.Board().MovePos(pos, d)
			if !ok {
				continue
			}
			if nb := g.BoxAt(next); nb != NoBox && candidatesFrozen.Contains(nb) {
				toCheck.Add(nb)
			}
		}
	}

	return candidatesFrozen
}

// IsFreezeDeadlock reports whether any frozen box sits off-goal, which proves
// the state unsolvable.
func IsFreezeDeadlock(g *Game, frozen Bitvector) bool {
	return g.Unsolved().Intersects(frozen)
}

func findFreezeCandidates(frozen Bitvector, g *Game, box BoxIndex) Bitvector {
	var candidates Bitvector
	stack := make([]BoxIndex, 0, MaxBoxes)
	candidates.Add(box)
	stack = append(stack, box)
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		pos := g.BoxPos(idx)
		for _, d := range allDirections {
			next, ok := g.Board().MovePos(pos, d)
			if !ok {
				continue
			}
			if nb := g.BoxAt(next); nb != NoBox && !candidates.Contains(nb) && !frozen.Contains(nb) {
				candidates.Add(nb)
				stack = append(stack, nb)
			}
		}
	}
	return candidates
}

func checkUnfrozenDir(g *Game, pos Pos, d Direction, candidates, candidatesFrozen Bitvector) bool {
	next, ok := g.Board().MovePos(pos, d)
	if !ok {
		return true
	}
	if nb := g.BoxAt(next); nb != NoBox {
		if candidates.Contains(nb) {
			return !candidatesFrozen.Contains(nb)
		}
		// Non-candidate neighbor boxes are frozen by construction.
		return false
	}
	return g.Board().Tile(next) != TileWall
}

func checkDeadSquareDir(g *Game, pos Pos, d Direction) bool {
	next, ok := g.Board().MovePos(pos, d)
	if !ok {
		return true
	}
	return g.Board().IsPushDead(next)
}

func checkUnfrozenAxis(g *Game, pos Pos, a, b Direction, candidates, candidatesFrozen Bitvector) bool {
	return checkUnfrozenDir(g, pos, a, candidates, candidatesFrozen) &&
		checkUnfrozenDir(g, pos, b, candidates, candidatesFrozen) &&
		!(checkDeadSquareDir(g, pos, a) && checkDeadSquareDir(g, pos, b))
}

func checkUnfrozen(g *Game, pos Pos, candidates, candidatesFrozen Bitvector) bool {
	return checkUnfrozenAxis(g, pos, West, East, candidates, candidatesFrozen) ||
		checkUnfrozenAxis(g, pos, North, South, candidates, candidatesFrozen)
}
