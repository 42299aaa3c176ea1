package main

import (
	"fmt"
	"math"
)

// Cost is a lower bound (or estimate) on the remaining pushes/pulls.
type Cost uint16

// CostInfinite marks a state from which the goal cannot be reached.
const CostInfinite Cost = math.MaxUint16

type HeuristicKind uint8

const (
	HeuristicHungarian HeuristicKind = iota
	HeuristicSimple
	HeuristicGreedy
	HeuristicNull
)

func ParseHeuristicKind(s string) (HeuristicKind, error) {
	switch s {
	case "hungarian":
		return HeuristicHungarian, nil
	case "simple":
		return HeuristicSimple, nil
	case "greedy":
		return HeuristicGreedy, nil
	case "null":
		return HeuristicNull, nil
	}
	return 0, fmt.Errorf("unknown heuristic %q", s)
}

func (k HeuristicKind) String() string {
	switch k {
	case HeuristicHungarian:
		return "hungarian"
	case HeuristicSimple:
		return "simple"
	case HeuristicGreedy:
		return "greedy"
	default:
		return "null"
	}
}

// Above this box count the Hungarian heuristic's O(n^3) matching costs more
// than the search nodes it saves; fall back to the simple bound.
const hungarianMaxBoxes = 24

// Heuristic estimates remaining pushes (or pulls) from per-goal BFS distance
// tables. The tables treat the frozen boxes the heuristic was built with as
// walls; frozen boxes and the goals they cover are excluded from matching.
// Searchers cache one instance per frozen-box set.
type Heuristic struct {
	kind     HeuristicKind
	board    *Board
	frozen   Bitvector
	frozenAt RawBitboard
	// goalDist[i][y*64+x] = minimum pushes/pulls to move a box from (x, y)
	// to goal i. CostInfinite where unreachable.
	goalDist [][]uint16
}

// NewPushHeuristic builds a push-oriented heuristic for forward search.
func NewPushHeuristic(kind HeuristicKind, g *Game, frozen Bitvector) *Heuristic {
	return newHeuristic(kind, g, frozen, false)
}

// NewPullHeuristic builds a pull-oriented heuristic for reverse search.
func NewPullHeuristic(kind HeuristicKind, g *Game, frozen Bitvector) *Heuristic {
	return newHeuristic(kind, g, frozen, true)
}

func newHeuristic(kind HeuristicKind, g *Game, frozen Bitvector, pull bool) *Heuristic {
	h := &Heuristic{kind: kind, board: g.Board(), frozen: frozen}
	for v := frozen; !v.IsEmpty(); {
		var i BoxIndex
		i, v = v.Next()
		h.frozenAt.Set(g.BoxPos(i))
	}
	if kind == HeuristicNull {
		return h
	}
	goals := h.board.Goals()
	h.goalDist = make([][]uint16, len(goals))
	for i, goal := range goals {
		h.goalDist[i] = make([]uint16, MaxSize*MaxSize)
		for j := range h.goalDist[i] {
			h.goalDist[i][j] = uint16(CostInfinite)
		}
		if h.frozenAt.Get(goal) {
			// Goal covered by a frozen box; never matched.
			continue
		}
		if pull {
			h.bfsPullDistances(goal, h.goalDist[i])
		} else {
			h.bfsPushDistances(goal, h.goalDist[i])
		}
	}
	return h
}

// Frozen returns the frozen set the distance tables were built against.
func (h *Heuristic) Frozen() Bitvector {
	return h.frozen
}

func (h *Heuristic) blocked(p Pos) bool {
	return h.board.Tile(p) == TileWall || h.frozenAt.Get(p)
}

func distIndex(p Pos) int {
	return int(p.Y)*MaxSize + int(p.X)
}

// bfsPushDistances fills dist with the minimum number of pushes needed to
// move a box from each square to the goal, exploring backward from the goal
// with pulls and requiring room for the player at every step.
func (h *Heuristic) bfsPushDistances(goal Pos, dist []uint16) {
	queue := make([]Pos, 0, 256)
	dist[distIndex(goal)] = 0
	queue = append(queue, goal)
	for len(queue) > 0 {
		boxPos := queue[0]
		queue = queue[1:]
		d := dist[distIndex(boxPos)]
		for _, dir := range allDirections {
			newBox, ok := h.board.MovePos(boxPos, dir.Reverse())
			if !ok || h.blocked(newBox) {
				continue
			}
			player, ok := h.board.MovePos(newBox, dir.Reverse())
			if !ok || h.blocked(player) {
				continue
			}
			if dist[distIndex(newBox)] == uint16(CostInfinite) {
				dist[distIndex(newBox)] = d + 1
				queue = append(queue, newBox)
			}
		}
	}
}

// bfsPullDistances fills dist with the minimum number of pulls needed to move
// a box from each square to the goal, exploring backward from the goal with
// pushes.
func (h *Heuristic) bfsPullDistances(goal Pos, dist []uint16) {
	queue := make([]Pos, 0, 256)
	dist[distIndex(goal)] = 0
	queue = append(queue, goal)
	for len(queue) > 0 {
		boxPos := queue[0]
		queue = queue[1:]
		d := dist[distIndex(boxPos)]
		for _, dir := range allDirections {
			newBox, ok := h.board.MovePos(boxPos, dir)
			if !ok || h.blocked(newBox) {
				continue
			}
			player, ok := h.board.MovePos(boxPos, dir.Reverse())
			if !ok || h.blocked(player) {
				continue
			}
			if dist[distIndex(newBox)] == uint16(CostInfinite) {
				dist[distIndex(newBox)] = d + 1
				queue = append(queue, newBox)
			}
		}
	}
}

// Compute returns the heuristic value for the current state. CostInfinite
// signals a state proven unsolvable (including any frozen box off-goal).
func (h *Heuristic) Compute(g *Game) Cost {
	if g.Unsolved().Intersects(h.frozen) {
		return CostInfinite
	}
	if h.kind == HeuristicNull {
		return 0
	}

	boxes, goals := h.activeSets(g)
	if len(boxes) != len(goals) {
		panic(fmt.Sprintf("box/goal mismatch: %d boxes, %d goals", len(boxes), len(goals)))
	}
	if len(boxes) == 0 {
		return 0
	}

	switch h.kind {
	case HeuristicSimple:
		return h.computeSimple(boxes, goals)
	case HeuristicGreedy:
		return h.computeGreedy(boxes, goals)
	default:
		if len(boxes) > hungarianMaxBoxes {
			return h.computeSimple(boxes, goals)
		}
		return h.computeHungarian(boxes, goals)
	}
}

// activeSets returns the positions of non-frozen boxes and the indices of
// goals not covered by frozen boxes.
func (h *Heuristic) activeSets(g *Game) ([]Pos, []int) {
	boxes := make([]Pos, 0, g.BoxCount())
	for i := 0; i < g.BoxCount(); i++ {
		if !h.frozen.Contains(BoxIndex(i)) {
			boxes = append(boxes, g.BoxPos(BoxIndex(i)))
		}
	}
	goals := make([]int, 0, len(h.board.Goals()))
	for i, goal := range h.board.Goals() {
		if !h.frozenAt.Get(goal) {
			goals = append(goals, i)
		}
	}
	return boxes, goals
}

func (h *Heuristic) dist(goalIdx int, boxPos Pos) uint16 {
	return h.goalDist[goalIdx][distIndex(boxPos)]
}

// computeSimple takes the maximum of two relaxations: each box to its nearest
// goal, and each goal to its nearest box. Both are admissible, so their
// maximum is too.
func (h *Heuristic) computeSimple(boxes []Pos, goals []int) Cost {
	boxToGoalTotal := 0
	goalToBox := make([]uint16, len(goals))
	for i := range goalToBox {
		goalToBox[i] = uint16(CostInfinite)
	}

	for _, pos := range boxes {
		boxToGoal := uint16(CostInfinite)
		for gi, goalIdx := range goals {
			d := h.dist(goalIdx, pos)
			if d < boxToGoal {
				boxToGoal = d
			}
			if d < goalToBox[gi] {
				goalToBox[gi] = d
			}
		}
		if boxToGoal == uint16(CostInfinite) {
			return CostInfinite
		}
		boxToGoalTotal += int(boxToGoal)
	}

	goalToBoxTotal := 0
	for _, d := range goalToBox {
		if d == uint16(CostInfinite) {
			return CostInfinite
		}
		goalToBoxTotal += int(d)
	}

	if goalToBoxTotal > boxToGoalTotal {
		return clampCost(goalToBoxTotal)
	}
	return clampCost(boxToGoalTotal)
}

// clampCost keeps finite totals below the infinity sentinel.
func clampCost(total int) Cost {
	if total >= int(CostInfinite) {
		return CostInfinite - 1
	}
	return Cost(total)
}

type distPair struct {
	dist uint16
	box  uint8
	goal uint8
}

// computeGreedy matches boxes to goals greedily in distance order, using a
// counting sort over the pair distances. Fast but not admissible.
func (h *Heuristic) computeGreedy(boxes []Pos, goals []int) Cost {
	pairs := make([]distPair, 0, len(boxes)*len(goals))
	maxDist := 0
	for bi, pos := range boxes {
		for gi, goalIdx := range goals {
			d := h.dist(goalIdx, pos)
			if d < uint16(CostInfinite) {
				pairs = append(pairs, distPair{dist: d, box: uint8(bi), goal: uint8(gi)})
				if int(d) > maxDist {
					maxDist = int(d)
				}
			}
		}
	}
	sorted := countingSortPairs(pairs, maxDist)

	total := 0
	unmatchedBoxes := FullBitvector(len(boxes))
	unmatchedGoals := FullBitvector(len(goals))
	for _, pair := range sorted {
		if unmatchedBoxes.Contains(BoxIndex(pair.box)) && unmatchedGoals.Contains(BoxIndex(pair.goal)) {
			total += int(pair.dist)
			unmatchedBoxes.Remove(BoxIndex(pair.box))
			unmatchedGoals.Remove(BoxIndex(pair.goal))
		}
	}

	// Lower bounds for whatever the greedy pass left unmatched.
	unmatchedBoxTotal := 0
	for v := unmatchedBoxes; !v.IsEmpty(); {
		var bi BoxIndex
		bi, v = v.Next()
		best := uint16(CostInfinite)
		for _, goalIdx := range goals {
			if d := h.dist(goalIdx, boxes[bi]); d < best {
				best = d
			}
		}
		if best == uint16(CostInfinite) {
			return CostInfinite
		}
		unmatchedBoxTotal += int(best)
	}
	unmatchedGoalTotal := 0
	for v := unmatchedGoals; !v.IsEmpty(); {
		var gi BoxIndex
		gi, v = v.Next()
		best := uint16(CostInfinite)
		for _, pos := range boxes {
			if d := h.dist(goals[gi], pos); d < best {
				best = d
			}
		}
		if best == uint16(CostInfinite) {
			return CostInfinite
		}
		unmatchedGoalTotal += int(best)
	}

	if unmatchedGoalTotal > unmatchedBoxTotal {
		total += unmatchedGoalTotal
	} else {
		total += unmatchedBoxTotal
	}
	return clampCost(total)
}

func countingSortPairs(pairs []distPair, maxDist int) []distPair {
	if len(pairs) <= 1 {
		return pairs
	}
	counts := make([]int, maxDist+2)
	for _, p := range pairs {
		counts[int(p.dist)+1]++
	}
	for i := 1; i < len(counts); i++ {
		counts[i] += counts[i-1]
	}
	sorted := make([]distPair, len(pairs))
	for _, p := range pairs {
		sorted[counts[p.dist]] = p
		counts[p.dist]++
	}
	return sorted
}

// computeHungarian computes the exact minimum-cost assignment of boxes to
// goals. Admissible: no box-goal assignment can beat the optimal matching.
func (h *Heuristic) computeHungarian(boxes []Pos, goals []int) Cost {
	const inf = int32(1) << 14

	// A box with no reachable goal (or goal with no reachable box) means the
	// state is unsolvable regardless of matching.
	for _, pos := range boxes {
		reachable := false
		for _, goalIdx := range goals {
			if h.dist(goalIdx, pos) < uint16(CostInfinite) {
				reachable = true
				break
			}
		}
		if !reachable {
			return CostInfinite
		}
	}
	for _, goalIdx := range goals {
		reachable := false
		for _, pos := range boxes {
			if h.dist(goalIdx, pos) < uint16(CostInfinite) {
				reachable = true
				break
			}
		}
		if !reachable {
			return CostInfinite
		}
	}

	total := hungarianCost(len(boxes), func(row, col int) int32 {
		d := h.dist(goals[col], boxes[row])
		if d == uint16(CostInfinite) {
			return inf
		}
		return int32(d)
	})
	if total >= inf {
		return CostInfinite
	}
	return Cost(total)
}
