package main

import "testing"

func newTestHeuristic(t *testing.T, kind HeuristicKind, text string) (*Heuristic, *Game) {
	t.Helper()
	g := parseGame(t, text)
	return NewPushHeuristic(kind, g, 0), g
}

func TestSimpleHeuristicSolved(t *testing.T) {
	h, g := newTestHeuristic(t, HeuristicSimple, `
####
#@*#
####
`)
	if cost := h.Compute(g); cost != 0 {
		t.Fatalf("expected cost 0, got %d", cost)
	}
}

func TestSimpleHeuristicOneMove(t *testing.T) {
	h, g := newTestHeuristic(t, HeuristicSimple, `
#####
#@$.#
#####
`)
	if cost := h.Compute(g); cost != 1 {
		t.Fatalf("expected cost 1, got %d", cost)
	}
}

func TestSimpleHeuristicMultipleBoxes(t *testing.T) {
	h, g := newTestHeuristic(t, HeuristicSimple, `
######
#    #
# $$ #
# .. #
#  @ #
######
`)
	if cost := h.Compute(g); cost != 2 {
		t.Fatalf("expected cost 2, got %d", cost)
	}
}

func TestHeuristicUnreachableGoal(t *testing.T) {
	// Wall between box and goal: no push distance exists.
	for _, kind := range []HeuristicKind{HeuristicSimple, HeuristicGreedy, HeuristicHungarian} {
		h, g := newTestHeuristic(t, kind, `
#######
#@$ #.#
#######
`)
		if cost := h.Compute(g); cost != CostInfinite {
			t.Fatalf("%s: expected infinite cost, got %d", kind, cost)
		}
	}
}

func TestHungarianHeuristicExactMatching(t *testing.T) {
	text := `
######
#    #
# $$ #
# .. #
#  @ #
######
`
	hs, g := newTestHeuristic(t, HeuristicSimple, text)
	hh, _ := newTestHeuristic(t, HeuristicHungarian, text)
	simple := hs.Compute(g)
	hungarian := hh.Compute(g)
	if hungarian < simple {
		t.Fatalf("hungarian (%d) should be at least simple (%d)", hungarian, simple)
	}
	if hungarian != 2 {
		t.Fatalf("expected exact matching cost 2, got %d", hungarian)
	}
}

func TestGreedyHeuristicSanity(t *testing.T) {
	h, g := newTestHeuristic(t, HeuristicGreedy, `
######
#    #
# $$ #
# .. #
#  @ #
######
`)
	if cost := h.Compute(g); cost != 2 {
		t.Fatalf("expected cost 2, got %d", cost)
	}
}

func TestNullHeuristic(t *testing.T) {
	h, g := newTestHeuristic(t, HeuristicNull, `
#####
#@$.#
#####
`)
	if cost := h.Compute(g); cost != 0 {
		t.Fatalf("expected cost 0, got %d", cost)
	}
}

func TestHeuristicFrozenBoxesExcluded(t *testing.T) {
	// Box 0 is wedged in the corner on its goal: frozen, and its goal is
	// covered, so the remaining matching covers only box 1.
	g := parseGame(t, `
#####
#*  #
# $.#
# @ #
#####
`)
	frozen := ComputeFrozenBoxes(g)
	if !frozen.Contains(0) {
		t.Fatalf("expected box 0 to be frozen")
	}
	h := NewPushHeuristic(HeuristicHungarian, g, frozen)
	if cost := h.Compute(g); cost != 1 {
		t.Fatalf("expected cost 1 for the single live box, got %d", cost)
	}
}

func TestHeuristicFrozenOffGoalIsInfinite(t *testing.T) {
	g := parseGame(t, `
#####
#$ .#
# @ #
#####
`)
	frozen := ComputeFrozenBoxes(g)
	if !frozen.Contains(0) {
		t.Fatalf("expected corner box to be frozen")
	}
	h := NewPushHeuristic(HeuristicHungarian, g, frozen)
	if cost := h.Compute(g); cost != CostInfinite {
		t.Fatalf("expected infinite cost for frozen off-goal box, got %d", cost)
	}
}

func TestAdmissibleHeuristicsLowerBoundSolutions(t *testing.T) {
	// On a solvable level, the admissible bounds must not exceed the optimal
	// push count found by forward search.
	text := `
####
# .#
#  ###
#*@  #
#  $ #
#  ###
####
`
	board := parseBoard(t, text)
	opts := DefaultSolverOptions()
	opts.Direction = DirectionForward
	solution := NewSolver(board, opts).Solve()
	if solution.Outcome != OutcomeSolved {
		t.Fatalf("expected solved, got %s", solution.Outcome)
	}

	for _, kind := range []HeuristicKind{HeuristicSimple, HeuristicHungarian} {
		h, g := newTestHeuristic(t, kind, text)
		cost := h.Compute(g)
		if int(cost) > len(solution.Pushes) {
			t.Fatalf("%s: bound %d exceeds optimal %d", kind, cost, len(solution.Pushes))
		}
	}
}
