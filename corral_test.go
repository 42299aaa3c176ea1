package main

import "testing"

func findCorralAt(t *testing.T, g *Game, seed Pos) (corral, bool) {
	t.Helper()
	squares := g.ReachableSquares()
	if squares.Get(seed) {
		t.Fatalf("seed %v is player-reachable, not a corral cell", seed)
	}
	var visited LazyBitboard
	analyzer := NewCorralAnalyzer(20)
	return analyzer.findCorral(g, seed, squares, &visited)
}

func TestCorralNotPI(t *testing.T) {
	// The corral on the left has boundary boxes that can be pushed along its
	// edge rather than into it, so the I condition fails.
	g := parseGame(t, `
########
#  $  .#
#   $@.#
#  $  .#
####   #
   # $.#
   #####
`)
	if _, isPI := findCorralAt(t, g, Pos{X: 3, Y: 2}); isPI {
		t.Fatalf("expected corral to fail the PI conditions")
	}
}

func TestCorralPI(t *testing.T) {
	// Same layout with a wall plugging the escape route: every push of the
	// boundary boxes now leads into the corral.
	g := parseGame(t, `
########
#  $  .#
#   $@.#
#  $# .#
####   #
   # $.#
   #####
`)
	cor, isPI := findCorralAt(t, g, Pos{X: 3, Y: 2})
	if !isPI {
		t.Fatalf("expected a PI-corral")
	}
	if !cor.mustBePushed {
		t.Fatalf("corral with boxes off goals must require pushes")
	}
	if !cor.edge.Contains(0) || !cor.edge.Contains(1) {
		t.Fatalf("expected boxes 0 and 1 on the corral boundary, got edge %b", cor.edge)
	}
}

func TestCorralOpenPositionNotDeadlocked(t *testing.T) {
	// Boxes one push from their goals: the local search solves the corral
	// subproblem immediately, so no deadlock is reported.
	g := parseGame(t, `
#######
#.$ @ #
#.$   #
####  #
#######
`)
	analyzer := NewCorralAnalyzer(20)
	for i := 0; i < g.BoxCount(); i++ {
		if analyzer.Deadlocked(g, BoxIndex(i)) {
			t.Fatalf("solvable corral flagged as deadlocked (box %d)", i)
		}
	}
}

func TestCorralDeadlockDoesNotBreakSolvableLevels(t *testing.T) {
	// With PI-corral pruning enabled, solvable levels must stay solvable:
	// the analyzer may prune only states that cannot lead to a solution.
	boards := []string{
		"#####\n#@$.#\n#####",
		"######\n#@$ .#\n######",
		"####\n# .#\n#  ###\n#*@  #\n#  $ #\n#  ###\n####",
	}
	for _, text := range boards {
		board := parseBoard(t, text)
		opts := DefaultSolverOptions()
		opts.Direction = DirectionForward
		opts.PICorrals = true
		solution := NewSolver(board, opts).Solve()
		if solution.Outcome != OutcomeSolved {
			t.Fatalf("level not solved with corral pruning enabled:\n%s", text)
		}
	}
}

func TestCorralLocalSearchBudget(t *testing.T) {
	// A zero-budget analyzer can never prove anything dead.
	g := parseGame(t, `
#######
#.$ @ #
#.$   #
####  #
#######
`)
	analyzer := NewCorralAnalyzer(0)
	for i := 0; i < g.BoxCount(); i++ {
		if analyzer.Deadlocked(g, BoxIndex(i)) {
			t.Fatalf("zero-budget analyzer must not report deadlocks")
		}
	}
}
