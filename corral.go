package main

// CorralAnalyzer detects PI-corral deadlocks. A corral is a connected region
// of squares the player cannot reach; it is a PI-corral when every legal push
// of its boundary boxes both leads into the corral (I) and is one the player
// can actually perform (P). For a PI-corral containing the just-pushed box, a
// bounded local search over just the corral's boxes tries to prove that they
// can never all reach goals, in which case the whole state is dead.
type CorralAnalyzer struct {
	maxNodes int
}

func NewCorralAnalyzer(maxNodes int) *CorralAnalyzer {
	return &CorralAnalyzer{maxNodes: maxNodes}
}

type corral struct {
	region   LazyBitboard
	edge     Bitvector
	interior Bitvector
	// True when the corral contains a box off-goal or an uncovered goal, so
	// that solving the level requires pushes inside it.
	mustBePushed bool
}

// Deadlocked analyzes the state immediately after pushing the given box. The
// player-reachable squares are read from the fill memoized by the push.
func (c *CorralAnalyzer) Deadlocked(g *Game, justPushed BoxIndex) bool {
	squares := g.ReachableSquares()
	boxPos := g.BoxPos(justPushed)
	var visited LazyBitboard

	for _, d := range allDirections {
		seed, ok := g.Board().MovePos(boxPos, d)
		if !ok || g.Board().Tile(seed) == TileWall || g.BoxAt(seed) != NoBox {
			continue
		}
		if squares.Get(seed) || visited.Get(seed) {
			continue
		}
		cor, isPI := c.findCorral(g, seed, squares, &visited)
		if !isPI || !cor.mustBePushed {
			continue
		}
		if !cor.edge.Contains(justPushed) && !cor.interior.Contains(justPushed) {
			continue
		}
		if c.proveDeadlock(g, cor) {
			return true
		}
	}
	return false
}

// findCorral floods the non-reachable region at seed, classifying boxes on
// the way, then checks the PI conditions over the edge boxes.
func (c *CorralAnalyzer) findCorral(g *Game, seed Pos, squares *LazyBitboard, visited *LazyBitboard) (corral, bool) {
	var cor corral
	board := g.Board()
	stack := make([]Pos, 0, 128)

	stack = append(stack, seed)
	cor.region.Set(seed)
	visited.Set(seed)

	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		isGoal := board.Tile(curr) == TileGoal

		if box := g.BoxAt(curr); box != NoBox {
			if !isGoal {
				cor.mustBePushed = true
			}
			if playerAdjacent(g, squares, curr) {
				// Boundary box between the player region and the corral.
				cor.edge.Add(box)
				continue
			}
			cor.interior.Add(box)
		} else if isGoal {
			cor.mustBePushed = true
		}

		for _, d := range allDirections {
			next, ok := board.MovePos(curr, d)
			if !ok || board.Tile(next) == TileWall || cor.region.Get(next) {
				continue
			}
			cor.region.Set(next)
			visited.Set(next)
			stack = append(stack, next)
		}
	}

	// PI conditions: every way an edge box can be pushed must lead into the
	// corral, by a player standing in the reachable region.
	for v := cor.edge; !v.IsEmpty(); {
		var box BoxIndex
		box, v = v.Next()
		boxPos := g.BoxPos(box)
		for _, d := range allDirections {
			next, ok := board.MovePos(boxPos, d)
			stand, ok2 := board.MovePos(boxPos, d.Reverse())
			if !ok || !ok2 {
				continue
			}
			if cor.region.Get(stand) {
				// Push originating inside the corral.
				continue
			}
			if board.Tile(next) == TileWall || g.BoxAt(next) != NoBox {
				continue
			}
			if board.Tile(stand) == TileWall {
				continue
			}
			if board.IsPushDead(next) {
				continue
			}
			if !cor.region.Get(next) {
				return cor, false
			}
			if !squares.Get(stand) {
				return cor, false
			}
		}
	}

	return cor, true
}

func playerAdjacent(g *Game, squares *LazyBitboard, p Pos) bool {
	for _, d := range allDirections {
		if next, ok := g.Board().MovePos(p, d); ok && squares.Get(next) {
			return true
		}
	}
	return false
}

// proveDeadlock runs a DFS over the corral's boxes alone, with the player
// treated as if it could stand anywhere, bounded by maxNodes expansions. The
// corral is proven dead only when the search exhausts every line within the
// budget without solving the subproblem and without any push escaping the
// region; running out of budget proves nothing.
func (c *CorralAnalyzer) proveDeadlock(g *Game, cor corral) bool {
	sub := g.Project(cor.edge.Union(cor.interior))
	board := sub.Board()
	budget := c.maxNodes
	seen := make(map[uint64]struct{}, c.maxNodes)
	solved := false
	escaped := false
	exhausted := false

	var dfs func()
	dfs = func() {
		if solved || escaped {
			return
		}
		if budget <= 0 {
			exhausted = true
			return
		}
		budget--
		if sub.IsSolved() {
			solved = true
			return
		}
		moves := sub.ComputePushes().Moves.AppendTo(nil)
		for _, m := range moves {
			dest, ok := board.MovePos(sub.BoxPos(m.Box), m.Dir)
			if !ok {
				continue
			}
			if !cor.region.Get(dest) {
				escaped = true
				return
			}
			if board.IsPushDead(dest) {
				continue
			}
			u := sub.Push(m)
			if _, dup := seen[sub.BoxesHash()]; dup {
				sub.Unpush(u)
				continue
			}
			seen[sub.BoxesHash()] = struct{}{}
			dfs()
			sub.Unpush(u)
			if solved || escaped {
				return
			}
		}
	}

	seen[sub.BoxesHash()] = struct{}{}
	dfs()
	return !solved && !escaped && !exhausted
}
