package main

import (
	"fmt"
	"strings"
)

// Move pushes (or pulls, in reverse search) the box with the given index one
// cell in the given direction.
type Move struct {
	Box BoxIndex  `json:"box"`
	Dir Direction `json:"direction"`
}

func (m Move) String() string {
	return fmt.Sprintf("#%d %s", m.Box+1, m.Dir)
}

// MoveSet is a bitset over the 4 x MaxBoxes possible moves.
type MoveSet struct {
	dirs [4]Bitvector
}

func (s *MoveSet) Add(b BoxIndex, d Direction) {
	s.dirs[d].Add(b)
}

func (s *MoveSet) Contains(m Move) bool {
	return s.dirs[m.Dir].Contains(m.Box)
}

func (s *MoveSet) Len() int {
	n := 0
	for _, bv := range s.dirs {
		n += bv.Len()
	}
	return n
}

func (s *MoveSet) IsEmpty() bool {
	return s.Boxes().IsEmpty()
}

// Boxes returns the set of boxes with at least one move.
func (s *MoveSet) Boxes() Bitvector {
	return s.dirs[0].Union(s.dirs[1]).Union(s.dirs[2]).Union(s.dirs[3])
}

// AppendTo appends every move in the set to buf in (direction, box) order.
func (s *MoveSet) AppendTo(buf []Move) []Move {
	for di, bv := range s.dirs {
		for v := bv; !v.IsEmpty(); {
			var i BoxIndex
			i, v = v.Next()
			buf = append(buf, Move{Box: i, Dir: Direction(di)})
		}
	}
	return buf
}

// Swapped maps each move to its opposite direction, converting a set of
// pushes into the corresponding pulls and vice versa.
func (s MoveSet) Swapped() MoveSet {
	return MoveSet{dirs: [4]Bitvector{s.dirs[2], s.dirs[3], s.dirs[0], s.dirs[1]}}
}

// ReachableSet is the memoized result of the player flood fill: legal moves,
// the squares the player can reach, and the boxes adjacent to that region.
type ReachableSet struct {
	Moves   MoveSet
	Squares LazyBitboard
	Boxes   Bitvector
}

// Undo restores a game to its pre-move state in O(1).
type Undo struct {
	Move          Move
	PrevPlayer    Pos
	PrevCanonical Pos
	PrevUnknown   bool
	PrevHash      uint64
}

// Checkpoint captures the mutable parts of a game for later restoration.
type Checkpoint struct {
	boxes         []Pos
	player        Pos
	playerUnknown bool
}

// Game is the mutable search state layered over an immutable Board: current
// box positions, the player position with its canonical representative, and
// the incrementally maintained Zobrist hash.
type Game struct {
	board         *Board
	zob           *Zobrist
	boxPos        []Pos
	boxAt         [MaxSize][MaxSize]BoxIndex
	occupied      RawBitboard
	unsolved      Bitvector
	player        Pos
	playerUnknown bool
	canonical     Pos
	boxesHash     uint64
	hash          uint64
	reach         LazyBitboard
}

func NewGame(board *Board, zob *Zobrist) *Game {
	g := &Game{board: board, zob: zob, player: board.PlayerStart()}
	g.initBoxes(board.BoxStarts())
	g.recomputeCanonical()
	g.hash = g.boxesHash ^ g.playerHashKey()
	return g
}

// NewReverseGame builds the synthetic reverse-search root on a swapped board:
// all boxes sit on goals and the player position is unknown. The unknown
// player hashes as its own equivalence class; the first pull replaces it with
// a concrete position.
func NewReverseGame(board *Board, zob *Zobrist) *Game {
	g := &Game{board: board, zob: zob, playerUnknown: true}
	g.initBoxes(board.BoxStarts())
	g.hash = g.boxesHash ^ g.playerHashKey()
	return g
}

func (g *Game) initBoxes(positions []Pos) {
	for y := range g.boxAt {
		for x := range g.boxAt[y] {
			g.boxAt[y][x] = NoBox
		}
	}
	g.boxPos = make([]Pos, 0, len(positions))
	g.occupied = RawBitboard{}
	g.unsolved = 0
	g.boxesHash = 0
	for _, p := range positions {
		g.addBox(p)
	}
}

func (g *Game) addBox(p Pos) {
	idx := BoxIndex(len(g.boxPos))
	g.boxPos = append(g.boxPos, p)
	g.boxAt[p.Y][p.X] = idx
	g.occupied.Set(p)
	if g.board.Tile(p) != TileGoal {
		g.unsolved.Add(idx)
	}
	g.boxesHash ^= g.zob.BoxKey(p)
}

func (g *Game) Board() *Board         { return g.board }
func (g *Game) Hash() uint64          { return g.hash }
func (g *Game) BoxesHash() uint64     { return g.boxesHash }
func (g *Game) BoxCount() int         { return len(g.boxPos) }
func (g *Game) BoxPos(i BoxIndex) Pos { return g.boxPos[i] }
func (g *Game) Player() Pos           { return g.player }
func (g *Game) PlayerUnknown() bool   { return g.playerUnknown }
func (g *Game) Canonical() Pos        { return g.canonical }
func (g *Game) Unsolved() Bitvector   { return g.unsolved }

// BoxAt returns the index of the box at p, or NoBox.
func (g *Game) BoxAt(p Pos) BoxIndex {
	return g.boxAt[p.Y][p.X]
}

func (g *Game) IsSolved() bool {
	return g.unsolved.IsEmpty()
}

func (g *Game) blocked(p Pos) bool {
	return g.board.Tile(p) == TileWall || g.boxAt[p.Y][p.X] != NoBox
}

func (g *Game) playerHashKey() uint64 {
	if g.playerUnknown {
		return g.zob.UnknownPlayerKey()
	}
	return g.zob.PlayerKey(g.canonical)
}

// ReachableSquares returns the player-reachable squares memoized by the most
// recent canonical recomputation. Stale after an undo.
func (g *Game) ReachableSquares() *LazyBitboard {
	return &g.reach
}

func (g *Game) moveBox(i BoxIndex, from, to Pos) {
	g.boxAt[from.Y][from.X] = NoBox
	g.boxAt[to.Y][to.X] = i
	g.occupied.Clear(from)
	g.occupied.Set(to)
	g.boxPos[i] = to
	if g.board.Tile(to) == TileGoal {
		g.unsolved.Remove(i)
	} else {
		g.unsolved.Add(i)
	}
	g.boxesHash ^= g.zob.BoxKey(from) ^ g.zob.BoxKey(to)
}

// recomputeCanonical flood-fills from the real player position and takes the
// lexicographically smallest reachable square. The fill is memoized in
// g.reach for canonicalization-adjacent consumers (corral analysis).
func (g *Game) recomputeCanonical() {
	g.reach.Reset()
	g.playerDFS(g.player, &g.reach, nil)
	canonical, ok := g.reach.TopLeft()
	if !ok {
		panic("player has no reachable squares")
	}
	g.canonical = canonical
}

// playerDFS explores the squares reachable by the player without pushing.
// onBox, if non-nil, is called once per (position, direction) step that runs
// into a box.
func (g *Game) playerDFS(start Pos, visited *LazyBitboard, onBox func(from Pos, d Direction, box BoxIndex)) {
	stack := make([]Pos, 0, 128)
	visited.Set(start)
	stack = append(stack, start)
	for len(stack) > 0 {
		from := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, d := range allDirections {
			to, ok := g.board.MovePos(from, d)
			if !ok || g.board.Tile(to) == TileWall || visited.Get(to) {
				continue
			}
			if box := g.boxAt[to.Y][to.X]; box != NoBox {
				if onBox != nil {
					onBox(from, d, box)
				}
				continue
			}
			visited.Set(to)
			stack = append(stack, to)
		}
	}
}

// ComputePushes generates all legal pushes from the current state. With an
// unknown player every push whose standing square and destination are free is
// legal.
func (g *Game) ComputePushes() *ReachableSet {
	rs := &ReachableSet{}
	if g.playerUnknown {
		for i := range g.boxPos {
			box := BoxIndex(i)
			rs.Boxes.Add(box)
			for _, d := range allDirections {
				to, ok := g.board.MovePos(g.boxPos[i], d)
				stand, ok2 := g.board.MovePos(g.boxPos[i], d.Reverse())
				if ok && ok2 && !g.blocked(to) && !g.blocked(stand) {
					rs.Moves.Add(box, d)
				}
			}
		}
		return rs
	}
	g.playerDFS(g.player, &rs.Squares, func(from Pos, d Direction, box BoxIndex) {
		rs.Boxes.Add(box)
		if to, ok := g.board.MovePos(g.boxPos[box], d); ok && !g.blocked(to) {
			rs.Moves.Add(box, d)
		}
	})
	return rs
}

// ComputePulls generates all legal pulls. A pull of box b in direction d has
// the player standing at b+d and moves both one cell in d.
func (g *Game) ComputePulls() *ReachableSet {
	rs := &ReachableSet{}
	if g.playerUnknown {
		for i := range g.boxPos {
			box := BoxIndex(i)
			rs.Boxes.Add(box)
			for _, d := range allDirections {
				to, ok := g.board.MovePos(g.boxPos[i], d)
				if !ok || g.blocked(to) {
					continue
				}
				playerTo, ok := g.board.MovePos(to, d)
				if ok && !g.blocked(playerTo) {
					rs.Moves.Add(box, d)
				}
			}
		}
		return rs
	}
	g.playerDFS(g.player, &rs.Squares, func(from Pos, d Direction, box BoxIndex) {
		rs.Boxes.Add(box)
		// Player at `from` faces the box along d; the pull direction is the
		// reverse, and the player needs room to step back.
		if back, ok := g.board.MovePos(from, d.Reverse()); ok && !g.blocked(back) {
			rs.Moves.Add(box, d.Reverse())
		}
	})
	return rs
}

// Push applies a push, updating the box array, occupancy, the canonical
// player position, and the Zobrist hash. The returned token reverses all of
// it in O(1).
func (g *Game) Push(m Move) Undo {
	from := g.boxPos[m.Box]
	to, ok := g.board.MovePos(from, m.Dir)
	if !ok || g.blocked(to) {
		panic(fmt.Sprintf("cannot push box %s: destination blocked", from))
	}
	u := Undo{Move: m, PrevPlayer: g.player, PrevCanonical: g.canonical, PrevUnknown: g.playerUnknown, PrevHash: g.hash}
	g.moveBox(m.Box, from, to)
	g.player = from
	g.playerUnknown = false
	g.recomputeCanonical()
	g.hash = g.boxesHash ^ g.playerHashKey()
	return u
}

// Unpush reverses a Push.
func (g *Game) Unpush(u Undo) {
	to := g.boxPos[u.Move.Box]
	from, ok := g.board.MovePos(to, u.Move.Dir.Reverse())
	if !ok {
		panic("unpush source out of bounds")
	}
	g.moveBox(u.Move.Box, to, from)
	g.player = u.PrevPlayer
	g.canonical = u.PrevCanonical
	g.playerUnknown = u.PrevUnknown
	g.hash = u.PrevHash
}

// Pull applies a pull: the box moves one cell in the move direction and the
// player, standing on the destination side, steps one further.
func (g *Game) Pull(m Move) Undo {
	from := g.boxPos[m.Box]
	to, ok := g.board.MovePos(from, m.Dir)
	if !ok || g.blocked(to) {
		panic(fmt.Sprintf("cannot pull box %s: destination blocked", from))
	}
	playerTo, ok := g.board.MovePos(to, m.Dir)
	if !ok || g.blocked(playerTo) {
		panic(fmt.Sprintf("cannot pull box %s: no room for player", from))
	}
	u := Undo{Move: m, PrevPlayer: g.player, PrevCanonical: g.canonical, PrevUnknown: g.playerUnknown, PrevHash: g.hash}
	g.moveBox(m.Box, from, to)
	g.player = playerTo
	g.playerUnknown = false
	g.recomputeCanonical()
	g.hash = g.boxesHash ^ g.playerHashKey()
	return u
}

// Unpull reverses a Pull.
func (g *Game) Unpull(u Undo) {
	to := g.boxPos[u.Move.Box]
	from, ok := g.board.MovePos(to, u.Move.Dir.Reverse())
	if !ok {
		panic("unpull source out of bounds")
	}
	g.moveBox(u.Move.Box, to, from)
	g.player = u.PrevPlayer
	g.canonical = u.PrevCanonical
	g.playerUnknown = u.PrevUnknown
	g.hash = u.PrevHash
}

// Checkpoint captures box positions and the player state.
func (g *Game) Checkpoint() Checkpoint {
	return Checkpoint{
		boxes:         append([]Pos(nil), g.boxPos...),
		player:        g.player,
		playerUnknown: g.playerUnknown,
	}
}

// Restore resets the game to a previously captured checkpoint.
func (g *Game) Restore(c Checkpoint) {
	for _, p := range g.boxPos {
		g.boxAt[p.Y][p.X] = NoBox
		g.occupied.Clear(p)
	}
	g.boxPos = g.boxPos[:0]
	g.unsolved = 0
	g.boxesHash = 0
	for _, p := range c.boxes {
		g.addBox(p)
	}
	g.player = c.player
	g.playerUnknown = c.playerUnknown
	if !g.playerUnknown {
		g.recomputeCanonical()
	}
	g.hash = g.boxesHash ^ g.playerHashKey()
}

// Project returns a copy of the game containing only the boxes in keep, with
// an unknown player. Box indexes are renumbered. Used by the corral
// analyzer's local search.
func (g *Game) Project(keep Bitvector) *Game {
	sub := &Game{board: g.board, zob: g.zob, playerUnknown: true}
	positions := make([]Pos, 0, keep.Len())
	for v := keep; !v.IsEmpty(); {
		var i BoxIndex
		i, v = v.Next()
		positions = append(positions, g.boxPos[i])
	}
	sub.initBoxes(positions)
	sub.hash = sub.boxesHash ^ sub.playerHashKey()
	return sub
}

// String renders the state in XSB format.
func (g *Game) String() string {
	var sb strings.Builder
	for y := 0; y < g.board.Height(); y++ {
		var line strings.Builder
		for x := 0; x < g.board.Width(); x++ {
			p := Pos{X: uint8(x), Y: uint8(y)}
			tile := g.board.Tile(p)
			var ch byte
			switch {
			case !g.playerUnknown && p == g.player:
				if tile == TileGoal {
					ch = '+'
				} else {
					ch = '@'
				}
			case g.boxAt[p.Y][p.X] != NoBox:
				if tile == TileGoal {
					ch = '*'
				} else {
					ch = '$'
				}
			case tile == TileWall:
				ch = '#'
			case tile == TileGoal:
				ch = '.'
			default:
				ch = ' '
			}
			line.WriteByte(ch)
		}
		sb.WriteString(strings.TrimRight(line.String(), " "))
		sb.WriteByte('\n')
	}
	return sb.String()
}
