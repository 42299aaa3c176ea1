package main

import (
	"fmt"
	"strings"
)

// MaxSize is the maximum board width and height.
const MaxSize = 64

// MaxBoxes is the maximum number of boxes on a board.
const MaxBoxes = 64

type Tile uint8

const (
	TileFloor Tile = iota
	TileWall
	TileGoal
)

type Direction uint8

const (
	North Direction = iota
	East
	South
	West
)

var allDirections = [4]Direction{North, East, South, West}

func (d Direction) Reverse() Direction {
	return d ^ 2
}

func (d Direction) Delta() (int8, int8) {
	switch d {
	case North:
		return 0, -1
	case East:
		return 1, 0
	case South:
		return 0, 1
	default:
		return -1, 0
	}
}

func (d Direction) String() string {
	switch d {
	case North:
		return "North"
	case East:
		return "East"
	case South:
		return "South"
	default:
		return "West"
	}
}

// Board is the static geometry of a level: tiles, goals, the starting player
// position and box positions, and the precomputed dead-square masks. Boards
// are immutable after construction.
type Board struct {
	width, height uint8
	tiles         [MaxSize][MaxSize]Tile
	playerStart   Pos
	boxStarts     []Pos
	goals         []Pos
	pushDead      RawBitboard
	pullDead      RawBitboard
}

// ParseBoard parses a single level in XSB format:
//
//	# wall, space floor, . goal, $ box, * box on goal, @ player, + player on goal
func ParseBoard(text string) (*Board, error) {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) == 0 || (len(lines) == 1 && lines[0] == "") {
		return nil, fmt.Errorf("empty board")
	}

	height := len(lines)
	width := 0
	for _, line := range lines {
		if len(line) > width {
			width = len(line)
		}
	}
	if width > MaxSize {
		return nil, fmt.Errorf("board width %d exceeds maximum size %d", width, MaxSize)
	}
	if height > MaxSize {
		return nil, fmt.Errorf("board height %d exceeds maximum size %d", height, MaxSize)
	}

	b := &Board{width: uint8(width), height: uint8(height)}
	havePlayer := false

	for y, line := range lines {
		for x, ch := range line {
			pos := Pos{X: uint8(x), Y: uint8(y)}
			switch ch {
			case '#':
				b.tiles[y][x] = TileWall
			case ' ', '-', '_':
				b.tiles[y][x] = TileFloor
			case '.':
				b.tiles[y][x] = TileGoal
				b.goals = append(b.goals, pos)
			case '$':
				b.tiles[y][x] = TileFloor
				b.boxStarts = append(b.boxStarts, pos)
			case '*':
				b.tiles[y][x] = TileGoal
				b.goals = append(b.goals, pos)
				b.boxStarts = append(b.boxStarts, pos)
			case '@':
				b.tiles[y][x] = TileFloor
				if havePlayer {
					return nil, fmt.Errorf("multiple players found")
				}
				b.playerStart = pos
				havePlayer = true
			case '+':
				b.tiles[y][x] = TileGoal
				b.goals = append(b.goals, pos)
				if havePlayer {
					return nil, fmt.Errorf("multiple players found")
				}
				b.playerStart = pos
				havePlayer = true
			default:
				return nil, fmt.Errorf("invalid character %q at position (%d, %d)", ch, x, y)
			}
		}
	}

	if !havePlayer {
		return nil, fmt.Errorf("no player found on board")
	}
	if len(b.goals) != len(b.boxStarts) {
		return nil, fmt.Errorf("goal count (%d) does not match box count (%d)", len(b.goals), len(b.boxStarts))
	}
	if len(b.boxStarts) > MaxBoxes {
		return nil, fmt.Errorf("box count %d exceeds maximum %d", len(b.boxStarts), MaxBoxes)
	}

	b.computeDeadSquares()
	return b, nil
}

func (b *Board) Width() int  { return int(b.width) }
func (b *Board) Height() int { return int(b.height) }

func (b *Board) Tile(p Pos) Tile {
	return b.tiles[p.Y][p.X]
}

func (b *Board) PlayerStart() Pos { return b.playerStart }
func (b *Board) BoxStarts() []Pos { return b.boxStarts }
func (b *Board) Goals() []Pos     { return b.goals }
func (b *Board) BoxCount() int    { return len(b.boxStarts) }

// MovePos moves one cell in the given direction, reporting false when the
// result is off the board.
func (b *Board) MovePos(p Pos, d Direction) (Pos, bool) {
	dx, dy := d.Delta()
	nx := int(p.X) + int(dx)
	ny := int(p.Y) + int(dy)
	if nx < 0 || ny < 0 || nx >= int(b.width) || ny >= int(b.height) {
		return Pos{}, false
	}
	return Pos{X: uint8(nx), Y: uint8(ny)}, true
}

func (b *Board) IsPushDead(p Pos) bool {
	return b.pushDead.Get(p)
}

func (b *Board) IsPullDead(p Pos) bool {
	return b.pullDead.Get(p)
}

// computeDeadSquares marks squares from which a box can never reach any goal.
// The push mask comes from backward reachability (pulls from each goal); the
// pull mask from forward reachability (pushes from each goal). Other boxes
// are ignored; only walls constrain the player.
func (b *Board) computeDeadSquares() {
	var pushReachable, pullReachable RawBitboard
	for _, goal := range b.goals {
		b.dfsPushReachable(goal, &pushReachable)
		b.dfsPullReachable(goal, &pullReachable)
	}
	b.pushDead = pushReachable.Invert(int(b.width), int(b.height))
	b.pullDead = pullReachable.Invert(int(b.width), int(b.height))
}

// dfs explores non-wall positions from start. shouldVisit decides whether the
// step from one position to the next is allowed.
func (b *Board) dfs(start Pos, visited *RawBitboard, shouldVisit func(from, to Pos, d Direction) bool) {
	if b.Tile(start) == TileWall {
		panic("dfs start position cannot be a wall")
	}
	stack := make([]Pos, 0, MaxSize*4)
	visited.Set(start)
	stack = append(stack, start)
	for len(stack) > 0 {
		from := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, d := range allDirections {
			to, ok := b.MovePos(from, d)
			if !ok || b.Tile(to) == TileWall || visited.Get(to) {
				continue
			}
			if shouldVisit(from, to, d) {
				visited.Set(to)
				stack = append(stack, to)
			}
		}
	}
}

// dfsPushReachable marks squares from which a box could be pushed to start.
// Exploration runs backward from the goal; each step requires room for the
// player behind the box.
func (b *Board) dfsPushReachable(start Pos, reachable *RawBitboard) {
	if reachable.Get(start) {
		return
	}
	b.dfs(start, reachable, func(from, to Pos, d Direction) bool {
		player, ok := b.MovePos(to, d)
		return ok && b.Tile(player) != TileWall
	})
}

// dfsPullReachable marks squares from which a box could be pulled to start.
func (b *Board) dfsPullReachable(start Pos, reachable *RawBitboard) {
	if reachable.Get(start) {
		return
	}
	b.dfs(start, reachable, func(from, to Pos, d Direction) bool {
		player, ok := b.MovePos(from, d.Reverse())
		return ok && b.Tile(player) != TileWall
	})
}

// SwapBoxesAndGoals builds the board used as the reverse-search root: boxes
// start on the original goals, and the original box positions become the
// goals. Dead-square masks are recomputed for the new goal set.
func (b *Board) SwapBoxesAndGoals() *Board {
	swapped := &Board{
		width:       b.width,
		height:      b.height,
		tiles:       b.tiles,
		playerStart: b.playerStart,
		boxStarts:   append([]Pos(nil), b.goals...),
		goals:       append([]Pos(nil), b.boxStarts...),
	}
	for _, oldGoal := range b.goals {
		swapped.tiles[oldGoal.Y][oldGoal.X] = TileFloor
	}
	for _, newGoal := range swapped.goals {
		swapped.tiles[newGoal.Y][newGoal.X] = TileGoal
	}
	swapped.computeDeadSquares()
	return swapped
}
