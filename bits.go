package main

import (
	"fmt"
	"math/bits"
)

// Pos is a board coordinate. Boards are at most 64x64, so coordinates fit in
// a byte. Ordering is lexicographic on (Y, X).
type Pos struct {
	X, Y uint8
}

func (p Pos) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Less reports whether p sorts before other in (Y, X) order.
func (p Pos) Less(other Pos) bool {
	if p.Y != other.Y {
		return p.Y < other.Y
	}
	return p.X < other.X
}

// BoxIndex identifies a box. Index assignment is fixed when a game is built.
type BoxIndex uint8

// NoBox marks a cell with no box on it.
const NoBox BoxIndex = 255

// Bitvector is a set over up to 64 box indices.
type Bitvector uint64

func (b Bitvector) Contains(i BoxIndex) bool {
	return b&(1<<uint64(i)) != 0
}

func (b *Bitvector) Add(i BoxIndex) {
	*b |= 1 << uint64(i)
}

func (b *Bitvector) Remove(i BoxIndex) {
	*b &^= 1 << uint64(i)
}

func (b Bitvector) IsEmpty() bool {
	return b == 0
}

func (b Bitvector) Len() int {
	return bits.OnesCount64(uint64(b))
}

func (b Bitvector) Union(other Bitvector) Bitvector {
	return b | other
}

func (b Bitvector) Intersects(other Bitvector) bool {
	return b&other != 0
}

// Next returns the lowest set index and the vector with that index cleared.
// Callers must check IsEmpty first.
func (b Bitvector) Next() (BoxIndex, Bitvector) {
	i := BoxIndex(bits.TrailingZeros64(uint64(b)))
	return i, b & (b - 1)
}

// FullBitvector returns a vector with indices [0, n) set.
func FullBitvector(n int) Bitvector {
	if n >= 64 {
		return Bitvector(^uint64(0))
	}
	return Bitvector(uint64(1)<<uint(n) - 1)
}

// RawBitboard is a dense 64x64 bitboard, one word per row.
type RawBitboard [64]uint64

func (b *RawBitboard) Get(p Pos) bool {
	return b[p.Y]&(1<<uint64(p.X)) != 0
}

func (b *RawBitboard) Set(p Pos) {
	b[p.Y] |= 1 << uint64(p.X)
}

func (b *RawBitboard) Clear(p Pos) {
	b[p.Y] &^= 1 << uint64(p.X)
}

// Invert flips every bit within the given width and height. Cells outside the
// bounds are left unset.
func (b RawBitboard) Invert(width, height int) RawBitboard {
	var result RawBitboard
	rowMask := ^uint64(0)
	if width < 64 {
		rowMask = uint64(1)<<uint(width) - 1
	}
	for y := 0; y < height; y++ {
		result[y] = ^b[y] & rowMask
	}
	return result
}

// LazyBitboard is a 64x64 bitboard which tracks which rows have been written,
// so a fresh value can be reused without zeroing all 64 words.
type LazyBitboard struct {
	rows        [64]uint64
	initialized uint64
}

func (b *LazyBitboard) Get(p Pos) bool {
	if b.initialized&(1<<uint64(p.Y)) == 0 {
		return false
	}
	return b.rows[p.Y]&(1<<uint64(p.X)) != 0
}

func (b *LazyBitboard) Set(p Pos) {
	if b.initialized&(1<<uint64(p.Y)) == 0 {
		b.rows[p.Y] = 0
		b.initialized |= 1 << uint64(p.Y)
	}
	b.rows[p.Y] |= 1 << uint64(p.X)
}

func (b *LazyBitboard) Reset() {
	b.initialized = 0
}

// TopLeft returns the lexicographically smallest set position in (Y, X)
// order, or false if the board is empty.
func (b *LazyBitboard) TopLeft() (Pos, bool) {
	remaining := b.initialized
	for remaining != 0 {
		y := bits.TrailingZeros64(remaining)
		if b.rows[y] != 0 {
			return Pos{X: uint8(bits.TrailingZeros64(b.rows[y])), Y: uint8(y)}, true
		}
		remaining &= remaining - 1
	}
	return Pos{}, false
}
