package main

import "testing"

func TestBitvectorAddContains(t *testing.T) {
	var bv Bitvector
	if bv.Contains(0) || bv.Contains(5) || bv.Contains(63) {
		t.Fatalf("new bitvector should be empty")
	}
	bv.Add(5)
	if bv.Contains(0) || !bv.Contains(5) || bv.Contains(63) {
		t.Fatalf("unexpected contents after adding 5")
	}
	bv.Add(0)
	bv.Add(63)
	if !bv.Contains(0) || !bv.Contains(5) || !bv.Contains(63) {
		t.Fatalf("unexpected contents after adding 0 and 63")
	}
	bv.Remove(5)
	if bv.Contains(5) {
		t.Fatalf("expected 5 removed")
	}
}

func TestBitvectorLen(t *testing.T) {
	var bv Bitvector
	if bv.Len() != 0 {
		t.Fatalf("expected empty length 0, got %d", bv.Len())
	}
	bv.Add(0)
	bv.Add(5)
	bv.Add(63)
	bv.Add(5)
	if bv.Len() != 3 {
		t.Fatalf("expected length 3, got %d", bv.Len())
	}
}

func TestBitvectorNext(t *testing.T) {
	var bv Bitvector
	bv.Add(0)
	bv.Add(5)
	bv.Add(10)
	bv.Add(63)

	var got []BoxIndex
	for v := bv; !v.IsEmpty(); {
		var i BoxIndex
		i, v = v.Next()
		got = append(got, i)
	}
	want := []BoxIndex{0, 5, 10, 63}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestFullBitvector(t *testing.T) {
	if FullBitvector(0).Len() != 0 {
		t.Fatalf("expected empty")
	}
	if FullBitvector(3).Len() != 3 {
		t.Fatalf("expected 3 bits set")
	}
	if !FullBitvector(3).Contains(2) || FullBitvector(3).Contains(3) {
		t.Fatalf("wrong bits set")
	}
	if FullBitvector(64).Len() != 64 {
		t.Fatalf("expected all bits set")
	}
}

func TestRawBitboardInvert(t *testing.T) {
	var b RawBitboard
	b.Set(Pos{X: 1, Y: 1})
	inv := b.Invert(3, 3)
	if inv.Get(Pos{X: 1, Y: 1}) {
		t.Fatalf("set cell should be clear after invert")
	}
	if !inv.Get(Pos{X: 0, Y: 0}) || !inv.Get(Pos{X: 2, Y: 2}) {
		t.Fatalf("clear cells should be set after invert")
	}
	if inv.Get(Pos{X: 3, Y: 0}) || inv.Get(Pos{X: 0, Y: 3}) {
		t.Fatalf("cells outside bounds should stay clear")
	}
}

func TestLazyBitboardTopLeft(t *testing.T) {
	var b LazyBitboard
	if _, ok := b.TopLeft(); ok {
		t.Fatalf("empty board should have no top-left")
	}
	b.Set(Pos{X: 5, Y: 3})
	b.Set(Pos{X: 2, Y: 3})
	b.Set(Pos{X: 7, Y: 5})
	top, ok := b.TopLeft()
	if !ok || top != (Pos{X: 2, Y: 3}) {
		t.Fatalf("expected (2, 3), got %v", top)
	}
	b.Reset()
	if b.Get(Pos{X: 5, Y: 3}) {
		t.Fatalf("reset should clear the board")
	}
}
