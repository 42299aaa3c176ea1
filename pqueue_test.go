package main

import "testing"

func TestOpenListOrdering(t *testing.T) {
	var open openList
	open.Push(openItem{f: 10, g: 1})
	open.Push(openItem{f: 5, g: 1})
	open.Push(openItem{f: 15, g: 1})

	wantF := []int{5, 10, 15}
	for _, want := range wantF {
		item, ok := open.PopMin()
		if !ok || item.f != want {
			t.Fatalf("expected f=%d, got %v ok=%v", want, item.f, ok)
		}
	}
	if _, ok := open.PopMin(); ok {
		t.Fatalf("expected empty list")
	}
}

func TestOpenListTieBreaksOnDeeperG(t *testing.T) {
	var open openList
	open.Push(openItem{f: 10, g: 2})
	open.Push(openItem{f: 10, g: 7})
	open.Push(openItem{f: 10, g: 4})

	wantG := []int{7, 4, 2}
	for _, want := range wantG {
		item, ok := open.PopMin()
		if !ok || item.g != want {
			t.Fatalf("expected g=%d, got %v ok=%v", want, item.g, ok)
		}
	}
}

func TestOpenListInterleaved(t *testing.T) {
	var open openList
	open.Push(openItem{f: 100})
	open.Push(openItem{f: 50})
	if item, _ := open.PopMin(); item.f != 50 {
		t.Fatalf("expected 50, got %d", item.f)
	}
	open.Push(openItem{f: 25})
	open.Push(openItem{f: 75})
	for _, want := range []int{25, 75, 100} {
		if item, _ := open.PopMin(); item.f != want {
			t.Fatalf("expected %d, got %d", want, item.f)
		}
	}
}
