package main

import "testing"

func TestFrozenCornerBox(t *testing.T) {
	g := parseGame(t, `
#####
#$ .#
# @ #
#####
`)
	frozen := ComputeFrozenBoxes(g)
	if !frozen.Contains(0) {
		t.Fatalf("corner box should be frozen")
	}
	if !IsFreezeDeadlock(g, frozen) {
		t.Fatalf("frozen box off goal should be a deadlock")
	}
}

func TestFrozenBoxOnGoalIsNotDeadlock(t *testing.T) {
	g := parseGame(t, `
######
#*   #
# $. #
# @  #
######
`)
	frozen := ComputeFrozenBoxes(g)
	if !frozen.Contains(0) {
		t.Fatalf("corner box should be frozen")
	}
	if frozen.Contains(1) {
		t.Fatalf("open box should not be frozen")
	}
	if IsFreezeDeadlock(g, frozen) {
		t.Fatalf("frozen box on goal is not a deadlock")
	}
}

func TestFreeBoxNotFrozen(t *testing.T) {
	g := parseGame(t, `
#####
#   #
# $.#
# @ #
#####
`)
	frozen := ComputeFrozenBoxes(g)
	if !frozen.IsEmpty() {
		t.Fatalf("open box should not be frozen, got %b", frozen)
	}
}

func TestMutuallyFrozenPair(t *testing.T) {
	// Two boxes side by side against the top wall block each other on the
	// horizontal axis and the wall blocks them vertically.
	g := parseGame(t, `
######
#$$  #
#  ..#
# @  #
######
`)
	frozen := ComputeFrozenBoxes(g)
	if !frozen.Contains(0) || !frozen.Contains(1) {
		t.Fatalf("expected both boxes frozen, got %b", frozen)
	}
	if !IsFreezeDeadlock(g, frozen) {
		t.Fatalf("expected freeze deadlock")
	}
}

func TestIncrementalFrozenMatchesFull(t *testing.T) {
	g := parseGame(t, `
#######
#     #
#  $  #
# @  .#
#######
`)
	// After any push, the incremental update anchored at the moved box must
	// agree with the full fixpoint.
	moves := g.ComputePushes().Moves.AppendTo(nil)
	for _, m := range moves {
		u := g.Push(m)
		incremental := ComputeNewFrozenBoxes(0, g, m.Box)
		full := ComputeFrozenBoxes(g)
		if incremental != full {
			t.Fatalf("after %v: incremental %b != full %b", m, incremental, full)
		}
		g.Unpush(u)
	}
}
