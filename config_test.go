package main

import "testing"

func TestDefaultConfigSolverOptions(t *testing.T) {
	opts, err := DefaultConfig().SolverOptions()
	if err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if opts.Heuristic != HeuristicHungarian {
		t.Fatalf("expected hungarian heuristic, got %s", opts.Heuristic)
	}
	if opts.Direction != DirectionBidirectional {
		t.Fatalf("expected bidirectional, got %s", opts.Direction)
	}
	if opts.MaxNodes != 5_000_000 {
		t.Fatalf("expected 5M node budget, got %d", opts.MaxNodes)
	}
	if !opts.FreezeDeadlocks || !opts.DeadSquares || !opts.PICorrals {
		t.Fatalf("expected all pruning enabled by default")
	}
	if opts.DeadlockMaxNodes != 20 {
		t.Fatalf("expected deadlock budget 20, got %d", opts.DeadlockMaxNodes)
	}
}

func TestConfigInvalidHeuristic(t *testing.T) {
	config := DefaultConfig()
	config.Heuristic = "psychic"
	if _, err := config.SolverOptions(); err == nil {
		t.Fatalf("expected error for unknown heuristic")
	}
}

func TestConfigInvalidDirection(t *testing.T) {
	config := DefaultConfig()
	config.Direction = "sideways"
	if _, err := config.SolverOptions(); err == nil {
		t.Fatalf("expected error for unknown direction")
	}
}

func TestConfigStoreUpdate(t *testing.T) {
	store := &ConfigStore{config: DefaultConfig()}
	updated := store.Get()
	updated.MaxNodes = 123
	store.Update(updated)
	if store.Get().MaxNodes != 123 {
		t.Fatalf("update not applied")
	}
}
