package main

import "sync"

type Config struct {
	ListenAddr         string `json:"listen_addr"`
	Heuristic          string `json:"heuristic"`
	Direction          string `json:"direction"`
	MaxNodes           int64  `json:"max_nodes"`
	FreezeDeadlocks    bool   `json:"freeze_deadlocks"`
	DeadSquares        bool   `json:"dead_squares"`
	PiCorrals          bool   `json:"pi_corrals"`
	DeadlockMaxNodes   int    `json:"deadlock_max_nodes"`
	BidirectionalQuota int64  `json:"bidirectional_quota"`
	ProgressInterval   int64  `json:"progress_interval"`
}

type ConfigStore struct {
	mu     sync.RWMutex
	config Config
}

func DefaultConfig() Config {
	return Config{
		ListenAddr: ":8080",

		// Hungarian is the strongest admissible bound; bidirectional trades
		// optimality for solve rate within the node budget.
		Heuristic: "hungarian",
		Direction: "bidirectional",
		MaxNodes:  5_000_000,

		FreezeDeadlocks:  true,
		DeadSquares:      true,
		PiCorrals:        true,
		DeadlockMaxNodes: 20,

		BidirectionalQuota: 1000,
		ProgressInterval:   100_000,
	}
}

var configStore = &ConfigStore{config: DefaultConfig()}

func GetConfig() Config {
	return configStore.Get()
}

func (c *ConfigStore) Get() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

func (c *ConfigStore) Update(newConfig Config) {
	c.mu.Lock()
	c.config = newConfig
	c.mu.Unlock()
}

// SolverOptions translates the configuration into solver options, validating
// the enumerated fields.
func (c Config) SolverOptions() (SolverOptions, error) {
	opts := DefaultSolverOptions()
	heuristic, err := ParseHeuristicKind(c.Heuristic)
	if err != nil {
		return opts, err
	}
	direction, err := ParseSearchDirection(c.Direction)
	if err != nil {
		return opts, err
	}
	opts.Heuristic = heuristic
	opts.Direction = direction
	if c.MaxNodes > 0 {
		opts.MaxNodes = c.MaxNodes
	}
	opts.FreezeDeadlocks = c.FreezeDeadlocks
	opts.DeadSquares = c.DeadSquares
	opts.PICorrals = c.PiCorrals
	if c.DeadlockMaxNodes > 0 {
		opts.DeadlockMaxNodes = c.DeadlockMaxNodes
	}
	if c.BidirectionalQuota > 0 {
		opts.Quota = c.BidirectionalQuota
	}
	if c.ProgressInterval > 0 {
		opts.ProgressInterval = c.ProgressInterval
	}
	return opts, nil
}
