package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	var (
		serve            = flag.Bool("serve", false, "run the solver HTTP service instead of the CLI")
		addr             = flag.String("addr", "", "listen address for -serve (default from config)")
		heuristic        = flag.String("heuristic", "", "heuristic: null, simple, greedy, hungarian")
		direction        = flag.String("direction", "", "search direction: forward, reverse, bidirectional")
		maxNodes         = flag.Int64("max-nodes", 0, "maximum nodes to explore before giving up")
		noFreeze         = flag.Bool("no-freeze-deadlocks", false, "disable freeze deadlock detection")
		noDeadSquares    = flag.Bool("no-dead-squares", false, "disable dead square pruning")
		noPiCorrals      = flag.Bool("no-pi-corrals", false, "disable PI-corral pruning")
		deadlockMaxNodes = flag.Int("deadlock-max-nodes", 0, "corral deadlock search budget")
		printSolution    = flag.Bool("print-solution", false, "print the solution step by step")
		verbose          = flag.Bool("v", false, "enable debug logging")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] FILE LEVEL [LEVEL_END]\n", os.Args[0])
		fmt.Fprintf(flag.CommandLine.Output(), "       %s [flags] -serve [FILE]\n\nFlags:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level)

	config := DefaultConfig()
	if *heuristic != "" {
		config.Heuristic = *heuristic
	}
	if *direction != "" {
		config.Direction = *direction
	}
	if *maxNodes > 0 {
		config.MaxNodes = *maxNodes
	}
	if *noFreeze {
		config.FreezeDeadlocks = false
	}
	if *noDeadSquares {
		config.DeadSquares = false
	}
	if *noPiCorrals {
		config.PiCorrals = false
	}
	if *deadlockMaxNodes > 0 {
		config.DeadlockMaxNodes = *deadlockMaxNodes
	}
	if *addr != "" {
		config.ListenAddr = *addr
	}
	configStore.Update(config)

	if *serve {
		runServer(flag.Args())
		return
	}
	runCLI(flag.Args(), *printSolution)
}

func runServer(args []string) {
	var levels *Levels
	if len(args) > 0 {
		var err error
		levels, err = LoadLevels(args[0])
		if err != nil {
			log.Fatal().Err(err).Msg("loading levels")
		}
	}

	done := make(chan struct{})
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		close(done)
	}()

	service := NewService(levels)
	if err := service.Serve(GetConfig().ListenAddr, done); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

func runCLI(args []string, printSolution bool) {
	if len(args) < 2 || len(args) > 3 {
		flag.Usage()
		os.Exit(2)
	}

	levels, err := LoadLevels(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading levels: %v\n", err)
		os.Exit(1)
	}

	levelStart, err := strconv.Atoi(args[1])
	if err != nil || levelStart < 1 {
		fmt.Fprintln(os.Stderr, "Error: level numbers must be at least 1")
		os.Exit(1)
	}
	levelEnd := levelStart
	if len(args) == 3 {
		levelEnd, err = strconv.Atoi(args[2])
		if err != nil || levelEnd < levelStart {
			fmt.Fprintln(os.Stderr, "Error: level end must be >= level start")
			os.Exit(1)
		}
	}
	if levelEnd > levels.Len() {
		fmt.Fprintf(os.Stderr, "Error: level %d not found (file contains %d levels)\n", levelEnd, levels.Len())
		os.Exit(1)
	}
	if printSolution && levelEnd > levelStart {
		fmt.Fprintln(os.Stderr, "Error: solution printing only supported when solving a single level")
		os.Exit(1)
	}

	opts, err := GetConfig().SolverOptions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var totalSolved, totalSteps int
	var totalNodes, totalElapsedMs int64

	for levelNum := levelStart; levelNum <= levelEnd; levelNum++ {
		board := levels.Get(levelNum - 1)
		solver := NewSolver(board, opts)
		solution := solver.Solve()

		solvedChar := 'N'
		switch solution.Outcome {
		case OutcomeSolved:
			solvedChar = 'Y'
			totalSolved++
		case OutcomeImpossible:
			solvedChar = 'X'
		}
		fmt.Printf("level: %-3d  solved: %c  steps: %-5d  states: %-12d  elapsed: %d ms\n",
			levelNum, solvedChar, solution.Stats.Steps, solution.Stats.Nodes, solution.Stats.ElapsedMs)

		totalSteps += solution.Stats.Steps
		totalNodes += solution.Stats.Nodes
		totalElapsedMs += solution.Stats.ElapsedMs

		if printSolution && solution.Outcome == OutcomeSolved {
			printSolutionSteps(board, solution.Pushes)
		}
	}

	if levelEnd > levelStart {
		fmt.Println("---")
		fmt.Printf("solved: %3d/%-3d        steps: %-5d  states: %-12d  elapsed: %d ms\n",
			totalSolved, levelEnd-levelStart+1, totalSteps, totalNodes, totalElapsedMs)
	}
}

func printSolutionSteps(board *Board, pushes []Move) {
	game := NewGame(board, NewZobrist())
	fmt.Printf("\nStarting position:\n%s", game)
	for i, push := range pushes {
		boxPos := game.BoxPos(push.Box)
		game.Push(push)
		fmt.Printf("Push crate #%d %s %s (%d/%d):\n%s", push.Box+1, boxPos, push.Dir, i+1, len(pushes), game)
	}
}
