package main

import (
	"fmt"
	"os"
	"time"

	"github.com/lox/diceduel/cmd/diceduel/shared"
	"github.com/lox/diceduel/internal/game"
	"github.com/lox/diceduel/internal/simulator"
)

// SimulateCmd plays bot-vs-bot matches headlessly
type SimulateCmd struct {
	Matches  int    `short:"n" default:"1000" help:"Number of matches to play"`
	Human    string `default:"greedy" enum:"greedy,bank,random" help:"Strategy for the side that moves first"`
	Opponent string `default:"greedy" enum:"greedy,bank,random" help:"Strategy for the second side"`
	Seed     *int64 `help:"Base seed; match i uses seed+i (overrides config)"`
	Workers  int    `short:"w" help:"Parallel workers (defaults to GOMAXPROCS)"`
	MaxTicks int    `default:"100000" help:"Abort a match that needs more frames than this"`
	Report   string `short:"o" help:"Write a JSON report to this file"`
}

func (c *SimulateCmd) Run(globals *Globals) error {
	logger := shared.SetupLogger(os.Stderr, "warn")
	cfg := globals.loadConfig(logger)
	if globals.LogLevel != "" {
		logger.SetLevel(mustLevel(globals.LogLevel))
	}

	settings, _ := cfg.Settings()
	seed := cfg.Match.Seed
	if c.Seed != nil {
		seed = *c.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	strategies := [2]string{}
	strategies[game.Human] = c.Human
	strategies[game.Bot] = c.Opponent

	ctx, cancel := shared.SetupSignalHandler(logger)
	defer cancel()

	sim := simulator.New(simulator.Config{
		Matches:    c.Matches,
		Strategies: strategies,
		Seed:       seed,
		Workers:    c.Workers,
		MaxTicks:   c.MaxTicks,
		Settings:   settings,
		Logger:     logger,
	})

	start := time.Now()
	stats, err := sim.Run(ctx)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}
	logger.Info("Simulation complete", "matches", stats.Matches, "seed", seed, "elapsed", time.Since(start))

	simulator.PrintSummary(os.Stdout, stats, strategies)

	if c.Report != "" {
		if err := simulator.WriteReport(c.Report, sim.BuildReport(stats)); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		fmt.Printf("\nReport written to %s\n", c.Report)
	}
	return nil
}
