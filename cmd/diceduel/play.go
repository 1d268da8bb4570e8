package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lox/diceduel/cmd/diceduel/shared"
	"github.com/lox/diceduel/internal/bot"
	"github.com/lox/diceduel/internal/game"
	"github.com/lox/diceduel/internal/randutil"
	"github.com/lox/diceduel/internal/tui"
)

// PlayCmd runs an interactive match in the terminal
type PlayCmd struct {
	LogFile string `default:"diceduel.log" help:"File to write logs to while the TUI runs"`
	NoColor bool   `help:"Disable colors"`
	Seed    *int64 `help:"Deterministic dice seed (overrides config)"`
}

func (c *PlayCmd) Run(globals *Globals) error {
	logger, closeLog, err := shared.SetupFileLogger(c.LogFile, "info")
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer closeLog()

	cfg := globals.loadConfig(logger)
	logger.SetLevel(mustLevel(cfg.Server.LogLevel))

	settings, _ := cfg.Settings()
	delays, _ := cfg.Delays()
	tick, _ := cfg.TickInterval()

	seed := cfg.Match.Seed
	if c.Seed != nil {
		seed = *c.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Info("Starting interactive match", "seed", seed, "strategy", cfg.Bot.Strategy)

	agent, err := bot.New(cfg.Bot.Strategy, delays, randutil.New(randutil.Derive(seed, 1)), logger)
	if err != nil {
		return err
	}

	if c.NoColor {
		tui.DisableColor()
	}

	model, err := tui.NewTUIModel(settings, tick, [2]string{"", cfg.Bot.Name}, logger,
		game.WithSeed(seed, settings),
		game.WithAgent(game.Bot, agent),
	)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithOutput(os.Stdout))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI failed: %w", err)
	}
	logger.Info("Match closed", "id", model.Match().ID())
	return nil
}
