package main

import (
	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/lox/diceduel/internal/config"
)

// version is set by ldflags during build
var version = "dev"

// Globals are the flags shared by every command.
type Globals struct {
	Config   string `short:"c" default:"diceduel.hcl" help:"Path to HCL configuration file"`
	LogLevel string `short:"l" help:"Log level (overrides config)"`
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"1" help:"Play against the bot in the terminal"`
	Serve    ServeCmd         `cmd:"" help:"Serve matches over WebSocket"`
	Simulate SimulateCmd      `cmd:"" help:"Run bot-vs-bot matches and report statistics"`
	Score    ScoreCmd         `cmd:"" help:"Score five dice faces"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("diceduel"),
		kong.Description("A push-your-luck dice duel against a bot"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}

// loadConfig loads and validates the configuration file. Configuration
// errors are fatal.
func (g *Globals) loadConfig(logger *log.Logger) *config.Config {
	cfg, err := config.Load(g.Config)
	if err != nil {
		logger.Fatal("Failed to load config", "file", g.Config, "error", err)
	}
	if g.LogLevel != "" {
		cfg.Server.LogLevel = g.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid config", "file", g.Config, "error", err)
	}
	return cfg
}
