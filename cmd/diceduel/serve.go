package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/diceduel/cmd/diceduel/shared"
	"github.com/lox/diceduel/internal/server"
)

// ServeCmd serves human-vs-bot matches over WebSocket
type ServeCmd struct {
	Addr string `short:"a" help:"Server address to bind to (overrides config)"`
	Seed *int64 `help:"Deterministic seed for every session (overrides config)"`
}

func (c *ServeCmd) Run(globals *Globals) error {
	logger := shared.SetupLogger(os.Stderr, "info")
	cfg := globals.loadConfig(logger)
	logger.SetLevel(mustLevel(cfg.Server.LogLevel))

	settings, _ := cfg.Settings()
	delays, _ := cfg.Delays()
	tick, _ := cfg.TickInterval()

	serverCfg := server.Config{
		Settings: settings,
		Delays:   delays,
		Strategy: cfg.Bot.Strategy,
		BotName:  cfg.Bot.Name,
		Tick:     tick,
		Seed:     cfg.Match.Seed,
	}
	if c.Seed != nil {
		serverCfg.Seed = *c.Seed
	}

	addr := cfg.ServerAddress()
	if c.Addr != "" {
		addr = c.Addr
	}

	s := server.NewServer(addr, serverCfg, logger)

	logger.Info("Starting diceduel server",
		"address", addr,
		"target", settings.TargetScore,
		"strategy", serverCfg.Strategy,
		"tick", tick,
		"seed", serverCfg.Seed)

	// Setup graceful shutdown
	ctx, cancel := shared.SetupSignalHandler(logger)
	defer cancel()

	serverErr := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Stop(shutdownCtx)
	case err := <-serverErr:
		return err
	}
}

func mustLevel(level string) log.Level {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
