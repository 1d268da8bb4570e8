package server

import (
	"time"

	"github.com/lox/diceduel/internal/bot"
	"github.com/lox/diceduel/internal/game"
)

// Config holds the match setup every new session starts with
type Config struct {
	Settings game.Settings
	Delays   bot.Delays
	Strategy string
	BotName  string
	// Tick is the frame interval of each session.
	Tick time.Duration
	// Seed makes sessions reproducible. Session n plays with a seed derived
	// from Seed and n. Zero seeds from the wall clock.
	Seed int64
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		Settings: game.DefaultSettings(),
		Delays:   bot.DefaultDelays(),
		Strategy: bot.Greedy,
		BotName:  game.Bot.Label(),
		Tick:     16 * time.Millisecond,
	}
}
