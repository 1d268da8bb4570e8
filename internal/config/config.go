// Package config loads the HCL configuration shared by every diceduel
// command.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/diceduel/internal/bot"
	"github.com/lox/diceduel/internal/game"
)

// Config represents the complete configuration file
type Config struct {
	Match  *MatchConfig  `hcl:"match,block"`
	Dice   *DiceConfig   `hcl:"dice,block"`
	Bot    *BotConfig    `hcl:"bot,block"`
	Server *ServerConfig `hcl:"server,block"`
}

// MatchConfig contains the rules of a match
type MatchConfig struct {
	TargetScore int    `hcl:"target_score,optional"`
	Seed        int64  `hcl:"seed,optional"`
	Tick        string `hcl:"tick,optional"`
}

// DiceConfig contains the dice count and roll timings
type DiceConfig struct {
	Count       int    `hcl:"count,optional"`
	SpinMin     string `hcl:"spin_min,optional"`
	SpinMax     string `hcl:"spin_max,optional"`
	StopStagger string `hcl:"stop_stagger,optional"`
}

// BotConfig defines the opponent
type BotConfig struct {
	Name           string `hcl:"name,optional"`
	Strategy       string `hcl:"strategy,optional"`
	SpinDelay      string `hcl:"spin_delay,optional"`
	AfterSpinDelay string `hcl:"after_spin_delay,optional"`
	RespinDelay    string `hcl:"respin_delay,optional"`
	EndDelay       string `hcl:"end_delay,optional"`
}

// ServerConfig contains server-level configuration
type ServerConfig struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load loads configuration from an HCL file. A missing file yields the
// defaults.
func Load(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source and fills in defaults for anything left out.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	settings := game.DefaultSettings()
	delays := bot.DefaultDelays()

	if c.Match == nil {
		c.Match = &MatchConfig{}
	}
	if c.Match.TargetScore == 0 {
		c.Match.TargetScore = settings.TargetScore
	}
	if c.Match.Tick == "" {
		c.Match.Tick = "16ms"
	}

	if c.Dice == nil {
		c.Dice = &DiceConfig{}
	}
	if c.Dice.Count == 0 {
		c.Dice.Count = settings.DiceCount
	}
	if c.Dice.SpinMin == "" {
		c.Dice.SpinMin = settings.SpinMin.String()
	}
	if c.Dice.SpinMax == "" {
		c.Dice.SpinMax = settings.SpinMax.String()
	}
	if c.Dice.StopStagger == "" {
		c.Dice.StopStagger = settings.StopStagger.String()
	}

	if c.Bot == nil {
		c.Bot = &BotConfig{}
	}
	if c.Bot.Name == "" {
		c.Bot.Name = game.Bot.Label()
	}
	if c.Bot.Strategy == "" {
		c.Bot.Strategy = bot.Greedy
	}
	if c.Bot.SpinDelay == "" {
		c.Bot.SpinDelay = delays.Spin.String()
	}
	if c.Bot.AfterSpinDelay == "" {
		c.Bot.AfterSpinDelay = delays.AfterSpin.String()
	}
	if c.Bot.RespinDelay == "" {
		c.Bot.RespinDelay = delays.ReSpin.String()
	}
	if c.Bot.EndDelay == "" {
		c.Bot.EndDelay = delays.End.String()
	}

	if c.Server == nil {
		c.Server = &ServerConfig{}
	}
	if c.Server.Address == "" {
		c.Server.Address = "localhost"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
}

// Validate validates the configuration. Any error here is fatal at startup.
func (c *Config) Validate() error {
	if _, err := c.Settings(); err != nil {
		return err
	}
	if _, err := c.Delays(); err != nil {
		return err
	}
	tick, err := c.TickInterval()
	if err != nil {
		return err
	}
	if tick <= 0 {
		return fmt.Errorf("match tick must be positive, got %s", tick)
	}
	if !slices.Contains(bot.Strategies, c.Bot.Strategy) {
		return fmt.Errorf("bot %s: invalid strategy %s", c.Bot.Name, c.Bot.Strategy)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if _, err := log.ParseLevel(c.Server.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Server.LogLevel, err)
	}
	return nil
}

// Settings converts the match and dice blocks to game settings.
func (c *Config) Settings() (game.Settings, error) {
	var (
		s   game.Settings
		err error
	)
	s.TargetScore = c.Match.TargetScore
	s.DiceCount = c.Dice.Count
	if s.SpinMin, err = duration("dice.spin_min", c.Dice.SpinMin); err != nil {
		return s, err
	}
	if s.SpinMax, err = duration("dice.spin_max", c.Dice.SpinMax); err != nil {
		return s, err
	}
	if s.StopStagger, err = duration("dice.stop_stagger", c.Dice.StopStagger); err != nil {
		return s, err
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("invalid match settings: %w", err)
	}
	return s, nil
}

// Delays converts the bot block to thinking delays.
func (c *Config) Delays() (bot.Delays, error) {
	var (
		d   bot.Delays
		err error
	)
	if d.Spin, err = duration("bot.spin_delay", c.Bot.SpinDelay); err != nil {
		return d, err
	}
	if d.AfterSpin, err = duration("bot.after_spin_delay", c.Bot.AfterSpinDelay); err != nil {
		return d, err
	}
	if d.ReSpin, err = duration("bot.respin_delay", c.Bot.RespinDelay); err != nil {
		return d, err
	}
	if d.End, err = duration("bot.end_delay", c.Bot.EndDelay); err != nil {
		return d, err
	}
	return d, nil
}

// TickInterval is the frame interval of interactive matches.
func (c *Config) TickInterval() (time.Duration, error) {
	return duration("match.tick", c.Match.Tick)
}

// ServerAddress returns the full server address
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

func duration(field, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: must not be negative, got %s", field, d)
	}
	return d, nil
}
