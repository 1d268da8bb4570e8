package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lox/diceduel/internal/bot"
	"github.com/lox/diceduel/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	settings, err := c.Settings()
	require.NoError(t, err)
	assert.Equal(t, game.DefaultSettings(), settings)

	delays, err := c.Delays()
	require.NoError(t, err)
	assert.Equal(t, bot.DefaultDelays(), delays)

	assert.Equal(t, "localhost:8080", c.ServerAddress())
	assert.Equal(t, bot.Greedy, c.Bot.Strategy)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diceduel.hcl")
	src := `
match {
  target_score = 1000
  seed         = 42
  tick         = "10ms"
}

dice {
  spin_min     = "500ms"
  spin_max     = "750ms"
  stop_stagger = "0s"
}

bot {
  name       = "Robo"
  strategy   = "bank"
  spin_delay = "1s"
}

server {
  port      = 9090
  log_level = "debug"
}
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	settings, err := c.Settings()
	require.NoError(t, err)
	assert.Equal(t, 1000, settings.TargetScore)
	assert.Equal(t, 500*time.Millisecond, settings.SpinMin)
	assert.Equal(t, 750*time.Millisecond, settings.SpinMax)
	assert.Zero(t, settings.StopStagger)
	assert.Equal(t, int64(42), c.Match.Seed)

	tick, err := c.TickInterval()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Millisecond, tick)

	delays, err := c.Delays()
	require.NoError(t, err)
	assert.Equal(t, time.Second, delays.Spin)
	assert.Equal(t, bot.DefaultDelays().AfterSpin, delays.AfterSpin)

	assert.Equal(t, "Robo", c.Bot.Name)
	assert.Equal(t, "localhost:9090", c.ServerAddress())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"six dice", `dice { count = 6 }`},
		{"bad duration", `dice { spin_min = "soon" }`},
		{"min above max", `dice {
  spin_min = "3s"
  spin_max = "1s"
}`},
		{"negative delay", `bot { end_delay = "-1s" }`},
		{"unknown strategy", `bot { strategy = "psychic" }`},
		{"bad port", `server { port = 70000 }`},
		{"bad log level", `server { log_level = "loud" }`},
		{"zero tick", `match { tick = "0s" }`},
		{"negative target", `match { target_score = -5 }`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse([]byte(tt.src), "test.hcl")
			require.NoError(t, err)
			assert.Error(t, c.Validate())
		})
	}
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte(`match {`), "broken.hcl")
	assert.Error(t, err)

	_, err = Parse([]byte(`unknown { a = 1 }`), "extra.hcl")
	assert.Error(t, err)

	_, err = Parse([]byte(`match { target_score = "lots" }`), "type.hcl")
	assert.Error(t, err)
}
