package simulator

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lox/diceduel/internal/bot"
	"github.com/lox/diceduel/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.WarnLevel})
}

func TestNew_Defaults(t *testing.T) {
	sim := New(Config{Matches: 10})

	assert.Positive(t, sim.config.Workers)
	assert.Equal(t, DefaultMaxTicks, sim.config.MaxTicks)
	assert.Equal(t, [2]string{bot.Greedy, bot.Greedy}, sim.config.Strategies)
	assert.Equal(t, game.DefaultSettings().TargetScore, sim.config.Settings.TargetScore)
	assert.Zero(t, sim.config.Settings.SpinMax, "simulated dice never spin")
	assert.Zero(t, sim.config.Settings.StopStagger)
}

func TestSimulator_RunGreedy(t *testing.T) {
	sim := New(Config{
		Matches:    20,
		Strategies: [2]string{bot.Greedy, bot.Greedy},
		Seed:       12345,
		Workers:    4,
		Logger:     quietLogger(),
	})

	stats, err := sim.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, stats.Validate())

	assert.Equal(t, 20, stats.Matches)
	assert.Equal(t, 20, stats.Sides[game.Human].Wins+stats.Sides[game.Bot].Wins)
	assert.GreaterOrEqual(t, stats.TurnsPerMatch(), 1.0)
	for _, side := range game.Sides {
		assert.Positive(t, stats.Sides[side].Mean(), "greedy banks something on average")
	}
}

func TestSimulator_Deterministic(t *testing.T) {
	run := func(workers int) *Simulator {
		return New(Config{
			Matches:    12,
			Strategies: [2]string{bot.Greedy, bot.Random},
			Seed:       99,
			Workers:    workers,
			Logger:     quietLogger(),
		})
	}

	serial, err := run(1).Run(context.Background())
	require.NoError(t, err)
	parallel, err := run(6).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, serial, parallel, "worker count must not change the results")
}

func TestSimulator_PlayMatchReplays(t *testing.T) {
	sim := New(Config{Matches: 5, Seed: 7, Logger: quietLogger()})

	first, err := sim.PlayMatch(3)
	require.NoError(t, err)
	again, err := sim.PlayMatch(3)
	require.NoError(t, err)

	assert.Equal(t, int64(10), first.Seed)
	assert.Equal(t, first, again)
	assert.GreaterOrEqual(t, first.Balances[first.Winner], game.DefaultSettings().TargetScore)

	banked := [2]int{}
	for _, turn := range first.Turns {
		banked[turn.Side] += turn.Banked
	}
	assert.Equal(t, first.Balances, banked, "balances are the sum of banked turns")
}

func TestSimulator_BankBotAlwaysBanksFirstRoll(t *testing.T) {
	sim := New(Config{
		Matches:    5,
		Strategies: [2]string{bot.Bank, bot.Bank},
		Seed:       1,
		Logger:     quietLogger(),
	})

	stats, err := sim.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Matches)
}

func TestSimulator_TickCap(t *testing.T) {
	sim := New(Config{Matches: 3, MaxTicks: 2, Logger: quietLogger()})

	_, err := sim.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not finish within 2 ticks")
}

func TestSimulator_InvalidConfig(t *testing.T) {
	_, err := New(Config{Matches: 0}).Run(context.Background())
	assert.Error(t, err)

	_, err = New(Config{Matches: 1, Strategies: [2]string{"psychic", ""}}).Run(context.Background())
	assert.Error(t, err)

	settings := game.DefaultSettings()
	settings.TargetScore = -1
	_, err = New(Config{Matches: 1, Settings: settings}).Run(context.Background())
	assert.Error(t, err)
}

func TestSimulator_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Config{Matches: 50, Workers: 1, Logger: quietLogger()}).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunSimulation_Convenience(t *testing.T) {
	stats, err := RunSimulation(context.Background(), 3, [2]string{bot.Greedy, bot.Bank}, 42, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Matches)
}

func TestReport(t *testing.T) {
	sim := New(Config{
		Matches:    4,
		Strategies: [2]string{bot.Greedy, bot.Random},
		Seed:       5,
		Logger:     quietLogger(),
	})
	stats, err := sim.Run(context.Background())
	require.NoError(t, err)

	report := sim.BuildReport(stats)
	assert.Equal(t, 4, report.Matches)
	assert.Equal(t, int64(5), report.Seed)
	require.Contains(t, report.Sides, "human")
	require.Contains(t, report.Sides, "bot")
	assert.Equal(t, bot.Random, report.Sides["bot"].Strategy)
	assert.Equal(t, 4, report.Sides["human"].Wins+report.Sides["bot"].Wins)

	filename := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, WriteReport(filename, report))

	data, err := os.ReadFile(filename)
	require.NoError(t, err)
	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, report.Matches, decoded.Matches)
	assert.Equal(t, report.Sides["human"].Wins, decoded.Sides["human"].Wins)

	var buf bytes.Buffer
	PrintSummary(&buf, stats, [2]string{bot.Greedy, bot.Random})
	out := buf.String()
	assert.Contains(t, out, "FINAL RESULTS: greedy vs random")
	assert.Contains(t, out, "Matches played: 4")
	assert.Contains(t, out, "=== Player (greedy) ===")
	assert.Contains(t, out, "=== Bot (random) ===")
}
