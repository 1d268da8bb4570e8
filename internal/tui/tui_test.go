package tui

import (
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/diceduel/internal/bot"
	"github.com/lox/diceduel/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T, src game.Source, opts ...game.Option) *TUIModel {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel}) // Quiet logger for tests

	opts = append([]game.Option{
		game.WithClock(quartz.NewMock(t)),
		game.WithSource(src),
		game.WithMatchID("tui"),
	}, opts...)
	m, err := NewTUIModel(game.InstantSettings(), 10*time.Millisecond, [2]string{}, logger, opts...)
	require.NoError(t, err)
	return m
}

func press(m *TUIModel, k string) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
	return cmd
}

func tick(m *TUIModel) tea.Cmd {
	_, cmd := m.Update(TickMsg(time.Now()))
	return cmd
}

func TestTUIModel_RollLockAndBank(t *testing.T) {
	m := newTestModel(t, game.NewScriptedSource(1, 2, 3, 3, 6, 1, 1, 1, 1))

	press(m, "r")
	assert.NotNil(t, tick(m), "ticks keep rescheduling")

	human := m.snapshot.Side(game.Human)
	require.Equal(t, game.AfterSpin, human.State)
	assert.Equal(t, 100, human.TurnPoints)
	assert.Equal(t, game.Faces{1, 2, 3, 3, 6}, m.Match().Engine(game.Human).Faces())

	press(m, "1")
	assert.True(t, m.snapshot.Side(game.Human).Dice[0].Locked)

	press(m, "l")
	tick(m)
	human = m.snapshot.Side(game.Human)
	assert.Equal(t, game.End, human.State)
	assert.Equal(t, 4000, human.TurnPoints)

	press(m, "b")
	assert.Equal(t, game.Bot, m.snapshot.Active)
	assert.Equal(t, 4000, m.snapshot.Side(game.Human).Balance)

	lines := m.Log()
	assert.Contains(t, lines, "Player rolled 1 2 3 3 6 for 100")
	assert.Contains(t, lines, "Player locks die 1")
	assert.Contains(t, lines, "Player banks 4000 (total 4000)")
	assert.Equal(t, "Bot's turn", lines[len(lines)-1])
}

func TestTUIModel_IgnoresKeysOutOfTurn(t *testing.T) {
	m := newTestModel(t, game.NewScriptedSource(2, 2, 4, 4, 6))

	press(m, "b")
	assert.Equal(t, game.Human, m.snapshot.Active, "bank before rolling is ignored")
	assert.Empty(t, m.Log())

	press(m, "r")
	tick(m)
	press(m, "b")
	require.Equal(t, game.Bot, m.snapshot.Active)

	press(m, "r")
	assert.False(t, m.Match().Engine(game.Human).Rolling())
	assert.False(t, m.Match().Engine(game.Bot).Rolling(), "keys never drive the bot")
}

func TestTUIModel_WinAndRestart(t *testing.T) {
	m := newTestModel(t, game.NewScriptedSource(6, 6, 6, 6, 6))

	press(m, "r")
	tick(m)
	press(m, "b")

	require.True(t, m.snapshot.GameOver)
	assert.Equal(t, "Player wins! Game Over!", m.snapshot.Status)
	assert.Equal(t, game.Heavy, m.flash)
	assert.Contains(t, m.View(), "Player wins! Game Over!")

	press(m, "n")
	assert.False(t, m.snapshot.GameOver)
	assert.Equal(t, game.Human, m.snapshot.Active)
	assert.Zero(t, m.snapshot.Side(game.Human).Balance)
	assert.Equal(t, "New match", m.Log()[len(m.Log())-1])
}

func TestTUIModel_BotTakesItsTurn(t *testing.T) {
	src := game.NewScriptedSource(2, 2, 4, 4, 6, 1, 1, 5, 2, 3, 2, 6, 6)
	m := newTestModel(t, src, game.WithAgent(game.Bot, bot.NewPolicy(bot.NoDelays(), nil)))

	press(m, "r")
	tick(m)
	press(m, "b")
	for i := 0; i < 20 && m.snapshot.Active == game.Bot; i++ {
		tick(m)
	}
	assert.Equal(t, game.Human, m.snapshot.Active)
	assert.Equal(t, 200, m.snapshot.Side(game.Bot).Balance)
	assert.Contains(t, m.Log(), "Bot banks 200 (total 200)")
}

func TestTUIModel_View(t *testing.T) {
	DisableColor()
	m := newTestModel(t, game.NewScriptedSource(1, 5, 2, 3, 3))
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	view := m.View()
	assert.Contains(t, view, "Dice Duel")
	assert.Contains(t, view, "first to 500")
	assert.Contains(t, view, "roll to start")
	assert.Contains(t, view, "waiting")

	press(m, "r")
	tick(m)
	view = m.View()
	assert.Contains(t, view, "Turn: 150")
	assert.Contains(t, view, "lock dice and re-roll, or bank")

	press(m, "?")
	assert.True(t, m.help.ShowAll)
	assert.Contains(t, m.View(), "new match")
}

func TestTUIModel_Quit(t *testing.T) {
	m := newTestModel(t, game.NewScriptedSource(1))

	assert.NotNil(t, m.Init())
	cmd := press(m, "q")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Empty(t, m.View())
}
