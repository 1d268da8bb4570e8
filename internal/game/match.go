package game

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/diceduel/internal/matchid"
)

func errInvalidSide(side Side) error {
	return fmt.Errorf("invalid side %d", int(side))
}

// Match arbitrates between the human and bot turn engines. Human owns the
// first turn. Ownership flips on every bank until a banked total reaches the
// target score.
//
// A Match is not safe for concurrent use: every request and Tick must come
// from the same goroutine.
type Match struct {
	id       string
	settings Settings
	engines  [2]*TurnEngine
	agents   [2]Agent

	active   Side
	gameOver bool
	winner   Side

	clock     quartz.Clock
	bus       EventBus
	feedback  Feedback
	presenter Presenter
	logger    *log.Logger
}

// NewMatch creates a match. Invalid settings are a configuration error.
func NewMatch(settings Settings, opts ...Option) (*Match, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid match settings: %w", err)
	}
	o := resolveOptions(settings, opts)

	id := o.matchID
	if id == "" {
		id = matchid.NewGenerator(o.clock, nil).Next()
	}

	m := &Match{
		id:        id,
		settings:  settings,
		agents:    o.agents,
		active:    Human,
		clock:     o.clock,
		bus:       o.bus,
		feedback:  o.feedback,
		presenter: o.presenter,
		logger:    o.logger.WithPrefix("match").With("match", id),
	}
	for _, side := range Sides {
		m.engines[side] = newTurnEngine(side, settings, m, o)
	}
	return m, nil
}

func (m *Match) ID() string { return m.id }
func (m *Match) Settings() Settings { return m.settings }
func (m *Match) EventBus() EventBus { return m.bus }
func (m *Match) Active() Side { return m.active }
func (m *Match) IsOver() bool { return m.gameOver }
func (m *Match) Clock() quartz.Clock { return m.clock }

// Engine returns the turn engine of side, or nil for an invalid side.
func (m *Match) Engine(side Side) *TurnEngine {
	if !side.Valid() {
		return nil
	}
	return m.engines[side]
}

// Winner returns the winning side once the match is over.
func (m *Match) Winner() (Side, bool) {
	return m.winner, m.gameOver
}

// CanAct reports whether side owns the turn of a running match.
func (m *Match) CanAct(side Side) bool {
	return side.Valid() && !m.gameOver && side == m.active
}

// TurnEnded receives the bank report of side. Reaching the target ends the
// match, otherwise the turn passes to the other side.
func (m *Match) TurnEnded(side Side, balance int) {
	if m.gameOver || !side.Valid() {
		return
	}
	m.logger.Info("Turn ended", "side", side, "balance", balance)
	if balance >= m.settings.TargetScore {
		m.finish(side)
		return
	}
	m.active = side.Other()
	trigger(m.feedback, m.logger, Light)
	publish(m.bus, m.logger, TurnChangedEvent{Side: m.active, timestamp: m.clock.Now()})
}

// RequestRoll asks side's engine to roll.
func (m *Match) RequestRoll(side Side) bool {
	if e := m.Engine(side); e != nil {
		return e.Roll()
	}
	return false
}

// RequestRollLocked asks side's engine to re-roll its unlocked dice.
func (m *Match) RequestRollLocked(side Side) bool {
	if e := m.Engine(side); e != nil {
		return e.RollLocked()
	}
	return false
}

// ToggleLock asks side's engine to flip the lock on die.
func (m *Match) ToggleLock(side Side, die int) bool {
	if e := m.Engine(side); e != nil {
		return e.ToggleLock(die)
	}
	return false
}

// RequestBank asks side's engine to bank.
func (m *Match) RequestBank(side Side) bool {
	if e := m.Engine(side); e != nil {
		return e.Bank()
	}
	return false
}

// Restart clears the result, gives the turn to Human and restarts both
// engines and agents.
func (m *Match) Restart() {
	m.gameOver = false
	m.winner = Human
	m.active = Human
	for _, side := range Sides {
		m.engines[side].Restart()
		if r, ok := m.agents[side].(Resetter); ok {
			r.Reset()
		}
	}
	m.logger.Info("Match restarted")
	trigger(m.feedback, m.logger, Heavy)
	publish(m.bus, m.logger, MatchRestartedEvent{MatchID: m.id, timestamp: m.clock.Now()})
}

// Tick advances one frame: dice stop when due, agents get to act, the
// balances are re-checked against the target and the presenter receives a
// snapshot.
func (m *Match) Tick() {
	now := m.clock.Now()
	for _, e := range m.engines {
		e.Update(now)
	}

	if !m.gameOver {
		for _, side := range Sides {
			m.consult(side)
		}
	}

	m.checkBalances()
	m.present()
}

// consult polls the agent of side and applies its decision.
func (m *Match) consult(side Side) {
	agent := m.agents[side]
	if agent == nil {
		return
	}
	e := m.engines[side]
	decision, ok := agent.Decide(e.View(), m.clock.Now())
	if !ok {
		return
	}
	m.logger.Debug("Agent decision", "side", side, "action", decision.Action, "dice", decision.Dice, "reasoning", decision.Reasoning)

	switch decision.Action {
	case ActionRoll:
		e.Roll()
	case ActionLock:
		want := [DiceCount]bool{}
		for _, i := range decision.Dice {
			if i >= 0 && i < DiceCount {
				want[i] = true
			}
		}
		locked := e.Locked()
		for i := range want {
			if locked[i] != want[i] {
				e.ToggleLock(i)
			}
		}
	case ActionRollLocked:
		e.RollLocked()
	case ActionBank:
		e.Bank()
	}
}

// checkBalances catches any balance at or above the target that did not come
// through TurnEnded.
func (m *Match) checkBalances() {
	if m.gameOver {
		return
	}
	for _, side := range Sides {
		if m.engines[side].Balance() >= m.settings.TargetScore {
			m.logger.Warn("Target reached outside of a turn report", "side", side)
			m.finish(side)
			return
		}
	}
}

func (m *Match) finish(winner Side) {
	m.gameOver = true
	m.winner = winner
	for _, e := range m.engines {
		e.Halt()
	}
	balances := [2]int{m.engines[Human].Balance(), m.engines[Bot].Balance()}
	m.logger.Info("Match over", "winner", winner, "human", balances[Human], "bot", balances[Bot])
	trigger(m.feedback, m.logger, Heavy)
	publish(m.bus, m.logger, MatchOverEvent{
		Winner:    winner,
		Balances:  balances,
		timestamp: m.clock.Now(),
	})
}

// Status is the one-line match status shown to players.
func (m *Match) Status() string {
	if m.gameOver {
		return fmt.Sprintf("%s wins! Game Over!", m.winner.Label())
	}
	return fmt.Sprintf("%s's Turn", m.active.Label())
}

// Snapshot projects the whole match for presentation.
func (m *Match) Snapshot() Snapshot {
	s := Snapshot{
		MatchID:  m.id,
		Target:   m.settings.TargetScore,
		Active:   m.active,
		GameOver: m.gameOver,
		Status:   m.Status(),
	}
	if m.gameOver {
		s.Winner = m.winner.String()
	}
	for _, side := range Sides {
		s.Sides[side] = m.engines[side].Snapshot()
	}
	return s
}

func (m *Match) present() {
	if m.presenter == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			m.logger.Warn("Presenter panicked", "panic", fmt.Sprint(r))
		}
	}()
	m.presenter.Present(m.Snapshot())
}
