package game

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// TurnEngine runs the turns of one side.
//
// Spin --roll--> AfterSpin --rollLocked--> ReSpin --> End
// AfterSpin and End return to Spin on bank. Every action is ignored unless
// the arbiter grants the side the turn and no roll is in progress.
type TurnEngine struct {
	side     Side
	settings Settings
	arbiter  Arbiter
	clock    quartz.Clock
	source   Source
	bus      EventBus
	feedback Feedback
	logger   *log.Logger

	state      TurnState
	dice       Dice
	score      Score
	turnPoints int
	balance    int
	spinning   bool // at most one roll sequence at a time
	halted     bool
}

// NewTurnEngine creates the engine for side. The arbiter is consulted before
// every action and receives the balance on every bank.
func NewTurnEngine(side Side, settings Settings, arbiter Arbiter, opts ...Option) (*TurnEngine, error) {
	if !side.Valid() {
		return nil, errInvalidSide(side)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	o := resolveOptions(settings, opts)
	return newTurnEngine(side, settings, arbiter, o), nil
}

func newTurnEngine(side Side, settings Settings, arbiter Arbiter, o *options) *TurnEngine {
	return &TurnEngine{
		side:     side,
		settings: settings,
		arbiter:  arbiter,
		clock:    o.clock,
		source:   o.source,
		bus:      o.bus,
		feedback: o.feedback,
		logger:   o.logger.WithPrefix("turn").With("side", side),
		state:    Spin,
	}
}

func (e *TurnEngine) Side() Side { return e.side }
func (e *TurnEngine) State() TurnState { return e.state }
func (e *TurnEngine) TurnPoints() int { return e.turnPoints }
func (e *TurnEngine) Balance() int { return e.balance }
func (e *TurnEngine) Score() Score { return e.score }
func (e *TurnEngine) Faces() Faces { return e.dice.Faces() }
func (e *TurnEngine) Locked() [DiceCount]bool { return e.dice.Locked() }

// Rolling reports whether a roll sequence is in progress.
func (e *TurnEngine) Rolling() bool { return e.spinning }

// CanAct reports whether the side currently owns the turn.
func (e *TurnEngine) CanAct() bool {
	return !e.halted && e.arbiter != nil && e.arbiter.CanAct(e.side)
}

// Roll starts the first roll of a turn. Only valid in Spin.
func (e *TurnEngine) Roll() bool {
	if e.state != Spin || e.spinning || !e.CanAct() {
		e.ignore("roll")
		return false
	}
	e.turnPoints = 0
	e.score = Score{}
	e.startRoll(false)
	return true
}

// RollLocked re-rolls the unlocked dice. Valid in AfterSpin with at least
// one die locked.
func (e *TurnEngine) RollLocked() bool {
	if e.state != AfterSpin || e.spinning || !e.dice.AnyLocked() || !e.CanAct() {
		e.ignore("roll_locked")
		return false
	}
	e.state = ReSpin
	e.startRoll(true)
	return true
}

// ToggleLock flips the lock on die i. Valid in AfterSpin.
func (e *TurnEngine) ToggleLock(i int) bool {
	if e.state != AfterSpin || e.spinning || !e.CanAct() || !e.dice.Toggle(i) {
		e.ignore("toggle_lock")
		return false
	}
	locked := e.dice.Locked()[i]
	trigger(e.feedback, e.logger, Light)
	e.logger.Debug("Lock toggled", "die", i, "locked", locked)
	publish(e.bus, e.logger, LockToggledEvent{
		Side:      e.side,
		Die:       i,
		Locked:    locked,
		timestamp: e.clock.Now(),
	})
	return true
}

// Bank adds the turn points to the balance, ends the turn and reports the
// new balance to the arbiter. Valid in AfterSpin and End.
func (e *TurnEngine) Bank() bool {
	if (e.state != AfterSpin && e.state != End) || e.spinning || !e.CanAct() {
		e.ignore("bank")
		return false
	}
	banked := e.turnPoints
	e.balance += banked
	e.turnPoints = 0
	e.score = Score{}
	e.dice.Unlock()
	e.state = Spin

	trigger(e.feedback, e.logger, Medium)
	e.logger.Debug("Turn banked", "banked", banked, "balance", e.balance)
	publish(e.bus, e.logger, TurnEndedEvent{
		Side:      e.side,
		Banked:    banked,
		Balance:   e.balance,
		timestamp: e.clock.Now(),
	})
	e.arbiter.TurnEnded(e.side, e.balance)
	return true
}

// Update stops the dice whose spin time has elapsed and resolves the roll
// once all of them have stopped.
func (e *TurnEngine) Update(now time.Time) {
	if !e.spinning {
		return
	}
	for range e.dice.Advance(now, e.source) {
		trigger(e.feedback, e.logger, Light)
	}
	if e.dice.Rolling() {
		return
	}
	e.spinning = false
	if e.halted {
		e.logger.Debug("Discarding roll resolved after halt")
		return
	}
	e.resolve(now)
}

// Halt stops the engine from starting new rolls. A roll already in progress
// still runs its dice to a stop, but its result is discarded.
func (e *TurnEngine) Halt() {
	e.halted = true
}

// Halted reports whether Halt was called since the last restart.
func (e *TurnEngine) Halted() bool { return e.halted }

// Restart zeroes every field and returns the engine to Spin.
func (e *TurnEngine) Restart() {
	e.state = Spin
	e.dice.Reset()
	e.score = Score{}
	e.turnPoints = 0
	e.balance = 0
	e.spinning = false
	e.halted = false
}

// View returns the state an agent may observe.
func (e *TurnEngine) View() TurnView {
	return TurnView{
		Side:       e.side,
		State:      e.state,
		Faces:      e.dice.Faces(),
		Locked:     e.dice.Locked(),
		Rolling:    e.spinning,
		TurnPoints: e.turnPoints,
		Balance:    e.balance,
		CanAct:     e.CanAct(),
	}
}

// Snapshot returns the presentation projection of the engine.
func (e *TurnEngine) Snapshot() SideSnapshot {
	return SideSnapshot{
		Side:        e.side,
		State:       e.state,
		Dice:        e.dice.View(),
		TurnPoints:  e.turnPoints,
		Balance:     e.balance,
		Highlighted: e.score.Highlighted,
		Rolling:     e.spinning,
		CanAct:      e.CanAct(),
	}
}

func (e *TurnEngine) startRoll(respin bool) {
	e.spinning = true
	n := e.dice.Start(e.clock.Now(), e.source, e.settings.StopStagger)
	trigger(e.feedback, e.logger, Light)
	e.logger.Debug("Roll started", "respin", respin, "dice", n)
	publish(e.bus, e.logger, RollStartedEvent{
		Side:      e.side,
		Respin:    respin,
		Rolling:   n,
		timestamp: e.clock.Now(),
	})
}

func (e *TurnEngine) resolve(now time.Time) {
	faces := e.dice.Faces()
	e.score = Evaluate(faces)
	e.turnPoints = e.score.Reward
	if e.state == ReSpin {
		e.state = End
	} else {
		e.state = AfterSpin
	}
	e.logger.Debug("Roll resolved", "faces", faces, "reward", e.score.Reward, "highlighted", e.score.Highlighted, "state", e.state)
	publish(e.bus, e.logger, RollResolvedEvent{
		Side:      e.side,
		Faces:     faces,
		Score:     e.score,
		State:     e.state,
		timestamp: now,
	})
}

func (e *TurnEngine) ignore(action string) {
	e.logger.Debug("Ignoring action", "action", action, "state", e.state, "rolling", e.spinning)
}
