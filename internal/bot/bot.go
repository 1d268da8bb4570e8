package bot

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/diceduel/internal/game"
)

// Delays are the thinking pauses the bot takes before each decision.
type Delays struct {
	Spin      time.Duration // before the first roll of a turn
	AfterSpin time.Duration // before choosing which dice to lock
	ReSpin    time.Duration // between locking and re-rolling
	End       time.Duration // before banking after the re-roll
}

// DefaultDelays are the pauses used for interactive play.
func DefaultDelays() Delays {
	return Delays{
		Spin:      2 * time.Second,
		AfterSpin: 3 * time.Second,
		ReSpin:    500 * time.Millisecond,
		End:       2 * time.Second,
	}
}

// NoDelays makes the bot act on the first tick it is allowed to.
func NoDelays() Delays {
	return Delays{}
}

type step int

const (
	stepNone step = iota
	stepRoll
	stepLock
	stepRollLocked
	stepBank
)

// Policy is the greedy marginal-value bot. It rolls, locks every die showing
// the face that gains the most from one more matching die, re-rolls once and
// banks. It banks straight away when nothing gains or the roll is a straight.
type Policy struct {
	delays Delays
	logger *log.Logger

	step        step
	readyAt     time.Time
	locksPlaced bool
}

// NewPolicy creates a greedy bot. A nil logger discards output.
func NewPolicy(delays Delays, logger *log.Logger) *Policy {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Policy{
		delays: delays,
		logger: logger.WithPrefix("bot"),
	}
}

// Decide implements game.Agent.
func (p *Policy) Decide(view game.TurnView, now time.Time) (game.Decision, bool) {
	if !view.CanAct || view.Rolling {
		p.step = stepNone
		return game.Decision{}, false
	}
	if view.State == game.Spin {
		p.locksPlaced = false
	}

	next, delay := p.nextStep(view.State)
	if next == stepNone {
		return game.Decision{}, false
	}
	if next != p.step {
		p.step = next
		p.readyAt = now.Add(delay)
	}
	if now.Before(p.readyAt) {
		return game.Decision{}, false
	}
	p.step = stepNone

	decision := p.decide(next, view)
	p.logger.Debug("Bot decision made",
		"side", view.Side,
		"state", view.State,
		"faces", view.Faces,
		"decision", decision.Action,
		"dice", decision.Dice,
		"reasoning", decision.Reasoning)
	return decision, true
}

// Reset forgets any pending decision.
func (p *Policy) Reset() {
	p.step = stepNone
	p.readyAt = time.Time{}
	p.locksPlaced = false
}

func (p *Policy) nextStep(state game.TurnState) (step, time.Duration) {
	switch state {
	case game.Spin:
		return stepRoll, p.delays.Spin
	case game.AfterSpin:
		if p.locksPlaced {
			return stepRollLocked, p.delays.ReSpin
		}
		return stepLock, p.delays.AfterSpin
	case game.End:
		return stepBank, p.delays.End
	}
	return stepNone, 0
}

func (p *Policy) decide(s step, view game.TurnView) game.Decision {
	thinking := &ThinkingContext{}

	switch s {
	case stepRoll:
		thinking.AddThought("My turn, rolling")
		return game.Decision{Action: game.ActionRoll, Reasoning: thinking.GetThoughts()}

	case stepLock:
		score := game.Evaluate(view.Faces)
		thinking.AddThought(fmt.Sprintf("Rolled %v for %d", view.Faces, score.Reward))
		if _, ok := game.Straight(view.Faces); ok {
			thinking.AddThought("A straight can only get worse, banking")
			return game.Decision{Action: game.ActionBank, Reasoning: thinking.GetThoughts()}
		}
		plan, ok := ChooseLock(view.Faces)
		if !ok {
			thinking.AddThought("No face gains from another die, banking")
			return game.Decision{Action: game.ActionBank, Reasoning: thinking.GetThoughts()}
		}
		thinking.AddThought(fmt.Sprintf("One more %d is worth %d, keeping %d of them", plan.Face, plan.Marginal, len(plan.Dice)))
		p.locksPlaced = true
		return game.Decision{Action: game.ActionLock, Dice: plan.Dice, Reasoning: thinking.GetThoughts()}

	case stepRollLocked:
		p.locksPlaced = false
		thinking.AddThought("Re-rolling the rest")
		return game.Decision{Action: game.ActionRollLocked, Reasoning: thinking.GetThoughts()}

	default:
		thinking.AddThought(fmt.Sprintf("Banking %d", view.TurnPoints))
		return game.Decision{Action: game.ActionBank, Reasoning: thinking.GetThoughts()}
	}
}

// LockPlan is the lock the greedy policy settles on.
type LockPlan struct {
	Face     int
	Marginal int
	Dice     []int // indexes of every die showing Face
}

// ChooseLock finds the face present in faces whose yield grows the most with
// one more matching die. Ties go to the lowest face. It returns false when no
// face has a positive marginal value.
func ChooseLock(faces game.Faces) (LockPlan, bool) {
	counts := game.Counts(faces)
	best := LockPlan{}
	for f := 1; f <= 6; f++ {
		c := counts[f]
		if c == 0 || c+1 > game.DiceCount {
			continue
		}
		marginal := Marginal(f, c)
		if marginal > best.Marginal {
			best = LockPlan{Face: f, Marginal: marginal}
		}
	}
	if best.Marginal <= 0 {
		return LockPlan{}, false
	}
	for i, f := range faces {
		if f == best.Face {
			best.Dice = append(best.Dice, i)
		}
	}
	return best, true
}

// Marginal is the reward gained by holding count+1 dice of face instead of
// count.
func Marginal(face, count int) int {
	return game.Yield(face, count+1) - game.Yield(face, count)
}

// ThinkingContext accumulates bot thoughts during decision making
type ThinkingContext struct {
	thoughts []string
}

// AddThought adds a thought to the thinking process
func (tc *ThinkingContext) AddThought(thought string) {
	tc.thoughts = append(tc.thoughts, thought)
}

// GetThoughts returns the complete stream of thoughts
func (tc *ThinkingContext) GetThoughts() string {
	if len(tc.thoughts) == 0 {
		return "No clear reasoning available"
	}
	return strings.Join(tc.thoughts, ". ")
}
