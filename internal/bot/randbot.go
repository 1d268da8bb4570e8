package bot

import (
	rand "math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/diceduel/internal/game"
)

// RandBot is a simple bot that picks uniformly among the legal moves. When
// it decides to re-roll it first locks a random non-empty set of dice.
type RandBot struct {
	rng    *rand.Rand
	logger *log.Logger

	locksPlaced bool
}

// NewRandBot creates a new RandBot instance
func NewRandBot(rng *rand.Rand, logger *log.Logger) *RandBot {
	return &RandBot{rng: rng, logger: logger}
}

func (r *RandBot) Decide(view game.TurnView, _ time.Time) (game.Decision, bool) {
	if !view.CanAct || view.Rolling {
		return game.Decision{}, false
	}

	switch view.State {
	case game.Spin:
		r.locksPlaced = false
		return game.Decision{Action: game.ActionRoll, Reasoning: "rand-bot rolling"}, true
	case game.AfterSpin:
		if r.locksPlaced {
			r.locksPlaced = false
			return game.Decision{Action: game.ActionRollLocked, Reasoning: "rand-bot re-rolling"}, true
		}
		if r.rng.IntN(2) == 0 {
			return game.Decision{Action: game.ActionBank, Reasoning: "rand-bot banking"}, true
		}
		var dice []int
		for len(dice) == 0 {
			for i := range game.DiceCount {
				if r.rng.IntN(2) == 0 {
					dice = append(dice, i)
				}
			}
		}
		r.locksPlaced = true
		return game.Decision{Action: game.ActionLock, Dice: dice, Reasoning: "rand-bot locking"}, true
	case game.End:
		return game.Decision{Action: game.ActionBank, Reasoning: "rand-bot banking"}, true
	}
	return game.Decision{}, false
}

// Reset forgets any placed locks.
func (r *RandBot) Reset() {
	r.locksPlaced = false
}
