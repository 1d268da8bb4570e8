package game

import (
	"fmt"
	"time"
)

// Action is a move an agent can ask the match to make.
type Action int

const (
	ActionRoll Action = iota
	// ActionLock sets the locks to exactly Decision.Dice.
	ActionLock
	ActionRollLocked
	ActionBank
)

func (a Action) String() string {
	switch a {
	case ActionRoll:
		return "roll"
	case ActionLock:
		return "lock"
	case ActionRollLocked:
		return "roll_locked"
	case ActionBank:
		return "bank"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Decision represents an agent's decision with reasoning
type Decision struct {
	Action    Action
	Dice      []int  // die indexes for ActionLock
	Reasoning string // Human-readable explanation
}

// TurnView is the read-only state of a turn engine for decision making.
type TurnView struct {
	Side       Side
	State      TurnState
	Faces      Faces
	Locked     [DiceCount]bool
	Rolling    bool
	TurnPoints int
	Balance    int
	CanAct     bool
}

// Agent decides for a side. It is polled every tick and returns ok=false
// while it has nothing to do, including while it is still thinking.
// Agents only observe the view; the match applies their decisions through
// the same actions a human uses.
type Agent interface {
	Decide(view TurnView, now time.Time) (decision Decision, ok bool)
}

// Resetter is implemented by agents that hold state across ticks.
type Resetter interface {
	Reset()
}
