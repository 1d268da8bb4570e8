package game

import (
	"fmt"
	"time"
)

// Side identifies one of the two players of a match.
type Side int

const (
	Human Side = iota
	Bot
)

// Sides lists both sides in the order the win check visits them.
var Sides = [2]Side{Human, Bot}

func (s Side) String() string {
	switch s {
	case Human:
		return "human"
	case Bot:
		return "bot"
	default:
		return fmt.Sprintf("side(%d)", int(s))
	}
}

// Label is the display name used in status lines.
func (s Side) Label() string {
	switch s {
	case Human:
		return "Player"
	case Bot:
		return "Bot"
	default:
		return s.String()
	}
}

// Other returns the opposing side.
func (s Side) Other() Side {
	if s == Human {
		return Bot
	}
	return Human
}

// Valid reports whether s is Human or Bot.
func (s Side) Valid() bool {
	return s == Human || s == Bot
}

func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Side) UnmarshalText(text []byte) error {
	side, err := ParseSide(string(text))
	if err != nil {
		return err
	}
	*s = side
	return nil
}

// ParseSide parses "human" or "bot".
func ParseSide(s string) (Side, error) {
	switch s {
	case "human", "player":
		return Human, nil
	case "bot":
		return Bot, nil
	}
	return Human, fmt.Errorf("unknown side %q", s)
}

// TurnState is the state of a turn engine.
type TurnState int

const (
	// Spin waits for the first roll of a turn.
	Spin TurnState = iota
	// AfterSpin allows locking dice, re-rolling the rest, or banking.
	AfterSpin
	// ReSpin is the re-roll of the unlocked dice.
	ReSpin
	// End only allows banking.
	End
)

func (s TurnState) String() string {
	switch s {
	case Spin:
		return "spin"
	case AfterSpin:
		return "after_spin"
	case ReSpin:
		return "respin"
	case End:
		return "end"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func (s TurnState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Intensity tags a feedback event.
type Intensity string

const (
	Light  Intensity = "light"
	Medium Intensity = "medium"
	Heavy  Intensity = "heavy"
)

// Feedback receives haptic/sound cues. Implementations must not block.
type Feedback interface {
	Trigger(intensity Intensity)
}

// FeedbackFunc adapts a function to Feedback.
type FeedbackFunc func(Intensity)

func (f FeedbackFunc) Trigger(intensity Intensity) { f(intensity) }

// Presenter receives a snapshot of the match once per tick.
type Presenter interface {
	Present(snapshot Snapshot)
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(Snapshot)

func (f PresenterFunc) Present(snapshot Snapshot) { f(snapshot) }

// Arbiter decides turn ownership for a TurnEngine and receives its bank
// reports.
type Arbiter interface {
	CanAct(side Side) bool
	TurnEnded(side Side, balance int)
}

// Settings are the static rules and timings of a match.
type Settings struct {
	TargetScore int
	DiceCount   int
	SpinMin     time.Duration
	SpinMax     time.Duration
	// StopStagger delays die i by i*StopStagger so dice stop left to right.
	StopStagger time.Duration
}

// DefaultSettings returns the standard rules: first to 500.
func DefaultSettings() Settings {
	return Settings{
		TargetScore: 500,
		DiceCount:   DiceCount,
		SpinMin:     time.Second,
		SpinMax:     2 * time.Second,
		StopStagger: 150 * time.Millisecond,
	}
}

// Validate checks the settings. Scoring and locking assume exactly five
// dice, so any other count is rejected.
func (s Settings) Validate() error {
	if s.DiceCount != DiceCount {
		return fmt.Errorf("dice count must be %d, got %d", DiceCount, s.DiceCount)
	}
	if s.TargetScore <= 0 {
		return fmt.Errorf("target score must be positive, got %d", s.TargetScore)
	}
	if s.SpinMin < 0 || s.SpinMax < 0 || s.StopStagger < 0 {
		return fmt.Errorf("durations must not be negative")
	}
	if s.SpinMin > s.SpinMax {
		return fmt.Errorf("spin min %s exceeds spin max %s", s.SpinMin, s.SpinMax)
	}
	return nil
}
