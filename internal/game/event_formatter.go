package game

import (
	"fmt"
	"strings"
)

// FormattingOptions controls how events are formatted for different contexts
type FormattingOptions struct {
	// Names overrides the display name of each side.
	Names [2]string
	// MarkHighlighted wraps scoring faces, e.g. "[1]".
	MarkHighlighted bool
}

// EventFormatter renders game events as single log lines.
type EventFormatter struct {
	opts FormattingOptions
}

func NewEventFormatter(opts FormattingOptions) *EventFormatter {
	for _, side := range Sides {
		if opts.Names[side] == "" {
			opts.Names[side] = side.Label()
		}
	}
	return &EventFormatter{opts: opts}
}

// Format returns the log line for event, or "" for events without one.
func (ef *EventFormatter) Format(event GameEvent) string {
	switch e := event.(type) {
	case RollStartedEvent:
		if e.Respin {
			return fmt.Sprintf("%s re-rolls %d dice", ef.Name(e.Side), e.Rolling)
		}
		return fmt.Sprintf("%s rolls", ef.Name(e.Side))
	case RollResolvedEvent:
		return fmt.Sprintf("%s rolled %s for %d", ef.Name(e.Side), ef.FormatFaces(e.Faces, e.Score.Highlighted), e.Score.Reward)
	case LockToggledEvent:
		verb := "unlocks"
		if e.Locked {
			verb = "locks"
		}
		return fmt.Sprintf("%s %s die %d", ef.Name(e.Side), verb, e.Die+1)
	case TurnEndedEvent:
		return fmt.Sprintf("%s banks %d (total %d)", ef.Name(e.Side), e.Banked, e.Balance)
	case TurnChangedEvent:
		return fmt.Sprintf("%s's turn", ef.Name(e.Side))
	case MatchOverEvent:
		return fmt.Sprintf("%s wins %d to %d", ef.Name(e.Winner), e.Balances[e.Winner], e.Balances[e.Winner.Other()])
	case MatchRestartedEvent:
		return "New match"
	}
	return ""
}

// FormatFaces renders five faces, marking the highlighted ones when enabled.
func (ef *EventFormatter) FormatFaces(faces Faces, highlighted FaceSet) string {
	parts := make([]string, len(faces))
	for i, f := range faces {
		if ef.opts.MarkHighlighted && highlighted.Has(f) {
			parts[i] = fmt.Sprintf("[%d]", f)
		} else {
			parts[i] = fmt.Sprint(f)
		}
	}
	return strings.Join(parts, " ")
}

// Name returns the display name of side.
func (ef *EventFormatter) Name(side Side) string {
	if !side.Valid() {
		return side.String()
	}
	return ef.opts.Names[side]
}
