package game

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// EventType represents a game event type with type safety
type EventType string

const (
	EventTypeRollStarted    EventType = "roll_started"
	EventTypeRollResolved   EventType = "roll_resolved"
	EventTypeLockToggled    EventType = "lock_toggled"
	EventTypeTurnEnded      EventType = "turn_ended"
	EventTypeTurnChanged    EventType = "turn_changed"
	EventTypeMatchOver      EventType = "match_over"
	EventTypeMatchRestarted EventType = "match_restarted"
)

func (et EventType) String() string {
	return string(et)
}

// GameEvent represents any event that occurs during a match
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// RollStartedEvent is published when a roll or re-roll begins.
type RollStartedEvent struct {
	Side      Side
	Respin    bool
	Rolling   int // number of dice set rolling
	timestamp time.Time
}

func (e RollStartedEvent) EventType() EventType { return EventTypeRollStarted }
func (e RollStartedEvent) Timestamp() time.Time { return e.timestamp }

// RollResolvedEvent is published once every die of a roll has stopped.
type RollResolvedEvent struct {
	Side      Side
	Faces     Faces
	Score     Score
	State     TurnState // state after the roll
	timestamp time.Time
}

func (e RollResolvedEvent) EventType() EventType { return EventTypeRollResolved }
func (e RollResolvedEvent) Timestamp() time.Time { return e.timestamp }

// LockToggledEvent is published when a die is locked or unlocked.
type LockToggledEvent struct {
	Side      Side
	Die       int
	Locked    bool
	timestamp time.Time
}

func (e LockToggledEvent) EventType() EventType { return EventTypeLockToggled }
func (e LockToggledEvent) Timestamp() time.Time { return e.timestamp }

// TurnEndedEvent is published when a side banks.
type TurnEndedEvent struct {
	Side      Side
	Banked    int
	Balance   int
	timestamp time.Time
}

func (e TurnEndedEvent) EventType() EventType { return EventTypeTurnEnded }
func (e TurnEndedEvent) Timestamp() time.Time { return e.timestamp }

// TurnChangedEvent is published when turn ownership passes to Side.
type TurnChangedEvent struct {
	Side      Side
	timestamp time.Time
}

func (e TurnChangedEvent) EventType() EventType { return EventTypeTurnChanged }
func (e TurnChangedEvent) Timestamp() time.Time { return e.timestamp }

// MatchOverEvent is published once when a side reaches the target score.
type MatchOverEvent struct {
	Winner    Side
	Balances  [2]int
	timestamp time.Time
}

func (e MatchOverEvent) EventType() EventType { return EventTypeMatchOver }
func (e MatchOverEvent) Timestamp() time.Time { return e.timestamp }

// MatchRestartedEvent is published after a restart.
type MatchRestartedEvent struct {
	MatchID   string
	timestamp time.Time
}

func (e MatchRestartedEvent) EventType() EventType { return EventTypeMatchRestarted }
func (e MatchRestartedEvent) Timestamp() time.Time { return e.timestamp }

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// SubscriberFunc adapts a function to EventSubscriber.
type SubscriberFunc func(GameEvent)

func (f SubscriberFunc) OnEvent(event GameEvent) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a synchronous in-memory event bus. Subscribers run on
// the publishing goroutine, in subscription order.
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

func NewEventBus() EventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}

// publish delivers event without letting a panicking subscriber unwind into
// the engine.
func publish(bus EventBus, logger *log.Logger, event GameEvent) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Event subscriber panicked", "event", event.EventType(), "panic", fmt.Sprint(r))
		}
	}()
	bus.Publish(event)
}

// trigger fires a feedback cue on a best-effort basis.
func trigger(feedback Feedback, logger *log.Logger, intensity Intensity) {
	if feedback == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("Feedback sink panicked", "intensity", intensity, "panic", fmt.Sprint(r))
		}
	}()
	feedback.Trigger(intensity)
}
