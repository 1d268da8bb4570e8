package server

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/diceduel/internal/bot"
	"github.com/lox/diceduel/internal/game"
	"github.com/lox/diceduel/internal/randutil"
	"github.com/lox/diceduel/internal/statistics"
)

// command is a client request waiting to be applied to the match.
type command struct {
	kind MessageType
	die  int
}

type sender interface {
	SendMessage(msg *Message) error
}

type resultRecorder interface {
	Record(result statistics.MatchResult)
}

// Session plays one human-vs-bot match for a single connection. The match
// is only touched from the goroutine running Run: client commands arrive on
// a channel and frames come from the session ticker.
type Session struct {
	match     *game.Match
	out       sender
	clock     quartz.Clock
	tick      time.Duration
	commands  chan command
	formatter *game.EventFormatter
	results   resultRecorder
	logger    *log.Logger

	last      game.Snapshot
	presented bool
	seed      int64
	turns     []statistics.TurnResult
}

func newSession(cfg Config, seed int64, clock quartz.Clock, source game.Source, out sender, results resultRecorder, logger *log.Logger) (*Session, error) {
	agent, err := bot.New(cfg.Strategy, cfg.Delays, randutil.New(randutil.Derive(seed, 1)), logger)
	if err != nil {
		return nil, err
	}

	s := &Session{
		out:      out,
		clock:    clock,
		tick:     cfg.Tick,
		commands: make(chan command, 16),
		results:  results,
		seed:     seed,
		formatter: game.NewEventFormatter(game.FormattingOptions{
			Names:           [2]string{game.Human.Label(), cfg.BotName},
			MarkHighlighted: true,
		}),
	}

	m, err := game.NewMatch(cfg.Settings,
		game.WithClock(clock),
		game.WithSource(source),
		game.WithAgent(game.Bot, agent),
		game.WithPresenter(game.PresenterFunc(s.present)),
		game.WithFeedback(game.FeedbackFunc(s.feedback)),
		game.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	m.EventBus().Subscribe(s)
	s.match = m
	s.logger = logger.WithPrefix("session").With("match", m.ID())
	return s, nil
}

// Run drives the match until ctx is cancelled.
func (s *Session) Run(ctx context.Context) {
	ticker := s.clock.NewTicker(s.tick, "session", "tick")
	defer ticker.Stop()

	s.logger.Info("Session started")
	s.match.Tick()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Session ended")
			return
		case cmd := <-s.commands:
			s.apply(cmd)
		case <-ticker.C:
			s.match.Tick()
		}
	}
}

// Submit queues a client command for the session goroutine.
func (s *Session) Submit(ctx context.Context, kind MessageType, die int) error {
	select {
	case s.commands <- command{kind: kind, die: die}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) apply(cmd command) {
	var ok bool
	switch cmd.kind {
	case MessageTypeRoll:
		ok = s.match.RequestRoll(game.Human)
	case MessageTypeRollLocked:
		ok = s.match.RequestRollLocked(game.Human)
	case MessageTypeToggleLock:
		ok = s.match.ToggleLock(game.Human, cmd.die)
	case MessageTypeBank:
		ok = s.match.RequestBank(game.Human)
	case MessageTypeRestart:
		s.match.Restart()
		ok = true
	}
	if !ok {
		s.logger.Debug("Command ignored", "type", cmd.kind, "die", cmd.die)
	}
}

// OnEvent forwards match events to the client.
func (s *Session) OnEvent(event game.GameEvent) {
	if text := s.formatter.Format(event); text != "" {
		s.send(MessageTypeLog, LogData{Event: event.EventType(), Text: text})
	}

	switch e := event.(type) {
	case game.TurnEndedEvent:
		s.turns = append(s.turns, statistics.TurnResult{Side: e.Side, Banked: e.Banked})
		s.send(MessageTypeTurnEnded, TurnEndedData{Side: e.Side, Banked: e.Banked, Balance: e.Balance})
	case game.MatchRestartedEvent:
		s.turns = nil
	case game.MatchOverEvent:
		if s.results != nil {
			s.results.Record(statistics.MatchResult{
				Seed:     s.seed,
				Winner:   e.Winner,
				Balances: e.Balances,
				Turns:    s.turns,
			})
		}
		s.turns = nil
		s.send(MessageTypeMatchOver, MatchOverData{
			MatchID: s.match.ID(),
			Winner:  e.Winner,
			Human:   e.Balances[game.Human],
			Bot:     e.Balances[game.Bot],
		})
	}
}

func (s *Session) present(snapshot game.Snapshot) {
	if s.presented && snapshot == s.last {
		return
	}
	s.last = snapshot
	s.presented = true
	s.send(MessageTypeSnapshot, snapshot)
}

func (s *Session) feedback(intensity game.Intensity) {
	s.send(MessageTypeFeedback, FeedbackData{Intensity: intensity})
}

func (s *Session) send(messageType MessageType, data any) {
	msg, err := NewMessage(messageType, data, s.clock.Now())
	if err != nil {
		s.logger.Error("Failed to create message", "type", messageType, "error", err)
		return
	}
	if err := s.out.SendMessage(msg); err != nil {
		s.logger.Debug("Failed to send message", "type", messageType, "error", err)
	}
}
