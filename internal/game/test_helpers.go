package game

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// ScriptedSource replays a fixed sequence of faces. Once the script runs out
// it repeats the last face. Spin durations are always Spin.
type ScriptedSource struct {
	faces []int
	next  int
	Spin  time.Duration
}

// NewScriptedSource returns a source that yields faces in order.
func NewScriptedSource(faces ...int) *ScriptedSource {
	return &ScriptedSource{faces: faces}
}

// Push appends faces to the script.
func (s *ScriptedSource) Push(faces ...int) {
	s.faces = append(s.faces, faces...)
}

func (s *ScriptedSource) Face() int {
	if len(s.faces) == 0 {
		return 1
	}
	if s.next >= len(s.faces) {
		return s.faces[len(s.faces)-1]
	}
	f := s.faces[s.next]
	s.next++
	return f
}

func (s *ScriptedSource) SpinDuration() time.Duration {
	return s.Spin
}

// InstantSettings are the default rules with every delay set to zero, so a
// roll resolves on the tick after it starts.
func InstantSettings() Settings {
	s := DefaultSettings()
	s.SpinMin = 0
	s.SpinMax = 0
	s.StopStagger = 0
	return s
}

// NewTestMatch creates a match with instant rolls, a discarded logger and
// the given clock and source. Extra options are applied last.
func NewTestMatch(clock quartz.Clock, source Source, opts ...Option) *Match {
	base := []Option{
		WithClock(clock),
		WithSource(source),
		WithLogger(log.New(io.Discard)),
		WithMatchID("test"),
	}
	m, err := NewMatch(InstantSettings(), append(base, opts...)...)
	if err != nil {
		panic("test match: " + err.Error())
	}
	return m
}

// RollTo rolls side's dice and ticks until the roll resolves. The caller's
// source decides the faces.
func RollTo(m *Match, side Side, locked bool) bool {
	var ok bool
	if locked {
		ok = m.RequestRollLocked(side)
	} else {
		ok = m.RequestRoll(side)
	}
	if !ok {
		return false
	}
	for i := 0; i < 10 && m.Engine(side).Rolling(); i++ {
		m.Tick()
	}
	return !m.Engine(side).Rolling()
}
