package game

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/diceduel/internal/randutil"
)

// Option configures a Match or TurnEngine during creation.
type Option func(*options)

type options struct {
	clock     quartz.Clock
	source    Source
	bus       EventBus
	feedback  Feedback
	presenter Presenter
	logger    *log.Logger
	agents    [2]Agent
	matchID   string
}

// WithClock sets the clock used for roll timing and agent delays.
func WithClock(clock quartz.Clock) Option {
	return func(o *options) { o.clock = clock }
}

// WithSource sets the random source for dice faces and spin durations.
func WithSource(source Source) Option {
	return func(o *options) { o.source = source }
}

// WithSeed uses a deterministic random source derived from seed.
func WithSeed(seed int64, settings Settings) Option {
	return func(o *options) {
		o.source = randutil.NewDiceSource(randutil.New(seed), settings.SpinMin, settings.SpinMax)
	}
}

// WithEventBus sets the bus that receives game events.
func WithEventBus(bus EventBus) Option {
	return func(o *options) { o.bus = bus }
}

func WithFeedback(feedback Feedback) Option {
	return func(o *options) { o.feedback = feedback }
}

func WithPresenter(presenter Presenter) Option {
	return func(o *options) { o.presenter = presenter }
}

func WithLogger(logger *log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithAgent attaches a decision source to side. Sides without an agent only
// act on external requests.
func WithAgent(side Side, agent Agent) Option {
	return func(o *options) {
		if side.Valid() {
			o.agents[side] = agent
		}
	}
}

// WithMatchID overrides the generated match identifier.
func WithMatchID(id string) Option {
	return func(o *options) { o.matchID = id }
}

func resolveOptions(settings Settings, opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.clock == nil {
		o.clock = quartz.NewReal()
	}
	if o.source == nil {
		o.source = randutil.NewDiceSource(randutil.New(time.Now().UnixNano()), settings.SpinMin, settings.SpinMax)
	}
	if o.bus == nil {
		o.bus = NewEventBus()
	}
	if o.logger == nil {
		o.logger = log.New(io.Discard)
	}
	return o
}
