package simulator

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/diceduel/internal/bot"
	"github.com/lox/diceduel/internal/fileutil"
	"github.com/lox/diceduel/internal/game"
	"github.com/lox/diceduel/internal/randutil"
	"github.com/lox/diceduel/internal/statistics"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxTicks bounds a single match. A greedy match rarely needs more
// than a few hundred frames.
const DefaultMaxTicks = 100_000

// Config holds configuration for running simulations
type Config struct {
	Matches    int
	Strategies [2]string // indexed by game.Side
	Seed       int64
	Workers    int
	MaxTicks   int
	Settings   game.Settings
	Clock      quartz.Clock
	Logger     *log.Logger
}

// Simulator plays bot-vs-bot matches headlessly
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration. Dice timings are
// zeroed so a roll resolves on the frame after it starts.
func New(config Config) *Simulator {
	if config.Workers <= 0 {
		config.Workers = runtime.GOMAXPROCS(0)
	}
	if config.MaxTicks <= 0 {
		config.MaxTicks = DefaultMaxTicks
	}
	if config.Settings == (game.Settings{}) {
		config.Settings = game.DefaultSettings()
	}
	config.Settings.SpinMin = 0
	config.Settings.SpinMax = 0
	config.Settings.StopStagger = 0
	for side, strategy := range config.Strategies {
		if strategy == "" {
			config.Strategies[side] = bot.Greedy
		}
	}
	if config.Clock == nil {
		config.Clock = quartz.NewReal()
	}
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	return &Simulator{config: config}
}

// Run plays every match and aggregates the results in match order, so the
// statistics do not depend on worker scheduling.
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	if s.config.Matches <= 0 {
		return nil, fmt.Errorf("invalid match count: %d", s.config.Matches)
	}
	if err := s.config.Settings.Validate(); err != nil {
		return nil, err
	}
	for _, strategy := range s.config.Strategies {
		if _, err := bot.New(strategy, bot.NoDelays(), randutil.New(0), nil); err != nil {
			return nil, err
		}
	}

	results := make([]statistics.MatchResult, s.config.Matches)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)
	for i := range results {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := s.PlayMatch(i)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := &statistics.Statistics{}
	for _, result := range results {
		stats.Add(result)
	}
	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	return stats, nil
}

// PlayMatch plays the match with the given index. Match i uses seed+i for
// the dice, so any match can be replayed on its own.
func (s *Simulator) PlayMatch(index int) (statistics.MatchResult, error) {
	seed := s.config.Seed + int64(index)
	result := statistics.MatchResult{Seed: seed}

	opts := []game.Option{
		game.WithClock(s.config.Clock),
		game.WithSource(randutil.NewDiceSource(randutil.New(seed), 0, 0)),
		game.WithLogger(s.config.Logger.With("match", index)),
		game.WithMatchID(fmt.Sprintf("sim-%d", index)),
	}
	for _, side := range game.Sides {
		rng := randutil.New(randutil.Derive(seed, int(side)+1))
		agent, err := bot.New(s.config.Strategies[side], bot.NoDelays(), rng, s.config.Logger)
		if err != nil {
			return result, err
		}
		opts = append(opts, game.WithAgent(side, agent))
	}

	m, err := game.NewMatch(s.config.Settings, opts...)
	if err != nil {
		return result, err
	}
	m.EventBus().Subscribe(game.SubscriberFunc(func(event game.GameEvent) {
		if e, ok := event.(game.TurnEndedEvent); ok {
			result.Turns = append(result.Turns, statistics.TurnResult{Side: e.Side, Banked: e.Banked})
		}
	}))

	for result.Ticks < s.config.MaxTicks && !m.IsOver() {
		m.Tick()
		result.Ticks++
	}
	if !m.IsOver() {
		return result, fmt.Errorf("match %d did not finish within %d ticks (seed: %d)", index, s.config.MaxTicks, seed)
	}

	result.Winner, _ = m.Winner()
	for _, side := range game.Sides {
		result.Balances[side] = m.Engine(side).Balance()
	}
	s.config.Logger.Debug("Match finished",
		"match", index,
		"seed", seed,
		"winner", result.Winner,
		"turns", len(result.Turns),
		"ticks", result.Ticks)
	return result, nil
}

// RunSimulation is a convenience function for running a simulation with basic parameters
func RunSimulation(ctx context.Context, matches int, strategies [2]string, seed int64, logger *log.Logger) (*statistics.Statistics, error) {
	return New(Config{
		Matches:    matches,
		Strategies: strategies,
		Seed:       seed,
		Logger:     logger,
	}).Run(ctx)
}

// SideSummary is the per-side section of a report.
type SideSummary struct {
	Strategy   string     `json:"strategy"`
	Wins       int        `json:"wins"`
	WinRate    float64    `json:"winRate"`
	Turns      int        `json:"turns"`
	MeanBanked float64    `json:"meanBanked"`
	StdDev     float64    `json:"stdDev"`
	CI95       [2]float64 `json:"ci95"`
	MedianBank float64    `json:"medianBanked"`
	ZeroTurns  int        `json:"zeroTurns"`
	ZeroRate   float64    `json:"zeroRate"`
}

// Report is the JSON document written by the simulate command.
type Report struct {
	GeneratedAt   time.Time              `json:"generatedAt"`
	Seed          int64                  `json:"seed"`
	Matches       int                    `json:"matches"`
	TargetScore   int                    `json:"targetScore"`
	TurnsPerMatch float64                `json:"turnsPerMatch"`
	MaxTurns      int                    `json:"maxTurns"`
	Sides         map[string]SideSummary `json:"sides"`
}

// BuildReport summarises stats for the configured strategies.
func (s *Simulator) BuildReport(stats *statistics.Statistics) Report {
	report := Report{
		GeneratedAt:   s.config.Clock.Now().UTC(),
		Seed:          s.config.Seed,
		Matches:       stats.Matches,
		TargetScore:   s.config.Settings.TargetScore,
		TurnsPerMatch: stats.TurnsPerMatch(),
		MaxTurns:      stats.MaxTurns,
		Sides:         make(map[string]SideSummary, len(game.Sides)),
	}
	for _, side := range game.Sides {
		st := &stats.Sides[side]
		low, high := st.ConfidenceInterval95()
		report.Sides[side.String()] = SideSummary{
			Strategy:   s.config.Strategies[side],
			Wins:       st.Wins,
			WinRate:    stats.WinRate(side),
			Turns:      st.Turns,
			MeanBanked: st.Mean(),
			StdDev:     st.StdDev(),
			CI95:       [2]float64{low, high},
			MedianBank: st.Median(),
			ZeroTurns:  st.ZeroTurns,
			ZeroRate:   st.ZeroRate(),
		}
	}
	return report
}

// WriteReport writes report as JSON without ever leaving a partial file.
func WriteReport(filename string, report Report) error {
	return fileutil.WriteJSONAtomic(filename, report, 0644)
}

// PrintSummary prints a summary of simulation results
func PrintSummary(w io.Writer, stats *statistics.Statistics, strategies [2]string) {
	fmt.Fprintf(w, "\n=== FINAL RESULTS: %s vs %s ===\n", strategies[game.Human], strategies[game.Bot])
	fmt.Fprintf(w, "Matches played: %d\n", stats.Matches)
	fmt.Fprintf(w, "Turns per match: %.2f (longest %d)\n", stats.TurnsPerMatch(), stats.MaxTurns)

	for _, side := range game.Sides {
		st := &stats.Sides[side]
		low, high := st.ConfidenceInterval95()

		fmt.Fprintf(w, "\n=== %s (%s) ===\n", side.Label(), strategies[side])
		fmt.Fprintf(w, "Wins: %d (%.1f%%)\n", st.Wins, stats.WinRate(side)*100)
		fmt.Fprintf(w, "Turns: %d, banked nothing in %d (%.1f%%)\n", st.Turns, st.ZeroTurns, st.ZeroRate()*100)
		fmt.Fprintf(w, "Mean: %.2f points/turn\n", st.Mean())
		fmt.Fprintf(w, "Median: %.2f points/turn\n", st.Median())
		fmt.Fprintf(w, "Std Dev: %.2f\n", st.StdDev())
		fmt.Fprintf(w, "95%% CI: [%.2f, %.2f] points/turn\n", low, high)
		fmt.Fprintf(w, "Percentiles: P25=%.0f, P75=%.0f, P95=%.0f\n",
			st.Percentile(0.25), st.Percentile(0.75), st.Percentile(0.95))
	}
}
