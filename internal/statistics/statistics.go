package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/diceduel/internal/game"
)

// TurnResult is one banked turn.
type TurnResult struct {
	Side   game.Side
	Banked int
}

// MatchResult represents the outcome of a single bot-vs-bot match
type MatchResult struct {
	Seed     int64        // RNG seed for this match (for replay)
	Winner   game.Side    // Side that reached the target
	Balances [2]int       // Final balances
	Turns    []TurnResult // Every banked turn in order
	Ticks    int          // Frames the match needed
}

// SideStats tracks the banked value of every turn one side played
type SideStats struct {
	Wins      int       `json:"wins"`
	Turns     int       `json:"turns"`
	ZeroTurns int       `json:"zeroTurns"` // Turns banked for nothing
	Sum       float64   `json:"sum"`
	Sum2      float64   `json:"-"` // Sum of squares for variance calculation
	Values    []float64 `json:"-"` // Store all values for median/percentile calculation
}

// Statistics aggregates simulated matches
type Statistics struct {
	Matches    int          `json:"matches"`
	TotalTurns int          `json:"totalTurns"`
	TotalTicks int          `json:"totalTicks"`
	MaxTurns   int          `json:"maxTurns"` // Longest match observed
	Sides      [2]SideStats `json:"sides"`
}

// Add incorporates a new match result into the statistics
func (s *Statistics) Add(result MatchResult) {
	s.Matches++
	s.TotalTicks += result.Ticks
	s.TotalTurns += len(result.Turns)
	if len(result.Turns) > s.MaxTurns {
		s.MaxTurns = len(result.Turns)
	}
	if result.Winner.Valid() {
		s.Sides[result.Winner].Wins++
	}

	for _, turn := range result.Turns {
		if !turn.Side.Valid() {
			continue
		}
		s.Sides[turn.Side].add(float64(turn.Banked))
	}
}

// WinRate returns the fraction of matches side won
func (s *Statistics) WinRate(side game.Side) float64 {
	if s.Matches == 0 || !side.Valid() {
		return 0
	}
	return float64(s.Sides[side].Wins) / float64(s.Matches)
}

// TurnsPerMatch returns the mean number of turns played per match
func (s *Statistics) TurnsPerMatch() float64 {
	if s.Matches == 0 {
		return 0
	}
	return float64(s.TotalTurns) / float64(s.Matches)
}

// Validate checks that the accounting is consistent
func (s *Statistics) Validate() error {
	if s.Matches <= 0 {
		return fmt.Errorf("invalid match count: %d", s.Matches)
	}

	wins := s.Sides[game.Human].Wins + s.Sides[game.Bot].Wins
	if wins != s.Matches {
		return fmt.Errorf("wins (%d) do not match matches played (%d)", wins, s.Matches)
	}

	turns := 0
	for _, side := range game.Sides {
		st := s.Sides[side]
		if len(st.Values) != st.Turns {
			return fmt.Errorf("%s values array length (%d) does not match turn count (%d)",
				side, len(st.Values), st.Turns)
		}
		if st.ZeroTurns > st.Turns {
			return fmt.Errorf("%s zero turns (%d) exceed turns (%d)", side, st.ZeroTurns, st.Turns)
		}
		turns += st.Turns
	}
	if turns != s.TotalTurns {
		return fmt.Errorf("side turns total (%d) does not match total turns (%d)", turns, s.TotalTurns)
	}
	return nil
}

func (st *SideStats) add(banked float64) {
	st.Turns++
	st.Sum += banked
	st.Sum2 += banked * banked
	st.Values = append(st.Values, banked)
	if banked == 0 {
		st.ZeroTurns++
	}
}

// Mean returns the arithmetic mean banked per turn
func (st *SideStats) Mean() float64 {
	if st.Turns == 0 {
		return 0
	}
	return st.Sum / float64(st.Turns)
}

// Variance returns the sample variance of banked values
func (st *SideStats) Variance() float64 {
	if st.Turns < 2 {
		return 0
	}
	mean := st.Mean()
	return (st.Sum2 - float64(st.Turns)*mean*mean) / float64(st.Turns-1)
}

// StdDev returns the sample standard deviation of banked values
func (st *SideStats) StdDev() float64 {
	return math.Sqrt(st.Variance())
}

// StdError returns the standard error of the mean
func (st *SideStats) StdError() float64 {
	if st.Turns == 0 {
		return 0
	}
	return st.StdDev() / math.Sqrt(float64(st.Turns))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (st *SideStats) ConfidenceInterval95() (float64, float64) {
	mean := st.Mean()
	margin := 1.96 * st.StdError() // 95% confidence
	return mean - margin, mean + margin
}

// ZeroRate returns the fraction of turns banked for nothing
func (st *SideStats) ZeroRate() float64 {
	if st.Turns == 0 {
		return 0
	}
	return float64(st.ZeroTurns) / float64(st.Turns)
}

// Median returns the median banked value
func (st *SideStats) Median() float64 {
	return st.Percentile(0.5)
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (st *SideStats) Percentile(p float64) float64 {
	if len(st.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(st.Values))
	copy(sorted, st.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
