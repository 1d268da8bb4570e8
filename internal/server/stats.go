package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/lox/diceduel/internal/game"
	"github.com/lox/diceduel/internal/statistics"
)

// MatchStats aggregates finished matches across every session
type MatchStats struct {
	mu    sync.RWMutex
	stats statistics.Statistics
}

// NewMatchStats creates an empty collector
func NewMatchStats() *MatchStats {
	return &MatchStats{}
}

// Record adds a finished match. Sessions call it from their own goroutines.
func (m *MatchStats) Record(result statistics.MatchResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.Add(result)
}

// SideSummary is the per-side part of StatsSummary
type SideSummary struct {
	Wins       int     `json:"wins"`
	WinRate    float64 `json:"winRate"`
	Turns      int     `json:"turns"`
	MeanBanked float64 `json:"meanBanked"`
	ZeroTurns  int     `json:"zeroTurns"`
}

// StatsSummary is served on /stats
type StatsSummary struct {
	Matches       int                    `json:"matches"`
	TurnsPerMatch float64                `json:"turnsPerMatch"`
	Sides         map[string]SideSummary `json:"sides"`
}

// Summary returns a consistent view of the collected statistics
func (m *MatchStats) Summary() StatsSummary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	summary := StatsSummary{
		Matches:       m.stats.Matches,
		TurnsPerMatch: m.stats.TurnsPerMatch(),
		Sides:         make(map[string]SideSummary, len(game.Sides)),
	}
	for _, side := range game.Sides {
		st := &m.stats.Sides[side]
		summary.Sides[side.String()] = SideSummary{
			Wins:       st.Wins,
			WinRate:    m.stats.WinRate(side),
			Turns:      st.Turns,
			MeanBanked: st.Mean(),
			ZeroTurns:  st.ZeroTurns,
		}
	}
	return summary
}

// ServeHTTP writes the summary as JSON
func (m *MatchStats) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(m.Summary()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
