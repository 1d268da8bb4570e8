// Package randutil centralises seeding and the dice random source.
package randutil

import (
	rand "math/rand/v2"
	"time"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a *rand.Rand seeded deterministically from seed. Both PCG
// seeds are derived from the one value so every call site replays the same
// sequence for the same seed.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Derive returns the seed of the n-th child stream of seed. Simulations use
// it to give every match its own reproducible sequence.
func Derive(seed int64, n int) int64 {
	return int64(mix(uint64(seed) + uint64(n)*goldenRatio64))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// DiceSource draws die faces and spin durations from one generator. It is
// not safe for concurrent use; give each match its own.
type DiceSource struct {
	rng     *rand.Rand
	spinMin time.Duration
	spinMax time.Duration
}

// NewDiceSource returns a source whose spin durations are uniform in
// [spinMin, spinMax].
func NewDiceSource(rng *rand.Rand, spinMin, spinMax time.Duration) *DiceSource {
	if spinMax < spinMin {
		spinMax = spinMin
	}
	return &DiceSource{rng: rng, spinMin: spinMin, spinMax: spinMax}
}

// Face returns a uniform face in 1..6.
func (s *DiceSource) Face() int {
	return s.rng.IntN(6) + 1
}

// SpinDuration returns a uniform duration in the configured range.
func (s *DiceSource) SpinDuration() time.Duration {
	span := s.spinMax - s.spinMin
	if span <= 0 {
		return s.spinMin
	}
	return s.spinMin + time.Duration(s.rng.Int64N(int64(span)+1))
}
