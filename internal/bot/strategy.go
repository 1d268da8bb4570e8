package bot

import (
	"fmt"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/lox/diceduel/internal/game"
)

// Strategy names accepted by New.
const (
	Greedy = "greedy"
	Bank   = "bank"
	Random = "random"
)

// Strategies lists every strategy New understands.
var Strategies = []string{Greedy, Bank, Random}

// New creates the agent for strategy. Delays only apply to the greedy
// policy; rng only to the random bot.
func New(strategy string, delays Delays, rng *rand.Rand, logger *log.Logger) (game.Agent, error) {
	switch strategy {
	case Greedy, "":
		return NewPolicy(delays, logger), nil
	case Bank:
		return NewBankBot(logger), nil
	case Random:
		if rng == nil {
			return nil, fmt.Errorf("random strategy needs a random source")
		}
		return NewRandBot(rng, logger), nil
	}
	return nil, fmt.Errorf("unknown bot strategy %q (want one of %v)", strategy, Strategies)
}
