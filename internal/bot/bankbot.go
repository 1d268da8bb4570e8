package bot

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/diceduel/internal/game"
)

// BankBot rolls once and banks whatever it gets. It never locks.
type BankBot struct {
	logger *log.Logger
}

// NewBankBot creates a new BankBot instance
func NewBankBot(logger *log.Logger) *BankBot {
	return &BankBot{logger: logger}
}

func (b *BankBot) Decide(view game.TurnView, _ time.Time) (game.Decision, bool) {
	if !view.CanAct || view.Rolling {
		return game.Decision{}, false
	}
	switch view.State {
	case game.Spin:
		return game.Decision{Action: game.ActionRoll, Reasoning: "bank-bot rolling"}, true
	case game.AfterSpin, game.End:
		return game.Decision{Action: game.ActionBank, Reasoning: "bank-bot banking"}, true
	}
	return game.Decision{}, false
}
