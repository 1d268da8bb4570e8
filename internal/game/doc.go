// Package game implements the core turn engine of the dice duel.
//
// Two sides (Human and Bot) take turns rolling five dice. Each turn runs on a
// TurnEngine, a small state machine that rolls the dice, scores the result,
// lets the side lock dice for one re-roll, and banks the points. The Match
// owns both engines, decides whose turn it is, and ends the match once a
// banked total reaches the target score.
//
// # Basic Usage
//
//	m, err := game.NewMatch(game.DefaultSettings(),
//	    game.WithClock(quartz.NewReal()),
//	    game.WithAgent(game.Bot, bot.NewPolicy(bot.DefaultDelays())),
//	)
//	if err != nil {
//	    return err
//	}
//	m.RequestRoll(game.Human)
//	for !m.IsOver() {
//	    m.Tick()
//	}
//
// # Scheduling
//
// Nothing in this package starts goroutines. Rolls are timed animations: a
// roll starts, each die gets a stop deadline, and every Tick compares the
// clock against those deadlines. The roll resolves on the first Tick after
// every die has stopped. Callers that receive actions from other goroutines
// must serialize them with Tick (see internal/server).
//
// # Deterministic Testing
//
// Inject a quartz mock clock and a seeded or scripted Source:
//
//	clock := quartz.NewMock(t)
//	src := randutil.NewDiceSource(randutil.New(42), 0, 0)
//	m, _ := game.NewMatch(game.DefaultSettings(), game.WithClock(clock), game.WithSource(src))
package game
