package bot

import (
	"context"
	"io"
	rand "math/rand/v2"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/diceduel/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChooseLock(t *testing.T) {
	tests := []struct {
		name     string
		faces    game.Faces
		face     int
		marginal int
		dice     []int
	}{
		{"pair of ones beats a five", game.Faces{1, 1, 5, 2, 3}, 1, 800, []int{0, 1}},
		{"tie goes to the lower face", game.Faces{4, 4, 5, 5, 2}, 4, 400, []int{0, 1}},
		{"three sixes", game.Faces{6, 2, 6, 3, 6}, 6, 600, []int{0, 2, 4}},
		{"pair of fours beats a five", game.Faces{2, 3, 5, 4, 4}, 4, 400, []int{3, 4}},
		{"pair of sixes", game.Faces{2, 3, 5, 6, 6}, 6, 600, []int{3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, ok := ChooseLock(tt.faces)
			require.True(t, ok)
			assert.Equal(t, tt.face, plan.Face)
			assert.Equal(t, tt.marginal, plan.Marginal)
			assert.Equal(t, tt.dice, plan.Dice)
		})
	}
}

func TestChooseLock_NothingToGain(t *testing.T) {
	for _, faces := range []game.Faces{{3, 3, 3, 3, 3}, {1, 1, 1, 1, 1}} {
		_, ok := ChooseLock(faces)
		assert.False(t, ok, "five of a kind %v has no room for another die", faces)
	}
}

func TestChooseLock_NeverLocksWorthlessFaces(t *testing.T) {
	var f game.Faces
	var rec func(i int)
	rec = func(i int) {
		if i == game.DiceCount {
			plan, ok := ChooseLock(f)
			if !ok {
				return
			}
			counts := game.Counts(f)
			if plan.Marginal <= 0 || counts[plan.Face] == 0 {
				t.Fatalf("bad plan %+v for %v", plan, f)
			}
			if len(plan.Dice) != counts[plan.Face] {
				t.Fatalf("plan %+v does not lock every %d in %v", plan, plan.Face, f)
			}
			for _, d := range plan.Dice {
				if f[d] != plan.Face {
					t.Fatalf("plan %+v locks die %d showing %d", plan, d, f[d])
				}
			}
			return
		}
		for v := 1; v <= 6; v++ {
			f[i] = v
			rec(i + 1)
		}
	}
	rec(0)
}

func TestMarginal(t *testing.T) {
	assert.Equal(t, 800, Marginal(1, 2))
	assert.Equal(t, 50, Marginal(5, 1))
	assert.Equal(t, 0, Marginal(2, 1))
	assert.Equal(t, 200, Marginal(2, 2))
}

func view(state game.TurnState, faces game.Faces) game.TurnView {
	return game.TurnView{Side: game.Bot, State: state, Faces: faces, CanAct: true}
}

func TestPolicy_WaitsForThinkingDelays(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clock := quartz.NewMock(t)
	p := NewPolicy(DefaultDelays(), log.New(io.Discard))

	_, ok := p.Decide(view(game.Spin, game.Faces{}), clock.Now())
	assert.False(t, ok, "thinking before the first roll")

	clock.Advance(1999 * time.Millisecond).MustWait(ctx)
	_, ok = p.Decide(view(game.Spin, game.Faces{}), clock.Now())
	assert.False(t, ok)

	clock.Advance(time.Millisecond).MustWait(ctx)
	d, ok := p.Decide(view(game.Spin, game.Faces{}), clock.Now())
	require.True(t, ok)
	assert.Equal(t, game.ActionRoll, d.Action)

	rolled := game.Faces{1, 1, 5, 2, 3}
	_, ok = p.Decide(view(game.AfterSpin, rolled), clock.Now())
	assert.False(t, ok)
	clock.Advance(3 * time.Second).MustWait(ctx)
	d, ok = p.Decide(view(game.AfterSpin, rolled), clock.Now())
	require.True(t, ok)
	assert.Equal(t, game.ActionLock, d.Action)
	assert.Equal(t, []int{0, 1}, d.Dice)
	assert.NotEmpty(t, d.Reasoning)

	locked := view(game.AfterSpin, rolled)
	locked.Locked = [game.DiceCount]bool{true, true}
	_, ok = p.Decide(locked, clock.Now())
	assert.False(t, ok)
	clock.Advance(500 * time.Millisecond).MustWait(ctx)
	d, ok = p.Decide(locked, clock.Now())
	require.True(t, ok)
	assert.Equal(t, game.ActionRollLocked, d.Action)

	end := view(game.End, game.Faces{1, 1, 6, 6, 2})
	_, ok = p.Decide(end, clock.Now())
	assert.False(t, ok)
	clock.Advance(2 * time.Second).MustWait(ctx)
	d, ok = p.Decide(end, clock.Now())
	require.True(t, ok)
	assert.Equal(t, game.ActionBank, d.Action)
}

func TestPolicy_IdleWithoutTurn(t *testing.T) {
	p := NewPolicy(NoDelays(), nil)
	v := view(game.Spin, game.Faces{})
	v.CanAct = false
	_, ok := p.Decide(v, time.Now())
	assert.False(t, ok)

	v.CanAct = true
	v.Rolling = true
	_, ok = p.Decide(v, time.Now())
	assert.False(t, ok)
}

func TestPolicy_BanksOnStraight(t *testing.T) {
	p := NewPolicy(NoDelays(), nil)
	d, ok := p.Decide(view(game.AfterSpin, game.Faces{3, 1, 2, 5, 4}), time.Now())
	require.True(t, ok)
	assert.Equal(t, game.ActionBank, d.Action)
}

func TestPolicy_BanksWhenNothingGains(t *testing.T) {
	p := NewPolicy(NoDelays(), nil)
	d, ok := p.Decide(view(game.AfterSpin, game.Faces{2, 2, 2, 2, 2}), time.Now())
	require.True(t, ok)
	assert.Equal(t, game.ActionBank, d.Action)
}

func TestPolicy_PlaysBotTurnInMatch(t *testing.T) {
	src := game.NewScriptedSource(2, 2, 4, 4, 6, 1, 1, 5, 2, 3, 2, 6, 6)
	policy := NewPolicy(NoDelays(), nil)
	m := game.NewTestMatch(quartz.NewMock(t), src, game.WithAgent(game.Bot, policy))

	var events []game.GameEvent
	m.EventBus().Subscribe(&recorder{events: &events})

	require.True(t, game.RollTo(m, game.Human, false))
	require.True(t, m.RequestBank(game.Human))

	for i := 0; i < 20 && m.Active() == game.Bot; i++ {
		m.Tick()
	}
	require.Equal(t, game.Human, m.Active())

	var locks []int
	var resolved []game.RollResolvedEvent
	for _, ev := range events {
		switch e := ev.(type) {
		case game.LockToggledEvent:
			locks = append(locks, e.Die)
		case game.RollResolvedEvent:
			if e.Side == game.Bot {
				resolved = append(resolved, e)
			}
		}
	}
	assert.Equal(t, []int{0, 1}, locks, "only the ones are locked")
	require.Len(t, resolved, 2)
	assert.Equal(t, game.Faces{1, 1, 5, 2, 3}, resolved[0].Faces)
	assert.Equal(t, game.Faces{1, 1, 2, 6, 6}, resolved[1].Faces)
	assert.Equal(t, game.End, resolved[1].State)
	// The bot banks after the re-roll no matter what it shows.
	assert.Equal(t, 200, m.Engine(game.Bot).Balance())
}

func TestNew(t *testing.T) {
	for _, s := range Strategies {
		agent, err := New(s, NoDelays(), rand.New(rand.NewPCG(1, 2)), nil)
		require.NoError(t, err, s)
		assert.NotNil(t, agent)
	}
	_, err := New(Random, NoDelays(), nil, nil)
	assert.Error(t, err)
	_, err = New("psychic", NoDelays(), nil, nil)
	assert.Error(t, err)
}

func TestRandBot_OnlyLegalMoves(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	r := NewRandBot(rng, log.New(io.Discard))
	for i := 0; i < 200; i++ {
		v := view(game.AfterSpin, game.Faces{1, 2, 3, 4, 6})
		d, ok := r.Decide(v, time.Now())
		require.True(t, ok)
		switch d.Action {
		case game.ActionLock:
			assert.NotEmpty(t, d.Dice)
			d, ok = r.Decide(v, time.Now())
			require.True(t, ok)
			assert.Equal(t, game.ActionRollLocked, d.Action)
		case game.ActionBank:
		default:
			t.Fatalf("unexpected action %s in AfterSpin", d.Action)
		}
	}
}

type recorder struct {
	events *[]game.GameEvent
}

func (r *recorder) OnEvent(event game.GameEvent) {
	*r.events = append(*r.events, event)
}
