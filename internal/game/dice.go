package game

import "time"

// Source supplies the randomness for rolls.
type Source interface {
	// Face returns a uniform face in 1..6.
	Face() int
	// SpinDuration returns a uniform spin time within the configured range.
	SpinDuration() time.Duration
}

// Die is a single die. Face is meaningless while the die is rolling.
type Die struct {
	Face    int
	Locked  bool
	Rolling bool

	stopAt time.Time
}

// Dice holds the five dice of one turn engine. A locked die never rolls.
type Dice struct {
	dice [DiceCount]Die
}

// Start begins a roll: every unlocked die starts rolling and receives a stop
// deadline of now + spin + index*stagger. It returns the number of dice
// started.
func (d *Dice) Start(now time.Time, src Source, stagger time.Duration) int {
	started := 0
	for i := range d.dice {
		die := &d.dice[i]
		if die.Locked {
			die.Rolling = false
			continue
		}
		die.Rolling = true
		die.stopAt = now.Add(src.SpinDuration() + time.Duration(i)*stagger)
		started++
	}
	return started
}

// Advance stops every rolling die whose deadline has passed, giving it a
// fresh face. It returns the indexes of the dice that stopped.
func (d *Dice) Advance(now time.Time, src Source) []int {
	var stopped []int
	for i := range d.dice {
		die := &d.dice[i]
		if !die.Rolling || now.Before(die.stopAt) {
			continue
		}
		die.Rolling = false
		die.Face = src.Face()
		stopped = append(stopped, i)
	}
	return stopped
}

// Rolling reports whether any die is still rolling.
func (d *Dice) Rolling() bool {
	for _, die := range d.dice {
		if die.Rolling {
			return true
		}
	}
	return false
}

// AnyLocked reports whether at least one die is locked.
func (d *Dice) AnyLocked() bool {
	for _, die := range d.dice {
		if die.Locked {
			return true
		}
	}
	return false
}

// Toggle flips the locked flag of die i. Rolling dice and out of range
// indexes are left alone.
func (d *Dice) Toggle(i int) bool {
	if i < 0 || i >= DiceCount || d.dice[i].Rolling {
		return false
	}
	d.dice[i].Locked = !d.dice[i].Locked
	return true
}

// Unlock clears every lock.
func (d *Dice) Unlock() {
	for i := range d.dice {
		d.dice[i].Locked = false
	}
}

// Reset returns every die to its zero state.
func (d *Dice) Reset() {
	d.dice = [DiceCount]Die{}
}

// Faces returns the current face of every die.
func (d *Dice) Faces() Faces {
	var faces Faces
	for i, die := range d.dice {
		faces[i] = die.Face
	}
	return faces
}

// Locked returns the locked flag of every die.
func (d *Dice) Locked() [DiceCount]bool {
	var locked [DiceCount]bool
	for i, die := range d.dice {
		locked[i] = die.Locked
	}
	return locked
}

// View returns a read-only projection of the dice.
func (d *Dice) View() [DiceCount]DieView {
	var view [DiceCount]DieView
	for i, die := range d.dice {
		view[i] = DieView{Face: die.Face, Locked: die.Locked, Rolling: die.Rolling}
	}
	return view
}
