package game

// DieView is the presentation state of one die.
type DieView struct {
	Face    int  `json:"face"`
	Locked  bool `json:"locked"`
	Rolling bool `json:"rolling"`
}

// SideSnapshot projects one turn engine.
type SideSnapshot struct {
	Side        Side               `json:"side"`
	State       TurnState          `json:"state"`
	Dice        [DiceCount]DieView `json:"dice"`
	TurnPoints  int                `json:"turnPoints"`
	Balance     int                `json:"balance"`
	Highlighted FaceSet            `json:"highlighted"`
	Rolling     bool               `json:"rolling"`
	CanAct      bool               `json:"canAct"`
}

// Snapshot is the read-only projection handed to presenters. It is a
// comparable value so callers can skip unchanged frames with ==.
type Snapshot struct {
	MatchID  string          `json:"matchId"`
	Target   int             `json:"target"`
	Active   Side            `json:"active"`
	GameOver bool            `json:"gameOver"`
	Winner   string          `json:"winner,omitempty"`
	Status   string          `json:"status"`
	Sides    [2]SideSnapshot `json:"sides"`
}

// Side returns the projection of side s.
func (s Snapshot) Side(side Side) SideSnapshot {
	if !side.Valid() {
		return SideSnapshot{}
	}
	return s.Sides[side]
}
