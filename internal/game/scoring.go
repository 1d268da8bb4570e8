package game

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DiceCount is the number of dice every side rolls.
const DiceCount = 5

// Faces is one five-die result.
type Faces [DiceCount]int

// FaceSet is a set of die faces 1..6 stored as a bitmask.
type FaceSet uint8

// Has reports whether face is in the set.
func (s FaceSet) Has(face int) bool {
	if face < 1 || face > 6 {
		return false
	}
	return s&(1<<face) != 0
}

// With returns a copy of the set including face.
func (s FaceSet) With(face int) FaceSet {
	if face < 1 || face > 6 {
		return s
	}
	return s | 1<<face
}

// Len returns the number of faces in the set.
func (s FaceSet) Len() int {
	n := 0
	for f := 1; f <= 6; f++ {
		if s.Has(f) {
			n++
		}
	}
	return n
}

// Faces returns the members in ascending order.
func (s FaceSet) Faces() []int {
	faces := make([]int, 0, 6)
	for f := 1; f <= 6; f++ {
		if s.Has(f) {
			faces = append(faces, f)
		}
	}
	return faces
}

func (s FaceSet) String() string {
	parts := make([]string, 0, 6)
	for _, f := range s.Faces() {
		parts = append(parts, fmt.Sprint(f))
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// MarshalJSON encodes the set as an ascending list of faces.
func (s FaceSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Faces())
}

// UnmarshalJSON decodes a list of faces.
func (s *FaceSet) UnmarshalJSON(data []byte) error {
	var faces []int
	if err := json.Unmarshal(data, &faces); err != nil {
		return err
	}
	var set FaceSet
	for _, f := range faces {
		if f < 1 || f > 6 {
			return fmt.Errorf("invalid face %d", f)
		}
		set = set.With(f)
	}
	*s = set
	return nil
}

// Score is the evaluation of a roll result.
type Score struct {
	Reward int `json:"reward"`
	// Highlighted holds the faces that contributed to the reward. It is only
	// used for emphasis when rendering.
	Highlighted FaceSet `json:"highlighted"`
}

const (
	lowStraightReward  = 1000
	highStraightReward = 1500

	lowStraight  FaceSet = 1<<1 | 1<<2 | 1<<3 | 1<<4 | 1<<5
	highStraight FaceSet = 1<<2 | 1<<3 | 1<<4 | 1<<5 | 1<<6
)

// Yield returns the points earned by count dice showing face.
func Yield(face, count int) int {
	switch face {
	case 1:
		switch count {
		case 1:
			return 100
		case 2:
			return 200
		case 3:
			return 1000
		case 4:
			return 2000
		case 5:
			return 4000
		}
	case 5:
		switch count {
		case 1:
			return 50
		case 2:
			return 100
		case 3:
			return 500
		case 4:
			return 1000
		case 5:
			return 2000
		}
	case 2, 3, 4, 6:
		switch count {
		case 3:
			return face * 100
		case 4:
			return face * 200
		case 5:
			return face * 400
		}
	}
	return 0
}

// Counts returns how many dice show each face. Index 0 is unused.
func Counts(faces Faces) [7]int {
	var counts [7]int
	for _, f := range faces {
		if f >= 1 && f <= 6 {
			counts[f]++
		}
	}
	return counts
}

// Straight reports whether faces form one of the two straights and returns
// its reward.
func Straight(faces Faces) (int, bool) {
	var set FaceSet
	for _, f := range faces {
		set = set.With(f)
	}
	switch set {
	case lowStraight:
		return lowStraightReward, true
	case highStraight:
		return highStraightReward, true
	}
	return 0, false
}

// Evaluate scores a roll result. A result with no scoring combination
// returns the zero Score.
func Evaluate(faces Faces) Score {
	if reward, ok := Straight(faces); ok {
		if reward == lowStraightReward {
			return Score{Reward: reward, Highlighted: lowStraight}
		}
		return Score{Reward: reward, Highlighted: highStraight}
	}

	counts := Counts(faces)
	var score Score
	for face := 1; face <= 6; face++ {
		if points := Yield(face, counts[face]); points > 0 {
			score.Reward += points
			score.Highlighted = score.Highlighted.With(face)
		}
	}
	return score
}

// ValidFaces reports whether every face is in 1..6.
func ValidFaces(faces Faces) bool {
	for _, f := range faces {
		if f < 1 || f > 6 {
			return false
		}
	}
	return true
}

// ParseFaces converts five integers into Faces.
func ParseFaces(values []int) (Faces, error) {
	var faces Faces
	if len(values) != DiceCount {
		return faces, fmt.Errorf("expected %d faces, got %d", DiceCount, len(values))
	}
	copy(faces[:], values)
	if !ValidFaces(faces) {
		return faces, fmt.Errorf("faces must be between 1 and 6: %v", values)
	}
	return faces, nil
}
