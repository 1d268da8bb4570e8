package game

import (
	"encoding/json"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allFaces calls fn for every one of the 6^5 possible results.
func allFaces(fn func(Faces)) {
	var f Faces
	var rec func(i int)
	rec = func(i int) {
		if i == DiceCount {
			fn(f)
			return
		}
		for v := 1; v <= 6; v++ {
			f[i] = v
			rec(i + 1)
		}
	}
	rec(0)
}

func permutations(values []int) [][]int {
	if len(values) <= 1 {
		return [][]int{slices.Clone(values)}
	}
	var out [][]int
	for i := range values {
		rest := append(slices.Clone(values[:i]), values[i+1:]...)
		for _, p := range permutations(rest) {
			out = append(out, append([]int{values[i]}, p...))
		}
	}
	return out
}

func faces(values ...int) Faces {
	var f Faces
	copy(f[:], values)
	return f
}

func TestEvaluate_AllResults(t *testing.T) {
	n := 0
	allFaces(func(f Faces) {
		n++
		score := Evaluate(f)
		if score.Reward < 0 {
			t.Fatalf("negative reward %d for %v", score.Reward, f)
		}
		if again := Evaluate(f); again != score {
			t.Fatalf("re-scoring %v gave %+v then %+v", f, score, again)
		}

		sorted := f
		slices.Sort(sorted[:])
		if s := Evaluate(sorted); s != score {
			t.Fatalf("order dependent score for %v: %+v vs sorted %+v", f, score, s)
		}

		if score.Reward == 0 && score.Highlighted != 0 {
			t.Fatalf("zero reward with highlighted faces %s for %v", score.Highlighted, f)
		}
		for _, h := range score.Highlighted.Faces() {
			if !slices.Contains(f[:], h) {
				t.Fatalf("highlighted face %d not in roll %v", h, f)
			}
		}
	})
	assert.Equal(t, 7776, n)
}

func TestEvaluate_Straights(t *testing.T) {
	for _, p := range permutations([]int{1, 2, 3, 4, 5}) {
		score := Evaluate(faces(p...))
		assert.Equal(t, 1000, score.Reward, "roll %v", p)
		assert.Equal(t, []int{1, 2, 3, 4, 5}, score.Highlighted.Faces(), "roll %v", p)
	}
	for _, p := range permutations([]int{2, 3, 4, 5, 6}) {
		score := Evaluate(faces(p...))
		assert.Equal(t, 1500, score.Reward, "roll %v", p)
		assert.Equal(t, []int{2, 3, 4, 5, 6}, score.Highlighted.Faces(), "roll %v", p)
	}
}

func TestEvaluate_DuplicatesNeverStraight(t *testing.T) {
	allFaces(func(f Faces) {
		counts := Counts(f)
		dup := false
		for _, c := range counts {
			if c > 1 {
				dup = true
			}
		}
		if !dup {
			return
		}
		if _, ok := Straight(f); ok {
			t.Fatalf("%v has a duplicate but scored as straight", f)
		}
	})
}

func TestEvaluate_Combinations(t *testing.T) {
	tests := []struct {
		name      string
		roll      Faces
		reward    int
		highlight []int
	}{
		{"three ones", faces(1, 1, 1, 2, 3), 1000, []int{1}},
		{"pair of fives and three threes", faces(5, 5, 3, 3, 3), 400, []int{3, 5}},
		{"nothing scores", faces(2, 2, 4, 4, 6), 0, []int{}},
		{"single one and single five", faces(1, 5, 2, 3, 3), 150, []int{1, 5}},
		{"four sixes and a one", faces(6, 6, 6, 6, 1), 1300, []int{1, 6}},
		{"five twos", faces(2, 2, 2, 2, 2), 800, []int{2}},
		{"five ones", faces(1, 1, 1, 1, 1), 4000, []int{1}},
		{"four fives and a one", faces(5, 5, 5, 5, 1), 1100, []int{1, 5}},
		{"three fours and two ones", faces(4, 1, 4, 1, 4), 600, []int{1, 4}},
		{"broken straight", faces(1, 2, 3, 4, 6), 100, []int{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := Evaluate(tt.roll)
			assert.Equal(t, tt.reward, score.Reward)
			assert.Equal(t, tt.highlight, score.Highlighted.Faces())
		})
	}
}

func TestYield(t *testing.T) {
	ones := []int{0, 100, 200, 1000, 2000, 4000}
	fives := []int{0, 50, 100, 500, 1000, 2000}
	for c := 0; c <= 5; c++ {
		assert.Equal(t, ones[c], Yield(1, c), "ones x%d", c)
		assert.Equal(t, fives[c], Yield(5, c), "fives x%d", c)
	}
	for _, f := range []int{2, 3, 4, 6} {
		assert.Zero(t, Yield(f, 1))
		assert.Zero(t, Yield(f, 2))
		assert.Equal(t, f*100, Yield(f, 3))
		assert.Equal(t, f*200, Yield(f, 4))
		assert.Equal(t, f*400, Yield(f, 5))
	}
	assert.Zero(t, Yield(1, 6))
	assert.Zero(t, Yield(7, 3))
}

func TestFaceSet(t *testing.T) {
	var s FaceSet
	assert.Equal(t, 0, s.Len())
	s = s.With(3).With(5).With(3).With(9)
	assert.True(t, s.Has(3))
	assert.True(t, s.Has(5))
	assert.False(t, s.Has(9))
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, "{3,5}", s.String())

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `[3,5]`, string(data))

	var decoded FaceSet
	require.NoError(t, json.Unmarshal([]byte(`[1,6]`), &decoded))
	assert.Equal(t, []int{1, 6}, decoded.Faces())
	assert.Error(t, json.Unmarshal([]byte(`[0]`), &decoded))
}

func TestParseFaces(t *testing.T) {
	f, err := ParseFaces([]int{1, 2, 3, 4, 5})
	require.NoError(t, err)
	assert.Equal(t, faces(1, 2, 3, 4, 5), f)

	_, err = ParseFaces([]int{1, 2, 3})
	assert.Error(t, err)
	_, err = ParseFaces([]int{1, 2, 3, 4, 7})
	assert.Error(t, err)
}
