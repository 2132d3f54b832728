package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 100, Ratio("chelsea", "chelsea"))
	assert.Equal(t, 0, Ratio("", "chelsea"))
	assert.Equal(t, 0, Ratio("chelsea", ""))

	// (len(a)+len(b)-dist)*100/(len(a)+len(b)): dist("kitten","sitting")=3.
	assert.Equal(t, 76, Ratio("kitten", "sitting"))

	// Symmetric.
	assert.Equal(t, Ratio("benfica", "braga"), Ratio("braga", "benfica"))
}

func TestPartialRatio(t *testing.T) {
	t.Parallel()

	// The abbreviated name scores well against its best same-length window.
	assert.GreaterOrEqual(t, PartialRatio("man utd", "manchester united"), 60)

	// Exact containment scores 100.
	assert.Equal(t, 100, PartialRatio("united", "manchester united"))

	// Equal-length inputs degrade to the plain ratio.
	assert.Equal(t, Ratio("benfica", "sevilla"), PartialRatio("benfica", "sevilla"))

	assert.Equal(t, 0, PartialRatio("", "chelsea"))
}

func TestScore(t *testing.T) {
	t.Parallel()

	// Score takes whichever metric is higher.
	for _, pair := range [][2]string{
		{"man utd", "manchester united"},
		{"chelsea", "chelsea"},
		{"psg", "real madrid"},
	} {
		s := Score(pair[0], pair[1])
		assert.GreaterOrEqual(t, s, Ratio(pair[0], pair[1]))
		assert.GreaterOrEqual(t, s, PartialRatio(pair[0], pair[1]))
	}
}

func TestScoreBounds(t *testing.T) {
	t.Parallel()

	pairs := [][2]string{
		{"a", "completely different name entirely"},
		{"chelsea", "chelsea"},
		{"", ""},
		{"x", "y"},
		{"benfica lisbon", "sl benfica"},
	}
	for _, pair := range pairs {
		for _, s := range []int{
			Ratio(pair[0], pair[1]),
			PartialRatio(pair[0], pair[1]),
			Score(pair[0], pair[1]),
			ScoreWithBonus(pair[0], pair[1]),
		} {
			assert.GreaterOrEqual(t, s, 0)
			assert.LessOrEqual(t, s, 100)
		}
	}
}

func TestScoreWithBonus(t *testing.T) {
	t.Parallel()

	// Containment caps at 100, never beyond.
	assert.Equal(t, 100, ScoreWithBonus("psg", "psg handball"))

	// Without containment the bonus does not apply.
	assert.Equal(t, Score("benfica", "sevilla"), ScoreWithBonus("benfica", "sevilla"))
}
