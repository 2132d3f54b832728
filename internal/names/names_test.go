package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"Chelsea FC", "chelsea"},
		{"Bayern München", "bayern munchen"},
		{"Atlético Madrid", "atletico madrid"},
		{"São Paulo FC", "sao paulo"},
		{"Arsenal (W)", "arsenal"},
		{"Flamengo RJ", "flamengo"},
		{"Real   Madrid CF", "real madrid"},
		{"Saint-Étienne", "saintetienne"},
		{"MANCHESTER UNITED", "manchester united"},
		{"", ""},
		{"(W)", ""},
		{"!!!", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Normalize(tc.in), "input %q", tc.in)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"Chelsea FC",
		"Bayern München",
		"Arsenal (W)",
		"Internacional SC FC",
		"Real Madrid CF",
		"plain name",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestNormalizeStripsStackedSuffixes(t *testing.T) {
	t.Parallel()

	// Suffix stripping repeats until stable.
	assert.Equal(t, "santos", Normalize("Santos FC SC"))
}

func TestCompact(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "manchesterunited", Compact("Manchester United"))
	assert.Equal(t, "bayernmunchen", Compact("Bayern München"))
	assert.Equal(t, "", Compact("(W)"))
}

func TestIsWomens(t *testing.T) {
	t.Parallel()

	assert.True(t, IsWomens("Arsenal (W)"))
	assert.True(t, IsWomens("Chelsea W"))
	assert.True(t, IsWomens("England Women"))
	assert.True(t, IsWomens("Benfica", "Lyon (w)"))

	assert.False(t, IsWomens("Chelsea"))
	assert.False(t, IsWomens("Wolves"))
	assert.False(t, IsWomens("West Ham United"))
	assert.False(t, IsWomens())
}
