// Package similarity scores how alike two normalized names are on a 0-100
// scale. Callers choose between the symmetric edit-distance ratio and the
// partial (substring-window) ratio depending on how much a source abbreviates.
package similarity

import (
	"strings"

	"github.com/hbollon/go-edlib"
)

// ContainmentBonus rewards exact containment over statistical similarity:
// "psg" inside "psg handball" is stronger evidence than its raw ratio.
const ContainmentBonus = 20

// Ratio is the symmetric edit-distance ratio of a and b: 100 when equal,
// high when the strings are close in length and content, 0 when either side
// is empty.
func Ratio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	dist := edlib.LevenshteinDistance(a, b)
	score := (total - dist) * 100 / total
	return clamp(score)
}

// PartialRatio slides the shorter string over same-length windows of the
// longer one and returns the best Ratio. It is high when one name is
// contained token-wise in the other, which abbreviating sources produce
// constantly ("Man Utd" vs "Manchester United").
func PartialRatio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == len(long) {
		return Ratio(string(short), string(long))
	}

	best := 0
	for i := 0; i+len(short) <= len(long); i++ {
		window := string(long[i : i+len(short)])
		if score := Ratio(string(short), window); score > best {
			best = score
			if best == 100 {
				break
			}
		}
	}
	return best
}

// Score is the max of Ratio and PartialRatio, the engine's default metric
// for team-name comparison across sources with mixed abbreviation habits.
func Score(a, b string) int {
	r := Ratio(a, b)
	if p := PartialRatio(a, b); p > r {
		return p
	}
	return r
}

// ScoreWithBonus adds ContainmentBonus when one string literally contains
// the other, clamped to 100. Used by the translation fallback search.
func ScoreWithBonus(a, b string) int {
	score := Score(a, b)
	if a != "" && b != "" && (strings.Contains(a, b) || strings.Contains(b, a)) {
		score += ContainmentBonus
	}
	return clamp(score)
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
