// Package names canonicalizes free-text team and league names for
// cross-source comparison. Normalized forms are comparison keys only and
// must never be shown to users.
package names

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	womensMarker = regexp.MustCompile(`(?i)\(w\)`)
	nonWord      = regexp.MustCompile(`[^\w\s]`)
	whitespace   = regexp.MustCompile(`\s+`)

	// Trailing legal-entity tokens carry no identity: "Chelsea FC" and
	// "Chelsea" are the same club.
	legalSuffix = regexp.MustCompile(`(?i)\s+(FC|RJ|SC|AC|CF|SE|SA)$`)
)

// Normalize canonicalizes a raw team or league name. An empty result means
// the input carried no usable identity and must be treated as never matching.
func Normalize(raw string) string {
	s := womensMarker.ReplaceAllString(raw, "")
	s = foldDiacritics(s)
	s = nonWord.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	for {
		stripped := legalSuffix.ReplaceAllString(s, "")
		if stripped == s {
			break
		}
		s = stripped
	}
	return strings.ToLower(strings.TrimSpace(s))
}

// Compact is Normalize with internal whitespace removed, used for match ids.
func Compact(raw string) string {
	return strings.ReplaceAll(Normalize(raw), " ", "")
}

// IsWomens reports whether any of the given display names carries a women's
// fixture marker. Sources encode this as "(W)", a trailing " W" token, or a
// "Women" word in the name.
func IsWomens(displayNames ...string) bool {
	for _, name := range displayNames {
		if womensMarker.MatchString(name) {
			return true
		}
		trimmed := strings.TrimSpace(name)
		if strings.HasSuffix(trimmed, " W") {
			return true
		}
		if strings.Contains(strings.ToLower(trimmed), "women") {
			return true
		}
	}
	return false
}

// foldDiacritics decomposes accented letters and drops the combining marks,
// mapping names like "Bayern München" onto their base Latin form.
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
