// Package translate maps source-language team and league names onto the
// canonical display names used by the fixture sources.
package translate

import (
	"encoding/json"
	"os"

	"go.uber.org/zap"

	"github.com/fortuna/kickoff/internal/names"
	"github.com/fortuna/kickoff/internal/similarity"
)

const (
	// DefaultTeamThreshold is the minimum fallback-search score for a
	// team name to be adopted.
	DefaultTeamThreshold = 60

	// ShortTeamThreshold applies to normalized names shorter than
	// ShortNameCutoff, where edit-distance ratios are unstable.
	ShortTeamThreshold = 40
	ShortNameCutoff    = 7
)

// Dictionary is the static translation mapping loaded once per run.
type Dictionary struct {
	Leagues map[string]string `json:"leagues"`
	Teams   map[string]string `json:"teams"`
}

// LoadDictionary reads the dictionary file. A missing or malformed file
// degrades to empty maps and is never fatal.
func LoadDictionary(path string, log *zap.Logger) *Dictionary {
	empty := &Dictionary{Leagues: map[string]string{}, Teams: map[string]string{}}
	if path == "" {
		return empty
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn("translation dictionary unavailable, using empty maps",
			zap.String("path", path), zap.Error(err))
		return empty
	}

	var dict Dictionary
	if err := json.Unmarshal(data, &dict); err != nil {
		log.Warn("translation dictionary malformed, using empty maps",
			zap.String("path", path), zap.Error(err))
		return empty
	}
	if dict.Leagues == nil {
		dict.Leagues = map[string]string{}
	}
	if dict.Teams == nil {
		dict.Teams = map[string]string{}
	}
	return &dict
}

// Translator resolves source-language names via the dictionary, falling back
// to a fuzzy search over the live canonical set for teams.
type Translator struct {
	dict *Dictionary
	log  *zap.Logger
}

// NewTranslator creates a translator over a loaded dictionary.
func NewTranslator(dict *Dictionary, log *zap.Logger) *Translator {
	if dict == nil {
		dict = &Dictionary{Leagues: map[string]string{}, Teams: map[string]string{}}
	}
	return &Translator{dict: dict, log: log}
}

// League translates a league name, falling back to the input unchanged.
func (t *Translator) League(name string) string {
	if translated, ok := t.dict.Leagues[name]; ok {
		return translated
	}
	return name
}

// TeamInDictionary reports the dictionary translation for a team name, if any.
func (t *Translator) TeamInDictionary(name string) (string, bool) {
	translated, ok := t.dict.Teams[name]
	return translated, ok
}

// Team translates a team name. On a dictionary miss it searches the known
// canonical team names for the best fuzzy match above threshold; this only
// produces useful results after the fixture sources have populated the set,
// before that it degrades to returning the input.
func (t *Translator) Team(name string, known []string, threshold int) string {
	if translated, ok := t.dict.Teams[name]; ok {
		return translated
	}
	return t.fallback(name, known, threshold)
}

// fallback is a heuristic join against live data: the highest-scoring known
// name wins if it clears the threshold, with a containment bonus and a
// lowered threshold for short inputs.
func (t *Translator) fallback(name string, known []string, threshold int) string {
	if threshold <= 0 {
		threshold = DefaultTeamThreshold
	}
	normalized := names.Normalize(name)
	if normalized == "" {
		return name
	}
	if len([]rune(normalized)) < ShortNameCutoff && threshold > ShortTeamThreshold {
		threshold = ShortTeamThreshold
	}

	best := name
	bestScore := 0
	for _, candidate := range known {
		score := similarity.ScoreWithBonus(normalized, names.Normalize(candidate))
		if score > bestScore && score >= threshold {
			best = candidate
			bestScore = score
		}
	}

	if best != name {
		t.log.Debug("team fallback mapping",
			zap.String("from", name), zap.String("to", best), zap.Int("score", bestScore))
	}
	return best
}
