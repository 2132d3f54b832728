package reconcile

import "time"

// Policy tunes the engine per source. The sources differ only in constants
// and gate selection, never in algorithm: abbreviation-heavy feeds run with
// loose team thresholds, augmentation-only feeds never create orphans, and
// only feeds with a reliable gender marker enable the gender gate.
type Policy struct {
	// Source names the policy for logging.
	Source string

	// LeagueThreshold is the minimum league-name score.
	LeagueThreshold int

	// TeamThreshold is the minimum per-name team score. Names shorter than
	// ShortNameCutoff (normalized runes) use ShortTeamThreshold instead.
	TeamThreshold      int
	ShortTeamThreshold int
	ShortNameCutoff    int

	// TimeWindow is the kickoff proximity accepted as a time match.
	TimeWindow time.Duration

	// UseDateGate lets candidate date equality satisfy the time/date gate
	// when the time window misses (some sources have only one reliable
	// signal).
	UseDateGate bool

	// UsePartialRatio enables the substring-window metric for team names,
	// needed for sources that abbreviate or prefix names.
	UsePartialRatio bool

	// GenderGate hard-blocks merging when the candidate's women's flag
	// disagrees with the canonical match's flag.
	GenderGate bool

	// CreateOrphans promotes unmatched candidates to new matches instead
	// of discarding their servers.
	CreateOrphans bool
}

// Defaults fills unset thresholds with safe values.
func (p Policy) withDefaults() Policy {
	if p.LeagueThreshold == 0 {
		p.LeagueThreshold = 30
	}
	if p.TeamThreshold == 0 {
		p.TeamThreshold = 70
	}
	if p.ShortTeamThreshold == 0 {
		p.ShortTeamThreshold = 40
	}
	if p.ShortNameCutoff == 0 {
		p.ShortNameCutoff = 5
	}
	if p.TimeWindow == 0 {
		p.TimeWindow = 120 * time.Minute
	}
	return p
}
