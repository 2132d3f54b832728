// Package manual applies operator-provided override entries. Manual links
// are higher-trust than anything scraped, so their servers are prepended and
// always shown first.
package manual

import (
	"encoding/json"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/fortuna/kickoff/internal/clock"
	"github.com/fortuna/kickoff/internal/schedule"
)

// Load reads the manual override file: an ordered list of full match
// records. A missing or malformed file degrades to no overrides.
func Load(path string, log *zap.Logger) []schedule.Match {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn("manual override file unavailable", zap.String("path", path), zap.Error(err))
		return nil
	}

	var overrides []schedule.Match
	if err := json.Unmarshal(data, &overrides); err != nil {
		log.Error("manual override file malformed, ignoring", zap.String("path", path), zap.Error(err))
		return nil
	}
	return overrides
}

// Apply merges the overrides into the canonical set. For an existing id the
// override's servers are prepended ahead of the auto-discovered ones
// (skipping normalized-URL duplicates) and is_womens is overwritten; an
// unknown id is inserted wholesale. Runs after every automatic pass.
func Apply(overrides []schedule.Match, set *schedule.Set, log *zap.Logger) {
	for i := range overrides {
		override := overrides[i]
		if override.ID == "" {
			log.Warn("manual override without id skipped")
			continue
		}
		if _, err := time.Parse(clock.TimeLayout, override.KickoffTime); err != nil {
			log.Warn("manual override with invalid kickoff time skipped",
				zap.String("id", override.ID), zap.String("kickoff_time", override.KickoffTime))
			continue
		}

		existing, ok := set.Get(override.ID)
		if !ok {
			m := override
			set.Upsert(&m)
			log.Info("manual match inserted", zap.String("id", override.ID))
			continue
		}

		merged := make([]schedule.Server, 0, len(override.Servers)+len(existing.Servers))
		for _, srv := range override.Servers {
			duplicate := false
			for _, have := range existing.Servers {
				if schedule.NormalizeServerURL(have.URL) == schedule.NormalizeServerURL(srv.URL) {
					duplicate = true
					break
				}
			}
			if !duplicate {
				merged = append(merged, srv)
			}
		}
		prepended := len(merged)
		merged = append(merged, existing.Servers...)
		existing.Servers = merged
		existing.IsWomens = override.IsWomens
		log.Info("manual servers merged",
			zap.String("id", override.ID), zap.Int("prepended", prepended))
	}
}
