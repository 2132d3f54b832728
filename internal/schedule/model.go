// Package schedule holds the canonical match model produced by the
// aggregation pipeline and consumed by the persistence and API layers.
package schedule

import (
	"strconv"
	"strings"

	"github.com/fortuna/kickoff/internal/names"
)

// DefaultDuration is the nominal stream-length hint attached to every
// auto-discovered match, in hours.
const DefaultDuration = "3.5"

// DefaultIcon is the placeholder sport icon for matches whose source
// provides none.
const DefaultIcon = "https://via.placeholder.com/30.png?text=Soccer"

// Team is one side of a fixture. Name is the display form (post-translation),
// Logo may be empty for listing-derived teams.
type Team struct {
	Name string `json:"name"`
	Logo string `json:"logo"`
}

// Server is a single stream link. Identity within a match is the normalized
// URL; Label is presentation only and may collide.
type Server struct {
	URL   string `json:"url"`
	Label string `json:"label"`
}

// Match is the merged, deduplicated record of one real-world fixture.
type Match struct {
	ID          string   `json:"id"`
	League      string   `json:"league"`
	Team1       Team     `json:"team1"`
	Team2       Team     `json:"team2"`
	KickoffDate string   `json:"kickoff_date"`
	KickoffTime string   `json:"kickoff_time"`
	MatchDate   string   `json:"match_date"`
	MatchTime   string   `json:"match_time"`
	Duration    string   `json:"duration"`
	Icon        string   `json:"icon"`
	Servers     []Server `json:"servers"`
	IsWomens    bool     `json:"is_womens"`
}

// BuildMatchID derives the deterministic fixture id from the two team names
// in the order given. Home/away order is preserved, never canonicalized:
// reconciliation checks both orientations by name, not by id.
func BuildMatchID(team1, team2 string) string {
	return names.Compact(team1) + "-" + names.Compact(team2)
}

// NormalizeServerURL lower-cases a stream URL and strips the trailing slash.
// Two servers with equal normalized URLs are the same server.
func NormalizeServerURL(url string) string {
	return strings.TrimRight(strings.ToLower(url), "/")
}

// HasServer reports whether the match already carries a server with the
// same normalized URL.
func (m *Match) HasServer(url string) bool {
	normalized := NormalizeServerURL(url)
	for _, s := range m.Servers {
		if NormalizeServerURL(s.URL) == normalized {
			return true
		}
	}
	return false
}

// AddServer appends a server unless its normalized URL is already present.
// Existing entries are never reordered. Reports whether the server was added.
func (m *Match) AddServer(s Server) bool {
	if s.URL == "" || m.HasServer(s.URL) {
		return false
	}
	m.Servers = append(m.Servers, s)
	return true
}

// NextSequentialLabel returns the next "CH-n" label for this match, counting
// existing sequential labels so merges from multiple passes keep counting up.
func (m *Match) NextSequentialLabel() string {
	count := 0
	for _, s := range m.Servers {
		if strings.HasPrefix(s.Label, "CH-") {
			count++
		}
	}
	return "CH-" + strconv.Itoa(count+1)
}
