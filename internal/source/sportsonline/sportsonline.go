// Package sportsonline parses the plain-text programming feed
// ("HH:MM Home x Away | channel-url" lines). It is an augmentation-only
// server source: heavily abbreviated team names, no dates, no fixture
// authority.
package sportsonline

import (
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fortuna/kickoff/internal/clock"
	"github.com/fortuna/kickoff/internal/reconcile"
	"github.com/fortuna/kickoff/internal/schedule"
	"github.com/fortuna/kickoff/internal/translate"
)

var (
	scheduleLine = regexp.MustCompile(`(?i)^(\d{2}:\d{2})\s+((?:[^:]+?\s*:\s*)?)(.+?)\s(?:x|vs)\s+(.+?)\s*\|\s*(https?://sport[zs]online\.si/channels/[^\s]+)`)
	channelPath  = regexp.MustCompile(`/([^/]+)\.php$`)
)

const (
	// Fallback thresholds differ per side in practice: home names in this
	// feed are abbreviated harder than away names.
	homeFallbackThreshold = 50
	awayFallbackThreshold = 70
)

// Source describes the programming feed.
type Source struct {
	Name      string
	URL       string
	CacheFile string

	// Zone is the feed's local time zone.
	Zone *time.Location

	// DefaultLeague and DefaultWomensLeague substitute for rows without a
	// league prefix.
	DefaultLeague       string
	DefaultWomensLeague string
}

// Parser turns feed lines into reconciliation candidates.
type Parser struct {
	conv *clock.Converter
	tr   *translate.Translator
	log  *zap.Logger
}

// NewParser creates a feed parser.
func NewParser(conv *clock.Converter, tr *translate.Translator, log *zap.Logger) *Parser {
	return &Parser{conv: conv, tr: tr, log: log}
}

// Parse extracts candidates from the feed text. The feed is dateless, so
// every row is assumed to kick off today in the feed's zone. knownTeams is
// the live canonical team list the translation fallback searches.
func (p *Parser) Parse(text string, src Source, now time.Time, knownTeams []string) []reconcile.Candidate {
	var candidates []reconcile.Candidate
	currentDate := now.In(p.conv.Location()).Format(clock.DateLayout)

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		m := scheduleLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		timeStr, leaguePrefix, homeRaw, awayRaw, serverURL := m[1], m[2], m[3], m[4], m[5]

		homeRaw, homeW := stripWomensMarker(homeRaw)
		awayRaw, awayW := stripWomensMarker(awayRaw)

		isWomens := homeW || awayW
		if t, ok := p.tr.TeamInDictionary(homeRaw); ok && strings.HasSuffix(t, " Women") {
			isWomens = true
		}
		if t, ok := p.tr.TeamInDictionary(awayRaw); ok && strings.HasSuffix(t, " Women") {
			isWomens = true
		}

		league := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(leaguePrefix), ":"))
		if league == "" {
			if isWomens {
				league = src.DefaultWomensLeague
			} else {
				league = src.DefaultLeague
			}
		} else {
			league = p.tr.League(league)
		}

		home := p.tr.Team(homeRaw, knownTeams, homeFallbackThreshold)
		away := p.tr.Team(awayRaw, knownTeams, awayFallbackThreshold)
		if len(home) < 2 || len(away) < 2 {
			p.log.Warn("listing row with unusable team names skipped",
				zap.String("source", src.Name),
				zap.String("home", home), zap.String("away", away))
			continue
		}

		refDate, refTime, err := p.conv.ToReference(currentDate, timeStr, src.Zone)
		if err != nil {
			p.log.Warn("listing time conversion failed, row skipped",
				zap.String("source", src.Name), zap.String("line", line), zap.Error(err))
			continue
		}

		embedURL, ok := EmbedURL(serverURL)
		if !ok {
			p.log.Debug("channel url not recognized",
				zap.String("source", src.Name), zap.String("url", serverURL))
			continue
		}

		candidates = append(candidates, reconcile.Candidate{
			League:   league,
			HomeTeam: home,
			AwayTeam: away,
			Date:     refDate,
			Time:     refTime,
			IsWomens: isWomens,
			// Empty label: the engine assigns sequential CH-n per match.
			Servers: []schedule.Server{{URL: embedURL}},
		})
	}

	p.log.Info("listing rows parsed",
		zap.String("source", src.Name), zap.Int("candidates", len(candidates)))
	return candidates
}

// stripWomensMarker removes the feed's women's markers (a "(W)" token or a
// trailing " W") from a raw team name.
func stripWomensMarker(name string) (string, bool) {
	trimmed := strings.TrimSpace(name)
	womens := false
	if strings.HasSuffix(trimmed, "(W)") {
		womens = true
		trimmed = strings.TrimSpace(strings.TrimSuffix(trimmed, "(W)"))
	}
	if strings.HasSuffix(trimmed, " W") {
		womens = true
		trimmed = strings.TrimSpace(strings.TrimSuffix(trimmed, " W"))
	}
	return trimmed, womens
}

// EmbedURL converts a channels/<name>.php stream URL into the embed page
// actually served to clients.
func EmbedURL(channelURL string) (string, bool) {
	m := channelPath.FindStringSubmatch(channelURL)
	if m == nil {
		return "", false
	}
	return "https://listsportsembed.blogspot.com/p/" + m[1] + ".html", true
}
