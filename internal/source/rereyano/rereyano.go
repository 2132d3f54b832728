// Package rereyano parses the agenda page that publishes its schedule
// inside a <textarea>: "dd-mm-yyyy (hh:mm) League : Home - Away (CH1fr)".
// It carries dates and labeled channels and may introduce fixtures the
// authoritative pages missed.
package rereyano

import (
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/fortuna/kickoff/internal/clock"
	"github.com/fortuna/kickoff/internal/reconcile"
	"github.com/fortuna/kickoff/internal/schedule"
	"github.com/fortuna/kickoff/internal/translate"
)

var (
	agendaLine   = regexp.MustCompile(`^(\d{2}-\d{2}-\d{4})\s+\((\d{2}:\d{2})\)\s+([^:]+?)\s*:\s*(.+?)\s*-\s*([^(]+)`)
	channelToken = regexp.MustCompile(`\((CH\d+[a-zA-Z]{0,2})\)`)
	channelParts = regexp.MustCompile(`(?i)^(?:ch)?(\d+)([a-z]{0,2})$`)
)

// Source describes the agenda page.
type Source struct {
	Name      string
	URL       string
	CacheFile string

	// Zone is the agenda's local time zone.
	Zone *time.Location
}

// Parser turns agenda lines into reconciliation candidates.
type Parser struct {
	conv *clock.Converter
	tr   *translate.Translator
	log  *zap.Logger
}

// NewParser creates an agenda parser.
func NewParser(conv *clock.Converter, tr *translate.Translator, log *zap.Logger) *Parser {
	return &Parser{conv: conv, tr: tr, log: log}
}

// Parse extracts candidates dated within [now, now+days] from the page
// HTML. knownTeams is the live canonical team list for translation fallback.
func (p *Parser) Parse(html string, src Source, now time.Time, days int, knownTeams []string) []reconcile.Candidate {
	text := scheduleText(html)
	if text == "" {
		p.log.Warn("no schedule block found on agenda page", zap.String("source", src.Name))
		return nil
	}

	// Window bounds are reference-zone calendar days, inclusive on both
	// ends: a row kicking off later today must survive the filter.
	ref := now.In(p.conv.Location())
	dayStart := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, p.conv.Location())
	dayEnd := dayStart.AddDate(0, 0, days)

	var candidates []reconcile.Candidate
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		m := agendaLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		dateStr, timeStr, leagueRaw, homeRaw, awayRaw := m[1], m[2], m[3], m[4], m[5]

		// dd-mm-yyyy to the canonical layout.
		parts := strings.Split(dateStr, "-")
		srcDate := parts[2] + "-" + parts[1] + "-" + parts[0]

		refDate, refTime, err := p.conv.ToReference(srcDate, timeStr, src.Zone)
		if err != nil {
			p.log.Warn("agenda time conversion failed, row skipped",
				zap.String("source", src.Name), zap.String("line", line), zap.Error(err))
			continue
		}

		kickoff, err := time.ParseInLocation(clock.DateLayout, refDate, p.conv.Location())
		if err != nil || kickoff.Before(dayStart) || kickoff.After(dayEnd) {
			continue
		}

		servers := parseChannels(line)
		if len(servers) == 0 {
			continue
		}

		league := p.tr.League(strings.TrimSpace(leagueRaw))
		home := p.tr.Team(strings.TrimSpace(homeRaw), knownTeams, translate.DefaultTeamThreshold)
		away := p.tr.Team(strings.TrimSpace(awayRaw), knownTeams, translate.DefaultTeamThreshold)

		candidates = append(candidates, reconcile.Candidate{
			League:   league,
			HomeTeam: home,
			AwayTeam: away,
			Date:     refDate,
			Time:     refTime,
			Servers:  servers,
		})
	}

	p.log.Info("agenda rows parsed",
		zap.String("source", src.Name), zap.Int("candidates", len(candidates)))
	return candidates
}

// scheduleText pulls the raw schedule block out of the page. The agenda
// keeps it in a textarea; fall back to the whole page text when markup
// changes.
func scheduleText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	if ta := doc.Find("textarea").First(); ta.Length() > 0 {
		if t := strings.TrimSpace(ta.Text()); t != "" {
			return t
		}
	}
	return strings.TrimSpace(doc.Text())
}

// parseChannels converts every (CHnXX) token on the line into a server.
func parseChannels(line string) []schedule.Server {
	var servers []schedule.Server
	for _, m := range channelToken.FindAllStringSubmatch(line, -1) {
		if s, ok := ChannelServer(m[1]); ok {
			servers = append(servers, s)
		}
	}
	return servers
}

// ChannelServer converts a channel token like "CH3fr" into the embed URL
// and its language label. A missing language suffix defaults to FR.
func ChannelServer(token string) (schedule.Server, bool) {
	m := channelParts.FindStringSubmatch(strings.ToLower(token))
	if m == nil {
		return schedule.Server{}, false
	}
	lang := m[2]
	if lang == "" {
		lang = "fr"
	}
	return schedule.Server{
		URL:   "https://envivo.govoet.my.id/" + m[1],
		Label: "CH-" + strings.ToUpper(lang),
	}, true
}
