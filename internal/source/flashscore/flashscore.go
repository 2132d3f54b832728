// Package flashscore parses fixture rows from a Flashscore league fixtures
// page. It is the authoritative schedule source: teams, league, kickoff and
// logos, but no stream links.
package flashscore

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/fortuna/kickoff/internal/clock"
	"github.com/fortuna/kickoff/internal/names"
	"github.com/fortuna/kickoff/internal/schedule"
)

var (
	// Row times render as "10.06. 20:00" or, far out, "10.06.2025 20:00".
	shortTime = regexp.MustCompile(`(\d{2})\.(\d{2})\.\s*(\d{1,2}:\d{2})`)
	longTime  = regexp.MustCompile(`(\d{2})\.(\d{2})\.(\d{4})\s*(\d{1,2}:\d{2})`)
)

// Source describes one Flashscore fixtures page.
type Source struct {
	Name      string
	URL       string
	League    string
	CacheFile string

	// Zone is the time zone the page renders kickoff times in.
	Zone *time.Location
}

// Parser turns fixture pages into canonical matches.
type Parser struct {
	conv *clock.Converter
	log  *zap.Logger
}

// NewParser creates a fixture parser targeting the converter's reference zone.
func NewParser(conv *clock.Converter, log *zap.Logger) *Parser {
	return &Parser{conv: conv, log: log}
}

// Parse extracts all scheduled fixtures within [now, now+days] from the
// page HTML. Malformed rows are skipped individually.
func (p *Parser) Parse(html string, src Source, now time.Time, days int) []*schedule.Match {
	var matches []*schedule.Match

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		p.log.Warn("fixture page unparseable", zap.String("source", src.Name), zap.Error(err))
		return matches
	}

	currentDate := now.In(p.conv.Location())
	// Window bounds are reference-zone calendar days, inclusive on both
	// ends: a fixture kicking off later today must survive the filter.
	dayStart := time.Date(currentDate.Year(), currentDate.Month(), currentDate.Day(),
		0, 0, 0, 0, p.conv.Location())
	dayEnd := dayStart.AddDate(0, 0, days)

	rows := doc.Find(".event__match, .sport__event, .event__row, .event__match--scheduled")
	if rows.Length() == 0 {
		p.log.Warn("no fixture rows found", zap.String("source", src.Name))
		return matches
	}

	rows.Each(func(_ int, row *goquery.Selection) {
		m := p.parseRow(row, src, currentDate, dayStart, dayEnd)
		if m != nil {
			matches = append(matches, m)
		}
	})

	p.log.Info("fixtures parsed",
		zap.String("source", src.Name), zap.String("league", src.League),
		zap.Int("matches", len(matches)))
	return matches
}

func (p *Parser) parseRow(row *goquery.Selection, src Source, currentDate, dayStart, dayEnd time.Time) *schedule.Match {
	timeText := strings.TrimSpace(row.Find(".event__time, .event__time div, .time, .startTime").First().Text())
	if timeText == "" {
		return nil
	}

	date, timeOfDay, ok := parseRowTime(timeText, currentDate)
	if !ok {
		p.log.Debug("fixture time format not recognized",
			zap.String("source", src.Name), zap.String("time", timeText))
		return nil
	}

	homeTeam := strings.TrimSpace(row.Find(".event__homeParticipant").First().Text())
	awayTeam := strings.TrimSpace(row.Find(".event__awayParticipant").First().Text())
	if homeTeam == "" || awayTeam == "" {
		p.log.Warn("fixture row with incomplete teams skipped",
			zap.String("source", src.Name),
			zap.String("home", homeTeam), zap.String("away", awayTeam))
		return nil
	}

	homeLogo, _ := row.Find(".event__homeParticipant img").First().Attr("src")
	awayLogo, _ := row.Find(".event__awayParticipant img").First().Attr("src")

	refDate, refTime, err := p.conv.ToReference(date, timeOfDay, src.Zone)
	if err != nil {
		p.log.Warn("fixture time conversion failed, keeping source-local time",
			zap.String("source", src.Name), zap.Error(err))
	}

	kickoff, err := time.ParseInLocation(clock.DateLayout, refDate, p.conv.Location())
	if err != nil {
		return nil
	}
	if kickoff.Before(dayStart) || kickoff.After(dayEnd) {
		return nil
	}

	matchTime, err := clock.PreRoll(refTime)
	if err != nil {
		p.log.Debug("pre-roll computation failed", zap.String("time", refTime), zap.Error(err))
	}

	return &schedule.Match{
		ID:          schedule.BuildMatchID(homeTeam, awayTeam),
		League:      src.League,
		Team1:       schedule.Team{Name: homeTeam, Logo: homeLogo},
		Team2:       schedule.Team{Name: awayTeam, Logo: awayLogo},
		KickoffDate: refDate,
		KickoffTime: refTime,
		MatchDate:   refDate,
		MatchTime:   matchTime,
		Duration:    schedule.DefaultDuration,
		Icon:        schedule.DefaultIcon,
		Servers:     []schedule.Server{},
		IsWomens:    names.IsWomens(homeTeam, awayTeam),
	}
}

// parseRowTime resolves a "dd.mm." row time against the current date: a
// month already behind us belongs to next year.
func parseRowTime(text string, currentDate time.Time) (date, timeOfDay string, ok bool) {
	if m := longTime.FindStringSubmatch(text); m != nil {
		return m[3] + "-" + m[2] + "-" + m[1], padTime(m[4]), true
	}
	m := shortTime.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}

	day, month := m[1], m[2]
	monthNum, _ := strconv.Atoi(month)
	year := currentDate.Year()
	if monthNum < int(currentDate.Month()) {
		year++
	}

	parsed, err := time.Parse(clock.DateLayout, strconv.Itoa(year)+"-"+month+"-"+day)
	if err != nil {
		return "", "", false
	}
	return parsed.Format(clock.DateLayout), padTime(m[3]), true
}

// padTime normalizes "9:30" to "09:30".
func padTime(t string) string {
	if len(t) == 4 {
		return "0" + t
	}
	return t
}
