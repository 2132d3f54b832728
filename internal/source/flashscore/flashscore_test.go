package flashscore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fortuna/kickoff/internal/clock"
)

var (
	refZone = time.FixedZone("WIB", 7*3600)
	srcZone = time.FixedZone("BST", 1*3600)
)

func fixtureRow(timeText, home, away string) string {
	return `<div class="event__match">` +
		`<div class="event__time">` + timeText + `</div>` +
		`<div class="event__homeParticipant">` + home +
		`<img src="https://static.example/` + home + `.png"/></div>` +
		`<div class="event__awayParticipant">` + away +
		`<img src="https://static.example/` + away + `.png"/></div>` +
		`</div>`
}

func testSource() Source {
	return Source{
		Name:   "flashscore-cwc",
		League: "FIFA Club World Cup",
		Zone:   srcZone,
	}
}

func TestParseFixtureRow(t *testing.T) {
	t.Parallel()

	html := "<html><body>" + fixtureRow("10.06. 20:00", "Benfica", "Chelsea") + "</body></html>"
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, refZone)

	parser := NewParser(clock.NewConverter(refZone), zap.NewNop())
	matches := parser.Parse(html, testSource(), now, 2)

	require.Len(t, matches, 1)
	m := matches[0]
	assert.Equal(t, "benfica-chelsea", m.ID)
	assert.Equal(t, "FIFA Club World Cup", m.League)
	assert.Equal(t, "Benfica", m.Team1.Name)
	assert.Equal(t, "https://static.example/Benfica.png", m.Team1.Logo)
	assert.Equal(t, "Chelsea", m.Team2.Name)

	// 20:00 UTC+1 lands past midnight in UTC+7.
	assert.Equal(t, "2025-06-11", m.KickoffDate)
	assert.Equal(t, "02:00", m.KickoffTime)
	assert.Equal(t, "2025-06-11", m.MatchDate)
	assert.Equal(t, "01:50", m.MatchTime)

	assert.False(t, m.IsWomens)
	assert.Empty(t, m.Servers)
}

func TestParseFiltersOutsideWindow(t *testing.T) {
	t.Parallel()

	html := "<html><body>" +
		fixtureRow("10.06. 20:00", "Benfica", "Chelsea") +
		fixtureRow("14.06. 20:00", "Porto", "Braga") + // beyond the 2-day window
		"</body></html>"
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, refZone)

	parser := NewParser(clock.NewConverter(refZone), zap.NewNop())
	matches := parser.Parse(html, testSource(), now, 2)

	require.Len(t, matches, 1)
	assert.Equal(t, "benfica-chelsea", matches[0].ID)
}

func TestParseKeepsSameDayFixture(t *testing.T) {
	t.Parallel()

	// Kicks off later today in the reference zone; the window's lower
	// bound is today's reference-zone midnight, so it must survive.
	html := "<html><body>" +
		fixtureRow("10.06. 10:00", "Benfica", "Chelsea") + // 16:00 WIB today
		fixtureRow("09.06. 10:00", "Porto", "Braga") + // yesterday, dropped
		"</body></html>"
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, refZone)

	parser := NewParser(clock.NewConverter(refZone), zap.NewNop())
	matches := parser.Parse(html, testSource(), now, 2)

	require.Len(t, matches, 1)
	assert.Equal(t, "benfica-chelsea", matches[0].ID)
	assert.Equal(t, "2025-06-10", matches[0].KickoffDate)
	assert.Equal(t, "16:00", matches[0].KickoffTime)
}

func TestParseSkipsIncompleteRows(t *testing.T) {
	t.Parallel()

	html := "<html><body>" +
		`<div class="event__match"><div class="event__time">10.06. 20:00</div></div>` +
		`<div class="event__match"><div class="event__time">soon</div></div>` +
		"</body></html>"
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, refZone)

	parser := NewParser(clock.NewConverter(refZone), zap.NewNop())
	assert.Empty(t, parser.Parse(html, testSource(), now, 2))
}

func TestParseDetectsWomensFixture(t *testing.T) {
	t.Parallel()

	html := "<html><body>" + fixtureRow("10.06. 18:00", "Arsenal (W)", "Chelsea (W)") + "</body></html>"
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, refZone)

	parser := NewParser(clock.NewConverter(refZone), zap.NewNop())
	matches := parser.Parse(html, testSource(), now, 2)

	require.Len(t, matches, 1)
	assert.True(t, matches[0].IsWomens)
	assert.Equal(t, "arsenal-chelsea", matches[0].ID)
}

func TestParseRowTime(t *testing.T) {
	t.Parallel()

	current := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	date, timeOfDay, ok := parseRowTime("10.06. 20:00", current)
	require.True(t, ok)
	assert.Equal(t, "2025-06-10", date)
	assert.Equal(t, "20:00", timeOfDay)

	// A month already behind us belongs to next year.
	date, _, ok = parseRowTime("05.01. 18:00", current)
	require.True(t, ok)
	assert.Equal(t, "2026-01-05", date)

	// Explicit year wins.
	date, timeOfDay, ok = parseRowTime("10.06.2025 9:30", current)
	require.True(t, ok)
	assert.Equal(t, "2025-06-10", date)
	assert.Equal(t, "09:30", timeOfDay)

	_, _, ok = parseRowTime("tomorrow", current)
	assert.False(t, ok)
}
