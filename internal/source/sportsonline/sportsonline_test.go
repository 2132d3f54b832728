package sportsonline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fortuna/kickoff/internal/clock"
	"github.com/fortuna/kickoff/internal/translate"
)

var (
	refZone = time.FixedZone("WIB", 7*3600)
	srcZone = time.FixedZone("BST", 1*3600)
)

func newTestParser() *Parser {
	conv := clock.NewConverter(refZone)
	tr := translate.NewTranslator(nil, zap.NewNop())
	return NewParser(conv, tr, zap.NewNop())
}

func testSource() Source {
	return Source{
		Name:                "sportsonline",
		Zone:                srcZone,
		DefaultLeague:       "FIFA Club World Cup",
		DefaultWomensLeague: "Women's International",
	}
}

func TestParseBasicRow(t *testing.T) {
	t.Parallel()

	feed := "WEDNESDAY\n" +
		"20:00 Benfica x Chelsea | https://sportsonline.si/channels/hd7.php\n" +
		"not a schedule line\n"

	now := time.Date(2025, 6, 10, 12, 0, 0, 0, refZone)
	candidates := newTestParser().Parse(feed, testSource(), now, []string{"Benfica", "Chelsea"})

	require.Len(t, candidates, 1)
	c := candidates[0]
	assert.Equal(t, "Benfica", c.HomeTeam)
	assert.Equal(t, "Chelsea", c.AwayTeam)
	assert.Equal(t, "FIFA Club World Cup", c.League)
	assert.Equal(t, "2025-06-11", c.Date) // 20:00 UTC+1 is past midnight UTC+7
	assert.Equal(t, "02:00", c.Time)
	assert.False(t, c.IsWomens)

	require.Len(t, c.Servers, 1)
	assert.Equal(t, "https://listsportsembed.blogspot.com/p/hd7.html", c.Servers[0].URL)
	assert.Empty(t, c.Servers[0].Label)
}

func TestParseLeaguePrefixAndSeparators(t *testing.T) {
	t.Parallel()

	feed := "15:00 UEFA Champions League : Porto vs Braga | https://sportsonline.si/channels/br1.php\n"

	now := time.Date(2025, 6, 10, 12, 0, 0, 0, refZone)
	candidates := newTestParser().Parse(feed, testSource(), now, []string{"Porto", "Braga"})

	require.Len(t, candidates, 1)
	assert.Equal(t, "UEFA Champions League", candidates[0].League)
	assert.Equal(t, "Porto", candidates[0].HomeTeam)
	assert.Equal(t, "Braga", candidates[0].AwayTeam)
}

func TestParseWomensMarkers(t *testing.T) {
	t.Parallel()

	feed := "12:00 Arsenal W x Chelsea W | https://sportsonline.si/channels/hd1.php\n" +
		"14:00 Lyon x Barcelona (W) | https://sportsonline.si/channels/hd2.php\n"

	now := time.Date(2025, 6, 10, 9, 0, 0, 0, refZone)
	candidates := newTestParser().Parse(feed, testSource(), now,
		[]string{"Arsenal", "Chelsea", "Lyon", "Barcelona"})

	require.Len(t, candidates, 2)
	for _, c := range candidates {
		assert.True(t, c.IsWomens)
		assert.Equal(t, "Women's International", c.League)
	}
	assert.Equal(t, "Arsenal", candidates[0].HomeTeam)
	assert.Equal(t, "Barcelona", candidates[1].AwayTeam)
}

func TestParseSkipsForeignChannelHosts(t *testing.T) {
	t.Parallel()

	feed := "20:00 Benfica x Chelsea | https://other.example.com/channels/hd7.php\n"

	now := time.Date(2025, 6, 10, 12, 0, 0, 0, refZone)
	candidates := newTestParser().Parse(feed, testSource(), now, nil)
	assert.Empty(t, candidates)
}

func TestEmbedURL(t *testing.T) {
	t.Parallel()

	got, ok := EmbedURL("https://sportsonline.si/channels/hd7.php")
	require.True(t, ok)
	assert.Equal(t, "https://listsportsembed.blogspot.com/p/hd7.html", got)

	_, ok = EmbedURL("https://sportsonline.si/channels/hd7")
	assert.False(t, ok)
}
