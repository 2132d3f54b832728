package manual

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fortuna/kickoff/internal/schedule"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	log := zap.NewNop()

	assert.Nil(t, Load("", log))
	assert.Nil(t, Load(filepath.Join(t.TempDir(), "missing.json"), log))

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("[{"), 0o644))
	assert.Nil(t, Load(bad, log))

	good := filepath.Join(t.TempDir(), "good.json")
	require.NoError(t, os.WriteFile(good,
		[]byte(`[{"id":"a-b","kickoff_time":"21:00","servers":[{"url":"https://a.tv/1","label":"HD"}]}]`),
		0o644))
	overrides := Load(good, log)
	require.Len(t, overrides, 1)
	assert.Equal(t, "a-b", overrides[0].ID)
}

func TestApplyPrependsServers(t *testing.T) {
	t.Parallel()

	set := schedule.NewSet()
	set.Upsert(&schedule.Match{
		ID:          "a-b",
		KickoffTime: "21:00",
		Servers: []schedule.Server{
			{URL: "https://auto.tv/1", Label: "CH-1"},
		},
	})

	Apply([]schedule.Match{{
		ID:          "a-b",
		KickoffTime: "21:00",
		IsWomens:    true,
		Servers: []schedule.Server{
			{URL: "https://manual.tv/hd", Label: "HD"},
			{URL: "https://AUTO.tv/1/", Label: "dup"}, // already known
		},
	}}, set, zap.NewNop())

	m, ok := set.Get("a-b")
	require.True(t, ok)
	require.Len(t, m.Servers, 2)
	assert.Equal(t, "https://manual.tv/hd", m.Servers[0].URL)
	assert.Equal(t, "https://auto.tv/1", m.Servers[1].URL)
	assert.True(t, m.IsWomens)
}

func TestApplySkipsInvalidEntries(t *testing.T) {
	t.Parallel()

	set := schedule.NewSet()
	set.Upsert(&schedule.Match{ID: "a-b", KickoffTime: "21:00"})

	Apply([]schedule.Match{
		{ID: "", KickoffTime: "21:00"},
		{ID: "a-b", KickoffTime: "9pm"},
	}, set, zap.NewNop())

	m, _ := set.Get("a-b")
	assert.Empty(t, m.Servers)
	assert.Equal(t, 1, set.Len())
}

func TestApplyInsertsUnknownMatch(t *testing.T) {
	t.Parallel()

	set := schedule.NewSet()
	Apply([]schedule.Match{{
		ID:          "x-y",
		League:      "Friendly",
		KickoffTime: "18:00",
		Servers:     []schedule.Server{{URL: "https://m.tv/1", Label: "HD"}},
	}}, set, zap.NewNop())

	m, ok := set.Get("x-y")
	require.True(t, ok)
	assert.Equal(t, "Friendly", m.League)
	require.Len(t, m.Servers, 1)
}
