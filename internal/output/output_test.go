package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fortuna/kickoff/internal/schedule"
)

func sampleMatches() []*schedule.Match {
	return []*schedule.Match{
		{
			ID:          "benfica-chelsea",
			League:      "FIFA Club World Cup",
			Team1:       schedule.Team{Name: "Benfica"},
			Team2:       schedule.Team{Name: "Chelsea"},
			KickoffDate: "2025-06-11",
			KickoffTime: "02:00",
			Servers:     []schedule.Server{{URL: "https://a.tv/1", Label: "CH-1"}},
		},
	}
}

func TestWriteAndHashGate(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out", "schedule.json")
	w := NewWriter(path, zap.NewNop())

	changed, err := w.Write(sampleMatches())
	require.NoError(t, err)
	assert.True(t, changed)

	info, err := os.Stat(path)
	require.NoError(t, err)
	firstMod := info.ModTime()

	// Identical content is skipped entirely.
	changed, err = w.Write(sampleMatches())
	require.NoError(t, err)
	assert.False(t, changed)

	info, err = os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, firstMod, info.ModTime())

	// A real change writes again.
	matches := sampleMatches()
	matches[0].Servers = append(matches[0].Servers, schedule.Server{URL: "https://a.tv/2", Label: "CH-2"})
	changed, err = w.Write(matches)
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestEncodeIsValidJSON(t *testing.T) {
	t.Parallel()

	data, err := Encode(sampleMatches())
	require.NoError(t, err)

	var decoded []schedule.Match
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "benfica-chelsea", decoded[0].ID)
	assert.Equal(t, "CH-1", decoded[0].Servers[0].Label)
}

func TestEncodeDeterministic(t *testing.T) {
	t.Parallel()

	a, err := Encode(sampleMatches())
	require.NoError(t, err)
	b, err := Encode(sampleMatches())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
