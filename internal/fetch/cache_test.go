package fetch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCacheRoundTrip(t *testing.T) {
	t.Parallel()

	cache := NewCache(t.TempDir(), time.Hour, zap.NewNop())

	_, ok := cache.Load("page.html")
	assert.False(t, ok)

	cache.Save("page.html", "<html>payload</html>")
	got, ok := cache.Load("page.html")
	require.True(t, ok)
	assert.Equal(t, "<html>payload</html>", got)
}

func TestCacheRejectsStaleEntries(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cache := NewCache(dir, time.Hour, zap.NewNop())
	cache.Save("page.html", "old payload")

	// Backdate the file past the TTL.
	stale := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "page.html"), stale, stale))

	_, ok := cache.Load("page.html")
	assert.False(t, ok)
}
