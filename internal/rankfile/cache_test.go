package rankfile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_Get_ParsesOnFirstUse(t *testing.T) {
	// Given: a fresh cache and a ranking file
	dir := t.TempDir()
	path := writeRanking(t, dir, "run.txt", "doc-a\ndoc-b\n")
	cache := NewCache(8)

	// When: getting the file for the first time
	ranking, err := cache.Get(path)

	// Then: the parsed ranking is returned and cached
	require.NoError(t, err)
	assert.Equal(t, []string{"doc-a", "doc-b"}, ranking.Items)
	assert.Equal(t, 1, cache.Len())
}

func TestCache_Get_HitsWhenFingerprintUnchanged(t *testing.T) {
	// Given: a cached file
	dir := t.TempDir()
	path := writeRanking(t, dir, "run.txt", "old\n")
	cache := NewCache(8)

	first, err := cache.Get(path)
	require.NoError(t, err)
	require.Equal(t, []string{"old"}, first.Items)

	info, err := os.Stat(path)
	require.NoError(t, err)

	// When: the content changes but size and modtime are restored
	require.NoError(t, os.WriteFile(path, []byte("new\n"), 0o644))
	require.NoError(t, os.Chtimes(path, info.ModTime(), info.ModTime()))

	second, err := cache.Get(path)
	require.NoError(t, err)

	// Then: the stale entry is served, proving the fingerprint check
	assert.Equal(t, []string{"old"}, second.Items)
}

func TestCache_Get_ReparsesWhenModified(t *testing.T) {
	// Given: a cached file
	dir := t.TempDir()
	path := writeRanking(t, dir, "run.txt", "old\n")
	cache := NewCache(8)

	_, err := cache.Get(path)
	require.NoError(t, err)

	// When: the file changes with a clearly newer modtime
	require.NoError(t, os.WriteFile(path, []byte("brand-new\n"), 0o644))
	later := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, later, later))

	ranking, err := cache.Get(path)
	require.NoError(t, err)

	// Then: the fresh content is parsed
	assert.Equal(t, []string{"brand-new"}, ranking.Items)
}

func TestCache_Invalidate_ForcesReparse(t *testing.T) {
	// Given: a cached file whose fingerprint would still match
	dir := t.TempDir()
	path := writeRanking(t, dir, "run.txt", "old\n")
	cache := NewCache(8)

	_, err := cache.Get(path)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("new\n"), 0o644))
	require.NoError(t, os.Chtimes(path, info.ModTime(), info.ModTime()))

	// When: invalidating and reloading
	cache.Invalidate(path)
	ranking, err := cache.Get(path)
	require.NoError(t, err)

	// Then: the file is parsed again despite the matching fingerprint
	assert.Equal(t, []string{"new"}, ranking.Items)
}

func TestCache_Get_MissingFile_Error(t *testing.T) {
	cache := NewCache(8)

	_, err := cache.Get(filepath.Join(t.TempDir(), "absent.txt"))

	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNewCache_NonPositiveSize_UsesDefault(t *testing.T) {
	dir := t.TempDir()
	path := writeRanking(t, dir, "run.txt", "doc-a\n")

	cache := NewCache(0)

	ranking, err := cache.Get(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"doc-a"}, ranking.Items)
}
