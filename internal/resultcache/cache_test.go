package resultcache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentwarden/warden/internal/model"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCache_SetThenGet(t *testing.T) {
	path := writeTempFile(t, "hello world")
	c := New(Options{RuleVersion: "v1"})

	findings := []model.Finding{{RuleID: "r1", Message: "m"}}
	require.NoError(t, c.Set(path, findings))

	got, ok := c.Get(path)
	require.True(t, ok)
	assert.Equal(t, findings, got)
}

func TestCache_MissOnRuleVersionChange(t *testing.T) {
	path := writeTempFile(t, "content")
	c := New(Options{RuleVersion: "v1"})
	require.NoError(t, c.Set(path, []model.Finding{{RuleID: "r1"}}))

	c.opts.RuleVersion = "v2"
	_, ok := c.Get(path)
	assert.False(t, ok)
}

func TestCache_MissOnContentChange(t *testing.T) {
	path := writeTempFile(t, "original")
	c := New(Options{RuleVersion: "v1"})
	require.NoError(t, c.Set(path, []model.Finding{{RuleID: "r1"}}))

	require.NoError(t, os.WriteFile(path, []byte("changed"), 0o644))
	_, ok := c.Get(path)
	assert.False(t, ok)
}

func TestCache_MissOnExpiredTTL(t *testing.T) {
	path := writeTempFile(t, "content")
	c := New(Options{RuleVersion: "v1", TTL: time.Millisecond})
	require.NoError(t, c.Set(path, []model.Finding{{RuleID: "r1"}}))

	time.Sleep(5 * time.Millisecond)
	_, ok := c.Get(path)
	assert.False(t, ok)
}

func TestCache_EvictsOldestWhenAtEntryLimit(t *testing.T) {
	c := New(Options{RuleVersion: "v1", MaxEntries: 1})

	p1 := writeTempFile(t, "first")
	require.NoError(t, c.Set(p1, []model.Finding{{RuleID: "r1"}}))

	time.Sleep(2 * time.Millisecond)
	p2 := writeTempFile(t, "second")
	require.NoError(t, c.Set(p2, []model.Finding{{RuleID: "r2"}}))

	_, ok1 := c.Get(p1)
	_, ok2 := c.Get(p2)
	assert.False(t, ok1, "oldest entry should have been evicted")
	assert.True(t, ok2)
}

func TestCache_PersistAndReload(t *testing.T) {
	dir := t.TempDir()
	cachePath := filepath.Join(dir, "cache.json")

	srcPath := writeTempFile(t, "persisted content")
	c := New(Options{RuleVersion: "v1"})
	require.NoError(t, c.Set(srcPath, []model.Finding{{RuleID: "persisted"}}))
	require.NoError(t, c.Persist(cachePath))

	reloaded, err := LoadFromFile(cachePath, Options{RuleVersion: "v1"})
	require.NoError(t, err)

	got, ok := reloaded.Get(srcPath)
	require.True(t, ok)
	assert.Equal(t, "persisted", got[0].RuleID)
}

func TestLoadFromFile_MissingFileIsEmptyCache(t *testing.T) {
	c, err := LoadFromFile(filepath.Join(t.TempDir(), "does-not-exist.json"), Options{RuleVersion: "v1"})
	require.NoError(t, err)
	_, ok := c.Get("/nowhere")
	assert.False(t, ok)
}
