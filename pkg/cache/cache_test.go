package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurumpkg/aurum/pkg/version"
)

func touch(t *testing.T, dir, name string, size int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
	return path
}

func TestLookupFindsExactArtifact(t *testing.T) {
	dir := t.TempDir()
	want := touch(t, dir, "ripgrep-14.0.0-1-x86_64.pkg.tar.zst", 10)
	touch(t, dir, "ripgrep-13.0.0-2-x86_64.pkg.tar.zst", 10)
	touch(t, dir, "ripgrep-all-1.0.0-1-x86_64.pkg.tar.zst", 10)

	c := NewFileCache(dir)
	path, ok, err := c.Lookup("ripgrep", version.MustParse("14.0.0-1"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, path)
}

func TestLookupIgnoresSignatureFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "zlib-1.3.1-1-x86_64.pkg.tar.zst.sig", 1)

	c := NewFileCache(dir)
	_, ok, err := c.Lookup("zlib", version.MustParse("1.3.1-1"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLookupMiss(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "zlib-1.3.1-1-x86_64.pkg.tar.zst", 1)

	c := NewFileCache(dir)

	// Different version of a present package.
	_, ok, err := c.Lookup("zlib", version.MustParse("1.3.0-1"))
	require.NoError(t, err)
	assert.False(t, ok)

	// A package that is not cached at all.
	_, ok, err = c.Lookup("paru", version.MustParse("2.0.4-1"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLookupPrefersEarlierDirectory(t *testing.T) {
	userDir := t.TempDir()
	systemDir := t.TempDir()
	want := touch(t, userDir, "zlib-1.3.1-1-x86_64.pkg.tar.zst", 1)
	touch(t, systemDir, "zlib-1.3.1-1-x86_64.pkg.tar.zst", 1)

	c := NewFileCache(userDir, systemDir)
	path, ok, err := c.Lookup("zlib", version.MustParse("1.3.1-1"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, path)
}

func TestLookupSkipsMissingDirectories(t *testing.T) {
	dir := t.TempDir()
	want := touch(t, dir, "zlib-1.3.1-1-x86_64.pkg.tar.zst", 1)

	c := NewFileCache(filepath.Join(dir, "does-not-exist"), dir)
	path, ok, err := c.Lookup("zlib", version.MustParse("1.3.1-1"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, path)
}

func TestListAndTotalSize(t *testing.T) {
	a := t.TempDir()
	b := t.TempDir()
	touch(t, a, "zlib-1.3.1-1-x86_64.pkg.tar.zst", 100)
	touch(t, a, "zlib-1.3.1-1-x86_64.pkg.tar.zst.sig", 5)
	touch(t, b, "ripgrep-14.0.0-1-x86_64.pkg.tar.zst", 200)
	touch(t, b, "README", 50)

	c := NewFileCache(a, b)

	entries, err := c.List()
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	size, err := c.TotalSize()
	require.NoError(t, err)
	assert.Equal(t, int64(300), size)
}

func TestListEmptyCache(t *testing.T) {
	c := NewFileCache(filepath.Join(t.TempDir(), "nope"))

	entries, err := c.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatBytes(tt.bytes))
	}
}
