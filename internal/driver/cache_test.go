package driver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"psfmt/internal/config"
)

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := NewDiskCache(t.TempDir())
	require.NoError(t, err)

	key := CacheKey([]byte("a\n"), config.Default())
	require.False(t, cache.IsFormatted(key))
	require.NoError(t, cache.MarkFormatted(key, "a.ps1"))
	require.True(t, cache.IsFormatted(key))

	var p CachePayload
	ok, err := cache.Get(key, &p)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "a.ps1", p.Path)

	require.NoError(t, cache.DropAll())
	require.False(t, cache.IsFormatted(key))
	require.NoError(t, cache.MarkFormatted(key, "a.ps1"), "cache stays usable after DropAll")
}

func TestCacheKeyDependsOnSettings(t *testing.T) {
	raw := []byte("a\n")
	a := CacheKey(raw, config.Default())
	b := CacheKey(raw, config.Resolve(config.Options{IndentSize: config.Ptr(4)}))
	require.NotEqual(t, a, b)
	require.Equal(t, a, CacheKey(raw, config.Default()))
	require.NotEqual(t, a, CacheKey([]byte("b\n"), config.Default()))
}

func TestNilDiskCache(t *testing.T) {
	var cache *DiskCache
	key := CacheKey(nil, config.Default())
	require.False(t, cache.IsFormatted(key))
	require.NoError(t, cache.MarkFormatted(key, "x"))
	require.NoError(t, cache.DropAll())
}
