package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newTestCache(t *testing.T, ttl time.Duration) *Cache {
	t.Helper()
	c := New(filepath.Join(t.TempDir(), "cache.db"), ttl, zerolog.Nop())
	require.True(t, c.Enabled())
	t.Cleanup(func() { c.Close() })
	return c
}

func TestSetGetRoundTrip(t *testing.T) {
	c := newTestCache(t, time.Minute)

	c.Set("feeds", payload{Name: "hn", Count: 10})

	var got payload
	require.True(t, c.Get("feeds", &got))
	assert.Equal(t, payload{Name: "hn", Count: 10}, got)
}

func TestGetMiss(t *testing.T) {
	c := newTestCache(t, time.Minute)

	var got payload
	assert.False(t, c.Get("absent", &got))
}

func TestGetHonorsTTL(t *testing.T) {
	c := newTestCache(t, time.Duration(0))

	c.Set("weather", payload{Name: "stale"})
	time.Sleep(1100 * time.Millisecond)

	var got payload
	assert.False(t, c.Get("weather", &got), "zero TTL entry should expire")
	assert.True(t, c.GetStale("weather", &got), "GetStale must ignore the TTL")
	assert.Equal(t, "stale", got.Name)
}

func TestSetReplacesExisting(t *testing.T) {
	c := newTestCache(t, time.Minute)

	c.Set("k", payload{Count: 1})
	c.Set("k", payload{Count: 2})

	var got payload
	require.True(t, c.Get("k", &got))
	assert.Equal(t, 2, got.Count)
}

func TestClear(t *testing.T) {
	c := newTestCache(t, time.Minute)

	c.Set("a", payload{Count: 1})
	c.Set("b", payload{Count: 2})
	c.Clear("a")

	var got payload
	assert.False(t, c.Get("a", &got))
	assert.True(t, c.Get("b", &got))
}

func TestClearAll(t *testing.T) {
	c := newTestCache(t, time.Minute)

	c.Set("a", payload{Count: 1})
	c.Set("b", payload{Count: 2})
	c.ClearAll()

	var got payload
	assert.False(t, c.GetStale("a", &got))
	assert.False(t, c.GetStale("b", &got))
}

func TestDisabledCacheIsSilent(t *testing.T) {
	// Point the cache at a path whose parent cannot be created.
	c := New("/proc/nonexistent/cache.db", time.Minute, zerolog.Nop())
	assert.False(t, c.Enabled())

	c.Set("k", payload{Count: 1})
	var got payload
	assert.False(t, c.Get("k", &got))
	assert.False(t, c.GetStale("k", &got))
	c.Clear("k")
	c.ClearAll()
	assert.NoError(t, c.Close())
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	c1 := New(path, time.Minute, zerolog.Nop())
	require.True(t, c1.Enabled())
	c1.Set("k", payload{Name: "persisted"})
	require.NoError(t, c1.Close())

	c2 := New(path, time.Minute, zerolog.Nop())
	defer c2.Close()

	var got payload
	require.True(t, c2.Get("k", &got))
	assert.Equal(t, "persisted", got.Name)
}
