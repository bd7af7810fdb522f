package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTTLCache_SetGet(t *testing.T) {
	c := New[string, int](time.Minute, time.Minute)
	defer c.Close()

	c.Set("a", 42)

	v, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, 42, v)

	_, ok = c.Get("missing")
	require.False(t, ok)
}

func TestTTLCache_Expiry(t *testing.T) {
	c := New[string, string](30*time.Millisecond, time.Minute)
	defer c.Close()

	c.Set("k", "v")

	_, ok := c.Get("k")
	require.True(t, ok)

	// TTL dolunca Get stale değer döndürmez — fiziksel silmeyi beklemeden.
	time.Sleep(50 * time.Millisecond)
	_, ok = c.Get("k")
	require.False(t, ok)
}

func TestTTLCache_Delete(t *testing.T) {
	c := New[string, int](time.Minute, time.Minute)
	defer c.Close()

	c.Set("k", 1)
	c.Delete("k")

	_, ok := c.Get("k")
	require.False(t, ok)
}
