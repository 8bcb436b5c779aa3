package cache

import (
	"testing"
	"time"

	"backend/internal/authz"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestKeySeparation(t *testing.T) {
	id1 := uuid.New()
	id2 := uuid.New()

	require.NotEqual(t, Key(authz.RoleAdmin, id1, "7d"), Key(authz.RoleOperador, id1, "7d"))
	require.NotEqual(t, Key(authz.RoleAdmin, id1, "7d"), Key(authz.RoleAdmin, id2, "7d"))
	require.NotEqual(t, Key(authz.RoleAdmin, id1, "7d"), Key(authz.RoleAdmin, id1, "30d"))
	require.Equal(t, Key(authz.RoleAdmin, id1, "7d"), Key(authz.RoleAdmin, id1, "7d"))
}

func TestCacheGetSetInvalidate(t *testing.T) {
	c := NewDashboardCache[int](8, time.Minute)
	key := Key(authz.RoleSupervisor, uuid.New(), "24h")

	_, ok := c.Get(key)
	require.False(t, ok)

	c.Set(key, 42)
	got, ok := c.Get(key)
	require.True(t, ok)
	require.Equal(t, 42, got)

	c.Invalidate(key)
	_, ok = c.Get(key)
	require.False(t, ok)
}

func TestCacheExpiry(t *testing.T) {
	c := NewDashboardCache[string](8, 30*time.Millisecond)
	key := Key(authz.RoleAdmin, uuid.New(), "7d")

	c.Set(key, "stale soon")
	_, ok := c.Get(key)
	require.True(t, ok)

	time.Sleep(60 * time.Millisecond)
	_, ok = c.Get(key)
	require.False(t, ok)
}

func TestCachePurge(t *testing.T) {
	c := NewDashboardCache[int](8, time.Minute)
	k1 := Key(authz.RoleAdmin, uuid.New(), "7d")
	k2 := Key(authz.RoleOperador, uuid.New(), "7d")

	c.Set(k1, 1)
	c.Set(k2, 2)
	c.Purge()

	_, ok := c.Get(k1)
	require.False(t, ok)
	_, ok = c.Get(k2)
	require.False(t, ok)
}
