package cache

import (
	"fmt"
	"time"

	"backend/internal/authz"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

// DashboardCache is a bounded-TTL cache for role-scoped dashboard aggregates.
// It is a read-performance shortcut only: entries may be stale within the TTL
// window and nothing in the authorization path ever consults it. Keys carry
// the role, the principal and the query window so one user's counters can
// never serve another's request.
type DashboardCache[V any] struct {
	lru *lru.LRU[string, V]
}

func NewDashboardCache[V any](size int, ttl time.Duration) *DashboardCache[V] {
	return &DashboardCache[V]{lru: lru.NewLRU[string, V](size, nil, ttl)}
}

// Key builds the composite cache key
func Key(role authz.Role, principalID uuid.UUID, window string) string {
	return fmt.Sprintf("%s|%s|%s", role, principalID, window)
}

func (c *DashboardCache[V]) Get(key string) (V, bool) {
	return c.lru.Get(key)
}

func (c *DashboardCache[V]) Set(key string, value V) {
	c.lru.Add(key, value)
}

// Invalidate drops a single entry, for callers that mutate the underlying
// aggregates and want fresh counters before the TTL runs out
func (c *DashboardCache[V]) Invalidate(key string) {
	c.lru.Remove(key)
}

// Purge drops every entry
func (c *DashboardCache[V]) Purge() {
	c.lru.Purge()
}
