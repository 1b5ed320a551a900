package permcache

import (
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/metrics"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/perms"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/snapshot"
)

// Cache memoizes which roles of a guild carry at least one permission
// from a given set. Entries are keyed by (guildID, set mask); the mask
// is its own canonical form, so set-equal queries from different call
// sites share one entry. Entries outlive a single snapshot and are
// only dropped by an explicit Invalidate.
type Cache struct {
	mu      sync.RWMutex
	entries map[string][]snapshot.Role
	group   singleflight.Group

	computations atomic.Uint64
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{
		entries: make(map[string][]snapshot.Role),
	}
}

func key(guildID string, set perms.Set) string {
	return fmt.Sprintf("%s/%016x", guildID, uint64(set))
}

// RolesWithAny returns the snapshot's roles whose bitmask intersects
// set, in snapshot order. The everyone role is included when it
// qualifies; callers filter it out when their rule excludes it. Under
// concurrent first access for the same key, exactly one computation
// runs and the other callers wait for its result.
func (c *Cache) RolesWithAny(snap *snapshot.Snapshot, set perms.Set) []snapshot.Role {
	k := key(snap.GuildID, set)

	c.mu.RLock()
	roles, ok := c.entries[k]
	c.mu.RUnlock()
	if ok {
		metrics.CacheHits.Inc()
		return roles
	}

	v, _, _ := c.group.Do(k, func() (interface{}, error) {
		// A writer may have landed between the read miss and here.
		c.mu.RLock()
		cached, ok := c.entries[k]
		c.mu.RUnlock()
		if ok {
			return cached, nil
		}

		computed := scan(snap, set)
		c.computations.Add(1)
		metrics.CacheMisses.Inc()

		c.mu.Lock()
		c.entries[k] = computed
		c.mu.Unlock()
		return computed, nil
	})

	return v.([]snapshot.Role)
}

func scan(snap *snapshot.Snapshot, set perms.Set) []snapshot.Role {
	out := make([]snapshot.Role, 0, 4)
	for _, role := range snap.Roles {
		if role.Permissions.Intersects(set) {
			out = append(out, role)
		}
	}
	return out
}

// Invalidate drops every entry for one guild. Collaborators that
// mutate role or channel state must call this after the mutation
// commits; nothing invalidates automatically.
func (c *Cache) Invalidate(guildID string) {
	prefix := guildID + "/"

	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			delete(c.entries, k)
		}
	}
}

// InvalidateAll clears the whole cache.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string][]snapshot.Role)
}

// Computations reports how many cache entries have been computed since
// creation. Used by tests to observe recomputation after invalidation.
func (c *Cache) Computations() uint64 {
	return c.computations.Load()
}
