package permcache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/perms"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/snapshot"
)

func testSnapshot(guildID string) *snapshot.Snapshot {
	return &snapshot.Snapshot{
		GuildID: guildID,
		Roles: []snapshot.Role{
			{ID: "1", Name: "@everyone", Position: 0, Everyone: true},
			{ID: "2", Name: "Mod", Position: 1, Permissions: perms.NewSet(perms.ManageMessages, perms.BanMembers), MemberCount: 3},
			{ID: "3", Name: "Cosmetic", Position: 2},
			{ID: "4", Name: "Admin", Position: 3, Permissions: perms.NewSet(perms.Administrator), MemberCount: 1},
		},
	}
}

func TestRolesWithAnyMatchesExactly(t *testing.T) {
	c := New()
	snap := testSnapshot("g1")

	roles := c.RolesWithAny(snap, perms.Dangerous)

	require.Len(t, roles, 2)
	// Snapshot ordering is preserved.
	assert.Equal(t, "Mod", roles[0].Name)
	assert.Equal(t, "Admin", roles[1].Name)
	for _, r := range roles {
		assert.True(t, r.Permissions.Intersects(perms.Dangerous))
	}
}

func TestRolesWithAnyMemoizes(t *testing.T) {
	c := New()
	snap := testSnapshot("g1")

	first := c.RolesWithAny(snap, perms.Critical)
	second := c.RolesWithAny(snap, perms.Critical)

	assert.Equal(t, first, second)
	assert.Equal(t, uint64(1), c.Computations())
}

func TestSetEqualQueriesShareOneEntry(t *testing.T) {
	c := New()
	snap := testSnapshot("g1")

	c.RolesWithAny(snap, perms.NewSet(perms.BanMembers, perms.Administrator))
	c.RolesWithAny(snap, perms.NewSet(perms.Administrator, perms.BanMembers))

	assert.Equal(t, uint64(1), c.Computations())
}

func TestInvalidateIsPerGuild(t *testing.T) {
	c := New()
	g1 := testSnapshot("g1")
	g2 := testSnapshot("g2")

	c.RolesWithAny(g1, perms.Dangerous)
	c.RolesWithAny(g2, perms.Dangerous)
	require.Equal(t, uint64(2), c.Computations())

	c.Invalidate("g1")

	// g1 recomputes, g2 still hits.
	c.RolesWithAny(g1, perms.Dangerous)
	c.RolesWithAny(g2, perms.Dangerous)
	assert.Equal(t, uint64(3), c.Computations())
}

func TestInvalidateAll(t *testing.T) {
	c := New()
	snap := testSnapshot("g1")

	c.RolesWithAny(snap, perms.Dangerous)
	c.InvalidateAll()
	c.RolesWithAny(snap, perms.Dangerous)

	assert.Equal(t, uint64(2), c.Computations())
}

func TestEmptyResultIsValidAndCached(t *testing.T) {
	c := New()
	snap := testSnapshot("g1")

	roles := c.RolesWithAny(snap, perms.NewSet(perms.PrioritySpeaker))
	assert.Empty(t, roles)

	c.RolesWithAny(snap, perms.NewSet(perms.PrioritySpeaker))
	assert.Equal(t, uint64(1), c.Computations())
}

func TestConcurrentFirstAccessComputesOnce(t *testing.T) {
	c := New()
	snap := testSnapshot("g1")

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			c.RolesWithAny(snap, perms.Dangerous)
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, uint64(1), c.Computations())
}
