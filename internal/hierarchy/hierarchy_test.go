package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/perms"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/snapshot"
)

func TestSinglePair(t *testing.T) {
	snap := &snapshot.Snapshot{
		GuildID: "g",
		Roles: []snapshot.Role{
			{ID: "e", Name: "@everyone", Position: 0, Everyone: true},
			{ID: "b", Name: "B", Position: 3, Permissions: perms.NewSet(perms.ManageRoles)},
			{ID: "a", Name: "A", Position: 5},
		},
	}

	pairs := DecorativeAbove(snap, perms.Dangerous)

	require.Len(t, pairs, 1)
	assert.Equal(t, "A", pairs[0].Decorative.Name)
	assert.Equal(t, "B", pairs[0].Privileged.Name)
	assert.Equal(t, perms.NewSet(perms.ManageRoles), pairs[0].Held)
}

func TestNoPairWhenHigherRoleIsAlsoPrivileged(t *testing.T) {
	snap := &snapshot.Snapshot{
		GuildID: "g",
		Roles: []snapshot.Role{
			{ID: "e", Name: "@everyone", Position: 0, Everyone: true},
			{ID: "b", Name: "B", Position: 3, Permissions: perms.NewSet(perms.ManageRoles)},
			{ID: "a", Name: "A", Position: 5, Permissions: perms.NewSet(perms.ManageRoles)},
		},
	}

	assert.Empty(t, DecorativeAbove(snap, perms.Dangerous))
}

func TestEveryoneNeverPrivileged(t *testing.T) {
	// Everyone holding a dangerous permission is an exposure problem,
	// not a hierarchy pair.
	snap := &snapshot.Snapshot{
		GuildID: "g",
		Roles: []snapshot.Role{
			{ID: "e", Name: "@everyone", Position: 0, Everyone: true, Permissions: perms.NewSet(perms.BanMembers)},
			{ID: "a", Name: "A", Position: 2},
		},
	}

	assert.Empty(t, DecorativeAbove(snap, perms.Dangerous))
}

func TestAllQualifyingPairsReportedInOrder(t *testing.T) {
	snap := &snapshot.Snapshot{
		GuildID: "g",
		Roles: []snapshot.Role{
			{ID: "e", Name: "@everyone", Position: 0, Everyone: true},
			{ID: "mod", Name: "Mod", Position: 1, Permissions: perms.NewSet(perms.BanMembers)},
			{ID: "adm", Name: "Admin", Position: 2, Permissions: perms.NewSet(perms.Administrator)},
			{ID: "d1", Name: "Color", Position: 3},
			{ID: "d2", Name: "Booster", Position: 4},
		},
	}

	pairs := DecorativeAbove(snap, perms.Dangerous)

	// Privileged roles in guild order (Mod, Admin), decorative above
	// each sorted ascending by position.
	require.Len(t, pairs, 4)
	assert.Equal(t, "Mod", pairs[0].Privileged.Name)
	assert.Equal(t, "Color", pairs[0].Decorative.Name)
	assert.Equal(t, "Mod", pairs[1].Privileged.Name)
	assert.Equal(t, "Booster", pairs[1].Decorative.Name)
	assert.Equal(t, "Admin", pairs[2].Privileged.Name)
	assert.Equal(t, "Color", pairs[2].Decorative.Name)
	assert.Equal(t, "Admin", pairs[3].Privileged.Name)
	assert.Equal(t, "Booster", pairs[3].Decorative.Name)
}
