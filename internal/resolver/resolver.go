package resolver

import (
	"fmt"

	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/perms"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/snapshot"
)

// Resolver computes the permission a role effectively holds in a
// channel: base bitmask, then the everyone overwrite, then the role's
// own overwrite, each layer replacing the previous one for the bits it
// names. Several detectors depend on this exact precedence; the bare
// bitmask alone is not enough for channel-scoped rules.
type Resolver struct {
	// Strict makes unknown permission inputs panic instead of being
	// resolved as absent. Enabled in development builds and tests.
	Strict bool
}

// New returns a resolver. Strict mode is opt-in.
func New(strict bool) *Resolver {
	return &Resolver{Strict: strict}
}

// Effective resolves one permission for one role in one channel.
func (r *Resolver) Effective(snap *snapshot.Snapshot, role snapshot.Role, ch snapshot.Channel, p perms.Permission) bool {
	if r.Strict && !p.Known() {
		panic(fmt.Sprintf("resolver: unknown permission bit %#x", uint64(p)))
	}

	granted := role.Permissions.Has(p)

	if everyone, ok := snap.EveryoneRole(); ok && !role.Everyone {
		if ow, ok := ch.Overwrite(everyone.ID); ok {
			granted = apply(granted, ow, p)
		}
	}

	if ow, ok := ch.Overwrite(role.ID); ok {
		granted = apply(granted, ow, p)
	}

	return granted
}

// EffectiveAny reports whether any permission in set resolves true for
// the role in the channel.
func (r *Resolver) EffectiveAny(snap *snapshot.Snapshot, role snapshot.Role, ch snapshot.Channel, set perms.Set) bool {
	found := false
	set.Each(func(p perms.Permission) {
		if !found && r.Effective(snap, role, ch, p) {
			found = true
		}
	})
	return found
}

// EffectiveAll reports whether every permission in set resolves true.
func (r *Resolver) EffectiveAll(snap *snapshot.Snapshot, role snapshot.Role, ch snapshot.Channel, set perms.Set) bool {
	all := true
	set.Each(func(p perms.Permission) {
		if all && !r.Effective(snap, role, ch, p) {
			all = false
		}
	})
	return all
}

// A permission absent from both allow and deny falls through to the
// previous layer's value.
func apply(prev bool, ow snapshot.Overwrite, p perms.Permission) bool {
	switch {
	case ow.Allow.Has(p):
		return true
	case ow.Deny.Has(p):
		return false
	default:
		return prev
	}
}
