package detectors

import (
	"context"

	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/perms"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/report"
)

const (
	// CodeVoiceRole flags a role stacking voice-control permissions.
	CodeVoiceRole = "voice_abuse.role"
	// CodeVoiceChannel flags a voice channel with risky overwrites.
	CodeVoiceChannel = "voice_abuse.channel"
)

// voiceFlagThreshold is how many voice permissions a role needs before
// the combination alone flags it; any manage permission in the set
// flags on its own.
const voiceFlagThreshold = 2

// voiceChannelRoleLimit is how many populated roles may hold voice
// permissions in one channel before the channel itself is flagged.
const voiceChannelRoleLimit = 3

// VoiceAbuse covers the two voice-damage shapes: roles stacking
// mute/deafen/move powers guild-wide, and individual voice channels
// where overwrites spread those powers too widely.
type VoiceAbuse struct{}

func (VoiceAbuse) Name() string { return "voice_abuse" }

func (VoiceAbuse) Detect(ctx context.Context, env *Env) ([]report.Finding, error) {
	var findings []report.Finding

	roles := env.Cache.RolesWithAny(env.Snapshot, perms.Voice)
	for _, role := range roles {
		if role.Everyone {
			continue
		}

		held := role.Permissions.Intersect(perms.Voice)
		hasManage := held.Intersects(perms.VoiceManage)
		if held.Count() < voiceFlagThreshold && !hasManage {
			continue
		}

		findings = append(findings, report.Finding{
			Severity: report.SeverityMedium,
			Code:     CodeVoiceRole,
			Subjects: []string{role.ID},
			Params: map[string]interface{}{
				"role_name":    role.Name,
				"member_count": role.MemberCount,
				"permissions":  held.Names(),
				"has_manage":   hasManage,
			},
		})
	}

	everyone, hasEveryone := env.Snapshot.EveryoneRole()
	for _, ch := range env.Snapshot.VoiceChannels() {
		var issues []string

		if hasEveryone {
			if ow, ok := ch.Overwrite(everyone.ID); ok {
				if ow.Allow.Has(perms.MuteMembers) || ow.Allow.Has(perms.MoveMembers) {
					issues = append(issues, "everyone_voice_overwrite")
				}
			}
		}

		populated := 0
		for _, role := range env.Snapshot.Roles {
			if role.Everyone || role.MemberCount < 1 {
				continue
			}
			if env.Resolver.EffectiveAny(env.Snapshot, role, ch, perms.Voice) {
				populated++
			}
		}
		if populated > voiceChannelRoleLimit {
			issues = append(issues, "too_many_voice_roles")
		}

		if len(issues) == 0 {
			continue
		}

		findings = append(findings, report.Finding{
			Severity: report.SeverityMedium,
			Code:     CodeVoiceChannel,
			Subjects: []string{ch.ID},
			Params: map[string]interface{}{
				"channel_name": ch.Name,
				"issues":       issues,
				"voice_roles":  populated,
			},
		})
	}

	return findings, nil
}
