package detectors

import (
	"context"

	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/report"
)

// Guild setting levels, matching the Discord API values.
const (
	MFANone = 0

	VerificationNone = 0
	VerificationLow  = 1

	ContentFilterDisabled = 0
	ContentFilterPartial  = 1

	NotifyAllMessages = 0

	NSFWAgeRestricted = 3
)

// Guild feature flags the posture checks look for.
const (
	FeatureCommunity          = "COMMUNITY"
	FeatureAutoModeration     = "AUTO_MODERATION"
	FeatureRaidAlertsDisabled = "RAID_ALERTS_DISABLED"
)

const (
	CodeMFADisabled           = "server_settings.mfa_disabled"
	CodeWeakVerification      = "server_settings.weak_verification"
	CodeContentFilterOff      = "server_settings.content_filter_disabled"
	CodeContentFilterPartial  = "server_settings.content_filter_partial"
	CodeNotifyAllMessages     = "server_settings.notify_all_messages"
	CodeNSFWOpen              = "server_settings.nsfw_open"
	CodeNoCommunity           = "server_settings.no_community"
	CodeNoAutoModeration      = "server_settings.no_auto_moderation"
	CodeRaidAlertsDisabled    = "server_settings.raid_alerts_disabled"
	CodeLargeGuildWeakGate    = "server_settings.large_guild_weak_verification"
)

// ServerSettings audits the guild-wide posture independent of roles
// and channels. Every check yields at most one finding with a fixed
// severity.
type ServerSettings struct{}

func (ServerSettings) Name() string { return "server_settings" }

func (ServerSettings) Detect(ctx context.Context, env *Env) ([]report.Finding, error) {
	s := env.Snapshot.Settings
	var findings []report.Finding

	add := func(sev report.Severity, code string, params map[string]interface{}) {
		findings = append(findings, report.Finding{
			Severity: sev,
			Code:     code,
			Subjects: []string{env.Snapshot.GuildID},
			Params:   params,
		})
	}

	if s.MFALevel == MFANone {
		add(report.SeverityCritical, CodeMFADisabled, nil)
	}

	if s.VerificationLevel <= VerificationLow {
		add(report.SeverityMedium, CodeWeakVerification, map[string]interface{}{
			"level": s.VerificationLevel,
		})
	}

	switch s.ContentFilterLevel {
	case ContentFilterDisabled:
		add(report.SeverityMedium, CodeContentFilterOff, nil)
	case ContentFilterPartial:
		add(report.SeverityMedium, CodeContentFilterPartial, nil)
	}

	if s.DefaultNotifications == NotifyAllMessages {
		add(report.SeverityMedium, CodeNotifyAllMessages, nil)
	}

	// Age-restricted guild content with the filter not fully on.
	if s.NSFWLevel == NSFWAgeRestricted && s.ContentFilterLevel != 2 {
		add(report.SeverityMedium, CodeNSFWOpen, map[string]interface{}{
			"nsfw_level":           s.NSFWLevel,
			"content_filter_level": s.ContentFilterLevel,
		})
	}

	if !s.HasFeature(FeatureCommunity) {
		add(report.SeverityMedium, CodeNoCommunity, nil)
	}

	if !s.HasFeature(FeatureAutoModeration) {
		add(report.SeverityMedium, CodeNoAutoModeration, nil)
	}

	if s.HasFeature(FeatureRaidAlertsDisabled) {
		add(report.SeverityCritical, CodeRaidAlertsDisabled, nil)
	}

	if s.MemberCount > env.Tunables.LargeGuildMembers && s.VerificationLevel <= VerificationLow {
		add(report.SeverityCritical, CodeLargeGuildWeakGate, map[string]interface{}{
			"member_count":       s.MemberCount,
			"verification_level": s.VerificationLevel,
		})
	}

	return findings, nil
}
