package detectors

import (
	"context"

	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/config"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/metrics"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/permcache"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/report"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/resolver"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/snapshot"
)

// WebhookCounter answers per-channel webhook-count queries. A fetch
// the bot lacks permission for reports snapshot.WebhookCountUnavailable
// instead of an error; detectors substitute the marker into findings.
type WebhookCounter interface {
	WebhookCount(ctx context.Context, channelID string) (int, error)
}

// Env is the read-only environment one detector run sees: the
// snapshot, the shared per-guild cache, the resolver, the webhook
// query and the tunables. Detectors are stateless; everything they
// touch comes in here.
type Env struct {
	Snapshot *snapshot.Snapshot
	Cache    *permcache.Cache
	Resolver *resolver.Resolver
	Webhooks WebhookCounter
	Tunables config.AuditConfig
}

// Detector is one pure security check. Detect maps the environment to
// findings; it must not mutate the snapshot and must keep fetch
// failures inside its own findings.
type Detector interface {
	Name() string
	Detect(ctx context.Context, env *Env) ([]report.Finding, error)
}

// Ordered returns the full detector set in its fixed declared order.
// The orchestrator reports results in this order regardless of
// execution mode.
func Ordered() []Detector {
	return []Detector{
		RoleHierarchy{},
		AdminLeak{},
		DangerousPermissions{},
		EveryoneExposure{},
		WebhookAbuse{},
		SpamPermission{},
		MassMention{},
		WebhookOverflow{},
		VoiceAbuse{},
		ChannelManagement{},
		ServerSettings{},
	}
}

// webhookCount wraps the counter with the unavailable substitution and
// the metrics bump, so every detector degrades the same way.
func webhookCount(ctx context.Context, env *Env, channelID string) int {
	if env.Webhooks == nil {
		metrics.WebhookFetchUnavailable.Inc()
		return snapshot.WebhookCountUnavailable
	}
	count, err := env.Webhooks.WebhookCount(ctx, channelID)
	if err != nil || count < 0 {
		metrics.WebhookFetchUnavailable.Inc()
		return snapshot.WebhookCountUnavailable
	}
	return count
}
