package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/config"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/detectors"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/permcache"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/perms"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/report"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/resolver"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/snapshot"
)

type stubDetector struct {
	name     string
	findings []report.Finding
	err      error
	panics   bool
	delay    time.Duration
	// ignoreCtx sleeps through cancellation, simulating a detector
	// stuck in a blocking remote call.
	ignoreCtx bool
}

func (s stubDetector) Name() string { return s.name }

func (s stubDetector) Detect(ctx context.Context, env *detectors.Env) ([]report.Finding, error) {
	if s.delay > 0 {
		if s.ignoreCtx {
			time.Sleep(s.delay)
		} else {
			select {
			case <-time.After(s.delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	if s.panics {
		panic("boom")
	}
	return s.findings, s.err
}

// flakyWebhooks fails the fetch for one channel id only.
type flakyWebhooks struct {
	failing string
}

func (f flakyWebhooks) WebhookCount(ctx context.Context, channelID string) (int, error) {
	if channelID == f.failing {
		return 0, errors.New("forbidden")
	}
	return 2, nil
}

func testEnv(hooks detectors.WebhookCounter) *detectors.Env {
	return &detectors.Env{
		Snapshot: &snapshot.Snapshot{
			GuildID: "g",
			Roles: []snapshot.Role{
				{ID: "e", Name: "@everyone", Position: 0, Everyone: true},
				{ID: "wh", Name: "Hooker", Position: 1,
					Permissions: perms.NewSet(perms.ManageWebhooks, perms.SendMessages), MemberCount: 2},
			},
			Channels: []snapshot.Channel{
				{ID: "c1", Name: "alpha", Kind: snapshot.ChannelText},
				{ID: "c2", Name: "beta", Kind: snapshot.ChannelText},
			},
			Settings: snapshot.Settings{
				MFALevel: 1, VerificationLevel: 3, ContentFilterLevel: 2,
				DefaultNotifications: 1,
				Features:             []string{"COMMUNITY", "AUTO_MODERATION"},
			},
		},
		Cache:    permcache.New(),
		Resolver: resolver.New(true),
		Webhooks: hooks,
		Tunables: config.DefaultConfig().Audit,
	}
}

func TestRunParallelFixedOrder(t *testing.T) {
	ds := []detectors.Detector{
		stubDetector{name: "slow", delay: 30 * time.Millisecond, findings: []report.Finding{{Code: "a"}}},
		stubDetector{name: "fast", findings: []report.Finding{{Code: "b"}}},
	}
	o := NewWithDetectors(ds, time.Millisecond)

	reports, err := o.Run(context.Background(), testEnv(nil), Parallel)
	require.NoError(t, err)

	// The slow detector still reports first: fixed declared order.
	require.Len(t, reports, 2)
	assert.Equal(t, "slow", reports[0].Detector)
	assert.Equal(t, "fast", reports[1].Detector)
}

func TestRunPacedFixedOrder(t *testing.T) {
	ds := []detectors.Detector{
		stubDetector{name: "one", findings: []report.Finding{{Code: "a"}}},
		stubDetector{name: "two"},
	}
	o := NewWithDetectors(ds, time.Millisecond)

	reports, err := o.Run(context.Background(), testEnv(nil), Paced)
	require.NoError(t, err)

	require.Len(t, reports, 2)
	assert.Equal(t, "one", reports[0].Detector)
	assert.Equal(t, report.BandMedium, reports[0].Band)
	assert.Equal(t, "two", reports[1].Detector)
	assert.Equal(t, report.BandLow, reports[1].Band)
}

func TestDetectorErrorBecomesPlaceholder(t *testing.T) {
	ds := []detectors.Detector{
		stubDetector{name: "broken", err: errors.New("fetch exploded")},
		stubDetector{name: "healthy", findings: []report.Finding{{Code: "x"}}},
	}
	o := NewWithDetectors(ds, time.Millisecond)

	reports, err := o.Run(context.Background(), testEnv(nil), Parallel)
	require.NoError(t, err)

	require.Len(t, reports, 2)
	require.Len(t, reports[0].Findings, 1)
	assert.Equal(t, CodeDetectorFailed, reports[0].Findings[0].Code)
	assert.Equal(t, "fetch exploded", reports[0].Findings[0].Params["reason"])
	assert.Equal(t, "x", reports[1].Findings[0].Code)
}

func TestDetectorPanicContained(t *testing.T) {
	ds := []detectors.Detector{
		stubDetector{name: "bomb", panics: true},
		stubDetector{name: "healthy"},
	}
	o := NewWithDetectors(ds, time.Millisecond)

	reports, err := o.Run(context.Background(), testEnv(nil), Paced)
	require.NoError(t, err)

	require.Len(t, reports, 2)
	assert.Equal(t, CodeDetectorFailed, reports[0].Findings[0].Code)
	assert.Empty(t, reports[1].Findings)
}

func TestCancellationReturnsFinishedReports(t *testing.T) {
	ds := []detectors.Detector{
		stubDetector{name: "quick", findings: []report.Finding{{Code: "q"}}},
		stubDetector{name: "stuck", delay: 5 * time.Second, ignoreCtx: true},
	}
	o := NewWithDetectors(ds, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	reports, err := o.Run(ctx, testEnv(nil), Parallel)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	require.Len(t, reports, 1)
	assert.Equal(t, "quick", reports[0].Detector)
}

func TestFullRunWithPartialWebhookFailure(t *testing.T) {
	// One channel's webhook fetch is forbidden; the run still yields
	// all eleven reports and the affected findings carry the
	// unavailable marker instead of dropping the channel.
	o := New(time.Millisecond)
	env := testEnv(flakyWebhooks{failing: "c2"})

	reports, err := o.Run(context.Background(), env, Parallel)
	require.NoError(t, err)
	require.Len(t, reports, 11)

	var abuse report.RiskReport
	for _, r := range reports {
		assert.NotEqual(t, CodeDetectorFailed, firstCode(r))
		if r.Detector == "webhook_abuse" {
			abuse = r
		}
	}

	require.Len(t, abuse.Findings, 2)
	byChannel := map[string]report.Finding{}
	for _, f := range abuse.Findings {
		byChannel[f.Subjects[0]] = f
	}
	assert.Equal(t, 2, byChannel["c1"].Params["webhook_count"])
	assert.Equal(t, snapshot.WebhookCountUnavailable, byChannel["c2"].Params["webhook_count"])
	assert.Equal(t, true, byChannel["c2"].Params["webhook_unavailable"])
}

func firstCode(r report.RiskReport) string {
	if len(r.Findings) == 0 {
		return ""
	}
	return r.Findings[0].Code
}
