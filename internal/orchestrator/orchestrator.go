package orchestrator

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/detectors"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/logging"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/metrics"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/report"
)

// Mode selects how a run schedules its detectors.
type Mode uint8

const (
	// Parallel launches every detector at once against the snapshot.
	Parallel Mode = iota
	// Paced runs detectors one at a time with a fixed delay between
	// them, for callers with little rate-limit budget left.
	Paced
)

func (m Mode) String() string {
	if m == Paced {
		return "paced"
	}
	return "parallel"
}

// CodeDetectorFailed is the synthetic finding carried by a placeholder
// report when a detector faulted.
const CodeDetectorFailed = "orchestrator.detector_failed"

// Orchestrator drives the detector set against one snapshot. The
// detector order is fixed at construction; results come back in that
// order whatever the execution mode.
type Orchestrator struct {
	detectors  []detectors.Detector
	pacedDelay time.Duration
}

// New builds an orchestrator over the full detector set.
func New(pacedDelay time.Duration) *Orchestrator {
	return NewWithDetectors(detectors.Ordered(), pacedDelay)
}

// NewWithDetectors builds an orchestrator over a custom detector list,
// keeping the given order as the fixed reporting order.
func NewWithDetectors(ds []detectors.Detector, pacedDelay time.Duration) *Orchestrator {
	return &Orchestrator{
		detectors:  ds,
		pacedDelay: pacedDelay,
	}
}

// Run executes every detector against the environment's snapshot and
// returns one RiskReport per completed detector, in the fixed order. A
// detector fault becomes a placeholder report; it never aborts
// siblings. On cancellation the reports that finished are returned
// together with the context error, not discarded.
func (o *Orchestrator) Run(ctx context.Context, env *detectors.Env, mode Mode) ([]report.RiskReport, error) {
	start := time.Now()

	var results []*report.RiskReport
	var err error
	switch mode {
	case Paced:
		results, err = o.runPaced(ctx, env)
	default:
		results, err = o.runParallel(ctx, env)
	}

	out := make([]report.RiskReport, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}

	metrics.AuditRuns.WithLabelValues(mode.String()).Inc()
	logging.Info("Audit run for guild %s finished in %s: %d/%d detectors, combined band %s",
		env.Snapshot.GuildID, time.Since(start), len(out), len(o.detectors), report.Combined(out))

	return out, err
}

type indexed struct {
	i   int
	rep *report.RiskReport
}

func (o *Orchestrator) runParallel(ctx context.Context, env *detectors.Env) ([]*report.RiskReport, error) {
	results := make([]*report.RiskReport, len(o.detectors))
	done := make(chan indexed, len(o.detectors))

	for i, d := range o.detectors {
		go func(i int, d detectors.Detector) {
			done <- indexed{i: i, rep: o.runOne(ctx, d, env)}
		}(i, d)
	}

	for finished := 0; finished < len(o.detectors); finished++ {
		select {
		case r := <-done:
			results[r.i] = r.rep
		case <-ctx.Done():
			return results, ctx.Err()
		}
	}
	return results, nil
}

func (o *Orchestrator) runPaced(ctx context.Context, env *detectors.Env) ([]*report.RiskReport, error) {
	limiter := rate.NewLimiter(rate.Every(o.pacedDelay), 1)
	results := make([]*report.RiskReport, len(o.detectors))

	for i, d := range o.detectors {
		if err := limiter.Wait(ctx); err != nil {
			return results, err
		}
		results[i] = o.runOne(ctx, d, env)
	}
	return results, nil
}

// runOne contains a detector fault and converts it into a placeholder
// report rather than letting it escape.
func (o *Orchestrator) runOne(ctx context.Context, d detectors.Detector, env *detectors.Env) (result *report.RiskReport) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("Detector %s panicked: %v", d.Name(), r)
			metrics.DetectorFailures.WithLabelValues(d.Name()).Inc()
			failed := failedReport(d.Name(), fmt.Sprintf("panic: %v", r))
			result = &failed
		}
	}()

	start := time.Now()
	findings, err := d.Detect(ctx, env)
	metrics.DetectorDuration.WithLabelValues(d.Name()).Observe(time.Since(start).Seconds())

	if err != nil {
		logging.Error("Detector %s failed: %v", d.Name(), err)
		metrics.DetectorFailures.WithLabelValues(d.Name()).Inc()
		failed := failedReport(d.Name(), err.Error())
		return &failed
	}

	metrics.FindingsEmitted.WithLabelValues(d.Name()).Add(float64(len(findings)))
	r := report.NewRiskReport(d.Name(), findings)
	return &r
}

func failedReport(detector, reason string) report.RiskReport {
	return report.NewRiskReport(detector, []report.Finding{{
		Severity: report.SeverityMedium,
		Code:     CodeDetectorFailed,
		Params: map[string]interface{}{
			"detector": detector,
			"reason":   reason,
		},
	}})
}
