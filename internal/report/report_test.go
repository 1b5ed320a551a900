package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBandBreakpoints(t *testing.T) {
	tests := []struct {
		count int
		want  Band
	}{
		{0, BandLow},
		{1, BandMedium},
		{2, BandMedium},
		{3, BandHigh},
		{4, BandHigh},
		{5, BandCritical},
		{6, BandCritical},
		{50, BandCritical},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, BandFor(tt.count), "count=%d", tt.count)
	}
}

func TestNewRiskReportDerivesBand(t *testing.T) {
	r := NewRiskReport("spam_permission", []Finding{
		{Code: "spam_role"},
		{Code: "spam_role"},
		{Code: "spam_role"},
	})
	assert.Equal(t, BandHigh, r.Band)
	assert.Equal(t, "spam_permission", r.Detector)
}

func TestCombinedSumsAcrossDetectors(t *testing.T) {
	reports := []RiskReport{
		NewRiskReport("a", []Finding{{}, {}}),
		NewRiskReport("b", []Finding{{}, {}, {}}),
	}
	assert.Equal(t, BandCritical, Combined(reports))
	assert.Equal(t, BandLow, Combined(nil))
}

func TestStringers(t *testing.T) {
	assert.Equal(t, "critical", SeverityCritical.String())
	assert.Equal(t, "medium", SeverityMedium.String())
	assert.Equal(t, "low", BandLow.String())
	assert.Equal(t, "high", BandHigh.String())
}
