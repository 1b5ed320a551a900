package report

// Severity of a single finding. The critical detectors emit Critical,
// the moderate ones Medium; the settings posture detector mixes both.
type Severity uint8

const (
	SeverityMedium Severity = iota
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	default:
		return "medium"
	}
}

// Band is the qualitative risk level derived from a finding count.
type Band uint8

const (
	BandLow Band = iota
	BandMedium
	BandHigh
	BandCritical
)

func (b Band) String() string {
	switch b {
	case BandCritical:
		return "critical"
	case BandHigh:
		return "high"
	case BandMedium:
		return "medium"
	default:
		return "low"
	}
}

// BandFor buckets a finding count into a band. Fixed breakpoints, no
// detector-specific weighting: 0 low, 1-2 medium, 3-4 high, >=5
// critical.
func BandFor(findingCount int) Band {
	switch {
	case findingCount >= 5:
		return BandCritical
	case findingCount >= 3:
		return BandHigh
	case findingCount >= 1:
		return BandMedium
	default:
		return BandLow
	}
}

// Finding is one detected anomaly. Code is a stable machine
// identifier; Params carry the structured data the presentation layer
// formats. The core never emits rendered text.
type Finding struct {
	Severity Severity
	Code     string
	Subjects []string
	Params   map[string]interface{}
}

// RiskReport is one detector's output for one run.
type RiskReport struct {
	Detector string
	Findings []Finding
	Band     Band
}

// NewRiskReport derives the band from the finding count.
func NewRiskReport(detector string, findings []Finding) RiskReport {
	return RiskReport{
		Detector: detector,
		Findings: findings,
		Band:     BandFor(len(findings)),
	}
}

// Combined buckets the total finding count of a whole run through the
// same breakpoints.
func Combined(reports []RiskReport) Band {
	total := 0
	for _, r := range reports {
		total += len(r.Findings)
	}
	return BandFor(total)
}
