package engine

import (
	"fmt"
	"slices"
	"time"

	"github.com/pankaj-dahiya-devops/tierguard/internal/models"
)

// Recorder accumulates findings in evaluation order and keeps running
// per-status counts. The timestamp is fixed at creation.
//
// A Recorder lives for one run. It is not safe for concurrent use.
type Recorder struct {
	timestamp time.Time
	findings  []models.Finding
	summary   models.Summary
}

// NewRecorder returns an empty recorder stamped with ts.
func NewRecorder(ts time.Time) *Recorder {
	return &Recorder{timestamp: ts.UTC()}
}

// Record appends findings in order. It panics on a status outside
// PASS/WARN/FAIL since no rule may produce one.
func (r *Recorder) Record(findings ...models.Finding) {
	for _, f := range findings {
		if !tally(&r.summary, f.Status) {
			panic(fmt.Sprintf("finding %q has unknown status %q", f.Name, f.Status))
		}
		r.findings = append(r.findings, f)
	}
}

// Findings returns a copy of the recorded findings.
func (r *Recorder) Findings() []models.Finding {
	return slices.Clone(r.findings)
}

// Summary returns the running counts.
func (r *Recorder) Summary() models.Summary {
	return r.summary
}

// Timestamp returns the capture time of the run.
func (r *Recorder) Timestamp() time.Time {
	return r.timestamp
}

// Report returns a point-in-time copy of the recorder state.
func (r *Recorder) Report() *models.Report {
	checks := r.Findings()
	if checks == nil {
		checks = []models.Finding{}
	}
	return &models.Report{
		Timestamp: r.timestamp,
		Summary:   r.summary,
		Checks:    checks,
	}
}

// tally adds one finding with status to s. It reports false, leaving s
// untouched, for unknown statuses.
func tally(s *models.Summary, status models.Status) bool {
	switch status {
	case models.StatusPass:
		s.Passed++
	case models.StatusFail:
		s.Failed++
	case models.StatusWarn:
		s.Warnings++
	default:
		return false
	}
	s.TotalChecks++
	return true
}
