package models

import "time"

// Status is the classification a rule assigns to a single observation.
type Status string

const (
	StatusPass Status = "PASS"
	StatusWarn Status = "WARN"
	StatusFail Status = "FAIL"
)

// Severity represents the risk weight of a finding. It is independent of
// Status: a WARN may carry HIGH severity, and a PASS always carries INFO.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityInfo     Severity = "INFO"
)

// Rank orders severities INFO < MEDIUM < HIGH < CRITICAL.
// Unknown values rank below INFO.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// Finding is one classified observation produced by a rule.
// It is the atomic output unit of the rule engine and is never edited after
// it has been recorded.
//
// Only Name, Status, Details and Severity are part of the persisted report.
// RuleID, Tier and ResourceID are bookkeeping for console output and logs.
type Finding struct {
	Name     string   `json:"name"     yaml:"name"`
	Status   Status   `json:"status"   yaml:"status"`
	Details  string   `json:"details"  yaml:"details"`
	Severity Severity `json:"severity" yaml:"severity"`

	RuleID     string `json:"-" yaml:"-"`
	Tier       Tier   `json:"-" yaml:"-"`
	ResourceID string `json:"-" yaml:"-"`
}

// Summary holds the per-status counts of a run.
// TotalChecks always equals Passed + Failed + Warnings.
type Summary struct {
	TotalChecks int `json:"total_checks" yaml:"total_checks"`
	Passed      int `json:"passed"       yaml:"passed"`
	Failed      int `json:"failed"       yaml:"failed"`
	Warnings    int `json:"warnings"     yaml:"warnings"`
}

// Report is the persisted artifact of a verification run: the capture time,
// the status counts and every finding in evaluation order.
type Report struct {
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Summary   Summary   `json:"summary"   yaml:"summary"`
	Checks    []Finding `json:"checks"    yaml:"checks"`
}

// Verdict is the single PASS/FAIL outcome of a run together with the
// severity-ordered digest used by the console printer.
type Verdict struct {
	// OK is true when no finding has status FAIL. WARN never flips it.
	OK      bool    `json:"ok"`
	Summary Summary `json:"summary"`
	// Failures and Warnings keep evaluation order.
	Failures []Finding `json:"failures,omitempty"`
	Warnings []Finding `json:"warnings,omitempty"`
}
