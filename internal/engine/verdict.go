package engine

import "github.com/pankaj-dahiya-devops/tierguard/internal/models"

// Aggregate derives the verdict from a finding sequence. It is a pure
// function: the same input always yields the same Verdict.
//
// Failures and Warnings keep evaluation order. Severity is carried through
// for display only; OK depends on FAIL count alone.
func Aggregate(findings []models.Finding) models.Verdict {
	var v models.Verdict
	for _, f := range findings {
		if !tally(&v.Summary, f.Status) {
			continue
		}
		switch f.Status {
		case models.StatusFail:
			v.Failures = append(v.Failures, f)
		case models.StatusWarn:
			v.Warnings = append(v.Warnings, f)
		}
	}
	v.OK = v.Summary.Failed == 0
	return v
}

// HighestSeverity returns the most severe severity among findings, or ""
// when findings is empty.
func HighestSeverity(findings []models.Finding) models.Severity {
	var top models.Severity
	for _, f := range findings {
		if f.Severity.Rank() > top.Rank() {
			top = f.Severity
		}
	}
	return top
}
