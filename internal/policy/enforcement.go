package policy

import (
	"strings"

	"github.com/pankaj-dahiya-devops/tierguard/internal/models"
)

// SchemeMismatch returns the classification for a load balancer whose scheme
// differs from the tier's expected scheme. A public backend load balancer is
// the most direct violation the tool exists to catch and is the only scheme
// mismatch that fails the run.
func (t TierProfile) SchemeMismatch() (models.Status, models.Severity) {
	if t.Role == RoleBackend {
		return models.StatusFail, models.SeverityCritical
	}
	return models.StatusWarn, models.SeverityMedium
}

// IndeterminateOutcome returns the classification for a probe that failed
// without proving anything about reachability.
//
// Unknown or empty values behave like "warn".
func (p ProbeProfile) IndeterminateOutcome() (models.Status, models.Severity) {
	if strings.EqualFold(p.Indeterminate, IndeterminatePass) {
		return models.StatusPass, models.SeverityInfo
	}
	return models.StatusWarn, models.SeverityMedium
}
