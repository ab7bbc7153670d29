package rules

import (
	"fmt"

	"github.com/pankaj-dahiya-devops/tierguard/internal/models"
	"github.com/pankaj-dahiya-devops/tierguard/internal/policy"
)

// LoadBalancerSchemeRule compares every load balancer's scheme against the
// scheme its tier expects. The expectation is asymmetric: an internal front
// tier LB is a reachability concern (WARN/MEDIUM), while an internet-facing
// backend LB is a direct exposure and the one case of FAIL/CRITICAL.
//
// A retrieval error degrades to a single WARN/MEDIUM for the tier; missing
// data is never reported as PASS and never escalated to FAIL.
type LoadBalancerSchemeRule struct{}

func (r LoadBalancerSchemeRule) ID() string   { return "LB_SCHEME_EXPOSURE" }
func (r LoadBalancerSchemeRule) Name() string { return "Load Balancer Exposure Scheme" }

func (r LoadBalancerSchemeRule) Evaluate(ctx RuleContext) []models.Finding {
	if ctx.Snapshot == nil {
		return nil
	}
	var findings []models.Finding
	for _, tier := range ctx.posture().Tiers {
		ts := ctx.tierSnapshot(tier.Name)

		if ts.LoadBalancersErr != nil {
			findings = append(findings, newFinding(r, tier.Name, "",
				fmt.Sprintf("%s Load Balancers", tier.Name), models.StatusWarn, models.SeverityMedium,
				fmt.Sprintf("Error checking load balancers: %v", ts.LoadBalancersErr)))
			continue
		}

		name := fmt.Sprintf("%s Load Balancer Exposure", tier.Name)
		for _, lb := range ts.LoadBalancers {
			if lb.Scheme == tier.ExpectedScheme {
				findings = append(findings, newFinding(r, tier.Name, lb.ARN, name,
					models.StatusPass, models.SeverityInfo,
					fmt.Sprintf("%s load balancer %s is %s (expected for %s tier)", tier.Name, lb.Name, lb.Scheme, tier.Role)))
				continue
			}
			status, sev := tier.SchemeMismatch()
			findings = append(findings, newFinding(r, tier.Name, lb.ARN, name, status, sev,
				fmt.Sprintf("%s load balancer %s is %s (%s)", tier.Name, lb.Name, lb.Scheme, mismatchReason(tier))))
		}
	}
	return findings
}

func mismatchReason(tier policy.TierProfile) string {
	if tier.Role == policy.RoleBackend {
		return "SECURITY RISK - backend should be private"
	}
	return "may be unreachable by intended public users"
}
