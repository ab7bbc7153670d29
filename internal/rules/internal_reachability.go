package rules

import (
	"fmt"

	"github.com/pankaj-dahiya-devops/tierguard/internal/models"
)

// InternalReachabilityRule judges the outside-in probe results for every
// internal-scheme load balancer of tiers that request probing. A received
// HTTP response of any status proves the path exists and fails the run.
// Internet-facing load balancers are not probed here; the scheme rule
// already reports them.
type InternalReachabilityRule struct{}

func (r InternalReachabilityRule) ID() string   { return "INTERNAL_REACHABILITY" }
func (r InternalReachabilityRule) Name() string { return "Internal Load Balancer Internet Reachability" }

func (r InternalReachabilityRule) Evaluate(ctx RuleContext) []models.Finding {
	if ctx.Snapshot == nil {
		return nil
	}
	posture := ctx.posture()
	var findings []models.Finding
	for _, tier := range posture.Tiers {
		if !tier.ProbeInternal {
			continue
		}
		ts := ctx.tierSnapshot(tier.Name)
		name := fmt.Sprintf("%s Internet Exposure", tier.Name)

		if ts.LoadBalancersErr != nil {
			findings = append(findings, newFinding(r, tier.Name, "", name,
				models.StatusWarn, models.SeverityMedium,
				fmt.Sprintf("Could not test %s internet accessibility: %v", tier.Name, ts.LoadBalancersErr)))
			continue
		}

		for _, lb := range ts.LoadBalancers {
			if lb.Scheme != models.SchemeInternal {
				continue
			}
			res, probed := ctx.Probes.Lookup(tier.Name, lb.Name)
			if !probed {
				res = models.ProbeResult{LoadBalancer: lb.Name, Outcome: models.ProbeIndeterminate, Detail: "not probed"}
			}

			switch res.Outcome {
			case models.ProbeReachable:
				findings = append(findings, newFinding(r, tier.Name, lb.ARN, name,
					models.StatusFail, models.SeverityCritical,
					fmt.Sprintf("%s internal load balancer %s is accessible from internet at %s (HTTP %d)", tier.Name, lb.Name, lb.DNSName, res.StatusCode)))
			case models.ProbeUnreachable:
				findings = append(findings, newFinding(r, tier.Name, lb.ARN, name,
					models.StatusPass, models.SeverityInfo,
					fmt.Sprintf("%s internal load balancer %s correctly NOT accessible from internet (%s)", tier.Name, lb.Name, res.Detail)))
			default:
				status, sev := posture.Probe.IndeterminateOutcome()
				findings = append(findings, newFinding(r, tier.Name, lb.ARN, name, status, sev,
					fmt.Sprintf("Could not test %s internet accessibility of %s: %s", tier.Name, lb.Name, res.Detail)))
			}
		}
	}
	return findings
}
