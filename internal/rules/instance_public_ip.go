package rules

import (
	"fmt"
	"strings"

	"github.com/pankaj-dahiya-devops/tierguard/internal/models"
)

// InstancePublicIPRule reports instances that carry a public IP address.
// In a tier that does not allow public addresses all such instances are
// listed in one WARN/HIGH finding; elsewhere they are expected
// (bastion/NAT-class) and reported as PASS/INFO.
//
// A tier with no public addresses produces no finding, and neither does a
// tier whose VPC could not be resolved (the ingress rule reports that).
type InstancePublicIPRule struct{}

func (r InstancePublicIPRule) ID() string   { return "INSTANCE_PUBLIC_IP" }
func (r InstancePublicIPRule) Name() string { return "Instance Public IP Exposure" }

func (r InstancePublicIPRule) Evaluate(ctx RuleContext) []models.Finding {
	if ctx.Snapshot == nil {
		return nil
	}
	var findings []models.Finding
	for _, tier := range ctx.posture().Tiers {
		ts := ctx.tierSnapshot(tier.Name)
		if !ts.VPCResolved() {
			continue
		}

		name := fmt.Sprintf("%s Public IPs", tier.Name)
		if ts.InstancesErr != nil {
			findings = append(findings, newFinding(r, tier.Name, ts.VPCID, name,
				models.StatusWarn, models.SeverityMedium,
				fmt.Sprintf("Error checking instances in %s: %v", ts.VPCID, ts.InstancesErr)))
			continue
		}

		var exposed []string
		for _, inst := range ts.Instances {
			if inst.PublicIP == "" {
				continue
			}
			exposed = append(exposed, fmt.Sprintf("%s/%s/%s", inst.ID, inst.Name, inst.PublicIP))
		}
		if len(exposed) == 0 {
			continue
		}

		if !tier.AllowPublicIPs {
			findings = append(findings, newFinding(r, tier.Name, ts.VPCID, name,
				models.StatusWarn, models.SeverityHigh,
				fmt.Sprintf("%s (%s) has %d instances with public IPs: %s", tier.Name, tier.Role, len(exposed), strings.Join(exposed, ", "))))
			continue
		}
		findings = append(findings, newFinding(r, tier.Name, ts.VPCID, name,
			models.StatusPass, models.SeverityInfo,
			fmt.Sprintf("%s has %d instances with public IPs (may be for NAT/bastion)", tier.Name, len(exposed))))
	}
	return findings
}
