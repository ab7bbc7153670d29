package rules

import (
	"fmt"
	"strconv"

	"github.com/pankaj-dahiya-devops/tierguard/internal/models"
)

// unrestrictedCIDRs are the ranges that match every address.
var unrestrictedCIDRs = map[string]struct{}{
	"0.0.0.0/0": {},
	"::/0":      {},
}

// IngressExposureRule inspects every inbound rule of every security group in
// every tier. Each (group, rule, unrestricted range) triple produces its own
// finding: PASS when the group is the tier's designated public entry point
// and the port is one it may expose, WARN/HIGH otherwise.
//
// This rule never fails the run. Ingress breadth alone does not prove
// exploitability, so unexpected open ingress is left for human review.
type IngressExposureRule struct{}

func (r IngressExposureRule) ID() string   { return "INGRESS_EXPOSURE" }
func (r IngressExposureRule) Name() string { return "Unrestricted Security Group Ingress" }

func (r IngressExposureRule) Evaluate(ctx RuleContext) []models.Finding {
	if ctx.Snapshot == nil {
		return nil
	}
	var findings []models.Finding
	for _, tier := range ctx.posture().Tiers {
		ts := ctx.tierSnapshot(tier.Name)

		if !ts.VPCResolved() {
			details := fmt.Sprintf("Could not find VPC %q for %s", tier.VPCName, tier.Name)
			if ts.VPCErr != nil {
				details = fmt.Sprintf("%s: %v", details, ts.VPCErr)
			}
			findings = append(findings, newFinding(r, tier.Name, tier.VPCName,
				fmt.Sprintf("%s VPC", tier.Name), models.StatusWarn, models.SeverityMedium, details))
			continue
		}
		if ts.SecurityGroupsErr != nil {
			findings = append(findings, newFinding(r, tier.Name, ts.VPCID,
				fmt.Sprintf("%s Security Groups", tier.Name), models.StatusWarn, models.SeverityMedium,
				fmt.Sprintf("Error checking security groups in %s: %v", ts.VPCID, ts.SecurityGroupsErr)))
			continue
		}

		for _, sg := range ts.SecurityGroups {
			name := fmt.Sprintf("%s SG: %s Public Access", tier.Name, sg.Name)
			for _, perm := range sg.Ingress {
				for _, cidr := range perm.CIDRs {
					if _, open := unrestrictedCIDRs[cidr]; !open {
						continue
					}
					if tier.PublicEntry.Allows(sg.Name, perm.Port) {
						findings = append(findings, newFinding(r, tier.Name, sg.ID, name,
							models.StatusPass, models.SeverityInfo,
							fmt.Sprintf("Load balancer security group %s allows public traffic on port %d (expected public entry point)", sg.ID, *perm.Port)))
						continue
					}
					findings = append(findings, newFinding(r, tier.Name, sg.ID, name,
						models.StatusWarn, models.SeverityHigh,
						fmt.Sprintf("Security group %s allows %s on port %s (unexpected open ingress)", sg.ID, cidr, portLabel(perm.Port))))
				}
			}
		}
	}
	return findings
}

// portLabel renders a rule port; a nil port means every port.
func portLabel(port *int32) string {
	if port == nil {
		return "all"
	}
	return strconv.Itoa(int(*port))
}
