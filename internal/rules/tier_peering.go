package rules

import (
	"fmt"

	"github.com/pankaj-dahiya-devops/tierguard/internal/models"
)

// TierPeeringRule checks that the designed peering connection between the
// requester and accepter tiers exists and is active. It always produces
// exactly one finding.
//
// Only the first connection returned by the lookup is judged; the collector
// filters by both VPC IDs, so any further connections are duplicates of the
// same link in another lifecycle state.
type TierPeeringRule struct{}

func (r TierPeeringRule) ID() string   { return "TIER_PEERING" }
func (r TierPeeringRule) Name() string { return "Inter-Tier VPC Peering" }

func (r TierPeeringRule) Evaluate(ctx RuleContext) []models.Finding {
	if ctx.Snapshot == nil {
		return nil
	}
	p := ctx.posture().Peering
	req := ctx.tierSnapshot(p.Requester)
	acc := ctx.tierSnapshot(p.Accepter)
	lookup := ctx.Snapshot.Peering

	if !req.VPCResolved() || !acc.VPCResolved() {
		return []models.Finding{newFinding(r, "", "", "VPC Peering",
			models.StatusWarn, models.SeverityMedium,
			"Could not verify VPC peering - VPC IDs not found")}
	}
	if lookup.Err != nil {
		return []models.Finding{newFinding(r, "", "", "VPC Peering",
			models.StatusWarn, models.SeverityMedium,
			fmt.Sprintf("Error checking VPC peering: %v", lookup.Err))}
	}
	if !lookup.Performed {
		return []models.Finding{newFinding(r, "", "", "VPC Peering",
			models.StatusWarn, models.SeverityMedium,
			"Could not verify VPC peering - lookup was not performed")}
	}

	name := fmt.Sprintf("VPC Peering %s-%s", p.Requester, p.Accepter)
	if len(lookup.Connections) == 0 {
		return []models.Finding{newFinding(r, "", "", name,
			models.StatusWarn, models.SeverityHigh,
			fmt.Sprintf("No VPC peering connection found between %s (%s) and %s (%s)", p.Requester, req.VPCID, p.Accepter, acc.VPCID))}
	}

	conn := lookup.Connections[0]
	if conn.StatusCode == models.PeeringStatusActive {
		return []models.Finding{newFinding(r, "", conn.ID, name,
			models.StatusPass, models.SeverityInfo,
			fmt.Sprintf("VPC peering active between %s and %s: %s", p.Requester, p.Accepter, conn.ID))}
	}
	return []models.Finding{newFinding(r, "", conn.ID, name,
		models.StatusFail, models.SeverityCritical,
		fmt.Sprintf("VPC peering %s exists but status is: %s", conn.ID, conn.StatusCode))}
}
