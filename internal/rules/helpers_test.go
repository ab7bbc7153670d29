package rules

import (
	"github.com/pankaj-dahiya-devops/tierguard/internal/models"
)

func port(p int32) *int32 { return &p }

// healthySnapshot returns a snapshot in which both tiers resolve their VPCs
// and nothing else has been collected yet.
func healthySnapshot() *models.Snapshot {
	return &models.Snapshot{
		Tiers: []models.TierSnapshot{
			{Tier: models.TierC1, Region: "us-east-1", VPCName: "petclinic-c1-vpc", VPCID: "vpc-c1"},
			{Tier: models.TierC2, Region: "us-west-2", VPCName: "petclinic-c2-vpc", VPCID: "vpc-c2"},
		},
		Peering: models.PeeringLookup{Requester: models.TierC1, Accepter: models.TierC2},
		WAF:     models.WebACLLookup{Scope: "REGIONAL", Region: "us-east-1"},
	}
}

func tierOf(s *models.Snapshot, tier models.Tier) *models.TierSnapshot {
	for i := range s.Tiers {
		if s.Tiers[i].Tier == tier {
			return &s.Tiers[i]
		}
	}
	panic("tier not in snapshot: " + string(tier))
}
