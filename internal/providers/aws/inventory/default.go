package inventory

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/pankaj-dahiya-devops/tierguard/internal/models"
	"github.com/pankaj-dahiya-devops/tierguard/internal/policy"
	"github.com/pankaj-dahiya-devops/tierguard/internal/providers/aws/common"
)

// DefaultInventoryCollector is the production InventoryCollector.
// Tiers are collected concurrently, each in its own region; peering and WAF
// lookups follow once every tier's VPC is known.
type DefaultInventoryCollector struct {
	factory invClientFactory
	now     func() time.Time
}

// NewDefaultInventoryCollector returns a collector wired to production AWS
// SDK clients.
func NewDefaultInventoryCollector() *DefaultInventoryCollector {
	return &DefaultInventoryCollector{factory: newDefaultInvClients, now: time.Now}
}

// NewDefaultInventoryCollectorWithFactory returns a collector that uses the
// supplied factory, allowing tests to inject fake clients.
func NewDefaultInventoryCollectorWithFactory(f invClientFactory) *DefaultInventoryCollector {
	return &DefaultInventoryCollector{factory: f, now: time.Now}
}

// Collect implements InventoryCollector. The returned error is reserved for
// context cancellation; AWS failures are carried inside the snapshot.
func (c *DefaultInventoryCollector) Collect(
	ctx context.Context,
	profile *common.ProfileConfig,
	provider common.AWSClientProvider,
	posture *policy.Posture,
) (*models.Snapshot, error) {
	if posture == nil {
		posture = policy.Default()
	}
	snap := &models.Snapshot{
		Tiers:       make([]models.TierSnapshot, len(posture.Tiers)),
		CollectedAt: c.now().UTC(),
	}

	// Each goroutine writes only its own slot of snap.Tiers. AWS failures stay
	// in the slot; only cancellation fails the group.
	g, gctx := errgroup.WithContext(ctx)
	for i, tier := range posture.Tiers {
		g.Go(func() error {
			clients := c.factory(provider.ConfigForRegion(profile, tier.Region))
			snap.Tiers[i] = collectTier(gctx, clients, tier)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap.Peering = c.collectPeering(ctx, profile, provider, posture, snap)
	snap.WAF = c.collectWAF(ctx, profile, provider, posture.WAF)
	return snap, nil
}

// collectTier gathers every per-tier resource. Security groups and instances
// are scoped to the tier VPC and skipped when it cannot be resolved; load
// balancers are listed region-wide.
func collectTier(ctx context.Context, clients *invClients, tier policy.TierProfile) models.TierSnapshot {
	log := zerolog.Ctx(ctx).With().Str("tier", string(tier.Name)).Str("region", tier.Region).Logger()

	ts := models.TierSnapshot{Tier: tier.Name, Region: tier.Region, VPCName: tier.VPCName}

	ts.VPCID, ts.VPCErr = findVPCByName(ctx, clients.EC2, tier.VPCName)
	switch {
	case ts.VPCErr != nil:
		logAPIError(&log, "describe vpcs", ts.VPCErr)
	case !ts.VPCResolved():
		log.Warn().Str("vpc_name", tier.VPCName).Msg("vpc not found")
	default:
		log.Debug().Str("vpc_id", ts.VPCID).Msg("vpc resolved")

		ts.SecurityGroups, ts.SecurityGroupsErr = collectSecurityGroups(ctx, clients.EC2, ts.VPCID)
		if ts.SecurityGroupsErr != nil {
			logAPIError(&log, "describe security groups", ts.SecurityGroupsErr)
		}
		ts.Instances, ts.InstancesErr = collectInstances(ctx, clients.EC2, ts.VPCID)
		if ts.InstancesErr != nil {
			logAPIError(&log, "describe instances", ts.InstancesErr)
		}
	}

	ts.LoadBalancers, ts.LoadBalancersErr = collectLoadBalancers(ctx, clients.ELBv2)
	if ts.LoadBalancersErr != nil {
		logAPIError(&log, "describe load balancers", ts.LoadBalancersErr)
	}

	log.Debug().
		Int("security_groups", len(ts.SecurityGroups)).
		Int("instances", len(ts.Instances)).
		Int("load_balancers", len(ts.LoadBalancers)).
		Msg("tier collected")
	return ts
}

// collectPeering looks up the designed peering connection from the
// requester's region. The lookup is skipped when either VPC is unresolved.
func (c *DefaultInventoryCollector) collectPeering(
	ctx context.Context,
	profile *common.ProfileConfig,
	provider common.AWSClientProvider,
	posture *policy.Posture,
	snap *models.Snapshot,
) models.PeeringLookup {
	lookup := models.PeeringLookup{Requester: posture.Peering.Requester, Accepter: posture.Peering.Accepter}

	var req, acc *models.TierSnapshot
	for i := range snap.Tiers {
		switch snap.Tiers[i].Tier {
		case lookup.Requester:
			req = &snap.Tiers[i]
		case lookup.Accepter:
			acc = &snap.Tiers[i]
		}
	}
	if req == nil || acc == nil || !req.VPCResolved() || !acc.VPCResolved() {
		zerolog.Ctx(ctx).Debug().Msg("peering lookup skipped: vpc unresolved")
		return lookup
	}

	clients := c.factory(provider.ConfigForRegion(profile, req.Region))
	lookup.Performed = true
	lookup.Connections, lookup.Err = findPeering(ctx, clients.EC2, req.VPCID, acc.VPCID)
	if lookup.Err != nil {
		log := zerolog.Ctx(ctx).With().Str("region", req.Region).Logger()
		logAPIError(&log, "describe vpc peering connections", lookup.Err)
	}
	return lookup
}

// collectWAF lists web ACLs and fetches the detail of the first ACL that
// matches the naming convention.
func (c *DefaultInventoryCollector) collectWAF(
	ctx context.Context,
	profile *common.ProfileConfig,
	provider common.AWSClientProvider,
	profileWAF policy.WAFProfile,
) models.WebACLLookup {
	log := zerolog.Ctx(ctx).With().Str("region", profileWAF.Region).Str("scope", profileWAF.Scope).Logger()
	clients := c.factory(provider.ConfigForRegion(profile, profileWAF.Region))

	lookup := models.WebACLLookup{Scope: profileWAF.Scope, Region: profileWAF.Region}
	lookup.ACLs, lookup.Err = listWebACLs(ctx, clients.WAF, profileWAF.Scope)
	if lookup.Err != nil {
		logAPIError(&log, "list web acls", lookup.Err)
		return lookup
	}

	for i := range lookup.ACLs {
		acl := &lookup.ACLs[i]
		if !profileWAF.MatchesName(acl.Name) {
			continue
		}
		acl.RuleCount, acl.DetailErr = countWebACLRules(ctx, clients.WAF, profileWAF.Scope, acl.Name, acl.ID)
		acl.DetailFetched = acl.DetailErr == nil
		if acl.DetailErr != nil {
			logAPIError(&log, "get web acl", acl.DetailErr)
		}
		break
	}
	return lookup
}

// logAPIError records a non-fatal AWS failure with its service error code.
func logAPIError(log *zerolog.Logger, op string, err error) {
	log.Warn().
		Err(err).
		Str("op", op).
		Str("code", common.APIErrorCode(err)).
		Bool("access_denied", common.IsAccessDenied(err)).
		Msg("aws call failed")
}
