package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pankaj-dahiya-devops/tierguard/internal/models"
	"github.com/pankaj-dahiya-devops/tierguard/internal/policy"
	"github.com/pankaj-dahiya-devops/tierguard/internal/providers/aws/common"
	"github.com/pankaj-dahiya-devops/tierguard/internal/providers/aws/inventory"
	"github.com/pankaj-dahiya-devops/tierguard/internal/providers/network"
	"github.com/pankaj-dahiya-devops/tierguard/internal/rules"
)

// PostureEngine implements Engine for the two-tier posture check.
// It never calls AWS SDK or HTTP clients directly; all calls are delegated to
// the InventoryCollector and Prober.
type PostureEngine struct {
	provider  common.AWSClientProvider
	collector inventory.InventoryCollector
	prober    network.Prober
	registry  rules.RuleRegistry
	posture   *policy.Posture
	now       func() time.Time
}

// NewPostureEngine constructs a PostureEngine. A nil posture means
// policy.Default().
func NewPostureEngine(
	provider common.AWSClientProvider,
	collector inventory.InventoryCollector,
	prober network.Prober,
	registry rules.RuleRegistry,
	posture *policy.Posture,
) *PostureEngine {
	if posture == nil {
		posture = policy.Default()
	}
	return &PostureEngine{
		provider:  provider,
		collector: collector,
		prober:    prober,
		registry:  registry,
		posture:   posture,
		now:       time.Now,
	}
}

// Run implements Engine.
//
// Only a failure to load the AWS SDK configuration or a cancelled context
// aborts the run. An unresolved account ID is logged and left empty, and
// every per-resource failure is already encoded in the snapshot, where it
// surfaces as a WARN finding.
func (e *PostureEngine) Run(ctx context.Context, opts VerifyOptions) (*Result, error) {
	log := zerolog.Ctx(ctx)
	rec := NewRecorder(e.now())

	profile, err := e.provider.LoadProfile(ctx, opts.Profile)
	if err != nil {
		return nil, fmt.Errorf("load profile %q: %w", opts.Profile, err)
	}
	if profile.AccountErr != nil {
		log.Warn().Err(profile.AccountErr).Str("profile", profile.ProfileName).Msg("account id unavailable; continuing")
	} else {
		log.Info().Str("profile", profile.ProfileName).Str("account", profile.AccountID).Msg("profile loaded")
	}

	snap, err := e.collector.Collect(ctx, profile, e.provider, e.posture)
	if err != nil {
		return nil, fmt.Errorf("collect inventory for profile %q: %w", profile.ProfileName, err)
	}

	probes := e.probeInternal(ctx, snap)

	rctx := rules.RuleContext{Snapshot: snap, Probes: probes, Posture: e.posture}
	rec.Record(e.registry.EvaluateAll(rctx, func(rule rules.Rule, findings []models.Finding) {
		log.Debug().Str("rule", rule.ID()).Int("findings", len(findings)).Msg("rule evaluated")
	})...)

	verdict := Aggregate(rec.Findings())
	log.Info().
		Int("total", verdict.Summary.TotalChecks).
		Int("failed", verdict.Summary.Failed).
		Int("warnings", verdict.Summary.Warnings).
		Bool("ok", verdict.OK).
		Msg("verification complete")

	return &Result{
		Report:    rec.Report(),
		Verdict:   verdict,
		Snapshot:  snap,
		Probes:    probes,
		AccountID: profile.AccountID,
	}, nil
}

// probeInternal probes every internal load balancer of the tiers that ask
// for it. The snapshot is only read.
// Probes run one after another; each is bounded by the posture timeout and
// attempted once.
func (e *PostureEngine) probeInternal(ctx context.Context, snap *models.Snapshot) models.ProbeResults {
	log := zerolog.Ctx(ctx)
	probes := models.ProbeResults{}
	for _, tier := range e.posture.Tiers {
		if !tier.ProbeInternal {
			continue
		}
		for i := range snap.Tiers {
			ts := &snap.Tiers[i]
			if ts.Tier != tier.Name || ts.LoadBalancersErr != nil {
				continue
			}
			for _, lb := range ts.LoadBalancers {
				if lb.Scheme != models.SchemeInternal {
					continue
				}
				url := e.posture.Probe.URL(lb.DNSName)
				res := e.prober.Probe(ctx, url, e.posture.Probe.Timeout)
				res.LoadBalancer = lb.Name
				probes.Add(tier.Name, res)
				log.Debug().
					Str("tier", string(tier.Name)).
					Str("url", url).
					Str("outcome", string(res.Outcome)).
					Str("detail", res.Detail).
					Msg("probe finished")
			}
		}
	}
	return probes
}
