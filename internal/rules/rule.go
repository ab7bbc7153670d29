package rules

import (
	"github.com/pankaj-dahiya-devops/tierguard/internal/models"
	"github.com/pankaj-dahiya-devops/tierguard/internal/policy"
)

// RuleContext carries all collected data for a single verification run.
// It is the sole input to Rule.Evaluate and must contain everything a rule
// needs; rules must never make network calls or read external state.
type RuleContext struct {
	// Snapshot is the read-only inventory collected for every tier.
	Snapshot *models.Snapshot

	// Probes holds the outside-in reachability results gathered by the
	// engine for internal load balancers. Nil means nothing was probed.
	Probes models.ProbeResults

	// Posture holds the per-tier expectations. Rules must treat nil as
	// policy.Default().
	Posture *policy.Posture
}

// posture returns the active posture, falling back to the defaults.
func (ctx RuleContext) posture() *policy.Posture {
	if ctx.Posture == nil {
		return policy.Default()
	}
	return ctx.Posture
}

// tierSnapshot returns the collected data for tier. A tier missing from the
// snapshot is returned as an empty view, which rules read as "VPC not found".
func (ctx RuleContext) tierSnapshot(tier models.Tier) *models.TierSnapshot {
	if ctx.Snapshot != nil {
		for i := range ctx.Snapshot.Tiers {
			if ctx.Snapshot.Tiers[i].Tier == tier {
				return &ctx.Snapshot.Tiers[i]
			}
		}
	}
	return &models.TierSnapshot{Tier: tier}
}

// Rule is a single deterministic posture check.
// Rules must be stateless and safe to call concurrently.
// They must never call the AWS SDK, the network, or any external service.
type Rule interface {
	// ID returns the unique, stable identifier for this rule (e.g. "TIER_PEERING").
	ID() string

	// Name returns a short human-readable rule name.
	Name() string

	// Evaluate inspects the provided context and returns zero or more
	// findings in resource-iteration order.
	Evaluate(ctx RuleContext) []models.Finding
}

// EvaluatedFunc is called once per rule, in registration order, with the
// findings that rule produced.
type EvaluatedFunc func(rule Rule, findings []models.Finding)

// RuleRegistry holds the active checks of a run and evaluates them in a
// fixed order.
type RuleRegistry interface {
	// Register adds a rule to the registry. Panics on duplicate ID.
	Register(rule Rule)

	// All returns all registered rules in registration order.
	All() []Rule

	// EvaluateAll runs every registered rule against ctx and returns the
	// findings in registration order. onEvaluated may be nil.
	EvaluateAll(ctx RuleContext, onEvaluated EvaluatedFunc) []models.Finding
}

// newFinding stamps the bookkeeping fields shared by every rule.
func newFinding(r Rule, tier models.Tier, resourceID, name string, status models.Status, sev models.Severity, details string) models.Finding {
	return models.Finding{
		Name:       name,
		Status:     status,
		Details:    details,
		Severity:   sev,
		RuleID:     r.ID(),
		Tier:       tier,
		ResourceID: resourceID,
	}
}
