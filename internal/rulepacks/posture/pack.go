// Package posture provides the tier posture rule pack.
//
// Convention: every rule pack lives in internal/rulepacks/<domain>/pack.go
// and exposes a single New() func returning []rules.Rule. The order of the
// returned slice is the order findings appear in the report.
package posture

import "github.com/pankaj-dahiya-devops/tierguard/internal/rules"

// New returns the posture verification rule pack in evaluation order.
func New() []rules.Rule {
	return []rules.Rule{
		rules.IngressExposureRule{},      // WARN/HIGH: unexpected 0.0.0.0/0 ingress
		rules.LoadBalancerSchemeRule{},   // FAIL/CRITICAL: internet-facing backend LB
		rules.InstancePublicIPRule{},     // WARN/HIGH: public IPs in a private tier
		rules.TierPeeringRule{},          // FAIL/CRITICAL: designed peering not active
		rules.InternalReachabilityRule{}, // FAIL/CRITICAL: internal LB answers from outside
		rules.WAFPresenceRule{},          // WARN/MEDIUM: no web ACL in front of the public tier
	}
}

// NewRegistry returns a registry with the pack registered.
func NewRegistry() *rules.DefaultRuleRegistry {
	reg := rules.NewDefaultRuleRegistry()
	for _, r := range New() {
		reg.Register(r)
	}
	return reg
}
