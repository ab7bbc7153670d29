package policy

import (
	"time"

	"github.com/pankaj-dahiya-devops/tierguard/internal/models"
)

// Role is the exposure posture a tier is designed for.
type Role string

const (
	// RoleFront is a public-facing tier: internet-facing load balancers and
	// public instance addresses are expected.
	RoleFront Role = "front"
	// RoleBackend is an internal-only tier: nothing should be reachable from
	// the internet.
	RoleBackend Role = "backend"
)

// Indeterminate probe policies.
const (
	IndeterminateWarn = "warn"
	IndeterminatePass = "pass"
)

// Posture is the declarative description of the audited deployment.
// Every per-tier expectation lives here as data so the rules carry no
// tier-specific branches.
type Posture struct {
	Version int            `yaml:"version"`
	Tiers   []TierProfile  `yaml:"tiers"`
	Peering PeeringProfile `yaml:"peering"`
	WAF     WAFProfile     `yaml:"waf"`
	Probe   ProbeProfile   `yaml:"probe"`
}

// TierProfile describes one tier and the exposure it is allowed to have.
type TierProfile struct {
	Name    models.Tier `yaml:"name"`
	Role    Role        `yaml:"role"`
	Region  string      `yaml:"region"`
	VPCName string      `yaml:"vpc_name"`

	// ExpectedScheme is the load balancer scheme every LB in the tier must use.
	ExpectedScheme models.LoadBalancerScheme `yaml:"expected_scheme"`

	// AllowPublicIPs marks public instance addresses as expected
	// (bastion/NAT-class instances in a front tier).
	AllowPublicIPs bool `yaml:"allow_public_ips"`

	// ProbeInternal enables the outside-in reachability probe against the
	// tier's internal load balancers.
	ProbeInternal bool `yaml:"probe_internal"`

	// PublicEntry is the exception for unrestricted ingress. Nil means no
	// unrestricted ingress is acceptable in this tier.
	PublicEntry *PublicEntry `yaml:"public_entry,omitempty"`
}

// PublicEntry identifies the security groups that are the designed public
// entry point and the ports they may open to the internet.
type PublicEntry struct {
	// NameContains is matched case-insensitively against the group name.
	NameContains string `yaml:"name_contains"`
	Ports        []int  `yaml:"ports"`
}

// PeeringProfile names the designed C1→C2 peering direction.
type PeeringProfile struct {
	Requester models.Tier `yaml:"requester"`
	Accepter  models.Tier `yaml:"accepter"`
}

// WAFProfile locates the deployment's web ACL.
type WAFProfile struct {
	Region       string `yaml:"region"`
	Scope        string `yaml:"scope"`
	NameContains string `yaml:"name_contains"`
}

// ProbeProfile configures the reachability probe.
type ProbeProfile struct {
	Scheme  string        `yaml:"scheme"`
	Path    string        `yaml:"path"`
	Timeout time.Duration `yaml:"timeout"`

	// Indeterminate selects how a probe that failed for a non-connectivity
	// reason is classified: "warn" (default) or "pass".
	Indeterminate string `yaml:"indeterminate"`
}
