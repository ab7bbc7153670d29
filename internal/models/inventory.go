package models

import "time"

// Tier names one deployment zone of the audited system.
type Tier string

const (
	TierC1 Tier = "C1"
	TierC2 Tier = "C2"
)

// LoadBalancerScheme mirrors the ELBv2 scheme attribute.
type LoadBalancerScheme string

const (
	SchemeInternetFacing LoadBalancerScheme = "internet-facing"
	SchemeInternal       LoadBalancerScheme = "internal"
)

// PeeringStatusActive is the only peering status code treated as healthy.
const PeeringStatusActive = "active"

// ---------------------------------------------------------------------------
// Inventory snapshot (collected by provider, consumed by rule engine)
// ---------------------------------------------------------------------------

// Snapshot is the read-only inventory for one verification run.
// It is built once by the inventory collector and never mutated by rules.
//
// Retrieval failures are recorded in the *Err fields instead of aborting the
// collection; rules turn them into WARN findings.
type Snapshot struct {
	Tiers       []TierSnapshot `json:"tiers"`
	Peering     PeeringLookup  `json:"peering"`
	WAF         WebACLLookup   `json:"waf"`
	CollectedAt time.Time      `json:"collected_at"`
}

// TierSnapshot holds every resource collected for a single tier.
// An empty VPCID with a nil VPCErr means the VPC tag lookup found nothing.
type TierSnapshot struct {
	Tier    Tier   `json:"tier"`
	Region  string `json:"region"`
	VPCName string `json:"vpc_name"`
	VPCID   string `json:"vpc_id,omitempty"`
	VPCErr  error  `json:"-"`

	SecurityGroups    []SecurityGroup `json:"security_groups"`
	SecurityGroupsErr error           `json:"-"`

	Instances    []Instance `json:"instances"`
	InstancesErr error      `json:"-"`

	LoadBalancers    []LoadBalancer `json:"load_balancers"`
	LoadBalancersErr error          `json:"-"`
}

// VPCResolved reports whether the tier's VPC was found.
func (t *TierSnapshot) VPCResolved() bool {
	return t.VPCID != ""
}

// SecurityGroup is an EC2 security group and its inbound rules.
type SecurityGroup struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	VPCID   string        `json:"vpc_id"`
	Ingress []IngressRule `json:"ingress"`
}

// IngressRule is a single inbound permission. Port is the rule's FromPort;
// nil means the rule covers all ports (protocol "-1").
type IngressRule struct {
	Port  *int32   `json:"port,omitempty"`
	CIDRs []string `json:"cidrs"`
}

// LoadBalancer is an ELBv2 load balancer (application, network or gateway).
type LoadBalancer struct {
	Name    string             `json:"name"`
	ARN     string             `json:"arn"`
	Scheme  LoadBalancerScheme `json:"scheme"`
	DNSName string             `json:"dns_name"`
}

// Instance is an EC2 instance. Name comes from the Name tag and defaults to
// "Unknown". PublicIP is empty when no public address is assigned.
type Instance struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	PublicIP string `json:"public_ip,omitempty"`
}

// PeeringConnection is a VPC peering connection between two tiers.
type PeeringConnection struct {
	ID             string `json:"id"`
	RequesterVPCID string `json:"requester_vpc_id"`
	AccepterVPCID  string `json:"accepter_vpc_id"`
	StatusCode     string `json:"status_code"`
}

// PeeringLookup is the result of searching for the designed C1→C2 peering.
// Performed is false when the lookup was skipped because either VPC could
// not be resolved.
type PeeringLookup struct {
	Requester   Tier                `json:"requester"`
	Accepter    Tier                `json:"accepter"`
	Performed   bool                `json:"performed"`
	Connections []PeeringConnection `json:"connections"`
	Err         error               `json:"-"`
}

// WebACL is a regional WAFv2 web ACL. RuleCount is only meaningful when
// DetailFetched is true.
type WebACL struct {
	Name          string `json:"name"`
	ID            string `json:"id"`
	ARN           string `json:"arn"`
	RuleCount     int    `json:"rule_count"`
	DetailFetched bool   `json:"detail_fetched"`
	DetailErr     error  `json:"-"`
}

// WebACLLookup is the listing of web ACLs in the configured scope and region.
type WebACLLookup struct {
	Scope  string   `json:"scope"`
	Region string   `json:"region"`
	ACLs   []WebACL `json:"acls"`
	Err    error    `json:"-"`
}

// ProbeOutcome classifies a single reachability attempt.
type ProbeOutcome string

const (
	// ProbeReachable means an HTTP response was received.
	ProbeReachable ProbeOutcome = "reachable"
	// ProbeUnreachable means the connection failed or timed out.
	ProbeUnreachable ProbeOutcome = "unreachable"
	// ProbeIndeterminate means the attempt failed for a reason that says
	// nothing about network reachability (e.g. DNS resolution failure).
	ProbeIndeterminate ProbeOutcome = "indeterminate"
)

// ProbeResult is the outcome of probing one load balancer from outside.
type ProbeResult struct {
	LoadBalancer string       `json:"load_balancer"`
	URL          string       `json:"url"`
	Outcome      ProbeOutcome `json:"outcome"`
	StatusCode   int          `json:"status_code,omitempty"`
	// Detail names the error class for failed attempts.
	Detail string `json:"detail,omitempty"`
}

// ProbeResults holds reachability results for internal load balancers, keyed
// by tier and then by load balancer name. The engine builds it next to the
// snapshot; the snapshot itself is never written after collection.
type ProbeResults map[Tier]map[string]ProbeResult

// Add stores r under tier and r.LoadBalancer.
func (p ProbeResults) Add(tier Tier, r ProbeResult) {
	if p[tier] == nil {
		p[tier] = make(map[string]ProbeResult)
	}
	p[tier][r.LoadBalancer] = r
}

// Lookup returns the result for load balancer lb of tier. A nil ProbeResults
// reports every load balancer as not probed.
func (p ProbeResults) Lookup(tier Tier, lb string) (ProbeResult, bool) {
	r, ok := p[tier][lb]
	return r, ok
}
