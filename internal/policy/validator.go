package policy

import (
	"fmt"
	"strings"

	"github.com/pankaj-dahiya-devops/tierguard/internal/models"
)

// validRoles is the set of recognised tier roles.
var validRoles = map[Role]struct{}{
	RoleFront:   {},
	RoleBackend: {},
}

// validSchemes is the set of ELBv2 schemes a tier may expect.
var validSchemes = map[models.LoadBalancerScheme]struct{}{
	models.SchemeInternetFacing: {},
	models.SchemeInternal:       {},
}

// validWAFScopes is the set of WAFv2 scopes.
var validWAFScopes = map[string]struct{}{
	"REGIONAL":   {},
	"CLOUDFRONT": {},
}

// Validate checks p for semantic correctness and returns all validation
// errors found. An empty slice means the posture is valid.
//
// Checks performed:
//   - version must be 1
//   - tier names must be non-empty and unique
//   - tier roles must be front or backend; exactly one of each
//   - region and vpc_name must be set on every tier
//   - expected_scheme must be internet-facing or internal
//   - public_entry ports must be in 1..65535
//   - peering requester/accepter must name defined, distinct tiers
//   - waf scope must be REGIONAL or CLOUDFRONT
//   - probe scheme must be http or https; indeterminate must be warn or pass
//
// All errors are collected before returning; Validate never stops at the first error.
func Validate(p *Posture) []error {
	if p == nil {
		return []error{fmt.Errorf("posture is nil")}
	}

	var errs []error

	if p.Version != 1 {
		errs = append(errs, fmt.Errorf("version: unsupported value %d; must be 1", p.Version))
	}

	seen := make(map[models.Tier]struct{}, len(p.Tiers))
	roleCount := make(map[Role]int)
	for i, t := range p.Tiers {
		label := fmt.Sprintf("tiers[%d]", i)
		if t.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name: must not be empty", label))
		} else {
			label = fmt.Sprintf("tiers.%s", t.Name)
			if _, dup := seen[t.Name]; dup {
				errs = append(errs, fmt.Errorf("%s: duplicate tier name", label))
			}
			seen[t.Name] = struct{}{}
		}
		if _, ok := validRoles[t.Role]; !ok {
			errs = append(errs, fmt.Errorf("%s.role: invalid value %q; valid values: front, backend", label, t.Role))
		} else {
			roleCount[t.Role]++
		}
		if t.Region == "" {
			errs = append(errs, fmt.Errorf("%s.region: must not be empty", label))
		}
		if t.VPCName == "" {
			errs = append(errs, fmt.Errorf("%s.vpc_name: must not be empty", label))
		}
		if _, ok := validSchemes[t.ExpectedScheme]; !ok {
			errs = append(errs, fmt.Errorf("%s.expected_scheme: invalid value %q; valid values: internet-facing, internal", label, t.ExpectedScheme))
		}
		if t.PublicEntry != nil {
			for _, port := range t.PublicEntry.Ports {
				if port < 1 || port > 65535 {
					errs = append(errs, fmt.Errorf("%s.public_entry.ports: %d out of range", label, port))
				}
			}
		}
	}
	if roleCount[RoleFront] != 1 {
		errs = append(errs, fmt.Errorf("tiers: want exactly one front tier, got %d", roleCount[RoleFront]))
	}
	if roleCount[RoleBackend] != 1 {
		errs = append(errs, fmt.Errorf("tiers: want exactly one backend tier, got %d", roleCount[RoleBackend]))
	}

	if _, ok := seen[p.Peering.Requester]; !ok {
		errs = append(errs, fmt.Errorf("peering.requester: unknown tier %q", p.Peering.Requester))
	}
	if _, ok := seen[p.Peering.Accepter]; !ok {
		errs = append(errs, fmt.Errorf("peering.accepter: unknown tier %q", p.Peering.Accepter))
	}
	if p.Peering.Requester != "" && p.Peering.Requester == p.Peering.Accepter {
		errs = append(errs, fmt.Errorf("peering: requester and accepter must differ"))
	}

	if _, ok := validWAFScopes[strings.ToUpper(p.WAF.Scope)]; !ok {
		errs = append(errs, fmt.Errorf("waf.scope: invalid value %q; valid values: REGIONAL, CLOUDFRONT", p.WAF.Scope))
	}
	if p.WAF.Region == "" {
		errs = append(errs, fmt.Errorf("waf.region: must not be empty"))
	}

	switch p.Probe.Scheme {
	case "http", "https":
	default:
		errs = append(errs, fmt.Errorf("probe.scheme: invalid value %q; valid values: http, https", p.Probe.Scheme))
	}
	if p.Probe.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("probe.timeout: must be positive"))
	}
	switch strings.ToLower(p.Probe.Indeterminate) {
	case IndeterminateWarn, IndeterminatePass:
	default:
		errs = append(errs, fmt.Errorf("probe.indeterminate: invalid value %q; valid values: warn, pass", p.Probe.Indeterminate))
	}

	return errs
}
