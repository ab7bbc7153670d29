package policy

import (
	"time"

	"github.com/pankaj-dahiya-devops/tierguard/internal/models"
)

// Reference deployment values.
const (
	DefaultC1Region     = "us-east-1"
	DefaultC2Region     = "us-west-2"
	DefaultWAFScope     = "REGIONAL"
	DefaultWAFName      = "petclinic"
	DefaultProbeScheme  = "http"
	DefaultProbePath    = "/health"
	DefaultProbeTimeout = 5 * time.Second
)

// Default returns the posture of the reference petclinic deployment:
// a public C1 tier in us-east-1 peered to an internal C2 tier in us-west-2.
func Default() *Posture {
	return &Posture{
		Version: 1,
		Tiers: []TierProfile{
			{
				Name:           models.TierC1,
				Role:           RoleFront,
				Region:         DefaultC1Region,
				VPCName:        "petclinic-c1-vpc",
				ExpectedScheme: models.SchemeInternetFacing,
				AllowPublicIPs: true,
				PublicEntry:    &PublicEntry{NameContains: "alb", Ports: []int{80, 443}},
			},
			{
				Name:           models.TierC2,
				Role:           RoleBackend,
				Region:         DefaultC2Region,
				VPCName:        "petclinic-c2-vpc",
				ExpectedScheme: models.SchemeInternal,
				ProbeInternal:  true,
			},
		},
		Peering: PeeringProfile{Requester: models.TierC1, Accepter: models.TierC2},
		WAF: WAFProfile{
			Region:       DefaultC1Region,
			Scope:        DefaultWAFScope,
			NameContains: DefaultWAFName,
		},
		Probe: ProbeProfile{
			Scheme:        DefaultProbeScheme,
			Path:          DefaultProbePath,
			Timeout:       DefaultProbeTimeout,
			Indeterminate: IndeterminateWarn,
		},
	}
}

// fillDefaults completes the sections a posture file left empty.
// Tiers are all-or-nothing: a file that lists tiers replaces the defaults.
func fillDefaults(p *Posture) {
	d := Default()
	if len(p.Tiers) == 0 {
		p.Tiers = d.Tiers
	}
	if p.Peering.Requester == "" && p.Peering.Accepter == "" {
		if front, ok := p.FrontTier(); ok {
			p.Peering.Requester = front.Name
		}
		if back, ok := p.BackendTier(); ok {
			p.Peering.Accepter = back.Name
		}
	}
	if p.WAF.Scope == "" {
		p.WAF.Scope = d.WAF.Scope
	}
	if p.WAF.NameContains == "" {
		p.WAF.NameContains = d.WAF.NameContains
	}
	if p.WAF.Region == "" {
		if front, ok := p.FrontTier(); ok {
			p.WAF.Region = front.Region
		} else {
			p.WAF.Region = d.WAF.Region
		}
	}
	if p.Probe.Scheme == "" {
		p.Probe.Scheme = d.Probe.Scheme
	}
	if p.Probe.Path == "" {
		p.Probe.Path = d.Probe.Path
	}
	if p.Probe.Timeout <= 0 {
		p.Probe.Timeout = d.Probe.Timeout
	}
	if p.Probe.Indeterminate == "" {
		p.Probe.Indeterminate = d.Probe.Indeterminate
	}
}
