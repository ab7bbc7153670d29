package policy

import (
	"slices"
	"strings"

	"github.com/pankaj-dahiya-devops/tierguard/internal/models"
)

// Tier returns the profile for name.
func (p *Posture) Tier(name models.Tier) (TierProfile, bool) {
	for _, t := range p.Tiers {
		if t.Name == name {
			return t, true
		}
	}
	return TierProfile{}, false
}

// FrontTier returns the first tier with RoleFront.
func (p *Posture) FrontTier() (TierProfile, bool) {
	return p.firstWithRole(RoleFront)
}

// BackendTier returns the first tier with RoleBackend.
func (p *Posture) BackendTier() (TierProfile, bool) {
	return p.firstWithRole(RoleBackend)
}

func (p *Posture) firstWithRole(role Role) (TierProfile, bool) {
	for _, t := range p.Tiers {
		if t.Role == role {
			return t, true
		}
	}
	return TierProfile{}, false
}

// Allows reports whether a security group named groupName may open port to
// the internet. A nil port (all ports) is never allowed.
// It is safe to call on a nil receiver.
func (e *PublicEntry) Allows(groupName string, port *int32) bool {
	if e == nil || e.NameContains == "" || port == nil {
		return false
	}
	if !strings.Contains(strings.ToLower(groupName), strings.ToLower(e.NameContains)) {
		return false
	}
	return slices.Contains(e.Ports, int(*port))
}

// MatchesName reports whether an ACL name matches the deployment's naming
// convention (case-insensitive substring).
func (w WAFProfile) MatchesName(name string) bool {
	if w.NameContains == "" {
		return false
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(w.NameContains))
}

// URL builds the probe URL for a load balancer DNS name.
func (p ProbeProfile) URL(dnsName string) string {
	path := p.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return p.Scheme + "://" + dnsName + path
}
