package rules

import (
	"fmt"

	"github.com/pankaj-dahiya-devops/tierguard/internal/models"
)

// WAFPresenceRule checks that a web ACL following the deployment's naming
// convention exists in front of the public tier. Absence is a WARN, not a
// FAIL: the ACL may be attached under a different name.
type WAFPresenceRule struct{}

func (r WAFPresenceRule) ID() string   { return "WAF_PRESENCE" }
func (r WAFPresenceRule) Name() string { return "Web Application Firewall Presence" }

func (r WAFPresenceRule) Evaluate(ctx RuleContext) []models.Finding {
	if ctx.Snapshot == nil {
		return nil
	}
	profile := ctx.posture().WAF
	lookup := ctx.Snapshot.WAF

	if lookup.Err != nil {
		return []models.Finding{newFinding(r, "", "", "WAF Configuration",
			models.StatusWarn, models.SeverityMedium,
			fmt.Sprintf("Error checking WAF: %v", lookup.Err))}
	}

	for _, acl := range lookup.ACLs {
		if !profile.MatchesName(acl.Name) {
			continue
		}
		findings := []models.Finding{newFinding(r, "", acl.ARN, "WAF Configuration",
			models.StatusPass, models.SeverityInfo,
			fmt.Sprintf("WAF Web ACL found: %s (ID: %s)", acl.Name, acl.ID))}

		switch {
		case acl.DetailErr != nil:
			findings = append(findings, newFinding(r, "", acl.ARN, "WAF Configuration",
				models.StatusWarn, models.SeverityMedium,
				fmt.Sprintf("Error checking WAF: %v", acl.DetailErr)))
		case acl.DetailFetched:
			findings = append(findings, newFinding(r, "", acl.ARN, "WAF Rules",
				models.StatusPass, models.SeverityInfo,
				fmt.Sprintf("WAF has %d rules configured", acl.RuleCount)))
		default:
			findings = append(findings, newFinding(r, "", acl.ARN, "WAF Rules",
				models.StatusWarn, models.SeverityMedium,
				fmt.Sprintf("WAF rule list for %s was not retrieved", acl.Name)))
		}
		return findings
	}

	return []models.Finding{newFinding(r, "", "", "WAF Configuration",
		models.StatusWarn, models.SeverityMedium,
		fmt.Sprintf("No %s WAF Web ACL found in %s (%s)", profile.NameContains, lookup.Region, lookup.Scope))}
}
