package rules

import (
	"errors"
	"strings"
	"testing"

	"github.com/pankaj-dahiya-devops/tierguard/internal/models"
)

func TestIngressExposureRule_ID(t *testing.T) {
	r := IngressExposureRule{}
	if r.ID() != "INGRESS_EXPOSURE" {
		t.Error("unexpected rule ID")
	}
}

func TestIngressExposureRule_NilSnapshot(t *testing.T) {
	findings := IngressExposureRule{}.Evaluate(RuleContext{})
	if findings != nil {
		t.Errorf("want nil with nil Snapshot, got %v", findings)
	}
}

// TestIngressExposureRule_PublicEntryPort verifies that the front tier's ALB
// group opening 443 to the internet is reported as an expected PASS.
func TestIngressExposureRule_PublicEntryPort(t *testing.T) {
	snap := healthySnapshot()
	tierOf(snap, models.TierC1).SecurityGroups = []models.SecurityGroup{
		{ID: "sg-alb", Name: "petclinic-c1-alb-sg", Ingress: []models.IngressRule{
			{Port: port(443), CIDRs: []string{"0.0.0.0/0"}},
		}},
	}

	findings := IngressExposureRule{}.Evaluate(RuleContext{Snapshot: snap})
	if len(findings) != 1 {
		t.Fatalf("want 1 finding, got %d: %v", len(findings), findings)
	}
	f := findings[0]
	if f.Status != models.StatusPass {
		t.Errorf("status: got %q; want PASS", f.Status)
	}
	if f.Severity != models.SeverityInfo {
		t.Errorf("severity: got %q; want INFO", f.Severity)
	}
	if f.Name != "C1 SG: petclinic-c1-alb-sg Public Access" {
		t.Errorf("name: got %q", f.Name)
	}
	if f.ResourceID != "sg-alb" {
		t.Errorf("resource_id: got %q; want sg-alb", f.ResourceID)
	}
}

// TestIngressExposureRule_UnexpectedPort verifies that SSH open on the same
// ALB group is not covered by the public entry exception.
func TestIngressExposureRule_UnexpectedPort(t *testing.T) {
	snap := healthySnapshot()
	tierOf(snap, models.TierC1).SecurityGroups = []models.SecurityGroup{
		{ID: "sg-alb", Name: "petclinic-c1-alb-sg", Ingress: []models.IngressRule{
			{Port: port(22), CIDRs: []string{"0.0.0.0/0"}},
		}},
	}

	findings := IngressExposureRule{}.Evaluate(RuleContext{Snapshot: snap})
	if len(findings) != 1 {
		t.Fatalf("want 1 finding, got %d", len(findings))
	}
	if findings[0].Status != models.StatusWarn || findings[0].Severity != models.SeverityHigh {
		t.Errorf("got %s/%s; want WARN/HIGH", findings[0].Status, findings[0].Severity)
	}
	if !strings.Contains(findings[0].Details, "port 22") {
		t.Errorf("details should name the port, got %q", findings[0].Details)
	}
}

// TestIngressExposureRule_BackendALBNotExempt verifies that the exception is
// scoped to the tier that declares it: an "alb" group in C2 is still flagged.
func TestIngressExposureRule_BackendALBNotExempt(t *testing.T) {
	snap := healthySnapshot()
	tierOf(snap, models.TierC2).SecurityGroups = []models.SecurityGroup{
		{ID: "sg-c2-alb", Name: "petclinic-c2-alb-sg", Ingress: []models.IngressRule{
			{Port: port(443), CIDRs: []string{"0.0.0.0/0"}},
		}},
	}

	findings := IngressExposureRule{}.Evaluate(RuleContext{Snapshot: snap})
	if len(findings) != 1 {
		t.Fatalf("want 1 finding, got %d", len(findings))
	}
	if findings[0].Status != models.StatusWarn {
		t.Errorf("status: got %q; want WARN", findings[0].Status)
	}
	if findings[0].Tier != models.TierC2 {
		t.Errorf("tier: got %q; want C2", findings[0].Tier)
	}
}

// TestIngressExposureRule_AllPorts verifies that an all-traffic rule is
// reported with port "all" and never exempted.
func TestIngressExposureRule_AllPorts(t *testing.T) {
	snap := healthySnapshot()
	tierOf(snap, models.TierC1).SecurityGroups = []models.SecurityGroup{
		{ID: "sg-alb", Name: "petclinic-c1-alb-sg", Ingress: []models.IngressRule{
			{Port: nil, CIDRs: []string{"0.0.0.0/0"}},
		}},
	}

	findings := IngressExposureRule{}.Evaluate(RuleContext{Snapshot: snap})
	if len(findings) != 1 {
		t.Fatalf("want 1 finding, got %d", len(findings))
	}
	if findings[0].Status != models.StatusWarn {
		t.Errorf("status: got %q; want WARN", findings[0].Status)
	}
	if !strings.Contains(findings[0].Details, "port all") {
		t.Errorf("details: got %q; want mention of port all", findings[0].Details)
	}
}

// TestIngressExposureRule_OneFindingPerRange verifies that each unrestricted
// range of a rule produces its own finding while restricted ranges are ignored.
func TestIngressExposureRule_OneFindingPerRange(t *testing.T) {
	snap := healthySnapshot()
	tierOf(snap, models.TierC2).SecurityGroups = []models.SecurityGroup{
		{ID: "sg-app", Name: "app", Ingress: []models.IngressRule{
			{Port: port(8080), CIDRs: []string{"0.0.0.0/0", "10.0.0.0/8", "::/0"}},
			{Port: port(5432), CIDRs: []string{"10.1.0.0/16"}},
		}},
	}

	findings := IngressExposureRule{}.Evaluate(RuleContext{Snapshot: snap})
	if len(findings) != 2 {
		t.Fatalf("want 2 findings, got %d: %v", len(findings), findings)
	}
}

// TestIngressExposureRule_VPCNotFound verifies that an unresolved VPC yields a
// single WARN/MEDIUM and no security group findings for that tier.
func TestIngressExposureRule_VPCNotFound(t *testing.T) {
	snap := healthySnapshot()
	c2 := tierOf(snap, models.TierC2)
	c2.VPCID = ""
	c2.SecurityGroups = []models.SecurityGroup{
		{ID: "sg-x", Name: "x", Ingress: []models.IngressRule{{Port: port(22), CIDRs: []string{"0.0.0.0/0"}}}},
	}

	findings := IngressExposureRule{}.Evaluate(RuleContext{Snapshot: snap})
	if len(findings) != 1 {
		t.Fatalf("want 1 finding, got %d", len(findings))
	}
	f := findings[0]
	if f.Name != "C2 VPC" {
		t.Errorf("name: got %q; want C2 VPC", f.Name)
	}
	if f.Status != models.StatusWarn || f.Severity != models.SeverityMedium {
		t.Errorf("got %s/%s; want WARN/MEDIUM", f.Status, f.Severity)
	}
}

func TestIngressExposureRule_SecurityGroupError(t *testing.T) {
	snap := healthySnapshot()
	tierOf(snap, models.TierC1).SecurityGroupsErr = errors.New("AccessDenied")

	findings := IngressExposureRule{}.Evaluate(RuleContext{Snapshot: snap})
	if len(findings) != 1 {
		t.Fatalf("want 1 finding, got %d", len(findings))
	}
	if findings[0].Name != "C1 Security Groups" {
		t.Errorf("name: got %q", findings[0].Name)
	}
	if findings[0].Status != models.StatusWarn {
		t.Errorf("status: got %q; want WARN", findings[0].Status)
	}
	if !strings.Contains(findings[0].Details, "AccessDenied") {
		t.Errorf("details should carry the error, got %q", findings[0].Details)
	}
}
