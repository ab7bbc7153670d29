package engine

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/pankaj-dahiya-devops/tierguard/internal/models"
	"github.com/pankaj-dahiya-devops/tierguard/internal/policy"
	"github.com/pankaj-dahiya-devops/tierguard/internal/providers/aws/common"
	"github.com/pankaj-dahiya-devops/tierguard/internal/rulepacks/posture"
)

// ── fakes ────────────────────────────────────────────────────────────────────

type fakeProvider struct {
	err        error
	accountErr error
}

func (f fakeProvider) LoadProfile(_ context.Context, name string) (*common.ProfileConfig, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.accountErr != nil {
		return &common.ProfileConfig{ProfileName: name, AccountErr: f.accountErr}, nil
	}
	return &common.ProfileConfig{ProfileName: name, AccountID: "111122223333"}, nil
}

func (fakeProvider) GetActiveRegions(context.Context, *common.ProfileConfig) ([]string, error) {
	return nil, nil
}

func (fakeProvider) ConfigForRegion(_ *common.ProfileConfig, region string) aws.Config {
	return aws.Config{Region: region}
}

type fakeCollector struct {
	snap *models.Snapshot
	err  error
}

func (f fakeCollector) Collect(context.Context, *common.ProfileConfig, common.AWSClientProvider, *policy.Posture) (*models.Snapshot, error) {
	return f.snap, f.err
}

type probeCall struct {
	url     string
	timeout time.Duration
}

type fakeProber struct {
	outcome models.ProbeOutcome
	calls   []probeCall
}

func (f *fakeProber) Probe(_ context.Context, url string, timeout time.Duration) models.ProbeResult {
	f.calls = append(f.calls, probeCall{url: url, timeout: timeout})
	return models.ProbeResult{URL: url, Outcome: f.outcome, StatusCode: 200}
}

// securedSnapshot is a deployment that satisfies every rule.
func securedSnapshot() *models.Snapshot {
	return &models.Snapshot{
		Tiers: []models.TierSnapshot{
			{
				Tier: models.TierC1, Region: "us-east-1", VPCID: "vpc-c1",
				SecurityGroups: []models.SecurityGroup{{
					ID: "sg-alb", Name: "petclinic-c1-alb-sg",
					Ingress: []models.IngressRule{{Port: aws.Int32(443), CIDRs: []string{"0.0.0.0/0"}}},
				}},
				LoadBalancers: []models.LoadBalancer{{Name: "c1-alb", Scheme: models.SchemeInternetFacing, DNSName: "c1.example"}},
			},
			{
				Tier: models.TierC2, Region: "us-west-2", VPCID: "vpc-c2",
				LoadBalancers: []models.LoadBalancer{{Name: "c2-int", Scheme: models.SchemeInternal, DNSName: "internal-c2.example"}},
			},
		},
		Peering: models.PeeringLookup{
			Requester: models.TierC1, Accepter: models.TierC2, Performed: true,
			Connections: []models.PeeringConnection{{ID: "pcx-1", StatusCode: "active"}},
		},
		WAF: models.WebACLLookup{
			Scope: "REGIONAL", Region: "us-east-1",
			ACLs: []models.WebACL{{Name: "petclinic-waf", ID: "1", RuleCount: 2, DetailFetched: true}},
		},
	}
}

func newTestEngine(snap *models.Snapshot, prober *fakeProber) *PostureEngine {
	e := NewPostureEngine(fakeProvider{}, fakeCollector{snap: snap}, prober, posture.NewRegistry(), nil)
	e.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return e
}

// ── tests ────────────────────────────────────────────────────────────────────

// TestRun_SecuredDeployment verifies a clean run: every check passes, only
// the internal load balancer is probed and the verdict is OK.
func TestRun_SecuredDeployment(t *testing.T) {
	prober := &fakeProber{outcome: models.ProbeUnreachable}
	res, err := newTestEngine(securedSnapshot(), prober).Run(context.Background(), VerifyOptions{Profile: "prod"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !res.Verdict.OK {
		t.Errorf("verdict: want OK, failures %v warnings %v", res.Verdict.Failures, res.Verdict.Warnings)
	}
	if res.Report.Summary.Warnings != 0 {
		t.Errorf("warnings: got %d; want 0: %v", res.Report.Summary.Warnings, res.Verdict.Warnings)
	}
	// ingress, 2 LB schemes, peering, reachability, WAF config, WAF rules
	if res.Report.Summary.TotalChecks != 7 {
		t.Errorf("total: got %d; want 7", res.Report.Summary.TotalChecks)
	}
	if len(prober.calls) != 1 {
		t.Fatalf("probe calls: got %d; want 1", len(prober.calls))
	}
	if prober.calls[0].url != "http://internal-c2.example/health" {
		t.Errorf("probe url: got %q", prober.calls[0].url)
	}
	if prober.calls[0].timeout != policy.DefaultProbeTimeout {
		t.Errorf("probe timeout: got %v; want %v", prober.calls[0].timeout, policy.DefaultProbeTimeout)
	}
	if res.AccountID != "111122223333" {
		t.Errorf("account: got %q", res.AccountID)
	}
	if !res.Report.Timestamp.Equal(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)) {
		t.Errorf("timestamp: got %v", res.Report.Timestamp)
	}
	if res.Report.Checks[0].Name != "C1 SG: petclinic-c1-alb-sg Public Access" {
		t.Errorf("first check should come from the ingress rule, got %q", res.Report.Checks[0].Name)
	}
}

// TestRun_ReachableInternalFails verifies that a reachable internal load
// balancer fails the run.
func TestRun_ReachableInternalFails(t *testing.T) {
	prober := &fakeProber{outcome: models.ProbeReachable}
	res, err := newTestEngine(securedSnapshot(), prober).Run(context.Background(), VerifyOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Verdict.OK {
		t.Fatal("verdict: want FAIL")
	}
	if len(res.Verdict.Failures) != 1 || res.Verdict.Failures[0].Name != "C2 Internet Exposure" {
		t.Errorf("failures: got %v", res.Verdict.Failures)
	}
	if r, ok := res.Probes.Lookup(models.TierC2, "c2-int"); !ok || r.LoadBalancer != "c2-int" {
		t.Errorf("result should be recorded under the tier and LB name; got %+v", res.Probes)
	}
}

// TestRun_DoesNotWriteSnapshot verifies that probing leaves the collected
// snapshot exactly as the collector returned it.
func TestRun_DoesNotWriteSnapshot(t *testing.T) {
	snap := securedSnapshot()
	before := securedSnapshot()
	res, err := newTestEngine(snap, &fakeProber{outcome: models.ProbeUnreachable}).Run(context.Background(), VerifyOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(snap, before) {
		t.Errorf("snapshot changed during the run:\ngot  %+v\nwant %+v", snap, before)
	}
	if len(res.Probes[models.TierC2]) != 1 {
		t.Errorf("probes: got %+v; want one C2 result", res.Probes)
	}
}

// TestRun_AccountLookupFailureStillReports verifies that a failed STS call
// is not fatal: the inventory is evaluated and a full report is produced.
func TestRun_AccountLookupFailureStillReports(t *testing.T) {
	e := NewPostureEngine(
		fakeProvider{accountErr: errors.New("STS GetCallerIdentity: RequestError")},
		fakeCollector{snap: securedSnapshot()},
		&fakeProber{outcome: models.ProbeUnreachable},
		posture.NewRegistry(),
		nil,
	)
	res, err := e.Run(context.Background(), VerifyOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.AccountID != "" {
		t.Errorf("account: got %q; want empty", res.AccountID)
	}
	if res.Report == nil || res.Report.Summary.TotalChecks != 7 {
		t.Fatalf("report: got %+v; want 7 checks", res.Report)
	}
	if !res.Verdict.OK {
		t.Errorf("verdict: want OK, failures %v", res.Verdict.Failures)
	}
}

// TestRun_DegradedInventory verifies that retrieval failures in the snapshot
// produce WARN findings but never a failed run.
func TestRun_DegradedInventory(t *testing.T) {
	snap := &models.Snapshot{
		Tiers: []models.TierSnapshot{
			{Tier: models.TierC1, LoadBalancersErr: errors.New("denied")},
			{Tier: models.TierC2, LoadBalancersErr: errors.New("denied")},
		},
		WAF: models.WebACLLookup{Err: errors.New("denied")},
	}
	prober := &fakeProber{outcome: models.ProbeReachable}
	res, err := newTestEngine(snap, prober).Run(context.Background(), VerifyOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Verdict.OK {
		t.Errorf("degraded inventory must not fail the run: %v", res.Verdict.Failures)
	}
	if res.Report.Summary.Warnings != res.Report.Summary.TotalChecks {
		t.Errorf("want every check to WARN, got %+v", res.Report.Summary)
	}
	if len(prober.calls) != 0 {
		t.Errorf("no probe expected when LB listing failed, got %d", len(prober.calls))
	}
}

func TestRun_ProfileError(t *testing.T) {
	e := NewPostureEngine(fakeProvider{err: errors.New("no credentials")}, fakeCollector{}, &fakeProber{}, posture.NewRegistry(), nil)
	if _, err := e.Run(context.Background(), VerifyOptions{Profile: "x"}); err == nil {
		t.Fatal("expected error when the profile cannot be loaded")
	}
}

func TestRun_CollectorError(t *testing.T) {
	e := NewPostureEngine(fakeProvider{}, fakeCollector{err: context.Canceled}, &fakeProber{}, posture.NewRegistry(), nil)
	_, err := e.Run(context.Background(), VerifyOptions{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v; want wrapped context.Canceled", err)
	}
}
