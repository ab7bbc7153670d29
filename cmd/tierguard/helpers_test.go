package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/rs/zerolog"

	"github.com/pankaj-dahiya-devops/tierguard/internal/config"
	"github.com/pankaj-dahiya-devops/tierguard/internal/engine"
	"github.com/pankaj-dahiya-devops/tierguard/internal/models"
	"github.com/pankaj-dahiya-devops/tierguard/internal/policy"
	"github.com/pankaj-dahiya-devops/tierguard/internal/providers/aws/common"
)

// mockAWSProvider implements common.AWSClientProvider with canned results.
type mockAWSProvider struct {
	profileResult *common.ProfileConfig
	profileErr    error
	regionsResult []string
	regionsErr    error
	lastProfile   string
	calls         int
}

func (m *mockAWSProvider) LoadProfile(_ context.Context, profile string) (*common.ProfileConfig, error) {
	m.lastProfile = profile
	m.calls++
	return m.profileResult, m.profileErr
}

func (m *mockAWSProvider) GetActiveRegions(_ context.Context, _ *common.ProfileConfig) ([]string, error) {
	return m.regionsResult, m.regionsErr
}

func (m *mockAWSProvider) ConfigForRegion(cfg *common.ProfileConfig, region string) aws.Config {
	c := cfg.Config.Copy()
	c.Region = region
	return c
}

func goodMockAWS() *mockAWSProvider {
	return &mockAWSProvider{
		profileResult: &common.ProfileConfig{
			ProfileName: "default",
			AccountID:   "123456789012",
			Region:      "us-east-1",
		},
		regionsResult: []string{"us-east-1", "us-west-2", "eu-west-1"},
	}
}

// fakeEngine implements engine.Engine and records what it was called with.
type fakeEngine struct {
	result *engine.Result
	err    error

	gotOpts     engine.VerifyOptions
	gotPosture  *policy.Posture
	gotLogLevel zerolog.Level
}

func (f *fakeEngine) Run(ctx context.Context, opts engine.VerifyOptions) (*engine.Result, error) {
	f.gotOpts = opts
	f.gotLogLevel = zerolog.Ctx(ctx).GetLevel()
	return f.result, f.err
}

// resultOf builds an engine.Result from findings the way the engine does.
func resultOf(findings ...models.Finding) *engine.Result {
	rec := engine.NewRecorder(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	rec.Record(findings...)
	return &engine.Result{
		Report:    rec.Report(),
		Verdict:   engine.Aggregate(rec.Findings()),
		Snapshot:  &models.Snapshot{},
		AccountID: "123456789012",
	}
}

func pass(name string) models.Finding {
	return models.Finding{Name: name, Status: models.StatusPass, Severity: models.SeverityInfo, Details: "ok", Tier: models.TierC1}
}

func warn(name string) models.Finding {
	return models.Finding{Name: name, Status: models.StatusWarn, Severity: models.SeverityMedium, Details: "check manually", Tier: models.TierC2}
}

func fail(name string) models.Finding {
	return models.Finding{Name: name, Status: models.StatusFail, Severity: models.SeverityCritical, Details: "exposed", Tier: models.TierC2}
}

// testDeps wires the commands to fakes.
func testDeps(provider common.AWSClientProvider, eng *fakeEngine) deps {
	return deps{
		newProvider: func() common.AWSClientProvider { return provider },
		newEngine: func(p *policy.Posture) engine.Engine {
			eng.gotPosture = p
			return eng
		},
	}
}

// isolate points HOME at a fresh directory and clears TIERGUARD_* variables
// so no real config leaks into a test. It returns a scratch directory.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, config.EnvPrefix+"_") {
			t.Setenv(name, "")
			os.Unsetenv(name) //nolint:errcheck
		}
	}
	return t.TempDir()
}

// execute runs the root command with args and returns stdout, stderr and
// the command error.
func execute(t *testing.T, d deps, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmdWithDeps(d)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const validPostureYAML = `version: 1
tiers:
  - name: C1
    role: front
    region: eu-west-1
    vpc_name: shop-c1-vpc
    expected_scheme: internet-facing
  - name: C2
    role: backend
    region: eu-central-1
    vpc_name: shop-c2-vpc
    expected_scheme: internal
    probe_internal: true
`

const invalidPostureYAML = `version: 1
tiers:
  - name: C1
    role: front
    region: us-east-1
    vpc_name: a-vpc
    expected_scheme: internet-facing
  - name: C2
    role: front
    region: us-west-2
    vpc_name: b-vpc
    expected_scheme: internal
`
