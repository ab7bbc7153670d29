package engine

import (
	"context"

	"github.com/pankaj-dahiya-devops/tierguard/internal/models"
)

// VerifyOptions configures a single verification run.
// It is the sole input to Engine.Run.
type VerifyOptions struct {
	// Profile is the named AWS profile to use. Empty means the default profile.
	Profile string
}

// Result is everything a verification run produces.
type Result struct {
	// Report is the persisted artifact: timestamp, counts and every finding.
	Report *models.Report

	// Verdict is the aggregated PASS/FAIL outcome with its digest.
	Verdict models.Verdict

	// Snapshot is the inventory the rules were evaluated against.
	// Kept for debug output.
	Snapshot *models.Snapshot

	// Probes holds the reachability results for internal load balancers.
	Probes models.ProbeResults

	// AccountID is the AWS account that was verified. Empty when STS could
	// not be reached.
	AccountID string
}

// Engine is the central orchestration interface.
// It coordinates inventory collection, probing, rule evaluation and
// aggregation, returning a fully populated Result.
//
// Engine must not call AWS SDK or network clients directly; it delegates to
// the collector and prober interfaces.
type Engine interface {
	Run(ctx context.Context, opts VerifyOptions) (*Result, error)
}
