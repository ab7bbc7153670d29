package inventory

import (
	"context"

	"github.com/pankaj-dahiya-devops/tierguard/internal/models"
	"github.com/pankaj-dahiya-devops/tierguard/internal/policy"
	"github.com/pankaj-dahiya-devops/tierguard/internal/providers/aws/common"
)

// InventoryCollector builds the read-only Snapshot that every posture rule
// evaluates. It must not apply business rules.
//
// Per-resource retrieval failures are recorded in the snapshot's *Err fields
// and never abort collection. Reachability probes are not part of collection;
// the engine attaches them afterwards.
type InventoryCollector interface {
	Collect(
		ctx context.Context,
		profile *common.ProfileConfig,
		provider common.AWSClientProvider,
		posture *policy.Posture,
	) (*models.Snapshot, error)
}
