package common

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// ProfileConfig is a resolved AWS profile with its SDK configuration and the
// clients used for identity and region checks. It is the unit passed between
// provider functions and into the engine.
type ProfileConfig struct {
	// ProfileName is the name from ~/.aws/config or "default".
	ProfileName string

	// AccountID is the resolved AWS account ID for this profile (via STS).
	// Empty when AccountErr is set.
	AccountID string

	// AccountErr records a failed STS lookup. It does not make the profile
	// unusable: collection proceeds with the loaded credentials.
	AccountErr error

	// Region is the home region of the profile. Tier collection never uses
	// it directly; every tier names its own region.
	Region string

	// Config is the fully loaded AWS SDK v2 configuration with retries
	// disabled.
	Config aws.Config

	// Clients holds the identity and region clients scoped to Region.
	Clients *ClientSet
}

// AWSClientProvider loads AWS configurations. It is the sole entry point for
// credential and region management across the provider layer.
//
// Implementations must use the AWS SDK v2 only. Never call the aws CLI.
type AWSClientProvider interface {
	// LoadProfile returns a ProfileConfig for the named profile.
	// Pass an empty string to load the default profile.
	LoadProfile(ctx context.Context, profile string) (*ProfileConfig, error)

	// GetActiveRegions returns the regions enabled for the account behind
	// cfg. The doctor command uses it to confirm that every tier region can
	// be called.
	GetActiveRegions(ctx context.Context, cfg *ProfileConfig) ([]string, error)

	// ConfigForRegion clones cfg with the target region set.
	ConfigForRegion(cfg *ProfileConfig, region string) aws.Config
}
