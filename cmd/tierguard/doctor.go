package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pankaj-dahiya-devops/tierguard/internal/models"
	"github.com/pankaj-dahiya-devops/tierguard/internal/policy"
	"github.com/pankaj-dahiya-devops/tierguard/internal/providers/aws/common"
)

// ErrEnvironmentUnhealthy is returned by doctor when any check failed.
var ErrEnvironmentUnhealthy = errors.New("environment is not ready for verification")

// builtinPosture is the Source reported when no posture file is configured.
const builtinPosture = "built-in"

// DoctorResult is the structured output of tierguard doctor. It can be
// serialised to JSON via --format=json or rendered as a table (default).
type DoctorResult struct {
	AWS struct {
		Profile     string `json:"profile,omitempty"`
		Credentials bool   `json:"credentials_ok"`
		AccountID   string `json:"account_id,omitempty"`
		RegionsOK   bool   `json:"regions_ok"`
		Error       string `json:"error,omitempty"`
	} `json:"aws"`

	Tiers []TierCheck `json:"tiers"`

	Posture struct {
		Source string   `json:"source"`
		Valid  bool     `json:"valid"`
		Errors []string `json:"errors,omitempty"`
	} `json:"posture"`

	OverallHealthy bool `json:"overall_healthy"`
}

// TierCheck reports whether a tier's region is enabled for the account.
type TierCheck struct {
	Tier    models.Tier `json:"tier"`
	Region  string      `json:"region"`
	Enabled bool        `json:"enabled"`
}

func newDoctorCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check credentials, posture and tier regions before verifying",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			result, err := runDoctor(
				cmd.Context(),
				a.deps.newProvider(),
				cmd.OutOrStdout(),
				cfg.Doctor.Format,
				cfg.Profile,
				cfg.Posture,
			)
			if err != nil {
				return err
			}
			if !result.OverallHealthy {
				return ErrEnvironmentUnhealthy
			}
			return nil
		},
	}
	cmd.Flags().String("format", "table", `Output format: "table" or "json"`)
	a.bind(cmd.Flags(), map[string]string{"doctor.format": "format"})
	return cmd
}

// runDoctor collects all diagnostic results, renders them to w in the
// requested format, and returns the result.
// The returned error covers only rendering failures. Callers inspect
// result.OverallHealthy to decide the exit status.
func runDoctor(ctx context.Context, provider common.AWSClientProvider, w io.Writer, format, profile, posturePath string) (DoctorResult, error) {
	result := collectDoctorResult(ctx, provider, profile, posturePath)

	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return result, fmt.Errorf("encode doctor result: %w", err)
		}
	case "table", "":
		renderDoctorTable(result, w)
	default:
		return result, fmt.Errorf("unsupported doctor format %q (want table or json)", format)
	}

	return result, nil
}

// collectDoctorResult runs every environment check and populates a
// DoctorResult. It performs no rendering.
func collectDoctorResult(ctx context.Context, provider common.AWSClientProvider, profile, posturePath string) DoctorResult {
	var result DoctorResult

	// Posture first: the tier regions to check come from it.
	posture := checkPosture(&result, posturePath)

	// AWS: credentials and STS account ID, then region discovery. A profile
	// whose STS lookup failed is usable for verify but not healthy here.
	result.AWS.Profile = profile
	profileCfg, err := provider.LoadProfile(ctx, profile)
	if err == nil && profileCfg.AccountErr != nil {
		err = profileCfg.AccountErr
	}
	if err != nil {
		result.AWS.Error = err.Error()
	} else {
		result.AWS.Credentials = true
		result.AWS.AccountID = profileCfg.AccountID
		regions, err := provider.GetActiveRegions(ctx, profileCfg)
		if err != nil {
			result.AWS.Error = err.Error()
		} else {
			result.AWS.RegionsOK = true
			checkTierRegions(&result, posture, regions)
		}
	}

	result.OverallHealthy = result.AWS.Credentials &&
		result.AWS.RegionsOK &&
		result.Posture.Valid
	for _, tc := range result.Tiers {
		result.OverallHealthy = result.OverallHealthy && tc.Enabled
	}

	return result
}

// checkPosture loads and validates the posture, recording the outcome.
// The returned posture is nil when the file could not be loaded.
func checkPosture(result *DoctorResult, path string) *policy.Posture {
	result.Posture.Source = builtinPosture
	p := policy.Default()
	if path != "" {
		result.Posture.Source = path
		var err error
		if p, err = policy.LoadPosture(path); err != nil {
			result.Posture.Errors = []string{err.Error()}
			return nil
		}
	}
	for _, e := range policy.Validate(p) {
		result.Posture.Errors = append(result.Posture.Errors, e.Error())
	}
	result.Posture.Valid = len(result.Posture.Errors) == 0
	return p
}

// checkTierRegions records, for every tier, whether its region is among the
// account's enabled regions.
func checkTierRegions(result *DoctorResult, p *policy.Posture, enabled []string) {
	if p == nil {
		return
	}
	set := make(map[string]struct{}, len(enabled))
	for _, r := range enabled {
		set[r] = struct{}{}
	}
	for _, t := range p.Tiers {
		_, ok := set[t.Region]
		result.Tiers = append(result.Tiers, TierCheck{Tier: t.Name, Region: t.Region, Enabled: ok})
	}
}

// renderDoctorTable writes the human-readable diagnostic output to w.
func renderDoctorTable(result DoctorResult, w io.Writer) {
	fmt.Fprintln(w, "Environment Diagnostics")

	if result.AWS.Profile != "" {
		fmt.Fprintf(w, "\nAWS (profile: %s):\n", result.AWS.Profile)
	} else {
		fmt.Fprintln(w, "\nAWS:")
	}
	if !result.AWS.Credentials {
		doctorPrint(w, "Credentials", "FAIL", result.AWS.Error)
		doctorPrint(w, "STS Identity", "FAIL", "skipped")
		doctorPrint(w, "Regions API", "FAIL", "skipped")
	} else {
		doctorPrint(w, "Credentials", "OK", "")
		doctorPrint(w, "STS Identity", "OK", "Account: "+result.AWS.AccountID)
		if result.AWS.RegionsOK {
			doctorPrint(w, "Regions API", "OK", "")
		} else {
			doctorPrint(w, "Regions API", "FAIL", result.AWS.Error)
		}
	}

	fmt.Fprintf(w, "\nPosture (%s):\n", result.Posture.Source)
	if result.Posture.Valid {
		doctorPrint(w, "Posture valid", "OK", "")
	} else {
		for _, e := range result.Posture.Errors {
			doctorPrint(w, "Posture valid", "FAIL", e)
		}
	}

	if len(result.Tiers) > 0 {
		fmt.Fprintln(w, "\nTiers:")
		for _, tc := range result.Tiers {
			label := fmt.Sprintf("%s region %s", tc.Tier, tc.Region)
			if tc.Enabled {
				doctorPrint(w, label, "OK", "")
			} else {
				doctorPrint(w, label, "FAIL", "not enabled for this account")
			}
		}
	}
}

// doctorPrint writes a single diagnostic line to w.
// When detail is non-empty it is appended in parentheses.
func doctorPrint(w io.Writer, label, status, detail string) {
	if detail != "" {
		fmt.Fprintf(w, "  %s: %s (%s)\n", label, status, detail)
	} else {
		fmt.Fprintf(w, "  %s: %s\n", label, status)
	}
}
