package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pankaj-dahiya-devops/tierguard/internal/config"
	"github.com/pankaj-dahiya-devops/tierguard/internal/engine"
	"github.com/pankaj-dahiya-devops/tierguard/internal/logging"
	"github.com/pankaj-dahiya-devops/tierguard/internal/output"
	"github.com/pankaj-dahiya-devops/tierguard/internal/policy"
	"github.com/pankaj-dahiya-devops/tierguard/internal/providers/aws/common"
	"github.com/pankaj-dahiya-devops/tierguard/internal/providers/aws/inventory"
	"github.com/pankaj-dahiya-devops/tierguard/internal/providers/network"
	posturepack "github.com/pankaj-dahiya-devops/tierguard/internal/rulepacks/posture"
	"github.com/pankaj-dahiya-devops/tierguard/internal/version"
)

// ErrVerificationFailed is returned by verify when at least one check
// failed. main maps it to exit status 1 without printing it again.
var ErrVerificationFailed = errors.New("security verification failed")

// deps are the constructors the commands use to reach AWS. Tests replace
// them with fakes.
type deps struct {
	newProvider func() common.AWSClientProvider
	newEngine   func(p *policy.Posture) engine.Engine
}

func defaultDeps() deps {
	return deps{
		newProvider: func() common.AWSClientProvider {
			return common.NewDefaultAWSClientProvider()
		},
		newEngine: func(p *policy.Posture) engine.Engine {
			return engine.NewPostureEngine(
				common.NewDefaultAWSClientProvider(),
				inventory.NewDefaultInventoryCollector(),
				network.NewHTTPProber(),
				posturepack.NewRegistry(),
				p,
			)
		},
	}
}

// app carries the state shared by every subcommand of one invocation.
type app struct {
	deps       deps
	v          *viper.Viper
	configFile string
}

func newRootCmd() *cobra.Command {
	return newRootCmdWithDeps(defaultDeps())
}

func newRootCmdWithDeps(d deps) *cobra.Command {
	a := &app{deps: d, v: config.NewViper()}

	root := &cobra.Command{
		Use:           "tierguard",
		Short:         "Verify the network security posture of a two-tier AWS deployment",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "Config file (default: ~/.config/tierguard/config.yaml)")
	pf.String("profile", "", "AWS profile to use (default: credential chain)")
	pf.String("posture", "", "Posture YAML file (default: built-in reference deployment; set probe.indeterminate: pass to accept inconclusive probes)")
	pf.BoolP("verbose", "v", false, "Print the per-check table and debug logs")
	pf.Bool("no-color", false, "Disable coloured console output")
	pf.String("log-level", "warn", "Log level: debug, info, warn or error")
	pf.String("log-format", "console", `Log format: "console" or "json"`)
	a.bind(pf, map[string]string{
		"profile":         "profile",
		"posture":         "posture",
		"output.verbose":  "verbose",
		"output.no_color": "no-color",
		"log.level":       "log-level",
		"log.format":      "log-format",
	})

	root.AddCommand(newVerifyCmd(a))
	root.AddCommand(newDoctorCmd(a))
	root.AddCommand(newVersionCmd())
	return root
}

// bind attaches flags to viper keys. The flags are registered by the caller,
// so a lookup miss is a programming error.
func (a *app) bind(fs *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if err := a.v.BindPFlag(key, fs.Lookup(name)); err != nil {
			panic(fmt.Sprintf("bind flag %q: %v", name, err))
		}
	}
}

// loadConfig merges flags, environment and config file into a Config.
func (a *app) loadConfig() (*config.Config, error) {
	return config.Load(a.v, a.configFile)
}

// contextWithLogger builds the run logger from cfg and attaches it to ctx.
// --verbose lowers the level to debug.
func contextWithLogger(ctx context.Context, cfg *config.Config, w io.Writer) (context.Context, error) {
	level := cfg.Log.Level
	if cfg.Output.Verbose {
		level = "debug"
	}
	logger, err := logging.New(level, cfg.Log.Format, w)
	if err != nil {
		return ctx, err
	}
	return logger.WithContext(ctx), nil
}

// loadPosture returns the posture at path, or the built-in default when
// path is empty, and rejects it when validation reports any error.
func loadPosture(path string) (*policy.Posture, error) {
	p := policy.Default()
	if path != "" {
		var err error
		if p, err = policy.LoadPosture(path); err != nil {
			return nil, err
		}
	}
	if errs := policy.Validate(p); len(errs) > 0 {
		return nil, fmt.Errorf("invalid posture: %w", errors.Join(errs...))
	}
	return p, nil
}

// colored reports whether console output should carry ANSI colours.
// fatih/color already turns colour off for NO_COLOR and non-TTY stdout.
func colored(cfg *config.Config) bool {
	return !cfg.Output.NoColor && !color.NoColor
}

func newVerifyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Run every posture check and write the verification report",
		Long: `Run every posture check and write the verification report.

Internal load balancers of tiers with probe_internal set are requested from
outside over HTTP. Any HTTP response, including 4xx and 5xx, proves the path
exists and fails the check. Only timeouts and refused, reset or unroutable
connections pass it.

A probe that fails for another reason, such as a DNS lookup error, is
indeterminate and reported as WARN. Set probe.indeterminate: pass in the
posture file to report it as PASS instead.

Exit status is 1 when any check fails; warnings alone exit 0.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runVerify(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().StringP("output", "o", "security-verification-report.json", "Report file path")
	cmd.Flags().String("format", "json", `Report format: "json" or "yaml"`)
	a.bind(cmd.Flags(), map[string]string{
		"output.path":   "output",
		"output.format": "format",
	})
	return cmd
}

// runVerify executes one verification run. Console output goes to stdout,
// logs to stderr. It returns ErrVerificationFailed when any check failed;
// warnings alone do not fail the run.
func (a *app) runVerify(ctx context.Context, stdout, stderr io.Writer) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	ctx, err = contextWithLogger(ctx, cfg, stderr)
	if err != nil {
		return err
	}
	format, err := output.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	posture, err := loadPosture(cfg.Posture)
	if err != nil {
		return err
	}

	res, err := a.deps.newEngine(posture).Run(ctx, engine.VerifyOptions{Profile: cfg.Profile})
	if err != nil {
		return fmt.Errorf("verification aborted: %w", err)
	}

	opts := output.TableOptions{Colored: colored(cfg), IncludeResource: cfg.Output.Verbose}
	if cfg.Output.Verbose {
		account := res.AccountID
		if account == "" {
			account = "unknown"
		}
		fmt.Fprintf(stdout, "Account: %s\n\n", account)
		output.RenderTable(stdout, res.Report.Checks, opts)
	}
	output.RenderSummary(stdout, res.Verdict, opts)

	if err := output.WriteReport(cfg.Output.Path, format, res.Report); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "\nDetailed report saved to: %s\n", cfg.Output.Path)

	if !res.Verdict.OK {
		return ErrVerificationFailed
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the tierguard version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), version.Info())
		},
	}
}
