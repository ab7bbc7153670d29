package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/pankaj-dahiya-devops/tierguard/internal/models"
)

const divider = "=================================================="

// RenderSummary writes the console digest of a run: counts, every failed
// check, every warning and the overall banner.
func RenderSummary(w io.Writer, v models.Verdict, opts TableOptions) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, divider)
	fmt.Fprintln(w, colorize("SECURITY VERIFICATION SUMMARY", opts.Colored, color.Bold))
	fmt.Fprintln(w, divider)
	fmt.Fprintf(w, "Total Checks: %d\n", v.Summary.TotalChecks)
	fmt.Fprintf(w, "Passed:       %s\n", colorize(fmt.Sprint(v.Summary.Passed), opts.Colored, color.FgGreen))
	fmt.Fprintf(w, "Failed:       %s\n", colorize(fmt.Sprint(v.Summary.Failed), opts.Colored, color.FgRed))
	fmt.Fprintf(w, "Warnings:     %s\n", colorize(fmt.Sprint(v.Summary.Warnings), opts.Colored, color.FgYellow))

	writeDigest(w, "FAILED CHECKS:", v.Failures, opts)
	writeDigest(w, "WARNINGS:", v.Warnings, opts)

	fmt.Fprintln(w)
	fmt.Fprintln(w, divider)
	if v.OK {
		fmt.Fprintln(w, colorize("SECURITY VERIFICATION PASSED", opts.Colored, color.FgGreen, color.Bold))
	} else {
		fmt.Fprintln(w, colorize("SECURITY VERIFICATION FAILED", opts.Colored, color.FgRed, color.Bold))
	}
	fmt.Fprintln(w, divider)
}

func writeDigest(w io.Writer, title string, findings []models.Finding, opts TableOptions) {
	if len(findings) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, title)
	for _, f := range findings {
		sev := "[" + ColorSeverity(f.Severity, opts.Colored) + "]"
		fmt.Fprintf(w, "  - %s %s: %s\n", sev, f.Name, strings.TrimSpace(f.Details))
	}
}
