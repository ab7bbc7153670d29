package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/pankaj-dahiya-devops/tierguard/internal/models"
)

// TableOptions controls how RenderTable and RenderSummary decorate output.
type TableOptions struct {
	// Colored wraps status and severity labels with ANSI codes. Default
	// false (CI-safe). When true colour is forced even if w is not a TTY.
	Colored bool

	// IncludeResource adds a RESOURCE column with the finding's resource ID.
	IncludeResource bool
}

// colorize applies attrs to text when colored is true.
func colorize(text string, colored bool, attrs ...color.Attribute) string {
	if !colored {
		return text
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(text)
}

func severityAttrs(sev models.Severity) []color.Attribute {
	switch sev {
	case models.SeverityCritical:
		return []color.Attribute{color.FgRed, color.Bold}
	case models.SeverityHigh:
		return []color.Attribute{color.FgRed}
	case models.SeverityMedium:
		return []color.Attribute{color.FgYellow}
	default:
		return []color.Attribute{color.FgBlue}
	}
}

func statusAttrs(status models.Status) []color.Attribute {
	switch status {
	case models.StatusFail:
		return []color.Attribute{color.FgRed, color.Bold}
	case models.StatusWarn:
		return []color.Attribute{color.FgYellow}
	default:
		return []color.Attribute{color.FgGreen}
	}
}

// ColorSeverity wraps a severity string with ANSI codes when colored is true.
func ColorSeverity(sev models.Severity, colored bool) string {
	return colorize(string(sev), colored, severityAttrs(sev)...)
}

// ColorStatus wraps a status string with ANSI codes when colored is true.
func ColorStatus(status models.Status, colored bool) string {
	return colorize(string(status), colored, statusAttrs(status)...)
}

// ShortenMessage truncates msg to at most max runes, appending "..." when truncated.
// max is treated as at least 4 to guarantee space for the ellipsis.
func ShortenMessage(msg string, max int) string {
	if max < 4 {
		max = 4
	}
	runes := []rune(msg)
	if len(runes) <= max {
		return msg
	}
	return string(runes[:max-3]) + "..."
}

// cell pads text to width. Colour codes wrap only the text so trailing
// padding stays plain and later columns align on any terminal.
func cell(text string, width int, colored bool, attrs ...color.Attribute) string {
	pad := width - len(text)
	if pad < 0 {
		pad = 0
	}
	return colorize(text, colored, attrs...) + strings.Repeat(" ", pad)
}

// RenderTable writes one row per finding, in evaluation order.
//
// Column order:
//
//	STATUS  SEVERITY  TIER  CHECK  [RESOURCE]  DETAILS
func RenderTable(w io.Writer, findings []models.Finding, opts TableOptions) {
	if len(findings) == 0 {
		fmt.Fprintln(w, "No checks were run.")
		return
	}

	const (
		wStatus   = 6
		wSeverity = 8
		wTier     = 4
		wCheck    = 40
		wResource = 24
		wDetails  = 70
	)

	var hb strings.Builder
	hb.WriteString(fmt.Sprintf("%-*s", wStatus, "STATUS"))
	hb.WriteString(fmt.Sprintf("  %-*s", wSeverity, "SEVERITY"))
	hb.WriteString(fmt.Sprintf("  %-*s", wTier, "TIER"))
	hb.WriteString(fmt.Sprintf("  %-*s", wCheck, "CHECK"))
	if opts.IncludeResource {
		hb.WriteString(fmt.Sprintf("  %-*s", wResource, "RESOURCE"))
	}
	hb.WriteString(fmt.Sprintf("  %s", "DETAILS"))
	header := hb.String()

	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("-", len(header)+wDetails-len("DETAILS")))

	for _, f := range findings {
		tier := string(f.Tier)
		if tier == "" {
			tier = "-"
		}
		var rb strings.Builder
		rb.WriteString(cell(string(f.Status), wStatus, opts.Colored, statusAttrs(f.Status)...))
		rb.WriteString("  " + cell(string(f.Severity), wSeverity, opts.Colored, severityAttrs(f.Severity)...))
		rb.WriteString(fmt.Sprintf("  %-*s", wTier, tier))
		rb.WriteString(fmt.Sprintf("  %-*s", wCheck, ShortenMessage(f.Name, wCheck)))
		if opts.IncludeResource {
			rb.WriteString(fmt.Sprintf("  %-*s", wResource, ShortenMessage(f.ResourceID, wResource)))
		}
		rb.WriteString("  " + ShortenMessage(f.Details, wDetails))
		fmt.Fprintln(w, rb.String())
	}
}
