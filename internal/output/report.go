package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pankaj-dahiya-devops/tierguard/internal/models"
)

// ReportFormat selects the serialization of the persisted report.
type ReportFormat string

const (
	ReportFormatJSON ReportFormat = "json"
	ReportFormatYAML ReportFormat = "yaml"
)

// ParseFormat maps a user-supplied format name to a ReportFormat.
// "yml" is accepted as an alias for yaml.
func ParseFormat(s string) (ReportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return ReportFormatJSON, nil
	case "yaml", "yml":
		return ReportFormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported report format %q (want json or yaml)", s)
	}
}

// EncodeReport serializes report to w in format.
func EncodeReport(w io.Writer, format ReportFormat, report *models.Report) error {
	switch format {
	case ReportFormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encode json report: %w", err)
		}
		return nil
	case ReportFormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encode yaml report: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode yaml report: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported report format %q", format)
	}
}

// WriteReport writes report to path, creating parent directories as needed.
// The file is only written once encoding has succeeded.
func WriteReport(path string, format ReportFormat, report *models.Report) error {
	var buf bytes.Buffer
	if err := EncodeReport(&buf, format, report); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}
