package formats

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/fieldcopy/fieldcopy/migration"
)

// JSON renders the report as indented JSON. HTML characters in previews are
// left unescaped.
var JSON = &ReportFormat{
	Name:      "json",
	Extension: ".json",
	Render: func(w io.Writer, report *migration.Report) error {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		return nil
	},
}

// YAML renders the report as a YAML document
var YAML = &ReportFormat{
	Name:      "yaml",
	Extension: ".yaml",
	Render: func(w io.Writer, report *migration.Report) error {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		return enc.Close()
	},
}

func init() {
	mustRegister(JSON)
	mustRegister(YAML)
	mustRegister(Text)
}
