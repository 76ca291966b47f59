// Package formats renders migration reports. Renderers register themselves
// by name so the CLI can offer every available format.
package formats

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/arthur-debert/fieldcopy/fieldcopy/migration"
)

// ReportFormat defines how a report is written out
type ReportFormat struct {
	// Name is the format identifier (alphanumeric, dashes, underscores, lowercase)
	Name string

	// Extension is the file extension including the dot (e.g., ".json")
	Extension string

	// Render writes the report to w
	Render func(w io.Writer, report *migration.Report) error
}

// registry holds all available report formats
var registry = make(map[string]*ReportFormat)

// Register adds a new report format to the registry
func Register(format *ReportFormat) error {
	if !isValidFormatName(format.Name) {
		return fmt.Errorf("invalid format name %q: must be lowercase alphanumeric with dashes and underscores only", format.Name)
	}
	if format.Render == nil {
		return fmt.Errorf("format %q has no renderer", format.Name)
	}

	if !strings.HasPrefix(format.Extension, ".") {
		format.Extension = "." + format.Extension
	}

	if _, exists := registry[format.Name]; exists {
		return fmt.Errorf("format %q already registered", format.Name)
	}

	registry[format.Name] = format
	return nil
}

// Get returns a report format by name
func Get(name string) (*ReportFormat, error) {
	format, exists := registry[name]
	if !exists {
		return nil, fmt.Errorf("unknown format %q (available: %s)", name, strings.Join(List(), ", "))
	}
	return format, nil
}

// List returns all registered format names, sorted
func List() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render writes report in the named format
func Render(w io.Writer, name string, report *migration.Report) error {
	format, err := Get(name)
	if err != nil {
		return err
	}
	return format.Render(w, report)
}

func mustRegister(format *ReportFormat) {
	if err := Register(format); err != nil {
		panic(err)
	}
}

// isValidFormatName checks if a format name is valid
func isValidFormatName(name string) bool {
	if name == "" {
		return false
	}

	for _, r := range name {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' && r != '_' {
			return false
		}
	}
	return true
}
