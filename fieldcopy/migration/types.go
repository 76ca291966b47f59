package migration

import (
	"github.com/arthur-debert/fieldcopy/fieldcopy/summary"
	"github.com/arthur-debert/fieldcopy/types"
)

// Result is the outcome recorded on a report node
type Result string

const (
	ResultSkipped     Result = "skipped"
	ResultWouldUpdate Result = "would_update"
	ResultUpdated     Result = "updated"
	ResultFailed      Result = "failed"
	ResultCyclic      Result = "cyclic"
)

// LayoutKind is the report kind of a flexible content layout node
const LayoutKind = "flex_layout"

// Exit codes derived from a report
const (
	CodeSuccess = iota
	CodeValidationError
	CodeExecutionError
	CodePartialFailure
)

// ReportNode describes one visited field definition or layout
type ReportNode struct {
	Label    string           `json:"label" yaml:"label"`
	Name     string           `json:"name" yaml:"name"`
	Key      string           `json:"key" yaml:"key"`
	Kind     string           `json:"type" yaml:"type"`
	Path     []string         `json:"path" yaml:"path"`
	Value    *summary.Summary `json:"value" yaml:"value"`
	Result   Result           `json:"result" yaml:"result"`
	Error    string           `json:"error,omitempty" yaml:"error,omitempty"`
	Children []*ReportNode    `json:"children" yaml:"children"`
}

// Totals counts what a run visited and did
type Totals struct {
	Groups      int `json:"groups" yaml:"groups"`
	Fields      int `json:"fields" yaml:"fields"`
	NonEmpty    int `json:"non_empty" yaml:"non_empty"`
	Updated     int `json:"updated" yaml:"updated"`
	Failed      int `json:"failed" yaml:"failed"`
	Skipped     int `json:"skipped" yaml:"skipped"`
	WouldUpdate int `json:"would_update" yaml:"would_update"`
}

// Add folds other into t
func (t *Totals) Add(other Totals) {
	t.Groups += other.Groups
	t.Fields += other.Fields
	t.NonEmpty += other.NonEmpty
	t.Updated += other.Updated
	t.Failed += other.Failed
	t.Skipped += other.Skipped
	t.WouldUpdate += other.WouldUpdate
}

// GroupReport is the report entry of one field group
type GroupReport struct {
	GroupKey   string        `json:"group_key" yaml:"group_key"`
	GroupTitle string        `json:"group_title" yaml:"group_title"`
	Location   any           `json:"location" yaml:"location"`
	Tree       []*ReportNode `json:"tree" yaml:"tree"`
}

// Notes carries free-form hints for the operator
type Notes struct {
	Selector string `json:"selector" yaml:"selector"`
	Hint     string `json:"hint" yaml:"hint"`
}

// Report is the complete outcome of one migration run
type Report struct {
	DryRun    bool          `json:"dry_run" yaml:"dry_run"`
	Source    types.Locator `json:"source" yaml:"source"`
	Target    types.Locator `json:"target" yaml:"target"`
	Timestamp string        `json:"timestamp" yaml:"timestamp"`
	Groups    []GroupReport `json:"groups" yaml:"groups"`
	Totals    Totals        `json:"totals" yaml:"totals"`
	Notes     Notes         `json:"notes" yaml:"notes"`
	Warnings  []string      `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Error     string        `json:"error,omitempty" yaml:"error,omitempty"`
}

// ExitCode maps the report onto a process exit code
func (r *Report) ExitCode() int {
	switch {
	case r.Error != "":
		return CodeValidationError
	case r.Totals.Failed > 0:
		return CodePartialFailure
	default:
		return CodeSuccess
	}
}

// Request parameterizes one run
type Request struct {
	Source   types.Locator
	Target   types.Locator
	Selector Selector
	DryRun   bool
}

// Preset is the fixed configuration of a run, typically read from a config file
type Preset struct {
	DryRun bool   `mapstructure:"dry_run" yaml:"dry_run"`
	Source string `mapstructure:"source" yaml:"source"`
	Target string `mapstructure:"target" yaml:"target"`
	Groups any    `mapstructure:"groups" yaml:"groups"`
}

// DefaultPreset mirrors the safe defaults: dry run, copy from the option
// scope, every group
func DefaultPreset() Preset {
	return Preset{
		DryRun: true,
		Source: string(types.OptionScope),
		Groups: SelectAll,
	}
}
