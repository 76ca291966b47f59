package migration

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/arthur-debert/fieldcopy/internal/validation"
	"github.com/arthur-debert/fieldcopy/types"
)

// Hint is attached to every report
const Hint = "Review the dry run before copying; remove temporary presets after use."

// API runs field migrations against a catalog and a record store
type API struct {
	catalog types.Catalog
	store   types.RecordStore
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures an API
type Option func(*API)

// WithLogger sets the logger used for per-field diagnostics
func WithLogger(logger *slog.Logger) Option {
	return func(a *API) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithClock overrides the clock used for report timestamps
func WithClock(now func() time.Time) Option {
	return func(a *API) {
		if now != nil {
			a.now = now
		}
	}
}

// NewAPI creates a new migration API instance
func NewAPI(catalog types.Catalog, store types.RecordStore, opts ...Option) *API {
	a := &API{
		catalog: catalog,
		store:   store,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run copies every selected group's field values from req.Source to
// req.Target. Per-field failures are recorded in the report; only an
// unusable target aborts the run, in which case Report.Error is set and no
// group is visited.
func (a *API) Run(ctx context.Context, req Request) *Report {
	report := &Report{
		DryRun:    req.DryRun,
		Source:    req.Source,
		Target:    req.Target,
		Timestamp: a.now().UTC().Format(time.RFC3339),
		Groups:    []GroupReport{},
		Notes: Notes{
			Selector: req.Selector.String(),
			Hint:     Hint,
		},
	}

	if err := a.checkTarget(ctx, req.Target); err != nil {
		a.logger.Error("migration aborted", "target", req.Target, "error", err)
		report.Error = err.Error()
		return report
	}

	all := a.catalog.ListGroups()
	groups := req.Selector.Select(all)
	report.Totals.Groups = len(groups)
	a.logger.Info("migration started",
		"source", req.Source,
		"target", req.Target,
		"dry_run", req.DryRun,
		"selector", req.Selector.String(),
		"groups", len(groups))

	var selectorWarnings []string
	if req.Selector.IsEmpty() {
		selectorWarnings = append(selectorWarnings, "no groups selected")
	}
	for _, key := range req.Selector.Missing(all) {
		selectorWarnings = append(selectorWarnings, fmt.Sprintf("unknown group %q", key))
	}

	w := &walker{
		catalog:  a.catalog,
		store:    a.store,
		logger:   a.logger,
		source:   req.Source,
		target:   req.Target,
		dryRun:   req.DryRun,
		warnings: selectorWarnings,
	}

	for _, g := range groups {
		entry := GroupReport{
			GroupKey:   g.Key,
			GroupTitle: g.Title,
			Location:   g.Location,
			Tree:       []*ReportNode{},
		}
		for _, field := range a.catalog.TopFields(g.Key) {
			node, totals := w.walk(ctx, field, nil, openKeys{})
			entry.Tree = append(entry.Tree, node)
			report.Totals.Add(totals)
		}
		report.Groups = append(report.Groups, entry)
	}
	report.Warnings = w.warnings

	a.logger.Info("migration finished",
		"fields", report.Totals.Fields,
		"updated", report.Totals.Updated,
		"would_update", report.Totals.WouldUpdate,
		"failed", report.Totals.Failed,
		"skipped", report.Totals.Skipped)

	return report
}

// RunPreset runs a fixed configuration. Blank source falls back to the
// option scope.
func (a *API) RunPreset(ctx context.Context, preset Preset) *Report {
	source := types.Locator(preset.Source)
	if source == "" {
		source = types.OptionScope
	}
	return a.Run(ctx, Request{
		Source:   source,
		Target:   types.Locator(preset.Target),
		Selector: SelectorFrom(preset.Groups),
		DryRun:   preset.DryRun,
	})
}

func (a *API) checkTarget(ctx context.Context, target types.Locator) error {
	if err := validation.ValidateLocator(target); err != nil {
		return fmt.Errorf("target %q is invalid or not found: %w", target, err)
	}
	ok, err := a.store.Exists(ctx, target)
	if err != nil {
		return fmt.Errorf("target %q could not be checked: %w", target, err)
	}
	if !ok {
		return fmt.Errorf("target %q is invalid or not found", target)
	}
	return nil
}
