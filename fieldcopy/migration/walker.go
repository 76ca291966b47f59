package migration

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/arthur-debert/fieldcopy/fieldcopy/summary"
	"github.com/arthur-debert/fieldcopy/types"
)

// walker copies field values for one run. It holds no counters: every walk
// returns the totals of its own subtree and the caller folds them in.
type walker struct {
	catalog types.Catalog
	store   types.RecordStore
	logger  *slog.Logger

	source types.Locator
	target types.Locator
	dryRun bool

	warnings []string
}

// openKeys is the set of field keys on the current path
type openKeys map[string]bool

func (o openKeys) with(key string) openKeys {
	next := make(openKeys, len(o)+1)
	for k := range o {
		next[k] = true
	}
	next[key] = true
	return next
}

// walk visits one field definition and its descendants
func (w *walker) walk(ctx context.Context, field types.Field, path []string, open openKeys) (*ReportNode, Totals) {
	var totals Totals
	meta := field.Meta()
	node := &ReportNode{
		Label:    meta.Label,
		Name:     meta.Name,
		Key:      meta.Key,
		Kind:     meta.Type,
		Path:     appendPath(path, meta.Name),
		Children: []*ReportNode{},
	}

	if meta.Key == "" {
		node.Result = ResultSkipped
		totals.Skipped++
		return node, totals
	}

	if open[meta.Key] {
		w.logger.Warn("cyclic field reference", "key", meta.Key, "path", strings.Join(node.Path, "/"))
		node.Result = ResultCyclic
		totals.Skipped++
		return node, totals
	}
	open = open.with(meta.Key)

	value, readErr := w.store.Read(ctx, meta.Key, w.source)
	if readErr != nil {
		value = nil
		node.Error = fmt.Sprintf("read failed: %v", readErr)
		w.logger.Warn("field read failed", "key", meta.Key, "source", w.source, "error", readErr)
	}
	s := summary.Of(value)
	node.Value = &s

	switch f := field.(type) {
	case *types.GroupField, *types.RepeaterField:
		for _, sub := range types.Children(f) {
			child, subTotals := w.walk(ctx, sub, node.Path, open)
			node.Children = append(node.Children, child)
			totals.Add(subTotals)
		}
	case *types.FlexibleField:
		for _, layout := range f.Layouts {
			layoutNode, subTotals := w.walkLayout(ctx, layout, node.Path, open)
			node.Children = append(node.Children, layoutNode)
			totals.Add(subTotals)
		}
	case *types.ReferenceField:
		for _, ref := range f.Targets {
			resolved, ok := w.catalog.Resolve(ref)
			if !ok || resolved == nil {
				w.warnings = append(w.warnings, fmt.Sprintf("unresolved reference %q at %s", ref, strings.Join(node.Path, "/")))
				continue
			}
			child, subTotals := w.walk(ctx, resolved, node.Path, open)
			node.Children = append(node.Children, child)
			totals.Add(subTotals)
		}
	}

	totals.Fields++
	if readErr != nil {
		node.Result = ResultFailed
		totals.Failed++
		return node, totals
	}

	if summary.IsEmpty(value) {
		node.Result = ResultSkipped
		totals.Skipped++
		return node, totals
	}
	totals.NonEmpty++

	if w.dryRun {
		node.Result = ResultWouldUpdate
		totals.WouldUpdate++
		return node, totals
	}

	if err := w.store.Write(ctx, meta.Key, value, w.target); err != nil {
		w.logger.Warn("field write failed", "key", meta.Key, "target", w.target, "error", err)
		node.Result = ResultFailed
		node.Error = fmt.Sprintf("write failed: %v", err)
		totals.Failed++
		return node, totals
	}

	w.logger.Debug("field updated", "key", meta.Key, "target", w.target, "size", s.Size)
	node.Result = ResultUpdated
	totals.Updated++
	return node, totals
}

// walkLayout builds the container node of a flexible content layout. The
// layout itself is never a value leaf.
func (w *walker) walkLayout(ctx context.Context, layout types.Layout, path []string, open openKeys) (*ReportNode, Totals) {
	var totals Totals
	node := &ReportNode{
		Label:    layout.Label,
		Name:     layout.Name,
		Key:      layout.Key,
		Kind:     LayoutKind,
		Path:     appendPath(path, layout.Name),
		Result:   ResultSkipped,
		Children: []*ReportNode{},
	}
	for _, sub := range layout.SubFields {
		child, subTotals := w.walk(ctx, sub, node.Path, open)
		node.Children = append(node.Children, child)
		totals.Add(subTotals)
	}
	return node, totals
}

// appendPath copies path so sibling nodes never share a backing array
func appendPath(path []string, name string) []string {
	out := make([]string, 0, len(path)+1)
	out = append(out, path...)
	return append(out, name)
}
