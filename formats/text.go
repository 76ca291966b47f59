package formats

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/arthur-debert/fieldcopy/fieldcopy/migration"
)

const (
	indentWidth   = 2
	maxNameWidth  = 40
	previewWidth  = 48
	resultWidth   = len("would_update")
	layoutMarker  = "-"
	textSeparator = "  "
)

// Text renders the report as an indented tree aligned for terminals. Column
// widths are measured in display cells so wide runes line up.
var Text = &ReportFormat{
	Name:      "text",
	Extension: ".txt",
	Render: func(w io.Writer, report *migration.Report) error {
		var b strings.Builder
		writeTextReport(&b, report)
		_, err := io.WriteString(w, b.String())
		return err
	},
}

func writeTextReport(b *strings.Builder, report *migration.Report) {
	mode := "copy"
	if report.DryRun {
		mode = "dry run"
	}
	fmt.Fprintf(b, "%s: %s -> %s (%s)\n", mode, report.Source, report.Target, report.Timestamp)
	fmt.Fprintf(b, "selector: %s\n", report.Notes.Selector)

	if report.Error != "" {
		fmt.Fprintf(b, "error: %s\n", report.Error)
		return
	}

	width := 0
	for _, g := range report.Groups {
		for _, n := range g.Tree {
			width = max(width, nameWidth(n, 0))
		}
	}
	width = min(width, maxNameWidth)

	for _, g := range report.Groups {
		b.WriteString("\n")
		title := g.GroupTitle
		if title == "" {
			title = "(untitled)"
		}
		if g.GroupKey != "" {
			fmt.Fprintf(b, "%s [%s]\n", title, g.GroupKey)
		} else {
			fmt.Fprintf(b, "%s\n", title)
		}
		for _, n := range g.Tree {
			writeTextNode(b, n, 1, width)
		}
	}

	t := report.Totals
	b.WriteString("\n")
	fmt.Fprintf(b, "groups %d  fields %d  non_empty %d  updated %d  would_update %d  failed %d  skipped %d\n",
		t.Groups, t.Fields, t.NonEmpty, t.Updated, t.WouldUpdate, t.Failed, t.Skipped)
	for _, warning := range report.Warnings {
		fmt.Fprintf(b, "warning: %s\n", warning)
	}
	if report.Notes.Hint != "" {
		fmt.Fprintf(b, "hint: %s\n", report.Notes.Hint)
	}
}

func writeTextNode(b *strings.Builder, n *migration.ReportNode, depth, width int) {
	name := strings.Repeat(" ", depth*indentWidth) + displayName(n)
	name = runewidth.Truncate(name, width+indentWidth, "…")
	b.WriteString(runewidth.FillRight(name, width+indentWidth))
	b.WriteString(textSeparator)

	result := string(n.Result)
	if n.Kind == migration.LayoutKind {
		result = layoutMarker
	}
	b.WriteString(runewidth.FillRight(result, resultWidth))

	if n.Value != nil {
		b.WriteString(textSeparator)
		b.WriteString(runewidth.FillRight(n.Value.Size, len("container(000)")))
		b.WriteString(textSeparator)
		b.WriteString(runewidth.Truncate(oneLine(n.Value.Preview), previewWidth, "…"))
	}
	b.WriteString("\n")

	if n.Error != "" {
		fmt.Fprintf(b, "%s! %s\n", strings.Repeat(" ", (depth+1)*indentWidth), n.Error)
	}
	for _, c := range n.Children {
		writeTextNode(b, c, depth+1, width)
	}
}

// nameWidth is the widest indented name in the subtree of n
func nameWidth(n *migration.ReportNode, depth int) int {
	w := depth*indentWidth + runewidth.StringWidth(displayName(n))
	for _, c := range n.Children {
		w = max(w, nameWidth(c, depth+1))
	}
	return w
}

func displayName(n *migration.ReportNode) string {
	switch {
	case n.Name != "":
		return n.Name
	case n.Label != "":
		return n.Label
	case n.Key != "":
		return n.Key
	default:
		return "(unnamed)"
	}
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
