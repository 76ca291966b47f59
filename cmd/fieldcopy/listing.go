package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"gopkg.in/yaml.v3"
)

// writeListing prints v as JSON or YAML when that format is configured, and
// as an aligned table of rows otherwise. The first row is the header.
func (cli *CLI) writeListing(v any, rows [][]string) error {
	switch cli.viperInst.GetString("format") {
	case "json":
		enc := json.NewEncoder(cli.stdout)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(cli.stdout)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}

	if len(rows) == 0 {
		return nil
	}
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			if i == len(row)-1 {
				cells[i] = cell
				continue
			}
			cells[i] = runewidth.FillRight(cell, widths[i])
		}
		if _, err := fmt.Fprintln(cli.stdout, strings.Join(cells, "  ")); err != nil {
			return err
		}
	}
	return nil
}
