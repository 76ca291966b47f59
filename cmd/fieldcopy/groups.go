package main

import (
	"strconv"

	"github.com/spf13/cobra"
)

// groupListing is one row of the groups command
type groupListing struct {
	Key    string `json:"key" yaml:"key"`
	Title  string `json:"title" yaml:"title"`
	Fields int    `json:"fields" yaml:"fields"`
}

func (cli *CLI) newGroupsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "groups",
		Short: "List the field groups of a catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := cli.loadCatalog(cmd.Context(), "list groups")
			if err != nil {
				return err
			}

			groups := loaded.ListGroups()
			listing := make([]groupListing, 0, len(groups))
			rows := [][]string{{"KEY", "FIELDS", "TITLE"}}
			for _, g := range groups {
				n := len(g.Fields)
				listing = append(listing, groupListing{Key: g.Key, Title: g.Title, Fields: n})
				rows = append(rows, []string{g.Key, strconv.Itoa(n), g.Title})
			}
			return cli.writeListing(listing, rows)
		},
	}
}
