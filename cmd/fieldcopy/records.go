package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

// recordListing is one row of the records list command
type recordListing struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Fields    int       `json:"fields" yaml:"fields"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

func (cli *CLI) newRecordsCommand() *cobra.Command {
	recordsCmd := &cobra.Command{
		Use:   "records",
		Short: "Manage target records in a store",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an empty record and print its id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			title, _ := cmd.Flags().GetString("title")
			st, err := cli.openStore("create record")
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			id, err := st.Create(cmd.Context(), title)
			if err != nil {
				return WrapError("create record", err, CommonSuggestions.CheckStore)
			}
			cli.logger.Info("record created", "id", id, "title", title, "store", st.Path())
			_, err = fmt.Fprintln(cli.stdout, id)
			return err
		},
	}
	createCmd.Flags().String("title", "", "Record title")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the records of a store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := cli.openStore("list records")
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			records, err := st.Records(cmd.Context())
			if err != nil {
				return WrapError("list records", err, CommonSuggestions.CheckStore)
			}

			listing := make([]recordListing, 0, len(records))
			rows := [][]string{{"ID", "FIELDS", "TITLE"}}
			for _, r := range records {
				listing = append(listing, recordListing{ID: r.ID, Title: r.Title, Fields: len(r.Fields), UpdatedAt: r.UpdatedAt})
				rows = append(rows, []string{r.ID, strconv.Itoa(len(r.Fields)), r.Title})
			}
			return cli.writeListing(listing, rows)
		},
	}

	recordsCmd.AddCommand(createCmd, listCmd)
	return recordsCmd
}
