package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func (cli *CLI) newOptionsCommand() *cobra.Command {
	optionsCmd := &cobra.Command{
		Use:   "options",
		Short: "Manage values in the option scope of a store",
	}

	setCmd := &cobra.Command{
		Use:   "set <field-key> <value>",
		Short: "Set an option value",
		Long: `Set a value in the option scope. The value is parsed as JSON when possible
and stored as a plain string otherwise.

Examples:
  fieldcopy options set field_site_title "Example Site"
  fieldcopy options set field_hero '{"heading": "Welcome"}'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, raw := args[0], args[1]

			var value interface{}
			if err := json.Unmarshal([]byte(raw), &value); err != nil {
				value = raw
			}

			st, err := cli.openStore("set option")
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			if err := st.SetOption(cmd.Context(), key, value); err != nil {
				return WrapError("set option", err, CommonSuggestions.CheckStore)
			}
			cli.logger.Info("option set", "key", key, "store", st.Path())
			return nil
		},
	}

	optionsCmd.AddCommand(setCmd)
	return optionsCmd
}
