package main

import (
	"github.com/spf13/cobra"

	"github.com/arthur-debert/fieldcopy/fieldcopy/migration"
	"github.com/arthur-debert/fieldcopy/types"
)

func (cli *CLI) newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Copy field values from a source to a target record",
		Long: `Walk the selected field groups and copy every non-empty value from the
source to the target. Use --dry-run to only report what would be copied.

Groups may be selected as:
  all                every group (default)
  group_a            a single group key
  group_a,group_b    a comma separated list
  ["group_a"]        a JSON array`,
		Args: cobra.NoArgs,
		RunE: cli.runRun,
	}

	cmd.Flags().String("source", string(types.OptionScope), "Source locator ('option' or a record id)")
	cmd.Flags().StringP("target", "t", "", "Target record id")
	cmd.Flags().StringP("groups", "g", migration.SelectAll, "Field groups to copy")
	cmd.Flags().BoolP("dry-run", "n", false, "Report what would be copied without writing")

	return cmd
}

func (cli *CLI) runRun(cmd *cobra.Command, args []string) error {
	if err := cli.checkFormat("run migration"); err != nil {
		return err
	}

	ctx := cmd.Context()
	api, closeStore, err := cli.newAPI(ctx, "run migration")
	if err != nil {
		return err
	}
	defer closeStore()

	report := api.Run(ctx, migration.Request{
		Source:   types.Locator(cli.viperInst.GetString("source")),
		Target:   types.Locator(cli.viperInst.GetString("target")),
		Selector: migration.ParseSelector(cli.viperInst.GetString("groups")),
		DryRun:   cli.viperInst.GetBool("dry-run"),
	})
	return cli.writeReport(report)
}
