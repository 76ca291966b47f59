package main

import (
	"github.com/spf13/cobra"

	"github.com/arthur-debert/fieldcopy/fieldcopy/migration"
)

func (cli *CLI) newPresetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Run the fixed copy configured in the preset section",
		Long: `Run the copy described by the 'preset' section of the configuration file.
Unset values fall back to a dry run from the option scope over every group.

Example fieldcopy.yaml:
  catalog: ./fields
  store: site.json
  preset:
    dry_run: false
    source: option
    target: "42"
    groups: [group_site, group_footer]`,
		Args: cobra.NoArgs,
		RunE: cli.runPreset,
	}

	cmd.Flags().BoolP("dry-run", "n", true, "Report what would be copied without writing")

	return cmd
}

// loadPreset reads the preset section. Keys missing from the section take
// their value from migration.DefaultPreset.
func (cli *CLI) loadPreset(cmd *cobra.Command) (migration.Preset, error) {
	defaults := migration.DefaultPreset()

	// Decode into an empty preset so groups keeps whatever shape the config holds
	var preset migration.Preset
	if cli.viperInst.IsSet("preset") {
		if err := cli.viperInst.UnmarshalKey("preset", &preset); err != nil {
			return preset, NewConfigError("read preset", err.Error(), CommonSuggestions.CheckConfig)
		}
	}

	// Fill in unset keys
	if !cli.viperInst.IsSet("preset.dry_run") {
		preset.DryRun = defaults.DryRun
	}
	if preset.Source == "" {
		preset.Source = defaults.Source
	}
	if preset.Groups == nil {
		preset.Groups = defaults.Groups
	}

	// An explicit flag wins over the config file
	if cmd.Flags().Changed("dry-run") {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		preset.DryRun = dryRun
	}
	return preset, nil
}

func (cli *CLI) runPreset(cmd *cobra.Command, args []string) error {
	if err := cli.checkFormat("run preset"); err != nil {
		return err
	}
	preset, err := cli.loadPreset(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	api, closeStore, err := cli.newAPI(ctx, "run preset")
	if err != nil {
		return err
	}
	defer closeStore()

	cli.logger.Info("running preset", "target", preset.Target, "dry_run", preset.DryRun)
	return cli.writeReport(api.RunPreset(ctx, preset))
}
