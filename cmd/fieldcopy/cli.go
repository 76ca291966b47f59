package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arthur-debert/fieldcopy/fieldcopy/migration"
	"github.com/arthur-debert/fieldcopy/formats"
)

// CLI wires the cobra command tree to a private viper instance
type CLI struct {
	rootCmd   *cobra.Command
	viperInst *viper.Viper
	stdout    io.Writer
	stderr    io.Writer

	logger    *slog.Logger
	logCloser io.Closer

	// exitCode is set by commands that produce a report
	exitCode int
}

// NewCLI creates the fieldcopy command tree writing to stdout and stderr
func NewCLI(stdout, stderr io.Writer) *CLI {
	cli := &CLI{
		viperInst: viper.New(),
		stdout:    stdout,
		stderr:    stderr,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	cli.setupViperConfig()
	cli.createRootCommand()
	cli.addCommands()

	return cli
}

// setupViperConfig enables FIELDCOPY_* environment variables
func (cli *CLI) setupViperConfig() {
	cli.viperInst.SetEnvPrefix("FIELDCOPY")
	cli.viperInst.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	cli.viperInst.AutomaticEnv()

	cli.viperInst.SetDefault("format", formats.Text.Name)
	cli.viperInst.SetDefault("log-level", "info")
}

// readConfig loads the config file. An explicit --config or FIELDCOPY_CONFIG
// must exist; the default locations are optional.
func (cli *CLI) readConfig() error {
	explicit := cli.viperInst.GetString("config")
	if explicit != "" {
		cli.viperInst.SetConfigFile(explicit)
	} else {
		cli.viperInst.SetConfigName("fieldcopy")
		cli.viperInst.SetConfigType("yaml")
		cli.viperInst.AddConfigPath(".")
		cli.viperInst.AddConfigPath("$HOME/.fieldcopy")
	}

	if err := cli.viperInst.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit == "" && errors.As(err, &notFound) {
			return nil
		}
		return NewConfigError("read configuration", err.Error(), CommonSuggestions.CheckConfig)
	}
	return nil
}

func (cli *CLI) createRootCommand() {
	cli.rootCmd = &cobra.Command{
		Use:   "fieldcopy",
		Short: "Copy custom field values between records",
		Long: `fieldcopy walks the field groups of a catalog and copies every non-empty
value from a source (the global option scope by default) to a target record,
reporting what it did as a tree.

Configuration Sources (in order of precedence):
1. Command line flags
2. Environment variables (FIELDCOPY_*)
3. Configuration file (--config, FIELDCOPY_CONFIG, ./fieldcopy.yaml, ~/.fieldcopy/fieldcopy.yaml)
4. Defaults

A .env file in the working directory is loaded before anything else.

Examples:
  # Preview a copy of every group into record 42
  fieldcopy run --catalog ./fields --store site.json --target 42 --dry-run

  # Copy two groups for real
  fieldcopy run --catalog ./fields --store site.json --target 42 --groups group_site,group_footer

  # Run the preset from fieldcopy.yaml
  fieldcopy preset`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = cli.viperInst.BindPFlags(cmd.Flags())
			if err := cli.readConfig(); err != nil {
				return err
			}

			logger, closer, err := initLogging(cli.viperInst.GetString("log-level"), cli.viperInst.GetBool("verbose"), cli.stderr)
			if err != nil {
				// logging is best effort; keep the discard logger
				fmt.Fprintf(cli.stderr, "Warning: %v\n", err)
				return nil
			}
			cli.logger = logger
			cli.logCloser = closer
			return nil
		},
	}

	cli.rootCmd.SetOut(cli.stdout)
	cli.rootCmd.SetErr(cli.stderr)
	cli.addGlobalFlags()
}

// addGlobalFlags adds persistent flags that apply to all commands
func (cli *CLI) addGlobalFlags() {
	flags := cli.rootCmd.PersistentFlags()

	flags.String("config", "", "Configuration file path")
	flags.StringP("catalog", "c", "", "Field catalog file or directory")
	flags.StringP("store", "s", "", "Record store JSON file")
	flags.StringP("format", "f", formats.Text.Name, fmt.Sprintf("Output format (%s)", strings.Join(formats.List(), "|")))
	flags.BoolP("verbose", "v", false, "Mirror log output to stderr")
	flags.String("log-level", "info", "Log level (debug|info|warn|error)")

	for _, flag := range []string{"config", "catalog", "store", "format", "verbose", "log-level"} {
		_ = cli.viperInst.BindPFlag(flag, flags.Lookup(flag))
	}
}

func (cli *CLI) addCommands() {
	cli.rootCmd.AddCommand(cli.newRunCommand())
	cli.rootCmd.AddCommand(cli.newPresetCommand())
	cli.rootCmd.AddCommand(cli.newGroupsCommand())
	cli.rootCmd.AddCommand(cli.newRecordsCommand())
	cli.rootCmd.AddCommand(cli.newOptionsCommand())
}

// Execute runs the command line and returns the process exit code
func (cli *CLI) Execute(args []string) int {
	cli.rootCmd.SetArgs(args)
	err := cli.rootCmd.Execute()
	if cli.logCloser != nil {
		_ = cli.logCloser.Close()
	}
	if err != nil {
		fmt.Fprintf(cli.stderr, "Error: %v\n", err)
		return exitCode(err)
	}
	return cli.exitCode
}

// checkFormat fails early on an unknown report format, before anything is copied
func (cli *CLI) checkFormat(operation string) error {
	if _, err := formats.Get(cli.viperInst.GetString("format")); err != nil {
		return NewConfigError(operation, err.Error())
	}
	return nil
}

// writeReport renders report in the configured format and records its exit code
func (cli *CLI) writeReport(report *migration.Report) error {
	name := cli.viperInst.GetString("format")
	if err := formats.Render(cli.stdout, name, report); err != nil {
		return NewConfigError("render report", err.Error())
	}
	cli.exitCode = report.ExitCode()
	return nil
}

// require returns the named setting or a configuration error
func (cli *CLI) require(operation, key string, suggestion string) (string, error) {
	value := cli.viperInst.GetString(key)
	if value == "" {
		envName := "FIELDCOPY_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
		return "", NewConfigError(operation, fmt.Sprintf("--%s is required", key),
			fmt.Sprintf("Pass --%s or set %s", key, envName), suggestion)
	}
	return value, nil
}

func main() {
	loadDotEnv(".env")
	os.Exit(NewCLI(os.Stdout, os.Stderr).Execute(os.Args[1:]))
}
