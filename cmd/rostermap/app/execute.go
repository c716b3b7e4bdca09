package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/rostermap/internal/cmd/output"
)

// Execute runs the rostermap CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "rostermap",
		Short:   "American players in international basketball leagues",
		Version: a.version,
		Long: `Rostermap merges the feeds scraped for each international basketball
league into one record per American player: the league's stat feed decides
who is tracked, a sports directory fills in biographical fields and an
enrichment feed adds hometowns and colleges.

Feeds are read from the data directory; unified snapshots, summaries and
provenance are written to the output directory.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands:",
	})

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.config.ConfigFile, "config", "", "config file (default is $HOME/.rostermap.yaml)")
	flags.BoolVarP(&a.config.Verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	flags.BoolVarP(&a.config.Quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	flags.BoolVar(&a.config.NoColor, "no-color", false, "disable colored output")
	flags.StringVarP(&a.config.Format, "format", "o", "", "output format: table, json, yaml, wide")
	flags.StringVar(&a.config.LogLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")
	flags.StringVar(&a.config.DataDir, "data-dir", a.config.DataDir, "directory holding league feeds")
	flags.StringVar(&a.config.OutputDir, "output-dir", a.config.OutputDir, "directory snapshots are written to (default is the data directory)")
	flags.StringVar(&a.config.LeaguesFile, "leagues", a.config.LeaguesFile, "league configuration file (default is the built-in set)")
	flags.IntVarP(&a.config.Parallelism, "parallelism", "j", a.config.Parallelism, "leagues reconciled at once")

	rootCmd.SetVersionTemplate("rostermap {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	// These flags are defined as persistent flags in createRootCommand, so errors indicate programming errors
	verbose := mustGetBool(cmd, "verbose")
	quiet := mustGetBool(cmd, "quiet")
	noColor := mustGetBool(cmd, "no-color")
	format := mustGetString(cmd, "format")
	logLevel := mustGetString(cmd, "log-level")

	if _, err := output.ParseFormat(format); err != nil {
		return err
	}

	if cmd.Flags().Changed("config") {
		if err := a.applyConfigFile(cmd, mustGetString(cmd, "config")); err != nil {
			return err
		}
	}

	a.config.UpdateFromFlags(verbose, quiet, noColor, format, logLevel)

	// --data-dir alone moves the output directory with it
	if cmd.Flags().Changed("data-dir") && !cmd.Flags().Changed("output-dir") {
		a.config.OutputDir = a.config.DataDir
	}
	a.config.normalize()

	logger := NewLogger(a.config)
	a.logger = &logger

	return nil
}

// applyConfigFile reads an explicitly named config file and takes its run
// settings, except those given as flags.
func (a *App) applyConfigFile(cmd *cobra.Command, path string) error {
	fc, err := LoadConfigFile(path)
	if err != nil {
		return err
	}
	changed := cmd.Flags().Changed
	if !changed("data-dir") {
		a.config.DataDir = fc.DataDir
		if !changed("output-dir") {
			a.config.OutputDir = fc.OutputDir
		}
	}
	if !changed("leagues") {
		a.config.LeaguesFile = fc.LeaguesFile
	}
	if !changed("parallelism") {
		a.config.Parallelism = fc.Parallelism
	}
	a.config.Retention = fc.Retention
	a.config.Provenance = fc.Provenance
	a.config.ConfigFile = fc.ConfigFile
	return nil
}

// ExitOnError is a helper that prints an error and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		//nolint:errcheck // Ignoring write error since we're exiting anyway
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
