package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/rostermap/cmd/rostermap/cmd/leagues"
	"github.com/agentstation/rostermap/cmd/rostermap/cmd/reconcile"
	"github.com/agentstation/rostermap/cmd/rostermap/cmd/verify"
	"github.com/agentstation/rostermap/cmd/rostermap/cmd/version"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(reconcile.NewCommand(a))
	rootCmd.AddCommand(verify.NewCommand(a))

	// Management commands
	rootCmd.AddCommand(leagues.NewCommand(a))

	rootCmd.AddCommand(version.NewCommand(a))
}
