// Package appcontext provides the shared application context interface
// used by all commands. Commands accept this interface rather than the
// concrete App so they can be tested with Mock.
package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/rostermap/internal/feeds"
	"github.com/agentstation/rostermap/internal/snapshots"
	"github.com/agentstation/rostermap/pkg/leagues"
	"github.com/agentstation/rostermap/pkg/reconciler"
)

// Interface defines what commands need from the application.
type Interface interface {
	// Leagues returns the league configuration, loaded once.
	Leagues() (*leagues.Config, error)

	// Reconciler returns a reconciler configured from the application config.
	Reconciler() (reconciler.Reconciler, error)

	// Loader returns a feed loader reading the data directory.
	Loader() *feeds.Loader

	// Writer returns the snapshot writer for the output directory.
	Writer() *snapshots.Writer

	// OutputDir returns the directory snapshots are written to.
	OutputDir() string

	// Parallelism returns how many leagues may run at once.
	Parallelism() int

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table, wide).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
