// Package constants provides shared constants used throughout the rostermap codebase.
// This includes timeouts, limits, file permissions, snapshot naming and other values
// that should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 10 * time.Minute

	// LeagueTimeout bounds a single league's load, reconcile and write cycle
	LeagueTimeout = 2 * time.Minute
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants define various limits and capacities
const (
	// DefaultParallelism is the number of leagues reconciled concurrently
	DefaultParallelism = 4

	// MaxParallelism caps the configured parallelism
	MaxParallelism = 16

	// DefaultRetention is the number of timestamped snapshots kept per league
	DefaultRetention = 14
)

// Path constants
const (
	// DefaultDataDir is where league feeds are read from
	DefaultDataDir = "output/json"

	// DefaultConfigName is the base name of the optional config file
	DefaultConfigName = ".rostermap"

	// ManifestFile is the name of the run manifest kept in the output directory
	ManifestFile = "manifest.json"
)

// Snapshot naming constants
const (
	// UnifiedSuffix names the unified player snapshot of a league
	UnifiedSuffix = "unified_players"

	// SummarySuffix names the summary snapshot (records without game logs)
	SummarySuffix = "players_summary"

	// LatestTag replaces the timestamp in the always-current snapshot copy
	LatestTag = "latest"

	// TimeFormatFilename is the format used in snapshot filenames
	TimeFormatFilename = "20060102_150405"

	// TimeFormatExport is the format of the export_date field in snapshots
	TimeFormatExport = time.RFC3339
)

// Feed names, used in diagnostics and feed errors
const (
	FeedStats      = "stats"
	FeedDirectory  = "directory"
	FeedEnrichment = "enrichment"
)
