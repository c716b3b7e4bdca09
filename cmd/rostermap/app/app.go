// Package app provides the application context and dependency management
// for the rostermap CLI: configuration, logging, the league configuration
// and the collaborators every command shares.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/rostermap/internal/feeds"
	"github.com/agentstation/rostermap/internal/snapshots"
	"github.com/agentstation/rostermap/pkg/errors"
	"github.com/agentstation/rostermap/pkg/leagues"
	"github.com/agentstation/rostermap/pkg/reconciler"
)

// App represents the rostermap application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// League configuration (lazy-initialized)
	mu      sync.Mutex
	leagues *leagues.Config
	writer  *snapshots.Writer
}

// New creates a new App instance with the given version information.
// The app is initialized with configuration from the environment that can
// be customized using functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.NewConfigError("app", "loading configuration", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// OutputDir returns the snapshot directory.
func (a *App) OutputDir() string {
	return a.config.OutputDir
}

// Parallelism returns how many leagues may run at once.
func (a *App) Parallelism() int {
	return a.config.Parallelism
}

// Leagues returns the league configuration, loading it on first use from
// the configured file or the built-in set.
func (a *App) Leagues() (*leagues.Config, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.leagues != nil {
		return a.leagues, nil
	}
	cfg, err := leagues.LoadOrDefault(a.config.LeaguesFile)
	if err != nil {
		return nil, errors.NewConfigError("leagues", "loading league configuration", err)
	}
	a.leagues = cfg
	return cfg, nil
}

// Reconciler returns a reconciler configured from the application config.
func (a *App) Reconciler() (reconciler.Reconciler, error) {
	return reconciler.New(reconciler.WithProvenance(a.config.Provenance))
}

// Loader returns a feed loader reading the data directory.
func (a *App) Loader() *feeds.Loader {
	return feeds.NewLoader(a.config.DataDir)
}

// Writer returns the shared snapshot writer. One writer serializes manifest
// updates across leagues running in parallel.
func (a *App) Writer() *snapshots.Writer {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.writer == nil {
		a.writer = snapshots.NewWriter(a.config.OutputDir, a.config.Retention)
	}
	return a.writer
}

// Shutdown performs graceful shutdown of the application.
func (a *App) Shutdown(_ context.Context) error {
	a.logger.Debug().Msg("Shutting down")
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if config == nil {
			return errors.NewValidationError("config", nil, "cannot be nil")
		}
		config.normalize()
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithLeagues sets the league configuration (useful for testing).
func WithLeagues(cfg *leagues.Config) Option {
	return func(a *App) error {
		a.leagues = cfg
		return nil
	}
}
