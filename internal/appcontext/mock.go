package appcontext

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/rostermap/internal/feeds"
	"github.com/agentstation/rostermap/internal/snapshots"
	"github.com/agentstation/rostermap/pkg/constants"
	"github.com/agentstation/rostermap/pkg/leagues"
	"github.com/agentstation/rostermap/pkg/reconciler"
)

// Mock provides a mock implementation of Interface for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method falls back to a working default
// rooted at DataPath and OutputPath.
type Mock struct {
	DataPath   string
	OutputPath string

	LeaguesFunc      func() (*leagues.Config, error)
	ReconcilerFunc   func() (reconciler.Reconciler, error)
	WriterFunc       func() *snapshots.Writer
	LoggerFunc       func() *zerolog.Logger
	ParallelismValue int
	Format           string
	VersionFunc      func() string

	writerOnce sync.Once
	writer     *snapshots.Writer
}

// Leagues returns leagues using the mock function or the built-in configuration.
func (m *Mock) Leagues() (*leagues.Config, error) {
	if m.LeaguesFunc != nil {
		return m.LeaguesFunc()
	}
	return leagues.Default()
}

// Reconciler returns a reconciler using the mock function or a default one.
func (m *Mock) Reconciler() (reconciler.Reconciler, error) {
	if m.ReconcilerFunc != nil {
		return m.ReconcilerFunc()
	}
	return reconciler.New()
}

// Loader returns a loader reading DataPath.
func (m *Mock) Loader() *feeds.Loader {
	return feeds.NewLoader(m.DataPath)
}

// Writer returns a writer using the mock function or one rooted at OutputDir().
func (m *Mock) Writer() *snapshots.Writer {
	if m.WriterFunc != nil {
		return m.WriterFunc()
	}
	m.writerOnce.Do(func() {
		m.writer = snapshots.NewWriter(m.OutputDir(), constants.DefaultRetention)
	})
	return m.writer
}

// OutputDir returns OutputPath, or DataPath when unset.
func (m *Mock) OutputDir() string {
	if m.OutputPath != "" {
		return m.OutputPath
	}
	return m.DataPath
}

// Parallelism returns ParallelismValue or 1.
func (m *Mock) Parallelism() int {
	if m.ParallelismValue > 0 {
		return m.ParallelismValue
	}
	return 1
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns Format or "json".
func (m *Mock) OutputFormat() string {
	if m.Format != "" {
		return m.Format
	}
	return "json"
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns "unknown".
func (m *Mock) Commit() string { return "unknown" }

// Date returns "unknown".
func (m *Mock) Date() string { return "unknown" }

// BuiltBy returns "test".
func (m *Mock) BuiltBy() string { return "test" }

var _ Interface = (*Mock)(nil)
