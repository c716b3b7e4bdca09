// Package snapshots reads and writes the JSON files a reconciliation run
// produces: a timestamped unified snapshot per league, the league's latest
// snapshot and summary, its provenance, and a manifest of runs.
package snapshots

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agentstation/rostermap/pkg/constants"
	"github.com/agentstation/rostermap/pkg/errors"
	"github.com/agentstation/rostermap/pkg/logging"
	"github.com/agentstation/rostermap/pkg/provenance"
)

// Writer persists league snapshots and the manifest, pruning old snapshots.
// It is safe for concurrent use by several leagues.
type Writer struct {
	dir       string
	retention int
	now       func() time.Time
	newID     func() string

	mu sync.Mutex // guards the manifest
}

// Option configures a Writer.
type Option func(*Writer)

// WithClock sets the clock used for export dates and file names.
func WithClock(now func() time.Time) Option {
	return func(w *Writer) { w.now = now }
}

// WithRunIDs sets the run id generator.
func WithRunIDs(newID func() string) Option {
	return func(w *Writer) { w.newID = newID }
}

// NewWriter constructs a writer rooted at dir keeping retention timestamped
// snapshots per league.
func NewWriter(dir string, retention int, opts ...Option) *Writer {
	if retention <= 0 {
		retention = constants.DefaultRetention
	}
	w := &Writer{
		dir:       dir,
		retention: retention,
		now:       time.Now,
		newID:     func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Written describes the files a WriteLeague call produced.
type Written struct {
	RunID      string   `json:"run_id"`
	Unified    string   `json:"unified,omitempty"`
	Latest     string   `json:"latest"`
	Summary    string   `json:"summary"`
	Provenance string   `json:"provenance,omitempty"`
	Unchanged  bool     `json:"unchanged"`
	Pruned     []string `json:"pruned,omitempty"`
}

// WriteLeague writes doc and, when prov is non-nil, its provenance. If the
// latest snapshot already holds the same players no new files are written
// and only the manifest is updated.
func (w *Writer) WriteLeague(ctx context.Context, doc Document, prov provenance.Map) (*Written, error) {
	if doc.League == "" {
		return nil, errors.NewValidationError("league", doc.League, "cannot be empty")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(w.dir, constants.DirPermissions); err != nil {
		return nil, errors.WrapIO("mkdir", w.dir, err)
	}

	logger := logging.FromContext(ctx).With().Str("league", doc.League).Logger()
	now := w.now().UTC()
	if doc.ExportDate == "" {
		doc.ExportDate = now.Format(constants.TimeFormatExport)
	}
	doc.PlayerCount = len(doc.Players)

	// A run id in the context groups the leagues of one invocation.
	runID := logging.RunID(ctx)
	if runID == "" {
		runID = w.newID()
	}
	out := &Written{
		RunID:   runID,
		Latest:  LatestPath(w.dir, doc.League),
		Summary: SummaryPath(w.dir, doc.League),
	}

	if prev, err := ReadDocument(out.Latest); err == nil && sameContent(*prev, doc) {
		out.Unchanged = true
		logger.Info().Str("path", out.Latest).Msg("Snapshot unchanged, skipping write")
		if err := w.writeProvenance(doc.League, prov, out); err != nil {
			return nil, err
		}
		return out, w.updateManifest(ctx, doc, out, now)
	}

	data, err := doc.marshal()
	if err != nil {
		return nil, errors.WrapParse("json", out.Latest, err)
	}
	summary, err := doc.summary().marshal()
	if err != nil {
		return nil, errors.WrapParse("json", out.Summary, err)
	}

	out.Unified = UnifiedPath(w.dir, doc.League, now)
	for path, content := range map[string][]byte{
		out.Unified: data,
		out.Latest:  data,
		out.Summary: summary,
	} {
		if err := writeAtomic(path, content); err != nil {
			return nil, err
		}
	}

	if err := w.writeProvenance(doc.League, prov, out); err != nil {
		return nil, err
	}

	pruned, err := w.prune(doc.League)
	if err != nil {
		return nil, err
	}
	out.Pruned = pruned

	logger.Info().
		Str("path", out.Unified).
		Int("players", doc.PlayerCount).
		Int("pruned", len(pruned)).
		Msg("Wrote snapshot")

	return out, w.updateManifest(ctx, doc, out, now)
}

// writeProvenance replaces the league's provenance file when prov is non-nil
// and its content changed.
func (w *Writer) writeProvenance(league string, prov provenance.Map, out *Written) error {
	if prov == nil {
		return nil
	}
	path := ProvenancePath(w.dir, league)
	data, err := provenance.Marshal(&provenance.File{League: league, Provenance: prov})
	if err != nil {
		return errors.WrapParse("yaml", path, err)
	}
	if err := writeAtomic(path, data); err != nil {
		return err
	}
	out.Provenance = path
	return nil
}

// prune removes the oldest timestamped snapshots beyond retention.
func (w *Writer) prune(league string) ([]string, error) {
	pattern := timestampedGlob(w.dir, league)
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, errors.WrapIO("glob", pattern, err)
	}
	if len(files) <= w.retention {
		return nil, nil
	}
	sort.Strings(files)
	stale := files[:len(files)-w.retention]
	for _, f := range stale {
		if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
			return nil, errors.WrapIO("remove", f, err)
		}
	}
	return stale, nil
}

func (w *Writer) updateManifest(ctx context.Context, doc Document, out *Written, now time.Time) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	m, err := ReadManifest(w.dir)
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("league", doc.League).Msg("Manifest unreadable, starting a new one")
	}
	m.Retention = w.retention

	files, err := filepath.Glob(timestampedGlob(w.dir, doc.League))
	if err != nil {
		return errors.WrapIO("glob", w.dir, err)
	}
	sort.Strings(files)
	snaps := make([]string, 0, len(files))
	for _, f := range files {
		snaps = append(snaps, filepath.Base(f))
	}

	m.Leagues[doc.League] = LeagueRun{
		RunID:       out.RunID,
		RunAt:       now,
		Status:      doc.Status,
		PlayerCount: doc.PlayerCount,
		Unchanged:   out.Unchanged,
		Snapshots:   snaps,
	}
	return writeManifest(w.dir, m, now)
}

// writeAtomic replaces path with data through a temporary file. Identical
// content is left untouched.
func writeAtomic(path string, data []byte) error {
	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, data) { //nolint:gosec // output directory
		return nil
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.WrapIO("rename", path, err)
	}
	return nil
}
