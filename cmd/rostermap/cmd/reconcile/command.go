// Package reconcile implements the reconcile command: load each league's
// feeds, reconcile them and write the league's snapshots.
package reconcile

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/agentstation/rostermap/internal/appcontext"
	"github.com/agentstation/rostermap/internal/cmd/output"
	"github.com/agentstation/rostermap/internal/snapshots"
	"github.com/agentstation/rostermap/pkg/errors"
	"github.com/agentstation/rostermap/pkg/leagues"
	"github.com/agentstation/rostermap/pkg/logging"
	"github.com/agentstation/rostermap/pkg/reconciler"
)

// StatusFailed marks a league whose run could not complete.
const StatusFailed = "failed"

// Options control a reconcile run.
type Options struct {
	All    bool
	DryRun bool
}

// Report summarizes one league's run.
type Report struct {
	League            string `json:"league" yaml:"league"`
	Name              string `json:"name" yaml:"name"`
	Status            string `json:"status" yaml:"status"`
	StatRecords       int    `json:"stat_records" yaml:"stat_records"`
	Players           int    `json:"players" yaml:"players"`
	DirectoryMatched  int    `json:"directory_matched" yaml:"directory_matched"`
	EnrichmentMatched int    `json:"enrichment_matched" yaml:"enrichment_matched"`
	Ambiguous         int    `json:"ambiguous" yaml:"ambiguous"`
	Malformed         int    `json:"malformed" yaml:"malformed"`
	ConflictsResolved int    `json:"conflicts_resolved" yaml:"conflicts_resolved"`
	Snapshot          string `json:"snapshot,omitempty" yaml:"snapshot,omitempty"`
	SnapshotUnchanged bool   `json:"snapshot_unchanged,omitempty" yaml:"snapshot_unchanged,omitempty"`
	Error             string `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewCommand creates the reconcile command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var opts Options

	cmd := &cobra.Command{
		Use:     "reconcile [league...]",
		GroupID: "core",
		Short:   "Merge league feeds into unified player snapshots",
		Long: `Reconcile loads the latest stat, directory and enrichment feeds of each
league, merges them into one record per player tracked by the stat feed and
writes the league's unified snapshot, summary and provenance.

Leagues run in parallel. A league whose stat feed is missing fails on its
own; the others still complete.`,
		Example: `  rostermap reconcile acb bsl          # Reconcile two leagues
  rostermap reconcile --all            # Reconcile every configured league
  rostermap reconcile acb --dry-run    # Report without writing snapshots`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !opts.All {
				return fmt.Errorf("name at least one league or pass --all")
			}
			reports, runErr := Run(cmd.Context(), app, args, opts)
			if reports != nil {
				if err := printReports(cmd.OutOrStdout(), app, reports); err != nil {
					return err
				}
			}
			return runErr
		},
	}

	cmd.Flags().BoolVar(&opts.All, "all", false, "reconcile every configured league")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "reconcile without writing snapshots")

	return cmd
}

// Run reconciles the named leagues, or all of them when opts.All is set.
// Reports are returned in the order the leagues were selected, together with
// an error if any league failed.
func Run(ctx context.Context, app appcontext.Interface, codes []string, opts Options) ([]Report, error) {
	cfg, err := app.Leagues()
	if err != nil {
		return nil, err
	}
	selected, err := selectLeagues(cfg, codes, opts.All)
	if err != nil {
		return nil, err
	}
	rec, err := app.Reconciler()
	if err != nil {
		return nil, err
	}

	ctx = logging.WithLogger(ctx, app.Logger())
	if logging.RunID(ctx) == "" {
		ctx = logging.WithRunID(ctx, uuid.NewString())
	}

	reports := make([]Report, len(selected))
	var g errgroup.Group
	g.SetLimit(app.Parallelism())
	for i, league := range selected {
		g.Go(func() error {
			lctx := logging.WithLeague(ctx, league.Code)
			reports[i] = runLeague(lctx, app, rec, league, opts.DryRun)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range reports {
		if r.Status == StatusFailed {
			failed++
		}
	}
	if failed > 0 {
		return reports, fmt.Errorf("%d of %d leagues failed", failed, len(reports))
	}
	return reports, nil
}

func selectLeagues(cfg *leagues.Config, codes []string, all bool) ([]*leagues.League, error) {
	if all {
		out := make([]*leagues.League, 0, len(cfg.Leagues))
		for i := range cfg.Leagues {
			out = append(out, &cfg.Leagues[i])
		}
		return out, nil
	}
	seen := make(map[string]bool, len(codes))
	out := make([]*leagues.League, 0, len(codes))
	for _, code := range codes {
		l, err := cfg.Find(code)
		if err != nil {
			return nil, err
		}
		if seen[l.Code] {
			continue
		}
		seen[l.Code] = true
		out = append(out, l)
	}
	return out, nil
}

func runLeague(ctx context.Context, app appcontext.Interface, rec reconciler.Reconciler, league *leagues.League, dryRun bool) Report {
	logger := logging.FromContext(ctx)
	report := Report{League: league.Code, Name: league.Name}

	fail := func(err error) Report {
		report.Status = StatusFailed
		report.Error = err.Error()
		if errors.IsCanceled(err) {
			logger.Warn().Err(err).Msg("League canceled")
		} else {
			logger.Error().Err(err).Msg("League failed")
		}
		return report
	}

	set, err := app.Loader().Load(ctx, league)
	if err != nil {
		return fail(err)
	}
	res, err := rec.Reconcile(ctx, set.Input())
	if err != nil {
		return fail(err)
	}

	report.Status = string(res.Status)
	report.StatRecords = res.Stats.StatRecords
	report.Players = res.Stats.Players
	report.DirectoryMatched = res.Stats.DirectoryMatched
	report.EnrichmentMatched = res.Stats.EnrichmentMatched
	report.Ambiguous = res.Stats.DirectoryAmbiguous + res.Stats.EnrichmentAmbiguous
	report.Malformed = res.Stats.Malformed
	report.ConflictsResolved = res.Stats.ConflictsResolved

	// An empty stat feed keeps the previous snapshot in place.
	if dryRun || res.IsEmpty() {
		return report
	}

	doc := snapshots.Document{
		League:     league.Code,
		LeagueName: league.Name,
		Season:     league.Season,
		Status:     string(res.Status),
		Players:    res.Players,
	}
	written, err := app.Writer().WriteLeague(ctx, doc, res.Provenance)
	if err != nil {
		return fail(errors.NewLeagueError(league.Code, err))
	}
	report.Snapshot = written.Latest
	report.SnapshotUnchanged = written.Unchanged
	logger.Debug().Str("run_id", written.RunID).Msg("Snapshot recorded in manifest")
	return report
}

func printReports(w io.Writer, app appcontext.Interface, reports []Report) error {
	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		note := r.Snapshot
		if r.SnapshotUnchanged {
			note += " (unchanged)"
		}
		if r.Error != "" {
			note = r.Error
		}
		rows = append(rows, []string{
			r.League,
			r.Status,
			strconv.Itoa(r.Players),
			strconv.Itoa(r.DirectoryMatched),
			strconv.Itoa(r.EnrichmentMatched),
			strconv.Itoa(r.Ambiguous),
			strconv.Itoa(r.Malformed),
			note,
			strconv.Itoa(r.StatRecords),
			strconv.Itoa(r.ConflictsResolved),
		})
	}
	data := output.Data{
		Headers: []string{"League", "Status", "Players", "Directory", "Enrichment", "Ambiguous", "Malformed", "Snapshot", "Stat Records", "Conflicts"},
		Rows:    rows,
		ColumnAlignment: []output.Align{
			output.AlignLeft, output.AlignLeft,
			output.AlignRight, output.AlignRight, output.AlignRight, output.AlignRight, output.AlignRight,
			output.AlignLeft,
			output.AlignRight, output.AlignRight,
		},
		WideFrom: 8,
	}
	return output.Print(w, output.DetectFormat(app.OutputFormat()), data, reports)
}
