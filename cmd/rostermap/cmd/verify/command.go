// Package verify implements the verify command, which reads each league's
// latest unified snapshot back and reports its coverage.
package verify

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/agentstation/rostermap/internal/appcontext"
	"github.com/agentstation/rostermap/internal/cmd/output"
	"github.com/agentstation/rostermap/internal/snapshots"
	"github.com/agentstation/rostermap/pkg/errors"
	"github.com/agentstation/rostermap/pkg/leagues"
	"github.com/agentstation/rostermap/pkg/players"
)

// StatusMissing marks a league without a readable snapshot.
const StatusMissing = "missing"

// Report is the coverage of one league's latest snapshot.
type Report struct {
	League     string           `json:"league" yaml:"league"`
	Name       string           `json:"name" yaml:"name"`
	Snapshot   string           `json:"snapshot" yaml:"snapshot"`
	ExportDate string           `json:"export_date,omitempty" yaml:"export_date,omitempty"`
	Status     string           `json:"status" yaml:"status"`
	Summary    *players.Summary `json:"summary,omitempty" yaml:"summary,omitempty"`
	Error      string           `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewCommand creates the verify command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "verify [league...]",
		GroupID: "core",
		Short:   "Check the latest snapshot of each league",
		Long: `Verify reads the latest unified snapshot of each named league, or of every
configured league, and reports how many players it holds and how many of them
carry stats, hometowns, colleges and game logs.

Exits non-zero when any league has no readable snapshot.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			reports, runErr := Run(app, args)
			if reports != nil {
				if err := Print(cmd.OutOrStdout(), output.DetectFormat(app.OutputFormat()), reports); err != nil {
					return err
				}
			}
			return runErr
		},
	}
}

// Run verifies the named leagues, or all configured leagues when codes is
// empty.
func Run(app appcontext.Interface, codes []string) ([]Report, error) {
	cfg, err := app.Leagues()
	if err != nil {
		return nil, err
	}
	selected := make([]*leagues.League, 0, len(cfg.Leagues))
	if len(codes) == 0 {
		for i := range cfg.Leagues {
			selected = append(selected, &cfg.Leagues[i])
		}
	}
	for _, code := range codes {
		l, err := cfg.Find(code)
		if err != nil {
			return nil, err
		}
		selected = append(selected, l)
	}

	logger := app.Logger()
	reports := make([]Report, 0, len(selected))
	missing := 0
	for _, l := range selected {
		r := Report{
			League:   l.Code,
			Name:     l.Name,
			Snapshot: snapshots.LatestPath(app.OutputDir(), l.Code),
		}
		doc, err := snapshots.ReadDocument(r.Snapshot)
		if err != nil {
			missing++
			r.Status = StatusMissing
			r.Error = err.Error()
			if !errors.IsNotFound(err) {
				logger.Warn().Err(err).Str("league", l.Code).Msg("Snapshot unreadable")
			}
			reports = append(reports, r)
			continue
		}
		sum := players.Summarize(doc.Players)
		r.ExportDate = doc.ExportDate
		r.Status = doc.Status
		r.Summary = &sum
		reports = append(reports, r)
	}

	if missing > 0 {
		return reports, fmt.Errorf("%d of %d leagues have no snapshot", missing, len(reports))
	}
	return reports, nil
}

// Print writes reports in format.
func Print(w io.Writer, format output.Format, reports []Report) error {
	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		s := r.Summary
		if s == nil {
			rows = append(rows, []string{r.League, r.Status, "-", "-", "-", "-", "-", "-", "-", "-"})
			continue
		}
		rows = append(rows, []string{
			r.League,
			r.Status,
			strconv.Itoa(s.Players),
			strconv.Itoa(s.Teams),
			coverage(s.WithStats, s.Players),
			coverage(s.WithHometown, s.Players),
			coverage(s.WithCollege, s.Players),
			strconv.Itoa(s.Games),
			fmt.Sprintf("%d-%d", s.Wins, s.Losses),
			lastGame(s.LastGame),
		})
	}
	data := output.Data{
		Headers: []string{"League", "Status", "Players", "Teams", "Stats", "Hometown", "College", "Games", "W-L", "Last Game"},
		Rows:    rows,
		ColumnAlignment: []output.Align{
			output.AlignLeft, output.AlignLeft,
			output.AlignRight, output.AlignRight, output.AlignRight, output.AlignRight,
			output.AlignRight, output.AlignRight, output.AlignRight,
			output.AlignLeft,
		},
	}
	return output.Print(w, format, data, reports)
}

// coverage formats n of total with a percentage.
func coverage(n, total int) string {
	if total == 0 {
		return "0"
	}
	return fmt.Sprintf("%d (%.0f%%)", n, float64(n)*100/float64(total))
}

func lastGame(date string) string {
	if date == "" {
		return "-"
	}
	return date
}
