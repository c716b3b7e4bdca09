// Package leagues implements the leagues command.
package leagues

import (
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/rostermap/internal/appcontext"
	"github.com/agentstation/rostermap/internal/cmd/output"
	"github.com/agentstation/rostermap/pkg/constants"
	"github.com/agentstation/rostermap/pkg/leagues"
)

// NewCommand creates the leagues command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "leagues [code]",
		GroupID: "management",
		Short:   "List configured leagues",
		Long: `Leagues lists the leagues rostermap knows about, with the feed file
patterns it reads for each one. Pass a league code to show that league's
team aliases and field aliases.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Leagues()
			if err != nil {
				return err
			}
			format := output.DetectFormat(app.OutputFormat())
			if len(args) == 1 {
				league, err := cfg.Find(args[0])
				if err != nil {
					return err
				}
				return PrintLeague(cmd.OutOrStdout(), format, league)
			}
			return PrintLeagues(cmd.OutOrStdout(), format, cfg.Leagues)
		},
	}
}

// PrintLeagues writes the league list in format.
func PrintLeagues(w io.Writer, format output.Format, list []leagues.League) error {
	rows := make([][]string, 0, len(list))
	for _, l := range list {
		rows = append(rows, []string{
			l.Code,
			l.Name,
			l.Country,
			l.Season,
			l.Feeds.Stats,
			strconv.Itoa(len(l.Teams)),
		})
	}
	data := output.Data{
		Headers: []string{"Code", "Name", "Country", "Season", "Stats Feed", "Team Aliases"},
		Rows:    rows,
		ColumnAlignment: []output.Align{
			output.AlignLeft, output.AlignLeft, output.AlignLeft, output.AlignLeft, output.AlignLeft,
			output.AlignRight,
		},
	}
	return output.Print(w, format, data, list)
}

// PrintLeague writes one league's details in format.
func PrintLeague(w io.Writer, format output.Format, l *leagues.League) error {
	rows := [][]string{
		{"Code", l.Code},
		{"Name", l.Name},
		{"Country", l.Country},
		{"Season", l.Season},
		{"Stats feed", l.Feeds.Stats},
		{"Directory feed", orNone(l.Feeds.Directory)},
		{"Enrichment feed", orNone(l.Feeds.Enrichment)},
	}
	for _, a := range l.Teams {
		rows = append(rows, []string{"Team alias", a.From + " → " + a.To})
	}
	for _, feed := range []string{constants.FeedStats, constants.FeedDirectory, constants.FeedEnrichment} {
		aliases := l.Aliases(feed)
		for _, field := range aliases.Keys() {
			rows = append(rows, []string{"Field alias (" + feed + ")", field + ": " + strings.Join(aliases[field], ", ")})
		}
	}
	data := output.Data{
		Headers: []string{"Field", "Value"},
		Rows:    rows,
	}
	return output.Print(w, format, data, l)
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
