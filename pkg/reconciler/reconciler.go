// Package reconciler merges a league's stat feed with the sports directory and
// the encyclopedia enrichment feed into one unified record per tracked player.
//
// A run is a pure function of its Input: it performs no I/O, keeps no state
// between runs and contains no clock or randomness, so identical inputs give
// identical output. The stat feed decides who is tracked and fixes the output
// order; the other feeds only ever add fields.
package reconciler

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agentstation/rostermap/pkg/constants"
	"github.com/agentstation/rostermap/pkg/errors"
	"github.com/agentstation/rostermap/pkg/logging"
	"github.com/agentstation/rostermap/pkg/players"
	"github.com/agentstation/rostermap/pkg/provenance"
	"github.com/agentstation/rostermap/pkg/teams"
)

// Reconciler reconciles one league's feeds.
type Reconciler interface {
	Reconcile(ctx context.Context, in Input) (*Result, error)
}

// Input is everything a run needs. Teams is this league's mapping; it is
// passed per run and never shared through package state.
type Input struct {
	League     string
	Teams      teams.Mapping
	Stats      []players.StatRecord
	Directory  []players.DirectoryRecord
	Enrichment []players.EnrichmentRecord

	// Rejected are records that could not be decoded from their feed. They
	// are reported as malformed and counted against the stat feed.
	Rejected []*errors.MalformedInputError
}

type reconciler struct {
	opts *options
}

// New creates a new Reconciler with options.
func New(opts ...Option) (Reconciler, error) {
	o, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &reconciler{opts: o}, nil
}

// Reconcile runs one league. Per-record problems are reported in the result's
// diagnostics; an error is returned only for an unusable Input or a canceled
// context.
func (r *reconciler) Reconcile(ctx context.Context, in Input) (*Result, error) {
	league := strings.TrimSpace(in.League)
	if league == "" {
		return nil, errors.NewValidationError("league", in.League, "cannot be empty")
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.NewLeagueError(league, err)
	}

	ctx = logging.WithOperation(ctx, "reconcile")
	logger := logging.FromContext(ctx).With().Str("league", league).Logger()
	res := NewResult(league)
	res.Stats.StatRecords = len(in.Stats)
	res.rejected(in.Rejected)

	if len(in.Stats) == 0 {
		res.finalize()
		if res.IsEmpty() {
			logger.Info().Msg("Stat feed empty, nothing to reconcile")
		} else {
			logDiagnostics(&logger, res)
		}
		return res, nil
	}

	tracker := provenance.NewTracker(r.opts.tracking)
	merge := newMerger(r.opts.authorities, tracker)

	valid := validate(in, res)
	dirIndex := newNameIndex(valid.directory, func(i int) string { return in.Directory[i].Name })
	enrIndex := newNameIndex(valid.enrichment, func(i int) string { return in.Enrichment[i].Name })

	// First pass: one directory attempt per stat record.
	stats := make([]players.StatRecord, len(valid.stats))
	dirMatches := make([]Match, len(valid.stats))
	claims := make(map[int][]int)
	for k, i := range valid.stats {
		stats[k] = trimmedStat(in.Stats[i])
		m := matchDirectory(dirIndex, in.Directory, stats[k], in.Teams)
		dirMatches[k] = m
		if m.Found() {
			claims[m.Index] = append(claims[m.Index], k)
		}
	}

	// A directory entry claimed by several stat records belongs to none of them.
	revoked := make([]bool, len(dirMatches))
	for k := range dirMatches {
		m := dirMatches[k]
		if !m.Found() || len(claims[m.Index]) < 2 {
			continue
		}
		res.Stats.DirectoryRevoked++
		res.addDiagnostic(Diagnostic{
			Kind:       DiagnosticRevoked,
			Feed:       constants.FeedDirectory,
			Index:      valid.stats[k],
			LeagueID:   stats[k].LeagueID,
			Name:       stats[k].Name,
			Candidates: []string{in.Directory[m.Index].DirectoryID},
			Message:    "directory record claimed by several stat records",
		})
		dirMatches[k] = noMatch(Ambiguous, m.Candidates)
		revoked[k] = true
	}

	// Second pass: enrichment lookup and merge, in stat feed order.
	for k, i := range valid.stats {
		stat := &stats[k]
		src := Sources{Stat: stat, Teams: in.Teams}

		dm := dirMatches[k]
		switch dm.Outcome {
		case Matched:
			src.Directory = &in.Directory[dm.Index]
			res.Stats.DirectoryMatched++
		case Ambiguous:
			if revoked[k] {
				break
			}
			res.Stats.DirectoryAmbiguous++
			res.addDiagnostic(Diagnostic{
				Kind:       DiagnosticAmbiguous,
				Feed:       constants.FeedDirectory,
				Index:      i,
				LeagueID:   stat.LeagueID,
				Name:       stat.Name,
				Candidates: directoryIDs(in.Directory, dm.Candidates),
				Message:    "several directory candidates, left unmatched",
				Err:        errors.ErrAmbiguousMatch,
			})
		case Missing:
			res.addDiagnostic(missing(constants.FeedDirectory, i, stat))
		}

		lookupName := stat.Name
		if src.Directory != nil {
			lookupName = src.Directory.Name
		}
		em := matchEnrichment(enrIndex, in.Enrichment, lookupName)
		switch em.Outcome {
		case Matched:
			src.Enrichment = &in.Enrichment[em.Index]
			res.Stats.EnrichmentMatched++
		case Ambiguous:
			res.Stats.EnrichmentAmbiguous++
			res.addDiagnostic(Diagnostic{
				Kind:       DiagnosticAmbiguous,
				Feed:       constants.FeedEnrichment,
				Index:      i,
				LeagueID:   stat.LeagueID,
				Name:       lookupName,
				Candidates: enrichmentNames(in.Enrichment, em.Candidates),
				Message:    "several enrichment records share this name, left unmatched",
				Err:        errors.ErrAmbiguousMatch,
			})
		case Missing:
			res.addDiagnostic(missing(constants.FeedEnrichment, i, stat))
		}

		p, conflicts := merge.Player(league, src)
		res.Stats.ConflictsResolved += conflicts
		if dm.Found() {
			res.Matches[p.ID] = dm
		}
		res.Players = append(res.Players, p)
	}

	res.Provenance = tracker.Map()
	res.finalize()
	logDiagnostics(&logger, res)
	return res, nil
}

func missing(feed string, index int, stat *players.StatRecord) Diagnostic {
	return Diagnostic{
		Kind:     DiagnosticMissing,
		Feed:     feed,
		Index:    index,
		LeagueID: stat.LeagueID,
		Name:     stat.Name,
		Message:  "no " + feed + " candidate",
	}
}

func directoryIDs(dir []players.DirectoryRecord, idx []int) []string {
	out := make([]string, 0, len(idx))
	for _, i := range idx {
		out = append(out, dir[i].DirectoryID)
	}
	return out
}

func enrichmentNames(enr []players.EnrichmentRecord, idx []int) []string {
	out := make([]string, 0, len(idx))
	for _, i := range idx {
		out = append(out, enr[i].Name)
	}
	return out
}

func logDiagnostics(logger *zerolog.Logger, res *Result) {
	for _, d := range res.Diagnostics {
		var ev *zerolog.Event
		switch d.Kind {
		case DiagnosticMalformed:
			ev = logger.Warn().Err(d.Err)
		case DiagnosticAmbiguous, DiagnosticRevoked:
			ev = logger.Info().Strs("candidates", d.Candidates)
		default:
			ev = logger.Debug()
		}
		ev.Str("kind", string(d.Kind)).
			Str("feed", d.Feed).
			Int("index", d.Index).
			Str("league_id", d.LeagueID).
			Str("name", d.Name).
			Msg(d.Message)
	}

	logger.Info().
		Str("status", string(res.Status)).
		Int("stat_records", res.Stats.StatRecords).
		Int("players", res.Stats.Players).
		Int("directory_matched", res.Stats.DirectoryMatched).
		Int("enrichment_matched", res.Stats.EnrichmentMatched).
		Int("malformed", res.Stats.Malformed).
		Msg("Reconciled league")
}
