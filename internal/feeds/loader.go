package feeds

import (
	"context"

	"github.com/agentstation/rostermap/internal/snapshots"
	"github.com/agentstation/rostermap/pkg/constants"
	"github.com/agentstation/rostermap/pkg/errors"
	"github.com/agentstation/rostermap/pkg/leagues"
	"github.com/agentstation/rostermap/pkg/logging"
	"github.com/agentstation/rostermap/pkg/players"
	"github.com/agentstation/rostermap/pkg/reconciler"
)

// Loader finds and decodes a league's feeds in a data directory.
type Loader struct {
	dir string
}

// NewLoader creates a loader reading from dir.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// Set is one league's decoded feeds.
type Set struct {
	League     *leagues.League
	Stats      *Feed[players.StatRecord]
	Directory  *Feed[players.DirectoryRecord]
	Enrichment *Feed[players.EnrichmentRecord]
}

// Load reads the latest file of each of the league's feeds. The stat feed is
// required; a missing or unreadable directory or enrichment feed is logged
// and treated as empty.
func (l *Loader) Load(ctx context.Context, league *leagues.League) (*Set, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger := logging.FromContext(ctx).With().Str("league", league.Code).Logger()

	set := &Set{
		League:     league,
		Directory:  &Feed[players.DirectoryRecord]{},
		Enrichment: &Feed[players.EnrichmentRecord]{},
	}

	path, err := snapshots.Latest(l.dir, league.Feeds.Stats)
	if err != nil {
		return nil, errors.WrapFeed(league.Code, constants.FeedStats, "", err)
	}
	set.Stats, err = LoadStats(path, league.Aliases(constants.FeedStats))
	if err != nil {
		return nil, errors.WrapFeed(league.Code, constants.FeedStats, path, err)
	}

	if p := league.Feeds.Directory; p != "" {
		if path, err := snapshots.Latest(l.dir, p); err != nil {
			logger.Warn().Err(err).Str("feed", constants.FeedDirectory).Msg("Feed unavailable, continuing without it")
		} else if f, err := LoadDirectory(path, league.Aliases(constants.FeedDirectory)); err != nil {
			logger.Warn().Err(err).Str("feed", constants.FeedDirectory).Msg("Feed unreadable, continuing without it")
		} else {
			set.Directory = f
		}
	}

	if p := league.Feeds.Enrichment; p != "" {
		if path, err := snapshots.Latest(l.dir, p); err != nil {
			logger.Warn().Err(err).Str("feed", constants.FeedEnrichment).Msg("Feed unavailable, continuing without it")
		} else if f, err := LoadEnrichment(path, league.Aliases(constants.FeedEnrichment)); err != nil {
			logger.Warn().Err(err).Str("feed", constants.FeedEnrichment).Msg("Feed unreadable, continuing without it")
		} else {
			set.Enrichment = f
		}
	}

	set.Stats.logDropped(&logger, constants.FeedStats)
	set.Directory.logDropped(&logger, constants.FeedDirectory)
	set.Enrichment.logDropped(&logger, constants.FeedEnrichment)

	logger.Debug().
		Str("stats", set.Stats.Path).
		Int("stat_records", set.Stats.Len()).
		Str("directory", set.Directory.Path).
		Int("directory_records", set.Directory.Len()).
		Str("enrichment", set.Enrichment.Path).
		Int("enrichment_records", set.Enrichment.Len()).
		Msg("Loaded feeds")

	return set, nil
}

// Skipped returns every record dropped while decoding, stat feed first.
func (s *Set) Skipped() []*errors.MalformedInputError {
	var out []*errors.MalformedInputError
	out = append(out, s.Stats.Skipped...)
	out = append(out, s.Directory.Skipped...)
	out = append(out, s.Enrichment.Skipped...)
	return out
}

// Input builds the reconciliation input for the set.
func (s *Set) Input() reconciler.Input {
	return reconciler.Input{
		League:     s.League.Code,
		Teams:      s.League.TeamMapping(),
		Stats:      s.Stats.Records,
		Directory:  s.Directory.Records,
		Enrichment: s.Enrichment.Records,
		Rejected:   s.Skipped(),
	}
}
