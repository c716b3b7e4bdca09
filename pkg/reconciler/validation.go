package reconciler

import (
	"strings"

	"github.com/agentstation/rostermap/pkg/constants"
	"github.com/agentstation/rostermap/pkg/errors"
	"github.com/agentstation/rostermap/pkg/names"
	"github.com/agentstation/rostermap/pkg/players"
)

// validated holds the indexes of records that may take part in a run.
type validated struct {
	stats      []int
	directory  []int
	enrichment []int
}

// validate drops records lacking an identity field, and later records that
// repeat an identifier already seen in the same feed.
func validate(in Input, res *Result) validated {
	var v validated

	seenLeague := make(map[string]bool, len(in.Stats))
	for i, rec := range in.Stats {
		id := strings.TrimSpace(rec.LeagueID)
		switch {
		case id == "":
			res.malformed(constants.FeedStats, i, "", rec.Name, "league_id", "missing")
		case names.Parse(rec.Name).Empty():
			res.malformed(constants.FeedStats, i, id, rec.Name, "name", "missing")
		case seenLeague[id]:
			res.malformed(constants.FeedStats, i, id, rec.Name, "league_id", "duplicate")
		default:
			seenLeague[id] = true
			v.stats = append(v.stats, i)
		}
	}

	seenDirectory := make(map[string]bool, len(in.Directory))
	for i, rec := range in.Directory {
		id := strings.TrimSpace(rec.DirectoryID)
		switch {
		case id == "":
			res.malformed(constants.FeedDirectory, i, "", rec.Name, "directory_id", "missing")
		case names.Parse(rec.Name).Empty():
			res.malformed(constants.FeedDirectory, i, "", rec.Name, "name", "missing")
		case seenDirectory[id]:
			res.malformed(constants.FeedDirectory, i, "", rec.Name, "directory_id", "duplicate")
		default:
			seenDirectory[id] = true
			v.directory = append(v.directory, i)
		}
	}

	for i, rec := range in.Enrichment {
		if names.Parse(rec.Name).Empty() {
			res.malformed(constants.FeedEnrichment, i, "", rec.Name, "name", "missing")
			continue
		}
		v.enrichment = append(v.enrichment, i)
	}

	return v
}

// rejected records decode failures reported by the feed loader.
func (r *Result) rejected(errs []*errors.MalformedInputError) {
	for _, err := range errs {
		if err == nil {
			continue
		}
		if err.Feed == constants.FeedStats {
			r.Stats.StatRecords++
		}
		r.Stats.Malformed++
		r.addDiagnostic(Diagnostic{
			Kind:    DiagnosticMalformed,
			Feed:    err.Feed,
			Index:   err.Index,
			Message: err.Error(),
			Err:     err,
		})
	}
}

func (r *Result) malformed(feed string, index int, leagueID, name, field, reason string) {
	err := errors.NewMalformedInputError(feed, index, field, reason)
	r.Stats.Malformed++
	r.addDiagnostic(Diagnostic{
		Kind:     DiagnosticMalformed,
		Feed:     feed,
		Index:    index,
		LeagueID: leagueID,
		Name:     name,
		Message:  err.Error(),
		Err:      err,
	})
}

// trimmedStat returns rec with identity fields trimmed.
func trimmedStat(rec players.StatRecord) players.StatRecord {
	rec.LeagueID = strings.TrimSpace(rec.LeagueID)
	rec.Name = strings.TrimSpace(rec.Name)
	rec.Team = strings.TrimSpace(rec.Team)
	return rec
}
