package reconciler

import (
	"github.com/agentstation/rostermap/pkg/names"
	"github.com/agentstation/rostermap/pkg/players"
	"github.com/agentstation/rostermap/pkg/teams"
)

// Outcome of a single match attempt.
type Outcome string

const (
	// Matched means exactly one candidate survived.
	Matched Outcome = "matched"
	// Ambiguous means several candidates survived every tie-break.
	Ambiguous Outcome = "ambiguous"
	// Missing means no candidate passed the name rule.
	Missing Outcome = "missing"
)

// Match is the result of looking a stat record up in a secondary feed.
// Index points into that feed and is -1 unless Outcome is Matched.
type Match struct {
	Outcome    Outcome    `json:"outcome"`
	Index      int        `json:"index"`
	Kind       names.Kind `json:"kind"`
	Confidence float64    `json:"confidence"`
	TeamAgrees bool       `json:"team_agrees"`
	// Candidates are the feed indexes that passed the name rule.
	Candidates []int `json:"candidates,omitempty"`
}

// Found reports whether the match identified a single record.
func (m Match) Found() bool {
	return m.Outcome == Matched
}

func noMatch(outcome Outcome, candidates []int) Match {
	return Match{Outcome: outcome, Index: -1, Candidates: candidates}
}

// nameIndex groups parsed names of a feed by surname key.
type nameIndex struct {
	parsed    map[int]names.Name
	bySurname map[string][]int
}

func newNameIndex(valid []int, name func(i int) string) *nameIndex {
	ix := &nameIndex{
		parsed:    make(map[int]names.Name, len(valid)),
		bySurname: make(map[string][]int),
	}
	for _, i := range valid {
		n := names.Parse(name(i))
		ix.parsed[i] = n
		ix.bySurname[n.Surname()] = append(ix.bySurname[n.Surname()], i)
	}
	return ix
}

// candidates returns, in feed order, the indexes whose names pass the rule
// against n, together with the kind of each match.
func (ix *nameIndex) candidates(n names.Name) ([]int, map[int]names.Kind) {
	var out []int
	kinds := make(map[int]names.Kind)
	for _, i := range ix.bySurname[n.Surname()] {
		if k := n.Compare(ix.parsed[i]); k != names.NoMatch {
			out = append(out, i)
			kinds[i] = k
		}
	}
	return out, kinds
}

// matchDirectory finds the directory record for a stat record. Several
// candidates are narrowed to those whose team resolves to the stat record's
// team; anything other than exactly one survivor is no match.
func matchDirectory(ix *nameIndex, dir []players.DirectoryRecord, stat players.StatRecord, mapping teams.Mapping) Match {
	n := names.Parse(stat.Name)
	cands, kinds := ix.candidates(n)

	pick := -1
	switch len(cands) {
	case 0:
		return noMatch(Missing, nil)
	case 1:
		pick = cands[0]
	default:
		var sameTeam []int
		for _, i := range cands {
			if mapping.Equal(stat.Team, dir[i].Team) {
				sameTeam = append(sameTeam, i)
			}
		}
		if len(sameTeam) != 1 {
			return noMatch(Ambiguous, cands)
		}
		pick = sameTeam[0]
	}

	return Match{
		Outcome:    Matched,
		Index:      pick,
		Kind:       kinds[pick],
		Confidence: names.Similarity(stat.Name, dir[pick].Name),
		TeamAgrees: mapping.Equal(stat.Team, dir[pick].Team),
		Candidates: cands,
	}
}

// matchEnrichment finds the enrichment record for a player by name alone.
// Several candidates are narrowed to exact name matches; true namesakes stay
// unmatched.
func matchEnrichment(ix *nameIndex, enr []players.EnrichmentRecord, name string) Match {
	n := names.Parse(name)
	cands, kinds := ix.candidates(n)

	pick := -1
	switch len(cands) {
	case 0:
		return noMatch(Missing, nil)
	case 1:
		pick = cands[0]
	default:
		var exact []int
		for _, i := range cands {
			if kinds[i] == names.Exact {
				exact = append(exact, i)
			}
		}
		if len(exact) != 1 {
			return noMatch(Ambiguous, cands)
		}
		pick = exact[0]
	}

	return Match{
		Outcome:    Matched,
		Index:      pick,
		Kind:       kinds[pick],
		Confidence: names.Similarity(name, enr[pick].Name),
		Candidates: cands,
	}
}
