package reconciler

import (
	"fmt"

	"github.com/agentstation/rostermap/pkg/players"
	"github.com/agentstation/rostermap/pkg/provenance"
)

// Status tells a caller how a run went without inspecting record counts.
type Status string

const (
	// StatusOK means every stat record produced a player.
	StatusOK Status = "ok"
	// StatusPartial means some stat records were excluded as malformed.
	StatusPartial Status = "partial"
	// StatusEmpty means the stat feed had no records. It is not a failure.
	StatusEmpty Status = "empty"
)

// DiagnosticKind classifies a per-record diagnostic.
type DiagnosticKind string

const (
	// DiagnosticMalformed marks a record excluded for a missing or duplicate identity field.
	DiagnosticMalformed DiagnosticKind = "malformed"
	// DiagnosticAmbiguous marks a record with several equally good candidates, left unmatched.
	DiagnosticAmbiguous DiagnosticKind = "ambiguous"
	// DiagnosticMissing marks a record with no candidate at all.
	DiagnosticMissing DiagnosticKind = "missing"
	// DiagnosticRevoked marks a match withdrawn because another stat record claimed the same directory entry.
	DiagnosticRevoked DiagnosticKind = "revoked"
)

// Diagnostic describes something that happened to one record during a run.
type Diagnostic struct {
	Kind       DiagnosticKind `json:"kind" yaml:"kind"`
	Feed       string         `json:"feed" yaml:"feed"`
	Index      int            `json:"index" yaml:"index"`
	LeagueID   string         `json:"league_id,omitempty" yaml:"league_id,omitempty"`
	Name       string         `json:"name,omitempty" yaml:"name,omitempty"`
	Candidates []string       `json:"candidates,omitempty" yaml:"candidates,omitempty"`
	Message    string         `json:"message" yaml:"message"`
	Err        error          `json:"-" yaml:"-"`
}

// String implements fmt.Stringer.
func (d Diagnostic) String() string {
	if d.LeagueID != "" {
		return fmt.Sprintf("%s %s #%d (%s): %s", d.Kind, d.Feed, d.Index, d.LeagueID, d.Message)
	}
	return fmt.Sprintf("%s %s #%d: %s", d.Kind, d.Feed, d.Index, d.Message)
}

// Statistics counts what happened during a run.
type Statistics struct {
	StatRecords         int `json:"stat_records" yaml:"stat_records"`
	Players             int `json:"players" yaml:"players"`
	Malformed           int `json:"malformed" yaml:"malformed"`
	DirectoryMatched    int `json:"directory_matched" yaml:"directory_matched"`
	DirectoryAmbiguous  int `json:"directory_ambiguous" yaml:"directory_ambiguous"`
	DirectoryRevoked    int `json:"directory_revoked" yaml:"directory_revoked"`
	EnrichmentMatched   int `json:"enrichment_matched" yaml:"enrichment_matched"`
	EnrichmentAmbiguous int `json:"enrichment_ambiguous" yaml:"enrichment_ambiguous"`
	ConflictsResolved   int `json:"conflicts_resolved" yaml:"conflicts_resolved"`
}

// Result is the outcome of reconciling one league.
type Result struct {
	League      string
	Status      Status
	Players     []players.Player
	Matches     map[string]Match // by player id, directory matches only
	Diagnostics []Diagnostic
	Stats       Statistics
	Provenance  provenance.Map
}

// NewResult creates an empty result for league.
func NewResult(league string) *Result {
	return &Result{
		League:      league,
		Status:      StatusOK,
		Players:     []players.Player{},
		Matches:     make(map[string]Match),
		Diagnostics: []Diagnostic{},
	}
}

// IsEmpty reports whether the stat feed had nothing to reconcile.
func (r *Result) IsEmpty() bool {
	return r.Status == StatusEmpty
}

// DiagnosticsOf returns the diagnostics of one kind, in run order.
func (r *Result) DiagnosticsOf(kind DiagnosticKind) []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// Summary returns a one-line human-readable summary.
func (r *Result) Summary() string {
	if r.Status == StatusEmpty {
		return fmt.Sprintf("%s: stat feed empty, nothing reconciled", r.League)
	}
	return fmt.Sprintf("%s: %d players (%d directory, %d enrichment matches, %d malformed)",
		r.League, r.Stats.Players, r.Stats.DirectoryMatched, r.Stats.EnrichmentMatched, r.Stats.Malformed)
}

func (r *Result) addDiagnostic(d Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)
}

// finalize derives the status from the collected counts.
func (r *Result) finalize() {
	r.Stats.Players = len(r.Players)
	switch {
	case r.Stats.StatRecords == 0:
		r.Status = StatusEmpty
	case r.Stats.Players < r.Stats.StatRecords:
		r.Status = StatusPartial
	default:
		r.Status = StatusOK
	}
}
