// Package authority decides which feed a unified player field is taken from.
// Each field lists the feeds allowed to supply it with a priority; the merger
// walks them from highest to lowest priority and keeps the first value present.
package authority

import (
	"path/filepath"
	"sort"
	"strings"
)

// Source names a feed that can supply field values.
type Source string

// Feeds taking part in a reconciliation run.
const (
	Stats      Source = "stats"
	Directory  Source = "directory"
	Enrichment Source = "enrichment"
)

// String returns the source name.
func (s Source) String() string {
	return string(s)
}

// Authority determines which source is authoritative for each field
type Authority interface {
	// Find returns the highest priority authority for a field
	Find(fieldPath string) *Field

	// Ranked returns every authority for a field, highest priority first
	Ranked(fieldPath string) []Field

	// List returns all configured authorities
	List() []Field
}

// Field defines source priority for a specific field
type Field struct {
	Path     string `json:"path" yaml:"path"`         // e.g. "height_cm", "hometown_*", "stats.*"
	Source   Source `json:"source" yaml:"source"`     // Which source may supply it
	Priority int    `json:"priority" yaml:"priority"` // Higher wins
}

type authorities struct {
	fields []Field
}

// New creates an Authority from fields, or from the defaults when none are given.
func New(fields ...Field) Authority {
	if len(fields) == 0 {
		fields = Defaults()
	}
	return &authorities{fields: append([]Field(nil), fields...)}
}

// Find returns the highest priority authority for a field
func (a *authorities) Find(fieldPath string) *Field {
	return ByField(fieldPath, a.fields)
}

// Ranked returns every authority whose pattern matches fieldPath, ordered by
// priority, then pattern specificity, then declaration order. A source
// appears at most once.
func (a *authorities) Ranked(fieldPath string) []Field {
	var matched []Field
	for _, f := range a.fields {
		if MatchesPattern(fieldPath, f.Path) {
			matched = append(matched, f)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Priority != matched[j].Priority {
			return matched[i].Priority > matched[j].Priority
		}
		return len(matched[i].Path) > len(matched[j].Path)
	})

	seen := make(map[Source]bool, len(matched))
	ranked := matched[:0]
	for _, f := range matched {
		if seen[f.Source] {
			continue
		}
		seen[f.Source] = true
		ranked = append(ranked, f)
	}
	return ranked
}

// List returns all configured authorities
func (a *authorities) List() []Field {
	return append([]Field(nil), a.fields...)
}

// ByField returns the highest priority authority for a given field path
func ByField(fieldPath string, fields []Field) *Field {
	var bestMatch *Field
	var bestPriority int
	var bestMatchLength int

	for i, f := range fields {
		if !MatchesPattern(fieldPath, f.Path) {
			continue
		}
		// Prioritize by: 1) priority, 2) pattern specificity (length), 3) order
		patternLength := len(f.Path)
		if bestMatch == nil || f.Priority > bestPriority ||
			(f.Priority == bestPriority && patternLength > bestMatchLength) {
			bestMatch = &fields[i]
			bestPriority = f.Priority
			bestMatchLength = patternLength
		}
	}

	return bestMatch
}

// MatchesPattern checks if a field path matches a pattern (supports * wildcards)
func MatchesPattern(fieldPath, pattern string) bool {
	if fieldPath == pattern {
		return true
	}

	if prefix, ok := strings.CutSuffix(pattern, "*"); ok && !strings.ContainsAny(prefix, "*?[") {
		return strings.HasPrefix(fieldPath, prefix)
	}

	matched, err := filepath.Match(pattern, fieldPath)
	if err != nil {
		return false
	}
	return matched
}

// FilterBySource returns only the authorities for a specific source
func FilterBySource(fields []Field, source Source) []Field {
	var filtered []Field
	for _, f := range fields {
		if f.Source == source {
			filtered = append(filtered, f)
		}
	}
	return filtered
}

// Missing returns the paths that source is not an authority for.
func Missing(a Authority, source Source, paths ...string) []string {
	var missing []string
	for _, path := range paths {
		found := false
		for _, f := range a.Ranked(path) {
			if f.Source == source {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, path)
		}
	}
	return missing
}

// Defaults returns the standard merge policy.
func Defaults() []Field {
	return []Field{
		// Statistics and game log come from the league feed only
		{Path: "stats.*", Source: Stats, Priority: 100},
		{Path: "game_log", Source: Stats, Priority: 100},

		// Display name - the directory spells names out in full
		{Path: "name", Source: Directory, Priority: 100},
		{Path: "name", Source: Stats, Priority: 90},

		// Team - the league's own spelling, normalized
		{Path: "team", Source: Stats, Priority: 100},
		{Path: "team", Source: Directory, Priority: 80},

		// Bio fields - league value when it has one, directory fills gaps
		{Path: "position", Source: Stats, Priority: 100},
		{Path: "jersey", Source: Stats, Priority: 100},
		{Path: "height_cm", Source: Stats, Priority: 100},
		{Path: "weight_kg", Source: Stats, Priority: 100},
		{Path: "birth_date", Source: Stats, Priority: 100},
		{Path: "nationality", Source: Stats, Priority: 100},
		{Path: "birthplace", Source: Stats, Priority: 100},
		{Path: "headshot_url", Source: Stats, Priority: 100},
		{Path: "position", Source: Directory, Priority: 90},
		{Path: "jersey", Source: Directory, Priority: 90},
		{Path: "height_cm", Source: Directory, Priority: 90},
		{Path: "weight_kg", Source: Directory, Priority: 90},
		{Path: "birth_date", Source: Directory, Priority: 90},
		{Path: "nationality", Source: Directory, Priority: 90},
		{Path: "birthplace", Source: Directory, Priority: 90},
		{Path: "headshot_url", Source: Directory, Priority: 90},

		// Background - encyclopedia only
		{Path: "hometown_*", Source: Enrichment, Priority: 100},
		{Path: "college", Source: Enrichment, Priority: 100},
		{Path: "high_school", Source: Enrichment, Priority: 100},
	}
}
