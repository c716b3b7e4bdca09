// Package teams resolves the many spellings of a club to one canonical name
// per league. A Mapping is plain configuration: it is built once per league
// run and passed to whatever needs it.
package teams

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/agentstation/rostermap/pkg/names"
)

// Alias maps one alternate spelling to its canonical team name.
type Alias struct {
	From string `yaml:"from" json:"from"`
	To   string `yaml:"to" json:"to"`
}

// Mapping is an ordered list of aliases. Lookups compare keys case-insensitively
// and the first matching alias wins.
type Mapping struct {
	aliases []Alias
	index   map[string]string
}

// NewMapping builds a Mapping from aliases in priority order. Aliases with an
// empty side are ignored.
func NewMapping(aliases ...Alias) Mapping {
	m := Mapping{index: make(map[string]string, len(aliases))}
	for _, a := range aliases {
		from, to := strings.TrimSpace(a.From), strings.TrimSpace(a.To)
		if from == "" || to == "" {
			continue
		}
		m.aliases = append(m.aliases, Alias{From: from, To: to})
		key := lookupKey(from)
		if _, taken := m.index[key]; !taken {
			m.index[key] = to
		}
	}
	return m
}

// FromMap builds a Mapping from an unordered map. Keys are sorted so the
// result does not depend on map iteration order.
func FromMap(src map[string]string) Mapping {
	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	aliases := make([]Alias, 0, len(keys))
	for _, k := range keys {
		aliases = append(aliases, Alias{From: k, To: src[k]})
	}
	return NewMapping(aliases...)
}

// Normalize returns the canonical name for team, or team unchanged when no
// alias matches.
func (m Mapping) Normalize(team string) string {
	if canonical, ok := m.Lookup(team); ok {
		return canonical
	}
	return team
}

// Lookup returns the canonical name for team and whether an alias matched.
func (m Mapping) Lookup(team string) (string, bool) {
	if len(m.index) == 0 {
		return "", false
	}
	canonical, ok := m.index[lookupKey(team)]
	return canonical, ok
}

// Equal reports whether two spellings resolve to the same team. Case,
// spacing and diacritics are ignored in the final comparison. Blank names
// are never equal to anything.
func (m Mapping) Equal(a, b string) bool {
	ka, kb := compareKey(m.Normalize(a)), compareKey(m.Normalize(b))
	return ka != "" && ka == kb
}

// Aliases returns a copy of the aliases in priority order.
func (m Mapping) Aliases() []Alias {
	out := make([]Alias, len(m.aliases))
	copy(out, m.aliases)
	return out
}

// Len returns the number of aliases.
func (m Mapping) Len() int {
	return len(m.aliases)
}

func lookupKey(s string) string {
	return cases.Fold().String(strings.Join(strings.Fields(s), " "))
}

func compareKey(s string) string {
	return strings.Join(strings.Fields(names.Fold(s)), " ")
}
