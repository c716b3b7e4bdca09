package authority_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/rostermap/pkg/authority"
)

func sources(fields []authority.Field) []authority.Source {
	out := make([]authority.Source, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.Source)
	}
	return out
}

func TestDefaultsRanking(t *testing.T) {
	a := authority.New()

	tests := []struct {
		field string
		want  []authority.Source
	}{
		{"name", []authority.Source{authority.Directory, authority.Stats}},
		{"team", []authority.Source{authority.Stats, authority.Directory}},
		{"height_cm", []authority.Source{authority.Stats, authority.Directory}},
		{"headshot_url", []authority.Source{authority.Stats, authority.Directory}},
		{"hometown_city", []authority.Source{authority.Enrichment}},
		{"college", []authority.Source{authority.Enrichment}},
		{"stats.ppg", []authority.Source{authority.Stats}},
		{"game_log", []authority.Source{authority.Stats}},
		{"unknown_field", []authority.Source{}},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			assert.Equal(t, tt.want, sources(a.Ranked(tt.field)))
		})
	}
}

func TestFind(t *testing.T) {
	a := authority.New()

	f := a.Find("name")
	require.NotNil(t, f)
	assert.Equal(t, authority.Directory, f.Source)

	f = a.Find("hometown_state")
	require.NotNil(t, f)
	assert.Equal(t, authority.Enrichment, f.Source)

	assert.Nil(t, a.Find("nope"))
}

func TestCustomAuthorities(t *testing.T) {
	a := authority.New(
		authority.Field{Path: "height_cm", Source: authority.Directory, Priority: 100},
		authority.Field{Path: "height_cm", Source: authority.Stats, Priority: 50},
		authority.Field{Path: "height_*", Source: authority.Stats, Priority: 100},
	)

	// Equal priority: the more specific pattern wins.
	assert.Equal(t, []authority.Source{authority.Directory, authority.Stats}, sources(a.Ranked("height_cm")))
	assert.Len(t, a.List(), 3)
	assert.Len(t, authority.FilterBySource(a.List(), authority.Stats), 2)
}

func TestMatchesPattern(t *testing.T) {
	tests := []struct {
		path, pattern string
		want          bool
	}{
		{"name", "name", true},
		{"hometown_city", "hometown_*", true},
		{"stats.ppg", "stats.*", true},
		{"college", "hometown_*", false},
		{"fg3_pct", "fg?_pct", true},
		{"x", "[", false},
	}
	for _, tt := range tests {
		t.Run(tt.path+"~"+tt.pattern, func(t *testing.T) {
			assert.Equal(t, tt.want, authority.MatchesPattern(tt.path, tt.pattern))
		})
	}
}

func TestSourceString(t *testing.T) {
	assert.Equal(t, "enrichment", authority.Enrichment.String())
}

func TestMissing(t *testing.T) {
	assert.Empty(t, authority.Missing(authority.New(), authority.Stats, "name", "team", "stats.season", "game_log"))

	partial := authority.New(
		authority.Field{Path: "name", Source: authority.Directory, Priority: 100},
		authority.Field{Path: "stats.*", Source: authority.Stats, Priority: 100},
	)
	assert.Equal(t, []string{"name", "team"}, authority.Missing(partial, authority.Stats, "name", "team", "stats.season"))
}
