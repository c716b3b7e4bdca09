package reconciler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/rostermap/pkg/authority"
	"github.com/agentstation/rostermap/pkg/errors"
	"github.com/agentstation/rostermap/pkg/logging"
	"github.com/agentstation/rostermap/pkg/players"
	"github.com/agentstation/rostermap/pkg/reconciler"
	"github.com/agentstation/rostermap/pkg/teams"
)

func newReconciler(t *testing.T, opts ...reconciler.Option) reconciler.Reconciler {
	t.Helper()
	r, err := reconciler.New(opts...)
	require.NoError(t, err)
	return r
}

func run(t *testing.T, in reconciler.Input, opts ...reconciler.Option) *reconciler.Result {
	t.Helper()
	ctx := logging.WithLogger(context.Background(), logging.NewNopLogger())
	res, err := newReconciler(t, opts...).Reconcile(ctx, in)
	require.NoError(t, err)
	return res
}

func stat(id, name, team string) players.StatRecord {
	return players.StatRecord{LeagueID: id, Name: name, Team: team}
}

func dir(id, name, team string) players.DirectoryRecord {
	return players.DirectoryRecord{DirectoryID: id, Name: name, Team: team}
}

func acbTeams() teams.Mapping {
	return teams.FromMap(map[string]string{"unicaja": "Baloncesto Málaga"})
}

func ids(ps []players.Player) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestScenario(t *testing.T) {
	s := stat("L1", "T. Kalinoski", "unicaja")
	s.Points = players.Float(9.4)
	d := dir("D9", "Tyler Kalinoski", "Baloncesto Málaga")
	d.HeightCM = players.Int(195)

	res := run(t, reconciler.Input{
		League:     "acb",
		Teams:      acbTeams(),
		Stats:      []players.StatRecord{s},
		Directory:  []players.DirectoryRecord{d},
		Enrichment: []players.EnrichmentRecord{},
	})

	want := players.Player{
		ID:           "dir:D9",
		League:       "acb",
		LeagueID:     "L1",
		DirectoryID:  "D9",
		Name:         "Tyler Kalinoski",
		Team:         "Baloncesto Málaga",
		SourceTeam:   "unicaja",
		HeightCM:     players.Int(195),
		HeightFeet:   players.Int(6),
		HeightInches: players.Int(5),
		SeasonStats:  players.SeasonStats{Points: players.Float(9.4)},
		Sources:      []string{"stats", "directory"},
	}
	require.Len(t, res.Players, 1)
	if diff := cmp.Diff(want, res.Players[0]); diff != "" {
		t.Errorf("unified player mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, reconciler.StatusOK, res.Status)

	data, err := json.Marshal(res.Players[0])
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.NotContains(t, raw, "hometown")
	assert.Equal(t, 9.4, raw["ppg"])
	assert.Equal(t, float64(195), raw["height_cm"])
}

func TestNameMatching(t *testing.T) {
	tests := []struct {
		name      string
		stat      players.StatRecord
		directory []players.DirectoryRecord
		wantID    string
		wantName  string
		wantDiag  reconciler.DiagnosticKind
	}{
		{
			name: "abbreviation on same team",
			stat: stat("L1", "T. Kalinoski", "unicaja"),
			directory: []players.DirectoryRecord{
				dir("D9", "Tyler Kalinoski", "Baloncesto Málaga"),
			},
			wantID:   "dir:D9",
			wantName: "Tyler Kalinoski",
		},
		{
			name: "team breaks the tie",
			stat: stat("L1", "T. Kalinoski", "unicaja"),
			directory: []players.DirectoryRecord{
				dir("D10", "Tom Kalinoski", "Real Madrid"),
				dir("D9", "Tyler Kalinoski", "Baloncesto Málaga"),
			},
			wantID:   "dir:D9",
			wantName: "Tyler Kalinoski",
		},
		{
			name: "tie on team stays unmatched",
			stat: stat("L1", "T. Kalinoski", "unicaja"),
			directory: []players.DirectoryRecord{
				dir("D10", "Tom Kalinoski", "Baloncesto Málaga"),
				dir("D9", "Tyler Kalinoski", "Baloncesto Málaga"),
			},
			wantID:   "lg:acb:L1",
			wantName: "T. Kalinoski",
			wantDiag: reconciler.DiagnosticAmbiguous,
		},
		{
			name: "no team agrees stays unmatched",
			stat: stat("L1", "T. Kalinoski", "unicaja"),
			directory: []players.DirectoryRecord{
				dir("D10", "Tom Kalinoski", "Real Madrid"),
				dir("D9", "Tyler Kalinoski", "FC Barcelona"),
			},
			wantID:   "lg:acb:L1",
			wantName: "T. Kalinoski",
			wantDiag: reconciler.DiagnosticAmbiguous,
		},
		{
			name: "different first name is not a candidate",
			stat: stat("L1", "Tom Kalinoski", "unicaja"),
			directory: []players.DirectoryRecord{
				dir("D9", "Tyler Kalinoski", "Baloncesto Málaga"),
			},
			wantID:   "lg:acb:L1",
			wantName: "Tom Kalinoski",
			wantDiag: reconciler.DiagnosticMissing,
		},
		{
			name: "accents and order differ",
			stat: stat("L1", "DONČIĆ, LUKA", "Real Madrid"),
			directory: []players.DirectoryRecord{
				dir("D1", "Luka Doncic", "Real Madrid"),
			},
			wantID:   "dir:D1",
			wantName: "Luka Doncic",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, reconciler.Input{
				League:    "acb",
				Teams:     acbTeams(),
				Stats:     []players.StatRecord{tt.stat},
				Directory: tt.directory,
			})
			require.Len(t, res.Players, 1)
			assert.Equal(t, tt.wantID, res.Players[0].ID)
			assert.Equal(t, tt.wantName, res.Players[0].Name)

			if tt.wantDiag != "" {
				diags := res.DiagnosticsOf(tt.wantDiag)
				require.NotEmpty(t, diags)
				assert.Equal(t, "directory", diags[0].Feed)
				assert.Empty(t, res.Players[0].DirectoryID)
			}
		})
	}
}

func TestSingleCandidateOnOtherTeamStillMatches(t *testing.T) {
	res := run(t, reconciler.Input{
		League:    "acb",
		Teams:     acbTeams(),
		Stats:     []players.StatRecord{stat("L1", "T. Kalinoski", "unicaja")},
		Directory: []players.DirectoryRecord{dir("D10", "Tom Kalinoski", "Real Madrid")},
	})
	require.Len(t, res.Players, 1)
	assert.Equal(t, "dir:D10", res.Players[0].ID)

	m, ok := res.Matches["dir:D10"]
	require.True(t, ok)
	assert.False(t, m.TeamAgrees)
	assert.Greater(t, m.Confidence, 0.0)
}

func TestMergePrecedence(t *testing.T) {
	s := stat("L1", "Tyler Kalinoski", "unicaja")
	s.HeightCM = players.Int(195)
	s.Jersey = "10"

	d := dir("D9", "Tyler Kalinoski", "Baloncesto Málaga")
	d.HeightCM = players.Int(198)
	d.WeightKG = players.Int(93)
	d.Position = "2"
	d.Jersey = "7"
	d.Nationality = "USA"
	d.HeadshotURL = "https://img.example/kalinoski.png"

	res := run(t, reconciler.Input{
		League:    "acb",
		Teams:     acbTeams(),
		Stats:     []players.StatRecord{s},
		Directory: []players.DirectoryRecord{d},
	})
	require.Len(t, res.Players, 1)
	p := res.Players[0]

	assert.Equal(t, 195, *p.HeightCM, "stat height wins")
	assert.Equal(t, "10", p.Jersey, "stat jersey wins")
	assert.Equal(t, 93, *p.WeightKG, "directory fills missing weight")
	assert.Equal(t, players.ShootingGuard, p.Position)
	assert.Equal(t, "USA", p.Nationality)
	assert.Equal(t, "https://img.example/kalinoski.png", p.HeadshotURL)
	assert.Empty(t, p.BirthDate)
	assert.Equal(t, 2, res.Stats.ConflictsResolved)

	prov := res.Provenance["dir:D9"]["height_cm"]
	assert.Equal(t, authority.Stats, prov.Source)
	require.Len(t, prov.Rejected, 1)
	assert.Equal(t, authority.Directory, prov.Rejected[0].Source)
	assert.Equal(t, 198, prov.Rejected[0].Value)
}

func TestStatsComeOnlyFromStatFeed(t *testing.T) {
	s := stat("L1", "Tyler Kalinoski", "unicaja")
	s.SeasonStats = players.SeasonStats{GamesPlayed: players.Int(12), Points: players.Float(9.4), Rebounds: players.Float(2.1), Assists: players.Float(1.8)}
	s.Games = []players.GameEntry{{Date: "2025-10-05", Opponent: "Real Madrid", Points: 14}}

	res := run(t, reconciler.Input{
		League:    "acb",
		Teams:     acbTeams(),
		Stats:     []players.StatRecord{s},
		Directory: []players.DirectoryRecord{dir("D9", "Tyler Kalinoski", "Baloncesto Málaga")},
	})
	p := res.Players[0]
	assert.Equal(t, s.SeasonStats, p.SeasonStats)
	assert.Equal(t, s.Games, p.Games)

	// The output must not alias the input game log.
	p.Games[0].Points = 99
	assert.Equal(t, 14, s.Games[0].Points)
	*p.Points = 0
	assert.Equal(t, 9.4, *s.Points)
}

func TestEnrichment(t *testing.T) {
	t.Run("matched by directory name", func(t *testing.T) {
		res := run(t, reconciler.Input{
			League:    "acb",
			Teams:     acbTeams(),
			Stats:     []players.StatRecord{stat("L1", "T. Kalinoski", "unicaja")},
			Directory: []players.DirectoryRecord{dir("D9", "Tyler Kalinoski", "Baloncesto Málaga")},
			Enrichment: []players.EnrichmentRecord{{
				Name:          "Tyler Kalinoski",
				HometownCity:  "Cincinnati",
				HometownState: "Ohio",
				College:       "Davidson",
			}},
		})
		p := res.Players[0]
		assert.Equal(t, "Cincinnati", p.HometownCity)
		assert.Equal(t, "Cincinnati, Ohio", p.Hometown)
		assert.Equal(t, "Davidson", p.College)
		assert.Empty(t, p.HighSchool)
		assert.Equal(t, []string{"stats", "directory", "enrichment"}, p.Sources)
		assert.Equal(t, 1, res.Stats.EnrichmentMatched)
	})

	t.Run("city without state gives no combined hometown", func(t *testing.T) {
		res := run(t, reconciler.Input{
			League:     "lnb",
			Stats:      []players.StatRecord{stat("7", "Marcus Foster", "Paris")},
			Enrichment: []players.EnrichmentRecord{{Name: "Marcus Foster", HometownCity: "Wichita Falls"}},
		})
		p := res.Players[0]
		assert.Equal(t, "Wichita Falls", p.HometownCity)
		assert.Empty(t, p.Hometown)
	})

	t.Run("namesakes stay unmatched", func(t *testing.T) {
		res := run(t, reconciler.Input{
			League: "bsl",
			Stats:  []players.StatRecord{stat("1", "John Smith", "Anadolu Efes")},
			Enrichment: []players.EnrichmentRecord{
				{Name: "John Smith", College: "Duke"},
				{Name: "JOHN SMITH", College: "Kansas"},
			},
		})
		p := res.Players[0]
		assert.Empty(t, p.College)
		assert.Equal(t, 1, res.Stats.EnrichmentAmbiguous)
		diags := res.DiagnosticsOf(reconciler.DiagnosticAmbiguous)
		require.Len(t, diags, 1)
		assert.Equal(t, "enrichment", diags[0].Feed)
		assert.Equal(t, []string{"John Smith", "JOHN SMITH"}, diags[0].Candidates)
		assert.ErrorIs(t, diags[0].Err, errors.ErrAmbiguousMatch)
	})

	t.Run("exact name preferred over initial", func(t *testing.T) {
		res := run(t, reconciler.Input{
			League: "bsl",
			Stats:  []players.StatRecord{stat("1", "John Smith", "Anadolu Efes")},
			Enrichment: []players.EnrichmentRecord{
				{Name: "J. Smith", College: "Kansas"},
				{Name: "John Smith", College: "Duke"},
			},
		})
		assert.Equal(t, "Duke", res.Players[0].College)
	})
}

func TestOmissionVersusEmpty(t *testing.T) {
	res := run(t, reconciler.Input{
		League: "acb",
		Stats:  []players.StatRecord{stat("L1", "Tyler Kalinoski", "unicaja")},
		Enrichment: []players.EnrichmentRecord{
			{Name: "Tyler Kalinoski", HometownCity: "  ", College: ""},
		},
	})
	data, err := json.Marshal(res.Players[0])
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"hometown", "hometown_city", "college", "high_school", "height_cm", "directory_id"} {
		assert.NotContains(t, raw, key)
	}

	// No feed named a team and the stat feed reported no averages.
	res = run(t, reconciler.Input{
		League: "acb",
		Stats:  []players.StatRecord{stat("L1", "Tyler Kalinoski", "")},
	})
	data, err = json.Marshal(res.Players[0])
	require.NoError(t, err)
	raw = nil
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "Tyler Kalinoski", raw["name"])
	for _, key := range []string{"team", "source_team", "games_played", "mpg", "ppg", "rpg", "apg", "spg", "bpg", "topg"} {
		assert.NotContains(t, raw, key)
	}
}

func TestMalformedRecordsAreIsolated(t *testing.T) {
	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)

	in := reconciler.Input{
		League: "acb",
		Teams:  acbTeams(),
		Stats: []players.StatRecord{
			stat("L1", "Tyler Kalinoski", "unicaja"),
			stat("", "No Id", "unicaja"),
			stat("L3", "  ", "unicaja"),
			stat("L1", "Duplicate Id", "unicaja"),
			stat("L5", "Marcus Foster", "Real Madrid"),
		},
		Directory: []players.DirectoryRecord{
			dir("", "Nameless Id", "x"),
			dir("D9", "Tyler Kalinoski", "Baloncesto Málaga"),
			dir("D9", "Marcus Foster", "Real Madrid"),
		},
		Enrichment: []players.EnrichmentRecord{{Name: ""}},
	}

	res, err := newReconciler(t).Reconcile(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, []string{"dir:D9", "lg:acb:L5"}, ids(res.Players))
	assert.Equal(t, reconciler.StatusPartial, res.Status)
	assert.Equal(t, 6, res.Stats.Malformed)
	assert.Equal(t, 5, res.Stats.StatRecords)
	assert.Equal(t, 2, res.Stats.Players)

	malformed := res.DiagnosticsOf(reconciler.DiagnosticMalformed)
	require.Len(t, malformed, 6)
	assert.True(t, errors.IsMalformedInput(malformed[0].Err))
	assert.Equal(t, "malformed stats record #1: league_id: missing", malformed[0].Message)
	assert.Equal(t, "malformed stats record #3: league_id: duplicate", malformed[2].Message)
	assert.Equal(t, "malformed directory record #2: directory_id: duplicate", malformed[4].Message)

	tl.AssertContains(t, `"kind":"malformed"`)
	tl.AssertContains(t, "Reconciled league")
}

func TestEmptyStatFeed(t *testing.T) {
	res := run(t, reconciler.Input{
		League:    "lba",
		Directory: []players.DirectoryRecord{dir("D1", "Someone Else", "Virtus")},
	})
	assert.Equal(t, reconciler.StatusEmpty, res.Status)
	assert.True(t, res.IsEmpty())
	assert.NotNil(t, res.Players)
	assert.Empty(t, res.Players)
	assert.Contains(t, res.Summary(), "stat feed empty")
}

func TestDirectoryClaimedTwiceIsRevoked(t *testing.T) {
	res := run(t, reconciler.Input{
		League: "acb",
		Teams:  acbTeams(),
		Stats: []players.StatRecord{
			stat("L1", "T. Kalinoski", "unicaja"),
			stat("L2", "Tyler Kalinoski", "unicaja"),
		},
		Directory: []players.DirectoryRecord{dir("D9", "Tyler Kalinoski", "Baloncesto Málaga")},
	})

	assert.Equal(t, []string{"lg:acb:L1", "lg:acb:L2"}, ids(res.Players))
	assert.Equal(t, 2, res.Stats.DirectoryRevoked)
	assert.Zero(t, res.Stats.DirectoryMatched)
	assert.Zero(t, res.Stats.DirectoryAmbiguous)
	assert.Len(t, res.DiagnosticsOf(reconciler.DiagnosticRevoked), 2)
	assert.Empty(t, res.Matches)
}

func TestInvariantsOnLargerFeed(t *testing.T) {
	in := reconciler.Input{League: "euroleague", Teams: acbTeams()}
	for i := 0; i < 60; i++ {
		name := fmt.Sprintf("Player%02d Surname%02d", i, i%20)
		in.Stats = append(in.Stats, stat(fmt.Sprintf("P%03d", i), name, fmt.Sprintf("Team %d", i%6)))
		if i%3 == 0 {
			in.Directory = append(in.Directory, dir(fmt.Sprintf("D%03d", i), name, fmt.Sprintf("Team %d", i%6)))
		}
		if i%4 == 0 {
			in.Enrichment = append(in.Enrichment, players.EnrichmentRecord{Name: name, College: "State"})
		}
	}
	// Same surname and initial as P000, different team: P000 still resolves by team.
	in.Directory = append(in.Directory, dir("DX", "P. Surname00", "Elsewhere"))

	first := run(t, in)
	second := run(t, in)

	t.Run("count preserved and order kept", func(t *testing.T) {
		require.Len(t, first.Players, len(in.Stats))
		for i, p := range first.Players {
			assert.Equal(t, in.Stats[i].LeagueID, p.LeagueID)
		}
	})

	t.Run("ids unique", func(t *testing.T) {
		seen := make(map[string]bool)
		for _, id := range ids(first.Players) {
			assert.False(t, seen[id], "duplicate id %s", id)
			seen[id] = true
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		a, err := json.Marshal(first.Players)
		require.NoError(t, err)
		b, err := json.Marshal(second.Players)
		require.NoError(t, err)
		assert.Equal(t, string(a), string(b))
		if diff := cmp.Diff(first.Provenance, second.Provenance); diff != "" {
			t.Errorf("provenance differs between runs:\n%s", diff)
		}
	})

	t.Run("directory matches", func(t *testing.T) {
		assert.Equal(t, "dir:D000", first.Players[0].ID)
		assert.Equal(t, 20, first.Stats.DirectoryMatched)
		assert.Equal(t, 15, first.Stats.EnrichmentMatched)
	})
}

func TestOptions(t *testing.T) {
	_, err := reconciler.New(reconciler.WithAuthorities(nil))
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))

	in := reconciler.Input{
		League:    "acb",
		Stats:     []players.StatRecord{{LeagueID: "L1", Name: "Tyler Kalinoski", Bio: players.Bio{HeightCM: players.Int(195)}}},
		Directory: []players.DirectoryRecord{{DirectoryID: "D9", Name: "Tyler Kalinoski", Bio: players.Bio{HeightCM: players.Int(198)}}},
	}

	res := run(t, in, reconciler.WithProvenance(false))
	assert.Nil(t, res.Provenance)

	directoryFirst := authority.New(
		authority.Field{Path: "height_cm", Source: authority.Directory, Priority: 100},
		authority.Field{Path: "height_cm", Source: authority.Stats, Priority: 50},
		authority.Field{Path: "name", Source: authority.Stats, Priority: 100},
		authority.Field{Path: "team", Source: authority.Stats, Priority: 100},
		authority.Field{Path: "stats.*", Source: authority.Stats, Priority: 100},
		authority.Field{Path: "game_log", Source: authority.Stats, Priority: 100},
	)
	res = run(t, in, reconciler.WithAuthorities(directoryFirst))
	assert.Equal(t, 198, *res.Players[0].HeightCM)
}

func TestAuthoritiesMustKeepStatFields(t *testing.T) {
	tests := []struct {
		name    string
		fields  []authority.Field
		missing string
	}{
		{
			name: "no team",
			fields: []authority.Field{
				{Path: "name", Source: authority.Stats, Priority: 100},
				{Path: "stats.*", Source: authority.Stats, Priority: 100},
				{Path: "game_log", Source: authority.Stats, Priority: 100},
			},
			missing: "team",
		},
		{
			name: "name from directory only",
			fields: []authority.Field{
				{Path: "name", Source: authority.Directory, Priority: 100},
				{Path: "team", Source: authority.Stats, Priority: 100},
				{Path: "stats.*", Source: authority.Stats, Priority: 100},
				{Path: "game_log", Source: authority.Stats, Priority: 100},
			},
			missing: "name",
		},
		{
			name: "no statistics",
			fields: []authority.Field{
				{Path: "name", Source: authority.Stats, Priority: 100},
				{Path: "team", Source: authority.Stats, Priority: 100},
			},
			missing: "stats.season, game_log",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reconciler.New(reconciler.WithAuthorities(authority.New(tt.fields...)))
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err))
			assert.Contains(t, err.Error(), tt.missing)
		})
	}
}

func TestReconcileErrors(t *testing.T) {
	r := newReconciler(t)

	_, err := r.Reconcile(context.Background(), reconciler.Input{League: "  "})
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Reconcile(ctx, reconciler.Input{League: "acb"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRejectedRecordsCountAgainstStatFeed(t *testing.T) {
	rejected := []*errors.MalformedInputError{
		errors.NewMalformedInputError("stats", 4, "ppg", "not a number"),
		errors.NewMalformedInputError("directory", 0, "", "not an object"),
	}

	res := run(t, reconciler.Input{
		League:   "lba",
		Stats:    []players.StatRecord{stat("7", "Marcus Foster", "Virtus")},
		Rejected: rejected,
	})
	assert.Equal(t, reconciler.StatusPartial, res.Status)
	assert.Equal(t, 2, res.Stats.StatRecords)
	assert.Equal(t, 2, res.Stats.Malformed)
	assert.Len(t, res.Players, 1)

	res = run(t, reconciler.Input{League: "lba", Rejected: rejected[:1]})
	assert.Equal(t, reconciler.StatusPartial, res.Status)
	assert.Empty(t, res.Players)
}
