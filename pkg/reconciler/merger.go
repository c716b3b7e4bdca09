package reconciler

import (
	"strings"

	"github.com/agentstation/rostermap/pkg/authority"
	"github.com/agentstation/rostermap/pkg/players"
	"github.com/agentstation/rostermap/pkg/provenance"
	"github.com/agentstation/rostermap/pkg/teams"
)

// Merger combines one stat record with its optional directory and enrichment
// matches into a unified player.
type Merger interface {
	Player(league string, src Sources) (players.Player, int)
}

// Sources are the records merged into one player. Directory and Enrichment
// are nil when no match was made.
type Sources struct {
	Stat       *players.StatRecord
	Directory  *players.DirectoryRecord
	Enrichment *players.EnrichmentRecord
	Teams      teams.Mapping
}

type merger struct {
	authorities authority.Authority
	tracker     provenance.Tracker
	rules       []rule
}

func newMerger(authorities authority.Authority, tracker provenance.Tracker) Merger {
	return &merger{
		authorities: authorities,
		tracker:     tracker,
		rules:       defaultRules(),
	}
}

// Player builds the unified record and returns it with the number of fields
// where a lower priority source disagreed.
func (m *merger) Player(league string, src Sources) (players.Player, int) {
	stat := src.Stat
	p := players.Player{
		League:   league,
		LeagueID: stat.LeagueID,
		ID:       players.LeagueKey(league, stat.LeagueID),
		Sources:  []string{authority.Stats.String()},
	}
	if src.Directory != nil {
		p.DirectoryID = src.Directory.DirectoryID
		p.ID = players.DirectoryKey(src.Directory.DirectoryID)
		p.Sources = append(p.Sources, authority.Directory.String())
	}
	if src.Enrichment != nil {
		p.Sources = append(p.Sources, authority.Enrichment.String())
	}

	conflicts := 0
	for _, r := range m.rules {
		if r.apply(m, &src, &p) {
			conflicts++
		}
	}

	if p.Team != "" && stat.Team != "" && p.Team != stat.Team {
		p.SourceTeam = stat.Team
	}
	p.Hometown = players.Hometown(p.HometownCity, p.HometownState)
	p.SetHeight(p.HeightCM)

	return p, conflicts
}

// Policy paths for the blocks only the stat feed carries.
const (
	statsPath   = "stats.season"
	gameLogPath = "game_log"
)

// requiredStatPaths must name the stat feed in any policy, so a unified
// player always carries the fields of its stat record.
var requiredStatPaths = []string{"name", "team", statsPath, gameLogPath}

// rule merges one field.
type rule interface {
	apply(m *merger, src *Sources, p *players.Player) bool
}

// fieldRule reads a field from each source that has it and writes the value
// of the highest ranked source that is present.
type fieldRule[T comparable] struct {
	path string
	from map[authority.Source]func(*Sources) (T, bool)
	set  func(*players.Player, T)
}

func (f fieldRule[T]) apply(m *merger, src *Sources, p *players.Player) bool {
	var (
		chosen   provenance.Provenance
		value    T
		found    bool
		rejected []provenance.Candidate
	)
	for _, auth := range m.authorities.Ranked(f.path) {
		get, ok := f.from[auth.Source]
		if !ok {
			continue
		}
		v, present := get(src)
		if !present {
			continue
		}
		if !found {
			found, value = true, v
			chosen = provenance.Provenance{
				Source:   auth.Source,
				Value:    v,
				Priority: auth.Priority,
				Reason:   "highest priority source with a value",
			}
			continue
		}
		if v != value {
			rejected = append(rejected, provenance.Candidate{Source: auth.Source, Value: v})
		}
	}
	if !found {
		return false
	}

	f.set(p, value)
	chosen.Rejected = rejected
	m.tracker.Track(p.ID, f.path, chosen)
	return len(rejected) > 0
}

// statRule copies a block of the stat record when the policy lets the stat
// feed supply it.
type statRule struct {
	path string
	take func(stat *players.StatRecord, p *players.Player)
}

func (r statRule) apply(m *merger, src *Sources, p *players.Player) bool {
	for _, auth := range m.authorities.Ranked(r.path) {
		if auth.Source == authority.Stats {
			r.take(src.Stat, p)
			break
		}
	}
	return false
}

func str(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != ""
}

func num(v *int) (int, bool) {
	if v == nil {
		return 0, false
	}
	return *v, true
}

func position(s string) (string, bool) {
	return str(players.PositionName(s))
}

func defaultRules() []rule {
	statBio := func(get func(*players.Bio) string) func(*Sources) (string, bool) {
		return func(s *Sources) (string, bool) { return str(get(&s.Stat.Bio)) }
	}
	dirBio := func(get func(*players.Bio) string) func(*Sources) (string, bool) {
		return func(s *Sources) (string, bool) {
			if s.Directory == nil {
				return "", false
			}
			return str(get(&s.Directory.Bio))
		}
	}
	bioString := func(path string, get func(*players.Bio) string, set func(*players.Player, string)) rule {
		return fieldRule[string]{
			path: path,
			from: map[authority.Source]func(*Sources) (string, bool){
				authority.Stats:     statBio(get),
				authority.Directory: dirBio(get),
			},
			set: set,
		}
	}
	bioInt := func(path string, get func(*players.Bio) *int, set func(*players.Player, int)) rule {
		return fieldRule[int]{
			path: path,
			from: map[authority.Source]func(*Sources) (int, bool){
				authority.Stats: func(s *Sources) (int, bool) { return num(get(&s.Stat.Bio)) },
				authority.Directory: func(s *Sources) (int, bool) {
					if s.Directory == nil {
						return 0, false
					}
					return num(get(&s.Directory.Bio))
				},
			},
			set: set,
		}
	}
	enrichment := func(path string, get func(*players.EnrichmentRecord) string, set func(*players.Player, string)) rule {
		return fieldRule[string]{
			path: path,
			from: map[authority.Source]func(*Sources) (string, bool){
				authority.Enrichment: func(s *Sources) (string, bool) {
					if s.Enrichment == nil {
						return "", false
					}
					return str(get(s.Enrichment))
				},
			},
			set: set,
		}
	}

	return []rule{
		statRule{
			path: statsPath,
			take: func(s *players.StatRecord, p *players.Player) { p.SeasonStats = s.SeasonStats.Clone() },
		},
		statRule{
			path: gameLogPath,
			take: func(s *players.StatRecord, p *players.Player) {
				if len(s.Games) > 0 {
					p.Games = append([]players.GameEntry(nil), s.Games...)
				}
			},
		},
		fieldRule[string]{
			path: "name",
			from: map[authority.Source]func(*Sources) (string, bool){
				authority.Stats: func(s *Sources) (string, bool) { return str(s.Stat.Name) },
				authority.Directory: func(s *Sources) (string, bool) {
					if s.Directory == nil {
						return "", false
					}
					return str(s.Directory.Name)
				},
			},
			set: func(p *players.Player, v string) { p.Name = v },
		},
		fieldRule[string]{
			path: "team",
			from: map[authority.Source]func(*Sources) (string, bool){
				authority.Stats: func(s *Sources) (string, bool) { return str(s.Teams.Normalize(s.Stat.Team)) },
				authority.Directory: func(s *Sources) (string, bool) {
					if s.Directory == nil {
						return "", false
					}
					return str(s.Teams.Normalize(s.Directory.Team))
				},
			},
			set: func(p *players.Player, v string) { p.Team = v },
		},
		fieldRule[string]{
			path: "position",
			from: map[authority.Source]func(*Sources) (string, bool){
				authority.Stats: func(s *Sources) (string, bool) { return position(s.Stat.Position) },
				authority.Directory: func(s *Sources) (string, bool) {
					if s.Directory == nil {
						return "", false
					}
					return position(s.Directory.Position)
				},
			},
			set: func(p *players.Player, v string) { p.Position = v },
		},
		bioString("jersey", func(b *players.Bio) string { return b.Jersey }, func(p *players.Player, v string) { p.Jersey = v }),
		bioInt("height_cm", func(b *players.Bio) *int { return b.HeightCM }, func(p *players.Player, v int) { p.HeightCM = players.Int(v) }),
		bioInt("weight_kg", func(b *players.Bio) *int { return b.WeightKG }, func(p *players.Player, v int) { p.WeightKG = players.Int(v) }),
		bioString("birth_date", func(b *players.Bio) string { return b.BirthDate }, func(p *players.Player, v string) { p.BirthDate = v }),
		bioString("nationality", func(b *players.Bio) string { return b.Nationality }, func(p *players.Player, v string) { p.Nationality = v }),
		bioString("birthplace", func(b *players.Bio) string { return b.Birthplace }, func(p *players.Player, v string) { p.Birthplace = v }),
		bioString("headshot_url", func(b *players.Bio) string { return b.HeadshotURL }, func(p *players.Player, v string) { p.HeadshotURL = v }),
		enrichment("hometown_city", func(e *players.EnrichmentRecord) string { return e.HometownCity }, func(p *players.Player, v string) { p.HometownCity = v }),
		enrichment("hometown_state", func(e *players.EnrichmentRecord) string { return e.HometownState }, func(p *players.Player, v string) { p.HometownState = v }),
		enrichment("college", func(e *players.EnrichmentRecord) string { return e.College }, func(p *players.Player, v string) { p.College = v }),
		enrichment("high_school", func(e *players.EnrichmentRecord) string { return e.HighSchool }, func(p *players.Player, v string) { p.HighSchool = v }),
	}
}
