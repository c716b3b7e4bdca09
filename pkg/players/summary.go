package players

import "sort"

// Summary aggregates a league's unified records for reporting.
type Summary struct {
	Players        int            `json:"players" yaml:"players"`
	Teams          int            `json:"teams" yaml:"teams"`
	WithStats      int            `json:"with_stats" yaml:"with_stats"`
	WithDirectory  int            `json:"with_directory" yaml:"with_directory"`
	WithHometown   int            `json:"with_hometown" yaml:"with_hometown"`
	WithCollege    int            `json:"with_college" yaml:"with_college"`
	Games          int            `json:"games" yaml:"games"`
	Wins           int            `json:"wins" yaml:"wins"`
	Losses         int            `json:"losses" yaml:"losses"`
	LastGame       string         `json:"last_game,omitempty" yaml:"last_game,omitempty"`
	PlayersPerTeam map[string]int `json:"players_per_team" yaml:"players_per_team"`
}

// Summarize counts coverage over records.
func Summarize(records []Player) Summary {
	s := Summary{
		Players:        len(records),
		PlayersPerTeam: make(map[string]int),
	}
	for _, p := range records {
		if p.Team != "" {
			s.PlayersPerTeam[p.Team]++
		}
		if p.HasStats() {
			s.WithStats++
		}
		if p.DirectoryID != "" {
			s.WithDirectory++
		}
		if p.Hometown != "" || p.HometownCity != "" {
			s.WithHometown++
		}
		if p.College != "" {
			s.WithCollege++
		}
		for _, g := range p.Games {
			s.Games++
			switch g.Outcome() {
			case "W":
				s.Wins++
			case "L":
				s.Losses++
			}
			if g.Date > s.LastGame {
				s.LastGame = g.Date
			}
		}
	}
	s.Teams = len(s.PlayersPerTeam)
	return s
}

// TeamNames returns the summarized teams in alphabetical order.
func (s Summary) TeamNames() []string {
	out := make([]string, 0, len(s.PlayersPerTeam))
	for team := range s.PlayersPerTeam {
		out = append(out, team)
	}
	sort.Strings(out)
	return out
}
