package players

// SeasonStats holds per-game averages and shooting splits. It is embedded in
// both StatRecord and Player so the JSON stays flat.
type SeasonStats struct {
	GamesPlayed *int     `json:"games_played,omitempty"`
	Minutes     *float64 `json:"mpg,omitempty"`
	Points      *float64 `json:"ppg,omitempty"`
	Rebounds    *float64 `json:"rpg,omitempty"`
	Assists     *float64 `json:"apg,omitempty"`
	Steals      *float64 `json:"spg,omitempty"`
	Blocks      *float64 `json:"bpg,omitempty"`
	Turnovers   *float64 `json:"topg,omitempty"`

	FG2Pct     *float64 `json:"fg2_pct,omitempty"`
	FG3Pct     *float64 `json:"fg3_pct,omitempty"`
	FTPct      *float64 `json:"ft_pct,omitempty"`
	Efficiency *float64 `json:"efficiency,omitempty"`
}

// Clone returns a copy of s that shares no pointers with it.
func (s SeasonStats) Clone() SeasonStats {
	s.GamesPlayed = clonePtr(s.GamesPlayed)
	for _, f := range []**float64{&s.Minutes, &s.Points, &s.Rebounds, &s.Assists, &s.Steals, &s.Blocks, &s.Turnovers, &s.FG2Pct, &s.FG3Pct, &s.FTPct, &s.Efficiency} {
		*f = clonePtr(*f)
	}
	return s
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Played returns the number of games played, or 0 when it was not reported.
func (s SeasonStats) Played() int {
	if s.GamesPlayed == nil {
		return 0
	}
	return *s.GamesPlayed
}

// GameEntry is one line of a player's game log.
type GameEntry struct {
	Date      string  `json:"date"`
	Opponent  string  `json:"opponent"`
	HomeAway  string  `json:"home_away,omitempty"`
	TeamScore *int    `json:"team_score,omitempty"`
	OppScore  *int    `json:"opp_score,omitempty"`
	Result    string  `json:"result,omitempty"`
	Minutes   float64 `json:"minutes"`
	Points    int     `json:"points"`
	Rebounds  int     `json:"rebounds"`
	Assists   int     `json:"assists"`
	Steals    int     `json:"steals"`
	Blocks    int     `json:"blocks"`
	Turnovers int     `json:"turnovers"`
	FG        string  `json:"fg,omitempty"`
	Three     string  `json:"three,omitempty"`
	FT        string  `json:"ft,omitempty"`
	PlusMinus *int    `json:"plus_minus,omitempty"`
	PIR       *int    `json:"pir,omitempty"`
}

// Outcome returns the recorded result, or derives "W" or "L" from the scores.
// It returns "" when neither is known or the scores are level.
func (g GameEntry) Outcome() string {
	if g.Result != "" {
		return g.Result
	}
	if g.TeamScore == nil || g.OppScore == nil {
		return ""
	}
	switch {
	case *g.TeamScore > *g.OppScore:
		return "W"
	case *g.TeamScore < *g.OppScore:
		return "L"
	default:
		return ""
	}
}
