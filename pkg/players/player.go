// Package players defines the records that flow through a reconciliation run:
// the three input shapes (stat, directory and enrichment records) and the
// unified Player written to snapshots.
//
// Optional fields are strings tagged omitempty or pointers, so a value that no
// source supplied is left out of the JSON rather than written as "" or 0.
package players

// StatRecord is one player as reported by a league's stat feed. The stat
// feed decides who is tracked and is the only source of statistics.
type StatRecord struct {
	LeagueID string `json:"league_id"`
	Name     string `json:"name"`
	Team     string `json:"team"`

	Bio

	SeasonStats
	Games []GameEntry `json:"game_log,omitempty"`
}

// DirectoryRecord is one player from the sports directory.
type DirectoryRecord struct {
	DirectoryID string `json:"directory_id"`
	Name        string `json:"name"`
	Team        string `json:"team,omitempty"`

	Bio
}

// EnrichmentRecord carries background fields found by full-name lookup.
type EnrichmentRecord struct {
	Name          string `json:"name"`
	HometownCity  string `json:"hometown_city,omitempty"`
	HometownState string `json:"hometown_state,omitempty"`
	College       string `json:"college,omitempty"`
	HighSchool    string `json:"high_school,omitempty"`
}

// Bio holds the biographical and display fields that either the stat feed or
// the directory may supply.
type Bio struct {
	Position    string `json:"position,omitempty"`
	Jersey      string `json:"jersey,omitempty"`
	HeightCM    *int   `json:"height_cm,omitempty"`
	WeightKG    *int   `json:"weight_kg,omitempty"`
	BirthDate   string `json:"birth_date,omitempty"`
	Nationality string `json:"nationality,omitempty"`
	Birthplace  string `json:"birthplace,omitempty"`
	HeadshotURL string `json:"headshot_url,omitempty"`
}

// Player is the unified record, one per stat record.
type Player struct {
	ID          string `json:"id"`
	League      string `json:"league"`
	LeagueID    string `json:"league_id"`
	DirectoryID string `json:"directory_id,omitempty"`
	Name        string `json:"name"`
	Team        string `json:"team,omitempty"`
	// SourceTeam keeps the stat feed's spelling when it differs from Team.
	SourceTeam string `json:"source_team,omitempty"`

	Position     string `json:"position,omitempty"`
	Jersey       string `json:"jersey,omitempty"`
	HeightCM     *int   `json:"height_cm,omitempty"`
	HeightFeet   *int   `json:"height_feet,omitempty"`
	HeightInches *int   `json:"height_inches,omitempty"`
	WeightKG     *int   `json:"weight_kg,omitempty"`
	BirthDate    string `json:"birth_date,omitempty"`
	Nationality  string `json:"nationality,omitempty"`
	Birthplace   string `json:"birthplace,omitempty"`
	HeadshotURL  string `json:"headshot_url,omitempty"`

	HometownCity  string `json:"hometown_city,omitempty"`
	HometownState string `json:"hometown_state,omitempty"`
	Hometown      string `json:"hometown,omitempty"`
	College       string `json:"college,omitempty"`
	HighSchool    string `json:"high_school,omitempty"`

	SeasonStats
	Games []GameEntry `json:"game_log,omitempty"`

	// Sources lists the feeds that contributed to this record.
	Sources []string `json:"sources"`
}

// Summary returns a copy of p without its game log.
func (p Player) Summary() Player {
	p.Games = nil
	return p
}

// HasStats reports whether the stat feed carried any playing data.
func (p Player) HasStats() bool {
	return p.Played() > 0 || len(p.Games) > 0
}

// Hometown joins city and state for display. Both parts are required.
func Hometown(city, state string) string {
	if city == "" || state == "" {
		return ""
	}
	return city + ", " + state
}

// Int returns a pointer to v, for filling optional numeric fields.
func Int(v int) *int {
	return &v
}

// Float returns a pointer to v, for filling optional averages.
func Float(v float64) *float64 {
	return &v
}
