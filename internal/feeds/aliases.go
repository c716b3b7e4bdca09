package feeds

import (
	"github.com/agentstation/rostermap/pkg/constants"
	"github.com/agentstation/rostermap/pkg/leagues"
)

// defaultAliases are the keys known to appear in scraper output for each
// canonical field. League aliases are tried before these.
var defaultAliases = map[string]leagues.FieldAliases{
	constants.FeedStats: {
		"league_id":    {"id", "code", "player_code", "tblstat_id", "player_id"},
		"name":         {"player_name", "full_name"},
		"team":         {"team_name", "club"},
		"games_played": {"games", "gp", "total_games"},
		"mpg":          {"minutes_per_game", "min"},
		"ppg":          {"points_per_game", "pts"},
		"rpg":          {"rebounds_per_game", "reb"},
		"apg":          {"assists_per_game", "ast"},
		"game_log":     {"all_games", "past_games", "games_log"},
		"jersey":       {"number", "dorsal"},
		"height_cm":    {"height", "height_m"},
		"weight_kg":    {"weight"},
		"headshot_url": {"photo", "image_url"},
	},
	constants.FeedDirectory: {
		"directory_id": {"id", "idPlayer", "player_id"},
		"name":         {"strPlayer", "player_name"},
		"team":         {"strTeam", "team_name"},
		"position":     {"strPosition"},
		"jersey":       {"strNumber"},
		"height_cm":    {"strHeight", "height"},
		"weight_kg":    {"strWeight", "weight"},
		"birth_date":   {"dateBorn"},
		"nationality":  {"strNationality"},
		"birthplace":   {"strBirthLocation"},
		"headshot_url": {"strCutout", "strThumb"},
	},
	constants.FeedEnrichment: {
		"name":           {"player_name", "player"},
		"hometown_city":  {"hometown", "city"},
		"hometown_state": {"state"},
		"high_school":    {"highschool"},
	},
}

// applyAliases fills each canonical key that is absent from rec with the
// first alias present, league aliases first.
func applyAliases(rec map[string]any, feed string, league leagues.FieldAliases) {
	for _, set := range []leagues.FieldAliases{league, defaultAliases[feed]} {
		for _, canonical := range set.Keys() {
			if present(rec, canonical) {
				continue
			}
			for _, alias := range set[canonical] {
				if present(rec, alias) {
					rec[canonical] = rec[alias]
					break
				}
			}
		}
	}
}

func present(rec map[string]any, key string) bool {
	v, ok := rec[key]
	if !ok || v == nil {
		return false
	}
	if s, isString := v.(string); isString && s == "" {
		return false
	}
	return true
}
