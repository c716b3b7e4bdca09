package feeds

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/agentstation/rostermap/pkg/constants"
)

// Field kinds the scrapers disagree on: ids arrive as numbers or strings,
// stats as numbers, numeric strings or percentages, minutes as "mm:ss".
var (
	stringFields = map[string][]string{
		constants.FeedStats:      {"league_id", "name", "team", "position", "jersey", "birth_date", "nationality", "birthplace", "headshot_url"},
		constants.FeedDirectory:  {"directory_id", "name", "team", "position", "jersey", "birth_date", "nationality", "birthplace", "headshot_url"},
		constants.FeedEnrichment: {"name", "hometown_city", "hometown_state", "college", "high_school"},
	}
	intFields = map[string][]string{
		constants.FeedStats:     {"games_played", "height_cm", "weight_kg"},
		constants.FeedDirectory: {"height_cm", "weight_kg"},
	}
	floatFields = []string{"mpg", "ppg", "rpg", "apg", "spg", "bpg", "topg", "fg2_pct", "fg3_pct", "ft_pct", "efficiency"}

	gameStringFields = []string{"date", "opponent", "home_away", "result", "fg", "three", "ft"}
	gameIntFields    = []string{"team_score", "opp_score", "points", "rebounds", "assists", "steals", "blocks", "turnovers", "plus_minus", "pir"}
)

// Keys a record cannot be read without. Any other value that fails to coerce
// is dropped and the record kept.
var identityFields = map[string][]string{
	constants.FeedStats:      {"league_id", "name"},
	constants.FeedDirectory:  {"directory_id", "name"},
	constants.FeedEnrichment: {"name"},
}

// fieldError names the field a value failed on.
type fieldError struct {
	field  string
	reason string
}

func (e *fieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.field, e.reason)
}

// coerce rewrites rec in place so it decodes into the feed's record type.
// Values that carry nothing ("", "-", null) are removed. It fails only when
// an identity field cannot be read; other unreadable values are removed and
// returned.
func coerce(rec map[string]any, feed string) ([]*fieldError, error) {
	// A list under games_played is a game log.
	if list, ok := rec["games_played"].([]any); ok {
		if !present(rec, "game_log") {
			rec["game_log"] = list
		}
		rec["games_played"] = json.Number(strconv.Itoa(len(list)))
	}

	for _, key := range identityFields[feed] {
		if err := coerceString(rec, key); err != nil {
			return nil, err
		}
	}

	var dropped []*fieldError
	keep := func(key string, err *fieldError) {
		if err != nil {
			delete(rec, key)
			dropped = append(dropped, err)
		}
	}
	for _, key := range stringFields[feed] {
		keep(key, coerceString(rec, key))
	}
	for _, key := range intFields[feed] {
		switch key {
		case "height_cm":
			keep(key, coerceMeasure(rec, key, heightCM))
		case "weight_kg":
			keep(key, coerceMeasure(rec, key, weightKG))
		default:
			keep(key, coerceNumber(rec, key, true))
		}
	}
	if feed != constants.FeedStats {
		return dropped, nil
	}
	for _, key := range floatFields {
		keep(key, coerceNumber(rec, key, false))
	}

	raw, ok := rec["game_log"]
	if !ok || raw == nil {
		delete(rec, "game_log")
		return dropped, nil
	}
	games, ok := raw.([]any)
	if !ok {
		keep("game_log", &fieldError{field: "game_log", reason: "not a list"})
		return dropped, nil
	}
	kept := make([]any, 0, len(games))
	for i, g := range games {
		game, ok := g.(map[string]any)
		if !ok {
			dropped = append(dropped, &fieldError{field: fmt.Sprintf("game_log[%d]", i), reason: "not an object"})
			continue
		}
		for _, err := range coerceGame(game) {
			dropped = append(dropped, &fieldError{field: fmt.Sprintf("game_log[%d].%s", i, err.field), reason: err.reason})
		}
		kept = append(kept, game)
	}
	rec["game_log"] = kept
	return dropped, nil
}

func coerceGame(game map[string]any) []*fieldError {
	if _, ok := game["opponent"]; !ok {
		if opp, ok := game["opp"]; ok {
			game["opponent"] = opp
		}
	}
	var dropped []*fieldError
	keep := func(key string, err *fieldError) {
		if err != nil {
			delete(game, key)
			dropped = append(dropped, err)
		}
	}
	for _, key := range gameStringFields {
		keep(key, coerceString(game, key))
	}
	for _, key := range gameIntFields {
		keep(key, coerceNumber(game, key, true))
	}
	if v, ok := game["minutes"]; ok {
		m, present, err := minutes(v)
		switch {
		case err != nil:
			keep("minutes", &fieldError{field: "minutes", reason: err.Error()})
		case present:
			game["minutes"] = m
		default:
			delete(game, "minutes")
		}
	}
	return dropped
}

func coerceString(rec map[string]any, key string) *fieldError {
	v, ok := rec[key]
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case nil:
		delete(rec, key)
	case string:
		rec[key] = strings.TrimSpace(t)
	case json.Number:
		rec[key] = t.String()
	case float64:
		rec[key] = strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return &fieldError{field: key, reason: fmt.Sprintf("expected a string, got %T", v)}
	}
	return nil
}

func coerceNumber(rec map[string]any, key string, integer bool) *fieldError {
	v, ok := rec[key]
	if !ok {
		return nil
	}
	f, present, err := number(v)
	if err != nil {
		return &fieldError{field: key, reason: err.Error()}
	}
	switch {
	case !present:
		delete(rec, key)
	case integer:
		rec[key] = int(math.Round(f))
	default:
		rec[key] = f
	}
	return nil
}

// number reads a numeric value. present is false for empty placeholders.
func number(v any) (value float64, present bool, err error) {
	switch t := v.(type) {
	case nil:
		return 0, false, nil
	case json.Number:
		f, err := t.Float64()
		return f, err == nil, err
	case float64:
		return t, true, nil
	case int:
		return float64(t), true, nil
	case string:
		s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(t), "%"))
		if s == "" || s == "-" {
			return 0, false, nil
		}
		f, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
		if err != nil {
			return 0, false, fmt.Errorf("not a number: %q", t)
		}
		return f, true, nil
	default:
		return 0, false, fmt.Errorf("not a number: %T", v)
	}
}

// coerceMeasure stores the whole-unit value parse reads from rec[key].
func coerceMeasure(rec map[string]any, key string, parse func(any) (float64, bool, error)) *fieldError {
	v, ok := rec[key]
	if !ok {
		return nil
	}
	f, present, err := parse(v)
	switch {
	case err != nil:
		return &fieldError{field: key, reason: err.Error()}
	case !present:
		delete(rec, key)
	default:
		rec[key] = int(math.Round(f))
	}
	return nil
}

var (
	reCentimeters = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*cm`)
	reFeet        = regexp.MustCompile(`(\d+)\s*(?:ft|feet|')\s*(?:(\d+(?:\.\d+)?)\s*(?:in|"|'')?)?`)
	reMeters      = regexp.MustCompile(`^(\d+(?:[.,]\d+)?)\s*m$`)
	reKilograms   = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*kg`)
	rePounds      = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:lbs?|pounds)`)
)

// heightCM reads a height as centimeters. Scrapers report "196", 196,
// "196 cm", "6 ft 5 in (196 cm)", "6'5\"" or "1.96 m". Bare numbers under 3
// are meters.
func heightCM(v any) (float64, bool, error) {
	s, ok := v.(string)
	if !ok {
		f, present, err := number(v)
		return meters(f), present, err
	}
	s = strings.ToLower(strings.TrimSpace(s))
	if m := reCentimeters.FindStringSubmatch(s); m != nil {
		return decimal(m[1]), true, nil
	}
	if m := reFeet.FindStringSubmatch(s); m != nil {
		feet, _ := strconv.Atoi(m[1])
		var inches float64
		if m[2] != "" {
			inches, _ = strconv.ParseFloat(m[2], 64)
		}
		return (float64(feet)*12 + inches) * 2.54, true, nil
	}
	if m := reMeters.FindStringSubmatch(s); m != nil {
		return decimal(m[1]) * 100, true, nil
	}
	f, present, err := number(s)
	if err != nil {
		return 0, false, fmt.Errorf("unrecognized height %q", v)
	}
	return meters(f), present, nil
}

// weightKG reads a weight as kilograms, converting pounds.
func weightKG(v any) (float64, bool, error) {
	s, ok := v.(string)
	if !ok {
		return number(v)
	}
	s = strings.ToLower(strings.TrimSpace(s))
	if m := reKilograms.FindStringSubmatch(s); m != nil {
		return decimal(m[1]), true, nil
	}
	if m := rePounds.FindStringSubmatch(s); m != nil {
		return decimal(m[1]) * 0.45359237, true, nil
	}
	f, present, err := number(s)
	if err != nil {
		return 0, false, fmt.Errorf("unrecognized weight %q", v)
	}
	return f, present, nil
}

func meters(f float64) float64 {
	if f > 0 && f < 3 {
		return f * 100
	}
	return f
}

func decimal(s string) float64 {
	f, _ := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	return f
}

// minutes reads minutes played given as a number or as "mm:ss".
func minutes(v any) (float64, bool, error) {
	s, ok := v.(string)
	if !ok || !strings.Contains(s, ":") {
		return number(v)
	}
	mm, ss, _ := strings.Cut(strings.TrimSpace(s), ":")
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, false, fmt.Errorf("bad minutes %q", s)
	}
	sec, err := strconv.Atoi(ss)
	if err != nil || sec < 0 || sec >= 60 {
		return 0, false, fmt.Errorf("bad minutes %q", s)
	}
	return math.Round((float64(m)+float64(sec)/60)*10) / 10, true, nil
}
