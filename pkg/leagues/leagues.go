// Package leagues holds the per-league configuration that drives the single
// reconciliation pipeline: feed locations, team aliases and field aliases.
package leagues

import (
	"sort"
	"strings"

	"github.com/agentstation/rostermap/pkg/constants"
	"github.com/agentstation/rostermap/pkg/errors"
	"github.com/agentstation/rostermap/pkg/teams"
)

// Config is a set of configured leagues.
type Config struct {
	Leagues []League `yaml:"leagues" json:"leagues"`
}

// League configures one league's run.
type League struct {
	Code    string        `yaml:"code" json:"code"`
	Name    string        `yaml:"name" json:"name"`
	Country string        `yaml:"country,omitempty" json:"country,omitempty"`
	Season  string        `yaml:"season,omitempty" json:"season,omitempty"`
	Feeds   Feeds         `yaml:"feeds" json:"feeds"`
	Teams   []teams.Alias `yaml:"teams,omitempty" json:"teams,omitempty"`
	Fields  Fields        `yaml:"fields,omitempty" json:"fields,omitempty"`
}

// Feeds are glob patterns, relative to the data directory, locating each
// feed. When several files match, the lexicographically last one is used.
type Feeds struct {
	Stats      string `yaml:"stats" json:"stats"`
	Directory  string `yaml:"directory,omitempty" json:"directory,omitempty"`
	Enrichment string `yaml:"enrichment,omitempty" json:"enrichment,omitempty"`
}

// FieldAliases maps a canonical field name to the keys a feed may use for it,
// in order of preference.
type FieldAliases map[string][]string

// Fields holds field aliases per feed ("stats", "directory", "enrichment").
type Fields map[string]FieldAliases

// Find returns the league with the given code, ignoring case.
func (c *Config) Find(code string) (*League, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	for i := range c.Leagues {
		if strings.ToLower(c.Leagues[i].Code) == code {
			return &c.Leagues[i], nil
		}
	}
	return nil, errors.NewNotFoundError("league", code)
}

// Codes returns the configured league codes in file order.
func (c *Config) Codes() []string {
	codes := make([]string, 0, len(c.Leagues))
	for _, l := range c.Leagues {
		codes = append(codes, l.Code)
	}
	return codes
}

// Validate checks every league and that codes are unique.
func (c *Config) Validate() error {
	if len(c.Leagues) == 0 {
		return errors.NewValidationError("leagues", nil, "at least one league is required")
	}
	seen := make(map[string]bool, len(c.Leagues))
	for i := range c.Leagues {
		l := &c.Leagues[i]
		if err := l.Validate(); err != nil {
			return err
		}
		code := strings.ToLower(l.Code)
		if seen[code] {
			return errors.NewValidationError("code", l.Code, "duplicate league code")
		}
		seen[code] = true
	}
	return nil
}

// Validate checks that the league can be run.
func (l *League) Validate() error {
	if strings.TrimSpace(l.Code) == "" {
		return errors.NewValidationError("code", l.Code, "cannot be empty")
	}
	if strings.ContainsAny(l.Code, `/\ `) {
		return errors.NewValidationError("code", l.Code, "must not contain spaces or path separators")
	}
	if strings.TrimSpace(l.Name) == "" {
		return errors.NewValidationError("name", l.Name, "cannot be empty for league "+l.Code)
	}
	if strings.TrimSpace(l.Feeds.Stats) == "" {
		return errors.NewValidationError("feeds.stats", l.Feeds.Stats, "stat feed is required for league "+l.Code)
	}
	for feed := range l.Fields {
		switch feed {
		case constants.FeedStats, constants.FeedDirectory, constants.FeedEnrichment:
		default:
			return errors.NewValidationError("fields", feed, "unknown feed in league "+l.Code)
		}
	}
	for i, a := range l.Teams {
		if strings.TrimSpace(a.From) == "" || strings.TrimSpace(a.To) == "" {
			return errors.NewValidationError("teams", i, "alias needs both from and to in league "+l.Code)
		}
	}
	return nil
}

// TeamMapping builds the league's team name mapping.
func (l *League) TeamMapping() teams.Mapping {
	return teams.NewMapping(l.Teams...)
}

// Aliases returns the field aliases for one feed, never nil.
func (l *League) Aliases(feed string) FieldAliases {
	if a, ok := l.Fields[feed]; ok && a != nil {
		return a
	}
	return FieldAliases{}
}

// Pattern returns the glob for a feed, or "" when the league has none.
func (l *League) Pattern(feed string) string {
	switch feed {
	case constants.FeedStats:
		return l.Feeds.Stats
	case constants.FeedDirectory:
		return l.Feeds.Directory
	case constants.FeedEnrichment:
		return l.Feeds.Enrichment
	}
	return ""
}

// Keys returns the canonical field names with aliases, sorted.
func (a FieldAliases) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
