// Package provenance records which feed supplied each field of a unified
// player, and which competing values lost. Entries carry no timestamps so two
// runs over the same inputs produce identical provenance.
package provenance

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/rostermap/pkg/authority"
	"github.com/agentstation/rostermap/pkg/constants"
	"github.com/agentstation/rostermap/pkg/errors"
)

// Provenance tracks the origin of a field value.
type Provenance struct {
	Source   authority.Source `json:"source" yaml:"source"`
	Field    string           `json:"field" yaml:"field"`
	Value    any              `json:"value" yaml:"value"`
	Priority int              `json:"priority" yaml:"priority"`
	Reason   string           `json:"reason,omitempty" yaml:"reason,omitempty"`
	// Rejected lists lower priority sources that held a different value.
	Rejected []Candidate `json:"rejected,omitempty" yaml:"rejected,omitempty"`
}

// Candidate is a value a source offered for a field.
type Candidate struct {
	Source authority.Source `json:"source" yaml:"source"`
	Value  any              `json:"value" yaml:"value"`
}

// Map holds provenance per player id and field.
type Map map[string]map[string]Provenance

// Tracker manages provenance tracking during reconciliation.
type Tracker interface {
	// Track records provenance for a field of a player
	Track(playerID, field string, p Provenance)

	// FindByField retrieves provenance for a single field
	FindByField(playerID, field string) (Provenance, bool)

	// FindByPlayer retrieves all provenance for a player
	FindByPlayer(playerID string) map[string]Provenance

	// Map returns a copy of the complete provenance map
	Map() Map

	// Clear removes all provenance data
	Clear()
}

type tracker struct {
	provenance Map
	enabled    bool
}

// NewTracker creates a new provenance tracker. A disabled tracker records nothing.
func NewTracker(enabled bool) Tracker {
	return &tracker{
		provenance: make(Map),
		enabled:    enabled,
	}
}

func (t *tracker) Track(playerID, field string, p Provenance) {
	if !t.enabled {
		return
	}
	if p.Field == "" {
		p.Field = field
	}
	fields, ok := t.provenance[playerID]
	if !ok {
		fields = make(map[string]Provenance)
		t.provenance[playerID] = fields
	}
	fields[field] = p
}

func (t *tracker) FindByField(playerID, field string) (Provenance, bool) {
	p, ok := t.provenance[playerID][field]
	return p, ok
}

func (t *tracker) FindByPlayer(playerID string) map[string]Provenance {
	fields, ok := t.provenance[playerID]
	if !ok {
		return nil
	}
	out := make(map[string]Provenance, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}

func (t *tracker) Map() Map {
	if !t.enabled {
		return nil
	}
	out := make(Map, len(t.provenance))
	for id, fields := range t.provenance {
		out[id] = make(map[string]Provenance, len(fields))
		for k, v := range fields {
			out[id][k] = v
		}
	}
	return out
}

func (t *tracker) Clear() {
	t.provenance = make(Map)
}

// Conflicts returns the player/field pairs where a losing source disagreed,
// formatted as "playerID:field" and sorted.
func (m Map) Conflicts() []string {
	var out []string
	for id, fields := range m {
		for field, p := range fields {
			if len(p.Rejected) > 0 {
				out = append(out, id+":"+field)
			}
		}
	}
	sort.Strings(out)
	return out
}

// Report renders a human-readable provenance report, sorted by player and field.
func (m Map) Report() string {
	var sb strings.Builder

	sb.WriteString("Provenance Report\n")
	sb.WriteString("=================\n\n")

	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		sb.WriteString(id)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat("-", 40))
		sb.WriteString("\n")

		fields := make([]string, 0, len(m[id]))
		for field := range m[id] {
			fields = append(fields, field)
		}
		sort.Strings(fields)

		for _, field := range fields {
			p := m[id][field]
			fmt.Fprintf(&sb, "  %s: %v (from %s)\n", field, p.Value, p.Source)
			for _, c := range p.Rejected {
				fmt.Fprintf(&sb, "    rejected %v from %s\n", c.Value, c.Source)
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// File is the on-disk form of a league's provenance.
type File struct {
	League     string `yaml:"league"`
	Provenance Map    `yaml:"provenance"`
}

// Marshal encodes f as YAML.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}

// Save writes f as YAML to path.
func Save(path string, f *File) error {
	data, err := Marshal(f)
	if err != nil {
		return errors.WrapParse("yaml", path, err)
	}
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

// Load reads a provenance file. It returns nil, nil if the file doesn't exist.
func Load(path string) (*File, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path comes from the output directory
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	return &f, nil
}
