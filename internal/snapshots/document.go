package snapshots

import (
	"encoding/json"
	"os"

	"github.com/agentstation/rostermap/pkg/errors"
	"github.com/agentstation/rostermap/pkg/players"
)

// Document is the JSON written for a league: metadata plus one record per
// tracked player, in stat feed order.
type Document struct {
	ExportDate  string           `json:"export_date"`
	League      string           `json:"league"`
	LeagueName  string           `json:"league_name,omitempty"`
	Season      string           `json:"season,omitempty"`
	Status      string           `json:"status"`
	PlayerCount int              `json:"player_count"`
	Players     []players.Player `json:"players"`
}

// summary returns the document with game logs removed.
func (d Document) summary() Document {
	out := d
	out.Players = make([]players.Player, 0, len(d.Players))
	for _, p := range d.Players {
		out.Players = append(out.Players, p.Summary())
	}
	return out
}

func (d Document) marshal() ([]byte, error) {
	if d.Players == nil {
		d.Players = []players.Player{}
	}
	d.PlayerCount = len(d.Players)
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// sameContent reports whether two documents differ only in export date.
func sameContent(a, b Document) bool {
	a.ExportDate, b.ExportDate = "", ""
	ab, err := a.marshal()
	if err != nil {
		return false
	}
	bb, err := b.marshal()
	if err != nil {
		return false
	}
	return string(ab) == string(bb)
}

// ReadDocument reads a unified or summary snapshot.
func ReadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // snapshot paths come from configuration
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("snapshot", path)
		}
		return nil, errors.WrapIO("read", path, err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.WrapParse("json", path, err)
	}
	return &doc, nil
}
