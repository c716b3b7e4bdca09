package snapshots

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/agentstation/rostermap/pkg/constants"
	"github.com/agentstation/rostermap/pkg/errors"
)

// Manifest tracks the last run of every league written to a directory.
type Manifest struct {
	Version     int                  `json:"version"`
	GeneratedAt time.Time            `json:"generated_at"`
	Retention   int                  `json:"retention"`
	Leagues     map[string]LeagueRun `json:"leagues"`
}

// LeagueRun records one league's most recent run.
type LeagueRun struct {
	RunID       string    `json:"run_id"`
	RunAt       time.Time `json:"run_at"`
	Status      string    `json:"status"`
	PlayerCount int       `json:"player_count"`
	Unchanged   bool      `json:"unchanged,omitempty"`
	Snapshots   []string  `json:"snapshots"`
}

func defaultManifest(retention int) Manifest {
	return Manifest{
		Version:   1,
		Retention: retention,
		Leagues:   map[string]LeagueRun{},
	}
}

// ReadManifest reads dir's manifest. A missing manifest is an empty one.
func ReadManifest(dir string) (Manifest, error) {
	m := defaultManifest(constants.DefaultRetention)
	path := filepath.Join(dir, constants.ManifestFile)
	data, err := os.ReadFile(path) //nolint:gosec // manifest lives in the output directory
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return m, errors.WrapIO("read", path, err)
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return defaultManifest(constants.DefaultRetention), errors.WrapParse("json", path, err)
	}
	if m.Leagues == nil {
		m.Leagues = map[string]LeagueRun{}
	}
	return m, nil
}

func writeManifest(dir string, m Manifest, now time.Time) error {
	m.GeneratedAt = now
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return writeAtomic(filepath.Join(dir, constants.ManifestFile), append(data, '\n'))
}
