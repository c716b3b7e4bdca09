package snapshots

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/agentstation/rostermap/pkg/constants"
	"github.com/agentstation/rostermap/pkg/errors"
)

// UnifiedPath returns the timestamped unified snapshot path for a league.
func UnifiedPath(dir, league string, at time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s_%s.json", league, constants.UnifiedSuffix, at.UTC().Format(constants.TimeFormatFilename)))
}

// LatestPath returns the path of a league's latest unified snapshot.
func LatestPath(dir, league string) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s_%s.json", league, constants.UnifiedSuffix, constants.LatestTag))
}

// SummaryPath returns the path of a league's latest summary snapshot.
func SummaryPath(dir, league string) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s_%s.json", league, constants.SummarySuffix, constants.LatestTag))
}

// ProvenancePath returns the path of a league's latest provenance file.
func ProvenancePath(dir, league string) string {
	return filepath.Join(dir, fmt.Sprintf("%s_provenance_%s.yaml", league, constants.LatestTag))
}

// timestampedGlob matches a league's timestamped unified snapshots but not
// the latest file.
func timestampedGlob(dir, league string) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s_[0-9]*.json", league, constants.UnifiedSuffix))
}

// Latest returns the lexicographically last file in dir matching pattern.
// Feed and snapshot file names embed sortable timestamps, so this is the most
// recent one.
func Latest(dir, pattern string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return "", errors.WrapIO("glob", filepath.Join(dir, pattern), err)
	}
	if len(matches) == 0 {
		return "", errors.NewNotFoundError("file", filepath.Join(dir, pattern))
	}
	sort.Strings(matches)
	return matches[len(matches)-1], nil
}
