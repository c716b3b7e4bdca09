package players

import "strings"

const (
	directoryPrefix = "dir:"
	leaguePrefix    = "lg:"
)

// DirectoryKey is the stable id of a player confidently matched to the directory.
func DirectoryKey(directoryID string) string {
	return directoryPrefix + directoryID
}

// LeagueKey is the stable id of a player known only to its league feed.
func LeagueKey(league, leagueID string) string {
	return leaguePrefix + league + ":" + leagueID
}

// FromDirectory reports whether id was derived from a directory identifier.
func FromDirectory(id string) bool {
	return strings.HasPrefix(id, directoryPrefix)
}
