package reconcile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/rostermap/internal/appcontext"
	"github.com/agentstation/rostermap/internal/snapshots"
	"github.com/agentstation/rostermap/pkg/errors"
	"github.com/agentstation/rostermap/pkg/logging"
)

func writeFeed(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func newApp(t *testing.T) (*appcontext.Mock, string) {
	t.Helper()
	dir := t.TempDir()
	writeFeed(t, dir, "acb_american_stats_20251102_090000.json",
		`{"players": [{"id": "L1", "name": "T. Kalinoski", "team": "unicaja", "ppg": 9.4}]}`)
	writeFeed(t, dir, "acb_american_players_20251102_090000.json",
		`[{"idPlayer": "D9", "strPlayer": "Tyler Kalinoski", "strTeam": "Baloncesto Málaga", "height_cm": 195}]`)
	writeFeed(t, dir, "lnb_american_stats_20251102_090000.json", `[]`)
	return &appcontext.Mock{DataPath: dir, ParallelismValue: 2}, dir
}

func TestRun(t *testing.T) {
	app, dir := newApp(t)

	reports, err := Run(context.Background(), app, []string{"acb", "bsl", "lnb", "ACB"}, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 3 leagues failed")
	require.Len(t, reports, 3)

	acb := reports[0]
	assert.Equal(t, "acb", acb.League)
	assert.Equal(t, "ok", acb.Status)
	assert.Equal(t, 1, acb.Players)
	assert.Equal(t, 1, acb.DirectoryMatched)
	assert.Equal(t, snapshots.LatestPath(dir, "acb"), acb.Snapshot)

	bsl := reports[1]
	assert.Equal(t, StatusFailed, bsl.Status)
	assert.Contains(t, bsl.Error, "stats feed for league bsl unavailable")

	lnb := reports[2]
	assert.Equal(t, "empty", lnb.Status)
	assert.Empty(t, lnb.Snapshot)
	_, err = os.Stat(snapshots.LatestPath(dir, "lnb"))
	assert.True(t, os.IsNotExist(err))

	doc, err := snapshots.ReadDocument(acb.Snapshot)
	require.NoError(t, err)
	require.Len(t, doc.Players, 1)
	p := doc.Players[0]
	assert.Equal(t, "dir:D9", p.ID)
	assert.Equal(t, "Tyler Kalinoski", p.Name)
	assert.Equal(t, "Baloncesto Málaga", p.Team)
	require.NotNil(t, p.Points)
	assert.Equal(t, 9.4, *p.Points)
	assert.Equal(t, 195, *p.HeightCM)
	assert.Equal(t, "Spanish ACB", doc.LeagueName)

	m, err := snapshots.ReadManifest(dir)
	require.NoError(t, err)
	assert.NotEmpty(t, m.Leagues["acb"].RunID)

	// A second run over the same feeds leaves the snapshot alone.
	reports, err = Run(context.Background(), app, []string{"acb"}, Options{})
	require.NoError(t, err)
	assert.True(t, reports[0].SnapshotUnchanged)
}

func TestRunDryRun(t *testing.T) {
	app, dir := newApp(t)

	reports, err := Run(context.Background(), app, []string{"acb"}, Options{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 1, reports[0].Players)
	assert.Empty(t, reports[0].Snapshot)

	matches, err := filepath.Glob(filepath.Join(dir, "acb_unified_players_*.json"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestRunAll(t *testing.T) {
	app, _ := newApp(t)

	reports, err := Run(context.Background(), app, nil, Options{All: true, DryRun: true})
	require.Error(t, err)
	assert.Len(t, reports, 7)
}

func TestRunUnknownLeague(t *testing.T) {
	app, _ := newApp(t)

	reports, err := Run(context.Background(), app, []string{"nba"}, Options{})
	assert.Nil(t, reports)
	assert.True(t, errors.IsNotFound(err))
}

func TestRunSharesRunID(t *testing.T) {
	app, dir := newApp(t)
	writeFeed(t, dir, "lnb_american_stats_20251103_090000.json", `[{"code": "N1", "name": "Jordan Loyd", "team": "Monaco"}]`)

	ctx := logging.WithRunID(context.Background(), "run-42")
	_, err := Run(ctx, app, []string{"acb", "lnb"}, Options{})
	require.NoError(t, err)

	m, err := snapshots.ReadManifest(dir)
	require.NoError(t, err)
	assert.Equal(t, "run-42", m.Leagues["acb"].RunID)
	assert.Equal(t, "run-42", m.Leagues["lnb"].RunID)
}

func TestRunCanceled(t *testing.T) {
	app, _ := newApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reports, err := Run(ctx, app, []string{"acb"}, Options{})
	require.Error(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, StatusFailed, reports[0].Status)
}

func TestCommandRequiresLeague(t *testing.T) {
	app, _ := newApp(t)
	cmd := NewCommand(app)
	cmd.SetArgs([]string{})
	cmd.SetOut(os.Stderr)
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--all")
}
