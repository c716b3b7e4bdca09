package version

import (
	"bytes"
	"encoding/json"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/rostermap/internal/appcontext"
)

func run(t *testing.T, app appcontext.Interface) string {
	t.Helper()
	var buf bytes.Buffer
	cmd := NewCommand(app)
	cmd.SetOut(&buf)
	cmd.SetArgs(nil)
	require.NoError(t, cmd.Execute())
	return buf.String()
}

func TestVersionText(t *testing.T) {
	app := &appcontext.Mock{
		Format:      "table",
		VersionFunc: func() string { return "v1.2.0" },
	}
	out := run(t, app)
	assert.Contains(t, out, "rostermap v1.2.0\n")
	assert.Contains(t, out, "built by: test")
	assert.Contains(t, out, runtime.Version())
}

func TestVersionJSON(t *testing.T) {
	out := run(t, &appcontext.Mock{Format: "JSON"})

	var info Info
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "dev", info.Version)
	assert.Equal(t, "unknown", info.Commit)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
}
