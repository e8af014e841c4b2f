package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/evswap/core/geo"
	"github.com/kilianp07/evswap/core/planner"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `source:
  type: csv
  conf:
    dir: ../infra/csvsource/testdata
selection_log:
  backend: jsonl
  path: ` + filepath.Join(dir, "selections.log") + `
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestPlanCommand(t *testing.T) {
	cfg := writeConfig(t)
	route := geo.EncodePath(geo.Path{{Lat: 50.0, Lng: 14.0}, {Lat: 50.5, Lng: 14.5}, {Lat: 51.0, Lng: 15.0}})

	out := execute(t, "plan", "-c", cfg, "--env-file", filepath.Join(t.TempDir(), "none.env"), "--path", route, "--date", "2024-06-02")
	var res planner.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.True(t, res.Found)
	assert.Equal(t, "E1", res.Selection.EVID)

	out = execute(t, "history", "-c", cfg, "--ev", "E1", "-o", "csv")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], ",North,E1,")
}

func TestFleetLsCommand(t *testing.T) {
	cfg := writeConfig(t)
	out := execute(t, "fleet", "ls", "-c", cfg, "-o", "csv", "--range-threshold", "80")
	assert.Equal(t, "ev_id,branch,range_km,booked_dates\n"+
		"E1,North,150,2024-06-01;2024-06-03\n"+
		"E3,South,90,2024-06-05\n", out)
}

func TestBuildRequest(t *testing.T) {
	planFlags.date = ""
	planFlags.path = "abc"
	require.NoError(t, planCmd.Flags().Set("range-threshold", "0"))
	now := time.Date(2024, 6, 1, 23, 30, 0, 0, time.UTC)
	loc := time.FixedZone("UTC+2", 2*3600)

	req := buildRequest(planCmd, now, loc)
	assert.Equal(t, "2024-06-02", req.Date)
	assert.Equal(t, "abc", req.EncodedPath)
	require.NotNil(t, req.RangeThresholdKm)
	assert.Equal(t, 0.0, *req.RangeThresholdKm)
}
