package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/evswap/config"
	"github.com/kilianp07/evswap/core/factory"
	"github.com/kilianp07/evswap/core/geo"
	"github.com/kilianp07/evswap/core/planner"
	"github.com/kilianp07/evswap/core/selectionlog"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{
		Source: factory.ModuleConfig{Type: "csv", Conf: map[string]any{"dir": "../infra/csvsource/testdata"}},
		SelectionLog: config.SelectionLogConfig{
			Backend: "jsonl",
			Path:    filepath.Join(t.TempDir(), "selections.log"),
		},
	}
	cfg.HTTP.Addr = "127.0.0.1:0"
	cfg.SetDefaults()
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestService_PlanFromCSV(t *testing.T) {
	svc, err := New(testConfig(t))
	require.NoError(t, err)
	defer func() { assert.NoError(t, svc.Close()) }()

	route := geo.Path{{Lat: 50.0, Lng: 14.0}, {Lat: 50.5, Lng: 14.5}, {Lat: 51.0, Lng: 15.0}}
	ctx := context.Background()
	res, err := svc.Planner.Plan(ctx, planner.Request{EncodedPath: geo.EncodePath(route), Date: "2024-06-02"})
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.Equal(t, "North", res.Selection.BranchName)
	assert.Equal(t, "E1", res.Selection.EVID)

	// E1 is booked on the 3rd.
	res, err = svc.Planner.Plan(ctx, planner.Request{EncodedPath: geo.EncodePath(route), Date: "2024-06-03"})
	require.NoError(t, err)
	assert.False(t, res.Found)

	recs, err := svc.Planner.History(ctx, selectionlog.Query{EVID: "E1"})
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestService_UnknownSource(t *testing.T) {
	cfg := testConfig(t)
	cfg.Source.Type = "mongo"
	_, err := New(cfg)
	assert.ErrorContains(t, err, "mongo")
}

func TestService_RunStopsOnCancel(t *testing.T) {
	svc, err := New(testConfig(t))
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
