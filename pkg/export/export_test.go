package export

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/evswap/core/planner"
	"github.com/kilianp07/evswap/core/selection"
	"github.com/kilianp07/evswap/core/selectionlog"
)

func TestWriteFleetCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteFleetCSV(&buf, []planner.FleetEntry{
		{ID: "E1", Branch: "North", RangeKm: 150.5, BookedDates: []string{"2024-06-01", "2024-06-03"}},
		{ID: "E2", RangeKm: 200},
	})
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		"ev_id,branch,range_km,booked_dates",
		"E1,North,150.5,2024-06-01;2024-06-03",
		"E2,,200,",
	}, lines)
}

func TestWriteSelectionsCSV(t *testing.T) {
	var buf bytes.Buffer
	ts := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	err := WriteSelectionsCSV(&buf, []selectionlog.Record{
		{ID: "a", Timestamp: ts, Date: "2024-06-01", Found: true, BranchName: "North", EVID: "E1", Score: selection.JSONScore(math.Inf(1)), NearbyCount: 2, CandidateCount: 2, AvailableCount: 1},
		{ID: "b", Timestamp: ts, Date: "2024-06-01", Error: "route unavailable, quota"},
	})
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "a,2024-06-01T09:00:00Z,2024-06-01,true,North,E1,Inf,2,2,1,", lines[1])
	assert.Equal(t, `b,2024-06-01T09:00:00Z,2024-06-01,false,,,0,0,0,0,"route unavailable, quota"`, lines[2])
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, map[string]int{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}
