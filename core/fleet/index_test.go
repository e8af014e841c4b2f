package fleet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/evswap/core/model"
)

func ptr(t time.Time) *time.Time { return &t }

func TestBuildEligibleEVIndex(t *testing.T) {
	vehicles := []model.Vehicle{
		{ID: "E1", Type: model.VehicleElectric, RangeKm: 150, TripIDs: []string{"t1"}},
		{ID: "E2", Type: model.VehicleElectric, RangeKm: 100},
		{ID: "E3", Type: model.VehicleElectric, RangeKm: 80},
		{ID: "C1", Type: model.VehicleOther, RangeKm: 600},
	}
	idx := BuildEligibleEVIndex(vehicles, 100)

	require.Len(t, idx, 1)
	assert.Equal(t, 150.0, idx["E1"].RangeKm)
	assert.Equal(t, []string{"t1"}, idx["E1"].TripIDs)
	_, ok := idx["E2"]
	assert.False(t, ok, "range equal to the threshold is not eligible")
}

func TestBuildEligibleEVIndex_ThresholdMonotonicity(t *testing.T) {
	vehicles := []model.Vehicle{
		{ID: "E1", Type: model.VehicleElectric, RangeKm: 320},
		{ID: "E2", Type: model.VehicleElectric, RangeKm: 150},
		{ID: "E3", Type: model.VehicleElectric, RangeKm: 100},
		{ID: "E4", Type: model.VehicleElectric, RangeKm: 40},
		{ID: "E5", Type: model.VehicleElectric},
		{ID: "C1", Type: model.VehicleOther, RangeKm: 800},
	}
	prev := BuildEligibleEVIndex(vehicles, 0)
	require.Len(t, prev, 4)
	for _, th := range []float64{10, 40, 99.9, 100, 150, 200, 320, 1000} {
		idx := BuildEligibleEVIndex(vehicles, th)
		for id := range idx {
			_, ok := prev[id]
			assert.True(t, ok, "threshold %v added %s", th, id)
		}
		assert.LessOrEqual(t, len(idx), len(prev), "threshold %v grew the index", th)
		prev = idx
	}
	assert.Empty(t, prev)
}

func TestBuildEligibleEVIndex_DoesNotAliasInput(t *testing.T) {
	vehicles := []model.Vehicle{{ID: "E1", Type: model.VehicleElectric, RangeKm: 200, TripIDs: []string{"t1"}}}
	idx := BuildEligibleEVIndex(vehicles, 100)
	idx["E1"].TripIDs[0] = "changed"
	assert.Equal(t, "t1", vehicles[0].TripIDs[0])
}

func TestTripTimestamp_Priority(t *testing.T) {
	dep := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	arr := time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC)

	ts, ok := TripTimestamp(model.Trip{Departure: ptr(dep), Arrival: ptr(arr)})
	require.True(t, ok)
	assert.Equal(t, dep, ts)

	ts, ok = TripTimestamp(model.Trip{Arrival: ptr(arr)})
	require.True(t, ok)
	assert.Equal(t, arr, ts)

	_, ok = TripTimestamp(model.Trip{ID: "empty"})
	assert.False(t, ok)
}

func TestBuildBookedDateIndex(t *testing.T) {
	trips := []model.Trip{
		{ID: "t1", VehicleID: "E1", Departure: ptr(time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC))},
		{ID: "t2", VehicleID: "E1", Arrival: ptr(time.Date(2024, 6, 3, 23, 30, 0, 0, time.UTC))},
		{ID: "t3", VehicleID: "E2"},
	}
	idx := BuildBookedDateIndex(trips, time.UTC)

	assert.Equal(t, []string{"2024-06-01", "2024-06-03"}, idx["E1"].Sorted())
	assert.False(t, idx["E2"].Contains("2024-06-01"))
	assert.False(t, idx["E9"].Contains("2024-06-01"))
}

func TestBuildBookedDateIndex_TimeZone(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	trips := []model.Trip{
		{ID: "t1", VehicleID: "E1", Departure: ptr(time.Date(2024, 6, 1, 23, 0, 0, 0, time.UTC))},
	}
	idx := BuildBookedDateIndex(trips, loc)
	assert.True(t, idx["E1"].Contains("2024-06-02"))
	assert.False(t, idx["E1"].Contains("2024-06-01"))
}
