// Package fleet indexes the vehicle and trip records needed to decide whether
// an electric vehicle can be handed out on a given day.
package fleet

import (
	"sort"
	"time"

	"github.com/kilianp07/evswap/core/model"
)

// EligibleEV is an electric vehicle whose range clears the configured
// threshold.
type EligibleEV struct {
	RangeKm float64  `json:"range_km"`
	TripIDs []string `json:"trip_ids,omitempty"`
}

// DateSet holds YYYY-MM-DD keys.
type DateSet map[string]struct{}

// Add inserts a date key.
func (s DateSet) Add(date string) { s[date] = struct{}{} }

// Contains reports whether date is present. A nil set contains nothing.
func (s DateSet) Contains(date string) bool {
	_, ok := s[date]
	return ok
}

// Sorted returns the keys in ascending order.
func (s DateSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// BuildEligibleEVIndex keeps the electric vehicles whose range is strictly
// greater than minRangeKm, keyed by vehicle id.
func BuildEligibleEVIndex(vehicles []model.Vehicle, minRangeKm float64) map[string]EligibleEV {
	idx := make(map[string]EligibleEV)
	for _, v := range vehicles {
		if !v.IsElectric() || !(v.RangeKm > minRangeKm) {
			continue
		}
		idx[v.ID] = EligibleEV{
			RangeKm: v.RangeKm,
			TripIDs: append([]string(nil), v.TripIDs...),
		}
	}
	return idx
}

// BuildBookedDateIndex maps each vehicle id to the dates on which it has a
// trip. Trips without any timestamp are skipped.
func BuildBookedDateIndex(trips []model.Trip, loc *time.Location) map[string]DateSet {
	idx := make(map[string]DateSet)
	for _, tr := range trips {
		ts, ok := TripTimestamp(tr)
		if !ok {
			continue
		}
		set, ok := idx[tr.VehicleID]
		if !ok {
			set = DateSet{}
			idx[tr.VehicleID] = set
		}
		set.Add(DateKey(ts, loc))
	}
	return idx
}

// TripTimestamp returns the instant a trip is booked on. The departure time
// wins; the arrival time is used only when no departure is recorded.
func TripTimestamp(tr model.Trip) (time.Time, bool) {
	for _, ts := range []*time.Time{tr.Departure, tr.Arrival} {
		if ts != nil && !ts.IsZero() {
			return *ts, true
		}
	}
	return time.Time{}, false
}
