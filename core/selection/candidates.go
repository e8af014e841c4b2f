// Package selection joins nearby branches with the eligible fleet and picks
// the best swap point.
package selection

import (
	"github.com/kilianp07/evswap/core/fleet"
	"github.com/kilianp07/evswap/core/geo"
	"github.com/kilianp07/evswap/core/model"
	"github.com/kilianp07/evswap/core/proximity"
)

// Candidate pairs a nearby branch with one of its eligible electric vehicles.
type Candidate struct {
	BranchName          string         `json:"branch_name"`
	BranchLocation      geo.Coordinate `json:"branch_location"`
	DistanceToRoute     float64        `json:"distance_to_route_m"`
	MinDistanceLocation geo.Coordinate `json:"min_distance_location"`
	EVID                string         `json:"ev_id"`
	EVTripIDs           []string       `json:"ev_trip_ids,omitempty"`
}

// BuildCandidates emits one candidate per eligible electric vehicle held by a
// nearby branch. Branches are visited in input order, vehicles in inventory
// order.
func BuildCandidates(nearby []proximity.NearbyBranch, branches []model.Branch, evIndex map[string]fleet.EligibleEV) []Candidate {
	byName := make(map[string]proximity.NearbyBranch, len(nearby))
	for _, n := range nearby {
		if _, dup := byName[n.Name]; !dup {
			byName[n.Name] = n
		}
	}

	res := []Candidate{}
	for _, b := range branches {
		n, ok := byName[b.Name]
		if !ok {
			continue
		}
		for _, id := range b.ElectricVehicleIDs() {
			ev, ok := evIndex[id]
			if !ok {
				continue
			}
			res = append(res, Candidate{
				BranchName:          b.Name,
				BranchLocation:      b.Location,
				DistanceToRoute:     n.DistanceToRoute,
				MinDistanceLocation: n.MinDistanceLocation,
				EVID:                id,
				EVTripIDs:           append([]string(nil), ev.TripIDs...),
			})
		}
	}
	return res
}

// FilterAvailable drops the candidates whose vehicle is booked on
// targetDate.
func FilterAvailable(cands []Candidate, booked map[string]fleet.DateSet, targetDate string) []Candidate {
	res := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if booked[c.EVID].Contains(targetDate) {
			continue
		}
		res = append(res, c)
	}
	return res
}
