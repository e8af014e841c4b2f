// Package proximity selects the sites lying close to a route.
//
// Lateral distance is approximated as the distance to the nearest sampled path
// point, not a projection on the path segments. Sites lying too far along the
// straight start to end axis are discarded before the lateral scan.
package proximity

import "github.com/kilianp07/evswap/core/geo"

// ForwardProgressRatio bounds how far from the start, relative to the straight
// start to end span, a site may lie.
const ForwardProgressRatio = 0.6

// Site is a named location evaluated against a route.
type Site struct {
	Name     string
	Location geo.Coordinate
}

// NearbyBranch is a site that passed both the forward-progress bound and the
// lateral threshold.
type NearbyBranch struct {
	Name                string         `json:"name"`
	DistanceToRoute     float64        `json:"distance_to_route_m"`
	MinDistanceLocation geo.Coordinate `json:"min_distance_location"`
}

// FindNearby returns the sites within lateralThresholdM of path, in input
// order. A path with fewer than two points yields no result.
func FindNearby(lateralThresholdM float64, path geo.Path, sites []Site) []NearbyBranch {
	res := []NearbyBranch{}
	if len(path) < 2 {
		return res
	}
	start := path[0]
	end := path[len(path)-1]
	maxProgress := ForwardProgressRatio * geo.Distance(start, end)

	for _, s := range sites {
		if geo.Distance(start, s.Location) > maxProgress {
			continue
		}
		nearest, dist := NearestPoint(path, s.Location)
		if dist > lateralThresholdM {
			continue
		}
		res = append(res, NearbyBranch{
			Name:                s.Name,
			DistanceToRoute:     dist,
			MinDistanceLocation: nearest,
		})
	}
	return res
}

// NearestPoint returns the path point closest to c and its distance in
// meters. Ties keep the earliest point. path must not be empty.
func NearestPoint(path geo.Path, c geo.Coordinate) (geo.Coordinate, float64) {
	best := path[0]
	bestDist := geo.Distance(c, best)
	for _, p := range path[1:] {
		if d := geo.Distance(c, p); d < bestDist {
			best, bestDist = p, d
		}
	}
	return best, bestDist
}
