// Package geo holds the coordinate types and great-circle helpers used by the
// branch selection engine.
package geo

import "math"

// EarthRadiusM is the mean Earth radius used by Distance, in meters.
const EarthRadiusM = 6_371_000.0

// Coordinate is a point in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Path is an ordered sequence of coordinates. The first element is the start
// of the route and the last one its end.
type Path []Coordinate

// Start returns the first point of the path.
func (p Path) Start() (Coordinate, bool) {
	if len(p) == 0 {
		return Coordinate{}, false
	}
	return p[0], true
}

// End returns the last point of the path.
func (p Path) End() (Coordinate, bool) {
	if len(p) == 0 {
		return Coordinate{}, false
	}
	return p[len(p)-1], true
}

// Distance returns the haversine distance between a and b in meters.
func Distance(a, b Coordinate) float64 {
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)

	h := sinLat*sinLat +
		math.Cos(toRadians(a.Lat))*math.Cos(toRadians(b.Lat))*sinLng*sinLng
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusM * c
}

// Valid reports whether the coordinate lies within the WGS-84 bounds.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lng, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
