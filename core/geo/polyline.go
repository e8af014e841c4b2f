package geo

import (
	"fmt"
	"math"

	"googlemaps.github.io/maps"
)

const (
	polylineOffset   = 63
	polylineContinue = 0x20
	polylineScale    = 1e5
)

// DecodePath decodes a polyline encoded with the standard signed 1e-5
// precision codec. An empty string yields an empty path.
func DecodePath(encoded string) (Path, error) {
	if encoded == "" {
		return Path{}, nil
	}
	if err := checkPolyline(encoded); err != nil {
		return nil, fmt.Errorf("decode polyline: %w", err)
	}
	points, err := maps.DecodePolyline(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode polyline: %w", err)
	}
	path := make(Path, len(points))
	for i, p := range points {
		c := Coordinate{Lat: snap(p.Lat), Lng: snap(p.Lng)}
		if !c.Valid() {
			return nil, fmt.Errorf("decode polyline: point %d out of range: %v", i, c)
		}
		path[i] = c
	}
	return path, nil
}

// checkPolyline rejects characters outside the codec alphabet and encodings
// that end in the middle of a value or of a coordinate pair. The decoder
// itself silently drops such tails.
func checkPolyline(encoded string) error {
	values := 0
	open := false
	for i := 0; i < len(encoded); i++ {
		ch := encoded[i]
		if ch < polylineOffset || ch > 126 {
			return fmt.Errorf("invalid character %q at offset %d", ch, i)
		}
		open = ch-polylineOffset >= polylineContinue
		if !open {
			values++
		}
	}
	if open {
		return fmt.Errorf("truncated value at end of input")
	}
	if values%2 != 0 {
		return fmt.Errorf("odd number of values (%d)", values)
	}
	return nil
}

// EncodePath is the inverse of DecodePath. Coordinates are rounded to the
// nearest 1e-5 degree.
func EncodePath(path Path) string {
	points := make([]maps.LatLng, len(path))
	for i, c := range path {
		points[i] = maps.LatLng{Lat: nudge(c.Lat), Lng: nudge(c.Lng)}
	}
	return maps.Encode(points)
}

// snap removes the error left by scaling the integer units back to degrees,
// so a decoded point equals the decimal coordinate that was encoded.
func snap(v float64) float64 {
	return math.Round(v*polylineScale) / polylineScale
}

// nudge moves v half a unit away from zero so the encoder's truncation
// becomes rounding.
func nudge(v float64) float64 {
	return v + math.Copysign(0.5/polylineScale, v)
}
