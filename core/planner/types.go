package planner

import (
	"context"
	"errors"
	"time"

	"github.com/kilianp07/evswap/core/geo"
	"github.com/kilianp07/evswap/core/model"
	"github.com/kilianp07/evswap/core/selection"
)

var (
	// ErrInvalidRequest reports a request that cannot be planned as given.
	ErrInvalidRequest = errors.New("invalid plan request")
	// ErrSourceUnavailable reports a fleet data source failure.
	ErrSourceUnavailable = errors.New("data source unavailable")
	// ErrRouteUnavailable reports a directions provider failure.
	ErrRouteUnavailable = errors.New("route unavailable")
)

// Sources loads the fleet data for one request. Data is read fresh on every
// call and never cached across requests.
type Sources interface {
	Branches(ctx context.Context) ([]model.Branch, error)
	Vehicles(ctx context.Context) ([]model.Vehicle, error)
	Trips(ctx context.Context) ([]model.Trip, error)
	Close() error
}

// Route is a resolved road route.
type Route struct {
	EncodedPath string
	DistanceM   float64
	Duration    time.Duration
}

// RouteProvider resolves a route between two places. Places are free-form
// addresses or "lat,lng" pairs.
type RouteProvider interface {
	Route(ctx context.Context, origin, destination string) (Route, error)
}

// Request describes a swap plan to compute. EncodedPath wins over
// Origin/Destination when both are set. Nil thresholds fall back to Config.
type Request struct {
	EncodedPath            string   `json:"encoded_path,omitempty"`
	Origin                 string   `json:"origin,omitempty"`
	Destination            string   `json:"destination,omitempty"`
	Date                   string   `json:"date"`
	LateralThresholdMeters *float64 `json:"lateral_threshold_m,omitempty"`
	RangeThresholdKm       *float64 `json:"range_threshold_km,omitempty"`
}

// Selection is the chosen branch and vehicle.
type Selection struct {
	BranchName            string              `json:"branch_name"`
	Location              geo.Coordinate      `json:"location"`
	EVID                  string              `json:"ev_id"`
	EVRangeKm             float64             `json:"ev_range_km"`
	DistanceToRoute       float64             `json:"distance_to_route_m"`
	DistanceToMinLocation float64             `json:"distance_to_min_location_m"`
	Score                 selection.JSONScore `json:"score"`
}

// Leg is one part of the trip, driven with a single vehicle.
type Leg struct {
	From        string  `json:"from"`
	To          string  `json:"to"`
	Vehicle     string  `json:"vehicle"`
	DistanceM   float64 `json:"distance_m"`
	DurationS   float64 `json:"duration_s"`
	EncodedPath string  `json:"encoded_path,omitempty"`
}

// Vehicle labels used on legs.
const (
	LegGasoline = "gasoline"
	LegElectric = "electric"
)

// Result is the outcome of a plan. Selection is nil when Found is false.
type Result struct {
	ID             string     `json:"id"`
	Found          bool       `json:"found"`
	Date           string     `json:"date"`
	Selection      *Selection `json:"selection,omitempty"`
	NearbyCount    int        `json:"nearby_count"`
	CandidateCount int        `json:"candidate_count"`
	AvailableCount int        `json:"available_count"`
	Legs           []Leg      `json:"legs,omitempty"`
}

// FleetEntry describes an eligible electric vehicle and its bookings.
type FleetEntry struct {
	ID          string   `json:"id"`
	Branch      string   `json:"branch,omitempty"`
	RangeKm     float64  `json:"range_km"`
	BookedDates []string `json:"booked_dates"`
}
