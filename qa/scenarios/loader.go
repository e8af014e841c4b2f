package scenarios

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/evswap/core/fleet"
	"github.com/kilianp07/evswap/core/geo"
	"github.com/kilianp07/evswap/core/model"
)

type BranchDef struct {
	Name     string   `yaml:"name"`
	Lat      float64  `yaml:"lat"`
	Lng      float64  `yaml:"lng"`
	Vehicles []string `yaml:"vehicles"`
}

func (b BranchDef) ToModel() model.Branch {
	return model.Branch{Name: b.Name, Location: geo.Coordinate{Lat: b.Lat, Lng: b.Lng}, VehicleIDs: b.Vehicles}
}

type VehicleDef struct {
	ID      string   `yaml:"id"`
	Type    string   `yaml:"type"`
	RangeKm float64  `yaml:"range_km"`
	Trips   []string `yaml:"trips,omitempty"`
}

func (v VehicleDef) ToModel() model.Vehicle {
	return model.Vehicle{ID: v.ID, Type: model.ParseVehicleType(v.Type), RangeKm: v.RangeKm, TripIDs: v.Trips}
}

type TripDef struct {
	ID        string `yaml:"id"`
	VehicleID string `yaml:"vehicle_id"`
	Departure string `yaml:"departure_time,omitempty"`
	Arrival   string `yaml:"arrival_time,omitempty"`
}

func (t TripDef) ToModel() (model.Trip, error) {
	tr := model.Trip{ID: t.ID, VehicleID: t.VehicleID}
	var err error
	if tr.Departure, err = parseOptional(t.Departure); err != nil {
		return tr, fmt.Errorf("trip %s departure: %w", t.ID, err)
	}
	if tr.Arrival, err = parseOptional(t.Arrival); err != nil {
		return tr, fmt.Errorf("trip %s arrival: %w", t.ID, err)
	}
	return tr, nil
}

func parseOptional(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	ts, err := fleet.ParseTime(raw, time.UTC)
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

type Expected struct {
	Found      bool   `yaml:"found"`
	Branch     string `yaml:"branch,omitempty"`
	EV         string `yaml:"ev,omitempty"`
	Nearby     *int   `yaml:"nearby,omitempty"`
	Candidates *int   `yaml:"candidates,omitempty"`
}

type Scenario struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description,omitempty"`
	Path        [][2]float64 `yaml:"path"`
	Date        string       `yaml:"date"`
	LateralM    float64      `yaml:"lateral_threshold_m"`
	RangeKm     float64      `yaml:"range_threshold_km"`
	Branches    []BranchDef  `yaml:"branches"`
	Vehicles    []VehicleDef `yaml:"vehicles"`
	Trips       []TripDef    `yaml:"trips,omitempty"`
	// Permute re-runs the scenario with the branch order reversed.
	Permute  bool     `yaml:"permute,omitempty"`
	Expected Expected `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if sc.Name == "" {
		return nil, fmt.Errorf("%s: scenario name is required", path)
	}
	return &sc, nil
}

// EncodedPath returns the scenario route as a polyline.
func (sc *Scenario) EncodedPath() string {
	p := make(geo.Path, len(sc.Path))
	for i, c := range sc.Path {
		p[i] = geo.Coordinate{Lat: c[0], Lng: c[1]}
	}
	return geo.EncodePath(p)
}

// Sources serves the scenario data to the planner.
type Sources struct {
	branches []model.Branch
	vehicles []model.Vehicle
	trips    []model.Trip
}

// NewSources converts the scenario definitions. reverse flips the branch
// order.
func (sc *Scenario) NewSources(reverse bool) (*Sources, error) {
	s := &Sources{}
	for _, b := range sc.Branches {
		s.branches = append(s.branches, b.ToModel())
	}
	if reverse {
		for i, j := 0, len(s.branches)-1; i < j; i, j = i+1, j-1 {
			s.branches[i], s.branches[j] = s.branches[j], s.branches[i]
		}
	}
	for _, v := range sc.Vehicles {
		s.vehicles = append(s.vehicles, v.ToModel())
	}
	for _, t := range sc.Trips {
		tr, err := t.ToModel()
		if err != nil {
			return nil, err
		}
		s.trips = append(s.trips, tr)
	}
	return s, nil
}

func (s *Sources) Branches(context.Context) ([]model.Branch, error) { return s.branches, nil }
func (s *Sources) Vehicles(context.Context) ([]model.Vehicle, error) { return s.vehicles, nil }
func (s *Sources) Trips(context.Context) ([]model.Trip, error)       { return s.trips, nil }
func (s *Sources) Close() error                                      { return nil }
