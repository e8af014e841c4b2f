package csvsource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kilianp07/evswap/core/fleet"
	"github.com/kilianp07/evswap/core/geo"
	"github.com/kilianp07/evswap/core/logger"
	"github.com/kilianp07/evswap/core/model"
)

// ErrUnsupportedFormat is returned when a file lacks a required column.
var ErrUnsupportedFormat = errors.New("unsupported csv format")

// Config locates the CSV files. File names are resolved relative to Dir.
type Config struct {
	Dir      string `json:"dir"`
	Branches string `json:"branches"`
	Vehicles string `json:"vehicles"`
	Trips    string `json:"trips"`
	// TimeZone interprets trip timestamps without an explicit offset.
	TimeZone string `json:"time_zone"`
}

// SetDefaults applies the default file names.
func (c *Config) SetDefaults() {
	if c.Branches == "" {
		c.Branches = "branches.csv"
	}
	if c.Vehicles == "" {
		c.Vehicles = "vehicles.csv"
	}
	if c.Trips == "" {
		c.Trips = "trips.csv"
	}
}

// Source reads the CSV files on every call.
type Source struct {
	branches string
	vehicles string
	trips    string
	loc      *time.Location
	log      logger.Logger
}

// New creates a Source. The files are not opened until they are read.
func New(cfg Config, log logger.Logger) (*Source, error) {
	cfg.SetDefaults()
	loc := time.UTC
	if cfg.TimeZone != "" {
		l, err := time.LoadLocation(cfg.TimeZone)
		if err != nil {
			return nil, fmt.Errorf("csv source time_zone: %w", err)
		}
		loc = l
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Source{
		branches: filepath.Join(cfg.Dir, cfg.Branches),
		vehicles: filepath.Join(cfg.Dir, cfg.Vehicles),
		trips:    filepath.Join(cfg.Dir, cfg.Trips),
		loc:      loc,
		log:      log,
	}, nil
}

// Branches reads branches.csv.
func (s *Source) Branches(ctx context.Context) ([]model.Branch, error) {
	var out []model.Branch
	err := s.readFile(ctx, s.branches, []string{"name", "latitude", "longitude"}, func(row int, r record) {
		lat, errLat := r.float("latitude")
		lng, errLng := r.float("longitude")
		b := model.Branch{
			Name:       r.get("name"),
			Location:   geo.Coordinate{Lat: lat, Lng: lng},
			VehicleIDs: ParseList(r.get("vehicles")),
		}
		if err := errors.Join(errLat, errLng, b.Validate()); err != nil {
			s.log.Debugf("%s row %d skipped: %v", s.branches, row, err)
			return
		}
		out = append(out, b)
	})
	return out, err
}

// Vehicles reads vehicles.csv.
func (s *Source) Vehicles(ctx context.Context) ([]model.Vehicle, error) {
	var out []model.Vehicle
	err := s.readFile(ctx, s.vehicles, []string{"id", "type", "range_km"}, func(row int, r record) {
		rng, err := r.float("range_km")
		v := model.Vehicle{
			ID:      r.get("id"),
			Type:    model.ParseVehicleType(r.get("type")),
			RangeKm: rng,
			TripIDs: ParseList(r.get("trips")),
		}
		if err := errors.Join(err, v.Validate()); err != nil {
			s.log.Debugf("%s row %d skipped: %v", s.vehicles, row, err)
			return
		}
		out = append(out, v)
	})
	return out, err
}

// Trips reads trips.csv. An unparseable timestamp drops that field only.
func (s *Source) Trips(ctx context.Context) ([]model.Trip, error) {
	var out []model.Trip
	err := s.readFile(ctx, s.trips, []string{"id", "vehicle_id"}, func(row int, r record) {
		t := model.Trip{ID: r.get("id"), VehicleID: r.get("vehicle_id")}
		if t.VehicleID == "" {
			s.log.Debugf("%s row %d skipped: vehicle_id is required", s.trips, row)
			return
		}
		t.Departure = s.timestamp(row, r, "departure_time")
		t.Arrival = s.timestamp(row, r, "arrival_time")
		out = append(out, t)
	})
	return out, err
}

// Close is a no-op; files are closed after each read.
func (s *Source) Close() error { return nil }

func (s *Source) timestamp(row int, r record, col string) *time.Time {
	raw := r.get(col)
	if raw == "" {
		return nil
	}
	t, err := fleet.ParseTime(raw, s.loc)
	if err != nil {
		s.log.Debugf("%s row %d: %s ignored: %v", s.trips, row, col, err)
		return nil
	}
	return &t
}

type record struct {
	cols  map[string]int
	cells []string
}

func (r record) get(col string) string {
	i, ok := r.cols[col]
	if !ok || i >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[i])
}

func (r record) float(col string) (float64, error) {
	raw := r.get(col)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", col)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", col, err)
	}
	return f, nil
}

// readFile streams path and calls fn for every data row. Row numbers are
// 1-based and count the header.
func (s *Source) readFile(ctx context.Context, path string, required []string, fn func(row int, r record)) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return readCSV(ctx, f, path, required, s.log, fn)
}

func readCSV(ctx context.Context, in io.Reader, name string, required []string, log logger.Logger, fn func(row int, r record)) error {
	cr := csv.NewReader(in)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%s: %w: empty file", name, ErrUnsupportedFormat)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := cols[h]; !dup {
			cols[h] = i
		}
	}
	for _, c := range required {
		if _, ok := cols[c]; !ok {
			return fmt.Errorf("%s: %w: missing column %q", name, ErrUnsupportedFormat, c)
		}
	}
	row := 1
	for {
		cells, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		row++
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				log.Debugf("%s row %d unreadable: %v", name, row, err)
				continue
			}
			return fmt.Errorf("%s: %w", name, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		fn(row, record{cols: cols, cells: cells})
	}
}
