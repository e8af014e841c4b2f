// Package postgres reads branches, vehicles and trips from PostgreSQL.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kilianp07/evswap/core/logger"
	"github.com/kilianp07/evswap/core/model"
)

// Schema creates the tables read by Source.
const Schema = `
CREATE TABLE IF NOT EXISTS branches (
    name        TEXT PRIMARY KEY,
    latitude    DOUBLE PRECISION NOT NULL,
    longitude   DOUBLE PRECISION NOT NULL,
    vehicle_ids TEXT[] NOT NULL DEFAULT '{}'
);
CREATE TABLE IF NOT EXISTS vehicles (
    id       TEXT PRIMARY KEY,
    type     TEXT NOT NULL,
    range_km DOUBLE PRECISION NOT NULL,
    trip_ids TEXT[] NOT NULL DEFAULT '{}'
);
CREATE TABLE IF NOT EXISTS trips (
    id             TEXT PRIMARY KEY,
    vehicle_id     TEXT NOT NULL,
    departure_time TIMESTAMPTZ NULL,
    arrival_time   TIMESTAMPTZ NULL
);`

// Config holds the connection settings.
type Config struct {
	DSN string `json:"dsn"`
	// QueryTimeout bounds each query. Zero means no extra bound.
	QueryTimeout time.Duration `json:"query_timeout"`
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.DSN == "" {
		return fmt.Errorf("postgres source: dsn is required")
	}
	return nil
}

// Source implements planner.Sources over a pgx connection pool.
type Source struct {
	db      *pgxpool.Pool
	timeout time.Duration
	log     logger.Logger
}

// Open connects to the database described by cfg.
func Open(ctx context.Context, cfg Config, log logger.Logger) (*Source, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	db, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres source: %w", err)
	}
	return NewSource(db, cfg.QueryTimeout, log), nil
}

// NewSource wraps an existing pool.
func NewSource(db *pgxpool.Pool, timeout time.Duration, log logger.Logger) *Source {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Source{db: db, timeout: timeout, log: log}
}

// Migrate creates the tables when they do not exist.
func (s *Source) Migrate(ctx context.Context) error {
	_, err := s.db.Exec(ctx, Schema)
	return err
}

func (s *Source) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// Branches returns every branch with a valid location, ordered by name.
func (s *Source) Branches(ctx context.Context) ([]model.Branch, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	rows, err := s.db.Query(ctx, `SELECT name, latitude, longitude, vehicle_ids FROM branches ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query branches: %w", err)
	}
	all, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Branch, error) {
		var b model.Branch
		err := row.Scan(&b.Name, &b.Location.Lat, &b.Location.Lng, &b.VehicleIDs)
		return b, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan branches: %w", err)
	}
	out := all[:0]
	for _, b := range all {
		if err := b.Validate(); err != nil {
			s.log.Debugf("branch skipped: %v", err)
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

// Vehicles returns every vehicle ordered by id.
func (s *Source) Vehicles(ctx context.Context) ([]model.Vehicle, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	rows, err := s.db.Query(ctx, `SELECT id, type, range_km, trip_ids FROM vehicles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query vehicles: %w", err)
	}
	all, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Vehicle, error) {
		var (
			v   model.Vehicle
			typ string
		)
		err := row.Scan(&v.ID, &typ, &v.RangeKm, &v.TripIDs)
		v.Type = model.ParseVehicleType(typ)
		return v, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan vehicles: %w", err)
	}
	out := all[:0]
	for _, v := range all {
		if err := v.Validate(); err != nil {
			s.log.Debugf("vehicle skipped: %v", err)
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

// Trips returns every trip ordered by id.
func (s *Source) Trips(ctx context.Context) ([]model.Trip, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	rows, err := s.db.Query(ctx, `SELECT id, vehicle_id, departure_time, arrival_time FROM trips ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query trips: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Trip, error) {
		var t model.Trip
		err := row.Scan(&t.ID, &t.VehicleID, &t.Departure, &t.Arrival)
		return t, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan trips: %w", err)
	}
	return out, nil
}

// Ping checks the connection.
func (s *Source) Ping(ctx context.Context) error { return s.db.Ping(ctx) }

// Close releases the pool.
func (s *Source) Close() error {
	s.db.Close()
	return nil
}
