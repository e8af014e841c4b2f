package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/kilianp07/evswap/core/factory"
	"github.com/kilianp07/evswap/core/model"
	"github.com/kilianp07/evswap/core/planner"
)

func TestConfigValidate(t *testing.T) {
	assert.Error(t, Config{}.Validate())
	assert.NoError(t, Config{DSN: "postgres://localhost/evswap"}.Validate())
}

func TestFactory_RequiresDSN(t *testing.T) {
	_, err := planner.NewSources(factory.ModuleConfig{Type: "postgres", Conf: map[string]any{}})
	assert.Error(t, err)
}

func startPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "evswap",
			"POSTGRES_PASSWORD": "evswap",
			"POSTGRES_DB":       "evswap",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Errorf("failed to terminate container: %v", err)
		}
	})
	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)
	return fmt.Sprintf("postgres://evswap:evswap@%s:%s/evswap?sslmode=disable", host, port.Port())
}

// TestSource_Integration reads fixtures from a disposable PostgreSQL.
func TestSource_Integration(t *testing.T) {
	if os.Getenv("EVSWAP_IT") != "1" {
		t.Skip("set EVSWAP_IT=1 to run integration tests")
	}
	ctx := context.Background()
	src, err := Open(ctx, Config{DSN: startPostgres(t), QueryTimeout: 5 * time.Second}, nil)
	require.NoError(t, err)
	defer func() { _ = src.Close() }()
	require.NoError(t, src.Migrate(ctx))

	_, err = src.db.Exec(ctx, `
INSERT INTO branches (name, latitude, longitude, vehicle_ids) VALUES
    ('North', 50.5, 14.50001, '{E1,C2}'),
    ('Bad', 95, 14.0, '{}');
INSERT INTO vehicles (id, type, range_km, trip_ids) VALUES
    ('E1', 'electric', 150, '{t1}'),
    ('C2', 'gasoline', 700, '{}');
INSERT INTO trips (id, vehicle_id, departure_time, arrival_time) VALUES
    ('t1', 'E1', '2024-06-01T08:00:00Z', NULL),
    ('t2', 'E1', NULL, '2024-06-03T10:00:00Z');`)
	require.NoError(t, err)

	branches, err := src.Branches(ctx)
	require.NoError(t, err)
	require.Len(t, branches, 1)
	assert.Equal(t, []string{"E1", "C2"}, branches[0].VehicleIDs)

	vehicles, err := src.Vehicles(ctx)
	require.NoError(t, err)
	require.Len(t, vehicles, 2)
	assert.Equal(t, "C2", vehicles[0].ID)
	assert.Equal(t, model.VehicleElectric, vehicles[1].Type)

	trips, err := src.Trips(ctx)
	require.NoError(t, err)
	require.Len(t, trips, 2)
	require.NotNil(t, trips[0].Departure)
	assert.Nil(t, trips[0].Arrival)
	assert.Nil(t, trips[1].Departure)
	require.NotNil(t, trips[1].Arrival)
}
