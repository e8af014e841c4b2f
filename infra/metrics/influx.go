package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/evswap/core/metrics"
	"github.com/kilianp07/evswap/infra/logger"
)

// InfluxSink writes selection events to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordSelection writes one branch_selection point.
func (s *InfluxSink) RecordSelection(res coremetrics.SelectionResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("branch_selection").
		AddTag("outcome", res.Outcome).
		AddTag("component", "planner")
	if res.BranchName != "" {
		p = p.AddTag("branch", res.BranchName)
	}
	if res.EVID != "" {
		p = p.AddTag("ev_id", res.EVID)
	}
	p = p.AddField("selection_id", res.ID).
		AddField("score", round3(res.Score)).
		AddField("nearby", res.NearbyCount).
		AddField("candidates", res.CandidateCount).
		AddField("available", res.AvailableCount).
		AddField("duration_ms", round3(res.Duration.Seconds()*1000)).
		SetTime(res.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordSourceLoad writes the size of a data source load.
func (s *InfluxSink) RecordSourceLoad(ev coremetrics.SourceLoadEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("source_load").
		AddTag("source", ev.Source).
		AddField("branches", ev.Branches).
		AddField("vehicles", ev.Vehicles).
		AddField("trips", ev.Trips).
		AddField("duration_ms", round3(ev.Duration.Seconds()*1000)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }

// round3 rounds to three decimals. Infinite scores are written as -1 since
// line protocol has no representation for them.
func round3(f float64) float64 {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return -1
	}
	return math.Round(f*1000) / 1000
}
