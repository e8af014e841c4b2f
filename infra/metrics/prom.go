package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/evswap/core/metrics"
)

// PromSink records selection results in Prometheus metrics.
type PromSink struct {
	selections *prometheus.CounterVec
	duration   prometheus.Histogram
	candidates prometheus.Gauge
	loaded     *prometheus.GaugeVec
}

// NewPromSink registers selection metrics on the default Prometheus registerer.
// The /metrics endpoint is served by the HTTP API.
func NewPromSink() (coremetrics.MetricsSink, error) {
	s, err := NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	selections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "evswap_selections_total",
		Help: "Total number of branch selections by outcome",
	}, []string{"outcome"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "evswap_selection_duration_seconds",
		Help:    "Time spent computing a swap plan",
		Buckets: prometheus.DefBuckets,
	})
	candidates := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "evswap_candidates_last",
		Help: "Number of available candidates in the last selection",
	})
	loaded := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "evswap_source_records",
		Help: "Number of records loaded from the data source in the last request",
	}, []string{"kind"})

	var err error
	if selections, err = register(reg, selections); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	if candidates, err = register(reg, candidates); err != nil {
		return nil, err
	}
	if loaded, err = register(reg, loaded); err != nil {
		return nil, err
	}
	return &PromSink{selections: selections, duration: duration, candidates: candidates, loaded: loaded}, nil
}

// register returns the already registered collector when one with the same
// description exists.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordSelection increments the outcome counter and records the duration.
func (s *PromSink) RecordSelection(res coremetrics.SelectionResult) error {
	s.selections.WithLabelValues(res.Outcome).Inc()
	s.duration.Observe(res.Duration.Seconds())
	s.candidates.Set(float64(res.AvailableCount))
	return nil
}

// RecordSourceLoad sets the per-kind record gauges.
func (s *PromSink) RecordSourceLoad(ev coremetrics.SourceLoadEvent) error {
	s.loaded.WithLabelValues("branches").Set(float64(ev.Branches))
	s.loaded.WithLabelValues("vehicles").Set(float64(ev.Vehicles))
	s.loaded.WithLabelValues("trips").Set(float64(ev.Trips))
	return nil
}
