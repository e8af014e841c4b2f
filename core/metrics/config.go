package metrics

import "github.com/kilianp07/evswap/core/factory"

// Config lists the sinks selection results are fanned out to. An empty list
// records nothing.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
}

// Build instantiates the configured sinks.
func (c Config) Build() (MetricsSink, error) {
	return NewMetricsSink(c.Sinks)
}
