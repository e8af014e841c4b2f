package metrics

import (
	"fmt"

	"github.com/kilianp07/evswap/core/factory"
	coremetrics "github.com/kilianp07/evswap/core/metrics"
)

// InfluxConfig is the conf block of an "influx" sink.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// Validate checks the connection settings are present.
func (c InfluxConfig) Validate() error {
	switch {
	case c.URL == "":
		return fmt.Errorf("influx: url is required")
	case c.Org == "":
		return fmt.Errorf("influx: org is required")
	case c.Bucket == "":
		return fmt.Errorf("influx: bucket is required")
	}
	return nil
}

func init() {
	builtins := map[string]factory.Factory[coremetrics.MetricsSink]{
		"nop": func(map[string]any) (coremetrics.MetricsSink, error) {
			return coremetrics.NopSink{}, nil
		},
		"prometheus": func(map[string]any) (coremetrics.MetricsSink, error) {
			return NewPromSink()
		},
		"influx": newInfluxFromConf,
	}
	for name, f := range builtins {
		_ = coremetrics.RegisterMetricsSink(name, f)
	}
}

func newInfluxFromConf(conf map[string]any) (coremetrics.MetricsSink, error) {
	var c InfluxConfig
	if err := factory.Decode(conf, &c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return NewInfluxSinkWithFallback(c.URL, c.Token, c.Org, c.Bucket), nil
}
