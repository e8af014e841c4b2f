// Package config loads the service configuration from a YAML or JSON file,
// an optional .env file and EVSWAP_ environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/evswap/core/factory"
	"github.com/kilianp07/evswap/core/metrics"
	"github.com/kilianp07/evswap/core/planner"
	"github.com/kilianp07/evswap/infra/directions"
	"github.com/kilianp07/evswap/infra/monitoring"
	"github.com/kilianp07/evswap/infra/mqtt"
)

// EnvPrefix prefixes every environment override. Nested keys are separated
// by a double underscore, e.g. EVSWAP_SELECTION__RANGE_THRESHOLD_KM.
const EnvPrefix = "EVSWAP_"

type Config struct {
	HTTP         HTTPConfig              `json:"http"`
	Selection    planner.Config          `json:"selection"`
	Source       factory.ModuleConfig    `json:"source"`
	Directions   directions.Config       `json:"directions"`
	MQTT         mqtt.Config             `json:"mqtt"`
	Metrics      metrics.Config          `json:"metrics"`
	SelectionLog SelectionLogConfig      `json:"selection_log"`
	Sentry       monitoring.SentryConfig `json:"sentry"`
}

// LoadDotEnv loads key/value pairs from path into the process environment.
// Variables already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load reads path, applies environment overrides and defaults, then
// validates the result. An empty path loads defaults and environment only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		var parser koanf.Parser
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", filepath.Ext(path))
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// SetDefaults applies defaults to every section.
func (c *Config) SetDefaults() {
	c.HTTP.SetDefaults()
	c.Selection.SetDefaults()
	if c.Source.Type == "" {
		c.Source.Type = "csv"
	}
	c.Directions.SetDefaults()
	if c.MQTT.Enabled() {
		c.MQTT.SetDefaults()
	}
	c.SelectionLog.SetDefaults()
	c.Sentry.SetDefaults(appEnv())
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.HTTP.Validate(); err != nil {
		return err
	}
	if err := c.Selection.Validate(); err != nil {
		return fmt.Errorf("selection: %w", err)
	}
	if err := c.Directions.Validate(); err != nil {
		return err
	}
	if err := c.MQTT.Validate(); err != nil {
		return err
	}
	return c.SelectionLog.Validate()
}
