package planner

import (
	"fmt"
	"math"
	"time"
)

// Default thresholds applied when the configuration leaves them unset.
const (
	DefaultLateralThresholdM = 1000.0
	DefaultRangeThresholdKm  = 100.0
)

// Config defines the selection thresholds. Unset thresholds take the
// defaults; an explicit 0 is kept.
type Config struct {
	// LateralThresholdM is the maximum distance in meters between a branch
	// and the route.
	LateralThresholdM *float64 `json:"lateral_threshold_m"`
	// RangeThresholdKm is the range an electric vehicle must exceed.
	RangeThresholdKm *float64 `json:"range_threshold_km"`
	// TimeZone names the location booking dates are computed in.
	TimeZone string `json:"time_zone"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.LateralThresholdM == nil {
		v := DefaultLateralThresholdM
		c.LateralThresholdM = &v
	}
	if c.RangeThresholdKm == nil {
		v := DefaultRangeThresholdKm
		c.RangeThresholdKm = &v
	}
	if c.TimeZone == "" {
		c.TimeZone = "UTC"
	}
}

// Validate checks the thresholds and the time zone.
func (c Config) Validate() error {
	if err := checkThreshold("lateral_threshold_m", c.LateralThreshold()); err != nil {
		return err
	}
	if err := checkThreshold("range_threshold_km", c.RangeThreshold()); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// LateralThreshold returns the configured lateral threshold or the default.
func (c Config) LateralThreshold() float64 {
	if c.LateralThresholdM == nil {
		return DefaultLateralThresholdM
	}
	return *c.LateralThresholdM
}

// RangeThreshold returns the configured range threshold or the default.
func (c Config) RangeThreshold() float64 {
	if c.RangeThresholdKm == nil {
		return DefaultRangeThresholdKm
	}
	return *c.RangeThresholdKm
}

// Location resolves TimeZone. An empty name means UTC.
func (c Config) Location() (*time.Location, error) {
	if c.TimeZone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("time_zone: %w", err)
	}
	return loc, nil
}

func checkThreshold(name string, v float64) error {
	if math.IsNaN(v) || v < 0 {
		return fmt.Errorf("%s must be a non-negative number, got %v", name, v)
	}
	return nil
}
