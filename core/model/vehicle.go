package model

import (
	"fmt"
	"strings"
)

// VehicleType distinguishes electric vehicles from the rest of the fleet.
type VehicleType int

const (
	VehicleOther VehicleType = iota
	VehicleElectric
)

// ElectricIDPrefix marks an electric vehicle in branch inventories.
const ElectricIDPrefix = "E"

// String returns a human-readable representation of the vehicle type.
func (t VehicleType) String() string {
	switch t {
	case VehicleElectric:
		return "electric"
	default:
		return "other"
	}
}

// ParseVehicleType maps the raw fleet type column to a VehicleType.
// Anything that is not recognised as electric is VehicleOther.
func ParseVehicleType(s string) VehicleType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "electric", "ev", "bev":
		return VehicleElectric
	default:
		return VehicleOther
	}
}

// Vehicle represents a fleet vehicle as read from the fleet source.
type Vehicle struct {
	ID      string      `json:"id"`
	Type    VehicleType `json:"type"`
	RangeKm float64     `json:"range_km"` // range on a full charge or tank
	TripIDs []string    `json:"trip_ids,omitempty"`
}

// Validate checks that the vehicle record is usable.
func (v Vehicle) Validate() error {
	if v.ID == "" {
		return fmt.Errorf("vehicle id is required")
	}
	if v.RangeKm < 0 {
		return fmt.Errorf("vehicle %s: range must not be negative", v.ID)
	}
	return nil
}

// IsElectric reports whether the vehicle type is electric.
func (v Vehicle) IsElectric() bool {
	return v.Type == VehicleElectric
}

// IsElectricID reports whether a branch inventory id denotes an electric
// vehicle.
func IsElectricID(id string) bool {
	return strings.HasPrefix(id, ElectricIDPrefix)
}
