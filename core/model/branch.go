package model

import (
	"fmt"
	"time"

	"github.com/kilianp07/evswap/core/geo"
)

// Branch is a depot holding part of the fleet.
type Branch struct {
	Name       string         `json:"name"`
	Location   geo.Coordinate `json:"location"`
	VehicleIDs []string       `json:"vehicle_ids"`
}

// Validate checks the branch has a name and a usable location.
func (b Branch) Validate() error {
	if b.Name == "" {
		return fmt.Errorf("branch name is required")
	}
	if !b.Location.Valid() {
		return fmt.Errorf("branch %s: invalid location %v", b.Name, b.Location)
	}
	return nil
}

// ElectricVehicleIDs returns the inventory ids carrying the electric prefix,
// in inventory order.
func (b Branch) ElectricVehicleIDs() []string {
	var ids []string
	for _, id := range b.VehicleIDs {
		if IsElectricID(id) {
			ids = append(ids, id)
		}
	}
	return ids
}

// Trip is a booking record. Only the calendar date of the trip matters to
// availability.
type Trip struct {
	ID        string     `json:"id"`
	VehicleID string     `json:"vehicle_id"`
	Departure *time.Time `json:"departure_time,omitempty"`
	Arrival   *time.Time `json:"arrival_time,omitempty"`
}
