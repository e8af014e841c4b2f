package model

import (
	"reflect"
	"testing"

	"github.com/kilianp07/evswap/core/geo"
)

func TestParseVehicleType(t *testing.T) {
	cases := map[string]VehicleType{
		"electric":  VehicleElectric,
		" Electric": VehicleElectric,
		"EV":        VehicleElectric,
		"gasoline":  VehicleOther,
		"":          VehicleOther,
		"hybrid":    VehicleOther,
	}
	for in, want := range cases {
		if got := ParseVehicleType(in); got != want {
			t.Errorf("ParseVehicleType(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestIsElectricID(t *testing.T) {
	if !IsElectricID("E12") {
		t.Fatal("E12 should be electric")
	}
	if IsElectricID("C12") || IsElectricID("e12") || IsElectricID("") {
		t.Fatal("only the upper-case E prefix denotes an electric vehicle")
	}
}

func TestBranchElectricVehicleIDs(t *testing.T) {
	b := Branch{Name: "b", VehicleIDs: []string{"C1", "E2", "G3", "E4"}}
	got := b.ElectricVehicleIDs()
	if !reflect.DeepEqual(got, []string{"E2", "E4"}) {
		t.Fatalf("unexpected ids %v", got)
	}
	if ids := (Branch{VehicleIDs: []string{"C1"}}).ElectricVehicleIDs(); len(ids) != 0 {
		t.Fatalf("expected no electric ids, got %v", ids)
	}
}

func TestBranchValidate(t *testing.T) {
	if err := (Branch{Name: "ok", Location: geo.Coordinate{Lat: 1, Lng: 1}}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (Branch{Location: geo.Coordinate{Lat: 1, Lng: 1}}).Validate(); err == nil {
		t.Fatal("expected missing name error")
	}
	if err := (Branch{Name: "x", Location: geo.Coordinate{Lat: 100}}).Validate(); err == nil {
		t.Fatal("expected invalid location error")
	}
}

func TestVehicleValidate(t *testing.T) {
	if err := (Vehicle{ID: "E1", RangeKm: 10}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (Vehicle{RangeKm: 10}).Validate(); err == nil {
		t.Fatal("expected missing id error")
	}
	if err := (Vehicle{ID: "E1", RangeKm: -1}).Validate(); err == nil {
		t.Fatal("expected negative range error")
	}
}
