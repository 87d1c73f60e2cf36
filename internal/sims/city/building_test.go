package city

import (
	"errors"
	"testing"
)

func TestBuildingTypeNamesRoundTrip(t *testing.T) {
	types := BuildingTypes()
	if len(types) != 12 {
		t.Fatalf("expected 12 building types, got %d", len(types))
	}
	for _, bt := range types {
		parsed, err := ParseBuildingType(bt.String())
		if err != nil {
			t.Fatalf("ParseBuildingType(%q): %v", bt.String(), err)
		}
		if parsed != bt {
			t.Fatalf("round trip of %v yielded %v", bt, parsed)
		}
	}
	if _, err := ParseBuildingType("castle"); !errors.Is(err, ErrUnknownBuildingType) {
		t.Fatalf("expected ErrUnknownBuildingType, got %v", err)
	}
}

func TestServiceGroupAndCaps(t *testing.T) {
	tests := []struct {
		t       BuildingType
		service bool
		cap     int
	}{
		{Empty, false, 0},
		{Residential, false, 200},
		{Commercial, false, 150},
		{Industrial, false, 180},
		{Park, false, 0},
		{Road, false, 0},
		{Power, true, 100},
		{Water, true, 100},
		{Hospital, true, 100},
		{School, true, 100},
		{Police, true, 100},
		{Fire, true, 100},
	}
	for _, tc := range tests {
		if got := tc.t.IsService(); got != tc.service {
			t.Errorf("%v.IsService() = %v, want %v", tc.t, got, tc.service)
		}
		if got := tc.t.PopulationCap(); got != tc.cap {
			t.Errorf("%v.PopulationCap() = %d, want %d", tc.t, got, tc.cap)
		}
	}
}

func TestCellValidate(t *testing.T) {
	valid := []Cell{
		{},
		{Type: Residential, Age: 4, Population: 200, Energy: 100},
		{Type: Road, Energy: 20},
		{Type: School, Population: 100, Energy: 0},
	}
	for _, c := range valid {
		if err := c.Validate(); err != nil {
			t.Errorf("%+v: unexpected error %v", c, err)
		}
	}
	invalid := []Cell{
		{Type: Empty, Energy: 3},
		{Type: Empty, Population: 1},
		{Type: Park, Population: 1},
		{Type: Commercial, Population: 151},
		{Type: Industrial, Energy: 101},
		{Type: Residential, Age: -1},
		{Type: BuildingType(40)},
	}
	for _, c := range invalid {
		if err := c.Validate(); !errors.Is(err, ErrInvalidCell) {
			t.Errorf("%+v: expected ErrInvalidCell, got %v", c, err)
		}
	}
}

func TestPlaced(t *testing.T) {
	if c := Placed(Empty, constSource(0.99)); c != (Cell{}) {
		t.Fatalf("placing empty should zero the cell, got %+v", c)
	}
	c := Placed(Residential, &scriptedSource{vals: []float64{0.5, 0.25}})
	if c.Type != Residential || c.Age != 0 || c.Population != 25 || c.Energy != 25 {
		t.Fatalf("unexpected placement %+v", c)
	}
	if c := Placed(Road, constSource(0.9)); c.Population != 0 {
		t.Fatalf("roads carry no population, got %d", c.Population)
	}
}

func TestPlaceOutOfBounds(t *testing.T) {
	g := NewGrid(4)
	src := constSource(0.5)
	if _, err := Place(g, 4, 0, Park, src); err == nil {
		t.Fatal("expected out-of-bounds error")
	}
	if src.calls != 0 {
		t.Fatal("a rejected placement must not consume draws")
	}
	next, err := Place(g, 1, 2, Park, src)
	if err != nil {
		t.Fatal(err)
	}
	if g.At(1, 2).Type != Empty {
		t.Fatal("Place must not mutate the input grid")
	}
	if next.At(1, 2).Type != Park {
		t.Fatalf("expected park, got %v", next.At(1, 2).Type)
	}
}
