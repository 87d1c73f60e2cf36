package city

import (
	"errors"
	"fmt"
)

// BuildingType enumerates what occupies a parcel.
type BuildingType uint8

const (
	Empty BuildingType = iota
	Residential
	Commercial
	Industrial
	Park
	Road
	Power
	Water
	Hospital
	School
	Police
	Fire

	// NumBuildingTypes is the size of the enumeration.
	NumBuildingTypes = int(Fire) + 1
)

// ErrUnknownBuildingType is returned when parsing an unrecognised type name.
var ErrUnknownBuildingType = errors.New("unknown building type")

var buildingNames = [NumBuildingTypes]string{
	Empty:       "empty",
	Residential: "residential",
	Commercial:  "commercial",
	Industrial:  "industrial",
	Park:        "park",
	Road:        "road",
	Power:       "power",
	Water:       "water",
	Hospital:    "hospital",
	School:      "school",
	Police:      "police",
	Fire:        "fire",
}

// BuildingTypes lists every type in enumeration order.
func BuildingTypes() []BuildingType {
	out := make([]BuildingType, NumBuildingTypes)
	for i := range out {
		out[i] = BuildingType(i)
	}
	return out
}

// String returns the lower-case type name.
func (t BuildingType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("BuildingType(%d)", uint8(t))
	}
	return buildingNames[t]
}

// Valid reports whether t is part of the enumeration.
func (t BuildingType) Valid() bool { return int(t) < NumBuildingTypes }

// ParseBuildingType is the inverse of String.
func ParseBuildingType(name string) (BuildingType, error) {
	for i, n := range buildingNames {
		if n == name {
			return BuildingType(i), nil
		}
	}
	return Empty, fmt.Errorf("%w: %q", ErrUnknownBuildingType, name)
}

// IsService reports whether t is one of the infrastructure/service buildings
// that share a single transition rule.
func (t BuildingType) IsService() bool {
	switch t {
	case Power, Water, Hospital, School, Police, Fire:
		return true
	}
	return false
}

// PopulationCap is the inclusive upper bound of a cell's population.
func (t BuildingType) PopulationCap() int {
	switch t {
	case Residential:
		return 200
	case Commercial:
		return 150
	case Industrial:
		return 180
	case Empty, Park, Road:
		return 0
	}
	// Service buildings have no cap of their own; 100 is the working bound.
	return 100
}

// MarshalText implements encoding.TextMarshaler.
func (t BuildingType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownBuildingType, uint8(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *BuildingType) UnmarshalText(b []byte) error {
	parsed, err := ParseBuildingType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
