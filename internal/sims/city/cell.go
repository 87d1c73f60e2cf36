package city

import (
	"errors"
	"fmt"

	"urban-ca/internal/core"
)

// MaxEnergy is the inclusive upper bound of every cell's energy.
const MaxEnergy = 100

// ErrInvalidCell reports a cell whose fields violate the parcel invariants.
var ErrInvalidCell = errors.New("invalid cell")

// ErrGridSize reports a grid whose dimensions do not match what was expected.
var ErrGridSize = errors.New("grid size mismatch")

// Cell is the state of a single parcel.
type Cell struct {
	Type       BuildingType
	Age        int
	Population int
	Energy     int
}

// Grid is a generation snapshot of the city.
type Grid = core.Grid[Cell]

// NewGrid returns an all-empty n*n city.
func NewGrid(n int) *Grid {
	return core.NewGrid[Cell](n)
}

// Validate reports the first invariant the cell violates, if any.
func (c Cell) Validate() error {
	switch {
	case !c.Type.Valid():
		return fmt.Errorf("%w: type %d", ErrInvalidCell, uint8(c.Type))
	case c.Age < 0:
		return fmt.Errorf("%w: %s age %d is negative", ErrInvalidCell, c.Type, c.Age)
	case c.Population < 0 || c.Population > c.Type.PopulationCap():
		return fmt.Errorf("%w: %s population %d outside [0,%d]", ErrInvalidCell, c.Type, c.Population, c.Type.PopulationCap())
	case c.Energy < 0 || c.Energy > MaxEnergy:
		return fmt.Errorf("%w: %s energy %d outside [0,%d]", ErrInvalidCell, c.Type, c.Energy, MaxEnergy)
	case c.Type == Empty && c.Energy != 0:
		return fmt.Errorf("%w: empty parcel has energy %d", ErrInvalidCell, c.Energy)
	}
	return nil
}

// Validate checks every cell of g. It is meant for grids that arrive from
// outside the engine (files, network); the engine never repairs its input.
func Validate(g *Grid) error {
	if g == nil {
		return fmt.Errorf("%w: nil grid", ErrGridSize)
	}
	var err error
	g.Each(func(x, y int, c Cell) {
		if err != nil {
			return
		}
		if cerr := c.Validate(); cerr != nil {
			err = fmt.Errorf("cell (%d,%d): %w", x, y, cerr)
		}
	})
	return err
}

// Placed builds the cell that a direct placement of t produces: age 0, and
// for anything but empty a random population in [0,50) (bounded by the type's
// cap) and a random energy in [0,100).
func Placed(t BuildingType, src Source) Cell {
	if t == Empty {
		return Cell{Type: Empty}
	}
	pop := randRange(src, 0, 50)
	if limit := t.PopulationCap(); pop > limit {
		pop = limit
	}
	return Cell{
		Type:       t,
		Population: pop,
		Energy:     randRange(src, 0, 100),
	}
}

// Place overwrites (x, y) with a freshly placed building of type t and
// returns the new grid. It bypasses the transition rules entirely.
func Place(g *Grid, x, y int, t BuildingType, src Source) (*Grid, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownBuildingType, uint8(t))
	}
	if _, err := g.Lookup(x, y); err != nil {
		return nil, err
	}
	return g.With(x, y, Placed(t, src))
}
