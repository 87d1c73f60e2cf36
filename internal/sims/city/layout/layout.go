// Package layout builds initial cities for the random-setup control. Every
// generator registers itself with the city package, so importing this
// package for its side effects makes the names available to city.World.
package layout

import (
	"math"

	"urban-ca/internal/core"
	"urban-ca/internal/sims/city"
)

// ErrUnknownLayout is returned for names no generator is registered under.
var ErrUnknownLayout = city.ErrUnknownLayout

// referenceSize is the side length the recipes were tuned for.
const referenceSize = 20

// Setups are the layouts the random-setup control chooses between.
var Setups = []string{"clusters", "downtown", "suburban", "industrial_zone", "mixed_development"}

func init() {
	city.RegisterLayout("clusters", Clusters)
	city.RegisterLayout("downtown", Downtown)
	city.RegisterLayout("suburban", Suburban)
	city.RegisterLayout("industrial_zone", IndustrialZone)
	city.RegisterLayout("mixed_development", MixedDevelopment)
	city.RegisterLayout("terrain", Terrain)
}

// Generate builds the layout registered under name.
func Generate(name string, n int, rng *core.RNG) (*city.Grid, error) {
	return city.BuildLayout(name, n, rng)
}

// Names lists every registered layout, "empty" included.
func Names() []string { return city.LayoutNames() }

// Random picks one of the Setups and builds it.
func Random(n int, rng *core.RNG) (string, *city.Grid) {
	name := Setups[rng.IntN(len(Setups))]
	g, err := Generate(name, n, rng)
	if err != nil {
		panic(err)
	}
	return name, g
}

// canvas is a mutable cell buffer used while a layout is drawn.
type canvas struct {
	n     int
	cells []city.Cell
}

func newCanvas(n int) *canvas {
	if n <= 0 {
		n = 1
	}
	return &canvas{n: n, cells: make([]city.Cell, n*n)}
}

func (c *canvas) inBounds(x, y int) bool {
	return x >= 0 && x < c.n && y >= 0 && y < c.n
}

func (c *canvas) empty(x, y int) bool {
	return c.inBounds(x, y) && c.cells[y*c.n+x].Type == city.Empty
}

// set stores cell at (x, y), silently ignoring coordinates off the canvas.
// Population and energy are brought inside the cell invariants first.
func (c *canvas) set(x, y int, cell city.Cell) {
	if !c.inBounds(x, y) {
		return
	}
	cell.Population = city.Clamp(cell.Population, 0, cell.Type.PopulationCap())
	cell.Energy = city.Clamp(cell.Energy, 0, city.MaxEnergy)
	if cell.Type == city.Empty {
		cell = city.Cell{Age: max(cell.Age, 0)}
	}
	c.cells[y*c.n+x] = cell
}

func (c *canvas) grid() *city.Grid {
	g, err := core.FromCells(c.n, c.cells)
	if err != nil {
		panic(err)
	}
	return g
}

// scaled converts a count tuned for the reference grid to side n, keeping the
// same density per parcel.
func scaled(count, n int) int {
	area := float64(n*n) / float64(referenceSize*referenceSize)
	return max(1, int(math.Round(float64(count)*area)))
}

// span returns a uniform coordinate in [margin, n-margin), or anywhere on
// the grid when it is too small for the margin.
func span(rng *core.RNG, n, margin int) int {
	if n-2*margin <= 0 {
		return rng.IntN(n)
	}
	return rng.IntN(n-2*margin) + margin
}

// developed lists the non-empty types in enumeration order.
func developed() []city.BuildingType {
	return city.BuildingTypes()[1:]
}
