package city

// Counts tallies building types inside a neighborhood.
type Counts [NumBuildingTypes]int

// Get returns the number of cells of type t.
func (c Counts) Get(t BuildingType) int {
	if !t.Valid() {
		return 0
	}
	return c[t]
}

// Total returns the number of cells counted, all types included.
func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Neighbors returns the Moore radius-1 neighbors of (x, y), clipped at the
// grid edges. The center cell is never included.
func Neighbors(g *Grid, x, y int) []Cell {
	out := make([]Cell, 0, 8)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if !g.InBounds(nx, ny) {
				continue
			}
			out = append(out, g.At(nx, ny))
		}
	}
	return out
}

// NearbyCounts counts building types in the square [x-r,x+r]x[y-r,y+r],
// clipped to the grid. The center cell counts toward its own type.
func NearbyCounts(g *Grid, x, y, radius int) Counts {
	if radius < 0 {
		radius = 0
	}
	n := g.N()
	x0, x1 := max(0, x-radius), min(n-1, x+radius)
	y0, y1 := max(0, y-radius), min(n-1, y+radius)

	var counts Counts
	for ny := y0; ny <= y1; ny++ {
		for nx := x0; nx <= x1; nx++ {
			counts[g.At(nx, ny).Type]++
		}
	}
	return counts
}
