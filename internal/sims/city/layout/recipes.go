package layout

import (
	"urban-ca/internal/core"
	"urban-ca/internal/sims/city"
)

// Clusters drops a few 5x5 blobs, each of a single random type.
func Clusters(n int, rng *core.RNG) *city.Grid {
	c := newCanvas(n)
	types := developed()
	for i := 0; i < scaled(4, n); i++ {
		cx, cy := span(rng, n, 3), span(rng, n, 3)
		t := types[rng.IntN(len(types))]
		for dy := -2; dy <= 2; dy++ {
			for dx := -2; dx <= 2; dx++ {
				if rng.Float64() >= 0.6 {
					continue
				}
				c.set(cx+dx, cy+dy, city.Cell{
					Type:       t,
					Age:        rng.IntN(10),
					Population: rng.IntN(100),
					Energy:     rng.IntN(100),
				})
			}
		}
	}
	return c.grid()
}

type weighted struct {
	t      city.BuildingType
	weight float64
}

var downtownMix = []weighted{
	{city.Commercial, 0.30},
	{city.Residential, 0.25},
	{city.Hospital, 0.10},
	{city.School, 0.10},
	{city.Police, 0.05},
	{city.Park, 0.20},
}

func pick(rng *core.RNG, mix []weighted) city.BuildingType {
	r := rng.Float64()
	for _, w := range mix {
		if r < w.weight {
			return w.t
		}
		r -= w.weight
	}
	return mix[0].t
}

// Downtown lays a road grid over a central core, puts power and water in its
// corner and fills most remaining lots with a weighted mix.
func Downtown(n int, rng *core.RNG) *city.Grid {
	c := newCanvas(n)
	side := min(n, max(4, n/2))
	sx, sy := (n-side)/2, (n-side)/2

	c.set(sx, sy, city.Cell{Type: city.Power, Age: 5, Population: 20, Energy: 90})
	c.set(sx+1, sy, city.Cell{Type: city.Water, Age: 3, Population: 15, Energy: 85})

	// Roads at the same relative offsets as on a ten-wide core.
	at := func(offset int) int { return offset * side / 10 }
	road := city.Cell{Type: city.Road, Age: 2, Energy: 80}
	for i := 0; i < side; i++ {
		c.set(sx+i, sy+at(2), road)
		c.set(sx+i, sy+at(5), road)
		c.set(sx+at(3), sy+i, road)
		c.set(sx+at(6), sy+i, road)
	}

	for y := sy; y < sy+side; y++ {
		for x := sx; x < sx+side; x++ {
			if !c.empty(x, y) || rng.Float64() >= 0.7 {
				continue
			}
			t := pick(rng, downtownMix)
			pop := 0
			if t != city.Park {
				pop = rng.IntN(100) + 20
			}
			c.set(x, y, city.Cell{Type: t, Age: rng.IntN(10), Population: pop, Energy: rng.IntN(40) + 60})
		}
	}
	return c.grid()
}

var suburbanServices = []city.BuildingType{
	city.School, city.Hospital, city.Park, city.Commercial, city.Fire, city.Police,
}

// Suburban runs two dashed arterials through the middle, sprinkles small
// residential clusters and then a handful of services.
func Suburban(n int, rng *core.RNG) *city.Grid {
	c := newCanvas(n)
	near, far := n/10, n-1-n/10
	c.set(near, near, city.Cell{Type: city.Power, Age: 8, Population: 25, Energy: 85})
	c.set(far, far, city.Cell{Type: city.Water, Age: 6, Population: 20, Energy: 80})

	mid := n / 2
	road := city.Cell{Type: city.Road, Age: 3, Energy: 75}
	for i := 0; i < n; i += 4 {
		c.set(i, mid, road)
		c.set(mid, i, road)
	}

	for i := 0; i < scaled(6, n); i++ {
		cx, cy := span(rng, n, 2), span(rng, n, 2)
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				x, y := cx+dx, cy+dy
				if !c.empty(x, y) || rng.Float64() >= 0.8 {
					continue
				}
				c.set(x, y, city.Cell{
					Type:       city.Residential,
					Age:        rng.IntN(5),
					Population: rng.IntN(60) + 20,
					Energy:     rng.IntN(30) + 70,
				})
			}
		}
	}

	for i := 0; i < scaled(12, n); i++ {
		x, y := rng.IntN(n), rng.IntN(n)
		if !c.empty(x, y) {
			continue
		}
		t := suburbanServices[rng.IntN(len(suburbanServices))]
		pop := 0
		if t != city.Park {
			pop = rng.IntN(40) + 10
		}
		c.set(x, y, city.Cell{Type: t, Age: rng.IntN(6), Population: pop, Energy: rng.IntN(30) + 70})
	}
	return c.grid()
}

// IndustrialZone scatters factories with the utilities that keep them open.
func IndustrialZone(n int, rng *core.RNG) *city.Grid {
	c := newCanvas(n)
	for i := 0; i < scaled(40, n); i++ {
		x, y := rng.IntN(n), rng.IntN(n)
		if !c.empty(x, y) {
			continue
		}
		var t city.BuildingType
		switch r := rng.Float64(); {
		case r < 0.5:
			t = city.Industrial
		case r < 0.7:
			t = city.Power
		case r < 0.85:
			t = city.Water
		case r < 0.95:
			t = city.Road
		default:
			t = city.Fire
		}
		c.set(x, y, city.Cell{Type: t, Age: rng.IntN(12), Population: rng.IntN(60), Energy: rng.IntN(100)})
	}
	return c.grid()
}

// MixedDevelopment scatters every developed type uniformly.
func MixedDevelopment(n int, rng *core.RNG) *city.Grid {
	c := newCanvas(n)
	types := developed()
	for i := 0; i < scaled(80, n); i++ {
		x, y := rng.IntN(n), rng.IntN(n)
		if !c.empty(x, y) {
			continue
		}
		t := types[rng.IntN(len(types))]
		c.set(x, y, city.Cell{Type: t, Age: rng.IntN(10), Population: rng.IntN(100), Energy: rng.IntN(100)})
	}
	return c.grid()
}
