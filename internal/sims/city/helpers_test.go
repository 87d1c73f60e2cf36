package city

import "urban-ca/internal/core"

// scriptedSource replays vals in order and then keeps returning fallback.
type scriptedSource struct {
	vals     []float64
	fallback float64
	calls    int
}

func (s *scriptedSource) Float64() float64 {
	s.calls++
	if len(s.vals) == 0 {
		return s.fallback
	}
	v := s.vals[0]
	s.vals = s.vals[1:]
	return v
}

func constSource(v float64) *scriptedSource {
	return &scriptedSource{fallback: v}
}

// contextFor builds a context directly from counts, the way the engine would.
func contextFor(counts Counts) Context {
	return Context{Counts: counts, Resources: ComputeResources(counts)}
}

func countsOf(pairs map[BuildingType]int) Counts {
	var c Counts
	for t, n := range pairs {
		c[t] = n
	}
	return c
}

// randomGrid fills an n*n grid with valid cells of every type.
func randomGrid(n int, seed int64) *Grid {
	rng := core.NewRNG(seed)
	return NewGrid(n).Generate(func(x, y int) Cell {
		t := BuildingType(rng.IntN(NumBuildingTypes))
		c := Placed(t, rng)
		c.Age = rng.IntN(10)
		if t == Road && c.Energy < roadFloor {
			c.Energy = roadFloor
		}
		return c
	})
}

func mustWith(g *Grid, x, y int, c Cell) *Grid {
	next, err := g.With(x, y, c)
	if err != nil {
		panic(err)
	}
	return next
}
