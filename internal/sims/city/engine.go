package city

import "urban-ca/internal/core"

// Streams hands out the random source a given coordinate draws from during a
// parallel step.
type Streams interface {
	At(x, y int) *core.RNG
}

// Engine computes successive generations. It holds no per-run state, so one
// Engine may step any number of grids.
type Engine struct {
	rules  Rules
	radius int
}

// NewEngine returns an engine using the given parameters.
func NewEngine(p Params) *Engine {
	return &Engine{rules: Rules{Params: p}, radius: p.NeighborhoodRadius}
}

// Params returns the engine's parameters.
func (e *Engine) Params() Params { return e.rules.Params }

// Context builds the evolution context of (x, y) in g.
func (e *Engine) Context(g *Grid, x, y int) Context {
	return NewContext(g, x, y, e.radius)
}

// Step produces the next generation of g, visiting cells in raster order and
// drawing every random number from src. g is left untouched.
func (e *Engine) Step(g *Grid, src Source) *Grid {
	return g.Generate(func(x, y int) Cell {
		return e.rules.Apply(g.At(x, y), e.Context(g, x, y), src)
	})
}

// StepParallel is Step with rows spread across workers. Each cell draws from
// its own stream, so the result does not depend on the worker count.
func (e *Engine) StepParallel(g *Grid, streams Streams, workers int) *Grid {
	return g.GenerateParallel(workers, func(x, y int) Cell {
		return e.rules.Apply(g.At(x, y), e.Context(g, x, y), streams.At(x, y))
	})
}

// ResourceField returns score k for every cell of g in row-major order.
func (e *Engine) ResourceField(g *Grid, k ResourceKind) []uint8 {
	out := make([]uint8, g.N()*g.N())
	g.Each(func(x, y int, _ Cell) {
		counts := NearbyCounts(g, x, y, e.radius)
		out[g.Index(x, y)] = uint8(ComputeResources(counts).Get(k))
	})
	return out
}
