package core

import (
	"errors"
	"fmt"
	"sync"
)

// ErrOutOfBounds reports a coordinate outside [0,N)x[0,N).
var ErrOutOfBounds = errors.New("coordinate out of bounds")

// Grid stores a square grid of cell values in row-major order. A Grid is
// treated as an immutable snapshot once built: successors are produced with
// Generate or With, which always allocate fresh storage.
type Grid[T any] struct {
	n    int
	data []T
}

// NewGrid allocates an n*n grid of zero values.
func NewGrid[T any](n int) *Grid[T] {
	if n <= 0 {
		n = 1
	}
	return &Grid[T]{n: n, data: make([]T, n*n)}
}

// FromCells builds an n*n grid from row-major values. The slice is copied.
func FromCells[T any](n int, cells []T) (*Grid[T], error) {
	if n <= 0 || len(cells) != n*n {
		return nil, fmt.Errorf("grid: %d cells do not form a %dx%d square", len(cells), n, n)
	}
	g := &Grid[T]{n: n, data: make([]T, len(cells))}
	copy(g.data, cells)
	return g, nil
}

// N returns the side length.
func (g *Grid[T]) N() int { return g.n }

// Size returns the grid dimensions.
func (g *Grid[T]) Size() Size { return Size{W: g.n, H: g.n} }

// InBounds reports whether (x, y) addresses a cell.
func (g *Grid[T]) InBounds(x, y int) bool {
	return x >= 0 && x < g.n && y >= 0 && y < g.n
}

// Index returns the linear slice index for coordinates (x, y).
func (g *Grid[T]) Index(x, y int) int { return y*g.n + x }

// At returns the cell at (x, y). Out-of-range access is a programming error
// and panics with an error wrapping ErrOutOfBounds.
func (g *Grid[T]) At(x, y int) T {
	if !g.InBounds(x, y) {
		panic(g.boundsError(x, y))
	}
	return g.data[y*g.n+x]
}

// Lookup is the checked variant of At for coordinates that come from users.
func (g *Grid[T]) Lookup(x, y int) (T, error) {
	if !g.InBounds(x, y) {
		var zero T
		return zero, g.boundsError(x, y)
	}
	return g.data[y*g.n+x], nil
}

// Generate returns a new grid of the same size whose cells are produced by fn.
// Cells are visited in raster order (row by row).
func (g *Grid[T]) Generate(fn func(x, y int) T) *Grid[T] {
	next := &Grid[T]{n: g.n, data: make([]T, len(g.data))}
	for y := 0; y < g.n; y++ {
		for x := 0; x < g.n; x++ {
			next.data[y*g.n+x] = fn(x, y)
		}
	}
	return next
}

// GenerateParallel is Generate with rows handed out to a pool of workers.
// fn must be safe for concurrent use; every call writes a distinct slot.
func (g *Grid[T]) GenerateParallel(workers int, fn func(x, y int) T) *Grid[T] {
	if workers <= 1 || g.n == 1 {
		return g.Generate(fn)
	}
	if workers > g.n {
		workers = g.n
	}
	next := &Grid[T]{n: g.n, data: make([]T, len(g.data))}

	rows := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for y := range rows {
				row := next.data[y*g.n : (y+1)*g.n]
				for x := range row {
					row[x] = fn(x, y)
				}
			}
		}()
	}
	for y := 0; y < g.n; y++ {
		rows <- y
	}
	close(rows)
	wg.Wait()
	return next
}

// With returns a copy of the grid with (x, y) replaced by v.
func (g *Grid[T]) With(x, y int, v T) (*Grid[T], error) {
	if !g.InBounds(x, y) {
		return nil, g.boundsError(x, y)
	}
	next := g.Clone()
	next.data[y*g.n+x] = v
	return next, nil
}

// Clone returns a deep copy of the grid storage.
func (g *Grid[T]) Clone() *Grid[T] {
	next := &Grid[T]{n: g.n, data: make([]T, len(g.data))}
	copy(next.data, g.data)
	return next
}

// Cells returns a copy of the row-major values.
func (g *Grid[T]) Cells() []T {
	out := make([]T, len(g.data))
	copy(out, g.data)
	return out
}

// Each calls fn for every cell in raster order.
func (g *Grid[T]) Each(fn func(x, y int, v T)) {
	for i, v := range g.data {
		fn(i%g.n, i/g.n, v)
	}
}

// Equal reports whether both grids have the same size and cells.
func Equal[T comparable](a, b *Grid[T]) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.n != b.n {
		return false
	}
	for i := range a.data {
		if a.data[i] != b.data[i] {
			return false
		}
	}
	return true
}

func (g *Grid[T]) boundsError(x, y int) error {
	return fmt.Errorf("%w: (%d,%d) outside %dx%d", ErrOutOfBounds, x, y, g.n, g.n)
}
