package city

import (
	"fmt"
	"log/slog"
	"sync"

	"urban-ca/internal/core"
)

// World is the stateful wrapper the drivers talk to: it owns the current
// snapshot, the generation counter and the run seed.
type World struct {
	mu sync.RWMutex

	cfg    Config
	engine *Engine

	grid       *Grid
	generation uint64
	seed       int64
	placeRNG   *core.RNG

	display []uint8
}

// New returns a city of side n using defaults.
func New(n int) *World {
	cfg := DefaultConfig()
	cfg.Size = n
	return NewWithConfig(cfg)
}

// NewWithConfig returns a city configured from the provided options. The grid
// starts empty until Reset is called.
func NewWithConfig(cfg Config) *World {
	if cfg.Size <= 0 {
		cfg.Size = DefaultSize
	}
	w := &World{
		cfg:      cfg,
		engine:   NewEngine(cfg.Params),
		grid:     NewGrid(cfg.Size),
		seed:     cfg.Seed,
		placeRNG: core.NewRNG(cfg.Seed + 1),
		display:  make([]uint8, cfg.Size*cfg.Size),
	}
	return w
}

// Name returns the simulation identifier.
func (w *World) Name() string { return "city" }

// Size reports the grid dimensions.
func (w *World) Size() core.Size { return core.Size{W: w.cfg.Size, H: w.cfg.Size} }

// Config returns a copy of the active configuration.
func (w *World) Config() Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.cfg
}

// Cells exposes the display buffer: one building type per cell.
func (w *World) Cells() []uint8 { return w.display }

// Grid returns the current snapshot. Snapshots are never mutated, so the
// caller may keep reading it while the world advances.
func (w *World) Grid() *Grid {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.grid
}

// Snapshot returns the current grid together with its generation.
func (w *World) Snapshot() (*Grid, uint64) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.grid, w.generation
}

// Generation returns the number of steps since the last reset or load.
func (w *World) Generation() uint64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.generation
}

// Seed returns the seed of the current run.
func (w *World) Seed() int64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.seed
}

// Reset rebuilds the configured layout. A zero seed reuses the config seed.
func (w *World) Reset(seed int64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.resetLocked(w.cfg.Layout, seed); err != nil {
		slog.Warn("layout unavailable, starting empty", "layout", w.cfg.Layout, "error", err)
		_ = w.resetLocked("empty", seed)
	}
}

// ResetLayout switches to another layout and rebuilds the grid from it.
func (w *World) ResetLayout(layout string, seed int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.resetLocked(layout, seed); err != nil {
		return err
	}
	w.cfg.Layout = layout
	return nil
}

func (w *World) resetLocked(layout string, seed int64) error {
	effective := seed
	if effective == 0 {
		effective = w.cfg.Seed
	}
	grid, err := BuildLayout(layout, w.cfg.Size, core.NewRNG(effective))
	if err != nil {
		return err
	}
	w.seed = effective
	w.placeRNG = core.NewRNG(effective + 1)
	w.generation = 0
	w.grid = grid
	w.rebuildDisplay()
	return nil
}

// Step advances the city by one generation.
func (w *World) Step() {
	w.mu.Lock()
	defer w.mu.Unlock()
	streams := core.CellStreams{Seed: w.seed, Generation: w.generation}
	w.grid = w.engine.StepParallel(w.grid, streams, w.cfg.Workers)
	w.generation++
	w.rebuildDisplay()
}

// Place puts a freshly built parcel of type t at (x, y).
func (w *World) Place(x, y int, t BuildingType) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	next, err := Place(w.grid, x, y, t, w.placeRNG)
	if err != nil {
		return err
	}
	w.grid = next
	w.rebuildDisplay()
	return nil
}

// Load replaces the current snapshot, e.g. with one restored from disk.
func (w *World) Load(g *Grid, generation uint64) error {
	if g == nil || g.N() != w.cfg.Size {
		n := 0
		if g != nil {
			n = g.N()
		}
		return fmt.Errorf("%w: got %d, want %d", ErrGridSize, n, w.cfg.Size)
	}
	if err := Validate(g); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.grid = g
	w.generation = generation
	w.rebuildDisplay()
	return nil
}

// ResourceField returns score k for every cell of the current snapshot.
func (w *World) ResourceField(k ResourceKind) []uint8 {
	w.mu.RLock()
	g, engine := w.grid, w.engine
	w.mu.RUnlock()
	return engine.ResourceField(g, k)
}

func init() {
	core.Register("city", func(cfg map[string]string) core.Sim {
		c := FromMap(cfg)
		return NewWithConfig(c)
	})
}
