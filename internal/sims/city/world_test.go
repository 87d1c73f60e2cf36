package city

import (
	"errors"
	"testing"

	"urban-ca/internal/core"
)

func init() {
	RegisterLayout("test_crossroads", func(n int, rng *core.RNG) *Grid {
		mid := n / 2
		return NewGrid(n).Generate(func(x, y int) Cell {
			switch {
			case x == mid && y == mid:
				return Cell{Type: Power, Energy: 100}
			case x == mid || y == mid:
				return Cell{Type: Road, Energy: 60}
			case rng.IntN(4) == 0:
				return Cell{Type: Residential, Population: 20, Energy: 80}
			}
			return Cell{}
		})
	})
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Size = 12
	cfg.Seed = 21
	cfg.Layout = "test_crossroads"
	cfg.Workers = 3
	return cfg
}

func TestWorldResetDeterministic(t *testing.T) {
	a := NewWithConfig(testConfig())
	b := NewWithConfig(testConfig())
	a.Reset(0)
	b.Reset(0)
	if !core.Equal(a.Grid(), b.Grid()) {
		t.Fatal("reset with the same seed produced different layouts")
	}
	if a.Seed() != 21 {
		t.Fatalf("zero seed should fall back to the config seed, got %d", a.Seed())
	}

	for i := 0; i < 15; i++ {
		a.Step()
		b.Step()
	}
	if !core.Equal(a.Grid(), b.Grid()) {
		t.Fatal("identical worlds diverged")
	}
	if a.Generation() != 15 {
		t.Fatalf("generation = %d, want 15", a.Generation())
	}

	a.Reset(0)
	if a.Generation() != 0 {
		t.Fatalf("reset should clear the generation counter, got %d", a.Generation())
	}
}

func TestWorldStepIndependentOfWorkers(t *testing.T) {
	cfg := testConfig()
	cfg.Workers = 1
	seq := NewWithConfig(cfg)
	cfg.Workers = 6
	par := NewWithConfig(cfg)
	seq.Reset(5)
	par.Reset(5)
	for i := 0; i < 10; i++ {
		seq.Step()
		par.Step()
	}
	if !core.Equal(seq.Grid(), par.Grid()) {
		t.Fatal("worker count changed the outcome")
	}
}

func TestWorldSnapshotsAreStable(t *testing.T) {
	w := NewWithConfig(testConfig())
	w.Reset(0)
	held := w.Grid()
	copyOfHeld := held.Clone()
	w.Step()
	if err := w.Place(0, 0, Hospital); err != nil {
		t.Fatalf("place: %v", err)
	}
	if !core.Equal(held, copyOfHeld) {
		t.Fatal("a snapshot handed out earlier was modified")
	}
}

func TestWorldPlace(t *testing.T) {
	w := NewWithConfig(testConfig())
	w.Reset(0)

	if err := w.Place(1, 2, School); err != nil {
		t.Fatalf("place: %v", err)
	}
	c := w.Grid().At(1, 2)
	if c.Type != School || c.Age != 0 {
		t.Fatalf("unexpected placed cell %+v", c)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("placed cell invalid: %v", err)
	}
	if got := w.Cells()[w.Grid().Index(1, 2)] & displayTypeMask; BuildingType(got) != School {
		t.Fatalf("display buffer not refreshed, got type %d", got)
	}

	if err := w.Place(12, 0, Park); !errors.Is(err, core.ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
	if err := w.Place(0, 0, BuildingType(42)); !errors.Is(err, ErrUnknownBuildingType) {
		t.Fatalf("expected ErrUnknownBuildingType, got %v", err)
	}
	if err := w.Place(0, 0, Empty); err != nil {
		t.Fatalf("demolish: %v", err)
	}
	if got := w.Grid().At(0, 0); got != (Cell{}) {
		t.Fatalf("demolished parcel = %+v", got)
	}
}

func TestWorldResetLayout(t *testing.T) {
	w := NewWithConfig(testConfig())
	w.Reset(0)
	before := w.Grid()

	err := w.ResetLayout("no_such_layout", 3)
	if !errors.Is(err, ErrUnknownLayout) {
		t.Fatalf("expected ErrUnknownLayout, got %v", err)
	}
	if w.Grid() != before || w.Config().Layout != "test_crossroads" {
		t.Fatal("failed layout switch changed the world")
	}

	if err := w.ResetLayout("empty", 3); err != nil {
		t.Fatalf("reset to empty: %v", err)
	}
	if w.Config().Layout != "empty" || w.Seed() != 3 {
		t.Fatalf("layout %q seed %d after switch", w.Config().Layout, w.Seed())
	}
	w.Grid().Each(func(x, y int, c Cell) {
		if c != (Cell{}) {
			t.Fatalf("(%d,%d) not empty: %+v", x, y, c)
		}
	})
}

func TestWorldResetFallsBackToEmpty(t *testing.T) {
	cfg := testConfig()
	cfg.Layout = "missing"
	w := NewWithConfig(cfg)
	w.Reset(0)
	if w.Grid().N() != cfg.Size {
		t.Fatalf("grid side %d, want %d", w.Grid().N(), cfg.Size)
	}
}

func TestWorldLoad(t *testing.T) {
	w := NewWithConfig(testConfig())

	if err := w.Load(NewGrid(5), 0); !errors.Is(err, ErrGridSize) {
		t.Fatalf("expected ErrGridSize, got %v", err)
	}
	if err := w.Load(nil, 0); !errors.Is(err, ErrGridSize) {
		t.Fatalf("expected ErrGridSize for nil grid, got %v", err)
	}

	bad := mustWith(NewGrid(12), 3, 3, Cell{Type: Residential, Population: 500})
	if err := w.Load(bad, 0); !errors.Is(err, ErrInvalidCell) {
		t.Fatalf("expected ErrInvalidCell, got %v", err)
	}

	good := randomGrid(12, 8)
	if err := w.Load(good, 77); err != nil {
		t.Fatalf("load: %v", err)
	}
	if w.Generation() != 77 || !core.Equal(w.Grid(), good) {
		t.Fatal("load did not install the snapshot")
	}
}

func TestWorldParameters(t *testing.T) {
	w := NewWithConfig(testConfig())
	if !w.SetFloatParameter("industrial_growth_chance", 1.7) {
		t.Fatal("industrial_growth_chance should be settable")
	}
	if got := w.Config().Params.IndustrialGrowthChance; got != 1 {
		t.Fatalf("chance should clamp to 1, got %v", got)
	}
	if w.SetFloatParameter("gravity", 0.5) {
		t.Fatal("unknown key accepted")
	}
	if !w.SetIntParameter("neighborhood_radius", -4) || w.Config().Params.NeighborhoodRadius != 0 {
		t.Fatalf("radius should clamp to 0, got %d", w.Config().Params.NeighborhoodRadius)
	}

	snap := w.Parameters()
	p, ok := snap.Lookup("layout")
	if !ok || p.Value != "test_crossroads" {
		t.Fatalf("layout parameter = %+v, %v", p, ok)
	}
	if p, ok := snap.Lookup("industrial_growth_chance"); !ok || p.Value != "1" {
		t.Fatalf("chance parameter = %+v, %v", p, ok)
	}
	if n := len(w.ParameterControls()); n != len(chanceKeys)+1 {
		t.Fatalf("expected %d controls, got %d", len(chanceKeys)+1, n)
	}
}

func TestWorldRegistered(t *testing.T) {
	factory, ok := core.Sims()["city"]
	if !ok {
		t.Fatal("city simulation not registered")
	}
	sim := factory(map[string]string{"size": "8", "seed": "4"})
	if sim.Size() != (core.Size{W: 8, H: 8}) {
		t.Fatalf("size = %+v", sim.Size())
	}
	sim.Reset(0)
	sim.Step()
	if len(sim.Cells()) != 64 {
		t.Fatalf("display buffer holds %d cells", len(sim.Cells()))
	}
}
