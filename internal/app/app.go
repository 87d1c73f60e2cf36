//go:build ebiten

package app

import (
	"fmt"
	"image/color"
	"log/slog"
	"time"

	"urban-ca/internal/core"
	"urban-ca/internal/render"
	"urban-ca/internal/sims/city"
	"urban-ca/internal/sims/city/layout"
	"urban-ca/internal/stats"
	"urban-ca/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const hudWidth = 280

type paletteProvider interface {
	Palette() []color.RGBA
}

// Game adapts a core simulation to the ebiten.Game interface. When the
// simulation is a city, clicks place the selected building.
type Game struct {
	sim     core.Sim
	world   *city.World
	painter *render.GridPainter
	overlay *ui.Overlay
	hud     *ui.HUD
	palette []color.RGBA

	scale    int
	paused   bool
	tickOnce bool
	seed     int64
	tool     city.BuildingType
	clock    *core.FixedStep
	rng      *core.RNG
}

// New constructs a Game for the provided simulation.
func New(sim core.Sim, cfg *Config) *Game {
	size := sim.Size()
	g := &Game{
		sim:     sim,
		painter: render.NewGridPainter(size.W, size.H),
		overlay: ui.NewOverlay(sim, cfg.Scale),
		hud:     ui.NewHUD(sim, hudWidth),
		scale:   cfg.Scale,
		seed:    cfg.Seed,
		tool:    city.Residential,
		clock:   core.NewFixedStep(cfg.Speed),
		rng:     core.NewRNG(cfg.Seed),
		paused:  true,
	}
	if w, ok := sim.(*city.World); ok {
		g.world = w
	}
	if p, ok := sim.(paletteProvider); ok {
		g.palette = p.Palette()
	} else {
		g.palette = []color.RGBA{{A: 255}, {R: 255, G: 255, B: 255, A: 255}}
	}
	return g
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.sim.Reset(seed)
	g.tickOnce = false
}

// randomSetup replaces the city with one of the generated layouts.
func (g *Game) randomSetup() {
	if g.world == nil {
		return
	}
	n := g.world.Size().W
	name, grid := layout.Random(n, g.rng)
	if err := g.world.Load(grid, 0); err != nil {
		slog.Error("random setup", "layout", name, "error", err)
		return
	}
	g.paused = true
	slog.Info("random setup", "layout", name)
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.paused = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyG) {
		g.randomSetup()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyUp) {
		g.clock.SetTPS(min(g.clock.TPS()+1, 10))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDown) {
		g.clock.SetTPS(g.clock.TPS() - 1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) || inpututil.IsKeyJustPressed(ebiten.KeyRightBracket) {
		g.tool = city.BuildingType((int(g.tool) + 1) % city.NumBuildingTypes)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyLeftBracket) {
		g.tool = city.BuildingType((int(g.tool) + city.NumBuildingTypes - 1) % city.NumBuildingTypes)
	}
	g.handleClick()

	if g.overlay != nil {
		g.overlay.Update()
	}

	size := g.sim.Size()
	g.hud.Update(size.W * g.scale)

	if g.tickOnce || (!g.paused && g.clock.ShouldStep()) {
		g.sim.Step()
		g.tickOnce = false
	}
	g.hud.SetStatus(g.statusLines())
	return nil
}

func (g *Game) handleClick() {
	if g.world == nil || !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	size := g.sim.Size()
	if mx < 0 || my < 0 || mx >= size.W*g.scale || my >= size.H*g.scale {
		return
	}
	x, y := mx/g.scale, my/g.scale
	if err := g.world.Place(x, y, g.tool); err != nil {
		slog.Warn("place", "x", x, "y", y, "type", g.tool.String(), "error", err)
	}
}

func (g *Game) statusLines() []string {
	state := "running"
	if g.paused {
		state = "paused"
	}
	lines := []string{
		fmt.Sprintf("Speed: %d gen/s (%s)", g.clock.TPS(), state),
		"Tool: " + g.tool.String(),
	}
	if label := g.overlay.Label(); label != "" {
		lines = append(lines, "Overlay: "+label)
	}
	if g.world != nil {
		grid, gen := g.world.Snapshot()
		lines = append(lines, fmt.Sprintf("Generation: %d", gen), "")
		lines = append(lines, stats.Compute(grid).Lines()...)
	}
	lines = append(lines, "",
		"space pause  n step  g random",
		"r reset  s reseed  up/down speed",
		"tab/[ ] tool  1-4 overlays",
	)
	return lines
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.sim.Cells(), g.palette, g.scale)
	if g.overlay != nil {
		g.overlay.Draw(screen)
	}
	size := g.sim.Size()
	g.hud.Draw(screen, size.W*g.scale, g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	return s.W*g.scale + hudWidth, s.H * g.scale
}

// WindowSize is the initial window size for the game.
func (g *Game) WindowSize() (int, int) {
	return g.Layout(0, 0)
}
