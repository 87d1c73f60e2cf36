//go:build ebiten

package ui

import (
	"image/color"

	"urban-ca/internal/core"
	"urban-ca/internal/render"
	"urban-ca/internal/sims/city"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type resourceFieldProvider interface {
	ResourceField(k city.ResourceKind) []uint8
}

var overlayKeys = []struct {
	key  ebiten.Key
	kind city.ResourceKind
	tint color.RGBA
}{
	{ebiten.KeyDigit1, city.ResourcePower, color.RGBA{R: 255, G: 214, B: 64}},
	{ebiten.KeyDigit2, city.ResourceWater, color.RGBA{R: 64, G: 164, B: 223}},
	{ebiten.KeyDigit3, city.ResourceHappiness, color.RGBA{R: 120, G: 230, B: 120}},
	{ebiten.KeyDigit4, city.ResourcePollution, color.RGBA{R: 170, G: 90, B: 40}},
}

// Overlay draws one resource score per parcel on top of the city. Keys 1-4
// pick power, water, happiness or pollution; pressing the active key again
// hides it.
type Overlay struct {
	sim     core.Sim
	scale   int
	active  int
	painter *render.GridPainter
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	size := sim.Size()
	return &Overlay{
		sim:     sim,
		scale:   scale,
		active:  -1,
		painter: render.NewGridPainter(size.W, size.H),
	}
}

// Update toggles overlays from the keyboard.
func (o *Overlay) Update() {
	for i, k := range overlayKeys {
		if !inpututil.IsKeyJustPressed(k.key) {
			continue
		}
		if o.active == i {
			o.active = -1
		} else {
			o.active = i
		}
	}
}

// Label names the visible overlay, or returns "" when none is shown.
func (o *Overlay) Label() string {
	if o.active < 0 {
		return ""
	}
	return overlayKeys[o.active].kind.String()
}

// Draw renders the overlay onto the provided screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if o.active < 0 {
		return
	}
	provider, ok := o.sim.(resourceFieldProvider)
	if !ok {
		return
	}
	k := overlayKeys[o.active]
	scale := o.scale
	if scale <= 0 {
		scale = 1
	}
	o.painter.BlitHeatmap(screen, provider.ResourceField(k.kind), k.tint, scale)
}
