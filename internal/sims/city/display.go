package city

import "image/color"

const (
	displayTypeMask     = 0x0f
	displayLowEnergyBit = 0x10

	// lowEnergy marks developed parcels that are running down.
	lowEnergy = 30
)

var cityPalette = buildCityPalette()

// Palette exposes the color palette used for rendering the city.
func (w *World) Palette() []color.RGBA {
	return cityPalette
}

// TypeColor returns the base color of a building type.
func TypeColor(t BuildingType) color.RGBA {
	return toRGBA(baseColor(t))
}

func buildCityPalette() []color.RGBA {
	palette := make([]color.RGBA, 32)
	for i := range palette {
		t := BuildingType(i & displayTypeMask)
		if !t.Valid() {
			palette[i] = color.RGBA{A: 255}
			continue
		}
		c := baseColor(t)
		if i&displayLowEnergyBit != 0 {
			c = blendColors(c, color.NRGBA{R: 20, G: 20, B: 24, A: 255}, 0.55)
		}
		palette[i] = toRGBA(c)
	}
	return palette
}

func baseColor(t BuildingType) color.NRGBA {
	switch t {
	case Residential:
		return color.NRGBA{R: 0x10, G: 0xb9, B: 0x81, A: 255}
	case Commercial:
		return color.NRGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 255}
	case Industrial:
		return color.NRGBA{R: 0xf5, G: 0x9e, B: 0x0b, A: 255}
	case Park:
		return color.NRGBA{R: 0x22, G: 0xc5, B: 0x5e, A: 255}
	case Road:
		return color.NRGBA{R: 0x6b, G: 0x72, B: 0x80, A: 255}
	case Power:
		return color.NRGBA{R: 0xef, G: 0x44, B: 0x44, A: 255}
	case Water:
		return color.NRGBA{R: 0x06, G: 0xb6, B: 0xd4, A: 255}
	case Hospital:
		return color.NRGBA{R: 0xec, G: 0x48, B: 0x99, A: 255}
	case School:
		return color.NRGBA{R: 0x8b, G: 0x5c, B: 0xf6, A: 255}
	case Police:
		return color.NRGBA{R: 0x1e, G: 0x40, B: 0xaf, A: 255}
	case Fire:
		return color.NRGBA{R: 0xdc, G: 0x26, B: 0x26, A: 255}
	default:
		return color.NRGBA{R: 0x47, G: 0x55, B: 0x69, A: 255}
	}
}

func toRGBA(c color.NRGBA) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

func blendColors(base, overlay color.NRGBA, overlayWeight float64) color.NRGBA {
	if overlayWeight <= 0 {
		return base
	}
	if overlayWeight >= 1 {
		return overlay
	}
	inv := 1 - overlayWeight
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a)*inv + float64(b)*overlayWeight + 0.5)
	}
	return color.NRGBA{
		R: mix(base.R, overlay.R),
		G: mix(base.G, overlay.G),
		B: mix(base.B, overlay.B),
		A: mix(base.A, overlay.A),
	}
}

// EncodeDisplayValue packs a cell into its palette index.
func EncodeDisplayValue(c Cell) uint8 {
	value := uint8(c.Type) & displayTypeMask
	if c.Type != Empty && c.Energy < lowEnergy {
		value |= displayLowEnergyBit
	}
	return value
}

func (w *World) rebuildDisplay() {
	n := w.grid.N()
	if len(w.display) != n*n {
		w.display = make([]uint8, n*n)
	}
	w.grid.Each(func(x, y int, c Cell) {
		w.display[y*n+x] = EncodeDisplayValue(c)
	})
}
