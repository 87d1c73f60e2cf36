package render

import (
	"image/color"
	"math"
)

// fillPaletteRGBA converts cell values into RGBA pixels using a palette. When
// the palette is empty the buffer is cleared to transparent black.
func fillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		for i := range cells {
			base := i * 4
			buf[base+0] = 0
			buf[base+1] = 0
			buf[base+2] = 0
			buf[base+3] = 0
		}
		return
	}

	last := len(palette) - 1
	for i, c := range cells {
		idx := int(c)
		if idx > last {
			idx = last
		}
		base := i * 4
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// FillHeatmap converts scores in [0,100] into translucent tinted pixels.
// Zero scores stay fully transparent so the city shows through.
func FillHeatmap(buf []byte, values []uint8, tint color.RGBA) {
	const (
		maxAlpha      = 170.0
		glowBase      = 0.35
		glowRange     = 0.65
		intensityBias = 0.75
	)
	for i, v := range values {
		base := i * 4
		intensity := math.Min(float64(v)/100, 1)
		if intensity == 0 {
			buf[base+0] = 0
			buf[base+1] = 0
			buf[base+2] = 0
			buf[base+3] = 0
			continue
		}
		glow := glowBase + glowRange*math.Sqrt(intensity)
		buf[base+0] = scaleComponent(tint.R, glow)
		buf[base+1] = scaleComponent(tint.G, glow)
		buf[base+2] = scaleComponent(tint.B, glow)
		buf[base+3] = uint8(math.Round(maxAlpha * math.Pow(intensity, intensityBias)))
	}
}

func scaleComponent(value uint8, factor float64) uint8 {
	scaled := math.Round(float64(value) * factor)
	if scaled < 0 {
		return 0
	}
	if scaled > 255 {
		return 255
	}
	return uint8(scaled)
}
