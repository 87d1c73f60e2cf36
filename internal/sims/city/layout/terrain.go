package layout

import (
	opensimplex "github.com/ojrac/opensimplex-go"

	"urban-ca/internal/core"
	"urban-ca/internal/sims/city"
)

// Terrain zones land from two noise fields: density decides how built-up a
// parcel is, character decides what kind of building it gets. A regular road
// grid ties the blocks together and every intersection gets a utility.
func Terrain(n int, rng *core.RNG) *city.Grid {
	seed := rng.Source().Int64()
	density := opensimplex.NewNormalized(seed)
	character := opensimplex.NewNormalized(seed + 1)

	c := newCanvas(n)
	spacing := max(4, n/5)
	road := city.Cell{Type: city.Road, Energy: 70}

	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if x%spacing == spacing/2 || y%spacing == spacing/2 {
				c.set(x, y, road)
				continue
			}
			fx, fy := float64(x), float64(y)
			d := octaveNoise(density, fx, fy, 3, 0.12, 0.5)
			k := octaveNoise(character, fx, fy, 2, 0.08, 0.5)
			t := zone(d, k)
			if t == city.Empty {
				continue
			}
			c.set(x, y, city.Cell{
				Type:       t,
				Age:        rng.IntN(8),
				Population: int(d * float64(t.PopulationCap()) * 0.5),
				Energy:     50 + rng.IntN(50),
			})
		}
	}

	// Alternate power and water beside each intersection.
	i := 0
	for y := spacing / 2; y < n; y += spacing {
		for x := spacing / 2; x < n; x += spacing {
			t := city.Power
			if i%2 == 1 {
				t = city.Water
			}
			c.set(x+1, y+1, city.Cell{Type: t, Population: 10, Energy: 90})
			i++
		}
	}
	return c.grid()
}

func zone(density, character float64) city.BuildingType {
	switch {
	case density < 0.35:
		return city.Empty
	case density < 0.42:
		return city.Park
	case character > 0.68:
		return city.Industrial
	case density > 0.62 && character > 0.45:
		return city.Commercial
	default:
		return city.Residential
	}
}

// octaveNoise layers several frequencies of noise and renormalises the sum.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total, amplitude, maxVal := 0.0, 1.0, 0.0
	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}
	return total / maxVal
}
