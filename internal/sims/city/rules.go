package city

import (
	"fmt"
	"math"
)

// Source is a stream of uniform draws in [0, 1).
type Source interface {
	Float64() float64
}

// Context is everything a transition rule may look at for one cell during
// one generation. It is derived from the previous snapshot only.
type Context struct {
	Neighbors []Cell
	Counts    Counts
	Resources Resources
}

// HasRoad reports whether a road lies inside the counted neighborhood.
func (c Context) HasRoad() bool { return c.Counts.Get(Road) > 0 }

// NewContext builds the evolution context of (x, y) in g.
func NewContext(g *Grid, x, y, radius int) Context {
	counts := NearbyCounts(g, x, y, radius)
	return Context{
		Neighbors: Neighbors(g, x, y),
		Counts:    counts,
		Resources: ComputeResources(counts),
	}
}

// Rules applies the per-type transition logic.
type Rules struct {
	Params Params
}

// Apply returns the successor of cell. Age always advances by one; a change of
// type yields a brand-new cell with age zero.
func (r Rules) Apply(cell Cell, ctx Context, src Source) Cell {
	next := cell
	next.Age++

	switch cell.Type {
	case Empty:
		return r.empty(next, ctx, src)
	case Residential:
		return r.residential(next, ctx, src)
	case Commercial:
		return r.commercial(next, ctx, src)
	case Industrial:
		return r.industrial(next, ctx, src)
	case Park:
		return park(next)
	case Road:
		return road(next, ctx)
	case Power, Water, Hospital, School, Police, Fire:
		return service(next, ctx)
	}
	panic(fmt.Sprintf("city: no transition rule for %v", cell.Type))
}

func (r Rules) empty(cell Cell, ctx Context, src Source) Cell {
	if !ctx.HasRoad() {
		return cell
	}
	res := ctx.Resources
	residential := ctx.Counts.Get(Residential)
	commercial := ctx.Counts.Get(Commercial)

	// Each qualifying branch gets its own draw; the first success wins.
	if residential > 0 && res.Power > 50 && res.Water > 50 && res.Happiness > 30 {
		if src.Float64() < r.Params.ResidentialGrowthChance {
			return Cell{Type: Residential, Population: 10 + randRange(src, 0, 30), Energy: 80}
		}
	}
	if residential >= 2 && commercial < 3 && res.Power > 40 {
		if src.Float64() < r.Params.CommercialGrowthChance {
			return Cell{Type: Commercial, Population: 5 + randRange(src, 0, 20), Energy: 70}
		}
	}
	if residential < 2 && res.Power > 60 && res.Water > 40 {
		if src.Float64() < r.Params.IndustrialGrowthChance {
			return Cell{Type: Industrial, Population: 20 + randRange(src, 0, 40), Energy: 90}
		}
	}
	return cell
}

func (r Rules) residential(cell Cell, ctx Context, src Source) Cell {
	res := ctx.Resources
	if !ctx.HasRoad() || res.Power <= 30 || res.Water <= 30 || res.Pollution > 80 {
		if src.Float64() < r.Params.ResidentialAbandonChance {
			return Cell{Type: Empty}
		}
	}

	var delta int
	switch {
	case res.Happiness > 60 && res.Pollution < 40:
		delta = randRange(src, 2, 12)
	case res.Happiness < 30 || res.Pollution > 70:
		delta = -randRange(src, 1, 9)
	default:
		delta = randRange(src, -2, 4)
	}
	cell.Population = Clamp(cell.Population+delta, 0, Residential.PopulationCap())

	if res.Happiness > 50 {
		cell.Energy = Clamp(cell.Energy+5, 0, MaxEnergy)
	} else {
		cell.Energy = Clamp(cell.Energy-3, 0, MaxEnergy)
	}
	return cell
}

func (r Rules) commercial(cell Cell, ctx Context, src Source) Cell {
	res := ctx.Resources
	residential := ctx.Counts.Get(Residential)
	if !ctx.HasRoad() || res.Power <= 40 || residential == 0 {
		if src.Float64() < r.Params.CommercialAbandonChance {
			return Cell{Type: Empty}
		}
	}

	customers := residential * 20
	success := Clamp(customers+res.Happiness-res.Pollution, 0, 100)

	if success > 60 {
		cell.Population += randRange(src, 1, 9)
	} else {
		cell.Population -= randRange(src, 0, 5)
	}
	cell.Population = Clamp(cell.Population, 0, Commercial.PopulationCap())

	if success > 50 {
		cell.Energy = Clamp(cell.Energy+3, 0, MaxEnergy)
	} else {
		cell.Energy = Clamp(cell.Energy-2, 0, MaxEnergy)
	}
	return cell
}

func (r Rules) industrial(cell Cell, ctx Context, src Source) Cell {
	res := ctx.Resources
	if !ctx.HasRoad() || res.Power <= 50 || res.Water <= 40 {
		if src.Float64() < r.Params.IndustrialAbandonChance {
			return Cell{Type: Empty}
		}
	}

	efficiency := Clamp(res.Power+res.Water-20, 0, 100)
	if efficiency > 60 {
		cell.Population += randRange(src, 2, 8)
	} else {
		cell.Population += randRange(src, -1, 3)
	}
	cell.Population = Clamp(cell.Population, 0, Industrial.PopulationCap())

	if efficiency > 50 {
		cell.Energy = Clamp(cell.Energy+4, 0, MaxEnergy)
	} else {
		cell.Energy = Clamp(cell.Energy-1, 0, MaxEnergy)
	}
	return cell
}

func park(cell Cell) Cell {
	cell.Population = 0
	cell.Energy = Clamp(cell.Energy+2, 0, MaxEnergy)
	return cell
}

// roadFloor is the lowest energy a road decays to.
const roadFloor = 20

func road(cell Cell, ctx Context) Cell {
	cell.Population = 0
	wear := 1
	if ctx.Counts.Total() > 8 {
		wear = 2
	}
	cell.Energy = Clamp(cell.Energy-wear, roadFloor, MaxEnergy)
	return cell
}

func service(cell Cell, ctx Context) Cell {
	if ctx.Resources.Power <= 30 {
		cell.Energy = Clamp(cell.Energy-10, 0, MaxEnergy)
		return cell
	}
	cell.Energy = Clamp(cell.Energy+1, 0, MaxEnergy)
	return cell
}

// randRange draws a uniform integer in [a, b).
func randRange(src Source, a, b int) int {
	return int(math.Floor(src.Float64()*float64(b-a))) + a
}
