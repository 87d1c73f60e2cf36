package city

// Resources are the four neighborhood scores, each in [0,100].
type Resources struct {
	Power     int
	Water     int
	Happiness int
	Pollution int
}

// ResourceKind selects one of the four scores.
type ResourceKind uint8

const (
	ResourcePower ResourceKind = iota
	ResourceWater
	ResourceHappiness
	ResourcePollution
)

// String returns the resource name.
func (k ResourceKind) String() string {
	switch k {
	case ResourcePower:
		return "power"
	case ResourceWater:
		return "water"
	case ResourceHappiness:
		return "happiness"
	case ResourcePollution:
		return "pollution"
	}
	return "unknown"
}

// Get returns the score selected by k.
func (r Resources) Get(k ResourceKind) int {
	switch k {
	case ResourcePower:
		return r.Power
	case ResourceWater:
		return r.Water
	case ResourceHappiness:
		return r.Happiness
	case ResourcePollution:
		return r.Pollution
	}
	return 0
}

// ComputeResources derives all four scores from neighborhood counts alone.
func ComputeResources(c Counts) Resources {
	return Resources{
		Power:     PowerSupply(c),
		Water:     WaterSupply(c),
		Happiness: Happiness(c),
		Pollution: Pollution(c),
	}
}

// PowerSupply is the percentage of local demand covered by power plants.
func PowerSupply(c Counts) int {
	supply := c.Get(Power) * 100
	demand := c.Get(Residential)*10 + c.Get(Commercial)*15 + c.Get(Industrial)*25
	return Clamp(supply*100/max(1, demand), 0, 100)
}

// WaterSupply is the percentage of local demand covered by water towers.
func WaterSupply(c Counts) int {
	supply := c.Get(Water) * 80
	demand := c.Get(Residential)*8 + c.Get(Commercial)*12 + c.Get(Industrial)*20
	return Clamp(supply*100/max(1, demand), 0, 100)
}

// Happiness starts at 50 and is pushed around by amenities, industry and
// residential crowding.
func Happiness(c Counts) int {
	h := 50
	h += c.Get(Park) * 15
	h += c.Get(School) * 10
	h += c.Get(Hospital) * 8
	h += c.Get(Police) * 5
	h += c.Get(Fire) * 5
	h += c.Get(Commercial) * 3
	h -= c.Get(Industrial) * 8
	h -= max(0, c.Get(Residential)-5) * 2
	return Clamp(h, 0, 100)
}

// Pollution grows with industry, power plants, commerce and roads; parks
// absorb some of it.
func Pollution(c Counts) int {
	p := c.Get(Industrial)*20 +
		c.Get(Power)*15 +
		c.Get(Commercial)*5 +
		c.Get(Road)*3 -
		c.Get(Park)*10
	return Clamp(p, 0, 100)
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
