// Package stats summarises a city snapshot the way the statistics panel
// presents it.
package stats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"urban-ca/internal/sims/city"
)

// Summary aggregates one generation.
type Summary struct {
	Cells      int
	Buildings  int
	Population int
	Energy     int
	Counts     city.Counts
}

// TypeCount pairs a building type with how often it occurs.
type TypeCount struct {
	Type  city.BuildingType
	Count int
}

// Compute tallies g. Population and energy only count developed parcels.
func Compute(g *city.Grid) Summary {
	s := Summary{Cells: g.N() * g.N()}
	g.Each(func(_, _ int, c city.Cell) {
		s.Counts[c.Type]++
		if c.Type == city.Empty {
			return
		}
		s.Buildings++
		s.Population += c.Population
		s.Energy += c.Energy
	})
	return s
}

// Occupancy is the share of developed parcels in percent.
func (s Summary) Occupancy() float64 {
	if s.Cells == 0 {
		return 0
	}
	return float64(s.Buildings) * 100 / float64(s.Cells)
}

// AvgPopulation is the mean population per developed parcel.
func (s Summary) AvgPopulation() float64 {
	if s.Buildings == 0 {
		return 0
	}
	return float64(s.Population) / float64(s.Buildings)
}

// AvgEnergy is the mean energy per developed parcel.
func (s Summary) AvgEnergy() float64 {
	if s.Buildings == 0 {
		return 0
	}
	return float64(s.Energy) / float64(s.Buildings)
}

// Top returns up to n of the most common developed types, most common first.
// Ties keep enumeration order and types that do not occur are left out.
func (s Summary) Top(n int) []TypeCount {
	out := make([]TypeCount, 0, city.NumBuildingTypes-1)
	for _, t := range city.BuildingTypes()[1:] {
		if c := s.Counts.Get(t); c > 0 {
			out = append(out, TypeCount{Type: t, Count: c})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// String renders a one-line report.
func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "population %s, buildings %s/%s (%.1f%%), avg pop %.1f, avg energy %.1f",
		humanize.Comma(int64(s.Population)),
		humanize.Comma(int64(s.Buildings)),
		humanize.Comma(int64(s.Cells)),
		s.Occupancy(), s.AvgPopulation(), s.AvgEnergy())
	if top := s.Top(3); len(top) > 0 {
		parts := make([]string, len(top))
		for i, tc := range top {
			parts[i] = fmt.Sprintf("%s %s", tc.Type, humanize.Comma(int64(tc.Count)))
		}
		b.WriteString("; top: ")
		b.WriteString(strings.Join(parts, ", "))
	}
	return b.String()
}

// Lines renders the summary as label/value rows for the HUD.
func (s Summary) Lines() []string {
	lines := []string{
		"Population: " + humanize.Comma(int64(s.Population)),
		fmt.Sprintf("Buildings: %s (%.0f%%)", humanize.Comma(int64(s.Buildings)), s.Occupancy()),
		fmt.Sprintf("Avg pop: %.1f  Avg energy: %.1f", s.AvgPopulation(), s.AvgEnergy()),
	}
	for _, tc := range s.Top(5) {
		lines = append(lines, fmt.Sprintf("  %-11s %d", tc.Type, tc.Count))
	}
	return lines
}
