package city

import (
	"strconv"

	"urban-ca/internal/core"
)

// Parameters reports the active configuration for the HUD.
func (w *World) Parameters() core.ParameterSnapshot {
	w.mu.RLock()
	cfg := w.cfg
	generation := w.generation
	seed := w.seed
	w.mu.RUnlock()

	params := cfg.Params
	groups := []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				intParam("size", "Size", cfg.Size),
				int64Param("seed", "Seed", seed),
				{Key: "layout", Label: "Layout", Type: core.ParamTypeString, Value: cfg.Layout},
				intParam("generation", "Generation", int(generation)),
			},
		},
		{
			Name: "Growth",
			Params: []core.Parameter{
				floatParam("residential_growth_chance", "Residential growth", params.ResidentialGrowthChance),
				floatParam("commercial_growth_chance", "Commercial growth", params.CommercialGrowthChance),
				floatParam("industrial_growth_chance", "Industrial growth", params.IndustrialGrowthChance),
			},
		},
		{
			Name: "Abandonment",
			Params: []core.Parameter{
				floatParam("residential_abandon_chance", "Residential abandon", params.ResidentialAbandonChance),
				floatParam("commercial_abandon_chance", "Commercial abandon", params.CommercialAbandonChance),
				floatParam("industrial_abandon_chance", "Industrial abandon", params.IndustrialAbandonChance),
			},
		},
		{
			Name: "Neighborhood",
			Params: []core.Parameter{
				intParam("neighborhood_radius", "Radius", params.NeighborhoodRadius),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

// ParameterControls lists the HUD-adjustable parameters.
func (w *World) ParameterControls() []core.ParameterControl {
	controls := make([]core.ParameterControl, 0, len(chanceKeys)+1)
	snapshot := w.Parameters()
	for _, key := range chanceKeys {
		label := key
		if p, ok := snapshot.Lookup(key); ok {
			label = p.Label
		}
		controls = append(controls, core.ParameterControl{
			Key:    key,
			Label:  label,
			Type:   core.ParamTypeFloat,
			Step:   0.01,
			Min:    0,
			Max:    1,
			HasMin: true,
			HasMax: true,
		})
	}
	controls = append(controls, core.ParameterControl{
		Key:    "neighborhood_radius",
		Label:  "Radius",
		Type:   core.ParamTypeInt,
		Step:   1,
		Min:    0,
		Max:    8,
		HasMin: true,
		HasMax: true,
	})
	return controls
}

// SetFloatParameter updates a probability. Values are clamped to [0,1].
func (w *World) SetFloatParameter(key string, value float64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	field := w.cfg.Params.chanceField(key)
	if field == nil {
		return false
	}
	*field = max(0, min(1, value))
	w.engine = NewEngine(w.cfg.Params)
	return true
}

// SetIntParameter updates an integer parameter.
func (w *World) SetIntParameter(key string, value int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch key {
	case "neighborhood_radius":
		if value < 0 {
			value = 0
		}
		w.cfg.Params.NeighborhoodRadius = value
	case "workers":
		if value < 1 {
			value = 1
		}
		w.cfg.Workers = value
	default:
		return false
	}
	w.engine = NewEngine(w.cfg.Params)
	return true
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}
