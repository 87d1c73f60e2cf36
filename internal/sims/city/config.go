package city

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultSize is the side length of a city grid unless configured otherwise.
const DefaultSize = 20

// Params holds the tunable probabilities and the counting radius.
type Params struct {
	ResidentialGrowthChance  float64 `yaml:"residential_growth_chance"`
	CommercialGrowthChance   float64 `yaml:"commercial_growth_chance"`
	IndustrialGrowthChance   float64 `yaml:"industrial_growth_chance"`
	ResidentialAbandonChance float64 `yaml:"residential_abandon_chance"`
	CommercialAbandonChance  float64 `yaml:"commercial_abandon_chance"`
	IndustrialAbandonChance  float64 `yaml:"industrial_abandon_chance"`

	NeighborhoodRadius int `yaml:"neighborhood_radius"`
}

// Config controls the city simulation.
type Config struct {
	Size    int    `yaml:"size"`
	Seed    int64  `yaml:"seed"`
	Layout  string `yaml:"layout"`
	Workers int    `yaml:"workers"`

	Params Params `yaml:"params"`
}

// DefaultParams returns the standard growth and abandonment rates.
func DefaultParams() Params {
	return Params{
		ResidentialGrowthChance:  0.15,
		CommercialGrowthChance:   0.10,
		IndustrialGrowthChance:   0.08,
		ResidentialAbandonChance: 0.20,
		CommercialAbandonChance:  0.15,
		IndustrialAbandonChance:  0.12,
		NeighborhoodRadius:       3,
	}
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Size:    DefaultSize,
		Seed:    1337,
		Layout:  "empty",
		Workers: runtime.NumCPU(),
		Params:  DefaultParams(),
	}
}

// Validate reports the first out-of-range setting.
func (c Config) Validate() error {
	if c.Size <= 0 {
		return fmt.Errorf("%w: size %d must be positive", ErrGridSize, c.Size)
	}
	if c.Params.NeighborhoodRadius < 0 {
		return fmt.Errorf("neighborhood_radius %d must not be negative", c.Params.NeighborhoodRadius)
	}
	p := c.Params
	for _, key := range chanceKeys {
		if v := *p.chanceField(key); v < 0 || v > 1 {
			return fmt.Errorf("%s %.3f outside [0,1]", key, v)
		}
	}
	return nil
}

var chanceKeys = []string{
	"residential_growth_chance",
	"commercial_growth_chance",
	"industrial_growth_chance",
	"residential_abandon_chance",
	"commercial_abandon_chance",
	"industrial_abandon_chance",
}

// chanceField maps a parameter key onto the field it controls.
func (p *Params) chanceField(key string) *float64 {
	switch key {
	case "residential_growth_chance":
		return &p.ResidentialGrowthChance
	case "commercial_growth_chance":
		return &p.CommercialGrowthChance
	case "industrial_growth_chance":
		return &p.IndustrialGrowthChance
	case "residential_abandon_chance":
		return &p.ResidentialAbandonChance
	case "commercial_abandon_chance":
		return &p.CommercialAbandonChance
	case "industrial_abandon_chance":
		return &p.IndustrialAbandonChance
	}
	return nil
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	for _, key := range []string{"n", "size"} {
		if v, ok := cfg[key]; ok {
			if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
				c.Size = parsed
			}
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["layout"]; ok && v != "" {
		c.Layout = v
	}
	if v, ok := cfg["workers"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Workers = parsed
		}
	}
	if v, ok := cfg["neighborhood_radius"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Params.NeighborhoodRadius = parsed
		}
	}
	for _, key := range chanceKeys {
		v, ok := cfg[key]
		if !ok {
			continue
		}
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			*c.Params.chanceField(key) = parsed
		}
	}
	return c
}

// LoadConfigFile reads a YAML config. Fields missing from the file keep their
// defaults.
func LoadConfigFile(path string) (Config, error) {
	c := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}
