package app

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"urban-ca/internal/sims/city"
)

// Config represents the command-line parameters for the GUI.
type Config struct {
	Sim        string
	Size       int
	Layout     string
	Scale      int
	TPS        int
	Speed      int
	Seed       int64
	ConfigPath string
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Sim:    "city",
		Size:   city.DefaultSize,
		Layout: "empty",
		Scale:  32,
		TPS:    60,
		Speed:  1,
		Seed:   42,
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Sim, "sim", c.Sim, "simulation to run")
	fs.IntVar(&c.Size, "size", c.Size, "grid side length")
	fs.StringVar(&c.Layout, "layout", c.Layout, "initial layout")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "frames per second")
	fs.IntVar(&c.Speed, "speed", c.Speed, "generations per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for simulation reset")
	fs.StringVar(&c.ConfigPath, "config", c.ConfigPath, "YAML city config (overrides size and layout)")
}

// SimOptions converts the flags into the registry's option map.
func (c *Config) SimOptions() map[string]string {
	return map[string]string{
		"size":   strconv.Itoa(c.Size),
		"seed":   strconv.FormatInt(c.Seed, 10),
		"layout": c.Layout,
	}
}

// FileConfig is the YAML file read by the headless driver.
type FileConfig struct {
	City          city.Config `yaml:"city"`
	Addr          string      `yaml:"addr"`
	DB            string      `yaml:"db"`
	SaveName      string      `yaml:"save_name"`
	TPS           int         `yaml:"tps"`
	AutosaveEvery int         `yaml:"autosave_every"`
	LogLevel      string      `yaml:"log_level"`
}

// DefaultFileConfig returns the driver defaults.
func DefaultFileConfig() FileConfig {
	return FileConfig{
		City:          city.DefaultConfig(),
		Addr:          "127.0.0.1:8080",
		DB:            "citysim.db",
		SaveName:      "default",
		TPS:           2,
		AutosaveEvery: 50,
		LogLevel:      "info",
	}
}

// LoadFileConfig reads path over the defaults and validates the result.
func LoadFileConfig(path string) (FileConfig, error) {
	fc := DefaultFileConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fc, fmt.Errorf("%s: %w", path, err)
	}
	if err := fc.City.Validate(); err != nil {
		return fc, fmt.Errorf("%s: %w", path, err)
	}
	if _, err := fc.Level(); err != nil {
		return fc, fmt.Errorf("%s: %w", path, err)
	}
	if fc.TPS <= 0 {
		return fc, fmt.Errorf("%s: tps %d must be positive", path, fc.TPS)
	}
	return fc, nil
}

// Level parses LogLevel.
func (fc FileConfig) Level() (slog.Level, error) {
	var lvl slog.Level
	err := lvl.UnmarshalText([]byte(fc.LogLevel))
	return lvl, err
}
