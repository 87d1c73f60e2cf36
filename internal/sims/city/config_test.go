package city

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFromMap(t *testing.T) {
	cfg := FromMap(map[string]string{
		"n":                          "32",
		"seed":                       "-9",
		"layout":                     "downtown",
		"workers":                    "2",
		"neighborhood_radius":        "2",
		"commercial_growth_chance":   "0.4",
		"industrial_abandon_chance":  "1.5",
		"residential_abandon_chance": "nope",
	})
	if cfg.Size != 32 || cfg.Seed != -9 || cfg.Layout != "downtown" || cfg.Workers != 2 {
		t.Fatalf("unexpected world settings %+v", cfg)
	}
	want := DefaultParams()
	want.NeighborhoodRadius = 2
	want.CommercialGrowthChance = 0.4
	if cfg.Params != want {
		t.Fatalf("params = %+v, want %+v", cfg.Params, want)
	}
}

func TestFromMapDefaults(t *testing.T) {
	cfg := FromMap(nil)
	if cfg.Size != DefaultSize || cfg.Layout != "empty" || cfg.Params != DefaultParams() {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	cfg = FromMap(map[string]string{"size": "0", "workers": "-1"})
	if cfg.Size != DefaultSize || cfg.Workers < 1 {
		t.Fatalf("invalid values should be ignored, got %+v", cfg)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "city.yaml")
	body := `size: 40
seed: 7
layout: suburban
params:
  residential_growth_chance: 0.3
  neighborhood_radius: 2
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Size != 40 || cfg.Seed != 7 || cfg.Layout != "suburban" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Params.ResidentialGrowthChance != 0.3 || cfg.Params.NeighborhoodRadius != 2 {
		t.Fatalf("unexpected params %+v", cfg.Params)
	}
	if cfg.Params.IndustrialAbandonChance != DefaultParams().IndustrialAbandonChance {
		t.Fatal("missing keys should keep their defaults")
	}
}

func TestLoadConfigFileErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadConfigFile(filepath.Join(dir, "absent.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("params:\n  commercial_growth_chance: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadConfigFile(bad)
	if err == nil || !strings.Contains(err.Error(), "commercial_growth_chance") {
		t.Fatalf("expected range error naming the key, got %v", err)
	}

	small := filepath.Join(dir, "small.yaml")
	if err := os.WriteFile(small, []byte("size: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfigFile(small); !errors.Is(err, ErrGridSize) {
		t.Fatalf("expected ErrGridSize, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	cfg.Params.NeighborhoodRadius = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("negative radius accepted")
	}
}
