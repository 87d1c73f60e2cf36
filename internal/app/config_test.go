package app

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestBind(t *testing.T) {
	cfg := NewConfig()
	fs := flag.NewFlagSet("ca", flag.ContinueOnError)
	cfg.Bind(fs)
	if err := fs.Parse([]string{"-size", "40", "-layout", "downtown", "-seed", "9", "-speed", "4"}); err != nil {
		t.Fatal(err)
	}
	if cfg.Size != 40 || cfg.Layout != "downtown" || cfg.Seed != 9 || cfg.Speed != 4 || cfg.Sim != "city" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	opts := cfg.SimOptions()
	if opts["size"] != "40" || opts["seed"] != "9" || opts["layout"] != "downtown" {
		t.Fatalf("options = %v", opts)
	}
}

func TestLoadFileConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "citysim.yaml")
	body := `addr: ":9000"
log_level: debug
tps: 5
city:
  size: 30
  layout: terrain
  params:
    commercial_abandon_chance: 0.5
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if fc.Addr != ":9000" || fc.TPS != 5 || fc.DB != "citysim.db" {
		t.Fatalf("unexpected driver settings %+v", fc)
	}
	if fc.City.Size != 30 || fc.City.Layout != "terrain" || fc.City.Params.CommercialAbandonChance != 0.5 {
		t.Fatalf("unexpected city settings %+v", fc.City)
	}
	if fc.City.Params.ResidentialGrowthChance != 0.15 {
		t.Fatal("unset params should keep defaults")
	}
	if lvl, _ := fc.Level(); lvl != slog.LevelDebug {
		t.Fatalf("level = %v", lvl)
	}
}

func TestLoadFileConfigRejects(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{
		"level": "log_level: loud\n",
		"tps":   "tps: 0\n",
		"city":  "city:\n  size: -3\n",
		"yaml":  "city: [\n",
	} {
		path := filepath.Join(dir, name+".yaml")
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadFileConfig(path); err == nil {
			t.Fatalf("%s: expected an error", name)
		}
	}
}
