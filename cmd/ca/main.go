//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"

	"urban-ca/internal/app"
	"urban-ca/internal/core"
	"urban-ca/internal/sims/city"
	_ "urban-ca/internal/sims/city/layout"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	var sim core.Sim
	if cfg.ConfigPath != "" {
		cityCfg, err := city.LoadConfigFile(cfg.ConfigPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		sim = city.NewWithConfig(cityCfg)
	} else {
		factory, ok := core.Sims()[cfg.Sim]
		if !ok {
			log.Fatalf("unknown sim %q (available: %v)", cfg.Sim, core.SimNames())
		}
		sim = factory(cfg.SimOptions())
	}
	sim.Reset(cfg.Seed)

	game := app.New(sim, cfg)

	ebiten.SetWindowTitle("urban-ca: " + sim.Name())
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(game.WindowSize())

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
