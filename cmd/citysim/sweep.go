package main

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"urban-ca/internal/sims/city"
	"urban-ca/internal/sims/city/layout"
	"urban-ca/internal/stats"
)

type sweepOptions struct {
	layouts     []string
	seeds       int
	firstSeed   int64
	generations int
	workers     int
	top         int
}

type scenario struct {
	layout string
	seed   int64
}

type scenarioResult struct {
	scenario
	summary stats.Summary
	peak    int
	peakGen int
}

func sweepCmd(e *env) *cobra.Command {
	var opts sweepOptions
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run many seeds across layouts and rank the final population",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSweep(cmd.Context(), e, opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringSliceVar(&opts.layouts, "layouts", layout.Setups, "layouts to sweep")
	cmd.Flags().IntVar(&opts.seeds, "seeds", 8, "seeds per layout")
	cmd.Flags().Int64Var(&opts.firstSeed, "first-seed", 1, "first seed")
	cmd.Flags().IntVarP(&opts.generations, "generations", "g", 200, "generations per scenario")
	cmd.Flags().IntVar(&opts.workers, "workers", runtime.NumCPU(), "number of worker goroutines")
	cmd.Flags().IntVar(&opts.top, "top", 5, "results to print")
	return cmd
}

func runSweep(ctx context.Context, e *env, opts sweepOptions, out io.Writer) error {
	known := layout.Names()
	for _, name := range opts.layouts {
		if !slices.Contains(known, name) {
			return fmt.Errorf("%w: %q", city.ErrUnknownLayout, name)
		}
	}
	var scenarios []scenario
	for _, name := range opts.layouts {
		for i := 0; i < opts.seeds; i++ {
			scenarios = append(scenarios, scenario{layout: name, seed: opts.firstSeed + int64(i)})
		}
	}
	workers := max(1, opts.workers)
	fmt.Fprintf(out, "Sweeping %d scenarios (%d workers, %d generations)\n", len(scenarios), workers, opts.generations)

	base := e.cfg.City
	base.Workers = 1

	jobs := make(chan scenario)
	results := make(chan scenarioResult)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sc := range jobs {
				results <- runScenario(base, sc, opts.generations)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		defer close(jobs)
		for _, sc := range scenarios {
			select {
			case jobs <- sc:
			case <-ctx.Done():
				return
			}
		}
	}()

	start := time.Now()
	var all []scenarioResult
	for res := range results {
		e.logger.Debug("scenario done", "layout", res.layout, "seed", res.seed, "population", res.summary.Population)
		all = append(all, res)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].summary.Population != all[j].summary.Population {
			return all[i].summary.Population > all[j].summary.Population
		}
		if all[i].layout != all[j].layout {
			return all[i].layout < all[j].layout
		}
		return all[i].seed < all[j].seed
	})

	fmt.Fprintf(out, "\nTop %d results (elapsed %s):\n", min(opts.top, len(all)), time.Since(start).Round(time.Millisecond))
	for i := 0; i < len(all) && i < opts.top; i++ {
		r := all[i]
		fmt.Fprintf(out, "%2d) %-17s seed=%-4d population=%s peak=%s@%d buildings=%d\n",
			i+1, r.layout, r.seed, humanize.Comma(int64(r.summary.Population)),
			humanize.Comma(int64(r.peak)), r.peakGen, r.summary.Buildings)
	}
	return nil
}

func runScenario(base city.Config, sc scenario, generations int) scenarioResult {
	cfg := base
	cfg.Layout = sc.layout
	cfg.Seed = sc.seed
	w := city.NewWithConfig(cfg)
	res := scenarioResult{scenario: sc}
	if err := w.ResetLayout(sc.layout, sc.seed); err != nil {
		return res
	}
	res.peak = stats.Compute(w.Grid()).Population
	for i := 0; i < generations; i++ {
		w.Step()
		if pop := stats.Compute(w.Grid()).Population; pop > res.peak {
			res.peak, res.peakGen = pop, i+1
		}
	}
	res.summary = stats.Compute(w.Grid())
	return res
}
