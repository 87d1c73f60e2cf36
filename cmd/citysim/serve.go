package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"urban-ca/internal/persistence/snapshot"
	"urban-ca/internal/persistence/store"
	"urban-ca/internal/sims/city"
	"urban-ca/internal/stats"
	"urban-ca/internal/transport/observer"
)

type serveOptions struct {
	addr      string
	tps       int
	fresh     bool
	maxGens   int
	hubBuffer int
}

func serveCmd(e *env) *cobra.Command {
	var (
		cf   cityFlags
		opts serveOptions
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the city continuously and stream generations to observers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cf.apply(e)
			if cmd.Flags().Changed("addr") {
				e.cfg.Addr = opts.addr
			}
			if cmd.Flags().Changed("tps") {
				e.cfg.TPS = opts.tps
			}
			if e.cfg.TPS <= 0 {
				return fmt.Errorf("tps %d must be positive", e.cfg.TPS)
			}
			return serve(cmd.Context(), e, opts)
		},
	}
	cf.bind(cmd)
	cmd.Flags().StringVar(&opts.addr, "addr", e.cfg.Addr, "listen address")
	cmd.Flags().IntVar(&opts.tps, "tps", e.cfg.TPS, "generations per second")
	cmd.Flags().BoolVar(&opts.fresh, "fresh", false, "ignore the stored city and start from the layout")
	cmd.Flags().IntVar(&opts.maxGens, "max-generations", 0, "stop after this many generations (0 runs until interrupted)")
	cmd.Flags().IntVar(&opts.hubBuffer, "observer-buffer", 8, "frames buffered per observer before dropping")
	return cmd
}

// resume restores the named save, or builds a fresh world when there is none.
func resume(ctx context.Context, e *env, db *store.DB, fresh bool) (*city.World, error) {
	if !fresh {
		snap, info, err := db.Load(ctx, e.cfg.SaveName)
		switch {
		case err == nil:
			g, err := snap.ToGrid()
			if err != nil {
				return nil, err
			}
			cfg := e.cfg.City
			cfg.Size = snap.Header.Size
			if snap.Header.Layout != "" {
				cfg.Layout = snap.Header.Layout
			}
			w := city.NewWithConfig(cfg)
			w.Reset(snap.Header.Seed)
			if err := w.Load(g, snap.Header.Generation); err != nil {
				return nil, err
			}
			e.logger.Info("resumed city", "name", info.Name, "save_id", info.SaveID, "generation", info.Generation)
			return w, nil
		case !errors.Is(err, store.ErrNotFound):
			return nil, err
		}
	}
	return newWorld(e)
}

func serve(ctx context.Context, e *env, opts serveOptions) error {
	db, err := store.Open(e.cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	w, err := resume(ctx, e, db, opts.fresh)
	if err != nil {
		return err
	}

	hub := observer.NewHub(opts.hubBuffer)
	srv := observer.NewServer(w, hub, e.logger)
	ln, err := net.Listen("tcp", e.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	httpSrv := &http.Server{Handler: srv.Handler(), ReadHeaderTimeout: 5 * time.Second}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpSrv.Serve(ln)
	}()
	e.logger.Info("serving", "addr", ln.Addr().String(), "tps", e.cfg.TPS, "save", e.cfg.SaveName)

	save := func(reason string) {
		g, gen := w.Snapshot()
		id, err := db.Save(context.WithoutCancel(ctx), e.cfg.SaveName, snapshot.FromGrid(g, gen, w.Seed(), w.Config().Layout))
		if err != nil {
			e.logger.Error("autosave failed", "error", err)
			return
		}
		e.logger.Info("city saved", "reason", reason, "generation", gen, "save_id", id)
	}

	ticker := time.NewTicker(time.Second / time.Duration(e.cfg.TPS))
	defer ticker.Stop()
	steps := 0

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case err := <-serveErr:
			return fmt.Errorf("http: %w", err)
		case <-ticker.C:
			w.Step()
			srv.Broadcast()
			steps++
			gen := w.Generation()
			if e.cfg.AutosaveEvery > 0 && gen%uint64(e.cfg.AutosaveEvery) == 0 {
				save("autosave")
				e.logger.Debug("tick", "generation", gen, "stats", stats.Compute(w.Grid()).String(),
					"observers", hub.Len(), "dropped", hub.Dropped())
			}
			if opts.maxGens > 0 && steps >= opts.maxGens {
				break loop
			}
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		e.logger.Warn("http shutdown", "error", err)
	}
	save("shutdown")
	return nil
}
