package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"urban-ca/internal/app"
	_ "urban-ca/internal/sims/city/layout"
)

// env carries the settings every subcommand starts from.
type env struct {
	cfg    app.FileConfig
	logger *slog.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	e := &env{cfg: app.DefaultFileConfig()}
	var (
		configPath string
		logLevel   string
		dbPath     string
	)

	rootCmd := &cobra.Command{
		Use:          "citysim",
		Short:        "Headless driver for the urban growth automaton",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if configPath != "" {
				fc, err := app.LoadFileConfig(configPath)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				e.cfg = fc
			}
			if cmd.Flags().Changed("db") {
				e.cfg.DB = dbPath
			}
			if cmd.Flags().Changed("log-level") {
				e.cfg.LogLevel = logLevel
			}
			level, err := e.cfg.Level()
			if err != nil {
				return fmt.Errorf("log level: %w", err)
			}
			e.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(e.logger)
			return nil
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", e.cfg.DB, "save database path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")

	rootCmd.AddCommand(runCmd(e))
	rootCmd.AddCommand(sweepCmd(e))
	rootCmd.AddCommand(serveCmd(e))
	rootCmd.AddCommand(inspectCmd(e))
	rootCmd.AddCommand(savesCmd(e))
	return rootCmd
}

// cityFlags are the overrides shared by commands that build a world.
type cityFlags struct {
	size   int
	seed   int64
	layout string
}

func (f *cityFlags) bind(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.size, "size", 0, "grid side length (default from config)")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "run seed (default from config)")
	cmd.Flags().StringVar(&f.layout, "layout", "", "initial layout (default from config)")
}

func (f *cityFlags) apply(e *env) {
	if f.size > 0 {
		e.cfg.City.Size = f.size
	}
	if f.seed != 0 {
		e.cfg.City.Seed = f.seed
	}
	if f.layout != "" {
		e.cfg.City.Layout = f.layout
	}
}
