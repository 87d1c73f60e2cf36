package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"urban-ca/internal/persistence/gridjson"
	"urban-ca/internal/persistence/snapshot"
	"urban-ca/internal/sims/city"
	"urban-ca/internal/stats"
)

func inspectCmd(e *env) *cobra.Command {
	var top int
	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Describe a snapshot or JSON grid document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return inspect(e, args[0], top, cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVar(&top, "top", 3, "building types to list")
	return cmd
}

func inspect(e *env, path string, top int, out io.Writer) error {
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}

	var (
		g   *city.Grid
		gen uint64
	)
	snap, snapErr := snapshot.Read(path)
	if snapErr == nil {
		if g, err = snap.ToGrid(); err != nil {
			return err
		}
		gen = snap.Header.Generation
		fmt.Fprintf(out, "%s: snapshot v%d, %s\n", path, snap.Header.Version, humanize.Bytes(uint64(fi.Size())))
		fmt.Fprintf(out, "seed %d", snap.Header.Seed)
		if snap.Header.Layout != "" {
			fmt.Fprintf(out, ", layout %s", snap.Header.Layout)
		}
		fmt.Fprintln(out)
	} else {
		e.logger.Debug("not a snapshot, trying JSON", "path", path, "error", snapErr)
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		g, gen, err = gridjson.Decode(f)
		if err != nil {
			return fmt.Errorf("%s: neither a snapshot (%v) nor a grid document: %w", path, snapErr, err)
		}
		fmt.Fprintf(out, "%s: grid document, %s\n", path, humanize.Bytes(uint64(fi.Size())))
	}

	s := stats.Compute(g)
	fmt.Fprintf(out, "generation %d, %dx%d\n", gen, g.N(), g.N())
	fmt.Fprintln(out, s)
	for _, tc := range s.Top(top) {
		fmt.Fprintf(out, "  %-12s %s\n", tc.Type, humanize.Comma(int64(tc.Count)))
	}
	return nil
}
