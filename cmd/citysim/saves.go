package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"urban-ca/internal/persistence/store"
)

func savesCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "saves",
		Short: "List stored cities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := store.Open(e.cfg.DB)
			if err != nil {
				return err
			}
			defer db.Close()
			infos, err := db.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no saved cities")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tGENERATION\tSIZE\tLAYOUT\tPOPULATION\tSAVED")
			for _, info := range infos {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\t%s\n", info.Name, info.Generation, info.Size,
					info.Layout, humanize.Comma(int64(info.Population)), humanize.Time(info.SavedAt))
			}
			return tw.Flush()
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "delete NAME",
		Short: "Remove a stored city",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := store.Open(e.cfg.DB)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := db.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	})
	return cmd
}
