package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/blogkit/pkg/database"
	"github.com/dmitrymomot/blogkit/svc/blog"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show table row counts and connection pool usage",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)
		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		stats, err := blog.StoreStats(ctx, a.db, a.dbCfg.Driver)
		if err != nil {
			return err
		}
		return printStats(cmd.OutOrStdout(), stats)
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func printStats(out io.Writer, s database.Stats) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "driver:\t%s\n\n", s.Driver)
	fmt.Fprintln(w, "TABLE\tROWS")
	for _, t := range s.Tables {
		fmt.Fprintf(w, "%s\t%d\n", t.Table, t.Rows)
	}
	fmt.Fprintf(w, "\nconnections:\t%d open, %d in use, %d idle (max %d)\n", s.Pool.Open, s.Pool.InUse, s.Pool.Idle, s.Pool.MaxOpen)
	fmt.Fprintf(w, "waits:\t%d (%s)\n", s.Pool.WaitCount, s.Pool.WaitDuration)
	return w.Flush()
}
