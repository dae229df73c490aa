package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/blogkit/svc/blog"
)

var pruneOlderThan time.Duration

var searchLogCmd = &cobra.Command{
	Use:   "searchlog",
	Short: "Maintain the search log",
}

var searchLogPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete search log entries older than the given age",
	Long: `Delete search log entries older than the given age.

Examples:
  # Keep the last 90 days
  blogkit searchlog prune --older-than 2160h`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if pruneOlderThan <= 0 {
			return fmt.Errorf("--older-than must be positive, got %s", pruneOlderThan)
		}
		ctx := commandContext(cmd)
		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		n, err := blog.NewSearchLogs(a.b).Prune(ctx, time.Now().UTC().Add(-pruneOlderThan))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %d search log entries\n", n)
		return nil
	},
}

func init() {
	searchLogPruneCmd.Flags().DurationVar(&pruneOlderThan, "older-than", 90*24*time.Hour, "minimum age of removed entries")
	searchLogCmd.AddCommand(searchLogPruneCmd)
	rootCmd.AddCommand(searchLogCmd)
}
