package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "blogkit",
	Short: "Blog API with validation, sanitization and role based access control",
	Long: `Blogkit serves a JSON blog API backed by SQLite, PostgreSQL or MySQL.

Every request passes through input validation, sanitization, parameterized
queries and a role hierarchy (guest, user, moderator, admin).`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if envFile == "" {
			return nil
		}
		return loadEnvFile(envFile)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&envFile, "env-file", "e", "", "load variables from this .env file before reading the environment")
}
