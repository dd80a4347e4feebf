package main

import (
	"fmt"

	"github.com/2beens/fitplanner/internal/db"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		pool, err := openPool(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()

		applied, err := db.ApplyMigrations(cmd.Context(), pool)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s), schema at version %d\n", applied, db.LatestVersion())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
