package main

import (
	"fmt"

	"github.com/2beens/fitplanner/internal/workout"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the exercise catalog",
	Long:  "Inserts the built-in exercise catalog. Exercises already present (by name) are left untouched.",
	RunE: func(cmd *cobra.Command, args []string) error {
		pool, err := openPool(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()

		added, err := workout.NewRepo(pool).SeedExercises(cmd.Context(), workout.SeedExercises)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d of %d exercises\n", added, len(workout.SeedExercises))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
