package cmd

import (
	"AgeGenderDetector/database/postgres"
	"AgeGenderDetector/pkg/log"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the users table in postgres",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := log.NewLogger()

		db, err := postgres.New()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := postgres.Migrate(cmd.Context(), db); err != nil {
			return err
		}

		logger.Info("Migration complete")
		return nil
	},
}
