package cli

import (
	"fmt"

	"github.com/axellelanca/shortlinks/cmd"
	"github.com/axellelanca/shortlinks/internal/database"
	"github.com/spf13/cobra"
)

// MigrateCmd creates or updates the database schema.
var MigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Executes database migrations to create or update tables.",
	Long: `Connects to the configured database (SQLite or PostgreSQL) and runs
GORM automatic migrations for the 'links' and 'clicks' tables.`,
	Run: func(_ *cobra.Command, _ []string) {
		db, err := database.Open(cmd.Cfg.Database, cmd.Log)
		if err != nil {
			cmd.Log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer database.Close(db)

		if err := database.Migrate(db); err != nil {
			cmd.Log.Fatal().Err(err).Msg("migration failed")
		}

		fmt.Println("Database migrations executed successfully.")
	},
}

func init() {
	cmd.RootCmd.AddCommand(MigrateCmd)
}
