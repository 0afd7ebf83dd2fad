package cmd

import (
	"database/sql"
	"fmt"

	"github.com/recipebox/recipebox/internal/db"
	"github.com/spf13/cobra"
)

func MigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	migrateCmd.AddCommand(
		migrateSubcommand("up", "Apply all pending migrations", db.RunMigrations),
		migrateSubcommand("down", "Roll back the most recent migration", db.MigrateDown),
		migrateSubcommand("status", "Print the current schema version", func(conn *sql.DB, driver string) error {
			version, err := db.Version(conn, driver)
			if err != nil {
				return err
			}
			fmt.Printf("schema version: %d\n", version)
			return nil
		}),
	)
	return migrateCmd
}

func migrateSubcommand(use, short string, run func(conn *sql.DB, driver string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			database, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer database.Close()

			return run(database.DB, cfg.DBDriver)
		},
	}
}
