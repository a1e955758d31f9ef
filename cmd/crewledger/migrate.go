package main

import (
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"
)

var migrateDown bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateDown, "down", false, "roll back one migration instead of applying all")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	m, err := migrate.New("file://migrations", cfg.Database.Postgres.ConnString())
	if err != nil {
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}

	if migrateDown {
		if err := m.Steps(-1); err != nil {
			return fmt.Errorf("failed to roll back: %w", err)
		}
		fmt.Println("Rolled back one migration")
		return nil
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	fmt.Println("Migrations applied")
	return nil
}
