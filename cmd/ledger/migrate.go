package main

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"finance-ledger/internal/config"
	"finance-ledger/internal/database"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Apply the SQL migrations in db/migrations to the PostgreSQL database.

With --down the given number of migrations is rolled back instead, and
--status only reports the current schema version.`,
		RunE: runMigrate,
	}

	cmd.Flags().String("path", database.DefaultMigrationsPath, "directory holding the migration files")
	cmd.Flags().String("seeds", database.DefaultSeedsPath, "directory holding the seed files")
	cmd.Flags().Bool("seed", false, "load seed data after migrating")
	cmd.Flags().Bool("status", false, "show the current migration version without applying changes")
	cmd.Flags().Int("down", 0, "roll back this many migrations")

	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("path")
	seedsPath, _ := cmd.Flags().GetString("seeds")
	seed, _ := cmd.Flags().GetBool("seed")
	status, _ := cmd.Flags().GetBool("status")
	down, _ := cmd.Flags().GetInt("down")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	sqlDB, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = sqlDB.Close() }()

	runner := database.NewMigrationRunner(sqlDB,
		database.WithMigrationsPath(path),
		database.WithSeedsPath(seedsPath),
		database.WithSeeding(seed || cfg.Database.SeedDatabase),
		database.WithLogger(slog.Default()),
	)

	if err := runner.WaitForDatabase(cmd.Context()); err != nil {
		return err
	}

	switch {
	case status:
		version, dirty, err := runner.GetMigrationStatus()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Fprintln(cmd.OutOrStdout(), "no migrations applied")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read migration status: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "version: %d\ndirty: %t\n", version, dirty)
		return nil

	case down > 0:
		slog.Info("Rolling back migrations", "steps", down, "path", path)
		if err := runner.RollbackMigrations(down); err != nil {
			return fmt.Errorf("rollback failed: %w", err)
		}
		slog.Info("Rollback completed")
		return nil
	}

	slog.Info("Running database migrations", "path", path)
	if err := runner.RunMigrations(); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if err := runner.LoadSeeds(); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	slog.Info("Database migrations completed")
	return nil
}
