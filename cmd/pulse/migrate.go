package main

import (
	"github.com/pulse-lab/pulse/internal/config"
	"github.com/pulse-lab/pulse/internal/core/storage/postgres"
	"github.com/pulse-lab/pulse/internal/migrations"
	"github.com/spf13/cobra"
)

// migrateOptions holds flags for the migrate command.
type migrateOptions struct {
	*rootOptions
	Down bool
}

func newMigrateCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &migrateOptions{rootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Long: `Apply every pending migration to the configured PostgreSQL database.

Examples:
  pulse migrate --config pulse.yaml
  pulse migrate --down`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Down, "down", false, "roll back the most recent migration instead")

	return cmd
}

func runMigrate(opts *migrateOptions) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	db, err := postgres.Connect(cfg.Database.DSN, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	if err != nil {
		return err
	}
	defer db.Close()

	if opts.Down {
		return migrations.Rollback(db)
	}
	// An explicit migrate always applies, regardless of database.auto_migrate.
	return migrations.RunMigrations(db, true)
}
