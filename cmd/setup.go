package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Kiara-243/soundcloud-scraper/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase initializes the database and runs migrations, or reverts the
// newest migrations with --rollback.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	path := r.config.Database.Path
	r.logger.Info("initializing database", "path", path)

	db, err := shared.NewDatabase(path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	migrator, err := shared.NewMigrator(db, r.logger)
	if err != nil {
		return err
	}

	if cmd.IsSet("rollback") {
		reverted, err := migrator.Down(cmd.Int("rollback"))
		for _, m := range reverted {
			r.writePlain("✓ Rolled back migration %s\n", m)
		}
		return err
	}

	r.logger.Info("running database migrations")
	applied, err := migrator.Up()
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	r.logger.Infof("setup complete for database: %v", path)
	return r.writePlain("✓ Database ready at %s (%d migrations applied)\n", path, len(applied))
}

// SetupConfig writes a config file from the embedded template, optionally
// filling in the client_id.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := r.configPath
	if path == "" {
		path = "config.toml"
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}
	r.logger.Info("config file created", "path", path)

	if id := cmd.String("client-id"); id != "" {
		config, err := shared.LoadConfig(path)
		if err != nil {
			return err
		}
		config.SoundCloud.ClientID = id
		if err := shared.SaveConfig(path, config); err != nil {
			os.Remove(path)
			return err
		}
		r.config = config
	}

	r.writePlain("✓ Config written to %s\n", path)
	if cmd.String("client-id") == "" {
		r.writePlain("Set soundcloud.client_id there or export %s before scraping.\n", shared.EnvClientID)
	}
	return nil
}
