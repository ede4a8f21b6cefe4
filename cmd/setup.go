package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/mmt/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err != nil {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
		} else {
			r.logger.Info("config file created", "path", configPath)
		}
	}
	r.reloadConfig(configPath)

	r.logger.Info("initializing database", "path", r.config.Database.Path)

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	return nil
}

// Access verifies connectivity and the shared migration key against the remote.
func (r *Runner) Access(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd.String("config"))

	source, err := r.remoteSource()
	if err != nil {
		return err
	}

	r.logger.Info("checking remote access", "remote", source.Name())
	if err := source.VerifyAccess(ctx); err != nil {
		return err
	}

	r.writePlain("✓ Remote %s accepted the migration key\n", source.Name())
	return nil
}
