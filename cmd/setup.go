package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/sonix/internal/shared"
	"github.com/desertthunder/sonix/internal/ui"
)

// SetupConfig writes the bundled example configuration to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	if err := shared.CreateConfigFile(r.configPath); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", r.configPath)

	r.writePlain("%s\n", ui.OK("Config written to %s", r.configPath))
	r.writePlainln("Next steps:")
	r.writePlain("1. Set server.url, server.username and server.password (or %s)\n", shared.PasswordEnv)
	r.writePlain("2. Run 'sonix ping' to test the connection\n")
	return nil
}

// SetupDatabase initializes the library database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("initializing database", "path", r.config.Database.Path)

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}
	defer db.Close()

	version, err := shared.SchemaVersion(ctx, db)
	if err != nil {
		return err
	}

	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	r.writePlain("%s\n", ui.OK("Database ready at %s (schema version %d)", r.config.Database.Path, version))
	return nil
}
