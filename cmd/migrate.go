package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/frahmantamala/shopfloor-tasks/db"
	"github.com/frahmantamala/shopfloor-tasks/internal"
	"github.com/frahmantamala/shopfloor-tasks/pkg/logger"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run the activity log migrations embedded from db/migrations",
	}
	migrateRollback bool
	migrateDir      string
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
	migrateCmd.PersistentFlags().StringVarP(&migrateDir, "dir", "d", "", "read migrations from this directory instead of the embedded set")
}

func runMigration(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	cfg, err := loadCommandConfig(func(c *internal.Config) error {
		if !c.Database.Enabled() {
			return errors.New("database.source is required to migrate")
		}
		return c.Database.Validate()
	})
	if err != nil {
		return err
	}
	lg := logger.LoggerWrapper()

	conn, err := initDB(cfg.Database)
	if err != nil {
		return err
	}
	defer conn.Close()

	dir := migrateDir
	if dir == "" {
		goose.SetBaseFS(db.Migrations)
		dir = db.MigrationsDir
	}
	goose.SetTableName("schema_migrations")
	if err := goose.SetDialect(gooseDialect(cfg.Database.Driver)); err != nil {
		return fmt.Errorf("goose: %w", err)
	}

	if migrateRollback {
		if err := goose.DownContext(ctx, conn.DB, dir); err != nil {
			return fmt.Errorf("goose down: %w", err)
		}
		lg.Info("rolled back latest migration")
		return nil
	}

	if err := goose.UpContext(ctx, conn.DB, dir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	lg.Info("migrations applied", "driver", cfg.Database.Driver)
	return nil
}
