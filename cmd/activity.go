package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/frahmantamala/shopfloor-tasks/internal"
	"github.com/frahmantamala/shopfloor-tasks/internal/activity"
	activityPostgres "github.com/frahmantamala/shopfloor-tasks/internal/activity/postgres"
	"github.com/frahmantamala/shopfloor-tasks/pkg/logger"
	"github.com/spf13/cobra"
)

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Task activity commands",
	Long:  `Inspect the recorded cell writes made by task actions`,
}

var listActivityCmd = &cobra.Command{
	Use:   "list [row]",
	Short: "List activity for a work order row",
	Long:  `Print the recorded cell writes for one work order row, newest first`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		row, err := strconv.Atoi(args[0])
		if err != nil || row < 2 {
			return fmt.Errorf("invalid row %q", args[0])
		}
		return listActivity(cmd.Context(), row)
	},
}

var activityLimit int

func listActivity(ctx context.Context, row int) error {
	cfg, err := loadCommandConfig(func(c *internal.Config) error {
		if !c.Database.Enabled() {
			return errors.New("database.source is required to read activity")
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

	gdb, err := initGorm(conn, cfg.Database.Driver, lg)
	if err != nil {
		return err
	}

	service := activity.NewService(activityPostgres.NewActivityRepository(gdb), lg)
	entries, err := service.ListForRow(ctx, row, activityLimit)
	if err != nil {
		return err
	}

	for _, e := range entries {
		lg.Info("activity",
			"occurred_at", e.OccurredAt,
			"action", e.Action,
			"username", e.Username,
			"cell", fmt.Sprintf("%s%d", e.Column, e.Row),
			"field", e.Field,
			"old_value", e.OldValue,
			"new_value", e.NewValue)
	}
	lg.Info("activity listed", "row", row, "entries", len(entries))
	return nil
}

func init() {
	listActivityCmd.Flags().IntVar(&activityLimit, "limit", activity.DefaultListLimit, "Maximum number of entries")

	activityCmd.AddCommand(listActivityCmd)

	rootCmd.AddCommand(activityCmd)
}
