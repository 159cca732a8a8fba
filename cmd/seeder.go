package cmd

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/frahmantamala/shopfloor-tasks/internal"
	"github.com/frahmantamala/shopfloor-tasks/internal/auth"
	"github.com/frahmantamala/shopfloor-tasks/internal/spreadsheet"
	userSheets "github.com/frahmantamala/shopfloor-tasks/internal/user/sheets"
	workorderSheets "github.com/frahmantamala/shopfloor-tasks/internal/workorder/sheets"
	"github.com/frahmantamala/shopfloor-tasks/pkg/logger"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the spreadsheet with sample data",
	Long:  `Write header rows and sample users and work orders into the configured spreadsheet for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadCommandConfig(func(c *internal.Config) error { return c.Sheets.Validate() })
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		lg := logger.LoggerWrapper()

		client, err := spreadsheet.NewClient(cmd.Context(), spreadsheet.Config{
			SpreadsheetID:   cfg.Sheets.SpreadsheetID,
			CredentialsJSON: cfg.Sheets.CredentialsJSON,
			RequestTimeout:  cfg.Sheets.RequestTimeout,
		}, lg)
		if err != nil {
			log.Fatalf("failed to init spreadsheet client: %v", err)
		}

		if err := seedSpreadsheet(cmd.Context(), client, cfg.Sheets, clearData, lg); err != nil {
			log.Fatalf("failed to seed spreadsheet: %v", err)
		}
	},
}

type sheetSeeder interface {
	WriteRange(ctx context.Context, rng string, values [][]interface{}) error
	AppendRows(ctx context.Context, rng string, values [][]interface{}) error
	ClearRange(ctx context.Context, rng string) error
}

var seedUserHeader = []interface{}{"username", "password", "role", "active", "department"}

var seedOrderHeader = []interface{}{
	"פרויקט", "שלב/מחלקה", "מספר משימה", "תיאור", "כמות דרושה", "כמות בוצע",
	"סטטוס ביצוע", "עובד אחראי", "מנהל אחראי", "תחילה", "סיום", "הערות",
}

func seedUsers() ([][]interface{}, error) {
	hash, err := auth.HashPassword("password", bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return [][]interface{}{
		{"dana", hash, "worker", "TRUE", "הרכבה"},
		{"yossi", "1234", "worker", "TRUE", "צבע"},
		{"moshe", hash, "manager", "TRUE", "הרכבה"},
		{"avi", hash, "worker", "FALSE", "הרכבה"},
	}, nil
}

func seedOrders() [][]interface{} {
	return [][]interface{}{
		{"P-100", "הרכבה", "1", "הרכבת שלדה", "40", "", "", "", "moshe", "", "", ""},
		{"P-100", "הרכבה", "2", "חיווט לוח", "12", "3", "בתהליך", "dana", "moshe", "01/03/2025 08:15:00", "", ""},
		{"P-101", "צבע", "1", "צביעת מארזים", "25", "", "", "", "moshe", "", "", ""},
		{"P-102", "הרכבה", "4", "בדיקת איכות", "5", "5", "סגור", "dana", "moshe", "20/02/2025 09:00:00", "21/02/2025 14:30:00", "אושר"},
	}
}

// seedSpreadsheet writes the header rows at A1 and appends the sample rows below them.
// With clearRows the existing data rows are blanked first.
func seedSpreadsheet(ctx context.Context, sheet sheetSeeder, cfg internal.SheetsConfig, clearRows bool, lg *slog.Logger) error {
	users, err := seedUsers()
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	targets := []struct {
		name       string
		lastColumn string
		header     []interface{}
		rows       [][]interface{}
	}{
		{cfg.UsersSheet, userSheets.UsersLastColumn, seedUserHeader, users},
		{cfg.OrdersSheet, workorderSheets.OrdersLastColumn, seedOrderHeader, seedOrders()},
	}

	for _, t := range targets {
		if clearRows {
			dataRange := fmt.Sprintf("%s!A2:%s", spreadsheet.QuoteSheet(t.name), t.lastColumn)
			if err := sheet.ClearRange(ctx, dataRange); err != nil {
				return err
			}
			lg.Info("cleared sheet rows", "sheet", t.name)
		}

		if err := sheet.WriteRange(ctx, spreadsheet.CellRef(t.name, 1, 0), [][]interface{}{t.header}); err != nil {
			return err
		}
		if err := sheet.AppendRows(ctx, spreadsheet.OpenRange(t.name, t.lastColumn), t.rows); err != nil {
			return err
		}
		lg.Info("seeded sheet", "sheet", t.name, "rows", len(t.rows))
	}

	return nil
}
