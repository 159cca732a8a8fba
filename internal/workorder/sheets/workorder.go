package sheets

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/shopfloor-tasks/internal/spreadsheet"
	"github.com/frahmantamala/shopfloor-tasks/internal/workorder"
)

// OrdersLastColumn bounds the orders range.
const OrdersLastColumn = "ZZ"

type Repository struct {
	sheets spreadsheet.ReadWriter
	sheet  string
	logger *slog.Logger
}

func NewWorkOrderRepository(rw spreadsheet.ReadWriter, sheet string, logger *slog.Logger) workorder.RepositoryAPI {
	return &Repository{
		sheets: rw,
		sheet:  sheet,
		logger: logger,
	}
}

// LoadOrders reads the whole orders sheet. Every data row becomes an order, blank ones included.
func (r *Repository) LoadOrders(ctx context.Context) ([]*workorder.WorkOrder, error) {
	rng := spreadsheet.OpenRange(r.sheet, OrdersLastColumn)
	table, err := spreadsheet.LoadTable(ctx, r.sheets, rng, workorder.Schema, r.logger)
	if err != nil {
		return nil, fmt.Errorf("load orders sheet: %w", err)
	}

	orders := make([]*workorder.WorkOrder, len(table.Rows))
	for i, row := range table.Rows {
		orders[i] = workorder.FromRow(table.Columns, row, table.SheetRow(i))
	}

	r.logger.Debug("work orders loaded", "sheet", r.sheet, "orders", len(orders))
	return orders, nil
}

// UpdateCell overwrites one cell of the orders sheet.
func (r *Repository) UpdateCell(ctx context.Context, row, col int, value interface{}) error {
	if err := r.sheets.UpdateCell(ctx, r.sheet, row, col, value); err != nil {
		return fmt.Errorf("update %s: %w", spreadsheet.CellRef(r.sheet, row, col), err)
	}
	return nil
}
