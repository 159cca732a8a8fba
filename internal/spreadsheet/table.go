package spreadsheet

import (
	"context"
	"log/slog"
)

type Reader interface {
	ReadRange(ctx context.Context, rng string) ([][]string, error)
}

type Writer interface {
	UpdateCell(ctx context.Context, sheet string, row, col int, value interface{}) error
}

type ReadWriter interface {
	Reader
	Writer
}

// Table is one sheet load: the header resolved against a schema plus the data rows below it.
type Table struct {
	Header  []string
	Columns ColumnMap
	Rows    [][]string
}

// SheetRow returns the 1-based sheet row number of data row i. Row 1 is the header.
func (t Table) SheetRow(i int) int {
	return i + 2
}

// LoadTable reads rng and resolves its first row against schema. An empty sheet yields a table
// with no rows in which every field is unresolved.
func LoadTable(ctx context.Context, reader Reader, rng string, schema Schema, logger *slog.Logger) (Table, error) {
	values, err := reader.ReadRange(ctx, rng)
	if err != nil {
		return Table{}, err
	}

	if len(values) == 0 {
		return Table{Columns: ResolveColumns(nil, schema)}, nil
	}

	t := Table{
		Header:  values[0],
		Columns: ResolveColumns(values[0], schema),
		Rows:    values[1:],
	}

	for col, fields := range t.Columns.Collisions() {
		logger.Warn("header columns resolve to the same cell", "range", rng, "column", ColumnLetter(col), "fields", fields)
	}

	return t, nil
}
