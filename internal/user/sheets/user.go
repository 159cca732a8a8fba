package sheets

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/shopfloor-tasks/internal/spreadsheet"
	"github.com/frahmantamala/shopfloor-tasks/internal/user"
)

// UsersLastColumn bounds the users range.
const UsersLastColumn = "Z"

type Repository struct {
	reader spreadsheet.Reader
	sheet  string
	logger *slog.Logger
}

func NewUserRepository(reader spreadsheet.Reader, sheet string, logger *slog.Logger) user.RepositoryAPI {
	return &Repository{
		reader: reader,
		sheet:  sheet,
		logger: logger,
	}
}

// LoadUsers reads the whole users sheet. Rows without a username are skipped.
func (r *Repository) LoadUsers(ctx context.Context) ([]*user.User, error) {
	rng := spreadsheet.OpenRange(r.sheet, UsersLastColumn)
	table, err := spreadsheet.LoadTable(ctx, r.reader, rng, user.Schema, r.logger)
	if err != nil {
		return nil, fmt.Errorf("load users sheet: %w", err)
	}

	users := make([]*user.User, 0, len(table.Rows))
	for i, row := range table.Rows {
		u := user.FromRow(table.Columns, row, table.SheetRow(i))
		if u.Username == "" {
			continue
		}
		users = append(users, u)
	}

	r.logger.Debug("users loaded", "sheet", r.sheet, "rows", len(table.Rows), "users", len(users))
	return users, nil
}
