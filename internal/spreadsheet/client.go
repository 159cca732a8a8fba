package spreadsheet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/frahmantamala/shopfloor-tasks/internal"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// ValueInputUserEntered makes the backend parse written values as if typed by a person,
// so dates and numbers pick up the sheet's formats.
const ValueInputUserEntered = "USER_ENTERED"

type Config struct {
	SpreadsheetID   string
	CredentialsJSON string
	RequestTimeout  time.Duration
}

// Client performs range reads and cell writes against one spreadsheet.
type Client struct {
	svc           *sheets.Service
	spreadsheetID string
	timeout       time.Duration
	logger        *slog.Logger
}

// NewClient authenticates with the service account credentials in cfg. Extra options are
// appended last, which lets tests point the client at a local endpoint.
func NewClient(ctx context.Context, cfg Config, logger *slog.Logger, opts ...option.ClientOption) (*Client, error) {
	if cfg.SpreadsheetID == "" {
		return nil, errors.New("spreadsheet id is required")
	}

	clientOpts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	if cfg.CredentialsJSON != "" {
		clientOpts = append(clientOpts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	}
	clientOpts = append(clientOpts, opts...)

	svc, err := sheets.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		timeout:       cfg.RequestTimeout,
		logger:        logger,
	}, nil
}

// ReadRange returns the formatted values of rng, one string per cell. Trailing empty cells
// are omitted by the backend, so rows may have different lengths.
func (c *Client) ReadRange(ctx context.Context, rng string) ([][]string, error) {
	ctx, cancel := internal.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read range %s: %w", rng, err)
	}

	rows := make([][]string, len(resp.Values))
	for i, r := range resp.Values {
		row := make([]string, len(r))
		for j, v := range r {
			row[j] = cellString(v)
		}
		rows[i] = row
	}

	c.logger.Debug("sheet range read", "range", rng, "rows", len(rows))
	return rows, nil
}

// UpdateCell overwrites a single cell. row is the 1-based sheet row and col is zero-based.
// There is no conditional write: whatever is in the cell is replaced.
func (c *Client) UpdateCell(ctx context.Context, sheet string, row, col int, value interface{}) error {
	if row < 1 || col < 0 {
		return fmt.Errorf("invalid cell position row=%d col=%d", row, col)
	}
	rng := CellRef(sheet, row, col)
	return c.WriteRange(ctx, rng, [][]interface{}{{value}})
}

// WriteRange overwrites a block of cells starting at the top-left corner of rng.
func (c *Client) WriteRange(ctx context.Context, rng string, values [][]interface{}) error {
	ctx, cancel := internal.WithTimeout(ctx, c.timeout)
	defer cancel()

	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, &sheets.ValueRange{Values: values}).
		ValueInputOption(ValueInputUserEntered).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("write range %s: %w", rng, err)
	}

	c.logger.Debug("sheet range written", "range", rng, "rows", len(values))
	return nil
}

// AppendRows adds rows after the last non-empty row of the table found in rng.
func (c *Client) AppendRows(ctx context.Context, rng string, values [][]interface{}) error {
	ctx, cancel := internal.WithTimeout(ctx, c.timeout)
	defer cancel()

	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, &sheets.ValueRange{Values: values}).
		ValueInputOption(ValueInputUserEntered).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append rows %s: %w", rng, err)
	}
	return nil
}

// ClearRange blanks every value in rng, keeping formatting.
func (c *Client) ClearRange(ctx context.Context, rng string) error {
	ctx, cancel := internal.WithTimeout(ctx, c.timeout)
	defer cancel()

	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear range %s: %w", rng, err)
	}
	return nil
}

// Ping fetches the spreadsheet id only; it proves credentials and reachability.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := internal.WithTimeout(ctx, c.timeout)
	defer cancel()

	if _, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("spreadsheetId").Context(ctx).Do(); err != nil {
		return fmt.Errorf("ping spreadsheet: %w", err)
	}
	return nil
}

func cellString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		if t {
			return "TRUE"
		}
		return "FALSE"
	default:
		return fmt.Sprint(t)
	}
}
