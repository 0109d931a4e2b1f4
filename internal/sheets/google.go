package sheets

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/crewclock/apiserver/config"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// valueInputRaw stores strings exactly as given, so sort codes and account
// numbers keep their leading zeros.
const valueInputRaw = "RAW"

// GoogleClient wraps the Google Sheets v4 service for one spreadsheet.
type GoogleClient struct {
	service       *gsheets.Service
	spreadsheetID string
}

// NewGoogleClient constructs a Sheets client from config. Inline credentials
// JSON takes precedence over a credentials file; with neither, application
// default credentials are used.
func NewGoogleClient(ctx context.Context, cfg config.SheetsConfig) (*GoogleClient, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("spreadsheet id is required")
	}

	opts := []option.ClientOption{option.WithScopes(gsheets.SpreadsheetsScope)}
	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case strings.TrimSpace(cfg.CredentialsFile) != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	service, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &GoogleClient{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
	}, nil
}

// ReadAll returns every row of the sheet as strings.
func (g *GoogleClient) ReadAll(ctx context.Context, sheet string) ([][]string, error) {
	resp, err := g.service.Spreadsheets.Values.Get(g.spreadsheetID, quoteSheet(sheet)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			row[i] = fmt.Sprint(cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// UpdateCells writes all cells of one row in a single batch request.
func (g *GoogleClient) UpdateCells(ctx context.Context, sheet string, row int, cells map[int]string) error {
	if len(cells) == 0 {
		return nil
	}

	columns := make([]int, 0, len(cells))
	for column := range cells {
		columns = append(columns, column)
	}
	sort.Ints(columns)

	data := make([]*gsheets.ValueRange, 0, len(columns))
	for _, column := range columns {
		data = append(data, &gsheets.ValueRange{
			Range:  cellRange(sheet, row, column),
			Values: [][]interface{}{{cells[column]}},
		})
	}

	req := &gsheets.BatchUpdateValuesRequest{
		ValueInputOption: valueInputRaw,
		Data:             data,
	}
	if _, err := g.service.Spreadsheets.Values.BatchUpdate(g.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("update sheet %s row %d: %w", sheet, row, err)
	}
	return nil
}

// Append adds a row to the end of the sheet's table.
func (g *GoogleClient) Append(ctx context.Context, sheet string, values []string) error {
	row := make([]interface{}, len(values))
	for i, value := range values {
		row[i] = value
	}

	body := &gsheets.ValueRange{Values: [][]interface{}{row}}
	_, err := g.service.Spreadsheets.Values.Append(g.spreadsheetID, quoteSheet(sheet), body).
		ValueInputOption(valueInputRaw).
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append to sheet %s: %w", sheet, err)
	}
	return nil
}
