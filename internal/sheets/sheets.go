package sheets

import (
	"context"
	"errors"
	"strconv"
	"strings"
)

var (
	// ErrMissingColumn is returned when a sheet header lacks a declared column.
	ErrMissingColumn = errors.New("missing column")

	// ErrRowNotFound is returned when no row matches a lookup.
	ErrRowNotFound = errors.New("row not found")

	// ErrEmptySheet is returned when a sheet has no header row.
	ErrEmptySheet = errors.New("sheet has no header row")
)

// Backend defines the row-oriented operations of the external spreadsheet.
// Row numbers are 1-based sheet rows; row 1 is the header.
type Backend interface {
	// ReadAll returns every row of the sheet, header included.
	ReadAll(ctx context.Context, sheet string) ([][]string, error)
	// UpdateCells writes the given 0-based column positions of one row.
	UpdateCells(ctx context.Context, sheet string, row int, cells map[int]string) error
	// Append adds a row after the last non-empty row of the sheet.
	Append(ctx context.Context, sheet string, values []string) error
}

// columnName converts a 0-based column position to its A1 letters.
func columnName(index int) string {
	name := ""
	for n := index + 1; n > 0; n = (n - 1) / 26 {
		name = string(rune('A'+(n-1)%26)) + name
	}
	return name
}

// cellRange builds an A1 reference such as 'WorkHours'!D7.
func cellRange(sheet string, row, column int) string {
	return quoteSheet(sheet) + "!" + columnName(column) + strconv.Itoa(row)
}

func quoteSheet(sheet string) string {
	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
}
