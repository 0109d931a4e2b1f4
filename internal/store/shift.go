package store

import (
	"context"

	"github.com/crewclock/apiserver/internal/sheets"
	"github.com/crewclock/apiserver/types"
)

// WorkHours sheet columns, in sheet order.
const (
	colDate     = "Date"
	colClockIn  = "ClockIn"
	colClockOut = "ClockOut"
	colHours    = "Hours"
	colPay      = "Pay"
)

// ShiftColumns are the columns the WorkHours sheet must declare.
var ShiftColumns = []string{colUsername, colDate, colClockIn, colClockOut, colHours, colPay}

// ShiftRepository handles persistence for work shifts.
type ShiftRepository struct {
	table *sheets.Table
}

func NewShiftRepository(table *sheets.Table) *ShiftRepository {
	return &ShiftRepository{table: table}
}

// List returns every shift in sheet order.
func (r *ShiftRepository) List(ctx context.Context) ([]types.Shift, error) {
	rows, err := r.table.Rows(ctx)
	if err != nil {
		return nil, err
	}
	shifts := make([]types.Shift, 0, len(rows))
	for _, row := range rows {
		if row.Get(colUsername) == "" {
			continue
		}
		shifts = append(shifts, shiftFromRow(row))
	}
	return shifts, nil
}

// ListByUsername returns the employee's shifts in sheet order.
func (r *ShiftRepository) ListByUsername(ctx context.Context, username string) ([]types.Shift, error) {
	rows, err := r.table.Rows(ctx)
	if err != nil {
		return nil, err
	}
	var shifts []types.Shift
	for _, row := range rows {
		if row.Get(colUsername) == username {
			shifts = append(shifts, shiftFromRow(row))
		}
	}
	return shifts, nil
}

// Latest returns the employee's most recent row.
func (r *ShiftRepository) Latest(ctx context.Context, username string) (types.Shift, error) {
	row, err := r.latestRow(ctx, username)
	if err != nil {
		return types.Shift{}, err
	}
	return shiftFromRow(row), nil
}

// Create appends an open shift.
func (r *ShiftRepository) Create(ctx context.Context, shift types.Shift) error {
	return r.table.Append(ctx, map[string]string{
		colUsername: shift.Username,
		colDate:     shift.Date,
		colClockIn:  shift.ClockIn,
	})
}

// Close writes clock-out, hours and pay onto the shift's row. The row is
// located again right before the write; ErrNotFound means the employee's
// most recent row is no longer this open shift.
func (r *ShiftRepository) Close(ctx context.Context, shift types.Shift) error {
	row, err := r.latestRow(ctx, shift.Username)
	if err != nil {
		return err
	}
	current := shiftFromRow(row)
	if !current.Open() || current.Date != shift.Date || current.ClockIn != shift.ClockIn {
		return ErrNotFound
	}
	return r.table.UpdateCells(ctx, row.Number, map[string]string{
		colClockOut: shift.ClockOut,
		colHours:    formatDecimal(shift.Hours),
		colPay:      formatDecimal(shift.Pay),
	})
}

// latestRow scans from the bottom of the sheet for the employee's last row.
func (r *ShiftRepository) latestRow(ctx context.Context, username string) (sheets.Row, error) {
	rows, err := r.table.Rows(ctx)
	if err != nil {
		return sheets.Row{}, err
	}
	for i := len(rows) - 1; i >= 0; i-- {
		if rows[i].Get(colUsername) == username {
			return rows[i], nil
		}
	}
	return sheets.Row{}, ErrNotFound
}

func shiftFromRow(row sheets.Row) types.Shift {
	return types.Shift{
		Username: row.Get(colUsername),
		Date:     row.Get(colDate),
		ClockIn:  row.Get(colClockIn),
		ClockOut: row.Get(colClockOut),
		Hours:    parseDecimal(row.Get(colHours)),
		Pay:      parseDecimal(row.Get(colPay)),
	}
}
