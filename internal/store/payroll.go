package store

import (
	"context"
	"strconv"
	"strings"

	"github.com/crewclock/apiserver/internal/sheets"
	"github.com/crewclock/apiserver/types"
)

// PayrollReports sheet columns.
const (
	colReportID    = "ReportID"
	colPeriodStart = "PeriodStart"
	colPeriodEnd   = "PeriodEnd"
	colShifts      = "Shifts"
	colGeneratedAt = "GeneratedAt"
)

// PayrollColumns are the columns the PayrollReports sheet must declare.
var PayrollColumns = []string{colReportID, colPeriodStart, colPeriodEnd, colUsername, colShifts, colHours, colPay, colGeneratedAt}

// PayrollRepository handles persistence for payroll report lines.
type PayrollRepository struct {
	table *sheets.Table
}

func NewPayrollRepository(table *sheets.Table) *PayrollRepository {
	return &PayrollRepository{table: table}
}

// Append writes one row per line. Lines already written stay in place when
// a later append fails.
func (r *PayrollRepository) Append(ctx context.Context, lines []types.PayrollLine) error {
	for _, line := range lines {
		err := r.table.Append(ctx, map[string]string{
			colReportID:    line.ReportID,
			colPeriodStart: line.PeriodStart,
			colPeriodEnd:   line.PeriodEnd,
			colUsername:    line.Username,
			colShifts:      strconv.Itoa(line.Shifts),
			colHours:       formatDecimal(line.Hours),
			colPay:         formatDecimal(line.Pay),
			colGeneratedAt: line.GeneratedAt,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// ListByReport returns the lines of one report in sheet order.
func (r *PayrollRepository) ListByReport(ctx context.Context, reportID string) ([]types.PayrollLine, error) {
	rows, err := r.table.Rows(ctx)
	if err != nil {
		return nil, err
	}
	var lines []types.PayrollLine
	for _, row := range rows {
		if row.Get(colReportID) != reportID {
			continue
		}
		shifts, _ := strconv.Atoi(strings.TrimSpace(row.Get(colShifts)))
		lines = append(lines, types.PayrollLine{
			ReportID:    reportID,
			PeriodStart: row.Get(colPeriodStart),
			PeriodEnd:   row.Get(colPeriodEnd),
			Username:    row.Get(colUsername),
			Shifts:      shifts,
			Hours:       parseDecimal(row.Get(colHours)),
			Pay:         parseDecimal(row.Get(colPay)),
			GeneratedAt: row.Get(colGeneratedAt),
		})
	}
	if len(lines) == 0 {
		return nil, ErrNotFound
	}
	return lines, nil
}
