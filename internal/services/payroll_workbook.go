package services

import (
	"fmt"

	"github.com/crewclock/apiserver/types"
	"github.com/xuri/excelize/v2"
)

const payrollSheet = "Payroll"

// Workbook renders a report as an .xlsx file: a title row, a header row,
// one row per employee and a totals row.
func Workbook(report types.PayrollReport) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), payrollSheet); err != nil {
		return nil, fmt.Errorf("name payroll sheet: %w", err)
	}

	title := fmt.Sprintf("Payroll %s to %s", report.PeriodStart, report.PeriodEnd)
	if err := f.SetCellValue(payrollSheet, "A1", title); err != nil {
		return nil, err
	}
	header := []interface{}{"Username", "Shifts", "Hours", "Pay"}
	if err := f.SetSheetRow(payrollSheet, "A2", &header); err != nil {
		return nil, err
	}

	row := 3
	shifts := 0
	for _, line := range report.Lines {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, err
		}
		values := []interface{}{line.Username, line.Shifts, line.Hours, line.Pay}
		if err := f.SetSheetRow(payrollSheet, cell, &values); err != nil {
			return nil, err
		}
		shifts += line.Shifts
		row++
	}

	hours, pay := totals(report.Lines)
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return nil, err
	}
	footer := []interface{}{"Total", shifts, hours, pay}
	if err := f.SetSheetRow(payrollSheet, cell, &footer); err != nil {
		return nil, err
	}

	if err := f.SetColWidth(payrollSheet, "A", "A", 24); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write payroll workbook: %w", err)
	}
	return buf.Bytes(), nil
}
