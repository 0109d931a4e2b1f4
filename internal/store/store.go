package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/crewclock/apiserver/config"
	"github.com/crewclock/apiserver/internal/sheets"
)

// Repositories groups the repositories backed by one spreadsheet.
type Repositories struct {
	Employees  *EmployeeRepository
	Shifts     *ShiftRepository
	Onboarding *OnboardingRepository
	Payroll    *PayrollRepository
}

// Open binds every table of the spreadsheet and validates its header.
// A missing column is a configuration error and fails fast.
func Open(ctx context.Context, backend sheets.Backend, cfg config.SheetsConfig) (*Repositories, error) {
	employees, err := sheets.OpenTable(ctx, backend, cfg.EmployeesTable, EmployeeColumns...)
	if err != nil {
		return nil, fmt.Errorf("open employees table: %w", err)
	}
	shifts, err := sheets.OpenTable(ctx, backend, cfg.WorkHoursTable, ShiftColumns...)
	if err != nil {
		return nil, fmt.Errorf("open work hours table: %w", err)
	}
	onboarding, err := sheets.OpenTable(ctx, backend, cfg.OnboardingTable, OnboardingKeyColumn)
	if err != nil {
		return nil, fmt.Errorf("open onboarding table: %w", err)
	}
	payroll, err := sheets.OpenTable(ctx, backend, cfg.PayrollReportsTable, PayrollColumns...)
	if err != nil {
		return nil, fmt.Errorf("open payroll reports table: %w", err)
	}

	return &Repositories{
		Employees:  NewEmployeeRepository(employees),
		Shifts:     NewShiftRepository(shifts),
		Onboarding: NewOnboardingRepository(onboarding),
		Payroll:    NewPayrollRepository(payroll),
	}, nil
}

const cellTrue = "TRUE"

func parseBool(value string) bool {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "TRUE", "YES", "Y", "1":
		return true
	default:
		return false
	}
}

func formatBool(value bool) string {
	if value {
		return cellTrue
	}
	return "FALSE"
}

func parseDecimal(value string) float64 {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return parsed
}

func formatDecimal(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}
