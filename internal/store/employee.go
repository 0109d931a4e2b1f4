package store

import (
	"context"
	"errors"
	"strings"

	"github.com/crewclock/apiserver/internal/sheets"
	"github.com/crewclock/apiserver/types"
)

// Employees sheet columns.
const (
	colUsername            = "Username"
	colName                = "Name"
	colPassword            = "Password"
	colRate                = "Rate"
	colRole                = "Role"
	colEarlyAccess         = "EarlyAccess"
	colOnboardingCompleted = "OnboardingCompleted"
)

// EmployeeColumns are the columns the Employees sheet must declare.
var EmployeeColumns = []string{colUsername, colPassword, colRate, colRole, colEarlyAccess, colOnboardingCompleted}

// EmployeeRepository handles persistence for employees.
type EmployeeRepository struct {
	table *sheets.Table
}

func NewEmployeeRepository(table *sheets.Table) *EmployeeRepository {
	return &EmployeeRepository{table: table}
}

func (r *EmployeeRepository) GetByUsername(ctx context.Context, username string) (types.Employee, error) {
	row, err := r.table.FindRow(ctx, colUsername, username)
	if err != nil {
		if errors.Is(err, sheets.ErrRowNotFound) {
			return types.Employee{}, ErrNotFound
		}
		return types.Employee{}, err
	}
	return employeeFromRow(row), nil
}

func (r *EmployeeRepository) List(ctx context.Context) ([]types.Employee, error) {
	rows, err := r.table.Rows(ctx)
	if err != nil {
		return nil, err
	}
	employees := make([]types.Employee, 0, len(rows))
	for _, row := range rows {
		if strings.TrimSpace(row.Get(colUsername)) == "" {
			continue
		}
		employees = append(employees, employeeFromRow(row))
	}
	return employees, nil
}

// SetOnboardingCompleted looks the employee's row up and writes the flag.
func (r *EmployeeRepository) SetOnboardingCompleted(ctx context.Context, username string, completed bool) error {
	row, err := r.table.FindRow(ctx, colUsername, username)
	if err != nil {
		if errors.Is(err, sheets.ErrRowNotFound) {
			return ErrNotFound
		}
		return err
	}
	return r.table.UpdateCells(ctx, row.Number, map[string]string{
		colOnboardingCompleted: formatBool(completed),
	})
}

func employeeFromRow(row sheets.Row) types.Employee {
	rate := parseDecimal(row.Get(colRate))
	if rate < 0 {
		rate = 0
	}
	role := strings.ToLower(strings.TrimSpace(row.Get(colRole)))
	if role != types.RoleAdmin {
		role = types.RoleEmployee
	}
	return types.Employee{
		Username:            row.Get(colUsername),
		Name:                strings.TrimSpace(row.Get(colName)),
		Password:            row.Get(colPassword),
		Rate:                rate,
		Role:                role,
		EarlyAccess:         parseBool(row.Get(colEarlyAccess)),
		OnboardingCompleted: parseBool(row.Get(colOnboardingCompleted)),
	}
}
