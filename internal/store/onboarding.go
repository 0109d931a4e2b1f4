package store

import (
	"context"
	"errors"

	"github.com/crewclock/apiserver/internal/sheets"
	"github.com/crewclock/apiserver/types"
)

// OnboardingKeyColumn is the only column the Onboarding sheet must declare;
// every other column is taken from its header.
const OnboardingKeyColumn = colUsername

// OnboardingRepository handles persistence for starter form records.
type OnboardingRepository struct {
	table *sheets.Table
}

func NewOnboardingRepository(table *sheets.Table) *OnboardingRepository {
	return &OnboardingRepository{table: table}
}

// Columns returns the writable columns declared by the sheet header,
// excluding Username.
func (r *OnboardingRepository) Columns() []string {
	all := r.table.Columns()
	columns := make([]string, 0, len(all))
	for _, column := range all {
		if column != OnboardingKeyColumn {
			columns = append(columns, column)
		}
	}
	return columns
}

func (r *OnboardingRepository) Get(ctx context.Context, username string) (types.OnboardingRecord, error) {
	row, err := r.table.FindRow(ctx, OnboardingKeyColumn, username)
	if err != nil {
		if errors.Is(err, sheets.ErrRowNotFound) {
			return types.OnboardingRecord{}, ErrNotFound
		}
		return types.OnboardingRecord{}, err
	}
	return onboardingFromRow(row), nil
}

func (r *OnboardingRepository) List(ctx context.Context) ([]types.OnboardingRecord, error) {
	rows, err := r.table.Rows(ctx)
	if err != nil {
		return nil, err
	}
	records := make([]types.OnboardingRecord, 0, len(rows))
	for _, row := range rows {
		if row.Get(OnboardingKeyColumn) == "" {
			continue
		}
		records = append(records, onboardingFromRow(row))
	}
	return records, nil
}

// Upsert overwrites the employee's row, or appends one when none exists.
// Columns missing from record.Fields are written empty; fields without a
// header column are dropped. It reports whether a row was appended.
func (r *OnboardingRepository) Upsert(ctx context.Context, record types.OnboardingRecord) (bool, error) {
	values := make(map[string]string, len(record.Fields)+1)
	for column, value := range record.Fields {
		if r.table.Has(column) {
			values[column] = value
		}
	}
	values[OnboardingKeyColumn] = record.Username

	row, err := r.table.FindRow(ctx, OnboardingKeyColumn, record.Username)
	switch {
	case err == nil:
		return false, r.table.ReplaceRow(ctx, row.Number, values)
	case errors.Is(err, sheets.ErrRowNotFound):
		return true, r.table.Append(ctx, values)
	default:
		return false, err
	}
}

func onboardingFromRow(row sheets.Row) types.OnboardingRecord {
	fields := row.Values()
	username := fields[OnboardingKeyColumn]
	delete(fields, OnboardingKeyColumn)
	return types.OnboardingRecord{Username: username, Fields: fields}
}
