package sheets

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPeopleTable(t *testing.T) (*Table, *MemoryBackend) {
	t.Helper()
	backend := NewMemoryBackend()
	backend.Seed("People",
		[]string{"Username", " Name ", "", "Rate"},
		[]string{"alice", "Alice", "x", "12.5"},
		[]string{"bob", "Bob"},
	)
	table, err := OpenTable(context.Background(), backend, "People", "Username", "Rate")
	require.NoError(t, err)
	return table, backend
}

func TestOpenTableReportsMissingColumns(t *testing.T) {
	backend := NewMemoryBackend()
	backend.Seed("People", []string{"Name"})

	_, err := OpenTable(context.Background(), backend, "People", "Username", "Name", "Rate")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingColumn))
	assert.Contains(t, err.Error(), "Username, Rate")
}

func TestOpenTableRejectsEmptySheet(t *testing.T) {
	backend := NewMemoryBackend()
	backend.Seed("People")

	_, err := OpenTable(context.Background(), backend, "People")
	assert.True(t, errors.Is(err, ErrEmptySheet))
}

func TestOpenTableUnknownSheet(t *testing.T) {
	_, err := OpenTable(context.Background(), NewMemoryBackend(), "Nope")
	assert.Error(t, err)
}

func TestTableColumnsTrimmedAndOrdered(t *testing.T) {
	table, _ := newPeopleTable(t)

	assert.Equal(t, []string{"Username", "Name", "Rate"}, table.Columns())
	assert.True(t, table.Has("Name"))
	assert.False(t, table.Has(" Name "))
}

func TestTableRowsHandlesShortRows(t *testing.T) {
	table, _ := newPeopleTable(t)

	rows, err := table.Rows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 2, rows[0].Number)
	assert.Equal(t, "12.5", rows[0].Get("Rate"))
	assert.Equal(t, 3, rows[1].Number)
	assert.Equal(t, "", rows[1].Get("Rate"))
	assert.Equal(t, "", rows[1].Get("Unknown"))
}

func TestTableFindRow(t *testing.T) {
	table, _ := newPeopleTable(t)
	ctx := context.Background()

	row, err := table.FindRow(ctx, "Username", "bob")
	require.NoError(t, err)
	assert.Equal(t, 3, row.Number)

	_, err = table.FindRow(ctx, "Username", "carol")
	assert.ErrorIs(t, err, ErrRowNotFound)

	_, err = table.FindRow(ctx, "Email", "bob")
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestTableUpdateCellsExtendsShortRow(t *testing.T) {
	table, backend := newPeopleTable(t)

	err := table.UpdateCells(context.Background(), 3, map[string]string{"Rate": "20"})
	require.NoError(t, err)

	assert.Equal(t, []string{"bob", "Bob", "", "20"}, backend.Rows("People")[2])
}

func TestTableUpdateCellsRejectsHeaderAndUnknownColumn(t *testing.T) {
	table, backend := newPeopleTable(t)
	ctx := context.Background()

	assert.Error(t, table.UpdateCells(ctx, 1, map[string]string{"Rate": "1"}))
	assert.ErrorIs(t, table.UpdateCells(ctx, 2, map[string]string{"Email": "a@b"}), ErrMissingColumn)
	assert.Equal(t, "12.5", backend.Rows("People")[1][3])
}

func TestTableAppendFollowsHeaderOrder(t *testing.T) {
	table, backend := newPeopleTable(t)

	err := table.Append(context.Background(), map[string]string{
		"Rate":     "9",
		"Username": "carol",
		"Dropped":  "ignored",
	})
	require.NoError(t, err)

	rows := backend.Rows("People")
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"carol", "", "", "9"}, rows[3])
}

func TestTableReplaceRowClearsUnsuppliedColumns(t *testing.T) {
	table, backend := newPeopleTable(t)

	err := table.ReplaceRow(context.Background(), 2, map[string]string{"Username": "alice", "Rate": "13"})
	require.NoError(t, err)

	assert.Equal(t, []string{"alice", "", "x", "13"}, backend.Rows("People")[1])
}

func TestRowValues(t *testing.T) {
	table, _ := newPeopleTable(t)
	row, err := table.FindRow(context.Background(), "Username", "alice")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"Username": "alice", "Name": "Alice", "Rate": "12.5"}, row.Values())
}

func TestColumnName(t *testing.T) {
	cases := map[int]string{0: "A", 5: "F", 25: "Z", 26: "AA", 27: "AB", 51: "AZ", 52: "BA", 701: "ZZ", 702: "AAA"}
	for index, want := range cases {
		assert.Equal(t, want, columnName(index), "index %d", index)
	}
}

func TestCellRangeQuotesSheet(t *testing.T) {
	assert.Equal(t, "'WorkHours'!D7", cellRange("WorkHours", 7, 3))
	assert.Equal(t, "'Bob''s'!A2", cellRange("Bob's", 2, 0))
}
