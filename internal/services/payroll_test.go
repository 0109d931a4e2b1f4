package services

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"

	"github.com/crewclock/apiserver/internal/storage"
	"github.com/crewclock/apiserver/internal/store"
	"github.com/crewclock/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type memoryObjects struct {
	mu           sync.Mutex
	objects      map[string][]byte
	contentTypes map[string]string
}

func newMemoryObjects() *memoryObjects {
	return &memoryObjects{objects: map[string][]byte{}, contentTypes: map[string]string{}}
}

func (m *memoryObjects) EnsureBucket(context.Context) error { return nil }

func (m *memoryObjects) Put(_ context.Context, key string, r io.Reader, _ int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	m.contentTypes[key] = contentType
	return nil
}

func (m *memoryObjects) Get(_ context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memoryObjects) Bucket() string { return "payroll-test" }

func seedWorkHours(env *testEnv) {
	env.backend.Seed("WorkHours", store.ShiftColumns,
		[]string{"bob", "2024-02-29", "08:00:00", "16:00:00", "8.00", "120.00"},
		[]string{"bob", "2024-03-01", "08:00:00", "16:15:00", "8.25", "123.75"},
		[]string{"erin", "2024-03-01", "06:00:00", "10:30:00", "4.50", "90.00"},
		[]string{"bob", "2024-03-02", "08:00:00", "12:00:00", "4.00", "60.00"},
		[]string{"erin", "2024-03-03", "07:00:00", "", "", ""},
		[]string{"alice", "not-a-date", "08:00:00", "09:00:00", "1.00", "15.00"},
		[]string{"alice", "2024-03-08", "08:00:00", "09:00:00", "1.00", "15.00"},
	)
}

func TestSummarizeGroupsClosedShiftsInPeriod(t *testing.T) {
	env := newTestEnv(t)
	seedWorkHours(env)
	svc := NewPayrollService(env.repos.Shifts, env.repos.Payroll, nil, env.opts)

	report, err := svc.Summarize(context.Background(), "2024-03-01", "2024-03-07")
	require.NoError(t, err)
	require.Len(t, report.Lines, 2)

	assert.Equal(t, "bob", report.Lines[0].Username)
	assert.Equal(t, 2, report.Lines[0].Shifts)
	assert.Equal(t, 12.25, report.Lines[0].Hours)
	assert.Equal(t, 183.75, report.Lines[0].Pay)

	assert.Equal(t, "erin", report.Lines[1].Username)
	assert.Equal(t, 1, report.Lines[1].Shifts)
	assert.Equal(t, 4.5, report.Lines[1].Hours)

	assert.Equal(t, 16.75, report.TotalHours)
	assert.Equal(t, 273.75, report.TotalPay)
	assert.Empty(t, report.ID)
	assert.Len(t, env.backend.Rows("PayrollReports"), 1)
}

func TestSummarizeRejectsBadPeriod(t *testing.T) {
	env := newTestEnv(t)
	svc := NewPayrollService(env.repos.Shifts, env.repos.Payroll, nil, env.opts)
	ctx := context.Background()

	_, err := svc.Summarize(ctx, "2024-03-07", "2024-03-01")
	assert.ErrorIs(t, err, ErrInvalidPeriod)
	_, err = svc.Summarize(ctx, "March", "2024-03-01")
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestGenerateRecordsAndArchivesReport(t *testing.T) {
	env := newTestEnv(t)
	seedWorkHours(env)
	objects := newMemoryObjects()
	svc := NewPayrollService(env.repos.Shifts, env.repos.Payroll, storage.NewStorage(objects), env.opts)
	ctx := context.Background()

	report, err := svc.Generate(ctx, "2024-03-01", "2024-03-07")
	require.NoError(t, err)
	require.NotEmpty(t, report.ID)
	assert.Equal(t, "payroll/"+report.ID+".xlsx", report.ArchiveKey)
	assert.Equal(t, xlsxContentType, objects.contentTypes[report.ArchiveKey])

	rows := env.backend.Rows("PayrollReports")
	require.Len(t, rows, 3)
	assert.Equal(t, []string{report.ID, "2024-03-01", "2024-03-07", "bob", "2", "12.25", "183.75", "2024-03-04 09:00:00"}, rows[1])

	stored, err := svc.Get(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, report.Lines, stored.Lines)
	assert.Equal(t, report.TotalPay, stored.TotalPay)
	assert.Equal(t, report.ArchiveKey, stored.ArchiveKey)

	archived, err := svc.OpenArchive(ctx, report.ID)
	require.NoError(t, err)
	defer archived.Close()
	book, err := excelize.OpenReader(archived)
	require.NoError(t, err)
	defer book.Close()
	sheetRows, err := book.GetRows(payrollSheet)
	require.NoError(t, err)
	assert.Equal(t, "bob", sheetRows[2][0])

	assert.Equal(t, []string{EventPayrollReportCreated}, env.events.types())
}

func TestGenerateWithoutShifts(t *testing.T) {
	env := newTestEnv(t)
	svc := NewPayrollService(env.repos.Shifts, env.repos.Payroll, nil, env.opts)

	_, err := svc.Generate(context.Background(), "2024-03-01", "2024-03-07")
	assert.ErrorIs(t, err, ErrNoClosedShifts)
	assert.Len(t, env.backend.Rows("PayrollReports"), 1)
}

func TestGetUnknownReport(t *testing.T) {
	env := newTestEnv(t)
	svc := NewPayrollService(env.repos.Shifts, env.repos.Payroll, nil, env.opts)

	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = svc.OpenArchive(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrArchiveDisabled)
}

func TestWorkbookLayout(t *testing.T) {
	data, err := Workbook(types.PayrollReport{
		PeriodStart: "2024-03-01",
		PeriodEnd:   "2024-03-07",
		Lines: []types.PayrollLine{
			{Username: "bob", Shifts: 2, Hours: 12.25, Pay: 183.75},
			{Username: "erin", Shifts: 1, Hours: 4.5, Pay: 90},
		},
	})
	require.NoError(t, err)

	book, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer book.Close()

	assert.Equal(t, []string{payrollSheet}, book.GetSheetList())
	rows, err := book.GetRows(payrollSheet)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "Payroll 2024-03-01 to 2024-03-07", rows[0][0])
	assert.Equal(t, []string{"Username", "Shifts", "Hours", "Pay"}, rows[1])
	assert.Equal(t, []string{"bob", "2", "12.25", "183.75"}, rows[2])
	assert.Equal(t, []string{"erin", "1", "4.5", "90"}, rows[3])
	assert.Equal(t, []string{"Total", "3", "16.75", "273.75"}, rows[4])
}
