package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/crewclock/apiserver/internal/storage"
	"github.com/crewclock/apiserver/types"
	"github.com/google/uuid"
)

const (
	xlsxContentType    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	payrollArchivePath = "payroll/"
)

var (
	ErrInvalidPeriod   = errors.New("invalid payroll period")
	ErrNoClosedShifts  = errors.New("no closed shifts in period")
	ErrArchiveDisabled = errors.New("payroll archive storage is not configured")
)

// PayrollRepository defines persistence operations for payroll reports.
type PayrollRepository interface {
	Append(ctx context.Context, lines []types.PayrollLine) error
	ListByReport(ctx context.Context, reportID string) ([]types.PayrollLine, error)
}

// PayrollService aggregates closed shifts into payroll reports.
type PayrollService struct {
	shifts  ShiftRepository
	reports PayrollRepository
	archive *storage.Storage
	opts    Options
}

// NewPayrollService constructs the service. A nil archive disables
// workbook archiving.
func NewPayrollService(shifts ShiftRepository, reports PayrollRepository, archive *storage.Storage, opts Options) *PayrollService {
	return &PayrollService{shifts: shifts, reports: reports, archive: archive, opts: opts.withDefaults()}
}

// Summarize totals closed shifts dated from..to inclusive without saving.
func (s *PayrollService) Summarize(ctx context.Context, from, to string) (types.PayrollReport, error) {
	start, end, err := parsePeriod(from, to)
	if err != nil {
		return types.PayrollReport{}, err
	}

	shifts, err := s.shifts.List(ctx)
	if err != nil {
		return types.PayrollReport{}, err
	}

	byUsername := make(map[string]*types.PayrollLine)
	for _, shift := range shifts {
		if shift.Open() {
			continue
		}
		day, err := time.Parse(types.DateLayout, shift.Date)
		if err != nil || day.Before(start) || day.After(end) {
			continue
		}
		line, ok := byUsername[shift.Username]
		if !ok {
			line = &types.PayrollLine{Username: shift.Username, PeriodStart: from, PeriodEnd: to}
			byUsername[shift.Username] = line
		}
		line.Shifts++
		line.Hours = round2(line.Hours + shift.Hours)
		line.Pay = round2(line.Pay + shift.Pay)
	}

	report := types.PayrollReport{
		PeriodStart: from,
		PeriodEnd:   to,
		GeneratedAt: s.opts.now().Format(types.TimestampLayout),
		Lines:       make([]types.PayrollLine, 0, len(byUsername)),
	}
	for _, line := range byUsername {
		line.GeneratedAt = report.GeneratedAt
		report.Lines = append(report.Lines, *line)
	}
	sort.Slice(report.Lines, func(i, j int) bool {
		return report.Lines[i].Username < report.Lines[j].Username
	})
	report.TotalHours, report.TotalPay = totals(report.Lines)
	return report, nil
}

// Generate records a report in the PayrollReports sheet and archives its
// workbook when storage is configured. Lines are appended one by one;
// a failure leaves the earlier lines in the sheet.
func (s *PayrollService) Generate(ctx context.Context, from, to string) (types.PayrollReport, error) {
	report, err := s.Summarize(ctx, from, to)
	if err != nil {
		return types.PayrollReport{}, err
	}
	if len(report.Lines) == 0 {
		return types.PayrollReport{}, ErrNoClosedShifts
	}

	report.ID = uuid.NewString()
	for i := range report.Lines {
		report.Lines[i].ReportID = report.ID
	}
	if err := s.reports.Append(ctx, report.Lines); err != nil {
		return types.PayrollReport{}, fmt.Errorf("record payroll report: %w", err)
	}

	if s.archive != nil {
		data, err := Workbook(report)
		if err != nil {
			return types.PayrollReport{}, err
		}
		key := archiveKey(report.ID)
		if err := s.archive.Put(ctx, key, bytes.NewReader(data), int64(len(data)), xlsxContentType); err != nil {
			return types.PayrollReport{}, fmt.Errorf("archive payroll report: %w", err)
		}
		report.ArchiveKey = key
	}

	s.opts.Logger.InfoContext(ctx, "payroll report generated",
		"report_id", report.ID,
		"period_start", from,
		"period_end", to,
		"lines", len(report.Lines),
	)
	publishEvent(ctx, s.opts.Events, s.opts.Logger, Event{
		Type:       EventPayrollReportCreated,
		OccurredAt: s.opts.now(),
		Data:       report,
	})
	return report, nil
}

// Get rebuilds a recorded report from its sheet rows.
func (s *PayrollService) Get(ctx context.Context, reportID string) (types.PayrollReport, error) {
	lines, err := s.reports.ListByReport(ctx, reportID)
	if err != nil {
		return types.PayrollReport{}, err
	}
	report := types.PayrollReport{
		ID:          reportID,
		PeriodStart: lines[0].PeriodStart,
		PeriodEnd:   lines[0].PeriodEnd,
		GeneratedAt: lines[0].GeneratedAt,
		Lines:       lines,
	}
	report.TotalHours, report.TotalPay = totals(lines)
	if s.archive != nil {
		report.ArchiveKey = archiveKey(reportID)
	}
	return report, nil
}

// OpenArchive streams the archived workbook of a report.
func (s *PayrollService) OpenArchive(ctx context.Context, reportID string) (io.ReadCloser, error) {
	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}
	return s.archive.Get(ctx, archiveKey(reportID))
}

func archiveKey(reportID string) string {
	return payrollArchivePath + reportID + ".xlsx"
}

func parsePeriod(from, to string) (time.Time, time.Time, error) {
	start, err := time.Parse(types.DateLayout, from)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: bad start date %q", ErrInvalidPeriod, from)
	}
	end, err := time.Parse(types.DateLayout, to)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: bad end date %q", ErrInvalidPeriod, to)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end before start", ErrInvalidPeriod)
	}
	return start, end, nil
}

func totals(lines []types.PayrollLine) (hours, pay float64) {
	for _, line := range lines {
		hours += line.Hours
		pay += line.Pay
	}
	return round2(hours), round2(pay)
}
