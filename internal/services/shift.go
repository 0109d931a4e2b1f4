package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/crewclock/apiserver/internal/store"
	"github.com/crewclock/apiserver/types"
)

var (
	ErrAlreadyClockedIn      = errors.New("already clocked in")
	ErrAlreadyClockedInToday = errors.New("already clocked in today")
	ErrNoActiveShift         = errors.New("no active shift")
)

// DefaultClockInFloor is the earliest clock-in time recorded for employees
// without early access.
var DefaultClockInFloor = TimeOfDay{Hour: 8}

// ShiftRepository defines persistence operations for work shifts.
type ShiftRepository interface {
	List(ctx context.Context) ([]types.Shift, error)
	ListByUsername(ctx context.Context, username string) ([]types.Shift, error)
	Latest(ctx context.Context, username string) (types.Shift, error)
	Create(ctx context.Context, shift types.Shift) error
	Close(ctx context.Context, shift types.Shift) error
}

// ShiftService tracks the clock-in/clock-out state of employees.
//
// An employee is clocked in when their most recent WorkHours row has no
// clock-out. Older rows are never consulted, so an open row followed by a
// closed one stays open in the sheet but is unreachable.
type ShiftService struct {
	repo  ShiftRepository
	floor TimeOfDay
	opts  Options
}

func NewShiftService(repo ShiftRepository, floor TimeOfDay, opts Options) *ShiftService {
	return &ShiftService{repo: repo, floor: floor, opts: opts.withDefaults()}
}

// Status reports whether the employee is clocked in.
func (s *ShiftService) Status(ctx context.Context, username string) (types.ShiftStatus, error) {
	shifts, err := s.repo.ListByUsername(ctx, username)
	if err != nil {
		return types.ShiftStatus{}, err
	}
	return shiftStatus(shifts, s.opts.now().Format(types.DateLayout)), nil
}

// History returns the employee's shifts, most recent first.
func (s *ShiftService) History(ctx context.Context, username string) ([]types.Shift, error) {
	shifts, err := s.repo.ListByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	history := make([]types.Shift, len(shifts))
	for i, shift := range shifts {
		history[len(shifts)-1-i] = shift
	}
	return history, nil
}

// ClockIn opens a shift for today. Only one shift may start per calendar
// day, even after the previous one was closed. Two concurrent requests can
// both pass the check; the sheet offers nothing to prevent that.
func (s *ShiftService) ClockIn(ctx context.Context, session types.Session) (types.Shift, error) {
	now := s.opts.now()
	today := now.Format(types.DateLayout)

	shifts, err := s.repo.ListByUsername(ctx, session.Username)
	if err != nil {
		return types.Shift{}, err
	}
	status := shiftStatus(shifts, today)
	if status.State == types.ShiftOpen {
		return types.Shift{}, ErrAlreadyClockedIn
	}
	if status.ClockedInToday {
		return types.Shift{}, ErrAlreadyClockedInToday
	}

	shift := types.Shift{
		Username: session.Username,
		Date:     today,
		ClockIn:  ClockInTime(now, s.floor, session.EarlyAccess).Format(types.TimeLayout),
	}
	if err := s.repo.Create(ctx, shift); err != nil {
		return types.Shift{}, err
	}

	s.opts.Logger.InfoContext(ctx, "clocked in", "username", shift.Username, "date", shift.Date, "clock_in", shift.ClockIn)
	publishEvent(ctx, s.opts.Events, s.opts.Logger, Event{
		Type:       EventShiftClockedIn,
		Username:   shift.Username,
		OccurredAt: now,
		Data:       shift,
	})
	return shift, nil
}

// ClockOut closes the employee's open shift at the current time and
// computes hours and pay with the session's rate. The floor never applies
// to clock-out.
func (s *ShiftService) ClockOut(ctx context.Context, session types.Session) (types.Shift, error) {
	shift, err := s.repo.Latest(ctx, session.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Shift{}, ErrNoActiveShift
		}
		return types.Shift{}, err
	}
	if !shift.Open() {
		return types.Shift{}, ErrNoActiveShift
	}

	start, err := time.ParseInLocation(types.TimestampLayout, shift.Date+" "+shift.ClockIn, s.opts.Location)
	if err != nil {
		return types.Shift{}, fmt.Errorf("parse clock-in of %s on %s: %w", shift.Username, shift.Date, err)
	}

	now := s.opts.now()
	shift.ClockOut = now.Format(types.TimeLayout)
	shift.Hours = ElapsedHours(start, now)
	shift.Pay = ComputePay(shift.Hours, session.Rate)

	if err := s.repo.Close(ctx, shift); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Shift{}, ErrNoActiveShift
		}
		return types.Shift{}, err
	}

	s.opts.Logger.InfoContext(ctx, "clocked out",
		"username", shift.Username,
		"date", shift.Date,
		"hours", shift.Hours,
		"pay", shift.Pay,
	)
	publishEvent(ctx, s.opts.Events, s.opts.Logger, Event{
		Type:       EventShiftClockedOut,
		Username:   shift.Username,
		OccurredAt: now,
		Data:       shift,
	})
	return shift, nil
}

// ClockInTime clamps now to the floor on the same day unless the employee
// has early access.
func ClockInTime(now time.Time, floor TimeOfDay, earlyAccess bool) time.Time {
	if earlyAccess {
		return now
	}
	if earliest := floor.On(now); now.Before(earliest) {
		return earliest
	}
	return now
}

// ElapsedHours returns end-start in hours, never negative, rounded to two
// decimals.
func ElapsedHours(start, end time.Time) float64 {
	hours := end.Sub(start).Hours()
	if hours < 0 {
		hours = 0
	}
	return round2(hours)
}

// ComputePay multiplies hours by the hourly rate, rounded to two decimals.
func ComputePay(hours, rate float64) float64 {
	return round2(hours * rate)
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

func shiftStatus(shifts []types.Shift, today string) types.ShiftStatus {
	status := types.ShiftStatus{State: types.ShiftClosed}
	if n := len(shifts); n > 0 && shifts[n-1].Open() {
		current := shifts[n-1]
		status.State = types.ShiftOpen
		status.Current = &current
	}
	for _, shift := range shifts {
		if shift.Date == today {
			status.ClockedInToday = true
			break
		}
	}
	return status
}
