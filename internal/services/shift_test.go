package services

import (
	"context"
	"testing"
	"time"

	"github.com/crewclock/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bobSession() types.Session {
	return types.Session{Username: "bob", Role: types.RoleEmployee, Rate: 15, OnboardingCompleted: true}
}

func TestClockInAppendsOpenRow(t *testing.T) {
	env := newTestEnv(t)
	svc := NewShiftService(env.repos.Shifts, DefaultClockInFloor, env.opts)

	shift, err := svc.ClockIn(context.Background(), bobSession())
	require.NoError(t, err)
	assert.Equal(t, types.Shift{Username: "bob", Date: "2024-03-04", ClockIn: "09:00:00"}, shift)

	rows := env.backend.Rows("WorkHours")
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"bob", "2024-03-04", "09:00:00", "", "", ""}, rows[1])
	assert.Equal(t, []string{EventShiftClockedIn}, env.events.types())
}

func TestClockInTwiceSameDayRejected(t *testing.T) {
	env := newTestEnv(t)
	svc := NewShiftService(env.repos.Shifts, DefaultClockInFloor, env.opts)
	ctx := context.Background()

	_, err := svc.ClockIn(ctx, bobSession())
	require.NoError(t, err)

	_, err = svc.ClockIn(ctx, bobSession())
	assert.ErrorIs(t, err, ErrAlreadyClockedIn)

	env.clock.Set(at("2024-03-04", "12:00:00"))
	_, err = svc.ClockOut(ctx, bobSession())
	require.NoError(t, err)

	_, err = svc.ClockIn(ctx, bobSession())
	assert.ErrorIs(t, err, ErrAlreadyClockedInToday)
	assert.Len(t, env.backend.Rows("WorkHours"), 2)
}

func TestClockInWhileYesterdaysShiftOpen(t *testing.T) {
	env := newTestEnv(t)
	env.backend.Seed("WorkHours", []string{"Username", "Date", "ClockIn", "ClockOut", "Hours", "Pay"},
		[]string{"bob", "2024-03-03", "08:00:00", "", "", ""},
	)
	svc := NewShiftService(env.repos.Shifts, DefaultClockInFloor, env.opts)

	_, err := svc.ClockIn(context.Background(), bobSession())
	assert.ErrorIs(t, err, ErrAlreadyClockedIn)
}

func TestClockInFloor(t *testing.T) {
	env := newTestEnv(t)
	env.clock.Set(at("2024-03-04", "06:30:00"))
	svc := NewShiftService(env.repos.Shifts, DefaultClockInFloor, env.opts)
	ctx := context.Background()

	shift, err := svc.ClockIn(ctx, bobSession())
	require.NoError(t, err)
	assert.Equal(t, "08:00:00", shift.ClockIn)

	early := types.Session{Username: "erin", Rate: 20, EarlyAccess: true, OnboardingCompleted: true}
	shift, err = svc.ClockIn(ctx, early)
	require.NoError(t, err)
	assert.Equal(t, "06:30:00", shift.ClockIn)
}

func TestClockInAfterFloorKeepsTrueTime(t *testing.T) {
	floor := TimeOfDay{Hour: 8}
	now := time.Date(2024, 3, 4, 8, 0, 1, 0, testZone)
	assert.Equal(t, now, ClockInTime(now, floor, false))

	before := time.Date(2024, 3, 4, 7, 59, 59, 0, testZone)
	assert.Equal(t, time.Date(2024, 3, 4, 8, 0, 0, 0, testZone), ClockInTime(before, floor, false))
}

func TestClockOutComputesHoursAndPay(t *testing.T) {
	env := newTestEnv(t)
	svc := NewShiftService(env.repos.Shifts, DefaultClockInFloor, env.opts)
	ctx := context.Background()

	_, err := svc.ClockIn(ctx, bobSession())
	require.NoError(t, err)

	env.clock.Set(at("2024-03-04", "17:15:00"))
	shift, err := svc.ClockOut(ctx, bobSession())
	require.NoError(t, err)
	assert.Equal(t, "17:15:00", shift.ClockOut)
	assert.Equal(t, 8.25, shift.Hours)
	assert.Equal(t, 123.75, shift.Pay)

	assert.Equal(t, []string{"bob", "2024-03-04", "09:00:00", "17:15:00", "8.25", "123.75"}, env.backend.Rows("WorkHours")[1])
	assert.Equal(t, []string{EventShiftClockedIn, EventShiftClockedOut}, env.events.types())
}

func TestClockOutUsesSessionRate(t *testing.T) {
	env := newTestEnv(t)
	svc := NewShiftService(env.repos.Shifts, DefaultClockInFloor, env.opts)
	ctx := context.Background()

	session := bobSession()
	session.Rate = 10
	_, err := svc.ClockIn(ctx, session)
	require.NoError(t, err)

	env.clock.Set(at("2024-03-04", "10:30:00"))
	shift, err := svc.ClockOut(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, 1.5, shift.Hours)
	assert.Equal(t, 15.0, shift.Pay)
}

func TestClockOutWithoutOpenShift(t *testing.T) {
	env := newTestEnv(t)
	env.backend.Seed("WorkHours", []string{"Username", "Date", "ClockIn", "ClockOut", "Hours", "Pay"},
		[]string{"bob", "2024-03-03", "08:00:00", "16:00:00", "8.00", "120.00"},
	)
	before := env.backend.Rows("WorkHours")
	svc := NewShiftService(env.repos.Shifts, DefaultClockInFloor, env.opts)

	_, err := svc.ClockOut(context.Background(), bobSession())
	assert.ErrorIs(t, err, ErrNoActiveShift)

	_, err = svc.ClockOut(context.Background(), types.Session{Username: "nobody"})
	assert.ErrorIs(t, err, ErrNoActiveShift)

	assert.Equal(t, before, env.backend.Rows("WorkHours"))
	assert.Empty(t, env.events.types())
}

func TestClockOutBeforeClockInYieldsZeroHours(t *testing.T) {
	env := newTestEnv(t)
	env.clock.Set(at("2024-03-04", "07:00:00"))
	svc := NewShiftService(env.repos.Shifts, DefaultClockInFloor, env.opts)
	ctx := context.Background()

	_, err := svc.ClockIn(ctx, bobSession())
	require.NoError(t, err)

	env.clock.Set(at("2024-03-04", "07:30:00"))
	shift, err := svc.ClockOut(ctx, bobSession())
	require.NoError(t, err)
	assert.Equal(t, 0.0, shift.Hours)
	assert.Equal(t, 0.0, shift.Pay)
}

func TestStatusAndHistory(t *testing.T) {
	env := newTestEnv(t)
	env.backend.Seed("WorkHours", []string{"Username", "Date", "ClockIn", "ClockOut", "Hours", "Pay"},
		[]string{"bob", "2024-03-02", "08:00:00", "16:00:00", "8.00", "120.00"},
		[]string{"alice", "2024-03-03", "08:00:00"},
		[]string{"bob", "2024-03-03", "08:00:00"},
	)
	svc := NewShiftService(env.repos.Shifts, DefaultClockInFloor, env.opts)
	ctx := context.Background()

	status, err := svc.Status(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, types.ShiftOpen, status.State)
	require.NotNil(t, status.Current)
	assert.Equal(t, "2024-03-03", status.Current.Date)
	assert.False(t, status.ClockedInToday)

	history, err := svc.History(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "2024-03-03", history[0].Date)
	assert.Equal(t, "2024-03-02", history[1].Date)

	status, err = svc.Status(ctx, "erin")
	require.NoError(t, err)
	assert.Equal(t, types.ShiftClosed, status.State)
	assert.Nil(t, status.Current)
}

func TestPublishFailureDoesNotFailClockIn(t *testing.T) {
	env := newTestEnv(t)
	env.events.err = errBroker
	svc := NewShiftService(env.repos.Shifts, DefaultClockInFloor, env.opts)

	_, err := svc.ClockIn(context.Background(), bobSession())
	require.NoError(t, err)
	assert.Len(t, env.backend.Rows("WorkHours"), 2)
}

func TestElapsedHoursAndPayRounding(t *testing.T) {
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, 0.33, ElapsedHours(start, start.Add(20*time.Minute)))
	assert.Equal(t, 0.0, ElapsedHours(start, start.Add(-time.Hour)))
	assert.Equal(t, 4.95, ComputePay(0.33, 15))
}

func TestParseTimeOfDay(t *testing.T) {
	got, err := ParseTimeOfDay("06:30")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay{Hour: 6, Minute: 30}, got)
	assert.Equal(t, "06:30:00", got.String())

	got, err = ParseTimeOfDay("08:00:15")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay{Hour: 8, Second: 15}, got)

	_, err = ParseTimeOfDay("8am")
	assert.Error(t, err)
}
