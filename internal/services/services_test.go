package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/crewclock/apiserver/config"
	"github.com/crewclock/apiserver/internal/sheets"
	"github.com/crewclock/apiserver/internal/store"
	"github.com/stretchr/testify/require"
)

var testZone = time.FixedZone("BST", 60*60)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, event := range p.events {
		out = append(out, event.Type)
	}
	return out
}

type testEnv struct {
	backend *sheets.MemoryBackend
	repos   *store.Repositories
	clock   *fakeClock
	events  *recordingPublisher
	opts    Options
}

func at(day, clock string) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04:05", day+" "+clock, testZone)
	if err != nil {
		panic(err)
	}
	return t
}

func onboardingHeader() []string {
	header := []string{"Username"}
	for _, field := range onboardingFields {
		header = append(header, field.Column)
	}
	return append(header, ColumnSignatureTimestamp, ColumnSubmittedAt)
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	backend := sheets.NewMemoryBackend()
	backend.Seed("Employees",
		store.EmployeeColumns,
		[]string{"alice", "pw-alice", "15", "admin", "FALSE", "TRUE"},
		[]string{"bob", "pw-bob", "15", "employee", "FALSE", "FALSE"},
		[]string{"erin", "pw-erin", "20", "employee", "TRUE", "TRUE"},
	)
	backend.Seed("WorkHours", store.ShiftColumns)
	backend.Seed("PayrollReports", store.PayrollColumns)
	backend.Seed("Onboarding", onboardingHeader())

	repos, err := store.Open(context.Background(), backend, config.SheetsConfig{
		EmployeesTable:      "Employees",
		WorkHoursTable:      "WorkHours",
		PayrollReportsTable: "PayrollReports",
		OnboardingTable:     "Onboarding",
	})
	require.NoError(t, err)

	clock := &fakeClock{now: at("2024-03-04", "09:00:00")}
	events := &recordingPublisher{}
	return &testEnv{
		backend: backend,
		repos:   repos,
		clock:   clock,
		events:  events,
		opts: Options{
			Location: testZone,
			Now:      clock.Now,
			Events:   events,
			Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		},
	}
}

var errBroker = errors.New("broker unavailable")
