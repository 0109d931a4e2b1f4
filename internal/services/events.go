package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/crewclock/apiserver/internal/mq"
)

// Event channels.
const (
	EventShiftClockedIn       = "shift.clocked_in"
	EventShiftClockedOut      = "shift.clocked_out"
	EventOnboardingCompleted  = "onboarding.completed"
	EventPayrollReportCreated = "payroll.report_created"
)

// Event is the JSON envelope published for domain changes.
type Event struct {
	Type       string    `json:"type"`
	Username   string    `json:"username,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data,omitempty"`
}

// EventPublisher delivers domain events.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// NewEventPublisher publishes through m, or discards events when m is nil.
func NewEventPublisher(m *mq.MQ) EventPublisher {
	if m == nil {
		return discardPublisher{}
	}
	return &mqPublisher{mq: m}
}

type mqPublisher struct {
	mq *mq.MQ
}

func (p *mqPublisher) Publish(ctx context.Context, event Event) error {
	attrs := map[string]string{"type": event.Type}
	if event.Username != "" {
		attrs["username"] = event.Username
	}
	_, err := p.mq.PublishJSON(ctx, event.Type, event, attrs)
	return err
}

type discardPublisher struct{}

func (discardPublisher) Publish(context.Context, Event) error { return nil }

// publishEvent never fails the caller; a lost event is only logged.
func publishEvent(ctx context.Context, publisher EventPublisher, logger *slog.Logger, event Event) {
	if err := publisher.Publish(ctx, event); err != nil {
		logger.WarnContext(ctx, "publish event failed",
			"event", event.Type,
			"username", event.Username,
			"error", err,
		)
	}
}
