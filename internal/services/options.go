package services

import (
	"fmt"
	"log/slog"
	"time"
)

// Options carries the collaborators shared by the services.
type Options struct {
	// Location is the store-local zone for dates and clock times.
	Location *time.Location

	// Now returns the current time; tests replace it.
	Now func() time.Time

	Events EventPublisher
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Events == nil {
		o.Events = discardPublisher{}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

func (o Options) now() time.Time {
	return o.Now().In(o.Location)
}

// TimeOfDay is a wall-clock time without a date.
type TimeOfDay struct {
	Hour, Minute, Second int
}

// ParseTimeOfDay parses HH:MM:SS or HH:MM.
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, value); err == nil {
			return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}, nil
		}
	}
	return TimeOfDay{}, fmt.Errorf("invalid time of day %q", value)
}

// On returns the time of day on the calendar day of t, in t's location.
func (d TimeOfDay) On(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, d.Hour, d.Minute, d.Second, 0, t.Location())
}

func (d TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", d.Hour, d.Minute, d.Second)
}
