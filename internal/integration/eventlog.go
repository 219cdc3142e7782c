package integration

import (
	"context"
	"errors"
	"fmt"

	"github.com/pg-management/pg-server/internal/models"
)

// EventLogWriter persists event log entries. storage.Store satisfies it.
type EventLogWriter interface {
	CreateEventLog(ctx context.Context, event *models.EventLog) error
}

// EventLogSink writes every sweep event to the event log table
type EventLogSink struct {
	store EventLogWriter
}

// NewEventLogSink creates an event log sink
func NewEventLogSink(store EventLogWriter) *EventLogSink {
	return &EventLogSink{store: store}
}

// Name implements reminder.Sink
func (s *EventLogSink) Name() string {
	return "event_log"
}

// Publish stores each event, continuing past failures
func (s *EventLogSink) Publish(ctx context.Context, events []models.SweepEvent) error {
	var errs []error
	for _, ev := range events {
		if err := s.store.CreateEventLog(ctx, ev.EventLog()); err != nil {
			errs = append(errs, fmt.Errorf("store %s event: %w", ev.Kind, err))
		}
	}
	return errors.Join(errs...)
}
