// Package reminder implements the lease expiry and payment due monitors and
// the periodic driver that runs them.
package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pg-management/pg-server/internal/config"
	"github.com/pg-management/pg-server/internal/metrics"
	"github.com/pg-management/pg-server/internal/models"
)

// TenantStore is the tenant side of the store used by the lease monitor
type TenantStore interface {
	ListTenants(ctx context.Context) ([]*models.Tenant, error)
	GetRoom(ctx context.Context, id uuid.UUID) (*models.Room, error)
	SetRoomStatus(ctx context.Context, id uuid.UUID, status models.RoomStatus) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// PaymentStore is the payment side of the store used by the payment monitor
type PaymentStore interface {
	ListUnpaidPayments(ctx context.Context) ([]*models.Payment, error)
	GetTenant(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
}

// UserStore lists digest recipients
type UserStore interface {
	ListUsersByRole(ctx context.Context, role models.Role) ([]*models.User, error)
}

// Store is everything the monitors read and write. storage.Store satisfies it.
type Store interface {
	TenantStore
	PaymentStore
	UserStore
}

// Notifier delivers one email and reports whether it was sent
type Notifier interface {
	SendNotification(ctx context.Context, to, subject, body string) bool
}

// Sink receives the events of every completed sweep
type Sink interface {
	Name() string
	Publish(ctx context.Context, events []models.SweepEvent) error
}

// Service runs the monitors over a fixed configuration snapshot
type Service struct {
	cfg      config.ReminderConfig
	loc      *time.Location
	store    Store
	notifier Notifier
	sinks    []Sink
	metrics  *metrics.Metrics
	now      func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithSinks adds sweep event sinks
func WithSinks(sinks ...Sink) Option {
	return func(s *Service) {
		s.sinks = append(s.sinks, sinks...)
	}
}

// WithMetrics records sweep metrics
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock replaces the wall clock used by Run and the Trigger methods
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates the reminder service. cfg is copied.
func NewService(cfg config.ReminderConfig, store Store, notifier Notifier, opts ...Option) *Service {
	s := &Service{
		cfg:      cfg,
		loc:      cfg.Location(),
		store:    store,
		notifier: notifier,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns the configuration snapshot
func (s *Service) Config() config.ReminderConfig {
	return s.cfg
}

// today returns the calendar day of now in the configured location
func (s *Service) today(now time.Time) time.Time {
	return calendarDay(now.In(s.loc))
}

// finish records metrics, logs and fans the events out to the sinks.
// Sink failures are logged and do not change the result.
func (s *Service) finish(ctx context.Context, monitor models.Monitor, started time.Time, events []models.SweepEvent) []models.SweepEvent {
	s.metrics.RecordSweep(monitor, time.Since(started), events)

	for _, ev := range events {
		logEvent(ev)
	}

	for _, sink := range s.sinks {
		if err := sink.Publish(ctx, events); err != nil {
			log.Error().Err(err).
				Str("sink", sink.Name()).
				Str("monitor", string(monitor)).
				Msg("Failed to publish sweep events")
		}
	}

	log.Info().
		Str("monitor", string(monitor)).
		Int("events", len(events)).
		Dur("took", time.Since(started)).
		Msg("Sweep finished")

	return events
}

func errorEvent(monitor models.Monitor, at time.Time, tenantID *uuid.UUID, err error) models.SweepEvent {
	return models.SweepEvent{
		Kind:     models.SweepError,
		Monitor:  monitor,
		At:       at,
		TenantID: tenantID,
		Error:    err.Error(),
	}
}

func logEvent(ev models.SweepEvent) {
	var entry *zerolog.Event
	switch {
	case ev.IsError():
		entry = log.Error().Str("error", ev.Error)
	case ev.Kind == models.SweepReminder && !ev.Sent:
		entry = log.Warn().Str("reason", ev.Reason)
	default:
		entry = log.Info()
	}

	if ev.TenantID != nil {
		entry = entry.Str("tenant_id", ev.TenantID.String())
	}
	if ev.RoomID != nil {
		entry = entry.Str("room_id", ev.RoomID.String())
	}

	switch ev.Kind {
	case models.SweepReminder:
		entry.Str("email", ev.Email).Bool("sent", ev.Sent).Msg("Lease reminder")
	case models.SweepRoomFreed:
		entry.Msg("Room freed")
	case models.SweepPaymentSummary:
		entry.Int("due_today", ev.DueToday).
			Int("total_upcoming", ev.TotalUpcoming).
			Int("recipients", ev.Recipients).
			Int("delivered", ev.Delivered).
			Msg("Payment digest")
	default:
		entry.Str("monitor", string(ev.Monitor)).Msg("Sweep error")
	}
}

func idPtr(id uuid.UUID) *uuid.UUID {
	return &id
}

func wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
