package reminder

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pg-management/pg-server/internal/models"
)

// Run sweeps leases then payments once per interval until ctx is cancelled.
// A failed sweep is reported in its events and the loop carries on.
func (s *Service) Run(ctx context.Context) error {
	log.Info().
		Dur("interval", s.cfg.Interval).
		Int("lease_length_days", s.cfg.LeaseLengthDays).
		Int("reminder_days_before", s.cfg.ReminderDaysBefore).
		Int("upcoming_window_days", s.cfg.UpcomingWindowDays).
		Msg("Reminder service started")

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		s.RunOnce(ctx)

		select {
		case <-ctx.Done():
			log.Info().Msg("Reminder service stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// RunOnce runs the lease sweep then the payment sweep at the current time
func (s *Service) RunOnce(ctx context.Context) (lease, payment []models.SweepEvent) {
	lease = s.TriggerLeaseSweep(ctx)
	payment = s.TriggerPaymentSweep(ctx)
	return lease, payment
}

// TriggerLeaseSweep runs the lease sweep now
func (s *Service) TriggerLeaseSweep(ctx context.Context) []models.SweepEvent {
	return s.RunLeaseSweep(ctx, s.now())
}

// TriggerPaymentSweep runs the payment sweep now
func (s *Service) TriggerPaymentSweep(ctx context.Context) []models.SweepEvent {
	return s.RunPaymentSweep(ctx, s.now())
}
