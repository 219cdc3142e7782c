package reminder

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pg-management/pg-server/internal/models"
)

const unknownTenant = "(unknown tenant)"

// classified holds unpaid payments bucketed by due date
type classified struct {
	dueToday []*models.Payment
	upcoming []*models.Payment
	hist     histogram
}

// classify buckets unpaid payments: due today, or due within the window.
// Payments without a due date or already overdue are left out.
func (s *Service) classify(payments []*models.Payment, today time.Time) classified {
	c := classified{hist: make(histogram)}
	for _, p := range payments {
		if p == nil || p.Paid || p.DueDate == nil {
			continue
		}
		due := calendarDay(*p.DueDate)
		daysLeft := daysUntil(today, due)
		switch {
		case daysLeft == 0:
			c.dueToday = append(c.dueToday, p)
		case daysLeft > 0 && daysLeft <= s.cfg.UpcomingWindowDays:
			c.upcoming = append(c.upcoming, p)
			c.hist.add(due)
		}
	}

	sort.SliceStable(c.upcoming, func(i, j int) bool {
		return c.upcoming[i].DueDate.Before(*c.upcoming[j].DueDate)
	})
	return c
}

// RunPaymentSweep classifies unpaid payments and sends one digest to every
// admin when anything is due today or upcoming. It returns a single
// PaymentSummary event, or a single Error event when the store fails.
func (s *Service) RunPaymentSweep(ctx context.Context, now time.Time) []models.SweepEvent {
	started := time.Now()
	today := s.today(now)

	payments, err := s.store.ListUnpaidPayments(ctx)
	if err != nil {
		return s.finish(ctx, models.MonitorPayment, started,
			[]models.SweepEvent{errorEvent(models.MonitorPayment, now, nil, wrap("list unpaid payments", err))})
	}

	admins, err := s.store.ListUsersByRole(ctx, models.RoleAdmin)
	if err != nil {
		return s.finish(ctx, models.MonitorPayment, started,
			[]models.SweepEvent{errorEvent(models.MonitorPayment, now, nil, wrap("list admins", err))})
	}

	c := s.classify(payments, today)
	ev := models.SweepEvent{
		Kind:          models.SweepPaymentSummary,
		Monitor:       models.MonitorPayment,
		At:            now,
		DueToday:      len(c.dueToday),
		TotalUpcoming: len(c.upcoming),
	}

	var recipients []string
	for _, a := range admins {
		if a != nil && a.Email != "" {
			recipients = append(recipients, a.Email)
		}
	}
	ev.Recipients = len(recipients)

	if len(recipients) > 0 && (len(c.dueToday) > 0 || len(c.upcoming) > 0) {
		names := s.tenantNames(ctx, c.dueToday, c.upcoming)
		subject, body := paymentDigestMessage(today, s.cfg.UpcomingWindowDays,
			digestLines(c.dueToday, names), digestLines(c.upcoming, names))

		for _, to := range recipients {
			if s.notifier.SendNotification(ctx, to, subject, body) {
				ev.Delivered++
			}
		}
	}

	return s.finish(ctx, models.MonitorPayment, started, []models.SweepEvent{ev})
}

// tenantNames resolves the tenant name of every listed payment. A failed
// lookup leaves a placeholder rather than failing the digest.
func (s *Service) tenantNames(ctx context.Context, groups ...[]*models.Payment) map[uuid.UUID]string {
	names := make(map[uuid.UUID]string)
	for _, group := range groups {
		for _, p := range group {
			if _, ok := names[p.TenantID]; ok {
				continue
			}
			tenant, err := s.store.GetTenant(ctx, p.TenantID)
			if err != nil {
				log.Warn().Err(err).
					Str("tenant_id", p.TenantID.String()).
					Str("payment_id", p.ID.String()).
					Msg("Tenant lookup failed for payment digest")
				names[p.TenantID] = unknownTenant
				continue
			}
			names[p.TenantID] = tenant.Name
		}
	}
	return names
}

func digestLines(payments []*models.Payment, names map[uuid.UUID]string) []digestLine {
	lines := make([]digestLine, 0, len(payments))
	for _, p := range payments {
		lines = append(lines, digestLine{payment: p, tenant: names[p.TenantID]})
	}
	return lines
}

// PaymentSummary counts unpaid payments due today and within the upcoming window
func (s *Service) PaymentSummary(ctx context.Context, now time.Time) (models.PaymentSummary, error) {
	payments, err := s.store.ListUnpaidPayments(ctx)
	if err != nil {
		return models.PaymentSummary{}, wrap("list unpaid payments", err)
	}

	c := s.classify(payments, s.today(now))
	summary := models.PaymentSummary{DueToday: len(c.dueToday)}
	summary.Upcoming, summary.TotalUpcoming = c.hist.buckets()
	return summary, nil
}
