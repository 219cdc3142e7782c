package reminder

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pg-management/pg-server/internal/models"
	"github.com/pg-management/pg-server/internal/storage"
)

// Reasons recorded on reminders that were not sent
const (
	ReasonNoLinkedUser  = "tenant has no linked user"
	ReasonUserNotFound  = "linked user not found"
	ReasonNoEmail       = "linked user has no email"
	ReasonDeliveryFault = "delivery failed"
)

// lease is a tenant with a derived lease end date
type lease struct {
	tenant   *models.Tenant
	end      time.Time
	daysLeft int
}

// leases derives the lease end of every tenant with a join date
func (s *Service) leases(tenants []*models.Tenant, today time.Time) []lease {
	out := make([]lease, 0, len(tenants))
	for _, t := range tenants {
		if t == nil || t.JoinDate == nil {
			continue
		}
		end := calendarDay(*t.JoinDate).AddDate(0, 0, s.cfg.LeaseLengthDays)
		out = append(out, lease{tenant: t, end: end, daysLeft: daysUntil(today, end)})
	}
	return out
}

// RunLeaseSweep scans every tenant once: it sends a reminder on the day the
// lease has exactly ReminderDaysBefore days left and frees the room of every
// lapsed lease. Failures become Error events; listing tenants failing aborts
// the sweep with a single Error event.
func (s *Service) RunLeaseSweep(ctx context.Context, now time.Time) []models.SweepEvent {
	started := time.Now()
	today := s.today(now)

	tenants, err := s.store.ListTenants(ctx)
	if err != nil {
		return s.finish(ctx, models.MonitorLease, started,
			[]models.SweepEvent{errorEvent(models.MonitorLease, now, nil, wrap("list tenants", err))})
	}

	leases := s.leases(tenants, today)

	// A room is still held while any tenant on it has an unexpired lease
	held := make(map[uuid.UUID]bool)
	for _, l := range leases {
		if l.daysLeft >= 0 && l.tenant.RoomID != nil {
			held[*l.tenant.RoomID] = true
		}
	}

	var events []models.SweepEvent
	for _, l := range leases {
		if ctx.Err() != nil {
			events = append(events, errorEvent(models.MonitorLease, now, nil, wrap("lease sweep interrupted", ctx.Err())))
			break
		}

		if l.daysLeft == s.cfg.ReminderDaysBefore {
			events = append(events, s.remind(ctx, now, l))
		}

		if l.daysLeft < 0 {
			if ev, ok := s.freeRoom(ctx, now, l, held); ok {
				events = append(events, ev)
			}
		}
	}

	return s.finish(ctx, models.MonitorLease, started, events)
}

// remind notifies the tenant's linked user of the upcoming lease end
func (s *Service) remind(ctx context.Context, now time.Time, l lease) models.SweepEvent {
	tenantID := idPtr(l.tenant.ID)
	end := l.end
	ev := models.SweepEvent{
		Kind:     models.SweepReminder,
		Monitor:  models.MonitorLease,
		At:       now,
		TenantID: tenantID,
		RoomID:   l.tenant.RoomID,
		LeaseEnd: &end,
	}

	if l.tenant.UserID == nil {
		ev.Reason = ReasonNoLinkedUser
		return ev
	}

	user, err := s.store.GetUser(ctx, *l.tenant.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		ev.Reason = ReasonUserNotFound
		return ev
	}
	if err != nil {
		return errorEvent(models.MonitorLease, now, tenantID, wrap("get user", err))
	}

	ev.Email = user.Email
	if user.Email == "" {
		ev.Reason = ReasonNoEmail
		return ev
	}

	subject, body := leaseReminderMessage(l.tenant, l.end, l.daysLeft)
	ev.Sent = s.notifier.SendNotification(ctx, user.Email, subject, body)
	if !ev.Sent {
		ev.Reason = ReasonDeliveryFault
	}

	return ev
}

// freeRoom sets the room of a lapsed lease back to Available. ok is false
// when nothing was done: no room, room already Available, or held by
// another tenant.
func (s *Service) freeRoom(ctx context.Context, now time.Time, l lease, held map[uuid.UUID]bool) (models.SweepEvent, bool) {
	if l.tenant.RoomID == nil {
		return models.SweepEvent{}, false
	}
	roomID := *l.tenant.RoomID
	tenantID := idPtr(l.tenant.ID)

	if held[roomID] {
		log.Debug().
			Str("tenant_id", l.tenant.ID.String()).
			Str("room_id", roomID.String()).
			Msg("Lease lapsed but room is held by another tenant")
		return models.SweepEvent{}, false
	}

	room, err := s.store.GetRoom(ctx, roomID)
	if errors.Is(err, storage.ErrNotFound) {
		log.Warn().
			Str("tenant_id", l.tenant.ID.String()).
			Str("room_id", roomID.String()).
			Msg("Lease lapsed but room no longer exists")
		return models.SweepEvent{}, false
	}
	if err != nil {
		return errorEvent(models.MonitorLease, now, tenantID, wrap("get room", err)), true
	}

	if room.Status == models.RoomAvailable {
		return models.SweepEvent{}, false
	}

	if err := s.store.SetRoomStatus(ctx, roomID, models.RoomAvailable); err != nil {
		return errorEvent(models.MonitorLease, now, tenantID, wrap("free room", err)), true
	}

	return models.SweepEvent{
		Kind:     models.SweepRoomFreed,
		Monitor:  models.MonitorLease,
		At:       now,
		TenantID: tenantID,
		RoomID:   idPtr(roomID),
	}, true
}

// LeaseSummary counts leases ending today and within the upcoming window
func (s *Service) LeaseSummary(ctx context.Context, now time.Time) (models.LeaseSummary, error) {
	tenants, err := s.store.ListTenants(ctx)
	if err != nil {
		return models.LeaseSummary{}, wrap("list tenants", err)
	}

	var summary models.LeaseSummary
	hist := make(histogram)
	for _, l := range s.leases(tenants, s.today(now)) {
		switch {
		case l.daysLeft == 0:
			summary.LeavingToday++
		case l.daysLeft > 0 && l.daysLeft <= s.cfg.UpcomingWindowDays:
			hist.add(l.end)
		}
	}

	summary.Upcoming, summary.TotalUpcoming = hist.buckets()
	return summary, nil
}
