package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pg-management/pg-server/internal/models"
)

type stubSweeper struct {
	lease, payment int
}

func (s *stubSweeper) TriggerLeaseSweep(ctx context.Context) []models.SweepEvent {
	s.lease++
	return []models.SweepEvent{{Kind: models.SweepRoomFreed, Monitor: models.MonitorLease}}
}

func (s *stubSweeper) TriggerPaymentSweep(ctx context.Context) []models.SweepEvent {
	s.payment++
	return []models.SweepEvent{{Kind: models.SweepPaymentSummary, Monitor: models.MonitorPayment}}
}

func TestTriggerRoutesBySubject(t *testing.T) {
	sweeper := &stubSweeper{}
	sub := NewNATSSubscriber(nil, sweeper, "pg.reminders")

	reply := sub.trigger(context.Background(), "pg.reminders.trigger.lease")
	require.Len(t, reply.Events, 1)
	assert.Equal(t, "lease", reply.Monitor)
	assert.Equal(t, 1, sweeper.lease)

	reply = sub.trigger(context.Background(), "pg.reminders.trigger.payments")
	require.Len(t, reply.Events, 1)
	assert.Equal(t, models.SweepPaymentSummary, reply.Events[0].Kind)
	assert.Equal(t, 1, sweeper.payment)
}

func TestTriggerUnknownMonitor(t *testing.T) {
	sweeper := &stubSweeper{}
	reply := NewNATSSubscriber(nil, sweeper, "pg.reminders").trigger(context.Background(), "pg.reminders.trigger.rooms")

	assert.Contains(t, reply.Error, "rooms")
	assert.Empty(t, reply.Events)
	assert.Zero(t, sweeper.lease+sweeper.payment)
}
