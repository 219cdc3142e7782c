package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pg-management/pg-server/internal/metrics"
	"github.com/pg-management/pg-server/internal/models"
)

func TestTriggerUsesClock(t *testing.T) {
	store := newFakeStore()
	room := store.addRoom("101", models.RoomOccupied)
	store.addTenant("Ravi", nil, room, daysAgo(31))

	svc := NewService(testConfig(), store, &recordingNotifier{},
		WithClock(func() time.Time { return sweepNow }))

	events := svc.TriggerLeaseSweep(context.Background())
	require.Len(t, events, 1)
	assert.Equal(t, models.SweepRoomFreed, events[0].Kind)
	assert.Equal(t, sweepNow, events[0].At)
}

func TestSinksReceiveEvents(t *testing.T) {
	store := newFakeStore()
	room := store.addRoom("101", models.RoomOccupied)
	store.addTenant("Ravi", nil, room, daysAgo(31))

	good := &recordingSink{}
	failing := &recordingSink{err: errors.New("broker unavailable")}

	svc := NewService(testConfig(), store, &recordingNotifier{},
		WithSinks(failing, good),
		WithMetrics(metrics.NewMetrics(prometheus.NewRegistry())))

	events := svc.RunLeaseSweep(context.Background(), sweepNow)

	require.Len(t, events, 1, "sink errors do not alter the sweep result")
	require.Len(t, good.batches, 1)
	assert.Equal(t, events, good.batches[0])
	assert.Len(t, failing.batches, 1)
}

func TestRunOnce_LeaseThenPayment(t *testing.T) {
	store := newFakeStore()
	store.addUser("admin@pg.com", models.RoleAdmin)
	tenant := store.addTenant("Asha", nil, nil, daysAgo(23))
	store.addPayment(tenant, 100, daysAhead(0), false)

	sink := &recordingSink{}
	svc := NewService(testConfig(), store, &recordingNotifier{},
		WithSinks(sink), WithClock(func() time.Time { return sweepNow }))

	lease, payment := svc.RunOnce(context.Background())

	require.Len(t, lease, 1)
	assert.Equal(t, models.MonitorLease, lease[0].Monitor)
	require.Len(t, payment, 1)
	assert.Equal(t, models.MonitorPayment, payment[0].Monitor)
	require.Len(t, sink.batches, 2)
	assert.Equal(t, models.MonitorLease, sink.batches[0][0].Monitor)
}

func TestRun_StopsOnCancel(t *testing.T) {
	store := newFakeStore()
	store.listTenantsErr = errStoreDown

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sweeps := 0
	sink := &recordingSink{onPub: func() {
		sweeps++
		if sweeps == 4 {
			cancel()
		}
	}}

	cfg := testConfig()
	cfg.Interval = 5 * time.Millisecond
	svc := NewService(cfg, store, &recordingNotifier{}, WithSinks(sink))

	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	assert.GreaterOrEqual(t, sweeps, 4, "a failing iteration does not stop the loop")
}

func TestCalendarMath(t *testing.T) {
	late := time.Date(2024, time.March, 10, 23, 59, 0, 0, time.UTC)
	early := time.Date(2024, time.March, 11, 0, 1, 0, 0, time.UTC)

	assert.Equal(t, 1, daysUntil(calendarDay(late), calendarDay(early)))
	assert.Equal(t, -1, daysUntil(calendarDay(early), calendarDay(late)))
	assert.Equal(t, 0, daysUntil(calendarDay(late), calendarDay(late.Add(-23*time.Hour))))
}

func TestTodayUsesConfiguredZone(t *testing.T) {
	svc := NewService(testConfig(), newFakeStore(), &recordingNotifier{})
	svc.loc = time.FixedZone("IST", 5*3600+1800)

	now := time.Date(2024, time.March, 10, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-11", svc.today(now).Format(models.DateLayout))
}
