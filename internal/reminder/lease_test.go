package reminder

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pg-management/pg-server/internal/models"
)

func TestLeaseSweep_ReminderOnThresholdDay(t *testing.T) {
	store := newFakeStore()
	user := store.addUser("asha@example.com", models.RoleTenant)
	room := store.addRoom("101", models.RoomOccupied)
	tenant := store.addTenant("Asha", user, room, daysAgo(23))

	notifier := &recordingNotifier{}
	svc := NewService(testConfig(), store, notifier)

	events := svc.RunLeaseSweep(context.Background(), sweepNow)

	require.Len(t, events, 1)
	ev := events[0]
	assert.Equal(t, models.SweepReminder, ev.Kind)
	assert.Equal(t, tenant.ID, *ev.TenantID)
	assert.Equal(t, "asha@example.com", ev.Email)
	assert.True(t, ev.Sent)
	assert.Equal(t, "2024-03-17", ev.LeaseEnd.Format(models.DateLayout))
	assert.Empty(t, eventsOfKind(events, models.SweepRoomFreed))

	require.Equal(t, 1, notifier.count())
	assert.Equal(t, "asha@example.com", notifier.sent[0].to)
	assert.Contains(t, notifier.sent[0].body, "2024-03-17")
	assert.Contains(t, notifier.sent[0].body, "7 days")
	assert.Equal(t, models.RoomOccupied, store.roomStatus(room.ID))
}

func TestLeaseSweep_ReminderFiresOncePerLease(t *testing.T) {
	store := newFakeStore()
	user := store.addUser("asha@example.com", models.RoleTenant)
	room := store.addRoom("101", models.RoomOccupied)
	store.addTenant("Asha", user, room, daysAgo(0))

	notifier := &recordingNotifier{}
	svc := NewService(testConfig(), store, notifier)

	reminders := 0
	for day := 0; day <= 40; day++ {
		events := svc.RunLeaseSweep(context.Background(), sweepNow.AddDate(0, 0, day))
		reminders += len(eventsOfKind(events, models.SweepReminder))
	}

	assert.Equal(t, 1, reminders)
	assert.Equal(t, 1, notifier.count())
}

func TestLeaseSweep_FreesLapsedRoomIdempotently(t *testing.T) {
	store := newFakeStore()
	user := store.addUser("ravi@example.com", models.RoleTenant)
	room := store.addRoom("102", models.RoomOccupied)
	tenant := store.addTenant("Ravi", user, room, daysAgo(31))

	svc := NewService(testConfig(), store, &recordingNotifier{})

	first := svc.RunLeaseSweep(context.Background(), sweepNow)
	require.Len(t, first, 1)
	assert.Equal(t, models.SweepRoomFreed, first[0].Kind)
	assert.Equal(t, tenant.ID, *first[0].TenantID)
	assert.Equal(t, room.ID, *first[0].RoomID)
	assert.Equal(t, models.RoomAvailable, store.roomStatus(room.ID))
	assert.Empty(t, eventsOfKind(first, models.SweepReminder))

	second := svc.RunLeaseSweep(context.Background(), sweepNow)
	assert.Empty(t, second)
	assert.Equal(t, 1, store.statusUpdates)
}

func TestLeaseSweep_LeaseEndingTodayIsNotLapsed(t *testing.T) {
	store := newFakeStore()
	room := store.addRoom("103", models.RoomOccupied)
	store.addTenant("Meera", nil, room, daysAgo(30))

	svc := NewService(testConfig(), store, &recordingNotifier{})

	assert.Empty(t, svc.RunLeaseSweep(context.Background(), sweepNow))
	assert.Equal(t, models.RoomOccupied, store.roomStatus(room.ID))
}

func TestLeaseSweep_RoomHeldByReplacement(t *testing.T) {
	store := newFakeStore()
	room := store.addRoom("104", models.RoomOccupied)
	store.addTenant("Old", nil, room, daysAgo(45))
	store.addTenant("New", nil, room, daysAgo(5))

	svc := NewService(testConfig(), store, &recordingNotifier{})

	events := svc.RunLeaseSweep(context.Background(), sweepNow)

	assert.Empty(t, eventsOfKind(events, models.SweepRoomFreed))
	assert.Equal(t, models.RoomOccupied, store.roomStatus(room.ID))
}

func TestLeaseSweep_UnsentReminders(t *testing.T) {
	store := newFakeStore()
	noEmail := store.addUser("", models.RoleTenant)
	ghost := store.addUser("ghost@example.com", models.RoleTenant)
	delete(store.users, ghost.ID)

	store.addTenant("NoUser", nil, nil, daysAgo(23))
	store.addTenant("NoEmail", noEmail, nil, daysAgo(23))
	store.addTenant("Ghost", ghost, nil, daysAgo(23))

	notifier := &recordingNotifier{}
	svc := NewService(testConfig(), store, notifier)

	events := svc.RunLeaseSweep(context.Background(), sweepNow)
	require.Len(t, events, 3)

	reasons := map[string]bool{}
	for _, ev := range events {
		assert.Equal(t, models.SweepReminder, ev.Kind)
		assert.False(t, ev.Sent)
		reasons[ev.Reason] = true
	}
	assert.True(t, reasons[ReasonNoLinkedUser])
	assert.True(t, reasons[ReasonNoEmail])
	assert.True(t, reasons[ReasonUserNotFound])
	assert.Zero(t, notifier.count())
}

func TestLeaseSweep_DeliveryFailureIsNotFatal(t *testing.T) {
	store := newFakeStore()
	a := store.addUser("a@example.com", models.RoleTenant)
	b := store.addUser("b@example.com", models.RoleTenant)
	store.addTenant("A", a, nil, daysAgo(23))
	store.addTenant("B", b, nil, daysAgo(23))

	svc := NewService(testConfig(), store, &recordingNotifier{fail: true})

	events := svc.RunLeaseSweep(context.Background(), sweepNow)
	require.Len(t, events, 2)
	for _, ev := range events {
		assert.False(t, ev.Sent)
		assert.Equal(t, ReasonDeliveryFault, ev.Reason)
	}
}

func TestLeaseSweep_ListFailureAborts(t *testing.T) {
	store := newFakeStore()
	store.listTenantsErr = errStoreDown

	svc := NewService(testConfig(), store, &recordingNotifier{})

	events := svc.RunLeaseSweep(context.Background(), sweepNow)
	require.Len(t, events, 1)
	assert.True(t, events[0].IsError())
	assert.Nil(t, events[0].TenantID)
	assert.Contains(t, events[0].Error, "connection refused")
}

func TestLeaseSweep_PerTenantErrorIsIsolated(t *testing.T) {
	store := newFakeStore()
	broken := store.addRoom("201", models.RoomOccupied)
	healthy := store.addRoom("202", models.RoomOccupied)
	bad := store.addTenant("Bad", nil, broken, daysAgo(40))
	store.addTenant("Good", nil, healthy, daysAgo(40))
	store.getRoomErr[broken.ID] = errors.New("timeout")

	svc := NewService(testConfig(), store, &recordingNotifier{})

	events := svc.RunLeaseSweep(context.Background(), sweepNow)
	require.Len(t, events, 2)

	errs := eventsOfKind(events, models.SweepError)
	require.Len(t, errs, 1)
	assert.Equal(t, bad.ID, *errs[0].TenantID)

	freed := eventsOfKind(events, models.SweepRoomFreed)
	require.Len(t, freed, 1)
	assert.Equal(t, healthy.ID, *freed[0].RoomID)
	assert.Equal(t, models.RoomAvailable, store.roomStatus(healthy.ID))
}

func TestLeaseSweep_SkipsTenantsWithoutJoinDate(t *testing.T) {
	store := newFakeStore()
	room := store.addRoom("301", models.RoomOccupied)
	store.addTenant("Pending", nil, room, nil)

	svc := NewService(testConfig(), store, &recordingNotifier{})

	assert.Empty(t, svc.RunLeaseSweep(context.Background(), sweepNow))
}

func TestLeaseSummary(t *testing.T) {
	store := newFakeStore()
	store.addTenant("Today", nil, nil, daysAgo(30))    // leaving today
	store.addTenant("Soon1", nil, nil, daysAgo(25))    // 5 days left
	store.addTenant("Soon2", nil, nil, daysAgo(25))    // 5 days left
	store.addTenant("Edge", nil, nil, daysAhead(0))    // 30 days left, inside window
	store.addTenant("Beyond", nil, nil, daysAhead(1))  // 31 days left
	store.addTenant("Lapsed", nil, nil, daysAgo(35))   // already gone
	store.addTenant("Tomorrow", nil, nil, daysAgo(29)) // 1 day left

	svc := NewService(testConfig(), store, &recordingNotifier{})

	summary, err := svc.LeaseSummary(context.Background(), sweepNow)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.LeavingToday)
	assert.Equal(t, 4, summary.TotalUpcoming)
	assert.Equal(t, []models.DateCount{
		{Date: "2024-03-11", Count: 1},
		{Date: "2024-03-15", Count: 2},
		{Date: "2024-04-09", Count: 1},
	}, summary.Upcoming)
}

func TestLeaseSummary_StoreFailure(t *testing.T) {
	store := newFakeStore()
	store.listTenantsErr = errStoreDown

	_, err := NewService(testConfig(), store, &recordingNotifier{}).LeaseSummary(context.Background(), sweepNow)
	assert.ErrorIs(t, err, errStoreDown)
}
