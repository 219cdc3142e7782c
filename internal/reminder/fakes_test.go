package reminder

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pg-management/pg-server/internal/config"
	"github.com/pg-management/pg-server/internal/models"
	"github.com/pg-management/pg-server/internal/storage"
)

var errStoreDown = errors.New("connection refused")

type fakeStore struct {
	mu       sync.Mutex
	tenants  []*models.Tenant
	rooms    map[uuid.UUID]*models.Room
	users    map[uuid.UUID]*models.User
	payments []*models.Payment

	listTenantsErr  error
	listPaymentsErr error
	listUsersErr    error
	getRoomErr      map[uuid.UUID]error
	statusUpdates   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		rooms:      make(map[uuid.UUID]*models.Room),
		users:      make(map[uuid.UUID]*models.User),
		getRoomErr: make(map[uuid.UUID]error),
	}
}

func (f *fakeStore) ListTenants(ctx context.Context) ([]*models.Tenant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listTenantsErr != nil {
		return nil, f.listTenantsErr
	}
	return append([]*models.Tenant(nil), f.tenants...), nil
}

func (f *fakeStore) GetRoom(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.getRoomErr[id]; err != nil {
		return nil, err
	}
	room, ok := f.rooms[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *room
	return &cp, nil
}

func (f *fakeStore) SetRoomStatus(ctx context.Context, id uuid.UUID, status models.RoomStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.rooms[id]
	if !ok {
		return storage.ErrNotFound
	}
	room.Status = status
	f.statusUpdates++
	return nil
}

func (f *fakeStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return user, nil
}

func (f *fakeStore) ListUnpaidPayments(ctx context.Context) ([]*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listPaymentsErr != nil {
		return nil, f.listPaymentsErr
	}
	var out []*models.Payment
	for _, p := range f.payments {
		if !p.Paid {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) GetTenant(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tenants {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) ListUsersByRole(ctx context.Context, role models.Role) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listUsersErr != nil {
		return nil, f.listUsersErr
	}
	var out []*models.User
	for _, u := range f.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeStore) addUser(email string, role models.Role) *models.User {
	u := &models.User{Email: email, Role: role}
	u.ID = uuid.New()
	f.users[u.ID] = u
	return u
}

func (f *fakeStore) addRoom(no string, status models.RoomStatus) *models.Room {
	r := &models.Room{RoomNo: no, Rent: 5000, Status: status}
	r.ID = uuid.New()
	f.rooms[r.ID] = r
	return r
}

func (f *fakeStore) addTenant(name string, user *models.User, room *models.Room, joined *time.Time) *models.Tenant {
	t := &models.Tenant{Name: name, JoinDate: joined}
	t.ID = uuid.New()
	if user != nil {
		t.UserID = &user.ID
	}
	if room != nil {
		t.RoomID = &room.ID
	}
	f.tenants = append(f.tenants, t)
	return t
}

func (f *fakeStore) addPayment(tenant *models.Tenant, amount int, due *time.Time, paid bool) *models.Payment {
	p := &models.Payment{TenantID: tenant.ID, Month: "March", Amount: amount, Paid: paid, DueDate: due}
	p.ID = uuid.New()
	f.payments = append(f.payments, p)
	return p
}

func (f *fakeStore) roomStatus(id uuid.UUID) models.RoomStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rooms[id].Status
}

type sentMail struct {
	to, subject, body string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentMail
	fail bool
}

func (n *recordingNotifier) SendNotification(ctx context.Context, to, subject, body string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return false
	}
	n.sent = append(n.sent, sentMail{to: to, subject: subject, body: body})
	return true
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

type recordingSink struct {
	mu      sync.Mutex
	batches [][]models.SweepEvent
	err     error
	onPub   func()
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) Publish(ctx context.Context, events []models.SweepEvent) error {
	s.mu.Lock()
	s.batches = append(s.batches, events)
	s.mu.Unlock()
	if s.onPub != nil {
		s.onPub()
	}
	return s.err
}

func testConfig() config.ReminderConfig {
	return config.ReminderConfig{
		Enabled:            true,
		LeaseLengthDays:    30,
		ReminderDaysBefore: 7,
		UpcomingWindowDays: 30,
		Interval:           24 * time.Hour,
	}
}

// fixed sweep time, mid-morning so calendar math is exercised
var sweepNow = time.Date(2024, time.March, 10, 9, 30, 0, 0, time.UTC)

func daysAgo(n int) *time.Time {
	d := calendarDay(sweepNow).AddDate(0, 0, -n)
	return &d
}

func daysAhead(n int) *time.Time {
	d := calendarDay(sweepNow).AddDate(0, 0, n)
	return &d
}

func eventsOfKind(events []models.SweepEvent, kind models.SweepEventKind) []models.SweepEvent {
	var out []models.SweepEvent
	for _, ev := range events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}
