package api

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pg-management/pg-server/internal/models"
	"github.com/pg-management/pg-server/internal/storage"
)

// memStore is an in-memory storage.Store. Transactions share the same maps.
type memStore struct {
	storage.Store

	mu         sync.Mutex
	users      map[uuid.UUID]*models.User
	rooms      map[uuid.UUID]*models.Room
	tenants    map[uuid.UUID]*models.Tenant
	payments   map[uuid.UUID]*models.Payment
	complaints map[uuid.UUID]*models.Complaint
	events     []*models.EventLog

	commits   int
	rollbacks int
}

func newMemStore() *memStore {
	return &memStore{
		users:      map[uuid.UUID]*models.User{},
		rooms:      map[uuid.UUID]*models.Room{},
		tenants:    map[uuid.UUID]*models.Tenant{},
		payments:   map[uuid.UUID]*models.Payment{},
		complaints: map[uuid.UUID]*models.Complaint{},
	}
}

func (m *memStore) BeginTx(ctx context.Context) (storage.Store, error) { return m, nil }

func (m *memStore) Commit() error {
	m.commits++
	return nil
}

func (m *memStore) Rollback() error {
	m.rollbacks++
	return nil
}

func (m *memStore) CreateUser(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.Email = models.NormalizeEmail(u.Email)
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return storage.ErrDuplicateKey
		}
	}
	u.ID = uuid.New()
	m.users[u.ID] = u
	return nil
}

func (m *memStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, storage.ErrNotFound
}

func (m *memStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = models.NormalizeEmail(email)
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memStore) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.User
	for _, u := range m.users {
		out = append(out, u)
	}
	total := int64(len(out))
	if offset >= len(out) {
		return []*models.User{}, total, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (m *memStore) CreateRoom(ctx context.Context, r *models.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.rooms {
		if existing.RoomNo == r.RoomNo {
			return storage.ErrDuplicateKey
		}
	}
	r.ID = uuid.New()
	if r.Status == "" {
		r.Status = models.RoomAvailable
	}
	m.rooms[r.ID] = r
	return nil
}

func (m *memStore) GetRoom(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rooms[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, storage.ErrNotFound
}

func (m *memStore) ListRooms(ctx context.Context, status *models.RoomStatus) ([]*models.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Room{}
	for _, r := range m.rooms {
		if status == nil || r.Status == *status {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoomNo < out[j].RoomNo })
	return out, nil
}

func (m *memStore) SetRoomStatus(ctx context.Context, id uuid.UUID, status models.RoomStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[id]
	if !ok {
		return storage.ErrNotFound
	}
	r.Status = status
	return nil
}

func (m *memStore) OccupyRoom(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[id]
	if !ok {
		return storage.ErrNotFound
	}
	if r.Status != models.RoomAvailable {
		return storage.ErrRoomUnavailable
	}
	r.Status = models.RoomOccupied
	return nil
}

func (m *memStore) CreateTenant(ctx context.Context, t *models.Tenant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = uuid.New()
	m.tenants[t.ID] = t
	return nil
}

func (m *memStore) GetTenant(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tenants[id]; ok {
		return t, nil
	}
	return nil, storage.ErrNotFound
}

func (m *memStore) GetTenantByUser(ctx context.Context, userID uuid.UUID) (*models.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tenants {
		if t.UserID != nil && *t.UserID == userID {
			return t, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memStore) ListTenants(ctx context.Context) ([]*models.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Tenant{}
	for _, t := range m.tenants {
		out = append(out, t)
	}
	return out, nil
}

func (m *memStore) CreatePayment(ctx context.Context, p *models.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = uuid.New()
	m.payments[p.ID] = p
	return nil
}

func (m *memStore) GetPayment(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.payments[id]; ok {
		return p, nil
	}
	return nil, storage.ErrNotFound
}

func (m *memStore) ListPayments(ctx context.Context, tenantID *uuid.UUID) ([]*models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Payment{}
	for _, p := range m.payments {
		if tenantID == nil || p.TenantID == *tenantID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) SetPaymentPaid(ctx context.Context, id uuid.UUID, paidAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[id]
	if !ok {
		return storage.ErrNotFound
	}
	p.Paid = true
	p.PaidAt = &paidAt
	return nil
}

func (m *memStore) CreateComplaint(ctx context.Context, c *models.Complaint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = uuid.New()
	m.complaints[c.ID] = c
	return nil
}

func (m *memStore) ListComplaints(ctx context.Context, tenantID *uuid.UUID) ([]*models.Complaint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Complaint{}
	for _, c := range m.complaints {
		if tenantID == nil || c.TenantID == *tenantID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) UpdateComplaintStatus(ctx context.Context, id uuid.UUID, status models.ComplaintStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.complaints[id]
	if !ok {
		return storage.ErrNotFound
	}
	c.Status = status
	return nil
}

func (m *memStore) ListEventLogs(ctx context.Context, filters storage.EventLogFilters, limit, offset int) ([]*models.EventLog, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.EventLog{}
	for _, e := range m.events {
		if filters.Type != nil && e.Type != *filters.Type {
			continue
		}
		if filters.TenantID != nil && (e.TenantID == nil || *e.TenantID != *filters.TenantID) {
			continue
		}
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

// stubReminders records trigger calls and returns canned results
type stubReminders struct {
	leaseEvents   []models.SweepEvent
	paymentEvents []models.SweepEvent
	leaseSummary  models.LeaseSummary
	paySummary    models.PaymentSummary
	summaryErr    error

	leaseCalls   int
	paymentCalls int
}

func (s *stubReminders) TriggerLeaseSweep(ctx context.Context) []models.SweepEvent {
	s.leaseCalls++
	return s.leaseEvents
}

func (s *stubReminders) TriggerPaymentSweep(ctx context.Context) []models.SweepEvent {
	s.paymentCalls++
	return s.paymentEvents
}

func (s *stubReminders) LeaseSummary(ctx context.Context, now time.Time) (models.LeaseSummary, error) {
	return s.leaseSummary, s.summaryErr
}

func (s *stubReminders) PaymentSummary(ctx context.Context, now time.Time) (models.PaymentSummary, error) {
	return s.paySummary, s.summaryErr
}
