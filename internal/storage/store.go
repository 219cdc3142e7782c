package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/pg-management/pg-server/internal/models"
)

// Common errors
var (
	ErrNotFound     = errors.New("not found")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrInvalidData  = errors.New("invalid data")

	// ErrRoomUnavailable is returned when claiming a room that is already taken
	ErrRoomUnavailable = errors.New("room is not available")
)

// Store defines the storage interface
type Store interface {
	// Transaction support
	BeginTx(ctx context.Context) (Store, error)
	Commit() error
	Rollback() error

	// User methods
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, int64, error)
	ListUsersByRole(ctx context.Context, role models.Role) ([]*models.User, error)

	// Room methods
	CreateRoom(ctx context.Context, room *models.Room) error
	GetRoom(ctx context.Context, id uuid.UUID) (*models.Room, error)
	ListRooms(ctx context.Context, status *models.RoomStatus) ([]*models.Room, error)
	SetRoomStatus(ctx context.Context, id uuid.UUID, status models.RoomStatus) error
	OccupyRoom(ctx context.Context, id uuid.UUID) error

	// Tenant methods
	CreateTenant(ctx context.Context, tenant *models.Tenant) error
	GetTenant(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	GetTenantByUser(ctx context.Context, userID uuid.UUID) (*models.Tenant, error)
	ListTenants(ctx context.Context) ([]*models.Tenant, error)

	// Payment methods
	CreatePayment(ctx context.Context, payment *models.Payment) error
	GetPayment(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	ListPayments(ctx context.Context, tenantID *uuid.UUID) ([]*models.Payment, error)
	ListUnpaidPayments(ctx context.Context) ([]*models.Payment, error)
	SetPaymentPaid(ctx context.Context, id uuid.UUID, paidAt time.Time) error

	// Complaint methods
	CreateComplaint(ctx context.Context, complaint *models.Complaint) error
	ListComplaints(ctx context.Context, tenantID *uuid.UUID) ([]*models.Complaint, error)
	UpdateComplaintStatus(ctx context.Context, id uuid.UUID, status models.ComplaintStatus) error

	// Event log methods
	CreateEventLog(ctx context.Context, event *models.EventLog) error
	ListEventLogs(ctx context.Context, filters EventLogFilters, limit, offset int) ([]*models.EventLog, int64, error)

	// Schema
	Migrate(ctx context.Context) ([]string, error)

	// Close the store
	Close() error
}

// EventLogFilters represents filters for event logs
type EventLogFilters struct {
	TenantID  *uuid.UUID
	RoomID    *uuid.UUID
	Type      *models.EventType
	Level     *models.EventLevel
	StartTime *time.Time
	EndTime   *time.Time
}
