package models

import (
	"time"

	"github.com/google/uuid"
)

// EventLog represents a persisted sweep event
type EventLog struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	TenantID *uuid.UUID `json:"tenantId,omitempty" db:"tenant_id"`
	RoomID   *uuid.UUID `json:"roomId,omitempty" db:"room_id"`

	Type        EventType  `json:"type" db:"type"`
	Level       EventLevel `json:"level" db:"level"`
	Code        string     `json:"code" db:"code"`
	Description string     `json:"description" db:"description"`

	Details Attributes `json:"details,omitempty" db:"details"`
}

// EventType represents event types
type EventType string

const (
	EventTypeLeaseReminder EventType = "LEASE_REMINDER"
	EventTypeRoomFreed     EventType = "ROOM_FREED"
	EventTypePaymentDigest EventType = "PAYMENT_DIGEST"
	EventTypeSweepError    EventType = "SWEEP_ERROR"
)

// EventLevel represents event severity levels
type EventLevel string

const (
	EventLevelDebug   EventLevel = "DEBUG"
	EventLevelInfo    EventLevel = "INFO"
	EventLevelWarning EventLevel = "WARNING"
	EventLevelError   EventLevel = "ERROR"
)
