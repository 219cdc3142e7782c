package models

import (
	"time"

	"github.com/google/uuid"
)

// Tenant represents a person occupying a room.
// The lease end date is derived from JoinDate and the configured lease length.
type Tenant struct {
	BaseModel

	UserID *uuid.UUID `json:"userId,omitempty" db:"user_id"`
	Name   string     `json:"name" db:"name"`
	Phone  string     `json:"phone" db:"phone"`

	JoinDate *time.Time `json:"joinDate,omitempty" db:"join_date"`
	RoomID   *uuid.UUID `json:"roomId,omitempty" db:"room_id"`

	// Personal info, visible to admins only
	Address string `json:"address,omitempty" db:"address"`
	IDInfo  string `json:"idInfo,omitempty" db:"id_info"`
}

// LeaseEnd returns the lease end date for a lease of leaseDays days.
// ok is false when the tenant has no join date.
func (t *Tenant) LeaseEnd(leaseDays int) (end time.Time, ok bool) {
	if t.JoinDate == nil {
		return time.Time{}, false
	}
	return t.JoinDate.AddDate(0, 0, leaseDays), true
}
