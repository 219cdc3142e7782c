package models

import (
	"github.com/google/uuid"
)

// ComplaintStatus represents the handling state of a complaint
type ComplaintStatus string

const (
	ComplaintPending    ComplaintStatus = "Pending"
	ComplaintInProgress ComplaintStatus = "InProgress"
	ComplaintResolved   ComplaintStatus = "Resolved"
)

// Valid reports whether s is a known complaint status
func (s ComplaintStatus) Valid() bool {
	switch s {
	case ComplaintPending, ComplaintInProgress, ComplaintResolved:
		return true
	}
	return false
}

// Complaint represents a maintenance complaint raised by a tenant
type Complaint struct {
	BaseModel

	TenantID    uuid.UUID       `json:"tenantId" db:"tenant_id"`
	Category    string          `json:"category" db:"category"`
	Description string          `json:"description" db:"description"`
	Status      ComplaintStatus `json:"status" db:"status"`
}
