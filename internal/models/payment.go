package models

import (
	"time"

	"github.com/google/uuid"
)

// Payment represents a rent payment for one billing period
type Payment struct {
	BaseModel

	TenantID uuid.UUID `json:"tenantId" db:"tenant_id"`
	Month    string    `json:"month" db:"month"`
	Amount   int       `json:"amount" db:"amount"`
	Paid     bool      `json:"paid" db:"paid"`

	// Older rows may have no due date
	DueDate *time.Time `json:"dueDate,omitempty" db:"due_date"`
	PaidAt  *time.Time `json:"paidAt,omitempty" db:"paid_at"`
}

// Status returns the display status of the payment
func (p *Payment) Status() string {
	if p.Paid {
		return "PAID"
	}
	return "PENDING"
}
