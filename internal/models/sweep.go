package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Monitor names the sweep that produced an event
type Monitor string

const (
	MonitorLease   Monitor = "lease"
	MonitorPayment Monitor = "payment"
)

// SweepEventKind discriminates the SweepEvent variants
type SweepEventKind string

const (
	SweepReminder       SweepEventKind = "reminder"
	SweepRoomFreed      SweepEventKind = "room_freed"
	SweepPaymentSummary SweepEventKind = "payment_summary"
	SweepError          SweepEventKind = "error"
)

// SweepEvent is one result record of a monitor sweep. Only the fields of
// the variant named by Kind are set.
type SweepEvent struct {
	Kind    SweepEventKind `json:"kind"`
	Monitor Monitor        `json:"monitor"`
	At      time.Time      `json:"at"`

	TenantID *uuid.UUID `json:"tenantId,omitempty"`
	RoomID   *uuid.UUID `json:"roomId,omitempty"`

	// Reminder
	Email    string     `json:"email,omitempty"`
	LeaseEnd *time.Time `json:"leaseEnd,omitempty"`
	Sent     bool       `json:"sent,omitempty"`
	Reason   string     `json:"reason,omitempty"`

	// PaymentSummary
	DueToday      int `json:"dueToday,omitempty"`
	TotalUpcoming int `json:"totalUpcoming,omitempty"`
	Recipients    int `json:"recipients,omitempty"`
	Delivered     int `json:"delivered,omitempty"`

	// Error
	Error string `json:"error,omitempty"`
}

// MarshalJSON always writes the fields that define the event's variant, even
// when they hold zero values: the sent flag of a reminder and the counts of a
// payment summary.
func (e SweepEvent) MarshalJSON() ([]byte, error) {
	type plain SweepEvent

	switch e.Kind {
	case SweepReminder:
		return json.Marshal(struct {
			plain
			Sent bool `json:"sent"`
		}{plain(e), e.Sent})
	case SweepPaymentSummary:
		return json.Marshal(struct {
			plain
			DueToday      int `json:"dueToday"`
			TotalUpcoming int `json:"totalUpcoming"`
			Recipients    int `json:"recipients"`
			Delivered     int `json:"delivered"`
		}{plain(e), e.DueToday, e.TotalUpcoming, e.Recipients, e.Delivered})
	default:
		return json.Marshal(plain(e))
	}
}

// IsError reports whether the event is an error record
func (e SweepEvent) IsError() bool {
	return e.Kind == SweepError
}

// EventLog converts the sweep event into a persistable event log entry
func (e SweepEvent) EventLog() *EventLog {
	log := &EventLog{
		CreatedAt: e.At,
		TenantID:  e.TenantID,
		RoomID:    e.RoomID,
		Level:     EventLevelInfo,
		Code:      string(e.Monitor) + "." + string(e.Kind),
		Details:   Attributes{"monitor": string(e.Monitor)},
	}

	switch e.Kind {
	case SweepReminder:
		log.Type = EventTypeLeaseReminder
		log.Details["email"] = e.Email
		log.Details["sent"] = e.Sent
		if e.LeaseEnd != nil {
			log.Details["leaseEnd"] = e.LeaseEnd.Format(DateLayout)
		}
		if e.Sent {
			log.Description = fmt.Sprintf("Lease reminder sent to %s", e.Email)
		} else {
			log.Level = EventLevelWarning
			log.Description = fmt.Sprintf("Lease reminder not sent: %s", e.Reason)
			log.Details["reason"] = e.Reason
		}
	case SweepRoomFreed:
		log.Type = EventTypeRoomFreed
		log.Description = "Room released after lease expiry"
	case SweepPaymentSummary:
		log.Type = EventTypePaymentDigest
		log.Description = fmt.Sprintf("Payments due today: %d, upcoming: %d", e.DueToday, e.TotalUpcoming)
		log.Details["dueToday"] = e.DueToday
		log.Details["totalUpcoming"] = e.TotalUpcoming
		log.Details["recipients"] = e.Recipients
		log.Details["delivered"] = e.Delivered
	default:
		log.Type = EventTypeSweepError
		log.Level = EventLevelError
		log.Description = e.Error
	}

	return log
}

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// DateCount is one bucket of an upcoming-dates histogram
type DateCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// LeaseSummary summarises tenants leaving today and within the upcoming window
type LeaseSummary struct {
	LeavingToday  int         `json:"leavingToday"`
	TotalUpcoming int         `json:"totalUpcoming"`
	Upcoming      []DateCount `json:"upcoming"`
}

// PaymentSummary summarises unpaid payments due today and within the upcoming window
type PaymentSummary struct {
	DueToday      int         `json:"dueToday"`
	TotalUpcoming int         `json:"totalUpcoming"`
	Upcoming      []DateCount `json:"upcoming"`
}
