package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pg-management/pg-server/internal/models"
	"github.com/pg-management/pg-server/internal/storage"
	"github.com/pg-management/pg-server/internal/validation"
)

// HandleCreatePayment records a rent payment for a tenant
func (s *RESTServer) HandleCreatePayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TenantID string `json:"tenant_id" validate:"required,uuid"`
		Month    string `json:"month" validate:"required"`
		Amount   int    `json:"amount" validate:"min=0"`
		Paid     bool   `json:"paid"`
		DueDate  string `json:"due_date" validate:"omitempty,date"`
	}
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	tenantID := uuid.MustParse(req.TenantID)
	if _, err := s.store.GetTenant(r.Context(), tenantID); err != nil {
		s.respondStoreError(w, err, "tenant")
		return
	}

	dueDate, _ := validation.ParseDate(req.DueDate)
	payment := &models.Payment{
		TenantID: tenantID,
		Month:    req.Month,
		Amount:   req.Amount,
		Paid:     req.Paid,
		DueDate:  dueDate,
	}
	if req.Paid {
		now := s.now().UTC()
		payment.PaidAt = &now
	}

	if err := s.store.CreatePayment(r.Context(), payment); err != nil {
		s.respondStoreError(w, err, "payment")
		return
	}

	s.respondJSON(w, http.StatusCreated, payment)
}

// HandleListPayments lists every payment for admins and the caller's own for tenants
func (s *RESTServer) HandleListPayments(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	var filter *uuid.UUID
	if !claims.IsAdmin() {
		tenant, err := s.store.GetTenantByUser(r.Context(), claims.UserID)
		if errors.Is(err, storage.ErrNotFound) {
			s.respondJSON(w, http.StatusOK, map[string]interface{}{
				"payments": []*models.Payment{},
				"total":    0,
			})
			return
		}
		if err != nil {
			s.respondStoreError(w, err, "tenant")
			return
		}
		filter = &tenant.ID
	}

	payments, err := s.store.ListPayments(r.Context(), filter)
	if err != nil {
		s.respondStoreError(w, err, "payment")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"payments": payments,
		"total":    len(payments),
	})
}

// HandleMarkPaymentPaid sets the paid flag of a payment
func (s *RESTServer) HandleMarkPaymentPaid(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	if err := s.store.SetPaymentPaid(r.Context(), id, s.now().UTC()); err != nil {
		s.respondStoreError(w, err, "payment")
		return
	}

	payment, err := s.store.GetPayment(r.Context(), id)
	if err != nil {
		s.respondStoreError(w, err, "payment")
		return
	}

	log.Info().Str("payment_id", id.String()).Msg("Payment marked paid")
	s.respondJSON(w, http.StatusOK, payment)
}

// Receipt is the printable summary of one payment
type Receipt struct {
	ReceiptID     string `json:"receipt_id"`
	ReceiptNumber string `json:"receipt_number"`
	ReceiptDate   string `json:"receipt_date"`
	Organization  string `json:"organization"`

	TenantName  string `json:"tenant_name"`
	TenantEmail string `json:"tenant_email"`
	TenantPhone string `json:"tenant_phone"`
	RoomNo      string `json:"room_no"`
	RoomType    string `json:"room_type"`

	PaymentMonth  string `json:"payment_month"`
	RentAmount    int    `json:"rent_amount"`
	PaymentStatus string `json:"payment_status"`
	PaymentDate   string `json:"payment_date,omitempty"`
}

// HandleGetReceipt builds the receipt of a payment
func (s *RESTServer) HandleGetReceipt(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	payment, err := s.store.GetPayment(ctx, id)
	if err != nil {
		s.respondStoreError(w, err, "payment")
		return
	}

	tenant, err := s.store.GetTenant(ctx, payment.TenantID)
	if err != nil {
		s.respondStoreError(w, err, "tenant")
		return
	}
	if !ownsTenant(claimsFrom(ctx), tenant) {
		s.respondError(w, http.StatusForbidden, "access denied")
		return
	}

	receipt := Receipt{
		ReceiptID:     payment.ID.String(),
		ReceiptNumber: "RCP-" + strings.ToUpper(strings.ReplaceAll(payment.ID.String(), "-", "")[:10]),
		ReceiptDate:   s.now().UTC().Format(models.DateLayout),
		Organization:  s.config.Server.Name,
		TenantName:    tenant.Name,
		TenantPhone:   tenant.Phone,
		PaymentMonth:  payment.Month,
		RentAmount:    payment.Amount,
		PaymentStatus: payment.Status(),
	}
	if payment.PaidAt != nil {
		receipt.PaymentDate = payment.PaidAt.Format(models.DateLayout)
	}

	if tenant.UserID != nil {
		if user, err := s.store.GetUser(ctx, *tenant.UserID); err == nil {
			receipt.TenantEmail = user.Email
		}
	}
	if tenant.RoomID != nil {
		room, err := s.store.GetRoom(ctx, *tenant.RoomID)
		if err == nil {
			receipt.RoomNo = room.RoomNo
			receipt.RoomType = room.RoomType
		} else if !errors.Is(err, storage.ErrNotFound) {
			s.respondStoreError(w, err, "room")
			return
		}
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", receipt.ReceiptNumber+".json"))
	s.respondJSON(w, http.StatusOK, receipt)
}
