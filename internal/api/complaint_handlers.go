package api

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/pg-management/pg-server/internal/models"
	"github.com/pg-management/pg-server/internal/storage"
)

// HandleCreateComplaint files a complaint against the caller's tenant record
func (s *RESTServer) HandleCreateComplaint(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Category    string `json:"category" validate:"required,max=64"`
		Description string `json:"description" validate:"required"`
	}
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	claims := claimsFrom(r.Context())
	if claims.IsAdmin() {
		s.respondError(w, http.StatusForbidden, "only tenants can raise complaints")
		return
	}

	tenant, err := s.store.GetTenantByUser(r.Context(), claims.UserID)
	if err != nil {
		s.respondStoreError(w, err, "tenant")
		return
	}

	complaint := &models.Complaint{
		TenantID:    tenant.ID,
		Category:    req.Category,
		Description: req.Description,
		Status:      models.ComplaintPending,
	}
	if err := s.store.CreateComplaint(r.Context(), complaint); err != nil {
		s.respondStoreError(w, err, "complaint")
		return
	}

	s.respondJSON(w, http.StatusCreated, complaint)
}

// HandleListComplaints lists every complaint for admins and the caller's own for tenants
func (s *RESTServer) HandleListComplaints(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	var filter *uuid.UUID
	if !claims.IsAdmin() {
		tenant, err := s.store.GetTenantByUser(r.Context(), claims.UserID)
		if errors.Is(err, storage.ErrNotFound) {
			s.respondJSON(w, http.StatusOK, map[string]interface{}{
				"complaints": []*models.Complaint{},
				"total":      0,
			})
			return
		}
		if err != nil {
			s.respondStoreError(w, err, "tenant")
			return
		}
		filter = &tenant.ID
	}

	complaints, err := s.store.ListComplaints(r.Context(), filter)
	if err != nil {
		s.respondStoreError(w, err, "complaint")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"complaints": complaints,
		"total":      len(complaints),
	})
}

// HandleUpdateComplaintStatus moves a complaint through its workflow
func (s *RESTServer) HandleUpdateComplaintStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" validate:"required,oneof=Pending InProgress Resolved"`
	}
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	if err := s.store.UpdateComplaintStatus(r.Context(), id, models.ComplaintStatus(req.Status)); err != nil {
		s.respondStoreError(w, err, "complaint")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"id":     id,
		"status": req.Status,
	})
}
