package api

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pg-management/pg-server/internal/auth"
	"github.com/pg-management/pg-server/internal/models"
	"github.com/pg-management/pg-server/internal/storage"
	"github.com/pg-management/pg-server/internal/validation"
)

// HandleCreateTenant adds a tenant record and occupies its room.
// Admins may add a tenant for any user; tenants may only add their own record.
func (s *RESTServer) HandleCreateTenant(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID   string `json:"user_id" validate:"omitempty,uuid"`
		Name     string `json:"name" validate:"required"`
		Phone    string `json:"phone"`
		RoomID   string `json:"room_id" validate:"required,uuid"`
		JoinDate string `json:"join_date" validate:"omitempty,date"`
		Address  string `json:"address"`
		IDInfo   string `json:"id_info"`
	}
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	claims := claimsFrom(r.Context())
	ctx := r.Context()

	var userID *uuid.UUID
	if claims.IsAdmin() {
		if req.UserID != "" {
			id := uuid.MustParse(req.UserID)
			if _, err := s.store.GetUser(ctx, id); err != nil {
				s.respondStoreError(w, err, "user")
				return
			}
			userID = &id
		}
	} else {
		id := claims.UserID
		userID = &id
		if _, err := s.store.GetTenantByUser(ctx, id); err == nil {
			s.respondError(w, http.StatusConflict, "tenant record already exists")
			return
		} else if !errors.Is(err, storage.ErrNotFound) {
			s.respondStoreError(w, err, "tenant")
			return
		}
	}

	roomID := uuid.MustParse(req.RoomID)
	joinDate, _ := validation.ParseDate(req.JoinDate)
	if joinDate == nil {
		today := s.today()
		joinDate = &today
	}

	tenant := &models.Tenant{
		UserID:   userID,
		Name:     req.Name,
		Phone:    req.Phone,
		JoinDate: joinDate,
		RoomID:   &roomID,
		Address:  req.Address,
		IDInfo:   req.IDInfo,
	}

	err := s.withTx(ctx, func(tx storage.Store) error {
		return occupy(ctx, tx, tenant)
	})
	switch {
	case errors.Is(err, storage.ErrRoomUnavailable):
		s.respondError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, storage.ErrNotFound):
		s.respondError(w, http.StatusNotFound, "room not found")
		return
	case err != nil:
		s.respondStoreError(w, err, "tenant")
		return
	}

	log.Info().
		Str("tenant_id", tenant.ID.String()).
		Str("room_id", roomID.String()).
		Msg("Tenant added")

	s.respondJSON(w, http.StatusCreated, tenant)
}

// HandleListTenants lists every tenant for admins and the caller's own record for tenants
func (s *RESTServer) HandleListTenants(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	var tenants []*models.Tenant
	if claims.IsAdmin() {
		all, err := s.store.ListTenants(r.Context())
		if err != nil {
			s.respondStoreError(w, err, "tenant")
			return
		}
		tenants = all
	} else {
		own, err := s.store.GetTenantByUser(r.Context(), claims.UserID)
		switch {
		case err == nil:
			tenants = []*models.Tenant{own}
		case errors.Is(err, storage.ErrNotFound):
			tenants = []*models.Tenant{}
		default:
			s.respondStoreError(w, err, "tenant")
			return
		}
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"tenants": tenants,
		"total":   len(tenants),
	})
}

// HandleGetTenant gets a tenant
func (s *RESTServer) HandleGetTenant(w http.ResponseWriter, r *http.Request) {
	tenant, ok := s.accessibleTenant(w, r)
	if !ok {
		return
	}
	s.respondJSON(w, http.StatusOK, tenant)
}

// HandleListTenantPayments lists the payments of one tenant
func (s *RESTServer) HandleListTenantPayments(w http.ResponseWriter, r *http.Request) {
	tenant, ok := s.accessibleTenant(w, r)
	if !ok {
		return
	}

	payments, err := s.store.ListPayments(r.Context(), &tenant.ID)
	if err != nil {
		s.respondStoreError(w, err, "payment")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"tenant":   tenant,
		"payments": payments,
		"total":    len(payments),
	})
}

// accessibleTenant loads the {id} tenant and enforces that non-admins only see their own
func (s *RESTServer) accessibleTenant(w http.ResponseWriter, r *http.Request) (*models.Tenant, bool) {
	id, ok := s.pathID(w, r)
	if !ok {
		return nil, false
	}

	tenant, err := s.store.GetTenant(r.Context(), id)
	if err != nil {
		s.respondStoreError(w, err, "tenant")
		return nil, false
	}

	if !ownsTenant(claimsFrom(r.Context()), tenant) {
		s.respondError(w, http.StatusForbidden, "access denied")
		return nil, false
	}
	return tenant, true
}

// ownsTenant reports whether the caller may read the tenant's records
func ownsTenant(claims *auth.Claims, tenant *models.Tenant) bool {
	if claims.IsAdmin() {
		return true
	}
	return tenant.UserID != nil && *tenant.UserID == claims.UserID
}
