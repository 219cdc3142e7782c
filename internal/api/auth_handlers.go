package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pg-management/pg-server/internal/models"
	"github.com/pg-management/pg-server/internal/storage"
	"github.com/pg-management/pg-server/internal/validation"
	"github.com/pg-management/pg-server/pkg/crypto"
)

type tokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"`
	TokenType    string       `json:"token_type"`
	Role         models.Role  `json:"role"`
	User         *models.User `json:"user"`
}

func (s *RESTServer) issueTokens(w http.ResponseWriter, user *models.User) {
	accessToken, refreshToken, err := s.auth.GenerateTokenPair(user)
	if err != nil {
		log.Error().Err(err).Msg("Failed to generate tokens")
		s.respondError(w, http.StatusInternalServerError, "failed to generate tokens")
		return
	}

	s.respondJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.config.JWT.AccessTokenTTL.Seconds()),
		TokenType:    "Bearer",
		Role:         user.Role,
		User:         user,
	})
}

// HandleRegister creates a tenant account and occupies the chosen room
func (s *RESTServer) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
		Name     string `json:"name"`
		Phone    string `json:"phone"`
		RoomID   string `json:"room_id" validate:"required,uuid"`
		JoinDate string `json:"join_date" validate:"omitempty,date"`
	}
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	roomID := uuid.MustParse(req.RoomID)
	joinDate, _ := validation.ParseDate(req.JoinDate)
	if joinDate == nil {
		today := s.today()
		joinDate = &today
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid password")
		return
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		Role:         models.RoleTenant,
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = strings.SplitN(req.Email, "@", 2)[0]
	}
	tenant := &models.Tenant{
		Name:     name,
		Phone:    req.Phone,
		JoinDate: joinDate,
		RoomID:   &roomID,
	}

	err = s.withTx(r.Context(), func(tx storage.Store) error {
		if err := tx.CreateUser(r.Context(), user); err != nil {
			return err
		}
		tenant.UserID = &user.ID
		return occupy(r.Context(), tx, tenant)
	})
	switch {
	case errors.Is(err, storage.ErrRoomUnavailable):
		s.respondError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, storage.ErrDuplicateKey):
		s.respondError(w, http.StatusConflict, "email already registered")
		return
	case errors.Is(err, storage.ErrNotFound):
		s.respondError(w, http.StatusNotFound, "room not found")
		return
	case err != nil:
		s.respondStoreError(w, err, "tenant")
		return
	}

	log.Info().
		Str("email", user.Email).
		Str("tenant_id", tenant.ID.String()).
		Str("room_id", roomID.String()).
		Msg("Tenant registered")

	s.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"user":   user,
		"tenant": tenant,
	})
}

// occupy claims the tenant's room and creates the tenant. It must run inside a
// transaction so a failed insert releases the claim.
func occupy(ctx context.Context, tx storage.Store, tenant *models.Tenant) error {
	if err := tx.OccupyRoom(ctx, *tenant.RoomID); err != nil {
		return err
	}
	return tx.CreateTenant(ctx, tenant)
}

// HandleLogin handles user login
func (s *RESTServer) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	// Get user
	user, err := s.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	// Verify password
	if !s.auth.VerifyPassword(req.Password, user.PasswordHash) {
		s.respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	s.issueTokens(w, user)
}

// HandleRefresh handles token refresh
func (s *RESTServer) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
	}
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	userID, err := s.auth.ParseRefreshToken(req.RefreshToken)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	// Reload so role changes take effect on refresh
	user, err := s.store.GetUser(r.Context(), userID)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	s.issueTokens(w, user)
}

// HandleGetCurrentUser returns the caller and, for tenants, their tenant record
func (s *RESTServer) HandleGetCurrentUser(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	user, err := s.store.GetUser(r.Context(), claims.UserID)
	if err != nil {
		s.respondStoreError(w, err, "user")
		return
	}

	resp := map[string]interface{}{"user": user}
	tenant, err := s.store.GetTenantByUser(r.Context(), user.ID)
	switch {
	case err == nil:
		resp["tenant"] = tenant
	case !errors.Is(err, storage.ErrNotFound):
		s.respondStoreError(w, err, "tenant")
		return
	}

	s.respondJSON(w, http.StatusOK, resp)
}

// HandleListUsers lists users
func (s *RESTServer) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	users, total, err := s.store.ListUsers(r.Context(), limit, offset)
	if err != nil {
		s.respondStoreError(w, err, "user")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"users":  users,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// today returns the current calendar day in the reminder time zone
func (s *RESTServer) today() time.Time {
	now := s.now().In(s.config.Reminder.Location())
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
