package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pg-management/pg-server/internal/config"
	"github.com/pg-management/pg-server/internal/models"
)

func newManager(secret string) *JWTManager {
	return NewJWTManager(&config.JWTConfig{
		Secret:          secret,
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	})
}

func testUser(role models.Role) *models.User {
	u := &models.User{Email: "admin@pg.com", Role: role}
	u.ID = uuid.New()
	return u
}

func TestGenerateAndValidate(t *testing.T) {
	m := newManager("secret")
	user := testUser(models.RoleAdmin)

	access, refresh, err := m.GenerateTokenPair(user)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	claims, err := m.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "admin@pg.com", claims.Email)
	assert.True(t, claims.IsAdmin())
}

func TestValidateToken_WrongSecret(t *testing.T) {
	access, _, err := newManager("secret").GenerateTokenPair(testUser(models.RoleTenant))
	require.NoError(t, err)

	_, err = newManager("other").ValidateToken(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Expired(t *testing.T) {
	m := newManager("secret")
	access, _, err := m.GenerateTokenPair(testUser(models.RoleTenant))
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = m.ValidateToken(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokenIsNotAnAccessToken(t *testing.T) {
	m := newManager("secret")
	user := testUser(models.RoleTenant)
	access, refresh, err := m.GenerateTokenPair(user)
	require.NoError(t, err)

	_, err = m.ValidateToken(refresh)
	assert.Error(t, err, "refresh token carries no user claims")

	id, err := m.ParseRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)

	_, err = m.ParseRefreshToken(access)
	assert.Error(t, err, "access token has no refresh audience")
}
