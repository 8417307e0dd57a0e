package server

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/candidate-match/internal/config"
)

const testSecret = "test-secret-key-for-jwt-signing-minimum-32-bytes"

func setupTestJWTService(_ *testing.T, expirationHours int) *JWTService {
	return NewJWTService(&config.JWTConfig{
		Secret:          testSecret,
		ExpirationHours: expirationHours,
	})
}

func TestJWTService_RoundTrip(t *testing.T) {
	service := setupTestJWTService(t, 24)

	token, err := service.GenerateToken("ops-team", RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ops-team", claims.Identity())
	assert.True(t, claims.IsAdmin())
	assert.NotEmpty(t, claims.ID)
}

func TestJWTService_NonAdminRole(t *testing.T) {
	service := setupTestJWTService(t, 24)

	token, err := service.GenerateToken("viewer", "reader")
	require.NoError(t, err)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.False(t, claims.IsAdmin())
}

func TestJWTService_Expired(t *testing.T) {
	service := setupTestJWTService(t, 1)
	issued := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return issued }

	token, err := service.GenerateToken("ops", RoleAdmin)
	require.NoError(t, err)

	service.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = service.ValidateToken(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token expired")
}

func TestJWTService_WrongSecret(t *testing.T) {
	token, err := setupTestJWTService(t, 24).GenerateToken("ops", RoleAdmin)
	require.NoError(t, err)

	other := NewJWTService(&config.JWTConfig{Secret: "a-completely-different-secret-value", ExpirationHours: 24})
	_, err = other.ValidateToken(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token signature")
}

func TestJWTService_RejectsOtherAlgorithms(t *testing.T) {
	claims := &Claims{Role: RoleAdmin, RegisteredClaims: jwt.RegisteredClaims{Subject: "ops"}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = setupTestJWTService(t, 24).ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_Malformed(t *testing.T) {
	service := setupTestJWTService(t, 24)

	_, err := service.ValidateToken("")
	assert.Error(t, err)

	_, err = service.ValidateToken("not.a.jwt")
	require.Error(t, err)
}

func TestJWTService_AsTokenValidator(t *testing.T) {
	service := setupTestJWTService(t, 24)
	token, err := service.GenerateToken("ops", RoleAdmin)
	require.NoError(t, err)

	principal, err := service.AsTokenValidator().ValidateToken(token)
	require.NoError(t, err)
	assert.True(t, principal.IsAdmin())

	_, err = service.AsTokenValidator().ValidateToken("garbage")
	assert.Error(t, err)
}
