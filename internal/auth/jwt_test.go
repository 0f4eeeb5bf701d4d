package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	mgr := NewJWTManager("test-secret", time.Hour)

	token, err := mgr.GenerateToken("admin@editing.store", RoleAdmin, StateFullyAuthenticated)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := mgr.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin@editing.store", claims.Email)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Equal(t, StateFullyAuthenticated, claims.State)
	assert.Equal(t, "editing-store", claims.Issuer)
}

func TestJWTManager_WrongSecretRejected(t *testing.T) {
	token, err := NewJWTManager("secret-a", time.Hour).
		GenerateToken("admin@editing.store", "", StatePrimaryVerified)
	require.NoError(t, err)

	_, err = NewJWTManager("secret-b", time.Hour).ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTManager_ExpiredTokenRejected(t *testing.T) {
	mgr := NewJWTManager("test-secret", -time.Minute)

	token, err := mgr.GenerateToken("admin@editing.store", "", StatePrimaryVerified)
	require.NoError(t, err)

	_, err = mgr.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTManager_GarbageRejected(t *testing.T) {
	mgr := NewJWTManager("test-secret", time.Hour)

	_, err := mgr.ValidateToken("not-a-token")
	assert.Error(t, err)
}
