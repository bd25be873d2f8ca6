// pkg/auth/jwt_test.go
package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_GenerateAndValidate(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	token, err := tm.GenerateSessionToken("user-123", "user@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tm.ValidateSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "user-123", claims.Subject)
}

func TestTokenManager_ValidateExpiredToken(t *testing.T) {
	tm := NewTokenManager("test-secret", -time.Minute)

	token, err := tm.GenerateSessionToken("user-123", "user@example.com")
	require.NoError(t, err)

	_, err = tm.ValidateSessionToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenManager_ValidateWrongSecret(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	other := NewTokenManager("other-secret", time.Hour)

	token, err := tm.GenerateSessionToken("user-123", "user@example.com")
	require.NoError(t, err)

	_, err = other.ValidateSessionToken(token)
	assert.Error(t, err)
}

func TestTokenManager_ValidateGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "not a token", token: "not.a.token"},
		{name: "truncated", token: "eyJhbGciOiJIUzI1NiJ9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tm.ValidateSessionToken(tt.token)
			assert.Error(t, err)
		})
	}
}

func TestTokenManager_RejectsMissingUserID(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	token, err := tm.GenerateSessionToken("", "user@example.com")
	require.NoError(t, err)

	_, err = tm.ValidateSessionToken(token)
	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestTokenManager_SessionDuration(t *testing.T) {
	tm := NewTokenManager("test-secret", 7*24*time.Hour)
	assert.Equal(t, 7*24*time.Hour, tm.SessionDuration())
}
