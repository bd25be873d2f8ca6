// pkg/auth/password_test.go
package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordManager_HashAndCompare(t *testing.T) {
	pm := NewPasswordManager()

	hash, err := pm.HashPassword("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)

	assert.NoError(t, pm.ComparePassword(hash, "secret1"))
	assert.Error(t, pm.ComparePassword(hash, "wrong-pass"))
}

func TestPasswordManager_ValidatePassword(t *testing.T) {
	pm := NewPasswordManager()

	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{name: "long enough", password: "secret"},
		{name: "exactly six", password: "123456"},
		{name: "too short", password: "12345", wantErr: ErrWeakPassword},
		{name: "empty", password: "", wantErr: ErrWeakPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := pm.ValidatePassword(tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestPasswordManager_HashRejectsWeakPassword(t *testing.T) {
	pm := NewPasswordManager()

	_, err := pm.HashPassword("12345")
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{name: "plain address", email: "user@example.com"},
		{name: "with plus tag", email: "user+tag@example.com"},
		{name: "subdomain", email: "user@mail.example.co.uk"},
		{name: "missing at", email: "userexample.com", wantErr: true},
		{name: "missing domain", email: "user@", wantErr: true},
		{name: "missing tld", email: "user@example", wantErr: true},
		{name: "empty", email: "", wantErr: true},
		{name: "spaces", email: "user name@example.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
