package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	u, err := CreateUser("alice", "alice@example.com", "s3cretpass")
	require.NoError(t, err)

	assert.Equal(t, ROLE_USER, u.Role)
	assert.Equal(t, STATUS_INACTIVE, u.Status)
	assert.NotEqual(t, "s3cretpass", u.Password)
	assert.True(t, CheckPasswordHash("s3cretpass", u.Password))
	assert.False(t, CheckPasswordHash("wrong", u.Password))
}

func TestCreateUserValidation(t *testing.T) {
	tests := []struct {
		name     string
		username string
		email    string
	}{
		{"short name", "ab", "ok@example.com"},
		{"bad email", "alice", "not-an-email"},
		{"empty email", "alice", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CreateUser(tt.username, tt.email, "s3cretpass")
			assert.Error(t, err)
		})
	}
}

func TestGenerateActivationToken(t *testing.T) {
	u := &User{Name: "alice", Email: "alice@example.com"}

	require.NoError(t, u.GenerateActivationToken())

	assert.Len(t, u.ActivationToken, 64)
	assert.NotNil(t, u.ActivationSentAt)

	first := u.ActivationToken
	require.NoError(t, u.GenerateActivationToken())
	assert.NotEqual(t, first, u.ActivationToken)
}

func TestIsDisabled(t *testing.T) {
	assert.True(t, (&User{Status: STATUS_DISABLED}).IsDisabled())
	assert.False(t, (&User{Status: STATUS_ACTIVE}).IsDisabled())
	assert.False(t, (&User{Status: STATUS_INACTIVE}).IsDisabled())
}
