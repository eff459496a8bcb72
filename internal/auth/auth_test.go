package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUsers = []Credential{
	{Email: "admin@gmail.com", Password: "Admin@123"},
	{Email: "staff@gmail.com", Password: "staff123"},
}

func TestLoginAndAuthenticate(t *testing.T) {
	gate := NewGate(testUsers, NewMemorySessions(), time.Hour)
	ctx := context.Background()

	token, ok := gate.Login(ctx, "staff@gmail.com", "staff123")
	require.True(t, ok)
	require.NotEmpty(t, token)

	email, ok := gate.Authenticate(ctx, token)
	assert.True(t, ok)
	assert.Equal(t, "staff@gmail.com", email)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	gate := NewGate(testUsers, NewMemorySessions(), time.Hour)
	ctx := context.Background()

	_, ok := gate.Login(ctx, "staff@gmail.com", "wrong")
	assert.False(t, ok)

	_, ok = gate.Login(ctx, "nobody@gmail.com", "staff123")
	assert.False(t, ok)
}

func TestLogoutDestroysSession(t *testing.T) {
	gate := NewGate(testUsers, NewMemorySessions(), time.Hour)
	ctx := context.Background()

	token, ok := gate.Login(ctx, "admin@gmail.com", "Admin@123")
	require.True(t, ok)

	gate.Logout(ctx, token)

	_, ok = gate.Authenticate(ctx, token)
	assert.False(t, ok)
}

func TestAuthenticateRejectsEmptyAndUnknownTokens(t *testing.T) {
	gate := NewGate(testUsers, NewMemorySessions(), time.Hour)
	ctx := context.Background()

	_, ok := gate.Authenticate(ctx, "")
	assert.False(t, ok)

	_, ok = gate.Authenticate(ctx, "not-a-token")
	assert.False(t, ok)
}

func TestSessionExpiry(t *testing.T) {
	sessions := NewMemorySessions()
	gate := NewGate(testUsers, sessions, -time.Second)
	ctx := context.Background()

	token, ok := gate.Login(ctx, "admin@gmail.com", "Admin@123")
	require.True(t, ok)

	_, ok = gate.Authenticate(ctx, token)
	assert.False(t, ok, "an expired session must not authenticate")
}
