package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenServiceRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	token, err := svc.Issue("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestTokenServiceExpired(t *testing.T) {
	svc := NewTokenService("test-secret", -time.Minute)

	token, err := svc.Issue("user-123")
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenServiceWrongSecret(t *testing.T) {
	issuer := NewTokenService("secret-a", time.Hour)
	verifier := NewTokenService("secret-b", time.Hour)

	token, err := issuer.Issue("user-123")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenServiceMalformed(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	for _, tokenStr := range []string{"", "garbage", "a.b.c"} {
		_, err := svc.Verify(tokenStr)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", tokenStr)
	}
}
