package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithecoder/SocialM-sub001/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	user := &models.User{ID: 42, Username: "alice"}

	token, err := tm.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tm.Verify(token)
	require.NoError(t, err)

	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "42", claims.Subject)
	assert.NotEmpty(t, claims.ID, "token should carry a unique jti")

	// Expiry is embedded and sits one hour after issuance.
	require.NotNil(t, claims.ExpiresAt)
	require.NotNil(t, claims.IssuedAt)
	assert.Equal(t, time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestVerifyWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a", time.Hour).Issue(&models.User{ID: 1, Username: "alice"})
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyExpiredToken(t *testing.T) {
	tm := NewTokenManager("test-secret", -time.Minute)

	token, err := tm.Issue(&models.User{ID: 1, Username: "alice"})
	require.NoError(t, err)

	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	_, err := tm.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
