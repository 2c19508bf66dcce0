package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT("secret", 42, "user@example.com", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseJWT("secret", token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
}

func TestJWTWrongSecretRejected(t *testing.T) {
	token, err := GenerateJWT("secret", 42, "user@example.com", time.Hour)
	require.NoError(t, err)

	_, err = ParseJWT("other-secret", token)
	assert.Error(t, err)
}

func TestJWTExpiredRejected(t *testing.T) {
	token, err := GenerateJWT("secret", 42, "user@example.com", -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT("secret", token)
	assert.Error(t, err)
}

func TestJWTGarbageRejected(t *testing.T) {
	_, err := ParseJWT("secret", "not.a.token")
	assert.Error(t, err)
}
