package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	SetJWTSecret("secret")
	defer SetJWTSecret("")

	token, err := GenerateJWT("cli", time.Minute)
	require.NoError(t, err)

	subject, err := ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "cli", subject)
}

func TestJWTRejectsOtherSecret(t *testing.T) {
	SetJWTSecret("one")
	token, err := GenerateJWT("cli", time.Minute)
	require.NoError(t, err)

	SetJWTSecret("two")
	_, err = ParseJWT(token)
	assert.Error(t, err)

	fallback, err := GenerateJWT("cli", -time.Minute)
	require.NoError(t, err)
	_, err = ParseJWT(fallback)
	assert.NoError(t, err, "non-positive ttl falls back to the default lifetime")

	SetJWTSecret("")
	_, err = GenerateJWT("cli", time.Minute)
	assert.Error(t, err)
	assert.False(t, JWTEnabled())
}
