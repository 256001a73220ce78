package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", hash)

	assert.NoError(t, VerifyPassword(hash, "secret"))
	assert.ErrorIs(t, VerifyPassword(hash, "wrong"), ErrInvalidCredentials)
}

func TestVerifyPassword_EmptyHashNeverMatches(t *testing.T) {
	assert.ErrorIs(t, VerifyPassword("", ""), ErrInvalidCredentials)
	assert.ErrorIs(t, VerifyPassword("", "anything"), ErrInvalidCredentials)
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	first, err := HashPassword("secret")
	require.NoError(t, err)
	second, err := HashPassword("secret")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
